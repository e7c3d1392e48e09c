// Package cnf implements conversion of first-order sentences to
// conjunctive normal form, and the clause operations that resolution and
// chaining are built on.
//
// Convert applies a fixed chain of transformations: equivalence
// elimination, implication elimination, negation normal form,
// standardisation apart, Skolemisation, and finally dropping universal
// quantifiers and distributing ∨ over ∧. Each transformation returns the
// original node when nothing beneath it changed, so unchanged subtrees
// are shared between input and output.
package cnf

import (
	"fmt"

	"github.com/herbrand/fol-engine/logic"
)

// Convert brings s into conjunctive normal form. The pipeline is total
// over well-formed sentences: it cannot fail.
func Convert(s logic.Sentence) Sentence {
	t := eliminateIff(s)
	t = eliminateImplies(t)
	t = toNNF(t)
	t = standardizeApart(t, s)
	t = skolemize(t, s)
	t = dropUniversals(t)
	t = distributeOr(t)
	var clauses []Clause
	clauses = collectClauses(t, clauses)
	return NewSentence(clauses...)
}

// mapChildren rebuilds s with rec applied to each child sentence,
// returning s itself when no child changes.
func mapChildren(s logic.Sentence, rec func(logic.Sentence) logic.Sentence) logic.Sentence {
	switch u := s.(type) {
	case *logic.Predicate:
		return u
	case *logic.Not:
		if op := rec(u.Operand); op != u.Operand {
			return logic.NewNot(op)
		}
		return u
	case *logic.And:
		l, r := rec(u.Left), rec(u.Right)
		if l != u.Left || r != u.Right {
			return logic.NewAnd(l, r)
		}
		return u
	case *logic.Or:
		l, r := rec(u.Left), rec(u.Right)
		if l != u.Left || r != u.Right {
			return logic.NewOr(l, r)
		}
		return u
	case *logic.Implies:
		a, c := rec(u.Antecedent), rec(u.Consequent)
		if a != u.Antecedent || c != u.Consequent {
			return logic.NewImplies(a, c)
		}
		return u
	case *logic.Iff:
		l, r := rec(u.Left), rec(u.Right)
		if l != u.Left || r != u.Right {
			return logic.NewIff(l, r)
		}
		return u
	case *logic.ForAll:
		if body := rec(u.Body); body != u.Body {
			return logic.NewForAll(u.Variable, body)
		}
		return u
	case *logic.Exists:
		if body := rec(u.Body); body != u.Body {
			return logic.NewExists(u.Variable, body)
		}
		return u
	default:
		panic(fmt.Sprintf("cnf: unhandled sentence type %T", s))
	}
}

// eliminateIff rewrites A ⇔ B to (A ⇒ B) ∧ (B ⇒ A).
func eliminateIff(s logic.Sentence) logic.Sentence {
	if u, ok := s.(*logic.Iff); ok {
		l := eliminateIff(u.Left)
		r := eliminateIff(u.Right)
		return logic.NewAnd(logic.NewImplies(l, r), logic.NewImplies(r, l))
	}
	return mapChildren(s, eliminateIff)
}

// eliminateImplies rewrites A ⇒ B to ¬A ∨ B.
func eliminateImplies(s logic.Sentence) logic.Sentence {
	if u, ok := s.(*logic.Implies); ok {
		a := eliminateImplies(u.Antecedent)
		c := eliminateImplies(u.Consequent)
		return logic.NewOr(logic.NewNot(a), c)
	}
	return mapChildren(s, eliminateImplies)
}

// toNNF drives negations inward until they apply only to predicates:
// double negations cancel, De Morgan distributes over ∧ and ∨, and
// negated quantifiers flip.
func toNNF(s logic.Sentence) logic.Sentence {
	u, ok := s.(*logic.Not)
	if !ok {
		return mapChildren(s, toNNF)
	}
	switch v := u.Operand.(type) {
	case *logic.Predicate:
		return u
	case *logic.Not:
		return toNNF(v.Operand)
	case *logic.And:
		return logic.NewOr(toNNF(logic.NewNot(v.Left)), toNNF(logic.NewNot(v.Right)))
	case *logic.Or:
		return logic.NewAnd(toNNF(logic.NewNot(v.Left)), toNNF(logic.NewNot(v.Right)))
	case *logic.ForAll:
		return logic.NewExists(v.Variable, toNNF(logic.NewNot(v.Body)))
	case *logic.Exists:
		return logic.NewForAll(v.Variable, toNNF(logic.NewNot(v.Body)))
	default:
		panic(fmt.Sprintf("cnf: negation of %T after implication elimination", u.Operand))
	}
}

// standardizeApart renames every quantified variable to a fresh
// standardised variable carrying source as provenance. Distinct
// quantifiers yield distinct variables even when they bound the same
// name.
func standardizeApart(s, source logic.Sentence) logic.Sentence {
	env := make(map[logic.Var]logic.Var)
	return standardize(s, env, source)
}

func standardize(s logic.Sentence, env map[logic.Var]logic.Var, source logic.Sentence) logic.Sentence {
	switch u := s.(type) {
	case *logic.Predicate:
		return renamePredicate(u, env)
	case *logic.ForAll:
		fresh := logic.StandardizeVar(u.Variable, source)
		prev, shadowed := env[u.Variable]
		env[u.Variable] = fresh
		body := standardize(u.Body, env, source)
		if shadowed {
			env[u.Variable] = prev
		} else {
			delete(env, u.Variable)
		}
		return logic.NewForAll(fresh, body)
	case *logic.Exists:
		fresh := logic.StandardizeVar(u.Variable, source)
		prev, shadowed := env[u.Variable]
		env[u.Variable] = fresh
		body := standardize(u.Body, env, source)
		if shadowed {
			env[u.Variable] = prev
		} else {
			delete(env, u.Variable)
		}
		return logic.NewExists(fresh, body)
	default:
		return mapChildren(s, func(child logic.Sentence) logic.Sentence {
			return standardize(child, env, source)
		})
	}
}

func renamePredicate(p *logic.Predicate, env map[logic.Var]logic.Var) *logic.Predicate {
	if p.IsGround() || len(env) == 0 {
		return p
	}
	args := make([]logic.Term, len(p.Args))
	changed := false
	for i, arg := range p.Args {
		args[i] = renameTerm(arg, env)
		if args[i] != arg {
			changed = true
		}
	}
	if !changed {
		return p
	}
	return p.WithArgs(args)
}

func renameTerm(t logic.Term, env map[logic.Var]logic.Var) logic.Term {
	switch u := t.(type) {
	case logic.Constant:
		return u
	case logic.Var:
		if fresh, ok := env[u]; ok {
			return fresh
		}
		return u
	case *logic.Function:
		if logic.Ground(u) {
			return u
		}
		args := make([]logic.Term, len(u.Args))
		changed := false
		for i, arg := range u.Args {
			args[i] = renameTerm(arg, env)
			if args[i] != arg {
				changed = true
			}
		}
		if !changed {
			return u
		}
		return u.WithArgs(args)
	default:
		panic(fmt.Sprintf("cnf: unhandled term type %T", t))
	}
}

// skolemize replaces each existentially-quantified variable with a fresh
// Skolem function of the universally-quantified variables in scope, and
// drops the existential quantifier.
func skolemize(s, source logic.Sentence) logic.Sentence {
	env := make(map[logic.Var]logic.Term)
	return skolemizeScope(s, nil, env, source)
}

func skolemizeScope(s logic.Sentence, universals []logic.Var, env map[logic.Var]logic.Term, source logic.Sentence) logic.Sentence {
	switch u := s.(type) {
	case *logic.Predicate:
		return substitutePredicate(u, env)
	case *logic.ForAll:
		body := skolemizeScope(u.Body, append(universals, u.Variable), env, source)
		if body == u.Body {
			return u
		}
		return logic.NewForAll(u.Variable, body)
	case *logic.Exists:
		args := make([]logic.Term, len(universals))
		for i, x := range universals {
			args[i] = x
		}
		env[u.Variable] = logic.NewSkolemFunction(u.Variable, source, args...)
		body := skolemizeScope(u.Body, universals, env, source)
		delete(env, u.Variable)
		return body
	default:
		return mapChildren(s, func(child logic.Sentence) logic.Sentence {
			return skolemizeScope(child, universals, env, source)
		})
	}
}

func substitutePredicate(p *logic.Predicate, env map[logic.Var]logic.Term) *logic.Predicate {
	if p.IsGround() || len(env) == 0 {
		return p
	}
	args := make([]logic.Term, len(p.Args))
	changed := false
	for i, arg := range p.Args {
		args[i] = substituteTerm(arg, env)
		if args[i] != arg {
			changed = true
		}
	}
	if !changed {
		return p
	}
	return p.WithArgs(args)
}

func substituteTerm(t logic.Term, env map[logic.Var]logic.Term) logic.Term {
	switch u := t.(type) {
	case logic.Constant:
		return u
	case logic.Var:
		if repl, ok := env[u]; ok {
			return repl
		}
		return u
	case *logic.Function:
		if logic.Ground(u) {
			return u
		}
		args := make([]logic.Term, len(u.Args))
		changed := false
		for i, arg := range u.Args {
			args[i] = substituteTerm(arg, env)
			if args[i] != arg {
				changed = true
			}
		}
		if !changed {
			return u
		}
		return u.WithArgs(args)
	default:
		panic(fmt.Sprintf("cnf: unhandled term type %T", t))
	}
}

// dropUniversals removes the remaining universal quantifiers; every
// variable left in the sentence is implicitly universal.
func dropUniversals(s logic.Sentence) logic.Sentence {
	if u, ok := s.(*logic.ForAll); ok {
		return dropUniversals(u.Body)
	}
	return mapChildren(s, dropUniversals)
}

// distributeOr applies A ∨ (B ∧ C) ↦ (A ∨ B) ∧ (A ∨ C) and its mirror to
// fixed point.
func distributeOr(s logic.Sentence) logic.Sentence {
	switch u := s.(type) {
	case *logic.And:
		l, r := distributeOr(u.Left), distributeOr(u.Right)
		if l != u.Left || r != u.Right {
			return logic.NewAnd(l, r)
		}
		return u
	case *logic.Or:
		l, r := distributeOr(u.Left), distributeOr(u.Right)
		if a, ok := l.(*logic.And); ok {
			return distributeOr(logic.NewAnd(logic.NewOr(a.Left, r), logic.NewOr(a.Right, r)))
		}
		if a, ok := r.(*logic.And); ok {
			return distributeOr(logic.NewAnd(logic.NewOr(l, a.Left), logic.NewOr(l, a.Right)))
		}
		if l != u.Left || r != u.Right {
			return logic.NewOr(l, r)
		}
		return u
	default:
		return s
	}
}

// collectClauses gathers each maximal ∨-chain beneath the top-level
// ∧-tree into a clause.
func collectClauses(s logic.Sentence, clauses []Clause) []Clause {
	if u, ok := s.(*logic.And); ok {
		clauses = collectClauses(u.Left, clauses)
		return collectClauses(u.Right, clauses)
	}
	var lits []logic.Literal
	lits = collectLiterals(s, lits)
	return append(clauses, NewClause(lits...))
}

func collectLiterals(s logic.Sentence, lits []logic.Literal) []logic.Literal {
	switch u := s.(type) {
	case *logic.Or:
		lits = collectLiterals(u.Left, lits)
		return collectLiterals(u.Right, lits)
	case *logic.Not:
		p, ok := u.Operand.(*logic.Predicate)
		if !ok {
			panic(fmt.Sprintf("cnf: negation of %T in distributed sentence", u.Operand))
		}
		return append(lits, logic.Neg(p))
	case *logic.Predicate:
		return append(lits, logic.Pos(u))
	default:
		panic(fmt.Sprintf("cnf: %T in distributed sentence", s))
	}
}
