// Package dsl provides terse constructors for first-order terms and
// sentences, mostly useful for tests and examples.
package dsl

import (
	"github.com/herbrand/fol-engine/logic"
)

func Terms(terms ...logic.Term) []logic.Term {
	return terms
}

func Const(name string) logic.Constant {
	return logic.Constant{Name: name}
}

func Var(name string) logic.Var {
	return logic.NewVar(name)
}

func Fn(functor string, args ...logic.Term) *logic.Function {
	return logic.NewFunction(functor, args...)
}

func Pred(functor string, args ...logic.Term) *logic.Predicate {
	return logic.NewPredicate(functor, args...)
}

func Not(s logic.Sentence) logic.Sentence {
	return logic.NewNot(s)
}

// And folds the given sentences into a left-nested conjunction.
func And(first, second logic.Sentence, rest ...logic.Sentence) logic.Sentence {
	s := logic.Sentence(logic.NewAnd(first, second))
	for _, r := range rest {
		s = logic.NewAnd(s, r)
	}
	return s
}

// Or folds the given sentences into a left-nested disjunction.
func Or(first, second logic.Sentence, rest ...logic.Sentence) logic.Sentence {
	s := logic.Sentence(logic.NewOr(first, second))
	for _, r := range rest {
		s = logic.NewOr(s, r)
	}
	return s
}

func Implies(antecedent, consequent logic.Sentence) logic.Sentence {
	return logic.NewImplies(antecedent, consequent)
}

func Iff(left, right logic.Sentence) logic.Sentence {
	return logic.NewIff(left, right)
}

// ForAll quantifies body universally over each var, outermost first.
func ForAll(x logic.Var, body logic.Sentence, more ...logic.Var) logic.Sentence {
	xs := append([]logic.Var{x}, more...)
	s := body
	for i := len(xs) - 1; i >= 0; i-- {
		s = logic.NewForAll(xs[i], s)
	}
	return s
}

// Exists quantifies body existentially over each var, outermost first.
func Exists(x logic.Var, body logic.Sentence, more ...logic.Var) logic.Sentence {
	xs := append([]logic.Var{x}, more...)
	s := body
	for i := len(xs) - 1; i >= 0; i-- {
		s = logic.NewExists(xs[i], s)
	}
	return s
}

func Lit(p *logic.Predicate) logic.Literal {
	return logic.Pos(p)
}

func NegLit(p *logic.Predicate) logic.Literal {
	return logic.Neg(p)
}

func Sentences(sentences ...logic.Sentence) []logic.Sentence {
	return sentences
}
