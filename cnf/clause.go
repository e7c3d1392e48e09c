package cnf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"
)

// Clause is a disjunction of literals, kept as a deterministically
// ordered sequence.
//
// Literals are ordered by their structural hash, with equal duplicates
// collapsed. Two logically equal clauses whose literals collide on hash
// may therefore order differently and compare unequal; a content-derived
// total order would be sounder, but the hash order is kept as the
// canonical form.
type Clause struct {
	lits []logic.Literal
}

// NewClause builds a clause from the given literals, ordering them and
// collapsing duplicates.
func NewClause(lits ...logic.Literal) Clause {
	type hashed struct {
		lit  logic.Literal
		hash uint64
	}
	ordered := make([]hashed, len(lits))
	for i, l := range lits {
		ordered[i] = hashed{lit: l, hash: l.Hash()}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].hash < ordered[j].hash
	})
	var out []logic.Literal
	for i, h := range ordered {
		dup := false
		for j := i - 1; j >= 0 && ordered[j].hash == h.hash; j-- {
			if ordered[j].lit.Eq(h.lit) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, h.lit)
		}
	}
	return Clause{lits: out}
}

// Literals returns the clause's ordered literals. The returned slice must
// not be modified.
func (c Clause) Literals() []logic.Literal {
	return c.lits
}

// Len returns the number of literals.
func (c Clause) Len() int {
	return len(c.lits)
}

// IsEmpty reports whether the clause has no literals. The empty clause is
// logically false.
func (c Clause) IsEmpty() bool {
	return len(c.lits) == 0
}

// IsUnit reports whether the clause has exactly one literal.
func (c Clause) IsUnit() bool {
	return len(c.lits) == 1
}

// IsHorn reports whether the clause has at most one positive literal.
func (c Clause) IsHorn() bool {
	return c.positiveCount() <= 1
}

// IsDefinite reports whether the clause has exactly one positive literal.
func (c Clause) IsDefinite() bool {
	return c.positiveCount() == 1
}

// IsGoal reports whether the clause has no positive literal.
func (c Clause) IsGoal() bool {
	return c.positiveCount() == 0
}

func (c Clause) positiveCount() int {
	n := 0
	for _, l := range c.lits {
		if !l.Negated {
			n++
		}
	}
	return n
}

// IsTautology reports whether the clause contains a literal and its
// complement.
func (c Clause) IsTautology() bool {
	for i, l := range c.lits {
		for _, m := range c.lits[i+1:] {
			if l.Negated != m.Negated && l.Predicate.Eq(m.Predicate) {
				return true
			}
		}
	}
	return false
}

// Vars returns a set with all variables of the clause, in literal order.
func (c Clause) Vars() []logic.Var {
	seen := make(map[logic.Var]struct{})
	var xs []logic.Var
	for _, l := range c.lits {
		for _, x := range l.Vars() {
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			xs = append(xs, x)
		}
	}
	return xs
}

// Eq returns whether this clause is equal to another: same literals in
// the same canonical order.
func (c Clause) Eq(other Clause) bool {
	if len(c.lits) != len(other.lits) {
		return false
	}
	for i := range c.lits {
		if !c.lits[i].Eq(other.lits[i]) {
			return false
		}
	}
	return true
}

// Hash returns a structural hash of the ordered literal sequence.
func (c Clause) Hash() uint64 {
	h := uint64(17)
	for _, l := range c.lits {
		h = h*31 + l.Hash()
	}
	return h
}

func (c Clause) String() string {
	if len(c.lits) == 0 {
		return "⊥"
	}
	strs := make([]string, len(c.lits))
	for i, l := range c.lits {
		strs[i] = l.String()
	}
	return strings.Join(strs, " ∨ ")
}

// Resolved applies a substitution to every literal, renormalising the
// clause. Duplicate literals introduced by the substitution collapse
// (factoring).
func (c Clause) Resolved(b unify.Bindings) Clause {
	lits := make([]logic.Literal, len(c.lits))
	for i, l := range c.lits {
		lits[i] = b.ResolveLiteral(l)
	}
	return NewClause(lits...)
}

// Restandardize renames every variable of the clause to a fresh
// standardised variable, yielding a variant sharing no variables with any
// other clause.
func (c Clause) Restandardize() Clause {
	xs := c.Vars()
	if len(xs) == 0 {
		return c
	}
	b := unify.NewBuilder()
	for _, x := range xs {
		if !unify.TermsInPlace(x, logic.StandardizeVar(x, nil), b) {
			panic("cnf: fresh variable failed to bind")
		}
	}
	return c.Resolved(b.Snapshot())
}

// ---- Subsumption

// Subsumes reports whether there is a substitution θ such that every
// literal of c, after applying θ, appears in other. Only c's variables
// are bound; other's variables act as constants. Clauses sharing
// variables are renamed apart first, so that θ may still map a shared
// variable into a term mentioning it.
func (c Clause) Subsumes(other Clause) bool {
	if sharesVars(c, other) {
		c = c.Restandardize()
	}
	return c.subsumesFrom(0, other, unify.NewBuilder())
}

func sharesVars(c, other Clause) bool {
	xs := c.Vars()
	if len(xs) == 0 {
		return false
	}
	seen := make(map[logic.Var]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	for _, y := range other.Vars() {
		if _, ok := seen[y]; ok {
			return true
		}
	}
	return false
}

func (c Clause) subsumesFrom(i int, other Clause, b *unify.Builder) bool {
	if i == len(c.lits) {
		return true
	}
	for _, target := range other.lits {
		if c.lits[i].Negated != target.Negated {
			continue
		}
		scratch := unify.BuilderFrom(b.Snapshot())
		if !matchPredicate(c.lits[i].Predicate, target.Predicate, scratch) {
			continue
		}
		if c.subsumesFrom(i+1, other, scratch) {
			return true
		}
	}
	return false
}

// matchPredicate is one-way unification: variables of pattern may bind,
// terms of target are left untouched.
func matchPredicate(pattern, target *logic.Predicate, b *unify.Builder) bool {
	if pattern.Functor != target.Functor || len(pattern.Args) != len(target.Args) {
		return false
	}
	for i := range pattern.Args {
		if !matchTerm(pattern.Args[i], target.Args[i], b) {
			return false
		}
	}
	return true
}

func matchTerm(pattern, target logic.Term, b *unify.Builder) bool {
	switch u := pattern.(type) {
	case logic.Var:
		if bound, ok := b.Binding(u); ok {
			return logic.Eq(bound, target)
		}
		return unify.TermsInPlace(u, target, b)
	case logic.Constant:
		v, ok := target.(logic.Constant)
		return ok && u == v
	case *logic.Function:
		v, ok := target.(*logic.Function)
		if !ok || !u.SameSymbol(v) {
			return false
		}
		for i := range u.Args {
			if !matchTerm(u.Args[i], v.Args[i], b) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("cnf: unhandled term type %T", pattern))
	}
}

// ---- Resolution

// Resolvent is a clause derived by resolving two clauses, together with
// the unifier that produced it.
type Resolvent struct {
	Unifier unify.Bindings
	Clause  Clause
}

// Resolve computes every binary resolvent of c and other: for each pair
// of literals with opposite signs and unifiable predicates, the clause
// combining the remaining literals of both under the unifier.
func (c Clause) Resolve(other Clause) []Resolvent {
	var resolvents []Resolvent
	for i, l := range c.lits {
		for j, m := range other.lits {
			if l.Negated == m.Negated {
				continue
			}
			theta, ok := unify.Predicates(l.Predicate, m.Predicate)
			if !ok {
				continue
			}
			lits := make([]logic.Literal, 0, len(c.lits)+len(other.lits)-2)
			for k, x := range c.lits {
				if k != i {
					lits = append(lits, theta.ResolveLiteral(x))
				}
			}
			for k, x := range other.lits {
				if k != j {
					lits = append(lits, theta.ResolveLiteral(x))
				}
			}
			resolvents = append(resolvents, Resolvent{Unifier: theta, Clause: NewClause(lits...)})
		}
	}
	return resolvents
}

// ---- Definite clauses

// DefiniteClause is a clause with exactly one positive literal, viewed as
// the rule conjuncts ⇒ consequent.
type DefiniteClause struct {
	Clause
}

// AsDefinite refines the clause into a definite clause. It returns
// ErrInvalidArgument when the clause is not definite.
func (c Clause) AsDefinite() (DefiniteClause, error) {
	if !c.IsDefinite() {
		return DefiniteClause{}, errors.New("clause %v is not definite: %w", c, errors.ErrInvalidArgument)
	}
	return DefiniteClause{Clause: c}, nil
}

// Consequent returns the predicate of the single positive literal.
func (d DefiniteClause) Consequent() *logic.Predicate {
	for _, l := range d.lits {
		if !l.Negated {
			return l.Predicate
		}
	}
	panic("cnf: definite clause without positive literal")
}

// Conjuncts returns the predicates of the negated literals, the rule's
// premises.
func (d DefiniteClause) Conjuncts() []*logic.Predicate {
	var ps []*logic.Predicate
	for _, l := range d.lits {
		if l.Negated {
			ps = append(ps, l.Predicate)
		}
	}
	return ps
}

// Restandardize renames the definite clause apart, preserving
// definiteness.
func (d DefiniteClause) Restandardize() DefiniteClause {
	return DefiniteClause{Clause: d.Clause.Restandardize()}
}

func (d DefiniteClause) String() string {
	conjuncts := d.Conjuncts()
	if len(conjuncts) == 0 {
		return d.Consequent().String()
	}
	strs := make([]string, len(conjuncts))
	for i, p := range conjuncts {
		strs[i] = p.String()
	}
	return fmt.Sprintf("%s ⇒ %s", strings.Join(strs, " ∧ "), d.Consequent())
}
