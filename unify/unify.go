// Package unify implements most-general unification over first-order
// terms, predicates and literals.
//
// A unifier is represented as a Bindings value, an immutable map from
// variables to terms. Bindings may be freely shared; the mutable Builder
// exists for engines that extend a unifier many times on a hot path, and
// produces immutable snapshots.
//
// Quantified sentences never reach this package: conversion to clausal
// form is a precondition for resolution and chaining, so the unifier only
// ever sees quantifier-free predicates.
package unify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/herbrand/fol-engine/logic"
)

// ---- Bindings

// Bindings is an immutable substitution of terms for variables. The zero
// value is the empty substitution.
type Bindings struct {
	m map[logic.Var]logic.Term
}

// Binding returns the term bound to x, if any. The returned term is not
// resolved against the rest of the substitution; see Resolve.
func (b Bindings) Binding(x logic.Var) (logic.Term, bool) {
	t, ok := b.m[x]
	return t, ok
}

// Len returns the number of bound variables.
func (b Bindings) Len() int {
	return len(b.m)
}

// Vars returns the bound variables in standard term order.
func (b Bindings) Vars() []logic.Var {
	xs := make([]logic.Var, 0, len(b.m))
	for x := range b.m {
		xs = append(xs, x)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].Less(xs[j]) })
	return xs
}

// Resolve applies the substitution to t, recursively, so that binding
// chains like α ↦ β, β ↦ C collapse to C.
func (b Bindings) Resolve(t logic.Term) logic.Term {
	return resolveTerm(b.Binding, t)
}

// ResolvePredicate applies the substitution to every argument of p. The
// original predicate is returned when no argument changes.
func (b Bindings) ResolvePredicate(p *logic.Predicate) *logic.Predicate {
	return resolvePredicate(b.Binding, p)
}

// ResolveLiteral applies the substitution to the literal's predicate,
// preserving the sign.
func (b Bindings) ResolveLiteral(l logic.Literal) logic.Literal {
	return logic.Literal{Negated: l.Negated, Predicate: b.ResolvePredicate(l.Predicate)}
}

func (b Bindings) String() string {
	xs := b.Vars()
	entries := make([]string, len(xs))
	for i, x := range xs {
		entries[i] = fmt.Sprintf("%v ↦ %v", x, b.Resolve(x))
	}
	return fmt.Sprintf("{%s}", strings.Join(entries, ", "))
}

// Eq reports whether both substitutions bind the same variables to equal
// terms, after resolution.
func (b Bindings) Eq(other Bindings) bool {
	if len(b.m) != len(other.m) {
		return false
	}
	for x := range b.m {
		t, ok := other.m[x]
		if !ok {
			return false
		}
		if !logic.Eq(b.Resolve(x), resolveTerm(other.Binding, t)) {
			return false
		}
	}
	return true
}

func resolveTerm(get func(logic.Var) (logic.Term, bool), t logic.Term) logic.Term {
	switch u := t.(type) {
	case logic.Constant:
		return u
	case logic.Var:
		if bound, ok := get(u); ok {
			return resolveTerm(get, bound)
		}
		return u
	case *logic.Function:
		if logic.Ground(u) {
			return u
		}
		args := make([]logic.Term, len(u.Args))
		changed := false
		for i, arg := range u.Args {
			args[i] = resolveTerm(get, arg)
			if args[i] != arg {
				changed = true
			}
		}
		if !changed {
			return u
		}
		return u.WithArgs(args)
	default:
		panic(fmt.Sprintf("unify: unhandled term type %T", t))
	}
}

func resolvePredicate(get func(logic.Var) (logic.Term, bool), p *logic.Predicate) *logic.Predicate {
	if p.IsGround() {
		return p
	}
	args := make([]logic.Term, len(p.Args))
	changed := false
	for i, arg := range p.Args {
		args[i] = resolveTerm(get, arg)
		if args[i] != arg {
			changed = true
		}
	}
	if !changed {
		return p
	}
	return p.WithArgs(args)
}

// ---- Builder

// Builder is a mutable substitution under construction. It is exclusively
// owned by the engine extending it; Snapshot produces an immutable
// Bindings that may be shared.
type Builder struct {
	m map[logic.Var]logic.Term
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{m: make(map[logic.Var]logic.Term)}
}

// BuilderFrom returns a builder seeded with the bindings of b.
func BuilderFrom(b Bindings) *Builder {
	m := make(map[logic.Var]logic.Term, len(b.m))
	for x, t := range b.m {
		m[x] = t
	}
	return &Builder{m: m}
}

// Binding returns the term bound to x, if any.
func (b *Builder) Binding(x logic.Var) (logic.Term, bool) {
	t, ok := b.m[x]
	return t, ok
}

// Len returns the number of bound variables.
func (b *Builder) Len() int {
	return len(b.m)
}

// Resolve applies the substitution built so far to t, recursively.
func (b *Builder) Resolve(t logic.Term) logic.Term {
	return resolveTerm(b.Binding, t)
}

// ResolvePredicate applies the substitution built so far to p.
func (b *Builder) ResolvePredicate(p *logic.Predicate) *logic.Predicate {
	return resolvePredicate(b.Binding, p)
}

// ResolveLiteral applies the substitution built so far to l.
func (b *Builder) ResolveLiteral(l logic.Literal) logic.Literal {
	return logic.Literal{Negated: l.Negated, Predicate: b.ResolvePredicate(l.Predicate)}
}

// Snapshot returns an immutable copy of the substitution built so far.
func (b *Builder) Snapshot() Bindings {
	m := make(map[logic.Var]logic.Term, len(b.m))
	for x, t := range b.m {
		m[x] = t
	}
	return Bindings{m: m}
}

func (b *Builder) clone() *Builder {
	m := make(map[logic.Var]logic.Term, len(b.m))
	for x, t := range b.m {
		m[x] = t
	}
	return &Builder{m: m}
}

// ---- Unification

// Terms computes the most general unifier of t1 and t2. It returns false
// if the terms do not unify.
func Terms(t1, t2 logic.Term) (Bindings, bool) {
	return TermsWith(t1, t2, Bindings{})
}

// TermsWith computes a unifier of t1 and t2 extending existing. The
// existing bindings constrain the unification; they are never modified.
func TermsWith(t1, t2 logic.Term, existing Bindings) (Bindings, bool) {
	b := BuilderFrom(existing)
	if !unifyTerms(t1, t2, b) {
		return Bindings{}, false
	}
	return b.Snapshot(), true
}

// TermsInPlace extends the builder with a unifier of t1 and t2. The
// builder is unchanged when unification fails.
func TermsInPlace(t1, t2 logic.Term, b *Builder) bool {
	scratch := b.clone()
	if !unifyTerms(t1, t2, scratch) {
		return false
	}
	b.m = scratch.m
	return true
}

// Predicates computes the most general unifier of p1 and p2.
func Predicates(p1, p2 *logic.Predicate) (Bindings, bool) {
	return PredicatesWith(p1, p2, Bindings{})
}

// PredicatesWith computes a unifier of p1 and p2 extending existing.
func PredicatesWith(p1, p2 *logic.Predicate, existing Bindings) (Bindings, bool) {
	b := BuilderFrom(existing)
	if !unifyPredicates(p1, p2, b) {
		return Bindings{}, false
	}
	return b.Snapshot(), true
}

// PredicatesInPlace extends the builder with a unifier of p1 and p2. The
// builder is unchanged when unification fails.
func PredicatesInPlace(p1, p2 *logic.Predicate, b *Builder) bool {
	scratch := b.clone()
	if !unifyPredicates(p1, p2, scratch) {
		return false
	}
	b.m = scratch.m
	return true
}

// Literals computes the most general unifier of l1 and l2. Literals with
// opposite signs never unify.
func Literals(l1, l2 logic.Literal) (Bindings, bool) {
	return LiteralsWith(l1, l2, Bindings{})
}

// LiteralsWith computes a unifier of l1 and l2 extending existing.
func LiteralsWith(l1, l2 logic.Literal, existing Bindings) (Bindings, bool) {
	if l1.Negated != l2.Negated {
		return Bindings{}, false
	}
	return PredicatesWith(l1.Predicate, l2.Predicate, existing)
}

// LiteralsInPlace extends the builder with a unifier of l1 and l2. The
// builder is unchanged when unification fails.
func LiteralsInPlace(l1, l2 logic.Literal, b *Builder) bool {
	if l1.Negated != l2.Negated {
		return false
	}
	return PredicatesInPlace(l1.Predicate, l2.Predicate, b)
}

func unifyPredicates(p1, p2 *logic.Predicate, b *Builder) bool {
	if p1.Functor != p2.Functor || len(p1.Args) != len(p2.Args) {
		return false
	}
	for i := range p1.Args {
		if !unifyTerms(p1.Args[i], p2.Args[i], b) {
			return false
		}
	}
	return true
}

func unifyTerms(t1, t2 logic.Term, b *Builder) bool {
	if x, ok := t1.(logic.Var); ok {
		return unifyVar(x, t2, b)
	}
	if y, ok := t2.(logic.Var); ok {
		return unifyVar(y, t1, b)
	}
	switch u := t1.(type) {
	case logic.Constant:
		v, ok := t2.(logic.Constant)
		return ok && u == v
	case *logic.Function:
		v, ok := t2.(*logic.Function)
		if !ok || !u.SameSymbol(v) {
			return false
		}
		for i := range u.Args {
			if !unifyTerms(u.Args[i], v.Args[i], b) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("unify: unhandled term type %T", t1))
	}
}

func unifyVar(x logic.Var, t logic.Term, b *Builder) bool {
	if y, ok := t.(logic.Var); ok && x == y {
		return true
	}
	if bound, ok := b.Binding(x); ok {
		return unifyTerms(bound, t, b)
	}
	if y, ok := t.(logic.Var); ok {
		if bound, ok := b.Binding(y); ok {
			return unifyTerms(x, bound, b)
		}
	}
	// Occurs check over the resolved term, so that bound aliases can't
	// hide a cycle.
	if occurs(x, b.Resolve(t)) {
		return false
	}
	b.m[x] = t
	return true
}

func occurs(x logic.Var, t logic.Term) bool {
	for _, y := range logic.Vars(t) {
		if x == y {
			return true
		}
	}
	return false
}
