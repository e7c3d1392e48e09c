// Package logic implements the representation of first-order logic: terms,
// sentences and literals.
//
// A term can fall in one of three categories:
//
// * constant: an atomic term representing a domain element.
//
// * variable: a term that stands for an arbitrary (or yet-unknown) element.
//
// * function: a complex term that contains other terms, recursively.
//
// A sentence is a predicate application, or a combination of sentences with
// the connectives ¬, ∧, ∨, ⇒, ⇔ and the quantifiers ∀ and ∃. Sentences are
// immutable; transformations over them produce fresh values that share
// unchanged subtrees.
package logic

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ---- Basic types

// Term is a representation of a first-order term.
type Term interface {
	fmt.Stringer
	vars(seen map[Var]struct{}, xs []Var) []Var
	hasVar() bool
}

// Constant is an atomic term representing a domain element.
type Constant struct {
	// Name is the identifier for a constant.
	Name string
}

// Var is a variable term.
//
// A variable is either written by the user, or introduced by
// standardisation during clausal-form conversion. Standardised variables
// are all distinct from each other and from user variables, even when
// they render with the same name.
type Var struct {
	// Name is the identifier for a var.
	Name string
	std  *Standardization
}

// Standardization records the provenance of a standardised variable: the
// original symbol it renames and the sentence it was renamed within. The
// source sentence is a back-pointer for explanations only, and takes no
// part in equality or ordering.
type Standardization struct {
	// Original is the name of the variable that was renamed.
	Original string
	// Source is the sentence the variable was standardised from.
	Source Sentence
	seq    uint64
}

// Function is a complex term, representing a function application.
//
// Skolem functions introduced by clausal-form conversion carry a
// provenance record; like standardised variables, each is distinct from
// every other function symbol.
type Function struct {
	// Functor is the primary identifier of a function.
	Functor string
	// Args is the list of terms within this term.
	Args    []Term
	sk      *SkolemFunction
	hasVar_ bool
}

// SkolemFunction records the provenance of a Skolem function symbol: the
// existentially-quantified variable it replaces and the sentence it was
// introduced for. The source sentence is a back-pointer for explanations
// only, and takes no part in equality or ordering.
type SkolemFunction struct {
	// Replaced is the standardised variable eliminated by this symbol.
	Replaced Var
	// Source is the sentence the symbol was introduced for.
	Source Sentence
	seq    uint64
}

var seqCounter atomic.Uint64

// ---- Vars

// NewVar creates a new var.
//
// It panics if the name is empty.
func NewVar(name string) Var {
	if name == "" {
		panic("logic.NewVar: empty name")
	}
	return Var{Name: name}
}

// StandardizeVar creates a fresh variable renaming x apart within source.
// Every call yields a variable distinct from all others.
func StandardizeVar(x Var, source Sentence) Var {
	name := x.Name
	if x.std != nil {
		name = x.std.Original
	}
	return Var{
		Name: name,
		std:  &Standardization{Original: name, Source: source, seq: seqCounter.Add(1)},
	}
}

// IsStandardized reports whether x was introduced by standardisation.
func (x Var) IsStandardized() bool {
	return x.std != nil
}

// Standardization returns the provenance of a standardised variable, or
// nil for a user variable.
func (x Var) Standardization() *Standardization {
	return x.std
}

// ---- Functions

// NewFunction creates a function application term.
func NewFunction(functor string, args ...Term) *Function {
	if functor == "" {
		panic("logic.NewFunction: empty functor")
	}
	return &Function{Functor: functor, Args: args, hasVar_: anyHasVar(args)}
}

// NewSkolemFunction creates a fresh Skolem function term replacing x,
// applied to args (the universally-quantified variables in scope at the
// point of introduction). Every call yields a distinct function symbol.
func NewSkolemFunction(x Var, source Sentence, args ...Term) *Function {
	sk := &SkolemFunction{Replaced: x, Source: source, seq: seqCounter.Add(1)}
	return &Function{
		Functor: fmt.Sprintf("sk%d", sk.seq),
		Args:    args,
		sk:      sk,
		hasVar_: anyHasVar(args),
	}
}

// IsSkolem reports whether f was introduced by Skolemisation.
func (f *Function) IsSkolem() bool {
	return f.sk != nil
}

// Skolem returns the provenance of a Skolem function, or nil for a user
// function.
func (f *Function) Skolem() *SkolemFunction {
	return f.sk
}

// WithArgs returns a function with the same symbol as f and the given
// arguments. The symbol's identity is preserved, so a Skolem function
// keeps denoting the same symbol under substitution.
func (f *Function) WithArgs(args []Term) *Function {
	return &Function{Functor: f.Functor, Args: args, sk: f.sk, hasVar_: anyHasVar(args)}
}

// Indicator is a notation for a function or predicate symbol, usually
// shown as functor/arity, e.g., f/2.
type Indicator struct {
	// Name is the symbol's functor.
	Name string
	// Arity is the symbol's number of args.
	Arity int
}

func (ind Indicator) String() string {
	return fmt.Sprintf("%s/%d", ind.Name, ind.Arity)
}

// Indicator returns the function's indicator.
func (f *Function) Indicator() Indicator {
	return Indicator{f.Functor, len(f.Args)}
}

// Ground reports whether t contains no variables.
func Ground(t Term) bool {
	return !t.hasVar()
}

// IsGround reports whether every argument of s is a ground term.
func (s *Predicate) IsGround() bool {
	return !s.hasVar_
}

// SameSymbol reports whether f and other apply the same function symbol:
// same functor, same arity, and the same Skolem identity, if any.
func (f *Function) SameSymbol(other *Function) bool {
	return f.Functor == other.Functor && len(f.Args) == len(other.Args) && f.sk == other.sk
}

func anyHasVar(args []Term) bool {
	for _, arg := range args {
		if arg.hasVar() {
			return true
		}
	}
	return false
}

// ---- Sentences

// Sentence is a representation of a first-order sentence.
type Sentence interface {
	fmt.Stringer
	isSentence()
}

// Predicate is an atomic sentence applying a predicate symbol to terms.
type Predicate struct {
	// Functor is the identifier of the predicate symbol.
	Functor string
	// Args is the list of argument terms.
	Args    []Term
	hasVar_ bool
}

// Not is the negation of a sentence.
type Not struct {
	Operand Sentence
}

// And is the conjunction of two sentences.
type And struct {
	Left, Right Sentence
}

// Or is the disjunction of two sentences.
type Or struct {
	Left, Right Sentence
}

// Implies is a material implication.
type Implies struct {
	Antecedent, Consequent Sentence
}

// Iff is a material equivalence.
type Iff struct {
	Left, Right Sentence
}

// ForAll is a universal quantification.
type ForAll struct {
	Variable Var
	Body     Sentence
}

// Exists is an existential quantification.
type Exists struct {
	Variable Var
	Body     Sentence
}

func (s *Predicate) isSentence() {}
func (s *Not) isSentence()       {}
func (s *And) isSentence()       {}
func (s *Or) isSentence()        {}
func (s *Implies) isSentence()   {}
func (s *Iff) isSentence()       {}
func (s *ForAll) isSentence()    {}
func (s *Exists) isSentence()    {}

// NewPredicate creates an atomic sentence.
func NewPredicate(functor string, args ...Term) *Predicate {
	if functor == "" {
		panic("logic.NewPredicate: empty functor")
	}
	return &Predicate{Functor: functor, Args: args, hasVar_: anyHasVar(args)}
}

// NewNot creates the negation of s.
func NewNot(s Sentence) *Not { return &Not{Operand: s} }

// NewAnd creates the conjunction of left and right.
func NewAnd(left, right Sentence) *And { return &And{Left: left, Right: right} }

// NewOr creates the disjunction of left and right.
func NewOr(left, right Sentence) *Or { return &Or{Left: left, Right: right} }

// NewImplies creates the implication of consequent by antecedent.
func NewImplies(antecedent, consequent Sentence) *Implies {
	return &Implies{Antecedent: antecedent, Consequent: consequent}
}

// NewIff creates the equivalence of left and right.
func NewIff(left, right Sentence) *Iff { return &Iff{Left: left, Right: right} }

// NewForAll creates the universal quantification of body over x.
func NewForAll(x Var, body Sentence) *ForAll { return &ForAll{Variable: x, Body: body} }

// NewExists creates the existential quantification of body over x.
func NewExists(x Var, body Sentence) *Exists { return &Exists{Variable: x, Body: body} }

// Indicator returns the predicate's indicator.
func (s *Predicate) Indicator() Indicator {
	return Indicator{s.Functor, len(s.Args)}
}

// WithArgs returns a predicate with the same symbol as s and the given
// arguments.
func (s *Predicate) WithArgs(args []Term) *Predicate {
	return &Predicate{Functor: s.Functor, Args: args, hasVar_: anyHasVar(args)}
}

// ---- vars()

// Vars returns a set with all term variables, in insertion order.
func Vars(term Term) []Var {
	if !term.hasVar() {
		return nil
	}
	seen := make(map[Var]struct{})
	return term.vars(seen, nil)
}

func (t Constant) vars(seen map[Var]struct{}, xs []Var) []Var { return xs }

func (t Var) vars(seen map[Var]struct{}, xs []Var) []Var {
	if _, ok := seen[t]; ok {
		return xs
	}
	seen[t] = struct{}{}
	return append(xs, t)
}

func (t *Function) vars(seen map[Var]struct{}, xs []Var) []Var {
	if !t.hasVar_ {
		return xs
	}
	for _, term := range t.Args {
		xs = term.vars(seen, xs)
	}
	return xs
}

// PredicateVars returns a set with all variables of p's arguments, in
// insertion order.
func PredicateVars(p *Predicate) []Var {
	if !p.hasVar_ {
		return nil
	}
	seen := make(map[Var]struct{})
	var xs []Var
	for _, arg := range p.Args {
		xs = arg.vars(seen, xs)
	}
	return xs
}

// SentenceVars returns a set with all variables referenced in s, bound or
// free, in insertion order.
func SentenceVars(s Sentence) []Var {
	seen := make(map[Var]struct{})
	return sentenceVars(s, seen, nil)
}

func sentenceVars(s Sentence, seen map[Var]struct{}, xs []Var) []Var {
	switch u := s.(type) {
	case *Predicate:
		for _, arg := range u.Args {
			xs = arg.vars(seen, xs)
		}
	case *Not:
		xs = sentenceVars(u.Operand, seen, xs)
	case *And:
		xs = sentenceVars(u.Left, seen, xs)
		xs = sentenceVars(u.Right, seen, xs)
	case *Or:
		xs = sentenceVars(u.Left, seen, xs)
		xs = sentenceVars(u.Right, seen, xs)
	case *Implies:
		xs = sentenceVars(u.Antecedent, seen, xs)
		xs = sentenceVars(u.Consequent, seen, xs)
	case *Iff:
		xs = sentenceVars(u.Left, seen, xs)
		xs = sentenceVars(u.Right, seen, xs)
	case *ForAll:
		xs = u.Variable.vars(seen, xs)
		xs = sentenceVars(u.Body, seen, xs)
	case *Exists:
		xs = u.Variable.vars(seen, xs)
		xs = sentenceVars(u.Body, seen, xs)
	default:
		panic(fmt.Sprintf("logic.SentenceVars: unhandled type %T", s))
	}
	return xs
}

// FreeVars returns a set with the variables of s not bound by any
// quantifier, in insertion order.
func FreeVars(s Sentence) []Var {
	seen := make(map[Var]struct{})
	bound := make(map[Var]int)
	return freeVars(s, bound, seen, nil)
}

func freeVars(s Sentence, bound map[Var]int, seen map[Var]struct{}, xs []Var) []Var {
	switch u := s.(type) {
	case *Predicate:
		for _, arg := range u.Args {
			for _, x := range Vars(arg) {
				if bound[x] > 0 {
					continue
				}
				if _, ok := seen[x]; ok {
					continue
				}
				seen[x] = struct{}{}
				xs = append(xs, x)
			}
		}
	case *Not:
		xs = freeVars(u.Operand, bound, seen, xs)
	case *And:
		xs = freeVars(u.Left, bound, seen, xs)
		xs = freeVars(u.Right, bound, seen, xs)
	case *Or:
		xs = freeVars(u.Left, bound, seen, xs)
		xs = freeVars(u.Right, bound, seen, xs)
	case *Implies:
		xs = freeVars(u.Antecedent, bound, seen, xs)
		xs = freeVars(u.Consequent, bound, seen, xs)
	case *Iff:
		xs = freeVars(u.Left, bound, seen, xs)
		xs = freeVars(u.Right, bound, seen, xs)
	case *ForAll:
		bound[u.Variable]++
		xs = freeVars(u.Body, bound, seen, xs)
		bound[u.Variable]--
	case *Exists:
		bound[u.Variable]++
		xs = freeVars(u.Body, bound, seen, xs)
		bound[u.Variable]--
	default:
		panic(fmt.Sprintf("logic.FreeVars: unhandled type %T", s))
	}
	return xs
}

// ---- hasVar()

func (t Constant) hasVar() bool  { return false }
func (t Var) hasVar() bool       { return true }
func (t *Function) hasVar() bool { return t.hasVar_ }

// ---- String()

func (t Constant) String() string {
	return t.Name
}

func (t Var) String() string {
	if t.std == nil {
		return t.Name
	}
	return fmt.Sprintf("%s_%d", t.Name, t.std.seq)
}

func (t *Function) String() string {
	return applicationString(t.Functor, t.Args)
}

func (s *Predicate) String() string {
	return applicationString(s.Functor, s.Args)
}

func applicationString(functor string, args []Term) string {
	if len(args) == 0 {
		return functor
	}
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", functor, strings.Join(strs, ", "))
}

func (s *Not) String() string {
	return fmt.Sprintf("¬%s", s.Operand)
}

func (s *And) String() string {
	return fmt.Sprintf("(%s ∧ %s)", s.Left, s.Right)
}

func (s *Or) String() string {
	return fmt.Sprintf("(%s ∨ %s)", s.Left, s.Right)
}

func (s *Implies) String() string {
	return fmt.Sprintf("(%s ⇒ %s)", s.Antecedent, s.Consequent)
}

func (s *Iff) String() string {
	return fmt.Sprintf("(%s ⇔ %s)", s.Left, s.Right)
}

func (s *ForAll) String() string {
	return fmt.Sprintf("∀%s. %s", s.Variable, s.Body)
}

func (s *Exists) String() string {
	return fmt.Sprintf("∃%s. %s", s.Variable, s.Body)
}
