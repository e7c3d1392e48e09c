// Package format renders terms, sentences and clauses for explanations.
//
// Normalisation symbols (standardised variables and Skolem functions)
// have generated names that mean nothing to a reader. A Formatter
// assigns each one a short label the first time it appears, drawing from
// configurable label sets, and produces a legend mapping every assigned
// label back to its provenance. Label assignment is per formatter
// instance: render a whole proof with one formatter so that labels stay
// consistent across lines.
package format

import (
	"fmt"
	"strings"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"
)

// Default label sets: lowercase Greek for standardised variables,
// uppercase Latin for Skolem functions.
var (
	DefaultStandardizedLabels = strings.Split("α β γ δ ε ζ η θ ι κ λ μ ν ξ ο π ρ σ τ υ φ χ ψ ω", " ")
	DefaultSkolemLabels       = strings.Split("A B C D E F G H I J K L M N O P Q R S T U V W X Y Z", " ")
)

// Formatter renders logical values, binding fresh labels to
// normalisation symbols as it encounters them.
type Formatter struct {
	stdLabels []string
	skLabels  []string

	stdAssigned map[logic.Var]string
	skAssigned  map[*logic.SkolemFunction]string
	legend      []legendEntry
}

type legendEntry struct {
	label string
	descr string
}

// NewFormatter creates a formatter with the default label sets.
func NewFormatter() *Formatter {
	return NewFormatterWith(DefaultStandardizedLabels, DefaultSkolemLabels)
}

// NewFormatterWith creates a formatter drawing standardised-variable and
// Skolem-function labels from the given sets.
func NewFormatterWith(stdLabels, skLabels []string) *Formatter {
	return &Formatter{
		stdLabels:   stdLabels,
		skLabels:    skLabels,
		stdAssigned: make(map[logic.Var]string),
		skAssigned:  make(map[*logic.SkolemFunction]string),
	}
}

func (f *Formatter) varLabel(x logic.Var) (string, error) {
	std := x.Standardization()
	if std == nil {
		return x.Name, nil
	}
	if label, ok := f.stdAssigned[x]; ok {
		return label, nil
	}
	if len(f.stdAssigned) == len(f.stdLabels) {
		return "", errors.New("standardised-variable label set (size %d) ran out: %w",
			len(f.stdLabels), errors.ErrExhausted)
	}
	label := f.stdLabels[len(f.stdAssigned)]
	f.stdAssigned[x] = label
	descr := fmt.Sprintf("standardisation of %s", std.Original)
	if std.Source != nil {
		descr += fmt.Sprintf(" in %s", std.Source)
	}
	f.legend = append(f.legend, legendEntry{label: label, descr: descr})
	return label, nil
}

func (f *Formatter) skolemLabel(fn *logic.Function) (string, error) {
	sk := fn.Skolem()
	if sk == nil {
		return fn.Functor, nil
	}
	if label, ok := f.skAssigned[sk]; ok {
		return label, nil
	}
	if len(f.skAssigned) == len(f.skLabels) {
		return "", errors.New("Skolem-function label set (size %d) ran out: %w",
			len(f.skLabels), errors.ErrExhausted)
	}
	label := f.skLabels[len(f.skAssigned)]
	f.skAssigned[sk] = label
	replaced, err := f.Term(sk.Replaced)
	if err != nil {
		return "", err
	}
	descr := fmt.Sprintf("Skolem function for %s", replaced)
	if sk.Source != nil {
		descr += fmt.Sprintf(" in %s", sk.Source)
	}
	f.legend = append(f.legend, legendEntry{label: label, descr: descr})
	return label, nil
}

// Term renders a term, assigning labels to any normalisation symbols in
// it.
func (f *Formatter) Term(t logic.Term) (string, error) {
	switch u := t.(type) {
	case logic.Constant:
		return u.Name, nil
	case logic.Var:
		return f.varLabel(u)
	case *logic.Function:
		functor, err := f.skolemLabel(u)
		if err != nil {
			return "", err
		}
		return f.application(functor, u.Args)
	default:
		panic(fmt.Sprintf("format: unhandled term type %T", t))
	}
}

func (f *Formatter) application(functor string, args []logic.Term) (string, error) {
	if len(args) == 0 {
		return functor, nil
	}
	strs := make([]string, len(args))
	for i, arg := range args {
		s, err := f.Term(arg)
		if err != nil {
			return "", err
		}
		strs[i] = s
	}
	return fmt.Sprintf("%s(%s)", functor, strings.Join(strs, ", ")), nil
}

// Predicate renders an atomic sentence.
func (f *Formatter) Predicate(p *logic.Predicate) (string, error) {
	return f.application(p.Functor, p.Args)
}

// Literal renders a literal.
func (f *Formatter) Literal(l logic.Literal) (string, error) {
	s, err := f.Predicate(l.Predicate)
	if err != nil {
		return "", err
	}
	if l.Negated {
		return "¬" + s, nil
	}
	return s, nil
}

// Clause renders a clause as a disjunction, or ⊥ for the empty clause.
func (f *Formatter) Clause(c cnf.Clause) (string, error) {
	if c.IsEmpty() {
		return "⊥", nil
	}
	strs := make([]string, 0, c.Len())
	for _, l := range c.Literals() {
		s, err := f.Literal(l)
		if err != nil {
			return "", err
		}
		strs = append(strs, s)
	}
	return strings.Join(strs, " ∨ "), nil
}

// Sentence renders a sentence.
func (f *Formatter) Sentence(s logic.Sentence) (string, error) {
	switch u := s.(type) {
	case *logic.Predicate:
		return f.Predicate(u)
	case *logic.Not:
		op, err := f.Sentence(u.Operand)
		if err != nil {
			return "", err
		}
		return "¬" + op, nil
	case *logic.And:
		return f.binary(u.Left, "∧", u.Right)
	case *logic.Or:
		return f.binary(u.Left, "∨", u.Right)
	case *logic.Implies:
		return f.binary(u.Antecedent, "⇒", u.Consequent)
	case *logic.Iff:
		return f.binary(u.Left, "⇔", u.Right)
	case *logic.ForAll:
		return f.quantified("∀", u.Variable, u.Body)
	case *logic.Exists:
		return f.quantified("∃", u.Variable, u.Body)
	default:
		panic(fmt.Sprintf("format: unhandled sentence type %T", s))
	}
}

func (f *Formatter) binary(left logic.Sentence, op string, right logic.Sentence) (string, error) {
	l, err := f.Sentence(left)
	if err != nil {
		return "", err
	}
	r, err := f.Sentence(right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", l, op, r), nil
}

func (f *Formatter) quantified(q string, x logic.Var, body logic.Sentence) (string, error) {
	v, err := f.varLabel(x)
	if err != nil {
		return "", err
	}
	b, err := f.Sentence(body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s. %s", q, v, b), nil
}

// Bindings renders a substitution as {x ↦ t, ...} with variables in
// standard order.
func (f *Formatter) Bindings(b unify.Bindings) (string, error) {
	xs := b.Vars()
	entries := make([]string, len(xs))
	for i, x := range xs {
		v, err := f.Term(x)
		if err != nil {
			return "", err
		}
		t, err := f.Term(b.Resolve(x))
		if err != nil {
			return "", err
		}
		entries[i] = fmt.Sprintf("%s ↦ %s", v, t)
	}
	return fmt.Sprintf("{%s}", strings.Join(entries, ", ")), nil
}

// Legend returns one line per assigned label, in assignment order,
// describing the normalisation symbol it stands for. It returns the
// empty string when no label was assigned.
func (f *Formatter) Legend() string {
	if len(f.legend) == 0 {
		return ""
	}
	lines := make([]string, len(f.legend))
	for i, e := range f.legend {
		lines[i] = fmt.Sprintf("%s: %s", e.label, e.descr)
	}
	return strings.Join(lines, "\n")
}
