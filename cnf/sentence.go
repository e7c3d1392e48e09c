package cnf

import (
	"strings"

	"github.com/herbrand/fol-engine/logic"
)

// Sentence is a sentence in conjunctive normal form: an ordered set of
// clauses, all implicitly conjoined.
type Sentence struct {
	clauses []Clause
}

// NewSentence builds a CNF sentence from the given clauses, dropping
// tautologies and duplicates while preserving first-appearance order.
func NewSentence(clauses ...Clause) Sentence {
	var out []Clause
	for _, c := range clauses {
		if c.IsTautology() {
			continue
		}
		dup := false
		for _, kept := range out {
			if kept.Eq(c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return Sentence{clauses: out}
}

// Clauses returns the ordered clause set. The returned slice must not be
// modified.
func (s Sentence) Clauses() []Clause {
	return s.clauses
}

// Len returns the number of clauses.
func (s Sentence) Len() int {
	return len(s.clauses)
}

// Eq returns whether both sentences hold the same clauses in the same
// order.
func (s Sentence) Eq(other Sentence) bool {
	if len(s.clauses) != len(other.clauses) {
		return false
	}
	for i := range s.clauses {
		if !s.clauses[i].Eq(other.clauses[i]) {
			return false
		}
	}
	return true
}

func (s Sentence) String() string {
	if len(s.clauses) == 0 {
		return "⊤"
	}
	strs := make([]string, len(s.clauses))
	for i, c := range s.clauses {
		strs[i] = "(" + c.String() + ")"
	}
	return strings.Join(strs, " ∧ ")
}

// Formula rebuilds a quantifier-free formula equivalent to the clause
// set: the conjunction of each clause's disjunction. It returns nil for
// an empty clause set, and panics if the set contains the empty clause.
func (s Sentence) Formula() logic.Sentence {
	var conj logic.Sentence
	for _, c := range s.clauses {
		f := c.Formula()
		if conj == nil {
			conj = f
		} else {
			conj = logic.NewAnd(conj, f)
		}
	}
	return conj
}

// Formula rebuilds the clause as a disjunction of literals. It panics on
// the empty clause, which has no formula representation.
func (c Clause) Formula() logic.Sentence {
	if c.IsEmpty() {
		panic("cnf: empty clause has no formula")
	}
	var disj logic.Sentence
	for _, l := range c.lits {
		var f logic.Sentence = l.Predicate
		if l.Negated {
			f = logic.NewNot(l.Predicate)
		}
		if disj == nil {
			disj = f
		} else {
			disj = logic.NewOr(disj, f)
		}
	}
	return disj
}
