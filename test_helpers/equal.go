package test_helpers

import (
	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"

	"github.com/google/go-cmp/cmp"
)

// Equalities makes cmp use the package-defined equalities, which ignore
// the unexported provenance fields of standardised variables and Skolem
// functions.
var Equalities = cmp.Options{
	cmp.Comparer(logic.Eq),
	cmp.Comparer(logic.EqSentence),
	cmp.Comparer(func(a, b logic.Literal) bool { return a.Eq(b) }),
	cmp.Comparer(func(a, b cnf.Clause) bool { return a.Eq(b) }),
	cmp.Comparer(func(a, b cnf.Sentence) bool { return a.Eq(b) }),
	cmp.Comparer(func(a, b unify.Bindings) bool { return a.Eq(b) }),
}
