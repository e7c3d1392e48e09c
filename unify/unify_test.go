package unify_test

import (
	"testing"

	"github.com/herbrand/fol-engine/dsl"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"
)

var (
	const_ = dsl.Const
	var_   = dsl.Var
	fn     = dsl.Fn
	pred   = dsl.Pred
)

func TestTerms(t *testing.T) {
	x, y := var_("x"), var_("y")
	tests := []struct {
		name   string
		t1, t2 logic.Term
		ok     bool
	}{
		{"identical constants", const_("a"), const_("a"), true},
		{"distinct constants", const_("a"), const_("b"), false},
		{"var against constant", x, const_("a"), true},
		{"constant against var", const_("a"), x, true},
		{"var against itself", x, x, true},
		{"var against var", x, y, true},
		{"same functions", fn("f", const_("a")), fn("f", const_("a")), true},
		{"functor mismatch", fn("f", const_("a")), fn("g", const_("a")), false},
		{"arity mismatch", fn("f", const_("a")), fn("f", const_("a"), const_("a")), false},
		{"constant against function", const_("a"), fn("f", const_("a")), false},
		{"nested", fn("f", x, fn("g", x)), fn("f", const_("a"), fn("g", y)), true},
		{"clash through var", fn("f", x, x), fn("f", const_("a"), const_("b")), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, ok := unify.Terms(test.t1, test.t2)
			if ok != test.ok {
				t.Fatalf("Terms(%v, %v) ok = %t, want %t", test.t1, test.t2, ok, test.ok)
			}
			if !ok {
				return
			}
			// Soundness: the unifier makes both terms identical.
			r1, r2 := b.Resolve(test.t1), b.Resolve(test.t2)
			if !logic.Eq(r1, r2) {
				t.Errorf("σ(%v) = %v differs from σ(%v) = %v", test.t1, r1, test.t2, r2)
			}
		})
	}
}

// The unifier composes eagerly: unifying Knows(John, x) with
// Knows(y, Mother(y)) must yield x ↦ Mother(John), not x ↦ Mother(y).
func TestPredicates_Composition(t *testing.T) {
	x, y := var_("x"), var_("y")
	p1 := pred("Knows", const_("John"), x)
	p2 := pred("Knows", y, fn("Mother", y))
	b, ok := unify.Predicates(p1, p2)
	if !ok {
		t.Fatalf("Predicates(%v, %v) failed", p1, p2)
	}
	if got, want := b.Resolve(y), logic.Term(const_("John")); !logic.Eq(got, want) {
		t.Errorf("y ↦ %v, want %v", got, want)
	}
	if got, want := b.Resolve(x), logic.Term(fn("Mother", const_("John"))); !logic.Eq(got, want) {
		t.Errorf("x ↦ %v, want %v", got, want)
	}
}

func TestOccursCheck(t *testing.T) {
	x, y := var_("x"), var_("y")
	if _, ok := unify.Terms(x, fn("f", x)); ok {
		t.Error("unify(x, f(x)) should fail the occurs check")
	}
	if _, ok := unify.Terms(fn("f", x), x); ok {
		t.Error("unify(f(x), x) should fail the occurs check")
	}
	// The cycle hides behind an alias: y ↦ x, then x against f(y).
	b, ok := unify.Terms(y, x)
	if !ok {
		t.Fatal("unify(y, x) failed")
	}
	if _, ok := unify.TermsWith(x, fn("f", y), b); ok {
		t.Error("unify(x, f(y)) with y ↦ x should fail the occurs check")
	}
}

func TestTermsWith(t *testing.T) {
	x, y := var_("x"), var_("y")
	b, ok := unify.Terms(x, const_("a"))
	if !ok {
		t.Fatal("unify(x, a) failed")
	}
	// x is already bound, so unifying x with y must bind y to a.
	b2, ok := unify.TermsWith(x, y, b)
	if !ok {
		t.Fatal("unify(x, y) with x ↦ a failed")
	}
	if got := b2.Resolve(y); !logic.Eq(got, const_("a")) {
		t.Errorf("y ↦ %v, want a", got)
	}
	// The existing bindings constrain: x ↦ a forbids x against b.
	if _, ok := unify.TermsWith(x, const_("b"), b); ok {
		t.Error("unify(x, b) with x ↦ a should fail")
	}
	// The original bindings are untouched.
	if _, bound := b.Binding(y); bound {
		t.Error("TermsWith modified the existing bindings")
	}
}

func TestTermsInPlace(t *testing.T) {
	x, y := var_("x"), var_("y")
	b := unify.NewBuilder()
	if !unify.TermsInPlace(x, const_("a"), b) {
		t.Fatal("TermsInPlace(x, a) failed")
	}
	if b.Len() != 1 {
		t.Fatalf("builder has %d bindings, want 1", b.Len())
	}
	// A failed update leaves the builder untouched.
	if unify.TermsInPlace(fn("f", x, y), fn("f", const_("b"), const_("c")), b) {
		t.Fatal("TermsInPlace should fail: x ↦ a forbids x against b")
	}
	if b.Len() != 1 {
		t.Errorf("failed update left %d bindings, want 1", b.Len())
	}
	if _, bound := b.Binding(y); bound {
		t.Error("failed update bound y")
	}
}

func TestResolve_Chain(t *testing.T) {
	x, y := var_("x"), var_("y")
	b, ok := unify.Terms(x, y)
	if !ok {
		t.Fatal("unify(x, y) failed")
	}
	b, ok = unify.TermsWith(y, const_("c"), b)
	if !ok {
		t.Fatal("unify(y, c) failed")
	}
	if got := b.Resolve(x); !logic.Eq(got, const_("c")) {
		t.Errorf("x resolves to %v through the chain, want c", got)
	}
	if got := b.Resolve(fn("f", x, y)); !logic.Eq(got, fn("f", const_("c"), const_("c"))) {
		t.Errorf("f(x, y) resolves to %v, want f(c, c)", got)
	}
}

func TestLiterals(t *testing.T) {
	x := var_("x")
	pos := dsl.Lit(pred("P", x))
	neg := dsl.NegLit(pred("P", const_("a")))
	if _, ok := unify.Literals(pos, neg); ok {
		t.Error("literals with opposite signs should not unify")
	}
	b, ok := unify.Literals(pos, dsl.Lit(pred("P", const_("a"))))
	if !ok {
		t.Fatal("unify(P(x), P(a)) failed")
	}
	if got := b.Resolve(x); !logic.Eq(got, const_("a")) {
		t.Errorf("x ↦ %v, want a", got)
	}
	if _, ok := unify.Literals(pos, dsl.Lit(pred("Q", const_("a")))); ok {
		t.Error("literals with distinct predicates should not unify")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	x := var_("x")
	b := unify.NewBuilder()
	if !unify.TermsInPlace(x, const_("a"), b) {
		t.Fatal("TermsInPlace failed")
	}
	snap := b.Snapshot()
	if !unify.TermsInPlace(var_("y"), const_("b"), b) {
		t.Fatal("TermsInPlace failed")
	}
	if snap.Len() != 1 {
		t.Errorf("snapshot grew with its builder: %d bindings", snap.Len())
	}
}

// MGU generality, checked on a representative pair: any other unifier of
// (f(x, y), f(y, a)) factors through the most general one.
func TestMostGeneral(t *testing.T) {
	x, y := var_("x"), var_("y")
	t1 := fn("f", x, y)
	t2 := fn("f", y, const_("a"))
	mgu, ok := unify.Terms(t1, t2)
	if !ok {
		t.Fatal("unify failed")
	}
	// A more specific unifier: x ↦ a, y ↦ a directly.
	specific := unify.NewBuilder()
	if !unify.TermsInPlace(x, const_("a"), specific) || !unify.TermsInPlace(y, const_("a"), specific) {
		t.Fatal("building the specific unifier failed")
	}
	sigma := specific.Snapshot()
	// σ must equal τ ∘ mgu for some τ: applying σ after mgu reaches the
	// same instances as σ alone.
	for _, term := range []logic.Term{t1, t2, x, y} {
		viaMGU := sigma.Resolve(mgu.Resolve(term))
		direct := sigma.Resolve(term)
		if !logic.Eq(viaMGU, direct) {
			t.Errorf("σ(mgu(%v)) = %v, σ(%v) = %v", term, viaMGU, term, direct)
		}
	}
}
