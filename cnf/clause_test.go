package cnf_test

import (
	"testing"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
)

func TestClauseClassification(t *testing.T) {
	a := const_("a")
	p, q, r := pred("P", a), pred("Q", a), pred("R", a)
	tests := []struct {
		name                                    string
		clause                                  cnf.Clause
		empty, unit, horn, definite, goal, taut bool
	}{
		{"empty", cnf.NewClause(), true, false, true, false, true, false},
		{"positive unit", cnf.NewClause(lit(p)), false, true, true, true, false, false},
		{"negative unit", cnf.NewClause(neg(p)), false, true, true, false, true, false},
		{"definite rule", cnf.NewClause(neg(p), neg(q), lit(r)), false, false, true, true, false, false},
		{"goal", cnf.NewClause(neg(p), neg(q)), false, false, true, false, true, false},
		{"two positives", cnf.NewClause(lit(p), lit(q)), false, false, false, false, false, false},
		{"tautology", cnf.NewClause(lit(p), neg(p)), false, false, true, true, false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := test.clause
			if got := c.IsEmpty(); got != test.empty {
				t.Errorf("IsEmpty() = %t, want %t", got, test.empty)
			}
			if got := c.IsUnit(); got != test.unit {
				t.Errorf("IsUnit() = %t, want %t", got, test.unit)
			}
			if got := c.IsHorn(); got != test.horn {
				t.Errorf("IsHorn() = %t, want %t", got, test.horn)
			}
			if got := c.IsDefinite(); got != test.definite {
				t.Errorf("IsDefinite() = %t, want %t", got, test.definite)
			}
			if got := c.IsGoal(); got != test.goal {
				t.Errorf("IsGoal() = %t, want %t", got, test.goal)
			}
			if got := c.IsTautology(); got != test.taut {
				t.Errorf("IsTautology() = %t, want %t", got, test.taut)
			}
		})
	}
}

func TestClauseEqHash(t *testing.T) {
	a, b := const_("a"), const_("b")
	c1 := cnf.NewClause(lit(pred("P", a)), neg(pred("Q", b)))
	c2 := cnf.NewClause(neg(pred("Q", b)), lit(pred("P", a)))
	if !c1.Eq(c2) {
		t.Errorf("%v != %v: literal order should not matter at construction", c1, c2)
	}
	if c1.Hash() != c2.Hash() {
		t.Errorf("equal clauses hash differently: %v", c1)
	}
	c3 := cnf.NewClause(lit(pred("P", a)))
	if c1.Eq(c3) {
		t.Errorf("%v == %v", c1, c3)
	}
}

func TestClauseDeduplicates(t *testing.T) {
	a := const_("a")
	c := cnf.NewClause(lit(pred("P", a)), lit(pred("P", a)), neg(pred("Q", a)))
	if c.Len() != 2 {
		t.Errorf("NewClause kept duplicate literals: %v", c)
	}
}

func TestSubsumes(t *testing.T) {
	x, y := var_("x"), var_("y")
	a, b := const_("a"), const_("b")
	tests := []struct {
		name       string
		sub, super cnf.Clause
		want       bool
	}{
		{"reflexive ground", cnf.NewClause(lit(pred("P", a))), cnf.NewClause(lit(pred("P", a))), true},
		{"reflexive with vars", cnf.NewClause(lit(pred("P", x)), neg(pred("Q", x))), cnf.NewClause(lit(pred("P", x)), neg(pred("Q", x))), true},
		{"instance", cnf.NewClause(lit(pred("P", x))), cnf.NewClause(lit(pred("P", a))), true},
		{"not generalisation", cnf.NewClause(lit(pred("P", a))), cnf.NewClause(lit(pred("P", x))), false},
		{"subset", cnf.NewClause(lit(pred("P", a))), cnf.NewClause(lit(pred("P", a)), lit(pred("Q", b))), true},
		{"not superset", cnf.NewClause(lit(pred("P", a)), lit(pred("Q", b))), cnf.NewClause(lit(pred("P", a))), false},
		{"sign matters", cnf.NewClause(lit(pred("P", a))), cnf.NewClause(neg(pred("P", a))), false},
		{"shared binding", cnf.NewClause(lit(pred("P", x)), neg(pred("Q", x))), cnf.NewClause(lit(pred("P", a)), neg(pred("Q", a))), true},
		{"conflicting binding", cnf.NewClause(lit(pred("P", x)), neg(pred("Q", x))), cnf.NewClause(lit(pred("P", a)), neg(pred("Q", b))), false},
		{"factoring instance", cnf.NewClause(lit(pred("P", x)), lit(pred("P", y))), cnf.NewClause(lit(pred("P", a))), true},
		{"function structure", cnf.NewClause(lit(pred("P", fn("f", x)))), cnf.NewClause(lit(pred("P", fn("f", a)))), true},
		{"function mismatch", cnf.NewClause(lit(pred("P", fn("f", x)))), cnf.NewClause(lit(pred("P", fn("g", a)))), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.sub.Subsumes(test.super); got != test.want {
				t.Errorf("(%v).Subsumes(%v) = %t, want %t", test.sub, test.super, got, test.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	x := var_("x")
	a := const_("a")
	t.Run("ground complement", func(t *testing.T) {
		rs := cnf.NewClause(lit(pred("P", a))).Resolve(cnf.NewClause(neg(pred("P", a))))
		if len(rs) != 1 || !rs[0].Clause.IsEmpty() {
			t.Fatalf("resolving complementary units = %v, want one empty clause", rs)
		}
	})
	t.Run("with unifier", func(t *testing.T) {
		c1 := cnf.NewClause(neg(pred("King", x)), lit(pred("Evil", x)))
		c2 := cnf.NewClause(lit(pred("King", a)))
		rs := c1.Resolve(c2)
		if len(rs) != 1 {
			t.Fatalf("got %d resolvents, want 1", len(rs))
		}
		want := cnf.NewClause(lit(pred("Evil", a)))
		if !rs[0].Clause.Eq(want) {
			t.Errorf("resolvent = %v, want %v", rs[0].Clause, want)
		}
		if got := rs[0].Unifier.Resolve(x); !logic.Eq(got, a) {
			t.Errorf("unifier binds x ↦ %v, want a", got)
		}
	})
	t.Run("factoring", func(t *testing.T) {
		c1 := cnf.NewClause(lit(pred("P", x)), lit(pred("Q", x)))
		c2 := cnf.NewClause(neg(pred("P", a)), lit(pred("Q", a)))
		rs := c1.Resolve(c2)
		if len(rs) != 1 {
			t.Fatalf("got %d resolvents, want 1", len(rs))
		}
		want := cnf.NewClause(lit(pred("Q", a)))
		if !rs[0].Clause.Eq(want) {
			t.Errorf("resolvent = %v, want %v: duplicate literals must collapse", rs[0].Clause, want)
		}
	})
	t.Run("no complement", func(t *testing.T) {
		rs := cnf.NewClause(lit(pred("P", a))).Resolve(cnf.NewClause(lit(pred("Q", a))))
		if len(rs) != 0 {
			t.Errorf("got %v, want no resolvents", rs)
		}
	})
	t.Run("multiple pairs", func(t *testing.T) {
		c1 := cnf.NewClause(lit(pred("P", a)), lit(pred("Q", a)))
		c2 := cnf.NewClause(neg(pred("P", a)), neg(pred("Q", a)))
		rs := c1.Resolve(c2)
		if len(rs) != 2 {
			t.Errorf("got %d resolvents, want 2", len(rs))
		}
	})
}

func TestAsDefinite(t *testing.T) {
	x := var_("x")
	a := const_("a")
	rule := cnf.NewClause(neg(pred("King", x)), neg(pred("Greedy", x)), lit(pred("Evil", x)))
	d, err := rule.AsDefinite()
	if err != nil {
		t.Fatalf("AsDefinite(%v): %v", rule, err)
	}
	if d.Consequent().Functor != "Evil" {
		t.Errorf("Consequent() = %v, want Evil(x)", d.Consequent())
	}
	if len(d.Conjuncts()) != 2 {
		t.Errorf("Conjuncts() = %v, want King and Greedy", d.Conjuncts())
	}
	goal := cnf.NewClause(neg(pred("P", a)))
	if _, err := goal.AsDefinite(); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("AsDefinite(%v) err = %v, want ErrInvalidArgument", goal, err)
	}
}

func TestRestandardize(t *testing.T) {
	x := var_("x")
	c := cnf.NewClause(neg(pred("King", x)), lit(pred("Evil", x)))
	r := c.Restandardize()
	if r.Len() != c.Len() {
		t.Fatalf("Restandardize changed the clause shape: %v", r)
	}
	if c.Eq(r) {
		t.Errorf("Restandardize did not rename: %v", r)
	}
	// Renaming is consistent within the clause and disjoint from the
	// original.
	rx := r.Vars()
	if len(rx) != 1 {
		t.Fatalf("renamed clause has vars %v, want one", rx)
	}
	if logic.Eq(rx[0], x) {
		t.Errorf("renamed clause still uses %v", x)
	}
	if !c.Subsumes(r) || !r.Subsumes(c) {
		t.Errorf("a clause and its renaming must subsume each other")
	}
}

func TestFormula(t *testing.T) {
	a := const_("a")
	c := cnf.NewClause(lit(pred("P", a)), neg(pred("Q", a)))
	f := c.Formula()
	if got := cnf.Convert(f); got.Len() != 1 || !got.Clauses()[0].Eq(c) {
		t.Errorf("Convert(Formula(%v)) = %v", c, got)
	}
	s := cnf.NewSentence()
	if s.Formula() != nil {
		t.Errorf("empty sentence formula = %v, want nil", s.Formula())
	}
}

func TestLiteralOrderIsHashDerived(t *testing.T) {
	// The canonical order is by literal hash: building from any
	// permutation yields the same sequence.
	a, b, c := const_("a"), const_("b"), const_("c")
	lits := []logic.Literal{lit(pred("P", a)), neg(pred("Q", b)), lit(pred("R", c))}
	base := cnf.NewClause(lits...)
	perms := [][]logic.Literal{
		{lits[1], lits[2], lits[0]},
		{lits[2], lits[0], lits[1]},
		{lits[2], lits[1], lits[0]},
	}
	for _, perm := range perms {
		if got := cnf.NewClause(perm...); !got.Eq(base) {
			t.Errorf("NewClause(%v) = %v, want %v", perm, got, base)
		}
	}
}
