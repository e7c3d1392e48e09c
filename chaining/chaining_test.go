package chaining_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/herbrand/fol-engine/chaining"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/parser"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newKB(t *testing.T, sentences ...string) *chaining.KnowledgeBase {
	t.Helper()
	kb := chaining.NewKnowledgeBase(nil)
	for _, text := range sentences {
		s, err := parser.Sentence(text)
		require.NoError(t, err, text)
		require.NoError(t, kb.Tell(s), text)
	}
	return kb
}

func goal(t *testing.T, text string) *logic.Predicate {
	t.Helper()
	p, err := parser.Predicate(text)
	require.NoError(t, err, text)
	return p
}

func TestAsk_Kings(t *testing.T) {
	kb := newKB(t,
		"King(John)",
		"Greedy(John)",
		"forall x. King(x) and Greedy(x) => Evil(x)")
	ok, err := kb.Ask(context.Background(), goal(t, "Evil(John)"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = kb.Ask(context.Background(), goal(t, "Evil(Richard)"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMultipleProofs(t *testing.T) {
	kb := newKB(t, "King(John)", "King(Richard)")
	q := kb.NewQuery(goal(t, "King(?x)"))
	require.NoError(t, q.Complete(context.Background()))
	proofs, err := q.Proofs()
	require.NoError(t, err)
	require.Len(t, proofs, 2)
	answers := []string{proofs[0].Answer().String(), proofs[1].Answer().String()}
	assert.Equal(t, []string{"King(John)", "King(Richard)"}, answers)
}

func TestCrimeDomain(t *testing.T) {
	kb := newKB(t,
		"forall x y z. American(x) and Weapon(y) and Sells(x, y, z) and Hostile(z) => Criminal(x)",
		"Owns(Nono, M1)",
		"Missile(M1)",
		"forall x. Missile(x) and Owns(Nono, x) => Sells(West, x, Nono)",
		"forall x. Missile(x) => Weapon(x)",
		"forall x. Enemy(x, America) => Hostile(x)",
		"American(West)",
		"Enemy(Nono, America)")
	q := kb.NewQuery(goal(t, "Criminal(West)"))
	require.NoError(t, q.Complete(context.Background()))
	result, err := q.Result()
	require.NoError(t, err)
	assert.True(t, result)
	proofs, err := q.Proofs()
	require.NoError(t, err)
	require.NotEmpty(t, proofs)

	// The proof tree derives the goal through the Criminal rule: four
	// conjuncts, each proved in turn.
	root := proofs[0].Root
	assert.Equal(t, "Criminal", root.Goal.Functor)
	assert.Len(t, root.Children, 4)
	assert.Equal(t, "Criminal(West)", proofs[0].Answer().String())

	explanation, err := q.Explain()
	require.NoError(t, err)
	assert.Contains(t, explanation, "Criminal(West)")
	assert.Contains(t, explanation, "[fact]")
	assert.Contains(t, explanation, "[by rule]")
}

func TestTellRejectsNonDefinite(t *testing.T) {
	kb := chaining.NewKnowledgeBase(nil)
	s, err := parser.Sentence("P(a) or Q(b)")
	require.NoError(t, err)
	assert.ErrorIs(t, kb.Tell(s), errors.ErrInvalidArgument)

	s, err = parser.Sentence("not P(a)")
	require.NoError(t, err)
	assert.ErrorIs(t, kb.Tell(s), errors.ErrInvalidArgument)
}

func TestResultBeforeCompletion(t *testing.T) {
	kb := newKB(t, "King(John)")
	q := kb.NewQuery(goal(t, "King(?x)"))
	_, err := q.Result()
	assert.ErrorIs(t, err, errors.ErrInvalidState)
	_, err = q.Proofs()
	assert.ErrorIs(t, err, errors.ErrInvalidState)
	require.NoError(t, q.Complete(context.Background()))
	result, err := q.Result()
	require.NoError(t, err)
	assert.True(t, result)
}

// An infinite proof space: Nat(zero), Nat(x) ⇒ Nat(s(x)). The stream
// yields proofs lazily; cancelling stops the search.
func TestStreamCancellation(t *testing.T) {
	kb := newKB(t,
		"Nat(zero)",
		"forall x. Nat(x) => Nat(s(x))")
	q := kb.NewQuery(goal(t, "Nat(?x)"))
	stream, cancel := q.Stream(context.Background())
	var answers []string
	for r := range stream {
		require.NoError(t, r.Err)
		answers = append(answers, r.Proof.Answer().String())
		if len(answers) == 3 {
			cancel()
			break
		}
	}
	cancel()
	// Drain so the producer goroutine exits before goleak inspects.
	for range stream {
	}
	assert.Equal(t, []string{"Nat(zero)", "Nat(s(zero))", "Nat(s(s(zero)))"}, answers)
}

func TestCancelledContext(t *testing.T) {
	kb := newKB(t, "King(John)")
	q := kb.NewQuery(goal(t, "King(?x)"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Complete(ctx)
	assert.ErrorIs(t, err, errors.ErrCancelled)
}

func TestRulesAreRenamedApart(t *testing.T) {
	// The same rule applied twice in one proof must not leak bindings
	// between its uses.
	kb := newKB(t,
		"P(a, b)",
		"P(b, c)",
		"forall x y. P(x, y) => Q(x, y)",
		"forall x y z. Q(x, y) and Q(y, z) => R(x, z)")
	q := kb.NewQuery(goal(t, "R(a, c)"))
	require.NoError(t, q.Complete(context.Background()))
	result, err := q.Result()
	require.NoError(t, err)
	assert.True(t, result)
}
