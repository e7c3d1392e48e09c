package resolution_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/parser"
	"github.com/herbrand/fol-engine/resolution"
)

func tellAll(t *testing.T, kb *resolution.KnowledgeBase, sentences ...string) {
	t.Helper()
	for _, text := range sentences {
		s, err := parser.Sentence(text)
		require.NoError(t, err, text)
		kb.Tell(s)
	}
}

func ask(t *testing.T, kb *resolution.KnowledgeBase, query string) bool {
	t.Helper()
	q, err := parser.Sentence(query)
	require.NoError(t, err, query)
	result, err := kb.Ask(context.Background(), q)
	require.NoError(t, err, query)
	return result
}

var kingsKB = []string{
	"King(John)",
	"Greedy(John)",
	"forall x. King(x) and Greedy(x) => Evil(x)",
}

func TestAsk_Kings(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, kingsKB...)
	assert.True(t, ask(t, kb, "Evil(John)"))
	assert.True(t, ask(t, kb, "Evil(?x)"))
	assert.False(t, ask(t, kb, "Evil(Richard)"))
}

func TestAsk_KingsWithoutGreedy(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb,
		"King(John)",
		"forall x. King(x) and Greedy(x) => Evil(x)")
	assert.False(t, ask(t, kb, "Evil(?x)"))
}

// The Colonel West domain from AIMA §9.
var crimeKB = []string{
	"forall x y z. American(x) and Weapon(y) and Sells(x, y, z) and Hostile(z) => Criminal(x)",
	"Owns(Nono, M1)",
	"Missile(M1)",
	"forall x. Missile(x) and Owns(Nono, x) => Sells(West, x, Nono)",
	"forall x. Missile(x) => Weapon(x)",
	"forall x. Enemy(x, America) => Hostile(x)",
	"American(West)",
	"Enemy(Nono, America)",
}

func TestAsk_CrimeDomain(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, crimeKB...)
	assert.True(t, ask(t, kb, "Criminal(West)"))
}

func TestAsk_ListStore(t *testing.T) {
	config := resolution.DefaultConfig()
	config.Store = resolution.NewListStore()
	kb := resolution.NewKnowledgeBase(config, nil)
	tellAll(t, kb, kingsKB...)
	assert.True(t, ask(t, kb, "Evil(John)"))
}

func TestAsk_Strategies(t *testing.T) {
	for name, priority := range map[string]resolution.PairLess{
		"units":    resolution.PreferUnits,
		"shortest": resolution.PreferFewerLiterals,
		"fifo":     resolution.FIFO,
	} {
		t.Run(name, func(t *testing.T) {
			config := resolution.DefaultConfig()
			config.Priority = priority
			kb := resolution.NewKnowledgeBase(config, nil)
			tellAll(t, kb, kingsKB...)
			assert.True(t, ask(t, kb, "Evil(John)"))
		})
	}
}

func TestExplain(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, crimeKB...)
	goal, err := parser.Sentence("Criminal(West)")
	require.NoError(t, err)
	q, err := kb.NewQuery(goal)
	require.NoError(t, err)
	defer q.Dispose()
	require.NoError(t, q.Complete(context.Background()))
	result, err := q.Result()
	require.NoError(t, err)
	require.True(t, result)

	explanation, err := q.Explain()
	require.NoError(t, err)
	assert.Contains(t, explanation, "⊥", "the derivation must end in the empty clause")
	assert.Contains(t, explanation, "#1:")
	assert.Contains(t, explanation, "[¬Q]", "the negated query must appear as a parent")
	assert.Contains(t, explanation, "[KB]", "knowledge-base clauses must appear as parents")
	assert.Contains(t, explanation, "Criminal")
	assert.Contains(t, explanation, "where:", "normalisation symbols must be explained")
}

func TestExplain_NegativeResult(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, "King(John)")
	goal, err := parser.Sentence("Evil(John)")
	require.NoError(t, err)
	q, err := kb.NewQuery(goal)
	require.NoError(t, err)
	defer q.Dispose()
	require.NoError(t, q.Complete(context.Background()))
	_, err = q.Explain()
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestQueryLifecycle(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, kingsKB...)
	goal, err := parser.Sentence("Evil(John)")
	require.NoError(t, err)
	q, err := kb.NewQuery(goal)
	require.NoError(t, err)
	defer q.Dispose()

	assert.NotEmpty(t, q.ID())
	assert.False(t, q.IsComplete())
	_, err = q.Result()
	assert.ErrorIs(t, err, errors.ErrInvalidState)
	_, err = q.Explain()
	assert.ErrorIs(t, err, errors.ErrInvalidState)

	require.NoError(t, q.Complete(context.Background()))
	assert.True(t, q.IsComplete())
	result, err := q.Result()
	require.NoError(t, err)
	assert.True(t, result)

	// Stepping a completed query fails.
	_, err = q.Step(context.Background())
	assert.ErrorIs(t, err, errors.ErrInvalidState)

	q.Dispose()
	_, err = q.Step(context.Background())
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCancellation(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, kingsKB...)
	goal, err := parser.Sentence("Evil(John)")
	require.NoError(t, err)
	q, err := kb.NewQuery(goal)
	require.NoError(t, err)
	defer q.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.Step(ctx)
	assert.ErrorIs(t, err, errors.ErrCancelled)
	assert.ErrorIs(t, q.Complete(ctx), errors.ErrCancelled)
}

func TestMaxSteps(t *testing.T) {
	config := resolution.DefaultConfig()
	config.MaxSteps = 1
	kb := resolution.NewKnowledgeBase(config, nil)
	tellAll(t, kb, crimeKB...)
	// One step cannot reach the empty clause in this domain.
	result, err := kb.Ask(context.Background(), mustParse(t, "Criminal(West)"))
	require.NoError(t, err)
	assert.False(t, result)
}

func TestNilQuery(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	_, err := kb.NewQuery(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestForwardSubsumption(t *testing.T) {
	store := resolution.NewFeatureVectorStore()
	a := mustParse(t, "P(a)")
	kb := resolution.NewKnowledgeBase(resolution.Config{Store: store}, nil)
	kb.Tell(a)
	kb.Tell(mustParse(t, "P(a) or Q(b)"))
	// The weaker clause is subsumed by P(a) and never stored.
	clauses := kb.Clauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "P(a)", clauses[0].String())
}

func TestBackwardSubsumption(t *testing.T) {
	store := resolution.NewFeatureVectorStore()
	kb := resolution.NewKnowledgeBase(resolution.Config{Store: store}, nil)
	kb.Tell(mustParse(t, "P(a) or Q(b)"))
	kb.Tell(mustParse(t, "P(a)"))
	// The stronger clause replaces the one it subsumes.
	clauses := kb.Clauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "P(a)", clauses[0].String())
}

func mustParse(t *testing.T, text string) logic.Sentence {
	t.Helper()
	s, err := parser.Sentence(text)
	require.NoError(t, err)
	return s
}

func TestExplain_StepsAreTopologicallySorted(t *testing.T) {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	tellAll(t, kb, kingsKB...)
	q, err := kb.NewQuery(mustParse(t, "Evil(John)"))
	require.NoError(t, err)
	defer q.Dispose()
	require.NoError(t, q.Complete(context.Background()))
	explanation, err := q.Explain()
	require.NoError(t, err)
	// Every referenced step index must have been printed before its use.
	printed := map[string]bool{}
	for _, line := range strings.Split(explanation, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if i := strings.Index(line, ":"); i > 0 {
				printed[line[:i]] = true
				continue
			}
		}
		if strings.Contains(line, "[#") {
			start := strings.Index(line, "[#")
			end := strings.Index(line[start:], "]")
			ref := line[start+1 : start+end]
			assert.True(t, printed[ref], "step %s referenced before being printed", ref)
		}
	}
}
