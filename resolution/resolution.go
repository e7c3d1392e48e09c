// Package resolution implements a refutation-resolution theorem prover
// over first-order knowledge bases.
//
// A KnowledgeBase holds CNF clauses in a pluggable Store. Asking whether
// a sentence q follows from the knowledge base negates q, converts it to
// clausal form, and saturates clause pairs by binary resolution until
// the empty clause is derived (q is entailed) or the pair queue runs dry
// (no proof was found). Pair selection is driven by an injected filter
// and priority, so strategies like unit preference are plug-ins rather
// than engine edits.
//
// The search is sound and refutation-complete but not guaranteed to
// terminate on non-entailed queries; callers bound it with a context or
// a step limit.
package resolution

import (
	"context"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
)

// Config carries the tunables of a knowledge base.
type Config struct {
	// Store holds the asserted clauses. Nil means a fresh
	// FeatureVectorStore.
	Store KnowledgeBaseStore
	// Filter gates candidate pairs. Nil means AllPairs.
	Filter PairFilter
	// Priority orders the pair queue. Nil means PreferUnits.
	Priority PairLess
	// MaxSteps bounds the number of Step calls per query; zero means
	// unbounded. A query hitting the bound completes with a false
	// result.
	MaxSteps int
}

// DefaultConfig returns the default configuration: a feature-vector
// store, no pair filter, and unit preference.
func DefaultConfig() Config {
	return Config{
		Filter:   AllPairs,
		Priority: PreferUnits,
	}
}

// KnowledgeBase is a store of asserted sentences that answers entailment
// queries by resolution.
type KnowledgeBase struct {
	store    KnowledgeBaseStore
	filter   PairFilter
	priority PairLess
	maxSteps int
	logger   *zap.Logger
}

// NewKnowledgeBase creates a knowledge base. A nil logger disables
// logging.
func NewKnowledgeBase(config Config, logger *zap.Logger) *KnowledgeBase {
	if config.Store == nil {
		config.Store = NewFeatureVectorStore()
	}
	if config.Filter == nil {
		config.Filter = AllPairs
	}
	if config.Priority == nil {
		config.Priority = PreferUnits
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeBase{
		store:    config.Store,
		filter:   config.Filter,
		priority: config.Priority,
		maxSteps: config.MaxSteps,
		logger:   logger,
	}
}

// Tell asserts a sentence, converting it to clausal form.
func (kb *KnowledgeBase) Tell(s logic.Sentence) {
	for _, c := range cnf.Convert(s).Clauses() {
		if kb.store.Add(c) {
			kb.logger.Debug("clause asserted", zap.Stringer("clause", c))
		}
	}
}

// TellMany asserts each sentence in order.
func (kb *KnowledgeBase) TellMany(sentences []logic.Sentence) {
	for _, s := range sentences {
		kb.Tell(s)
	}
}

// Clauses returns the asserted clauses.
func (kb *KnowledgeBase) Clauses() []cnf.Clause {
	return kb.store.Clauses()
}

// Ask reports whether q is entailed by the knowledge base, running a
// query to completion.
func (kb *KnowledgeBase) Ask(ctx context.Context, q logic.Sentence) (bool, error) {
	query, err := kb.NewQuery(q)
	if err != nil {
		return false, err
	}
	defer query.Dispose()
	if err := query.Complete(ctx); err != nil {
		return false, err
	}
	return query.Result()
}

// NewQuery starts a query for q: ¬q is converted to clausal form, its
// clauses join a snapshot of the store, and every candidate pair
// surviving the filter is enqueued. The caller must Dispose the query.
func (kb *KnowledgeBase) NewQuery(q logic.Sentence) (*Query, error) {
	if q == nil {
		return nil, errors.New("nil query sentence: %w", errors.ErrInvalidArgument)
	}
	query := &Query{
		id:       ulid.Make().String(),
		kb:       kb,
		goal:     q,
		store:    kb.store.NewQueryStore(),
		queue:    newPairQueue(kb.priority),
		steps:    make(map[string]Step),
		negKeys:  make(map[string]bool),
		enqueued: make(map[[2]string]bool),
	}
	negated := cnf.Convert(logic.NewNot(q))
	for _, c := range negated.Clauses() {
		query.negKeys[clauseKey(c)] = true
		query.store.Add(c)
	}
	for _, c := range query.store.Clauses() {
		query.enqueueResolutions(c)
	}
	kb.logger.Debug("query started",
		zap.String("query", query.id),
		zap.Stringer("goal", q),
		zap.Int("negated_clauses", negated.Len()),
		zap.Int("initial_pairs", query.queue.Len()))
	return query, nil
}

func clauseKey(c cnf.Clause) string {
	return c.String()
}
