package resolution

import (
	"context"

	"go.uber.org/zap"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"
)

// Step is one recorded resolution: the two parent clauses, the unifier,
// and the derived clause.
type Step struct {
	Parent1, Parent2 cnf.Clause
	Unifier          unify.Bindings
	Resolvent        cnf.Clause
}

type queryState int

const (
	stateRunning queryState = iota
	stateComplete
	stateDisposed
)

// Query is an in-flight resolution query. Queries are single-use and not
// safe for concurrent access; the caller must Dispose them.
type Query struct {
	id   string
	kb   *KnowledgeBase
	goal logic.Sentence

	store    QueryStore
	queue    *pairQueue
	steps    map[string]Step
	negKeys  map[string]bool
	enqueued map[[2]string]bool

	state     queryState
	result    bool
	stepCount int
}

// ID returns the query's unique identifier.
func (q *Query) ID() string {
	return q.id
}

// Goal returns the sentence being queried.
func (q *Query) Goal() logic.Sentence {
	return q.goal
}

// IsComplete reports whether the query has finished.
func (q *Query) IsComplete() bool {
	return q.state == stateComplete
}

// Result reports whether the goal is entailed. It returns
// ErrInvalidState before the query completes.
func (q *Query) Result() (bool, error) {
	if q.state != stateComplete {
		return false, errors.New("query %s is not complete: %w", q.id, errors.ErrInvalidState)
	}
	return q.result, nil
}

// Step dequeues the highest-priority pair and resolves it, recording
// each new derivation. It reports whether the query completed. Stepping
// a completed or disposed query returns ErrInvalidState; a cancelled
// context surfaces as ErrCancelled.
func (q *Query) Step(ctx context.Context) (bool, error) {
	switch q.state {
	case stateComplete:
		return true, errors.New("query %s is already complete: %w", q.id, errors.ErrInvalidState)
	case stateDisposed:
		return false, errors.New("query %s is disposed: %w", q.id, errors.ErrInvalidState)
	}
	if err := ctx.Err(); err != nil {
		return false, errors.New("query %s aborted (%v): %w", q.id, err, errors.ErrCancelled)
	}
	if q.kb.maxSteps > 0 && q.stepCount >= q.kb.maxSteps {
		q.kb.logger.Warn("step limit reached", zap.String("query", q.id), zap.Int("steps", q.stepCount))
		q.complete(false)
		return true, nil
	}
	if q.queue.Len() == 0 {
		q.complete(false)
		return true, nil
	}
	q.stepCount++
	pair := q.queue.dequeue()
	for _, r := range pair.X.Resolve(pair.Y) {
		if r.Clause.IsTautology() {
			continue
		}
		if r.Clause.IsEmpty() {
			q.steps[clauseKey(r.Clause)] = Step{Parent1: pair.X, Parent2: pair.Y, Unifier: r.Unifier, Resolvent: r.Clause}
			q.complete(true)
			return true, nil
		}
		if !q.store.Add(r.Clause) {
			continue
		}
		q.steps[clauseKey(r.Clause)] = Step{Parent1: pair.X, Parent2: pair.Y, Unifier: r.Unifier, Resolvent: r.Clause}
		q.kb.logger.Debug("clause derived",
			zap.String("query", q.id),
			zap.Stringer("clause", r.Clause),
			zap.Stringer("parent1", pair.X),
			zap.Stringer("parent2", pair.Y))
		q.enqueueResolutions(r.Clause)
	}
	return false, nil
}

// Complete steps the query until it finishes.
func (q *Query) Complete(ctx context.Context) error {
	for {
		done, err := q.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Dispose releases the query's store snapshot. A disposed query rejects
// further operations.
func (q *Query) Dispose() {
	if q.state == stateDisposed {
		return
	}
	q.store.Dispose()
	q.state = stateDisposed
}

func (q *Query) complete(result bool) {
	q.result = result
	q.state = stateComplete
	q.kb.logger.Info("query complete",
		zap.String("query", q.id),
		zap.Stringer("goal", q.goal),
		zap.Bool("result", result),
		zap.Int("steps", q.stepCount))
}

// enqueueResolutions pairs c against the store's candidates, deduplicating
// pairs and applying the filter.
func (q *Query) enqueueResolutions(c cnf.Clause) {
	ck := clauseKey(c)
	for _, r := range q.store.FindResolutions(c) {
		if !q.kb.filter(c, r.Other) {
			continue
		}
		ok := clauseKey(r.Other)
		pk := [2]string{ck, ok}
		if ok < ck {
			pk = [2]string{ok, ck}
		}
		if q.enqueued[pk] {
			continue
		}
		q.enqueued[pk] = true
		q.queue.enqueue(Pair{X: c, Y: r.Other})
	}
}
