// Package chaining implements goal-directed backward chaining over
// definite-clause knowledge bases.
//
// A definite clause conjuncts ⇒ head is read as a rule: to prove a goal
// matching head, prove every conjunct. Queries stream their proofs
// lazily over a channel, in the style of a logic-programming solver; a
// goal with several derivations yields several proofs, each carrying the
// bindings accumulated along its branch.
package chaining

import (
	"context"

	"go.uber.org/zap"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/unify"
)

// KnowledgeBase is a store of definite clauses indexed by the indicator
// of their consequent predicate.
type KnowledgeBase struct {
	rules  map[logic.Indicator][]cnf.DefiniteClause
	logger *zap.Logger
}

// NewKnowledgeBase creates an empty knowledge base. A nil logger
// disables logging.
func NewKnowledgeBase(logger *zap.Logger) *KnowledgeBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeBase{
		rules:  make(map[logic.Indicator][]cnf.DefiniteClause),
		logger: logger,
	}
}

// Tell asserts a sentence. Every clause of its clausal form must be
// definite; otherwise nothing is asserted and ErrInvalidArgument is
// returned.
func (kb *KnowledgeBase) Tell(s logic.Sentence) error {
	converted := cnf.Convert(s)
	definite := make([]cnf.DefiniteClause, 0, converted.Len())
	for _, c := range converted.Clauses() {
		d, err := c.AsDefinite()
		if err != nil {
			return errors.New("sentence %v: %w", s, err)
		}
		definite = append(definite, d)
	}
	for _, d := range definite {
		ind := d.Consequent().Indicator()
		kb.rules[ind] = append(kb.rules[ind], d)
		kb.logger.Debug("rule asserted", zap.Stringer("rule", d))
	}
	return nil
}

// TellMany asserts each sentence in order, stopping at the first
// rejected one.
func (kb *KnowledgeBase) TellMany(sentences []logic.Sentence) error {
	for _, s := range sentences {
		if err := kb.Tell(s); err != nil {
			return err
		}
	}
	return nil
}

// Ask reports whether at least one proof of goal exists.
func (kb *KnowledgeBase) Ask(ctx context.Context, goal *logic.Predicate) (bool, error) {
	q := kb.NewQuery(goal)
	if err := q.Complete(ctx); err != nil {
		return false, err
	}
	return q.Result()
}

// NewQuery starts a query for goal.
func (kb *KnowledgeBase) NewQuery(goal *logic.Predicate) *Query {
	return &Query{kb: kb, goal: goal}
}

// ---- Proofs

// ProofNode records that a goal was derived by a rule; its children
// prove the rule's conjuncts, in order.
type ProofNode struct {
	Goal     *logic.Predicate
	Rule     cnf.DefiniteClause
	Children []ProofNode
}

// Proof is one complete derivation of the query goal, with the bindings
// accumulated along it.
type Proof struct {
	Root     ProofNode
	Bindings unify.Bindings
}

// Answer returns the query goal with the proof's bindings applied.
func (p Proof) Answer() *logic.Predicate {
	return p.Bindings.ResolvePredicate(p.Root.Goal)
}

// Result is one streamed proof, or the error that ended the stream.
type Result struct {
	Proof Proof
	Err   error
}

// ---- Query

// Query is a backward-chaining query. It is single-use and not safe for
// concurrent access.
type Query struct {
	kb   *KnowledgeBase
	goal *logic.Predicate

	complete bool
	proofs   []Proof
}

// Goal returns the predicate being queried.
func (q *Query) Goal() *logic.Predicate {
	return q.goal
}

// Stream lazily yields every proof of the goal. The returned cancel
// function stops the search; the channel closes when the search is
// exhausted or cancelled. On cancellation a Result carrying ErrCancelled
// is sent only if a receiver is already waiting for it; otherwise the
// channel just closes.
func (q *Query) Stream(ctx context.Context) (<-chan Result, func()) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Result)
	go func() {
		defer close(out)
		q.kb.prove(ctx, q.goal, unify.Bindings{}, func(node ProofNode, b unify.Bindings) bool {
			select {
			case out <- Result{Proof: Proof{Root: node, Bindings: b}}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err := ctx.Err(); err != nil {
			select {
			case out <- Result{Err: errors.New("query aborted (%v): %w", err, errors.ErrCancelled)}:
			default:
			}
		}
	}()
	return out, cancel
}

// Complete runs the search to exhaustion, collecting every proof.
func (q *Query) Complete(ctx context.Context) error {
	if q.complete {
		return errors.New("query is already complete: %w", errors.ErrInvalidState)
	}
	stream, cancel := q.Stream(ctx)
	defer cancel()
	for r := range stream {
		if r.Err != nil {
			return r.Err
		}
		q.proofs = append(q.proofs, r.Proof)
	}
	// The stream's cancellation result is best-effort; re-check the
	// caller's context so cancellation never reads as exhaustion.
	if err := ctx.Err(); err != nil {
		return errors.New("query aborted (%v): %w", err, errors.ErrCancelled)
	}
	q.complete = true
	q.kb.logger.Info("query complete",
		zap.Stringer("goal", q.goal),
		zap.Int("proofs", len(q.proofs)))
	return nil
}

// IsComplete reports whether the query has finished.
func (q *Query) IsComplete() bool {
	return q.complete
}

// Result reports whether at least one proof was found. It returns
// ErrInvalidState before the query completes.
func (q *Query) Result() (bool, error) {
	if !q.complete {
		return false, errors.New("query is not complete: %w", errors.ErrInvalidState)
	}
	return len(q.proofs) > 0, nil
}

// Proofs returns the collected proofs. It returns ErrInvalidState before
// the query completes.
func (q *Query) Proofs() ([]Proof, error) {
	if !q.complete {
		return nil, errors.New("query is not complete: %w", errors.ErrInvalidState)
	}
	return q.proofs, nil
}

// ---- Search

// prove yields, for every rule whose head unifies with goal under b, a
// proof node per way of proving all the rule's conjuncts. The rule is
// renamed apart on each use. Yield returning false stops the search.
func (kb *KnowledgeBase) prove(ctx context.Context, goal *logic.Predicate, b unify.Bindings, yield func(ProofNode, unify.Bindings) bool) bool {
	if ctx.Err() != nil {
		return false
	}
	for _, rule := range kb.rules[goal.Indicator()] {
		r := rule.Restandardize()
		theta, ok := unify.PredicatesWith(r.Consequent(), goal, b)
		if !ok {
			continue
		}
		cont := kb.proveAll(ctx, r.Conjuncts(), theta, func(children []ProofNode, b2 unify.Bindings) bool {
			return yield(ProofNode{Goal: goal, Rule: r, Children: children}, b2)
		})
		if !cont {
			return false
		}
	}
	return true
}

func (kb *KnowledgeBase) proveAll(ctx context.Context, goals []*logic.Predicate, b unify.Bindings, yield func([]ProofNode, unify.Bindings) bool) bool {
	if len(goals) == 0 {
		return yield(nil, b)
	}
	return kb.prove(ctx, goals[0], b, func(node ProofNode, b2 unify.Bindings) bool {
		return kb.proveAll(ctx, goals[1:], b2, func(rest []ProofNode, b3 unify.Bindings) bool {
			return yield(append([]ProofNode{node}, rest...), b3)
		})
	})
}
