package resolution

import (
	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/fvindex"
	"github.com/herbrand/fol-engine/unify"
)

// Resolution is one candidate resolution yielded by a store: the stored
// clause resolved against, the unifier, and the resulting clause.
type Resolution struct {
	Other     cnf.Clause
	Unifier   unify.Bindings
	Resolvent cnf.Clause
}

// Store holds the clauses visible to a query.
type Store interface {
	// Add stores a clause, reporting whether it was new. A store
	// enforcing subsumption reports false for clauses already subsumed
	// by a stored one, and prunes stored clauses the new one subsumes.
	Add(c cnf.Clause) bool
	// Clauses returns the stored clauses in deterministic order.
	Clauses() []cnf.Clause
	// FindResolutions yields the candidate resolutions of c against the
	// stored clauses. A store enforcing subsumption skips resolvents a
	// stored clause subsumes.
	FindResolutions(c cnf.Clause) []Resolution
}

// KnowledgeBaseStore is a Store that can spawn per-query snapshots.
type KnowledgeBaseStore interface {
	Store
	// NewQueryStore returns a writable snapshot of the store. The
	// snapshot must be disposed, and must not outlive its parent.
	NewQueryStore() QueryStore
}

// QueryStore is a disposable per-query Store.
type QueryStore interface {
	Store
	Dispose()
}

// ---- List-backed store

// ListStore is the simplest conforming store: a slice scanned linearly,
// with no subsumption enforcement.
type ListStore struct {
	clauses []cnf.Clause
}

// NewListStore creates a ListStore holding the given clauses.
func NewListStore(clauses ...cnf.Clause) *ListStore {
	s := &ListStore{}
	for _, c := range clauses {
		s.Add(c)
	}
	return s
}

func (s *ListStore) Add(c cnf.Clause) bool {
	for _, stored := range s.clauses {
		if stored.Eq(c) {
			return false
		}
	}
	s.clauses = append(s.clauses, c)
	return true
}

func (s *ListStore) Clauses() []cnf.Clause {
	return s.clauses
}

func (s *ListStore) FindResolutions(c cnf.Clause) []Resolution {
	var out []Resolution
	for _, stored := range s.clauses {
		for _, r := range c.Resolve(stored) {
			out = append(out, Resolution{Other: stored, Unifier: r.Unifier, Resolvent: r.Clause})
		}
	}
	return out
}

func (s *ListStore) NewQueryStore() QueryStore {
	snapshot := make([]cnf.Clause, len(s.clauses))
	copy(snapshot, s.clauses)
	return &listQueryStore{ListStore{clauses: snapshot}}
}

type listQueryStore struct {
	ListStore
}

func (s *listQueryStore) Dispose() {
	s.clauses = nil
}

// ---- Feature-vector-backed store

// FeatureVectorStore keeps clauses in a feature-vector index and
// enforces subsumption in both directions: adding a clause subsumed by a
// stored one is a no-op, and adding a clause removes every stored clause
// it subsumes.
type FeatureVectorStore struct {
	ix *fvindex.Index[string, struct{}]
}

// NewFeatureVectorStore creates a store holding the given clauses,
// indexed by predicate-symbol occurrence counts.
func NewFeatureVectorStore(clauses ...cnf.Clause) *FeatureVectorStore {
	s := &FeatureVectorStore{ix: fvindex.New[string, struct{}](fvindex.PredicateSymbols)}
	for _, c := range clauses {
		s.Add(c)
	}
	return s
}

func (s *FeatureVectorStore) Add(c cnf.Clause) bool {
	added, err := s.ix.TryReplaceSubsumed(c, struct{}{})
	if err != nil {
		// Only the empty clause is rejected, and the engine never
		// stores it: deriving ⊥ completes the query instead.
		return false
	}
	return added
}

func (s *FeatureVectorStore) Clauses() []cnf.Clause {
	entries := s.ix.Entries()
	clauses := make([]cnf.Clause, len(entries))
	for i, e := range entries {
		clauses[i] = e.Key
	}
	return clauses
}

func (s *FeatureVectorStore) FindResolutions(c cnf.Clause) []Resolution {
	var out []Resolution
	for _, stored := range s.Clauses() {
		for _, r := range c.Resolve(stored) {
			if !r.Clause.IsEmpty() && len(s.ix.GetSubsuming(r.Clause)) > 0 {
				continue
			}
			out = append(out, Resolution{Other: stored, Unifier: r.Unifier, Resolvent: r.Clause})
		}
	}
	return out
}

func (s *FeatureVectorStore) NewQueryStore() QueryStore {
	return &fvQueryStore{FeatureVectorStore: NewFeatureVectorStore(s.Clauses()...)}
}

type fvQueryStore struct {
	*FeatureVectorStore
}

func (s *fvQueryStore) Dispose() {
	s.ix = fvindex.New[string, struct{}](fvindex.PredicateSymbols)
}
