// Package fvindex implements a feature-vector index over CNF clauses,
// answering subsumption queries in sub-linear average time.
//
// Each stored clause is summarised by a feature vector: a feature-sorted
// sequence of (feature, count) components produced by a Selector. The
// index is a trie whose edges are labelled with vector components; a
// clause's entry lives at the node whose path spells its vector.
//
// The vector tests used during traversal are necessary but not
// sufficient: a clause can only subsume another if, feature by feature,
// its counts do not exceed the other's. Every candidate surfaced by the
// trie is therefore re-checked with Clause.Subsumes before being
// returned.
package fvindex

import (
	"cmp"
	"sort"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
)

// Component is one (feature, count) element of a feature vector.
type Component[F cmp.Ordered] struct {
	Feature F
	Count   int
}

// Selector derives a clause's feature components. Order is irrelevant and
// duplicate features are summed; components with non-positive counts are
// dropped, which keeps the feature universe open.
type Selector[F cmp.Ordered] func(cnf.Clause) []Component[F]

// PredicateSymbols is the canonical selector: the occurrence count of
// each predicate functor in the clause.
func PredicateSymbols(c cnf.Clause) []Component[string] {
	counts := make(map[string]int)
	for _, l := range c.Literals() {
		counts[l.Predicate.Functor]++
	}
	comps := make([]Component[string], 0, len(counts))
	for f, n := range counts {
		comps = append(comps, Component[string]{Feature: f, Count: n})
	}
	return comps
}

// Entry is a stored (clause, value) pair.
type Entry[V any] struct {
	Key   cnf.Clause
	Value V
}

// Index is a feature-vector trie mapping clauses to values. It is not
// internally synchronised; concurrent callers must coordinate externally.
type Index[F cmp.Ordered, V any] struct {
	root     *node[F, V]
	selector Selector[F]
	size     int

	// KeyAdded, if set, is invoked after a clause is stored.
	KeyAdded func(cnf.Clause)
	// KeyRemoved, if set, is invoked after a clause is removed.
	KeyRemoved func(cnf.Clause)
}

type node[F cmp.Ordered, V any] struct {
	edges   []edge[F, V]
	entries []Entry[V]
}

type edge[F cmp.Ordered, V any] struct {
	comp Component[F]
	to   *node[F, V]
}

// New creates an empty index using the given selector.
func New[F cmp.Ordered, V any](selector Selector[F]) *Index[F, V] {
	return &Index[F, V]{root: &node[F, V]{}, selector: selector}
}

// Len returns the number of stored entries.
func (ix *Index[F, V]) Len() int {
	return ix.size
}

func (ix *Index[F, V]) vector(c cnf.Clause) []Component[F] {
	counts := make(map[F]int)
	for _, comp := range ix.selector(c) {
		counts[comp.Feature] += comp.Count
	}
	comps := make([]Component[F], 0, len(counts))
	for f, n := range counts {
		if n <= 0 {
			continue
		}
		comps = append(comps, Component[F]{Feature: f, Count: n})
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].Feature < comps[j].Feature })
	return comps
}

func (n *node[F, V]) child(comp Component[F]) *node[F, V] {
	for _, e := range n.edges {
		if e.comp == comp {
			return e.to
		}
	}
	return nil
}

func (n *node[F, V]) addChild(comp Component[F]) *node[F, V] {
	i := sort.Search(len(n.edges), func(i int) bool {
		e := n.edges[i].comp
		return e.Feature > comp.Feature || (e.Feature == comp.Feature && e.Count >= comp.Count)
	})
	if i < len(n.edges) && n.edges[i].comp == comp {
		return n.edges[i].to
	}
	child := &node[F, V]{}
	n.edges = append(n.edges, edge[F, V]{})
	copy(n.edges[i+1:], n.edges[i:])
	n.edges[i] = edge[F, V]{comp: comp, to: child}
	return child
}

func (n *node[F, V]) dropChild(comp Component[F]) {
	for i, e := range n.edges {
		if e.comp == comp {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

// Add stores value under clause. It reports whether the clause was new;
// storing an existing clause replaces its value without firing KeyAdded.
// The empty clause is rejected: it subsumes everything and has no
// feature vector.
func (ix *Index[F, V]) Add(clause cnf.Clause, value V) (bool, error) {
	if clause.IsEmpty() {
		return false, errors.New("empty clause can't be used as index key: %w", errors.ErrInvalidArgument)
	}
	n := ix.root
	for _, comp := range ix.vector(clause) {
		n = n.addChild(comp)
	}
	for i, entry := range n.entries {
		if entry.Key.Eq(clause) {
			n.entries[i].Value = value
			return false, nil
		}
	}
	n.entries = append(n.entries, Entry[V]{Key: clause, Value: value})
	ix.size++
	if ix.KeyAdded != nil {
		ix.KeyAdded(clause)
	}
	return true, nil
}

// TryGet returns the value stored under clause, if any.
func (ix *Index[F, V]) TryGet(clause cnf.Clause) (V, bool) {
	var zero V
	n := ix.root
	for _, comp := range ix.vector(clause) {
		if n = n.child(comp); n == nil {
			return zero, false
		}
	}
	for _, entry := range n.entries {
		if entry.Key.Eq(clause) {
			return entry.Value, true
		}
	}
	return zero, false
}

// Remove deletes the entry stored under clause, pruning trie paths that
// become empty. It reports whether an entry was removed.
func (ix *Index[F, V]) Remove(clause cnf.Clause) bool {
	removed, _ := ix.remove(ix.root, ix.vector(clause), clause)
	return removed
}

func (ix *Index[F, V]) remove(n *node[F, V], comps []Component[F], clause cnf.Clause) (removed, prune bool) {
	if len(comps) == 0 {
		for i, entry := range n.entries {
			if entry.Key.Eq(clause) {
				n.entries = append(n.entries[:i], n.entries[i+1:]...)
				ix.size--
				if ix.KeyRemoved != nil {
					ix.KeyRemoved(clause)
				}
				return true, len(n.entries) == 0 && len(n.edges) == 0
			}
		}
		return false, false
	}
	child := n.child(comps[0])
	if child == nil {
		return false, false
	}
	removed, prune = ix.remove(child, comps[1:], clause)
	if prune {
		n.dropChild(comps[0])
	}
	return removed, len(n.entries) == 0 && len(n.edges) == 0
}

// Entries returns every stored entry, in deterministic trie order: a
// node's own entries in insertion order, then its children in ascending
// component order.
func (ix *Index[F, V]) Entries() []Entry[V] {
	var out []Entry[V]
	collect(ix.root, &out)
	return out
}

func collect[F cmp.Ordered, V any](n *node[F, V], out *[]Entry[V]) {
	*out = append(*out, n.entries...)
	for _, e := range n.edges {
		collect(e.to, out)
	}
}

// ---- Subsumption queries

// GetSubsuming returns every stored entry whose clause subsumes query.
func (ix *Index[F, V]) GetSubsuming(query cnf.Clause) []Entry[V] {
	var out []Entry[V]
	ix.subsuming(ix.root, ix.vector(query), query, &out)
	return out
}

// subsuming visits nodes whose path is component-wise ≤ a subsequence of
// the query vector: a stored feature absent from the query rules the
// branch out, a query feature absent from the stored vector is fine.
func (ix *Index[F, V]) subsuming(n *node[F, V], qs []Component[F], query cnf.Clause, out *[]Entry[V]) {
	for _, entry := range n.entries {
		if entry.Key.Subsumes(query) {
			*out = append(*out, entry)
		}
	}
	for _, e := range n.edges {
		for j := 0; j < len(qs); j++ {
			if qs[j].Feature != e.comp.Feature {
				continue
			}
			if e.comp.Count <= qs[j].Count {
				ix.subsuming(e.to, qs[j+1:], query, out)
			}
			break
		}
	}
}

// GetSubsumed returns every stored entry whose clause is subsumed by
// query.
func (ix *Index[F, V]) GetSubsumed(query cnf.Clause) []Entry[V] {
	var out []Entry[V]
	ix.subsumed(ix.root, ix.vector(query), query, &out)
	return out
}

// subsumed visits nodes whose path covers the query vector with
// component-wise ≥ counts: extra stored features are fine, a query
// feature missing from the stored vector rules the branch out.
func (ix *Index[F, V]) subsumed(n *node[F, V], qs []Component[F], query cnf.Clause, out *[]Entry[V]) {
	if len(qs) == 0 {
		ix.collectSubsumed(n, query, out)
		return
	}
	for _, e := range n.edges {
		switch {
		case e.comp.Feature < qs[0].Feature:
			ix.subsumed(e.to, qs, query, out)
		case e.comp.Feature == qs[0].Feature && e.comp.Count >= qs[0].Count:
			ix.subsumed(e.to, qs[1:], query, out)
		}
	}
}

func (ix *Index[F, V]) collectSubsumed(n *node[F, V], query cnf.Clause, out *[]Entry[V]) {
	for _, entry := range n.entries {
		if query.Subsumes(entry.Key) {
			*out = append(*out, entry)
		}
	}
	for _, e := range n.edges {
		ix.collectSubsumed(e.to, query, out)
	}
}

// RemoveSubsumed removes every stored entry whose clause is subsumed by
// query, pruning trie paths that become empty, and returns the removed
// entries.
func (ix *Index[F, V]) RemoveSubsumed(query cnf.Clause) []Entry[V] {
	var out []Entry[V]
	ix.removeSubsumed(ix.root, ix.vector(query), query, &out)
	return out
}

func (ix *Index[F, V]) removeSubsumed(n *node[F, V], qs []Component[F], query cnf.Clause, out *[]Entry[V]) (prune bool) {
	if len(qs) == 0 {
		ix.dropSubsumed(n, query, out)
		return len(n.entries) == 0 && len(n.edges) == 0
	}
	var pruned []Component[F]
	for _, e := range n.edges {
		descend := false
		rest := qs
		switch {
		case e.comp.Feature < qs[0].Feature:
			descend = true
		case e.comp.Feature == qs[0].Feature && e.comp.Count >= qs[0].Count:
			descend = true
			rest = qs[1:]
		}
		if descend && ix.removeSubsumed(e.to, rest, query, out) {
			pruned = append(pruned, e.comp)
		}
	}
	for _, comp := range pruned {
		n.dropChild(comp)
	}
	return len(n.entries) == 0 && len(n.edges) == 0
}

func (ix *Index[F, V]) dropSubsumed(n *node[F, V], query cnf.Clause, out *[]Entry[V]) {
	kept := n.entries[:0]
	for _, entry := range n.entries {
		if query.Subsumes(entry.Key) {
			*out = append(*out, entry)
			ix.size--
			if ix.KeyRemoved != nil {
				ix.KeyRemoved(entry.Key)
			}
		} else {
			kept = append(kept, entry)
		}
	}
	n.entries = kept
	var pruned []Component[F]
	for _, e := range n.edges {
		ix.dropSubsumed(e.to, query, out)
		if len(e.to.entries) == 0 && len(e.to.edges) == 0 {
			pruned = append(pruned, e.comp)
		}
	}
	for _, comp := range pruned {
		n.dropChild(comp)
	}
}

// TryReplaceSubsumed stores value under clause after removing every
// stored clause it subsumes. If some stored clause already subsumes it,
// nothing changes and false is returned.
func (ix *Index[F, V]) TryReplaceSubsumed(clause cnf.Clause, value V) (bool, error) {
	if clause.IsEmpty() {
		return false, errors.New("empty clause can't be used as index key: %w", errors.ErrInvalidArgument)
	}
	if len(ix.GetSubsuming(clause)) > 0 {
		return false, nil
	}
	ix.RemoveSubsumed(clause)
	if _, err := ix.Add(clause, value); err != nil {
		return false, err
	}
	return true, nil
}
