package resolution

import (
	"container/heap"

	"github.com/herbrand/fol-engine/cnf"
)

// Pair is a candidate clause pair awaiting resolution.
type Pair struct {
	X, Y cnf.Clause
}

// PairFilter gates which clause pairs enter the queue at all. Returning
// false discards the pair permanently.
type PairFilter func(x, y cnf.Clause) bool

// PairLess orders queued pairs: a pair that is less is dequeued first.
// Ties are broken stably by insertion order.
type PairLess func(a, b Pair) bool

// AllPairs is the filter that admits every pair.
func AllPairs(x, y cnf.Clause) bool { return true }

// PreferUnits dequeues pairs with more unit clauses first, breaking ties
// towards fewer total literals.
func PreferUnits(a, b Pair) bool {
	ua, ub := unitCount(a), unitCount(b)
	if ua != ub {
		return ua > ub
	}
	return literalCount(a) < literalCount(b)
}

// PreferFewerLiterals dequeues pairs with fewer total literals first.
func PreferFewerLiterals(a, b Pair) bool {
	return literalCount(a) < literalCount(b)
}

// FIFO dequeues pairs in insertion order.
func FIFO(a, b Pair) bool { return false }

func unitCount(p Pair) int {
	n := 0
	if p.X.IsUnit() {
		n++
	}
	if p.Y.IsUnit() {
		n++
	}
	return n
}

func literalCount(p Pair) int {
	return p.X.Len() + p.Y.Len()
}

// ---- Priority queue

type queuedPair struct {
	pair Pair
	seq  uint64
}

type pairQueue struct {
	items []queuedPair
	less  PairLess
	seq   uint64
}

func newPairQueue(less PairLess) *pairQueue {
	return &pairQueue{less: less}
}

func (pq *pairQueue) Len() int { return len(pq.items) }

func (pq *pairQueue) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if pq.less(a.pair, b.pair) {
		return true
	}
	if pq.less(b.pair, a.pair) {
		return false
	}
	return a.seq < b.seq
}

func (pq *pairQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *pairQueue) Push(x interface{}) {
	pq.items = append(pq.items, x.(queuedPair))
}

func (pq *pairQueue) Pop() interface{} {
	n := len(pq.items)
	item := pq.items[n-1]
	pq.items = pq.items[:n-1]
	return item
}

func (pq *pairQueue) enqueue(p Pair) {
	pq.seq++
	heap.Push(pq, queuedPair{pair: p, seq: pq.seq})
}

func (pq *pairQueue) dequeue() Pair {
	return heap.Pop(pq).(queuedPair).pair
}
