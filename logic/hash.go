package logic

import (
	"fmt"
)

// Structural FNV-1a hashing. Equal terms and sentences hash equal; the
// hash never follows standardisation or Skolem back-pointers, matching
// the equality contract.

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

type hasher struct {
	sum uint64
}

func newHasher() *hasher {
	return &hasher{sum: offset64}
}

func (h *hasher) writeByte(b byte) {
	h.sum ^= uint64(b)
	h.sum *= prime64
}

func (h *hasher) writeString(s string) {
	for i := 0; i < len(s); i++ {
		h.writeByte(s[i])
	}
	h.writeByte(0)
}

func (h *hasher) writeUint64(v uint64) {
	for i := 0; i < 8; i++ {
		h.writeByte(byte(v))
		v >>= 8
	}
}

// Hash returns a structural hash of t. Equal terms have equal hashes.
func Hash(t Term) uint64 {
	h := newHasher()
	hashTerm(h, t)
	return h.sum
}

func hashTerm(h *hasher, t Term) {
	switch u := t.(type) {
	case Constant:
		h.writeByte(1)
		h.writeString(u.Name)
	case Var:
		if u.std == nil {
			h.writeByte(2)
			h.writeString(u.Name)
		} else {
			h.writeByte(3)
			h.writeUint64(u.std.seq)
		}
	case *Function:
		if u.sk == nil {
			h.writeByte(4)
			h.writeString(u.Functor)
		} else {
			h.writeByte(5)
			h.writeUint64(u.sk.seq)
		}
		for _, arg := range u.Args {
			hashTerm(h, arg)
		}
	default:
		panic(fmt.Sprintf("logic.Hash: unhandled type %T", t))
	}
}

// HashSentence returns a structural hash of s. Equal sentences have equal
// hashes.
func HashSentence(s Sentence) uint64 {
	h := newHasher()
	hashSentence(h, s)
	return h.sum
}

func hashSentence(h *hasher, s Sentence) {
	h.writeByte(byte(16 + sentenceOrder(s)))
	switch u := s.(type) {
	case *Predicate:
		h.writeString(u.Functor)
		for _, arg := range u.Args {
			hashTerm(h, arg)
		}
	case *Not:
		hashSentence(h, u.Operand)
	case *And:
		hashSentence(h, u.Left)
		hashSentence(h, u.Right)
	case *Or:
		hashSentence(h, u.Left)
		hashSentence(h, u.Right)
	case *Implies:
		hashSentence(h, u.Antecedent)
		hashSentence(h, u.Consequent)
	case *Iff:
		hashSentence(h, u.Left)
		hashSentence(h, u.Right)
	case *ForAll:
		hashTerm(h, u.Variable)
		hashSentence(h, u.Body)
	case *Exists:
		hashTerm(h, u.Variable)
		hashSentence(h, u.Body)
	default:
		panic(fmt.Sprintf("logic.HashSentence: unhandled type %T", s))
	}
}
