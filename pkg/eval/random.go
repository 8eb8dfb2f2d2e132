// Package eval holds small evaluation-adjacent utilities that sit outside the core NNUE
// evaluator in pkg/nnue.
package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// Random adds a small amount of pseudo-random noise to leaf evaluations, for engine-match
// diversity. Grounded on the teacher's eval.Random, but keyed by the position's Zobrist
// hash rather than a sequential rand.Rand stream: the search revisits the same position
// many times (transpositions, re-searches after an aspiration-window failure), and a
// leaf's evaluation must be stable across those visits or the search itself becomes
// unstable. A zero-value Random (or a non-positive Limit) always returns zero.
type Random struct {
	Limit int32
	Seed  int64
}

// NewRandom returns a Random whose jitter lies in [-limit/2, limit-1-limit/2] centipawns.
func NewRandom(limit int, seed int64) Random {
	return Random{Limit: int32(limit), Seed: seed}
}

// Apply adds this Random's jitter for pos to score.
func (n Random) Apply(pos *board.Position, score board.Score) board.Score {
	if n.Limit <= 0 {
		return score
	}
	h := uint64(pos.Hash()) ^ uint64(n.Seed)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	jitter := int32(h%uint64(n.Limit)) - n.Limit/2
	return score + board.Score(jitter)
}
