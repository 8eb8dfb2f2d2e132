// Package nnue implements incremental NNUE (Efficiently Updatable Neural Network)
// position evaluation: a flat, king-independent feature encoder, a fixed-point
// accumulator driven directly by board.Position's make/unmake, and a small dense
// network built on pkg/tensor's Affine layers.
package nnue

import (
	"github.com/kestrelchess/kestrel/pkg/board"
)

// Evaluator owns a Network and attaches a fresh Accumulator to each position it is asked
// to evaluate via Attach. Safe for one position/search thread at a time, matching the
// engine's single-threaded search (see SPEC_FULL.md's Non-goals).
type Evaluator struct {
	net *Network
}

// NewEvaluator loads a trained network from weightsFile, or seeds small random weights
// for testing if weightsFile is empty.
func NewEvaluator(weightsFile string) (*Evaluator, error) {
	net := NewNetwork()
	if weightsFile != "" {
		if err := net.LoadWeights(weightsFile); err != nil {
			return nil, err
		}
	} else {
		net.InitRandom(1)
	}
	return &Evaluator{net: net}, nil
}

// Net returns the evaluator's underlying network, mainly so tests can build a second
// Accumulator against the same weights.
func (e *Evaluator) Net() *Network {
	return e.net
}

// Attach builds a fresh Accumulator for pos, refreshed from its current pieces, and wires
// it into pos.Eval so every subsequent Make/Unmake on pos maintains it incrementally.
func (e *Evaluator) Attach(pos *board.Position) *Accumulator {
	acc := NewAccumulator(e.net)
	acc.Refresh(pos)
	pos.Eval = acc
	return acc
}

// Evaluate scores pos from the side to move's perspective. pos.Eval must already be an
// *Accumulator built by Attach (directly or via a clone that inherited it and was
// refreshed).
func Evaluate(pos *board.Position) board.Score {
	acc, ok := pos.Eval.(*Accumulator)
	if !ok {
		panic("nnue: position has no attached Accumulator")
	}
	return acc.Evaluate(pos.Turn())
}
