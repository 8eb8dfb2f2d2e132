package nnue

import "github.com/kestrelchess/kestrel/pkg/board"

// Accumulator holds both colours' first-layer activations, incrementally maintained
// across make/unmake so that evaluating a position mid-search costs O(changed
// features) rather than O(all pieces). It implements board.Accumulator so a Position
// can drive it directly.
type Accumulator struct {
	net *Network

	white, black [AccSize]accValue
	computed     bool
}

// NewAccumulator returns an accumulator driven by the given network. It is uncomputed
// until the first Refresh.
func NewAccumulator(net *Network) *Accumulator {
	return &Accumulator{net: net}
}

// Refresh rebuilds both perspectives from scratch off the position's current pieces.
// Update calls it for an accumulator that has not been computed yet, and the search calls
// it periodically as a defensive rebuild; otherwise Update applies each move as an exact
// diff, since feature indices are king-independent.
func (a *Accumulator) Refresh(p *board.Position) {
	white, black := activeFeatures(p)

	a.white = a.net.AccBias
	a.black = a.net.AccBias

	for _, idx := range white {
		a.net.addFeatureRow(&a.white, idx, 1)
	}
	for _, idx := range black {
		a.net.addFeatureRow(&a.black, idx, 1)
	}

	a.computed = true
}

// Update applies (forward) or reverts (!forward) the feature diff induced by a move.
// Every move, including a king move, is handled as an O(changed features) diff.
func (a *Accumulator) Update(p *board.Position, m board.Move, mover board.Color, forward bool) {
	if !a.computed {
		a.Refresh(p)
		return
	}

	white, black := changedFeatures(mover, m)

	sign := int32(1)
	if !forward {
		sign = -1
	}

	for _, idx := range white.add {
		a.net.addFeatureRow(&a.white, idx, sign)
	}
	for _, idx := range white.rem {
		a.net.addFeatureRow(&a.white, idx, -sign)
	}
	for _, idx := range black.add {
		a.net.addFeatureRow(&a.black, idx, sign)
	}
	for _, idx := range black.rem {
		a.net.addFeatureRow(&a.black, idx, -sign)
	}
}

// White returns the White-perspective accumulator lanes, mainly for tests that compare
// against a from-scratch Refresh.
func (a *Accumulator) White() [AccSize]accValue {
	return a.white
}

// Black returns the Black-perspective accumulator lanes, mainly for tests that compare
// against a from-scratch Refresh.
func (a *Accumulator) Black() [AccSize]accValue {
	return a.black
}

// Evaluate runs the network's forward pass from the accumulated activations, returning
// a centipawn score relative to the side to move.
func (a *Accumulator) Evaluate(sideToMove board.Color) board.Score {
	if !a.computed {
		panic("nnue: Evaluate called before Refresh")
	}
	return a.net.Forward(&a.white, &a.black, sideToMove)
}
