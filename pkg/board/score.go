package board

import "fmt"

// Score is a centipawn-scale evaluation from the side-to-move's point of view. Values
// inside the mate band encode a forced mate rather than a material estimate.
type Score int32

const (
	// MateScore is the score assigned to the side delivering mate at ply 0.
	MateScore Score = 16000
	// MateMin is the lowest magnitude that is considered "mating": any |Score| >= MateMin
	// encodes a forced mate rather than a heuristic evaluation.
	MateMin Score = 15500

	// DrawScore is the nominal evaluation of a drawn position before contempt is applied.
	DrawScore Score = 0
)

// IsMate reports whether the score lies in the reserved mate band.
func (s Score) IsMate() bool {
	return s >= MateMin || s <= -MateMin
}

// MateIn returns the score for delivering mate in the given number of plies from the
// current node (not from the root).
func MateIn(ply int) Score {
	return MateScore - Score(ply)
}

// MatedIn returns the score for being mated in the given number of plies from the
// current node.
func MatedIn(ply int) Score {
	return -MateScore + Score(ply)
}

// ToTT normalises a score for storage in the transposition table: mate scores are
// rewritten as distance-from-this-node rather than distance-from-root, by folding in
// the current ply.
func (s Score) ToTT(ply int) Score {
	switch {
	case s >= MateMin:
		return s + Score(ply)
	case s <= -MateMin:
		return s - Score(ply)
	default:
		return s
	}
}

// FromTT is the inverse of ToTT: it converts a stored, node-relative mate score back
// into a score relative to the root, given the current ply.
func (s Score) FromTT(ply int) Score {
	switch {
	case s >= MateMin:
		return s - Score(ply)
	case s <= -MateMin:
		return s + Score(ply)
	default:
		return s
	}
}

func (s Score) String() string {
	if s.IsMate() {
		plies := MateScore - s
		if s < 0 {
			plies = -MateScore - s
		}
		return fmt.Sprintf("mate(%v)", plies)
	}
	return fmt.Sprintf("%v", int32(s))
}
