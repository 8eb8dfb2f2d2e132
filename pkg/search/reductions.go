package search

import (
	"math"
	"sync"
)

// reductionTableSize bounds the precomputed late-move-reduction table; depths and move
// counts beyond this clamp to the table's edge, which only makes an already-deep
// reduction saturate rather than grow further.
const reductionTableSize = 64

// ReductionTunables are the late-move/late-capture reduction coefficients, each scaled by
// 1000 so a fractional coefficient (e.g. 0.4) can be expressed as an integer UCI spin
// option. Named after the originating engine's own reductions_quiet_* / reductions_capture_*
// options: "di" is the depth*count cross term, "d" the depth-only term, "i" the
// count-only term, "c" the constant term. NullMoveDepthReduction and ProbcutDepthReduction
// mirror that engine's null_move_depth_reduction / probcut_depth_reduction.
type ReductionTunables struct {
	QuietDI, QuietD, QuietI, QuietC         int32
	CaptureDI, CaptureD, CaptureI, CaptureC int32
	NullMoveDepthReduction                  int
	ProbcutDepthReduction                   int
}

// DefaultReductionTunables reproduces this engine's original formulas: quiet reductions
// scaled by 0.4 plus a constant of 1, captures scaled by 0.25, both as
// floor(log(depth)*log(count)*scale [+const]).
func DefaultReductionTunables() ReductionTunables {
	return ReductionTunables{
		QuietDI:                400,
		QuietC:                 1000,
		CaptureDI:              250,
		NullMoveDepthReduction: 3,
		ProbcutDepthReduction:  3,
	}
}

// ReductionTable precomputes LateMoveReduction/LateCaptureReduction for every
// (depth, move count) pair so the hot search loop only ever does an array lookup.
// Recompute rebuilds the table, used whenever a UCI spin option changes a tunable.
type ReductionTable struct {
	mu             sync.RWMutex
	tunables       ReductionTunables
	quiet, capture [reductionTableSize][reductionTableSize]int
}

func NewReductionTable() *ReductionTable {
	t := &ReductionTable{}
	t.Recompute(DefaultReductionTunables())
	return t
}

func (t *ReductionTable) Recompute(tunables ReductionTunables) {
	var quiet, capture [reductionTableSize][reductionTableSize]int
	for depth := 1; depth < reductionTableSize; depth++ {
		for count := 1; count < reductionTableSize; count++ {
			ld, lc := math.Log(float64(depth)), math.Log(float64(count))
			quiet[depth][count] = reduce(ld, lc, tunables.QuietDI, tunables.QuietD, tunables.QuietI, tunables.QuietC)
			capture[depth][count] = reduce(ld, lc, tunables.CaptureDI, tunables.CaptureD, tunables.CaptureI, tunables.CaptureC)
		}
	}

	t.mu.Lock()
	t.tunables = tunables
	t.quiet, t.capture = quiet, capture
	t.mu.Unlock()
}

func reduce(ld, lc float64, di, d, i, c int32) int {
	return int(math.Floor((float64(di)*ld*lc + float64(d)*ld + float64(i)*lc + float64(c)) / 1000))
}

func (t *ReductionTable) Tunables() ReductionTunables {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tunables
}

// LateMoveReduction returns the depth reduction for the count-th quiet move (1-based)
// tried at the given remaining depth.
func (t *ReductionTable) LateMoveReduction(depth, count int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.quiet[clampReductionIndex(depth)][clampReductionIndex(count)]
}

// LateCaptureReduction is the capture counterpart of LateMoveReduction.
func (t *ReductionTable) LateCaptureReduction(depth, count int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.capture[clampReductionIndex(depth)][clampReductionIndex(count)]
}

// NullMoveReduction is the fixed depth reduction applied to a null-move verification
// search.
func (t *ReductionTable) NullMoveReduction() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tunables.NullMoveDepthReduction
}

// ProbcutReduction is the fixed depth reduction applied to a probcut verification
// search.
func (t *ReductionTable) ProbcutReduction() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tunables.ProbcutDepthReduction
}

func clampReductionIndex(v int) int {
	if v < 0 {
		return 0
	}
	if v >= reductionTableSize {
		return reductionTableSize - 1
	}
	return v
}
