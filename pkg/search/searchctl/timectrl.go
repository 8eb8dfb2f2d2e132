package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl is the UCI "go" command's clock state: remaining time for each side, an
// increment gained after every move, and how many moves remain until the next time
// control (0 meaning sudden death, i.e. this increment governs the rest of the game).
type TimeControl struct {
	White, Black time.Duration
	Increment    time.Duration
	Moves        int // 0 == sudden death
	MoveTime     lang.Optional[time.Duration]
}

// Limits returns the soft and hard search-time budget for the side to move, per
// spec.md's time budgeting formulas: sudden death spends a twentieth of the remainder
// plus the increment; with a known number of moves to go it spends proportionally more
// per move as that count shrinks. The hard limit is additionally capped at an explicit
// movetime (if given) and at 80% of the remaining clock, so a buggy estimate can never
// flag the engine.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration) {
	remaining := t.White
	if c == board.Black {
		remaining = t.Black
	}

	if mt, ok := t.MoveTime.V(); ok && remaining == 0 {
		// movetime given with no clock at all (e.g. a bare "go movetime 500"): budget
		// directly from it instead of falling through to a zero-valued clock remainder.
		return mt, mt
	}

	if t.Moves <= 0 {
		soft = remaining/20 + t.Increment
		hard = 3 * soft
	} else {
		soft = time.Duration(float64(remaining)/(0.5*float64(t.Moves)+1)) + t.Increment
		hard = time.Duration(2.5 * float64(soft))
	}

	ceiling := time.Duration(0.8 * float64(remaining))
	if hard > ceiling {
		hard = ceiling
	}
	if mt, ok := t.MoveTime.V(); ok && hard > mt {
		hard = mt
	}
	if hard < soft {
		soft = hard
	}
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f+%.1f", t.White.Seconds(), t.Black.Seconds(), t.Increment.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f+%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Increment.Seconds(), t.Moves)
}

// EnforceTimeControl schedules an automatic Halt at the hard time limit, if tc is set,
// and returns the soft limit for the iterative-deepening driver to watch. A tc.V() miss
// (infinite analysis, "go infinite") reports ok=false: both limits are effectively
// infinite and only an explicit stop ends the search.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (soft time.Duration, ok bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
