// Package searchctl is the time-control and iterative-deepening harness around the core
// pv/scout search in pkg/search: it repeatedly invokes search.Search at increasing depth,
// widening aspiration windows, tracking the soft/hard time budget, and exposing a Handle
// the UCI driver can Halt at any time. Grounded on the teacher's searchctl package, with
// the aspiration-window and EMA-branching-factor logic spec.md adds generalized in.
package searchctl

import (
	"fmt"
	"strings"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the per-search parameters the UCI "go" command supplies.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
	// MateLimit, if set, stops as soon as a mate in this many moves (or fewer) is found.
	MateLimit lang.Optional[uint]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if v, ok := o.MateLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("mate=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}
