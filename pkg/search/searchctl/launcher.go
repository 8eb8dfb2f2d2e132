package searchctl

import (
	"context"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/search"
)

// Launcher starts a new iterative-deepening search from a position. The board is handed
// to the search exclusively for the duration of the search (see the engine's concurrency
// model): the launcher's caller must not touch it again until the returned channel is
// closed or Halt is called.
type Launcher interface {
	// Launch starts searching pos in the background and returns a handle to control it,
	// plus a channel of PVs: one per completed iterative-deepening iteration, closed when
	// the search ends (depth limit, mate found, time budget, or Halt).
	Launch(ctx context.Context, pos *board.Position, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine stop an in-flight search and retrieve its most recent result.
type Handle interface {
	// Halt stops the search, if still running, and returns its latest PV. Idempotent.
	Halt() search.PV
}
