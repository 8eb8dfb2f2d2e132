package search

import "github.com/kestrelchess/kestrel/pkg/board"

// TablebaseResult is the outcome a Tablebase oracle reports for a probed position.
type TablebaseResult uint8

const (
	TablebaseMiss TablebaseResult = iota
	TablebaseWin
	TablebaseDraw
	TablebaseLoss
)

// Tablebase is a pluggable Syzygy-style endgame oracle: exact win/draw/loss plus a
// distance-to-zero for positions at or below its piece-count threshold. Its
// implementation (file format, probing code) is out of scope for the core search — the
// specification calls for the interface only, treating the oracle as an external
// collaborator. NoopTablebase below is the zero-dependency stand-in that always misses,
// so every call site that consults a Tablebase works identically whether or not a real
// one is wired in.
type Tablebase interface {
	// Probe returns the tablebase's verdict for pos from the side to move's perspective,
	// and the distance to zero (plies to conversion/mate) if not a miss.
	Probe(pos *board.Position) (TablebaseResult, int, bool)
	// ProbeRoot is like Probe but additionally returns a move to play when the position
	// is covered by the tablebase, used only at the search root.
	ProbeRoot(pos *board.Position) (board.Move, TablebaseResult, bool)
}

// NoopTablebase never has anything loaded, so every probe misses. Used whenever no
// tablebase path is configured, or as the default until one is.
type NoopTablebase struct{}

func (NoopTablebase) Probe(pos *board.Position) (TablebaseResult, int, bool) {
	return TablebaseMiss, 0, false
}

func (NoopTablebase) ProbeRoot(pos *board.Position) (board.Move, TablebaseResult, bool) {
	return board.Move{}, TablebaseMiss, false
}
