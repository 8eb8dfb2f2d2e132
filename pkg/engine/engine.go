package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/kestrelchess/kestrel/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

var version = build.NewVersion(0, 89, 3)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine uses a minimal
	// table rather than no table at all: the search always needs somewhere to store the
	// hash move for ordering.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations.
	Noise uint
	// Contempt biases the engine against (positive) or toward (negative) accepting a
	// draw, in centipawns.
	Contempt int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, contempt=%v}", o.Depth, o.Hash, o.Noise, o.Contempt)
}

// tableFactory allocates a transposition table of the given size; overridable for tests.
type tableFactory func(ctx context.Context, sizeBytes uint64) search.TranspositionTable

// Engine encapsulates game-playing logic, search and evaluation. Grounded on the
// teacher's engine.Engine, generalized to board.Game/board.Position and the
// killer/history/countermove tables the teacher's engine does not have.
type Engine struct {
	name, author string

	factory tableFactory
	zt      *board.ZobristTable
	seed    int64
	opts    Options

	game       *board.Game
	tt         search.TranspositionTable
	tb         search.Tablebase
	tbPath     string
	killers    *search.KillerTable
	history    *search.HistoryTable
	counters   *search.CounterMoveTable
	reductions *search.ReductionTable
	noise      eval.Random

	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable overrides the transposition table factory, primarily for tests.
func WithTable(factory func(ctx context.Context, sizeBytes uint64) search.TranspositionTable) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the
// default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// minHashMB is the floor applied to Options.Hash: a search with nowhere to store a hash
// move degrades move ordering badly enough that it is never worth allowing.
const minHashMB = 1

func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:       name,
		author:     author,
		factory:    search.NewTranspositionTable,
		tb:         search.NoopTablebase{},
		killers:    search.NewKillerTable(),
		history:    search.NewHistoryTable(),
		counters:   search.NewCounterMoveTable(),
		reductions: search.NewReductionTable(),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

// ReductionTunables returns the current late-move/late-capture/null-move/probcut
// reduction coefficients.
func (e *Engine) ReductionTunables() search.ReductionTunables {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.reductions.Tunables()
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
	e.tt = e.newTable()
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
	e.noise = e.newNoise()
}

func (e *Engine) SetContempt(centipawns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Contempt = centipawns
}

// SetTablebase configures the path to a tablebase directory. An empty path disables
// probing. The core search treats the oracle as an external collaborator (see
// search.Tablebase); this engine has no bundled probing backend, so a non-empty path is
// recorded but still answers every probe with a miss until a real implementation is
// wired into tb.
func (e *Engine) SetTablebase(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tbPath = path
	e.tb = search.NoopTablebase{}
}

// SetReductionTunables replaces the late-move/late-capture/null-move/probcut reduction
// coefficients driving the search's pruning depth, exposed as UCI spin options.
func (e *Engine) SetReductionTunables(tunables search.ReductionTunables) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reductions.Recompute(tunables)
}

func (e *Engine) newTable() search.TranspositionTable {
	mb := e.opts.Hash
	if mb < minHashMB {
		mb = minHashMB
	}
	return e.factory(context.Background(), uint64(mb)<<20)
}

func (e *Engine) newNoise() eval.Random {
	if e.opts.Noise == 0 {
		return eval.Random{}
	}
	return eval.NewRandom(int(e.opts.Noise)/10, e.seed) // millipawns to centipawns
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.game.Position())
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	_, _ = e.haltSearchIfActive(ctx)

	pos, err := fen.Decode(e.zt, position)
	if err != nil {
		return err
	}
	e.game = board.NewGame(pos)

	e.tt = e.newTable()
	e.killers.Clear()
	e.history.Clear()
	e.counters.Clear()
	e.noise = e.newNoise()

	logw.Infof(ctx, "New game: %v", e.game)
	return nil
}

// Move selects the given move, usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	moves := e.game.Position().PseudoLegalMoves(e.game.Turn())
	for _, m := range moves {
		if !candidate.Equals(m) {
			continue
		}

		// Candidate is at least pseudo-legal.

		if !e.game.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}

		logw.Infof(ctx, "Move %v: %v", m, e.game)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.game.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze analyzes the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.game, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	stop, running := atomic.NewBool(false), atomic.NewBool(false)
	root := search.NewSearch(e.tt, e.tb, e.killers, e.history, e.counters, e.reductions, board.Score(e.opts.Contempt), e.noise, stop, running)
	launcher := &searchctl.Iterative{Root: root, TT: e.tt, Killers: e.killers, History: e.history}

	handle, out := launcher.Launch(ctx, e.game.Position().Clone(), opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.game, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
