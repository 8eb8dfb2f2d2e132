// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/kestrelchess/kestrel/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated if sent "uci". Grounded
// on the teacher's uci.Driver, generalized to searchctl.Options/search.PV and the
// Hash/Noise/Contempt spin options this engine's SetHash/SetNoise/Options expose.
type Driver struct {
	e       *engine.Engine
	options []option

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:       e,
		options: defaultOptions(e),
		out:     out,
		ponder:  make(chan search.PV, 400),
		quit:    make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

// defaultOptions declares the Hash/Noise/Contempt spin options, the SyzygyPath tablebase
// string option, and the reduction tunables this engine exposes. The reduction spin
// options and their [-1000, 1000] bounds mirror the originating engine's own
// reductions_quiet_*/reductions_capture_*/null_move_depth_reduction/
// probcut_depth_reduction UCI options.
func defaultOptions(e *engine.Engine) []option {
	opts := e.Options()
	options := []option{
		spinOption{Name: "Hash", Default: int(opts.Hash), Min: 1, Max: 4096, Apply: func(n int) { e.SetHash(uint(n)) }},
		spinOption{Name: "Noise", Default: int(opts.Noise), Min: 0, Max: 1000, Apply: func(n int) { e.SetNoise(uint(n)) }},
		spinOption{Name: "Contempt", Default: opts.Contempt, Min: -1000, Max: 1000, Apply: e.SetContempt},
		stringOption{Name: "SyzygyPath", Default: "", Apply: e.SetTablebase},
	}
	return append(options, reductionOptions(e)...)
}

// reductionOptions exposes each ReductionTunables field as its own bounded spin option,
// reading-modifying-writing the whole tunables struct on Apply since the engine stores it
// as one atomic unit.
func reductionOptions(e *engine.Engine) []option {
	field := func(name string, get func(search.ReductionTunables) int, set func(*search.ReductionTunables, int)) option {
		return spinOption{
			Name:    name,
			Default: get(e.ReductionTunables()),
			Min:     -1000,
			Max:     1000,
			Apply: func(n int) {
				t := e.ReductionTunables()
				set(&t, n)
				e.SetReductionTunables(t)
			},
		}
	}

	depthField := func(name string, get func(search.ReductionTunables) int, set func(*search.ReductionTunables, int)) option {
		return spinOption{
			Name:    name,
			Default: get(e.ReductionTunables()),
			Min:     0,
			Max:     12,
			Apply: func(n int) {
				t := e.ReductionTunables()
				set(&t, n)
				e.SetReductionTunables(t)
			},
		}
	}

	return []option{
		field("reductions_quiet_di", func(t search.ReductionTunables) int { return int(t.QuietDI) }, func(t *search.ReductionTunables, n int) { t.QuietDI = int32(n) }),
		field("reductions_quiet_d", func(t search.ReductionTunables) int { return int(t.QuietD) }, func(t *search.ReductionTunables, n int) { t.QuietD = int32(n) }),
		field("reductions_quiet_i", func(t search.ReductionTunables) int { return int(t.QuietI) }, func(t *search.ReductionTunables, n int) { t.QuietI = int32(n) }),
		field("reductions_quiet_c", func(t search.ReductionTunables) int { return int(t.QuietC) }, func(t *search.ReductionTunables, n int) { t.QuietC = int32(n) }),
		field("reductions_capture_di", func(t search.ReductionTunables) int { return int(t.CaptureDI) }, func(t *search.ReductionTunables, n int) { t.CaptureDI = int32(n) }),
		field("reductions_capture_d", func(t search.ReductionTunables) int { return int(t.CaptureD) }, func(t *search.ReductionTunables, n int) { t.CaptureD = int32(n) }),
		field("reductions_capture_i", func(t search.ReductionTunables) int { return int(t.CaptureI) }, func(t *search.ReductionTunables, n int) { t.CaptureI = int32(n) }),
		field("reductions_capture_c", func(t search.ReductionTunables) int { return int(t.CaptureC) }, func(t *search.ReductionTunables, n int) { t.CaptureC = int32(n) }),
		depthField("null_move_depth_reduction", func(t search.ReductionTunables) int { return t.NullMoveDepthReduction }, func(t *search.ReductionTunables, n int) { t.NullMoveDepthReduction = n }),
		depthField("probcut_depth_reduction", func(t search.ReductionTunables) int { return t.ProbcutDepthReduction }, func(t *search.ReductionTunables, n int) { t.ProbcutDepthReduction = n }),
	}
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	for _, o := range d.options {
		d.out <- o.declare()
	}
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "debug":
				// Debug logging is always on via logw; nothing to toggle.

			case "setoption":
				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				if o, ok := optionSet(d.options, name); ok {
					if err := o.set(value); err != nil {
						logw.Errorf(ctx, "setoption %v: %v", name, err)
					}
				} else {
					logw.Warningf(ctx, "Unknown option '%v': %v", name, line)
				}

			case "register":
				// No registration scheme.

			case "ucinewgame":
				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "moves" || arg == "" {
							continue
						}

						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							return
						}
					}

					d.lastPosition = line
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 7 && args[0] == "fen" {
					position = strings.Join(args[1:7], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}

				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						return
					}
				}
				d.lastPosition = line

			case "go":
				d.ensureInactive(ctx)

				var opt searchctl.Options
				var tc searchctl.TimeControl
				haveTC := false
				infinite := false
				timeout := time.Duration(0)

				for i := 0; i < len(args); i++ {
					cmd := args[i]
					switch cmd {
					case "wtime", "btime", "winc", "binc", "movestogo", "depth", "mate", "movetime":
						i++
						if i == len(args) {
							logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
							return
						}
						n, err := strconv.Atoi(args[i])
						if err != nil {
							logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
							return
						}

						switch cmd {
						case "depth":
							opt.DepthLimit = lang.Some(uint(n))
						case "mate":
							opt.MateLimit = lang.Some(uint(n))
						case "wtime":
							tc.White = time.Millisecond * time.Duration(n)
							haveTC = true
						case "btime":
							tc.Black = time.Millisecond * time.Duration(n)
							haveTC = true
						case "winc", "binc":
							tc.Increment = time.Millisecond * time.Duration(n)
							haveTC = true
						case "movestogo":
							tc.Moves = n
							haveTC = true
						case "movetime":
							tc.MoveTime = lang.Some(time.Millisecond * time.Duration(n))
							haveTC = true
						}

					case "infinite":
						infinite = true

					default:
						// searchmoves, ponder and anything else: silently ignored.
					}
				}
				if haveTC {
					opt.TimeControl = lang.Some(tc)
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				// Forward ponder info. Complete search if it ends, unless infinite.

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.ponder <- pv
					}
					if !infinite {
						d.searchCompleted(ctx, last)
					}
				}()

				if timeout > 0 {
					time.AfterFunc(timeout, func() {
						_, _ = d.e.Halt(ctx)
					})
				}

			case "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// Pondering is not implemented; the GUI never sends "go ponder", so this
				// is unreachable in practice.

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", strings.ToLower(pv.Moves[0].String()))
		} else {
			// No PV. Position is checkmate or stalemate.
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 time 1242 nodes 2124 nps 34928 pv e2e4 e7e5 g1f3"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if pv.Score.IsMate() {
		parts = append(parts, fmt.Sprintf("score mate %v", mateMoves(pv.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		move := make([]string, len(pv.Moves))
		for i, m := range pv.Moves {
			move[i] = strings.ToLower(m.String())
		}
		parts = append(parts, "pv")
		parts = append(parts, strings.Join(move, " "))
	}

	return strings.Join(parts, " ")
}

// mateMoves converts a mate-band score into the signed move count UCI's "score mate"
// token expects (plies, halved and rounded toward the mating side).
func mateMoves(s board.Score) int {
	if s > 0 {
		return (int(board.MateScore-s) + 1) / 2
	}
	return -(int(board.MateScore+s) + 1) / 2
}
