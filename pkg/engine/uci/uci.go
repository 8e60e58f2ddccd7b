// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/search"
	"github.com/herohde/morlock/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Option is an UCI driver option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand

	analyseMode     bool // informational only; does not change search behavior
	showCurrLine    bool
	showRefutations bool
}

// UseBook instructs the driver to use the given opening book.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
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

	// * uci
	//
	//	tell engine to use the uci (universal chess interface),
	//	this will be send once as a first command after program boot
	//	to tell the engine to switch to uci mode.
	//	After receiving the uci command the engine must identify itself with the "id" command
	//	and sent the "option" commands to tell the GUI which engine settings the engine supports if any.
	//	After that the engine should sent "uciok" to acknowledge the uci mode.
	//	If no uciok is sent within a certain time period, the engine task will be killed by the GUI.

	logw.Infof(ctx, "UCI protocol initialized")

	// * id
	//	* name <x>, author <x>
	//		identify the engine after receiving the "uci" command.

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	// * option
	//
	//	Tells the GUI which parameters can be changed in the engine, via "setoption".
	//	* Hash, spin: transposition table size in MB.
	//	* Ponder, check: whether the engine supports pondering (never initiated here).
	//	* OwnBook, check: whether the engine consults its own opening book, if any.
	//	* UCI_AnalyseMode, check: informational only; does not change search behavior.
	//	* UCI_ShowCurrLine, check: emit "info currline" during search.
	//	* UCI_ShowRefutations, check: emit "info refutation" for each root move after a search.

	d.out <- "option name Hash type spin default 0 min 0 max 4096"
	d.out <- "option name Ponder type check default false"
	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}
	d.out <- "option name UCI_AnalyseMode type check default false"
	d.out <- "option name UCI_ShowCurrLine type check default false"
	d.out <- "option name UCI_ShowRefutations type check default false"

	// * uciok
	//
	//	Sent after id and options, to tell the GUI the engine is ready in uci mode.

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
				// * isready / readyok
				//
				//	Synchronizes the engine with the GUI. Must always be answered with "readyok",
				//	even while a search is running.

				d.out <- "readyok"

			case "debug":
				// * debug [ on | off ]: no additional diagnostics are emitted here.

			case "setoption":
				// * setoption name <id> [value <x>]

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				switch name {
				case "Hash":
					if mb, err := strconv.Atoi(value); err == nil && mb >= 0 {
						d.e.SetHash(uint(mb))
					}
				case "OwnBook":
					d.opt.useBook, _ = strconv.ParseBool(value)
				case "UCI_AnalyseMode":
					d.opt.analyseMode, _ = strconv.ParseBool(value)
				case "UCI_ShowCurrLine":
					d.opt.showCurrLine, _ = strconv.ParseBool(value)
				case "UCI_ShowRefutations":
					d.opt.showRefutations, _ = strconv.ParseBool(value)
				}

			case "register":
				// * register: registration is not required by this engine.

			case "ucinewgame":
				// * ucinewgame
				//
				//	The next "position"/"go" pair is from a different game; forget move history
				//	used for continuation detection.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// * position [fen <fenstring> | startpos ] moves <move1> .... <movei>

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of the same game: only the newly appended moves matter.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "" || arg == "moves" {
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
				// * go
				//
				//	Start calculating on the current position.
				//	* searchmoves <move1> .... <movei>: restrict the root move to this set.
				//	* ponder: the last position move is a ponder move; never exits early on mate.
				//	* wtime/btime/winc/binc/movestogo: clock-derived time control.
				//	* depth <x>: search x plies only. nodes <x>: search x nodes only.
				//	* mate <x>: search for a mate; relies on the normal mate-score cutoff.
				//	* movetime <x>: search exactly x msec. infinite: only "stop" ends the search.

				d.ensureInactive(ctx)

				opt, infinite := parseGo(args)

				if d.opt.useBook && d.opt.book != nil {
					// Use the opening book if possible.

					moves, err := d.opt.book.Find(ctx, d.e.Position())
					if err != nil {
						logw.Errorf(ctx, "Failed to find book move for %v: %v", d.e.Position(), err)
						return
					}

					if len(moves) > 0 {
						winner := moves[d.opt.rand.Intn(len(moves))]
						pv := search.PV{Moves: []board.Move{winner}}

						d.active.Store(true)
						d.searchCompleted(ctx, pv)
						break
					} // else: no book move
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

			case "stop":
				// * stop
				//
				//	Stop calculating as soon as possible; always followed by "bestmove".

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// * ponderhit: the opponent played the pondered move. Pondering is never
				//	initiated by this engine, so there is nothing to switch over.

			case "quit":
				// * quit: quit the program as soon as possible.
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			// * info
			//
			//	"info depth 2 score cp 214 time 1242 nodes 2124 nps 34928 pv e2e4 e7e5 g1f3"

			if d.active.Load() {
				d.out <- printPV(pv)
				if d.opt.showCurrLine && len(pv.Moves) > 0 {
					// * info currline <cpunr> <move1> ... <movei>
					//
					//	The line currently being calculated, reported for cpu 1 (the engine is
					//	single-threaded; there is no second line to report).

					d.out <- fmt.Sprintf("info currline 1 %v", board.FormatMoves(pv.Moves, printMove))
				}
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// parseGo parses the arguments of a "go" command into search options, returning whether the
// search is infinite (runs until "stop" regardless of any derived time budget).
func parseGo(args []string) (searchctl.Options, bool) {
	var opt searchctl.Options
	var tc searchctl.TimeControl
	hasTC := false
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for i+1 < len(args) {
				if isGoKeyword(args[i+1]) {
					break
				}
				i++
				if m, err := board.ParseMove(args[i]); err == nil {
					opt.SearchMoves = append(opt.SearchMoves, m)
				}
			}

		case "ponder":
			opt.Infinite = true

		case "infinite":
			infinite = true
			opt.Infinite = true

		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime", "mate":
			cmd := args[i]
			i++
			if i == len(args) {
				break
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				continue
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "nodes":
				opt.NodeLimit = lang.Some(uint64(n))
			case "movetime":
				opt.FixedTime = lang.Some(time.Millisecond * time.Duration(n))
			case "mate":
				// Relies on the iterative deepening loop's own mate-score cutoff; no depth
				// cap is imposed here since the shallowest mate is not known in advance.
			case "wtime":
				tc.White, hasTC = time.Millisecond*time.Duration(n), true
			case "btime":
				tc.Black, hasTC = time.Millisecond*time.Duration(n), true
			case "winc":
				tc.WhiteInc, hasTC = time.Millisecond*time.Duration(n), true
			case "binc":
				tc.BlackInc, hasTC = time.Millisecond*time.Duration(n), true
			case "movestogo":
				tc.MovesToGo, hasTC = n, true
			}

		default:
			// silently ignore anything not handled.
		}
	}

	if hasTC {
		opt.TimeControl = lang.Some(tc)
	}
	return opt, infinite
}

func isGoKeyword(s string) bool {
	switch s {
	case "ponder", "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "mate", "movetime", "infinite", "searchmoves":
		return true
	default:
		return false
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if d.opt.showRefutations {
			d.emitRefutations(ctx, pv.Depth)
		}

		if len(pv.Moves) > 0 {
			// * bestmove <move1> [ ponder <move2> ]
			//
			//	The engine has stopped searching and found the move <move> best. A final
			//	"info" line must precede it so the GUI sees the complete search statistics.

			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", printMove(pv.Moves[0]))
		} else {
			// No PV: the position is checkmate or stalemate.

			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

// refutationDepth bounds the per-move ponder used to find a refutation line. It is kept
// shallow since it runs once for every legal root move.
const refutationDepth = 2

// emitRefutations reports, for each legal root move, the line that refutes it, per
// UCI_ShowRefutations. depth is clamped to refutationDepth so this stays cheap relative to
// the completed search.
func (d *Driver) emitRefutations(ctx context.Context, depth int) {
	if depth > refutationDepth {
		depth = refutationDepth
	}
	if depth < 1 {
		depth = 1
	}

	g := d.e.Game()
	for _, move := range g.Position().LegalMoves(g.Turn()) {
		_, _, line, err := d.e.Ponder(ctx, move, depth)
		if err != nil {
			continue
		}
		if len(line) > 0 {
			line = line[1:] // skip the ponder move itself; it is restated below
		}

		// * info refutation <move1> ... <movei>
		//
		//	move1 is the root move being refuted, followed by the line that refutes it.

		refutation := append([]board.Move{move}, line...)
		d.out <- fmt.Sprintf("info refutation %v", board.FormatMoves(refutation, printMove))
	}
}

func printPV(pv search.PV) string {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if pv.Score.IsMateScore() {
		parts = append(parts, fmt.Sprintf("score mate %v", movesToMate(pv.Score)))
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
		parts = append(parts, "pv")
		parts = append(parts, board.FormatMoves(pv.Moves, printMove))
	}

	return strings.Join(parts, " ")
}

// movesToMate converts a mate score into the UCI "moves to mate" convention: positive if this
// engine delivers mate, negative if it is being mated, magnitude in full moves not plies.
func movesToMate(s board.Score) int {
	abs := int(s)
	if abs < 0 {
		abs = -abs
	}
	plies := int(board.Mate) - abs
	moves := (plies + 1) / 2
	if s < 0 {
		moves = -moves
	}
	return moves
}

func printMove(m board.Move) string {
	return fmt.Sprintf("%v%v%v", m.From, m.To, printPromoPiece(m.Promotion))
}

func printPromoPiece(p board.Piece) string {
	switch p {
	case board.Queen:
		return "q"
	case board.Rook:
		return "r"
	case board.Knight:
		return "n"
	case board.Bishop:
		return "b"
	default:
		return ""
	}
}
