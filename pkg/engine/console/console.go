package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/engine"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/search/searchctl"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	root   search.Search
	active atomic.Bool // user is waiting for engine to move
}

func NewDriver(ctx context.Context, e *engine.Engine, root search.Search, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		root:        root,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

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
			case "reset", "r":
				// reset [<fenstring>] moves ...

				d.ensureInactive(ctx)

				pos := d.e.Variant().StartFEN
				if len(args) > 0 && args[0] != "moves" {
					pos = strings.Join(args[0:6], " ")
				}
				if err := d.e.Reset(ctx, pos); err != nil {
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
				d.printBoard(ctx)

			case "undo", "u":
				d.ensureInactive(ctx)

				_ = d.e.TakeBack(ctx)
				d.printBoard(ctx)

			case "print", "p":
				d.printBoard(ctx)

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt searchctl.Options
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					opt.DepthLimit = lang.Some(uint(depth))
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- pv.String()
					}
					d.searchCompleted(ctx, last)
				}()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetDepth(uint(depth))
				}

			case "hash": // size in MB
				if len(args) > 0 {
					hash, _ := strconv.Atoi(args[0])
					d.e.SetHash(uint(hash))
				}

			case "nohash":
				d.e.SetHash(0)

			case "noise": // evaluation randomness in milli-pawns
				if len(args) > 0 {
					noise, _ := strconv.Atoi(args[0])
					d.e.SetNoise(uint(noise))
				}

			case "nonoise":
				d.e.SetNoise(0)

			case "halt", "stop":
				pv, err := d.e.Halt(ctx)
				if err != nil {
					d.searchCompleted(ctx, pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			case "":
				// ignore empty command

			default:
				// Assume move if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: '%v'", cmd)
				} else {
					d.printBoard(ctx)
				}
			}

		case <-d.Closed():
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
	if d.active.CompareAndSwap(true, false) {
		// Search complete

		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		}

		// Ponder each move for score breakdown. No TT. No noise.

		b := d.e.Board()
		def := b.Position().Definition()
		geom := b.Position().Geometry()

		var sub []result
		for _, move := range b.Position().GenerateMoves() {
			nodes, score, moves, _ := d.root.Search(ctx, &search.Context{TT: search.NoTranspositionTable{}, Ponder: []board.Move{move}}, b, pv.Depth)
			if len(moves) > 0 {
				moves = moves[1:] // skip ponder move in pv breakdown
			}
			sub = append(sub, result{m: move, s: score, n: nodes - 1, pv: moves})
		}
		sort.Sort(byScore(sub))

		d.out <- fmt.Sprintf("Search, depth=%v", pv.Depth)
		for i := 0; i < len(sub); i++ {
			d.out <- fmt.Sprintf(" %2d. %v\t%v\t\t(%v nodes\tpv %v)", i+1, sub[i].m.Format(geom, def), sub[i].s, sub[i].n, formatMoves(geom, def, sub[i].pv))
		}
	} // else: stale or duplicate result
}

const vertical = " | "

func (d *Driver) printBoard(ctx context.Context) {
	b := d.e.Board()
	p := b.Position()
	g := p.Geometry()
	def := p.Definition()

	horizontal := "  " + strings.Repeat("----", g.Files) + "-"

	d.out <- ""
	d.out <- files(g)
	d.out <- horizontal
	for rank := g.Ranks - 1; rank >= 0; rank-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%-2d", rank+1))
		sb.WriteString(vertical)
		for file := 0; file < g.Files; file++ {
			cell := p.At(g.Square(file, rank))
			sb.WriteString(printCell(def, cell))
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files(g)
	d.out <- ""
	d.out <- fmt.Sprintf("hand[w]: %v", formatHand(p, def, board.White))
	d.out <- fmt.Sprintf("hand[b]: %v", formatHand(p, def, board.Black))
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.Position())
	d.out <- printTurn(p)
	d.out <- fmt.Sprintf("result: %v, ply: %v, hash: 0x%x", b.Result(), b.Ply(), b.Hash())
	d.out <- ""
}

func printTurn(p *board.Position) string {
	turn := fmt.Sprintf("turn:   %v", p.Turn())
	if p.IsChecked(p.Turn()) {
		return color.RedString(turn + " (in check)")
	}
	return turn
}

func files(g board.Geometry) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for file := 0; file < g.Files; file++ {
		sb.WriteString(fmt.Sprintf(" %c  ", 'a'+file))
	}
	return sb.String()
}

func printCell(def *variant.Definition, cell board.Cell) string {
	if !cell.IsOccupied() {
		return " "
	}
	letter := "?"
	if pd, ok := def.PieceByType(cell.Piece()); ok {
		letter = string(pd.Letter)
	}
	if cell.Color() == board.Black {
		return color.CyanString(strings.ToLower(letter))
	}
	return color.YellowString(letter)
}

func formatHand(p *board.Position, def *variant.Definition, c board.Color) string {
	var parts []string
	for _, pd := range def.Pieces {
		if pd.Type.IsPromoted() || pd.Type == variant.RoyalType {
			continue
		}
		if n := p.HandCount(c, pd.Type); n > 0 {
			parts = append(parts, fmt.Sprintf("%c%d", pd.Letter, n))
		}
	}
	return strings.Join(parts, " ")
}

func formatMoves(g board.Geometry, def *variant.Definition, moves []board.Move) string {
	var parts []string
	for _, m := range moves {
		parts = append(parts, m.Format(g, def))
	}
	return strings.Join(parts, " ")
}

type result struct {
	m  board.Move
	s  eval.Score
	n  uint64
	pv []board.Move
}

// byScore is a sort order by score.
type byScore []result

func (b byScore) Len() int {
	return len(b)
}

func (b byScore) Less(i, j int) bool {
	return b[j].s.Less(b[i].s)
}

func (b byScore) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}
