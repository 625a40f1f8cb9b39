// Package xboard contains a driver for using the engine under the xboard
// (CECP) text-line protocol subset named in spec.md §6.
//
// See: https://www.gnu.org/software/xboard/engine-intf.html
package xboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/engine"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/search/searchctl"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "xboard"

// Variants lists the variant names accepted by the "variant" command, in
// the order spec.md §6 names them.
var Variants = []variant.ID{
	variant.Crazyhouse, variant.MiniShogi, variant.JudkinShogi,
	variant.Shogi, variant.ToriShogi, variant.CrazyWa,
}

// Driver implements an xboard/CECP driver for an engine. It is activated on
// the first input line, per protover negotiation.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	force  bool           // true: do not move automatically after usermove/go
	post   bool           // true: emit per-iteration analysis lines
	ponder chan search.PV // intermediate search info, forwarded when post is set

	tc lang.Optional[searchctl.TimeControl]
	st lang.Optional[time.Duration] // fixed seconds per move ("st N")

	active atomic.Bool // engine is thinking and will move when done
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
		ponder:      make(chan search.PV, 400),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "xboard protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}

			cmd, args := parts[0], parts[1:]

			switch cmd {
			case "protover":
				d.emitFeatures(ctx)

			case "new":
				d.ensureInactive(ctx)
				d.force = false
				if err := d.e.Reset(ctx, d.e.Variant().StartFEN); err != nil {
					logw.Errorf(ctx, "new: %v", err)
				}

			case "variant":
				d.ensureInactive(ctx)
				if len(args) == 0 {
					break
				}
				def, ok := variant.ByID(variant.ID(args[0]))
				if !ok {
					logw.Warningf(ctx, "Unknown variant: %v", args[0])
					break
				}
				if err := d.e.SetVariant(ctx, def); err != nil {
					logw.Errorf(ctx, "variant %v: %v", args[0], err)
				}

			case "setboard":
				d.ensureInactive(ctx)

				fen := strings.Join(args, " ")
				if err := d.e.Reset(ctx, fen); err != nil {
					d.out <- fmt.Sprintf("tellusererror Illegal position: %v", fen)
				}

			case "usermove":
				d.ensureInactive(ctx)

				if len(args) == 0 {
					break
				}
				if err := d.e.Move(ctx, args[0]); err != nil {
					d.out <- "Illegal move: " + args[0]
					break
				}
				d.maybeAnnounceResult(ctx)
				if !d.force {
					d.think(ctx)
				}

			case "go":
				d.force = false
				d.think(ctx)

			case "force":
				d.ensureInactive(ctx)
				d.force = true

			case "analyze":
				d.ensureInactive(ctx)
				d.post = true
				d.analyze(ctx)

			case "exit":
				d.ensureInactive(ctx)

			case "easy", "hard", "random":
				// Pondering and randomized move selection are non-goals
				// (spec.md §1); accepted and ignored.

			case "post":
				d.post = true

			case "nopost":
				d.post = false

			case "undo":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)

			case "remove":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)
				_ = d.e.TakeBack(ctx)

			case "level":
				if len(args) != 3 {
					break
				}
				d.setLevel(args[0], args[1], args[2])

			case "st":
				if len(args) != 1 {
					break
				}
				n, err := strconv.Atoi(args[0])
				if err == nil {
					d.st = lang.Some(time.Duration(n) * time.Second)
					d.tc = lang.Optional[searchctl.TimeControl]{}
				}

			case "sd":
				if len(args) != 1 {
					break
				}
				n, err := strconv.Atoi(args[0])
				if err == nil {
					d.e.SetDepth(uint(n))
				}

			case "time", "otim":
				if len(args) != 1 {
					break
				}
				n, err := strconv.Atoi(args[0])
				if err != nil {
					break
				}
				remaining := time.Duration(n) * 10 * time.Millisecond // centiseconds
				tc, _ := d.tc.V()
				if cmd == "time" {
					tc.White, tc.Black = remaining, remaining
				}
				d.tc = lang.Some(tc)

			case "memory":
				if len(args) != 1 {
					break
				}
				n, err := strconv.Atoi(args[0])
				if err == nil {
					d.e.SetHash(uint(n))
				}

			case "ping":
				n := ""
				if len(args) > 0 {
					n = args[0]
				}
				d.out <- "pong " + n

			case "option":
				d.setOption(args)

			case "?":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.announceMove(ctx, pv)
				}

			case "quit":
				d.ensureInactive(ctx)
				return

			default:
				// Assume a move typed directly at the prompt, per xboard's
				// "anything not a known command is a move" convention.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- "Illegal move: " + cmd
					break
				}
				d.maybeAnnounceResult(ctx)
				if !d.force {
					d.think(ctx)
				}
			}

		case pv := <-d.ponder:
			if d.post {
				d.out <- printAnalysisLine(pv)
			}

		case <-d.Closed():
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// emitFeatures answers "protover N" with the feature line spec.md §6
// requires: supported variants, memory/setboard/usermove support, the
// Resign/Contempt options, then "done=1".
func (d *Driver) emitFeatures(ctx context.Context) {
	var names []string
	for _, id := range Variants {
		names = append(names, string(id))
	}

	d.out <- fmt.Sprintf(`feature myname="%v" author="%v"`, d.e.Name(), d.e.Author())
	d.out <- fmt.Sprintf(`feature variants="%v"`, strings.Join(names, ","))
	d.out <- "feature setboard=1 usermove=1 memory=1 ping=1 sigint=0 sigterm=0 colors=0"
	d.out <- `feature option="Resign -spin 0 0 2000"`
	d.out <- `feature option="Contempt -spin 0 -200 200"`
	d.out <- "feature done=1"
}

func (d *Driver) setOption(args []string) {
	// "option Resign=900" / "option Contempt=20"
	if len(args) == 0 {
		return
	}
	kv := strings.SplitN(strings.Join(args, " "), "=", 2)
	if len(kv) != 2 {
		return
	}
	n, err := strconv.Atoi(kv[1])
	if err != nil {
		return
	}
	switch kv[0] {
	case "Resign":
		d.e.SetResign(n)
	case "Contempt":
		d.e.SetContempt(n)
	}
}

func (d *Driver) setLevel(mps, minsec, inc string) {
	moves, err := strconv.Atoi(mps)
	if err != nil {
		return
	}
	base := minsec
	var secs int
	if i := strings.IndexByte(minsec, ':'); i >= 0 {
		base = minsec[:i]
		secs, _ = strconv.Atoi(minsec[i+1:])
	}
	mins, err := strconv.Atoi(base)
	if err != nil {
		return
	}
	total := time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second
	_, _ = strconv.Atoi(inc) // increment tracking is out of scope; level still sets the base budget

	d.tc = lang.Some(searchctl.TimeControl{White: total, Black: total, Moves: moves})
	d.st = lang.Optional[time.Duration]{}
}

// think launches a search for the side to move and arranges for the
// result to be announced as a "move"/result line once it converges.
func (d *Driver) think(ctx context.Context) {
	if !d.active.CompareAndSwap(false, true) {
		return
	}

	opt := searchctl.Options{TimeControl: d.tc}
	if st, ok := d.st.V(); ok {
		opt.TimeControl = lang.Some(searchctl.TimeControl{White: st, Black: st, Moves: 1})
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		d.active.Store(false)
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		d.searchCompleted(ctx, last)
	}()
}

// analyze launches an open-ended search purely for post lines; it never
// plays a move on its own (left running until "exit"/"force"/a new move).
func (d *Driver) analyze(ctx context.Context) {
	out, err := d.e.Analyze(ctx, searchctl.Options{})
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	go func() {
		for pv := range out {
			d.ponder <- pv
		}
	}()
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if !d.active.CompareAndSwap(true, false) {
		return // stale or duplicate result
	}
	d.announceMove(ctx, pv)
}

func (d *Driver) announceMove(ctx context.Context, pv search.PV) {
	if len(pv.Moves) == 0 {
		d.maybeAnnounceResult(ctx)
		return
	}

	geom := d.e.Board().Position().Geometry()
	def := d.e.Variant()

	if err := d.e.Move(ctx, pv.Moves[0].Format(geom, def)); err != nil {
		logw.Errorf(ctx, "Failed to play own move %v: %v", pv.Moves[0], err)
		return
	}

	d.out <- "move " + pv.Moves[0].Format(geom, def)
	d.maybeAnnounceResult(ctx)
}

func (d *Driver) maybeAnnounceResult(ctx context.Context) {
	result := d.e.Board().Result()
	if result.Outcome != board.Undecided {
		d.out <- result.String()
	}
}

// printAnalysisLine renders pv in the "DEPTH SCORE CENTISECONDS NODES M1 M2
// ... Mk" format spec.md §6 names for outbound analysis lines.
func printAnalysisLine(pv search.PV) string {
	parts := []string{
		strconv.Itoa(pv.Depth),
		strconv.Itoa(int(pv.Score * 100)),
		strconv.FormatInt(pv.Time.Milliseconds()/10, 10),
		strconv.FormatUint(pv.Nodes, 10),
	}
	for _, m := range pv.Moves {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " ")
}
