// Package search contains search functionality and utilities: alpha-beta
// and principal-variation search over board.Board, a quiescence-search
// based leaf evaluator and a lock-free transposition table. The iterative
// deepening harness and time control live in pkg/search/searchctl.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/eval"
)

// ErrHalted indicates that a search was halted before converging.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation found at some search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1], if used
}

func (p PV) String() string {
	var parts []string
	for _, m := range p.Moves {
		parts = append(parts, m.String())
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v",
		p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), strings.Join(parts, " "))
}

// Context carries the per-search parameters threaded through one depth
// iteration: the alpha-beta window, the shared transposition table, the
// evaluation noise generator and a ponder line to prefer at the root.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []board.Move

	// Killers, History and MateKillers feed move ordering (spec.md §4.5
	// step 5, §2, §5); all three are optional and nil-safe, so a bare
	// &Context{} (as used by tests and Minimax) still runs, just without
	// the ordering boost.
	Killers     *KillerTable
	History     *HistoryTable
	MateKillers *MateKillerTable
}

// Search runs a full-width search to depth plies and returns the node
// count, score (from the side to move's point of view), and principal
// variation. If ctx is cancelled mid-search, it returns ErrHalted and
// eval.InvalidScore.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error)
}

// Evaluator is a leaf-node evaluator used below full search depth, with
// access to the active alpha-beta window (quiescence search narrows its
// own recursion using it). This is distinct from eval.Evaluator, which
// has no search context and is used for depth-0 static evaluation only.
type Evaluator interface {
	Evaluate(ctx context.Context, sctx *Context, b *board.Board) eval.Score
}

// QuietSearch extends a full search below the horizon until the position
// is quiet (no pending captures/promotions), avoiding the horizon effect.
// ply is the full-width ply the quiescence search was entered at, used to
// seed its own depth floor (spec.md §4.5 step 4: "on first entry to QS,
// seed the depth limit to ply+10").
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board, ply int) (uint64, eval.Score)
}
