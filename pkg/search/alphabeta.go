package search

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// nullMoveMinDepth is the shallowest depth null-move pruning is tried at;
// below it the reduced re-search wouldn't leave anything meaningful to
// verify against (spec.md §4.5 step 4).
const nullMoveMinDepth = 3

// nullMoveReduction is R in "search the null move at depth-1-R"; +1 when
// the side to move just evaded the first check of a sequence, per spec.md
// §4.5 step 4's "+1 when parent just evaded first check".
const nullMoveReduction = 3

// lmrMinDepth gates late-move reduction (spec.md §4.5 step 7) to nodes
// deep enough that a reduced, re-searchable child is worthwhile.
const lmrMinDepth = 3

// iidMinDepth gates internal iterative deepening (spec.md §4.5 step 8) to
// nodes deep enough that a shallow pre-search is worth its own cost.
const iidMinDepth = 4

// AlphaBeta implements alpha-beta pruning. Pseudo-code:
//
// function alphabeta(node, depth, α, β, maximizingPlayer) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	if maximizingPlayer then
//	    value := −∞
//	    for each child of node do
//	        value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
//	        α := max(α, value)
//	        if α ≥ β then
//	            break (* β cutoff *)
//	    return value
//	else
//	    value := +∞
//	    for each child of node do
//	        value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
//	        β := min(β, value)
//	        if β ≤ α then
//	            break (* α cutoff *)
//	    return value
//
// See: https://en.wikipedia.org/wiki/Alpha–beta_pruning.
type AlphaBeta struct {
	Explore Exploration
	Eval    QuietSearch

	// Static is the cheap evaluator null-move pruning uses to decide
	// whether the side to move is already doing so well a free pass for
	// the opponent still wouldn't erase the advantage. Defaults to
	// eval.Material.
	Static eval.Evaluator
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	run := &runAlphaBeta{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		static:  staticIfNotSet(p.Static),
		sctx:    sctx,
		ponder:  sctx.Ponder,
		b:       b,
	}
	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score, moves := run.search(ctx, depth, 0, low, high, false)
	if contextx.IsCancelled(ctx) {
		return 0, eval.InvalidScore, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runAlphaBeta struct {
	explore Exploration
	eval    QuietSearch
	static  eval.Evaluator
	sctx    *Context
	b       *board.Board
	nodes   uint64

	ponder []board.Move
}

// search returns the positive score for the color. ply counts full-width
// plies from the root (used by the killer/history tables and the
// quiescence depth floor); evadedCheck reports whether the move that led
// to this node was played while its mover was in check, feeding the
// null-move reduction bonus.
func (m *runAlphaBeta) search(ctx context.Context, depth, ply int, alpha, beta eval.Score, evadedCheck bool) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return eval.ZeroScore, nil
	}
	if favors, ok := m.b.QuasiRepeat(); ok {
		return quasiRepeatScore(favors, m.b.Turn()), nil
	}

	var best board.Move
	if bound, d, score, mv, ok := m.sctx.TT.Read(m.b.Hash()); ok {
		best = mv
		if depth == d && bound == ExactBound {
			// logw.Debugf(ctx, "TT: %v@%v = %v, %v", bound, d, score, move)
			return score, nil // cutoff
		} // else: not deep enough or precise enough
	}

	if depth == 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.sctx.TT, Noise: m.sctx.Noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b, ply)
		m.nodes += nodes

		m.sctx.TT.Write(m.b.Hash(), ExactBound, ply, 0, score, board.Move{})
		return score, nil
	}

	mover := m.b.Turn()
	inCheck := m.b.Position().IsChecked(mover)
	if inCheck {
		// spec.md §4.5 step 3: extend depth, disable the reduction pass.
		depth++
		m.sctx.Killers.Inherit(ply)
	}

	if !inCheck && depth >= nullMoveMinDepth && !beta.IsInvalid() && !beta.IsMate() {
		static := eval.HeuristicScore(m.static.Evaluate(ctx, m.b))
		if !static.Less(beta) {
			reduction := nullMoveReduction
			if evadedCheck {
				reduction++
			}
			nd := depth - 1 - reduction
			if nd < 0 {
				nd = 0
			}
			u := m.b.PushNull()
			score, _ := m.search(ctx, nd, ply+1, beta.Negate(), beta.Negate()+1, false)
			score = eval.IncrementMateDistance(score).Negate()
			m.b.PopNull(u)
			if !score.Less(beta) {
				return beta, nil // null-move cutoff
			}
		}
	}

	if best.Equals(board.Move{}) && depth >= iidMinDepth {
		// spec.md §4.5 step 8: no hash move to try first, so search shallow
		// once to seed one before committing to the full-depth search.
		m.search(ctx, depth-2, ply, alpha, beta, evadedCheck)
		if _, _, _, mv, ok := m.sctx.TT.Read(m.b.Hash()); ok {
			best = mv
		}
	}

	hasLegalMove := false
	bound := ExactBound
	var pv []board.Move

	priority, explore := m.explore(ctx, m.sctx, m.b, ply)

	if len(m.ponder) > 0 {
		explore = m.ponder[0].Equals // overwrite: use ponder move even if not intended to be explored
		m.ponder = m.ponder[1:]
	}

	moveIndex := 0
	moves := board.NewMoveList(m.b.Position().GenerateMoves(), board.First(best, priority))
	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		if !m.b.PushMove(move) {
			continue // skip: not legal
		}

		isQuiet := !move.IsCapture() && !move.IsPromotion()

		if explore(move) {
			reduceBy := 0
			if !inCheck && isQuiet && depth >= lmrMinDepth && moveIndex > 0 {
				reduceBy = 1
				if move.Type == board.Drop {
					reduceBy = 2 // spec.md §4.5 step 7: another ply past the end of board moves
				}
			}
			nd := depth - 1 - reduceBy
			if nd < 0 {
				nd = 0
			}

			score, rem := m.search(ctx, nd, ply+1, beta.Negate(), alpha.Negate(), inCheck)
			score = eval.IncrementMateDistance(score).Negate()
			if reduceBy > 0 && alpha.Less(score) {
				// re-search unreduced on fail-high
				score, rem = m.search(ctx, depth-1, ply+1, beta.Negate(), alpha.Negate(), inCheck)
				score = eval.IncrementMateDistance(score).Negate()
			}
			if alpha.Less(score) {
				alpha = score
				pv = append([]board.Move{move}, rem...)
			}
		}

		m.b.PopMove()
		hasLegalMove = true
		moveIndex++

		if alpha == beta || beta.Less(alpha) {
			bound = LowerBound
			if isQuiet {
				m.sctx.Killers.Add(ply, move)
				m.sctx.History.Add(mover, move, depth)
				if _, ok := alpha.MateDistance(); ok {
					m.sctx.MateKillers.Add(ply, move)
				}
			}
			m.sctx.TT.Write(m.b.Hash(), LowerBound, ply, depth, alpha, move)
			break // cutoff
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MateInXScore(0).Negate(), nil
		}
		return eval.ZeroScore, nil
	}

	if bound == ExactBound {
		m.sctx.TT.Write(m.b.Hash(), bound, ply, depth, alpha, firstOrNone(pv))
	}
	return alpha, pv
}

// quasiRepeatScore scores a quasi-repeat pattern (spec.md §4.5 step 6) as
// one shy of a forced mate in favor of whichever side's material balance
// has been improving: strong enough to dominate any heuristic evaluation,
// but distinguishable from an actual mate score.
func quasiRepeatScore(favors, mover board.Color) eval.Score {
	if favors == mover {
		return eval.InfScore - 1
	}
	return eval.NegInfScore + 1
}

func firstOrNone(pv []board.Move) board.Move {
	if len(pv) == 0 {
		return board.Move{}
	}
	return pv[0]
}

func fullIfNotSet(p Exploration) Exploration {
	if p == nil {
		return FullExploration
	}
	return p
}

func staticIfNotSet(e eval.Evaluator) eval.Evaluator {
	if e == nil {
		return eval.Material{}
	}
	return e
}
