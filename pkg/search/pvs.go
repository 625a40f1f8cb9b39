package search

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// PVS implements principal variation search: the first move at each node
// is searched with a full window, and every subsequent sibling with a
// narrow null window that only widens on a fail-high. Pseudo-code:
//
// function pvs(node, depth, α, β, color) is
//
//	if depth = 0 or node is a terminal node then
//	    return color × the heuristic value of node
//	for each child of node do
//	    if child is first child then
//	        score := −pvs(child, depth − 1, −β, −α, −color)
//	    else
//	        score := −pvs(child, depth − 1, −α − 1, −α, −color)
//	        if α < score < β then
//	            score := −pvs(child, depth − 1, −β, −score, −color)
//	    α := max(α, score)
//	    if α ≥ β then
//	        break
//	return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type PVS struct {
	Explore Exploration
	Eval    QuietSearch

	// Static is the cheap evaluator null-move pruning uses; see
	// AlphaBeta.Static. Defaults to eval.Material.
	Static eval.Evaluator
}

func (p PVS) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	run := &runPVS{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		static:  staticIfNotSet(p.Static),
		sctx:    sctx,
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

type runPVS struct {
	explore Exploration
	eval    QuietSearch
	static  eval.Evaluator
	sctx    *Context
	b       *board.Board
	nodes   uint64
}

// search returns the positive score for the color.
func (m *runPVS) search(ctx context.Context, depth, ply int, alpha, beta eval.Score, evadedCheck bool) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return eval.ZeroScore, nil
	}
	if favors, ok := m.b.QuasiRepeat(); ok {
		return quasiRepeatScore(favors, m.b.Turn()), nil
	}
	if depth == 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.sctx.TT}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b, ply)
		m.nodes += nodes
		return score, nil
	}

	mover := m.b.Turn()
	inCheck := m.b.Position().IsChecked(mover)
	if inCheck {
		depth++ // spec.md §4.5 step 3: extend depth, disable the reduction pass
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

	var best board.Move
	if _, _, _, mv, ok := m.sctx.TT.Read(m.b.Hash()); ok {
		best = mv
	}
	if best.Equals(board.Move{}) && depth >= iidMinDepth {
		// spec.md §4.5 step 8: seed a move-ordering hint before the real pass.
		m.search(ctx, depth-2, ply, alpha, beta, evadedCheck)
		if _, _, _, mv, ok := m.sctx.TT.Read(m.b.Hash()); ok {
			best = mv
		}
	}

	m.nodes++

	hasLegalMove := false
	var pv []board.Move

	priority, explore := m.explore(ctx, m.sctx, m.b, ply)
	moves := board.NewMoveList(m.b.Position().GenerateMoves(), board.First(best, priority))

	moveIndex := 0
	first := true
	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		if !m.b.PushMove(move) {
			continue
		}
		if !explore(move) {
			m.b.PopMove()
			continue
		}

		isQuiet := !move.IsCapture() && !move.IsPromotion()
		reduceBy := 0
		if !inCheck && isQuiet && !first && depth >= lmrMinDepth && moveIndex > 0 {
			reduceBy = 1
			if move.Type == board.Drop {
				reduceBy = 2
			}
		}
		nd := depth - 1 - reduceBy
		if nd < 0 {
			nd = 0
		}

		var score eval.Score
		var rem []board.Move
		if first {
			score, rem = m.search(ctx, nd, ply+1, beta.Negate(), alpha.Negate(), inCheck)
			score = eval.IncrementMateDistance(score).Negate()
		} else {
			score, rem = m.search(ctx, nd, ply+1, alpha.Negate()-1, alpha.Negate(), inCheck)
			score = eval.IncrementMateDistance(score).Negate()
			if alpha.Less(score) && score.Less(beta) {
				score, rem = m.search(ctx, depth-1, ply+1, beta.Negate(), score.Negate(), inCheck)
				score = eval.IncrementMateDistance(score).Negate()
			} else if reduceBy > 0 && alpha.Less(score) {
				score, rem = m.search(ctx, depth-1, ply+1, beta.Negate(), alpha.Negate(), inCheck)
				score = eval.IncrementMateDistance(score).Negate()
			}
		}
		m.b.PopMove()

		hasLegalMove = true
		first = false
		moveIndex++
		if alpha.Less(score) {
			alpha = score
			pv = append([]board.Move{move}, rem...)
		}
		if alpha == beta || beta.Less(alpha) {
			if isQuiet {
				m.sctx.Killers.Add(ply, move)
				m.sctx.History.Add(mover, move, depth)
				if _, ok := alpha.MateDistance(); ok {
					m.sctx.MateKillers.Add(ply, move)
				}
			}
			m.sctx.TT.Write(m.b.Hash(), LowerBound, ply, depth, alpha, move)
			break
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MateInXScore(0).Negate(), nil
		}
		return eval.ZeroScore, nil
	}
	m.sctx.TT.Write(m.b.Hash(), ExactBound, ply, depth, alpha, firstOrNone(pv))
	return alpha, pv
}
