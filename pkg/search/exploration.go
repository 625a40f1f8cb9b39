package search

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/variant"
)

// Exploration defines move selection and priority in a given position.
// Limited exploration is required by quiescence search and can be used
// for forward pruning in full search. sctx carries the killer/history/
// mate-killer tables (nil-safe, see Context) and ply locates the current
// node within them. Default: FullExploration's staged MVV/LVA plus
// killer/history ordering.
type Exploration func(ctx context.Context, sctx *Context, b *board.Board, ply int) (board.MovePriorityFn, board.MovePredicateFn)

// FullExploration explores every legal move, staged and ordered per
// spec.md §4.5 step 5: captures/promotions by MVV/LVA, then killers and
// history-ranked quiets, then check-giving drops, then all other drops —
// and, when the side to move is in check, narrowed to Evasions.
func FullExploration(ctx context.Context, sctx *Context, b *board.Board, ply int) (board.MovePriorityFn, board.MovePredicateFn) {
	pos := b.Position()
	priority := StagedPriority(pos.Definition(), pos, sctx, ply)
	if pos.IsChecked(pos.Turn()) {
		return priority, Evasions(pos)
	}
	return priority, IsAnyMove
}

// QuiescenceExploration only explores promotions and the captures that win
// material or land on an undefended square (IsQuickGain), the standard
// quiescence move set.
func QuiescenceExploration(ctx context.Context, sctx *Context, b *board.Board, ply int) (board.MovePriorityFn, board.MovePredicateFn) {
	pos := b.Position()
	return StagedPriority(pos.Definition(), pos, sctx, ply), IsQuickGain(b)
}

// Selection returns a move order and priority for exploring the given moves.
func Selection(list []board.Move) (board.MovePriorityFn, board.MovePredicateFn) {
	rank := map[board.Move]board.MovePriority{}
	for i, m := range list {
		rank[m] = board.MovePriority(len(list) - i)
	}

	priority := func(move board.Move) board.MovePriority {
		return rank[move]
	}
	pick := func(move board.Move) bool {
		_, ok := rank[move]
		return ok
	}
	return priority, pick
}

// MVVLVA implements the MVV-LVA (most valuable victim, least valuable
// attacker) move priority for the given variant.
func MVVLVA(def *variant.Definition) board.MovePriorityFn {
	return func(m board.Move) board.MovePriority {
		if p := board.MovePriority(100 * eval.NominalValueGain(def, m)); p > 0 {
			return p - board.MovePriority(eval.NominalValue(def, m.Piece))
		}
		return 0
	}
}

// Stage bases for StagedPriority; a higher stage always outranks a lower
// one regardless of any within-stage bonus, so these are spaced well past
// the largest MVV/LVA or history value either can contribute.
const (
	stageCapture    board.MovePriority = 25000
	stageMateKiller board.MovePriority = 20000
	stageKiller     board.MovePriority = 18000
	stageQuiet      board.MovePriority = 10000
	stageCheckDrop  board.MovePriority = 3000
	stageOtherDrop  board.MovePriority = 1000
	maxHistoryBoost board.MovePriority = 7000
)

// StagedPriority implements spec.md §4.5 step 5's four-stage move
// ordering: captures/promotions by MVV/LVA, then mate killers, then
// ordinary killers, then history-ranked quiets, then check-giving drops,
// then all other drops. sctx may be nil (e.g. quiescence, tests), in
// which case killer/history lookups are skipped (KillerTable/HistoryTable
// are nil-safe) and quiet moves fall back to stage-only ordering.
func StagedPriority(def *variant.Definition, pos *board.Position, sctx *Context, ply int) board.MovePriorityFn {
	checkGiving := checkGivingDropSquares(pos)
	turn := pos.Turn()

	var killers *KillerTable
	var history *HistoryTable
	var mateKillers *MateKillerTable
	if sctx != nil {
		killers, history, mateKillers = sctx.Killers, sctx.History, sctx.MateKillers
	}

	return func(m board.Move) board.MovePriority {
		switch {
		case m.IsCapture() || m.IsPromotion():
			gain := board.MovePriority(100 * eval.NominalValueGain(def, m))
			return stageCapture + gain - board.MovePriority(eval.NominalValue(def, m.Piece))

		case m.Type == board.Drop:
			if set, ok := checkGiving[m.DropPiece]; ok && set[m.To] {
				return stageCheckDrop
			}
			return stageOtherDrop

		default:
			if mateKillers.Move(ply).Equals(m) {
				return stageMateKiller
			}
			if k1, k2 := killers.Moves(ply); k1.Equals(m) {
				return stageKiller + 1
			} else if k2.Equals(m) {
				return stageKiller
			}
			boost := board.MovePriority(history.Get(turn, m))
			if boost > maxHistoryBoost {
				boost = maxHistoryBoost
			}
			return stageQuiet + boost
		}
	}
}

// checkGivingDropSquares precomputes, for every droppable piece type the
// side to move actually holds, the empty squares a drop of that type
// would deliver check from (Position.CheckGivingDropSquares), so
// StagedPriority can classify a Drop move in O(1).
func checkGivingDropSquares(pos *board.Position) map[variant.PieceType]map[board.Square]bool {
	def := pos.Definition()
	turn := pos.Turn()

	out := map[variant.PieceType]map[board.Square]bool{}
	for _, pd := range def.Pieces {
		if !pd.Droppable || pos.HandCount(turn, pd.Type) <= 0 {
			continue
		}
		squares := pos.CheckGivingDropSquares(turn, pd.Type)
		if len(squares) == 0 {
			continue
		}
		set := make(map[board.Square]bool, len(squares))
		for _, sq := range squares {
			set[sq] = true
		}
		out[pd.Type] = set
	}
	return out
}

// Evasions restricts exploration to moves that address check: king moves,
// captures (which may remove the checker or a piece pinning an
// interposition) and interpositions on the check ray (spec.md §4.5 step
// 5: "in check: castlings removed; only captures, then evasion drops on
// the check ray"). Position.CheckRaySquares already applies the "futile
// interposition" mask by returning nil for a leap/contact check; here it
// is additionally filtered to drop squares the checking side could
// immediately recapture, since interposing there rarely helps.
func Evasions(pos *board.Position) board.MovePredicateFn {
	mover := pos.Turn()
	ray := map[board.Square]bool{}
	for _, sq := range pos.CheckRaySquares(mover) {
		if pos.IsAttacked(sq, mover.Opponent()) {
			continue // futile interposition: immediately recaptured
		}
		ray[sq] = true
	}

	return func(m board.Move) bool {
		switch {
		case m.Type == board.Castle:
			return false
		case m.Piece == variant.RoyalType:
			return true
		case m.IsCapture():
			return true
		default:
			return ray[m.To]
		}
	}
}

// IsAnyMove selects all moves.
func IsAnyMove(m board.Move) bool {
	return true
}

// IsNotUnderPromotion selects any move, except non-queen promotions.
func IsNotUnderPromotion(def *variant.Definition) board.MovePredicateFn {
	return func(m board.Move) bool {
		if !m.IsPromotion() {
			return true
		}
		pd, ok := def.PieceByType(m.Promotion)
		return ok && pd.Name == "Queen"
	}
}

// IsQuickGain selects promotions and captures that either win material
// outright or move onto a square the opponent doesn't defend.
func IsQuickGain(b *board.Board) board.MovePredicateFn {
	def := b.Position().Definition()
	return func(m board.Move) bool {
		explore := m.IsPromotion()
		if m.IsCapture() {
			if eval.NominalValue(def, m.Piece) < eval.NominalValue(def, m.Capture) {
				explore = true
			}
			if !b.Position().IsAttacked(m.To, b.Turn().Opponent()) {
				explore = true
			}
		}
		return explore
	}
}
