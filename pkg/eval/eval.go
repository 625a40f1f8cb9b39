// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/variant"
)

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score in pawns from the side-to-move's
	// point of view.
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Material returns the material advantage balance for the side to move,
// folding in both on-board pieces and hand contents (spec.md's drop
// variants make captured material a standing asset rather than removing
// it from play, so a hand pawn counts toward the balance same as a board
// pawn).
type Material struct{}

func (Material) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	def := pos.Definition()
	g := pos.Geometry()

	var white Score
	for sq := 0; sq < g.Size; sq++ {
		cell := pos.At(board.Square(sq))
		if !cell.IsOccupied() {
			continue
		}
		pd, ok := def.PieceByType(cell.Piece())
		if !ok {
			continue
		}
		if cell.Color() == board.White {
			white += Score(pd.Value)
		} else {
			white -= Score(pd.Value)
		}
	}
	for _, pd := range def.Pieces {
		if !pd.Droppable {
			continue
		}
		white += Score(pos.HandCount(board.White, pd.Type)) * Score(pd.HandValue)
		white -= Score(pos.HandCount(board.Black, pd.Type)) * Score(pd.HandValue)
	}

	return white * Unit(b.Turn())
}

// Composite sums several weighted evaluation terms (e.g. Material plus
// KingSafety) into a single static Evaluator.
type Composite []Evaluator

func (c Composite) Evaluate(ctx context.Context, b *board.Board) Score {
	var total Score
	for _, e := range c {
		total += e.Evaluate(ctx, b)
	}
	return total
}

// NominalValue is the absolute nominal value in pawns of t within def, or 0
// if t is not part of def (spec.md §3's per-variant piece values replace
// the teacher's hardcoded chess-piece switch).
func NominalValue(def *variant.Definition, t variant.PieceType) Score {
	pd, ok := def.PieceByType(t)
	if !ok {
		return 0
	}
	return Score(pd.Value)
}

// NominalValueGain is the nominal material gain for a move, used by move
// ordering (MVV/LVA) and quiescence delta pruning.
func NominalValueGain(def *variant.Definition, m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(def, m.Capture) + NominalValue(def, m.Promotion) - NominalValue(def, m.Piece)
	case board.Promotion:
		return NominalValue(def, m.Promotion) - NominalValue(def, m.Piece)
	case board.Capture:
		if m.CaptureSameColor {
			return 0 // crazywa same-color capture credits no hand gain to the mover
		}
		return NominalValue(def, m.Capture)
	case board.EnPassant:
		return NominalValue(def, m.Capture)
	default:
		return 0
	}
}
