package eval_test

import (
	"context"
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialEvaluate(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(3, board.NewGeometry(def.Files, def.Ranks))

	pos, noprogress, fullmoves, err := fen.Decode(def, zt, "8/8/8/8/8/8/8/R3K3[] w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(zt, pos, noprogress, fullmoves)

	got := eval.Material{}.Evaluate(context.Background(), b)
	assert.Equal(t, eval.Score(5), got) // lone white rook, side to move is White
}

func TestMaterialEvaluateWithHand(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(3, board.NewGeometry(def.Files, def.Ranks))

	pos, noprogress, fullmoves, err := fen.Decode(def, zt, "8/8/8/8/8/8/8/K7[p] w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(zt, pos, noprogress, fullmoves)

	got := eval.Material{}.Evaluate(context.Background(), b)
	assert.Equal(t, eval.Score(-1), got) // Black holds a pawn in hand, White to move
}

func TestNominalValueGainCapture(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	m := board.Move{Type: board.Capture, Piece: variant.CHRook, Capture: variant.CHQueen}
	assert.Equal(t, eval.Score(9), eval.NominalValueGain(def, m))
}
