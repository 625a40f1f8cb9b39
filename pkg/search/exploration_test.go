package search_test

import (
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMVVLVA(t *testing.T) {
	def := variant.CrazyhouseDefinition()

	nb := board.Move{Type: board.Normal, Piece: variant.CHBishop}
	nq := board.Move{Type: board.Normal, Piece: variant.CHQueen}
	cqb := board.Move{Type: board.Capture, Piece: variant.CHQueen, Capture: variant.CHBishop}
	crb := board.Move{Type: board.Capture, Piece: variant.CHRook, Capture: variant.CHBishop}
	ckb := board.Move{Type: board.Capture, Piece: variant.CHKnight, Capture: variant.CHBishop}
	cqp := board.Move{Type: board.Capture, Piece: variant.CHQueen, Capture: variant.CHPawn}
	crp := board.Move{Type: board.Capture, Piece: variant.CHRook, Capture: variant.CHPawn}
	pb := board.Move{Type: board.Promotion, Piece: variant.CHPawn, Promotion: variant.CHBishop}
	pr := board.Move{Type: board.Promotion, Piece: variant.CHPawn, Promotion: variant.CHRook}
	pq := board.Move{Type: board.Promotion, Piece: variant.CHPawn, Promotion: variant.CHQueen}
	cpqr := board.Move{Type: board.CapturePromotion, Piece: variant.CHPawn, Promotion: variant.CHQueen, Capture: variant.CHRook}
	cprb := board.Move{Type: board.CapturePromotion, Piece: variant.CHPawn, Promotion: variant.CHRook, Capture: variant.CHBishop}
	cpqb := board.Move{Type: board.CapturePromotion, Piece: variant.CHPawn, Promotion: variant.CHQueen, Capture: variant.CHBishop}
	ep := board.Move{Type: board.EnPassant, Piece: variant.CHPawn}

	tests := []struct {
		in, out []board.Move
	}{
		{[]board.Move{nb, nq, ep}, []board.Move{ep, nb, nq}},
		{[]board.Move{cqb, crb, ckb, cqp, crp}, []board.Move{ckb, crb, cqb, crp, cqp}},
		{[]board.Move{pb, pr, pq}, []board.Move{pq, pr, pb}},
		{[]board.Move{cpqr, cprb, cpqb}, []board.Move{cpqr, cpqb, cprb}},
	}

	priority := search.MVVLVA(def)
	for _, tt := range tests {
		list := board.NewMoveList(tt.in, priority)
		var got []board.Move
		for {
			move, ok := list.Next()
			if !ok {
				break
			}
			got = append(got, move)
		}
		assert.Equal(t, tt.out, got)
	}
}

func TestIsQuickGainExploresUndefendedCapture(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	// Lone white rook captures an undefended black knight: not a "quick
	// gain" by material (rook < knight is false here), but the target square
	// is undefended, so it should be explored in quiescence search.
	pos, _, _, err := fen.Decode(def, zt, "8/8/8/4n3/8/8/8/4R3[] w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(zt, pos, 0, 1)

	from, _ := board.ParseSquareStr(pos.Geometry(), "e1")
	to, _ := board.ParseSquareStr(pos.Geometry(), "e5")
	capture := board.Move{Type: board.Capture, Piece: variant.CHRook, Capture: variant.CHKnight, From: from, To: to}

	explore := search.IsQuickGain(b)
	assert.True(t, explore(capture)) // must compile/run: exercises board.Position.IsAttacked(sq, by)
}
