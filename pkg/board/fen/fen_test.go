package fen_test

import (
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		def *variant.Definition
		fen string
	}{
		{variant.CrazyhouseDefinition(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"},
		{variant.CrazyhouseDefinition(), "rnbqk2r/ppppppbp/5np1/8/8/5NP1/PPPPPPBP/RNBQK2R[] w KQkq - 0 1"},
		{variant.MiniShogiDefinition(), "rbsgk/4p/5/P4/KGSBR[] w - 0 1"},
		{variant.ShogiDefinition(), "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL[] w - 0 1"},
	}

	for _, tt := range tests {
		zt := board.NewZobristTable(1, board.NewGeometry(tt.def.Files, tt.def.Ranks))

		pos, noprogress, fullmoves, err := fen.Decode(tt.def, zt, tt.fen)
		require.NoError(t, err)

		assert.Equal(t, tt.fen, fen.Encode(pos, noprogress, fullmoves))
	}
}

func TestDecodeHoldings(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	pos, _, _, err := fen.Decode(def, zt, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[Pn] w KQkq - 0 1")
	require.NoError(t, err)

	assert.Equal(t, 1, pos.HandCount(board.White, variant.CHPawn))
	assert.Equal(t, 1, pos.HandCount(board.Black, variant.CHKnight))
}
