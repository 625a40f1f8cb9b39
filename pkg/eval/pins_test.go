package eval_test

import (
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPinsDetectsPinAgainstKing(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	// White knight on e2 is pinned to the king on e1 by the black rook on e8.
	pos, _, _, err := fen.Decode(def, zt, "4r3/8/8/8/8/8/4N3/4K3[] w - - 0 1")
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, variant.CHKing)
	require.Len(t, pins, 1)

	attacker, _ := board.ParseSquareStr(pos.Geometry(), "e8")
	pinned, _ := board.ParseSquareStr(pos.Geometry(), "e2")
	target, _ := board.ParseSquareStr(pos.Geometry(), "e1")

	assert.Equal(t, eval.Pin{Attacker: attacker, Pinned: pinned, Target: target}, pins[0])
}

func TestFindPinsIgnoresUnpinnedPosition(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	pos, _, _, err := fen.Decode(def, zt, "4r3/8/8/8/8/3N4/8/4K3[] w - - 0 1")
	require.NoError(t, err)

	assert.Empty(t, eval.FindPins(pos, board.White, variant.CHKing))
}
