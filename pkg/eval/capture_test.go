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

func TestFindCaptureSeesRookAlongOpenFile(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	pos, _, _, err := fen.Decode(def, zt, "8/8/8/4n3/8/8/8/4R3[] w - - 0 1")
	require.NoError(t, err)

	target, ok := board.ParseSquareStr(pos.Geometry(), "e5")
	require.True(t, ok)

	attackers := eval.FindCapture(pos, board.White, target)
	require.Len(t, attackers, 1)

	rook, ok := board.ParseSquareStr(pos.Geometry(), "e1")
	require.True(t, ok)
	assert.Equal(t, rook, attackers[0])
}

func TestSortByNominalValueOrdersCheapestFirst(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	// Rook on e1 and knight on c4 both reach e5: the rook along the open
	// e-file, the knight via c4-e5.
	pos, _, _, err := fen.Decode(def, zt, "8/8/8/4n3/2N5/8/8/4R3[] w - - 0 1")
	require.NoError(t, err)

	target, ok := board.ParseSquareStr(pos.Geometry(), "e5")
	require.True(t, ok)
	knight, ok := board.ParseSquareStr(pos.Geometry(), "c4")
	require.True(t, ok)

	attackers := eval.FindCapture(pos, board.White, target)
	require.Len(t, attackers, 2)

	sorted := eval.SortByNominalValue(pos, attackers)
	assert.Equal(t, knight, sorted[0]) // knight (3) is cheaper than rook (5)
}
