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

func TestKingSafetyPenalizesAttackedKing(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(1, board.NewGeometry(def.Files, def.Ranks))

	// Black rook attacks the white king directly along the open e-file;
	// White to move, so the penalty lands on the side to move and its score
	// drops.
	pos, _, _, err := fen.Decode(def, zt, "4r3/8/8/8/8/8/8/4K3[] w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(zt, pos, 0, 1)

	safe, _, _, err := fen.Decode(def, zt, "8/8/8/8/8/8/8/4K3[] w - - 0 1")
	require.NoError(t, err)
	bSafe := board.NewBoard(zt, safe, 0, 1)

	attacked := eval.DefaultKingSafety.Evaluate(context.Background(), b)
	unattacked := eval.DefaultKingSafety.Evaluate(context.Background(), bSafe)

	assert.True(t, attacked < unattacked)
}
