package board_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosition(t *testing.T, def *variant.Definition, fenStr string) *board.Position {
	t.Helper()
	zt := board.NewZobristTable(7, board.NewGeometry(def.Files, def.Ranks))
	pos, _, _, err := fen.Decode(def, zt, fenStr)
	require.NoError(t, err)
	return pos
}

func TestGenerateMovesPawns(t *testing.T) {
	def := variant.CrazyhouseDefinition()

	t.Run("push and double push", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/6p1/8/8/4P3/8[] w - - 0 1")
		assert.ElementsMatch(t, []string{"e2e3", "e2e4"}, pawnMoveStrings(t, pos, def))
	})

	t.Run("capture", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/8/3p1p2/4P3/8/8[] w - - 0 1")
		assert.ElementsMatch(t, []string{"e3e4", "e3d4", "e3f4"}, pawnMoveStrings(t, pos, def))
	})

	t.Run("en passant", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/2pP4/8/8/8/8[] w - c6 0 1")
		var ep []string
		for _, m := range pos.GenerateMoves() {
			if m.Type == board.EnPassant {
				ep = append(ep, m.Format(pos.Geometry(), def))
			}
		}
		assert.Equal(t, []string{"d5c6"}, ep)
	})

	t.Run("forced promotion", func(t *testing.T) {
		pos := newPosition(t, def, "8/3P4/8/8/8/8/8/8[] w - - 0 1")
		var promos []string
		for _, m := range pos.GenerateMoves() {
			if m.IsPromotion() {
				promos = append(promos, m.Format(pos.Geometry(), def))
			}
		}
		sort.Strings(promos)
		assert.Equal(t, []string{"d7d8b", "d7d8n", "d7d8q", "d7d8r"}, promos)
	})
}

func TestGenerateMovesCastling(t *testing.T) {
	def := variant.CrazyhouseDefinition()

	t.Run("full rights", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/8/8/8/8/R3K2R[] w KQ - 0 1")
		assert.ElementsMatch(t, []string{"e1g1", "e1c1"}, castlingMoveStrings(t, pos, def))
	})

	t.Run("blocked king side", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/8/8/8/8/R3K1NR[] w KQ - 0 1")
		assert.ElementsMatch(t, []string{"e1c1"}, castlingMoveStrings(t, pos, def))
	})

	t.Run("no rights", func(t *testing.T) {
		pos := newPosition(t, def, "8/8/8/8/8/8/8/R3K2R[] w - - 0 1")
		assert.Empty(t, castlingMoveStrings(t, pos, def))
	})
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	def := variant.CrazyhouseDefinition()
	pos := newPosition(t, def, variant.CrazyhouseDefinition().StartFEN)

	before := fen.Encode(pos, 0, 1)
	for _, m := range pos.GenerateMoves() {
		undo := pos.Make(m)
		pos.Unmake(m, undo)
		assert.Equal(t, before, fen.Encode(pos, 0, 1))
	}
}

func TestDropRespectsMustPromoteZone(t *testing.T) {
	def := variant.ShogiDefinition()
	pos := newPosition(t, def, "9/9/9/9/9/9/9/9/9[P] w - - 0 1")

	for _, m := range pos.GenerateMoves() {
		if m.Type == board.Drop {
			rank := pos.Geometry().Rank(m.To)
			assert.NotEqual(t, def.Ranks-1, rank, "pawn must not be droppable on the last rank")
		}
	}
}

func pawnMoveStrings(t *testing.T, pos *board.Position, def *variant.Definition) []string {
	t.Helper()
	var out []string
	for _, m := range pos.GenerateMoves() {
		if m.Piece == variant.CHPawn {
			out = append(out, m.Format(pos.Geometry(), def))
		}
	}
	return out
}

func castlingMoveStrings(t *testing.T, pos *board.Position, def *variant.Definition) []string {
	t.Helper()
	var out []string
	for _, m := range pos.GenerateMoves() {
		if m.Type == board.Castle {
			out = append(out, m.Format(pos.Geometry(), def))
		}
	}
	return out
}

func TestFormatDropNotation(t *testing.T) {
	def := variant.ShogiDefinition()
	pos := newPosition(t, def, "9/9/9/9/9/9/9/9/9[P] w - - 0 1")

	var found bool
	for _, m := range pos.GenerateMoves() {
		if m.Type == board.Drop {
			found = true
			assert.True(t, strings.HasPrefix(m.Format(pos.Geometry(), def), "P@"))
			break
		}
	}
	assert.True(t, found)
}
