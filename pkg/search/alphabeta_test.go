package search_test

import (
	"context"
	"testing"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, fenStr string) *board.Board {
	t.Helper()
	def := variant.CrazyhouseDefinition()
	zt := board.NewZobristTable(7, board.NewGeometry(def.Files, def.Ranks))
	pos, noprogress, fullmoves, err := fen.Decode(def, zt, fenStr)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, noprogress, fullmoves)
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	ctx := context.Background()

	// White rooks on g6/h7 deliver back-rank mate with Rg8# (the h7 rook
	// guards the seventh rank).
	b := newTestBoard(t, "k7/7R/6R1/8/8/8/8/7K[] w - - 0 1")

	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: quiescenceMaterial{}}}
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}

	_, score, _, err := ab.Search(ctx, sctx, b, 2)
	require.NoError(t, err)
	assert.Equal(t, eval.MateInXScore(1), score)
}

func TestAlphaBetaAgreesWithMinimaxOnMaterial(t *testing.T) {
	ctx := context.Background()

	b := newTestBoard(t, "8/8/8/8/8/8/4P3/4K2k[] w - - 0 1")

	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: quiescenceMaterial{}}}
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	mm := search.Minimax{Eval: eval.Material{}}

	_, got, _, err := ab.Search(ctx, sctx, b.Fork(), 2)
	require.NoError(t, err)
	_, want, _, err := mm.Search(ctx, sctx, b.Fork(), 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// quiescenceMaterial adapts eval.Material to the search-local Evaluator
// interface, ignoring the alpha-beta window (it never recurses further).
type quiescenceMaterial struct{}

func (quiescenceMaterial) Evaluate(ctx context.Context, sctx *search.Context, b *board.Board) eval.Score {
	return eval.Material{}.Evaluate(ctx, b)
}
