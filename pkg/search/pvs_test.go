package search_test

import (
	"context"
	"testing"

	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPVSAgreesWithAlphaBeta(t *testing.T) {
	ctx := context.Background()

	b := newTestBoard(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R[] w KQkq - 0 1")

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: quiescenceMaterial{}}}
	pvs := search.PVS{Eval: search.Quiescence{Eval: quiescenceMaterial{}}}

	_, want, _, err := ab.Search(ctx, sctx, b.Fork(), 3)
	require.NoError(t, err)
	_, got, _, err := pvs.Search(ctx, sctx, b.Fork(), 3)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}
