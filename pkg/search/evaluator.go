package search

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/eval"
)

// MaterialEvaluator adapts a static eval.Evaluator to the search-local
// Evaluator interface, adding the noise carried on the search Context.
// Grounded on alphabeta_test.go's quiescenceMaterial helper, generalized
// to actually mix in sctx.Noise instead of ignoring it, since the test
// double runs deterministic fixtures only.
type MaterialEvaluator struct {
	Eval eval.Evaluator // defaults to eval.Material{} if nil
}

func (m MaterialEvaluator) Evaluate(ctx context.Context, sctx *Context, b *board.Board) eval.Score {
	ev := m.Eval
	if ev == nil {
		ev = eval.Material{}
	}
	return ev.Evaluate(ctx, b) + sctx.Noise.Evaluate(ctx, b)
}
