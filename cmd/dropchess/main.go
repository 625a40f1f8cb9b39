// dropchess is an xboard/console engine supporting crazyhouse and several
// Shogi-family drop variants (spec.md §1-§6).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mtaktikos/dropchess/pkg/engine"
	"github.com/mtaktikos/dropchess/pkg/engine/console"
	"github.com/mtaktikos/dropchess/pkg/engine/xboard"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/seekerror/logw"
)

var (
	id     = flag.String("variant", string(variant.Crazyhouse), "Starting variant id")
	depth  = flag.Uint("depth", 6, "Search depth limit (zero: no limit)")
	hash   = flag.Uint("hash", 32, "Transposition table size in MB (zero: disabled)")
	noise  = flag.Uint("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
	resign = flag.Int("resign", 0, "Resignation threshold in centipawns (stored only; the engine never resigns)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: dropchess [options]

DROPCHESS is a crazyhouse and Shogi-family drop-variant engine, speaking
either the xboard (CECP) protocol or a plain debug console protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	def, ok := variant.ByID(variant.ID(*id))
	if !ok {
		flag.Usage()
		logw.Exitf(ctx, "Unknown variant: %v", *id)
	}

	s := search.AlphaBeta{
		Explore: search.FullExploration,
		Eval: search.Quiescence{
			Explore: search.QuiescenceExploration,
			Eval:    search.MaterialEvaluator{Eval: eval.Composite{eval.Material{}, eval.DefaultKingSafety}},
		},
	}
	e := engine.New(ctx, "dropchess", "mtaktikos", s,
		engine.WithVariant(def),
		engine.WithZobrist(time.Now().UnixNano()),
		engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash, Noise: *noise, Resign: *resign}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case xboard.ProtocolName:
		driver, out := xboard.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
