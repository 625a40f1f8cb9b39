// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	id       = flag.String("variant", string(variant.Crazyhouse), "Variant id")
	position = flag.String("fen", "", "Start position (default to the variant's own start position)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	def, ok := variant.ByID(variant.ID(*id))
	if !ok {
		logw.Exitf(ctx, "Unknown variant: %v", *id)
	}
	if *position == "" {
		*position = def.StartFEN
	}

	zt := board.NewZobristTable(0, board.NewGeometry(def.Files, def.Ranks))
	pos, noprogress, fullmoves, err := fen.Decode(def, zt, *position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}
	b := board.NewBoard(zt, pos, noprogress, fullmoves)

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(b, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

func search(b *board.Board, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range b.Position().GenerateMoves() {
		if !b.PushMove(m) {
			continue // not legal: own royal piece left in check
		}
		count := search(b, depth-1, false)
		b.PopMove()

		if d {
			fmt.Printf("%v: %v\n", m, count)
		}
		nodes += count
	}
	return nodes
}
