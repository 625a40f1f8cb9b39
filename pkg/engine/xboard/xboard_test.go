package xboard_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mtaktikos/dropchess/pkg/engine"
	"github.com/mtaktikos/dropchess/pkg/engine/xboard"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(ctx context.Context) *engine.Engine {
	s := search.AlphaBeta{Eval: search.Quiescence{Eval: search.MaterialEvaluator{Eval: eval.Material{}}}}
	return engine.New(ctx, "test", "test", s, engine.WithOptions(engine.Options{Depth: 1}))
}

func drain(t *testing.T, out <-chan string, timeout time.Duration) []string {
	t.Helper()

	var lines []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				return lines
			}
			lines = append(lines, line)
		case <-deadline:
			return lines
		}
	}
}

func TestProtoverEmitsFeatureLines(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)
	_, out := xboard.NewDriver(ctx, newTestEngine(ctx), in)

	in <- "protover 2"
	in <- "quit"
	close(in)

	lines := drain(t, out, time.Second)
	require.NotEmpty(t, lines)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, `feature variants=`)
	assert.Contains(t, joined, `feature option="Resign`)
	assert.Contains(t, joined, `feature option="Contempt`)
	assert.Contains(t, joined, "feature done=1")
}

func TestUsermoveRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)
	_, out := xboard.NewDriver(ctx, newTestEngine(ctx), in)

	in <- "force"
	in <- "usermove e2e5" // not a legal pawn move from the start position
	in <- "quit"
	close(in)

	lines := drain(t, out, time.Second)
	assert.Contains(t, lines, "Illegal move: e2e5")
}

func TestUsermoveAcceptsLegalOpening(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)
	_, out := xboard.NewDriver(ctx, newTestEngine(ctx), in)

	in <- "force" // force mode: engine never replies with its own move
	in <- "usermove e2e4"
	in <- "quit"
	close(in)

	lines := drain(t, out, time.Second)
	for _, line := range lines {
		assert.NotContains(t, line, "Illegal move")
	}
}

func TestPingIsAnsweredWithPong(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)
	_, out := xboard.NewDriver(ctx, newTestEngine(ctx), in)

	in <- "ping 7"
	in <- "quit"
	close(in)

	lines := drain(t, out, time.Second)
	assert.Contains(t, lines, "pong 7")
}
