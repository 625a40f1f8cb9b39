package engine_test

import (
	"context"
	"testing"

	"github.com/mtaktikos/dropchess/pkg/engine"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/stretchr/testify/assert"
)

func TestNoBookNeverSuggestsAMove(t *testing.T) {
	ctx := context.Background()

	moves, err := engine.NoBook.Find(ctx, variant.CrazyhouseDefinition().StartFEN)
	assert.NoError(t, err)
	assert.Empty(t, moves)
}
