package engine

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
)

// Book represents an opening book. spec.md §1 names "no opening book" as a
// non-goal, so the only implementation shipped is NoBook; the interface
// stays as the engine.New extension point for callers that wire in their
// own.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a position in
	// FEN. Once an empty list is returned, the book should not be consulted
	// again for the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// NoBook never suggests a move.
var NoBook Book = noBook{}

type noBook struct{}

func (noBook) Find(ctx context.Context, fen string) ([]board.Move, error) {
	return nil, nil
}
