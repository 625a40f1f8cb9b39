package eval

import (
	"sort"

	"github.com/mtaktikos/dropchess/pkg/board"
)

// FindCapture returns every piece of side that directly attacks sq, for
// static-exchange move ordering ahead of quiescence search. Grounded on
// eval/capture.go's bitboard FindCapture, rewritten against
// Position.AttackersOf since the mailbox representation has no rotated
// bitboard to intersect against a piece's attack set.
func FindCapture(pos *board.Position, side board.Color, sq board.Square) []board.Square {
	return pos.AttackersOf(sq, side)
}

// SortByNominalValue orders attacker squares by the nominal value of the
// piece standing on them, low to high (so the cheapest attacker is
// considered first in a capture exchange).
func SortByNominalValue(pos *board.Position, squares []board.Square) []board.Square {
	def := pos.Definition()
	sort.SliceStable(squares, func(i, j int) bool {
		return NominalValue(def, pos.At(squares[i]).Piece()) < NominalValue(def, pos.At(squares[j]).Piece())
	})
	return squares
}
