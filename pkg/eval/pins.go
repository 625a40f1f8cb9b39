package eval

import (
	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/variant"
)

// Pin represents a pinned piece: Pinned cannot move off the Attacker-Target
// line without exposing Target to Attacker.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

var rayDirections = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPins returns every pin along a straight ray into a side's piece of
// type t (typically its royal piece): walk outward in each of the 8
// directions, and if the first piece hit belongs to side and the next
// piece beyond it is an enemy slider threatening along that same line,
// the first piece is pinned. Grounded on eval/pins.go's rook/bishop
// rotated-bitboard pin search, rewalked as a direct mailbox ray-walk since
// there is no rotated bitboard to intersect against an attack mask here.
func FindPins(pos *board.Position, side board.Color, t variant.PieceType) []Pin {
	def := pos.Definition()
	cat := def.Catalogue()
	g := pos.Geometry()
	by := colorIndex(side.Opponent())

	var ret []Pin
	for sq := 0; sq < g.Size; sq++ {
		target := board.Square(sq)
		cell := pos.At(target)
		if !cell.IsOccupied() || cell.Color() != side || cell.Piece() != t {
			continue
		}

		for _, dir := range rayDirections {
			cur := target
			pinned := board.NoSquare
			for {
				cur = g.Step(cur, dir[0], dir[1])
				if !g.OnBoard(cur) {
					break
				}
				c2 := pos.At(cur)
				if c2.IsEmpty() {
					continue
				}
				if pinned == board.NoSquare {
					if c2.Color() != side {
						break // first piece along the ray is the enemy's own: a direct attack, not a pin
					}
					pinned = cur
					continue
				}

				if c2.Color() == side {
					break // a second friendly piece blocks the ray: no pin
				}
				fileDelta := g.File(target) - g.File(cur)
				rankDelta := g.Rank(target) - g.Rank(cur)
				if needsClear, ok := cat.Threatens(by, c2.Piece(), fileDelta, rankDelta); ok && needsClear {
					ret = append(ret, Pin{Attacker: cur, Pinned: pinned, Target: target})
				}
				break
			}
		}
	}

	return ret
}

func colorIndex(c board.Color) int {
	if c == board.Black {
		return 1
	}
	return 0
}
