package board

import "github.com/mtaktikos/dropchess/pkg/variant"

// Piece is a variant.PieceType alias at board level, kept as its own name
// since board callers think in terms of "a piece occupying a square", not
// "a type entry in a rule table".
type Piece = variant.PieceType

const NoPiece = variant.NoPieceType

// Cell is one entry of a Position's mailbox array: either empty (zero
// value), off-board (OffBoardCell), or an occupied square packed as
// color+type: bit 6 flags White, bit 7 flags Black and bits 0..5 hold the
// piece type; all zero bits means empty. Unlike the original C source, which
// reuses the same byte range to also store negative hand counters, hand
// inventory here lives in Position.hands (see position.go) — a dedicated,
// explicit counter array rather than a pointer-arithmetic trick into the
// same backing store (see DESIGN.md).
type Cell int16

const (
	emptyCell Cell = 0
	// OffBoardCell marks a guard-band cell; Position initializes every
	// padded cell outside the real board to this value so that a step
	// off the edge is rejected by a single equality check.
	OffBoardCell Cell = -1

	whiteFlag Cell = 1 << 6
	blackFlag Cell = 1 << 7
	colorMask Cell = whiteFlag | blackFlag
	typeMask  Cell = 0x3F
)

// NewCell packs a color and piece type into a Cell.
func NewCell(c Color, p Piece) Cell {
	flag := whiteFlag
	if c == Black {
		flag = blackFlag
	}
	return flag | Cell(p)
}

func (c Cell) IsEmpty() bool    { return c == emptyCell }
func (c Cell) IsOffBoard() bool { return c == OffBoardCell }
func (c Cell) IsOccupied() bool { return !c.IsEmpty() && !c.IsOffBoard() }

func (c Cell) Color() Color {
	if c&blackFlag != 0 {
		return Black
	}
	return White
}

func (c Cell) Piece() Piece { return Piece(c & typeMask) }
