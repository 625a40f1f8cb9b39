package eval

import (
	"context"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/variant"
)

// rightsScore tables the castling-rights balance by raw Castling bitmask
// value (0..15), grounded directly on original_source/dropper.c:760's
// rightsScore[] table ("int rightsScore[] = {0, -10, 10, 0, ...}"). The
// bitmask's own bit-to-corner assignment is pkg/board's (see castling.go),
// not the original C source's, so this reuses the table's shape as a
// standing "rights asymmetry" proxy rather than claiming bit-for-bit
// parity with the original encoding.
var rightsScore = [16]Score{0, -10, 10, 0, -10, -30, 0, -20, 10, 0, 30, 20, 0, -20, 20, 0}

// kingRays are the 8 step directions dropper.c's Evaluate() walks outward
// from each king to count open "frontier" squares.
var kingRays = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}}

// KingSafety scores a handful of standing king-exposure terms, grounded on
// the teacher's pin detection (pins.go) and attacker enumeration
// (capture.go) repurposed as evaluation terms, plus dropper.c's Evaluate()
// (king shield, frontier openness, the killZone/impasse penalty and the
// castling-rights table) reworked for a generic Geometry instead of
// dropper.c's fixed 8x8 layout.
type KingSafety struct {
	AttackWeight Score // per attacker of the king's own square
	PinWeight    Score // per piece pinned to the king

	// ShieldWeight rewards own pieces occupying the three squares directly
	// ahead of the king (dropper.c's "board[k+22] == WHITE" shield term).
	ShieldWeight Score

	// OpenFileWeight penalizes empty squares immediately beside the king,
	// scaled by how many distinct piece types the opponent currently holds
	// in hand (an open ring square is only as dangerous as what the
	// opponent can drop into it) — dropper.c's "(!board[k+1] + !board[k-1])"
	// term, generalized from a fixed pawn-drop assumption to any droppable
	// piece type.
	OpenFileWeight Score

	// AttackerRangeWeight penalizes enemy pieces within two king-moves
	// (Chebyshev distance 2) of the king, dropper.c's two-ranks-ahead
	// lookahead generalized to all eight directions.
	AttackerRangeWeight Score

	// FrontierWeight penalizes open squares along the king's own rays
	// before the first blocker, dropper.c's w/b frontier-ray count.
	FrontierWeight Score

	// ImpasseWeight is a flat penalty once the king has advanced into the
	// far third of the board (dropper.c's "k >= killZone": an advanced
	// king is exposed to the opponent's whole hand of drops).
	ImpasseWeight Score

	// CastlingRightsWeight scales rightsScore[pos.Castling()].
	CastlingRightsWeight Score
}

// DefaultKingSafety is a modest weighting: no single term should swing an
// evaluation as much as a full pawn of material.
var DefaultKingSafety = KingSafety{
	AttackWeight:         0.2,
	PinWeight:            0.1,
	ShieldWeight:         0.08,
	OpenFileWeight:       0.05,
	AttackerRangeWeight:  0.06,
	FrontierWeight:       0.02,
	ImpasseWeight:        0.5,
	CastlingRightsWeight: 0.01,
}

func (k KingSafety) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	g := pos.Geometry()

	var white Score
	for _, c := range []board.Color{board.White, board.Black} {
		king := pos.KingSquare(c)
		attackers := pos.AttackersOf(king, c.Opponent())
		penalty := Score(len(attackers)) * k.AttackWeight

		pins := FindPins(pos, c, variant.RoyalType)
		penalty += Score(len(pins)) * k.PinWeight

		penalty -= Score(kingShield(pos, c)) * k.ShieldWeight
		penalty += Score(openRingSquares(pos, c)) * k.OpenFileWeight
		penalty += Score(attackersInKingRange(pos, c)) * k.AttackerRangeWeight
		penalty += Score(frontierOpenness(pos, g, king)) * k.FrontierWeight
		if inImpasseZone(g, king, c) {
			penalty += k.ImpasseWeight
		}

		if c == board.White {
			white -= penalty
		} else {
			white += penalty
		}
	}

	white += rightsScore[pos.Castling()] * k.CastlingRightsWeight

	return white * Unit(b.Turn())
}

// kingShield counts c's own pieces on the (up to) three squares directly
// ahead of c's king: straight ahead and the two diagonals, the squares a
// king-side pawn wall would occupy.
func kingShield(pos *board.Position, c board.Color) int {
	g := pos.Geometry()
	king := pos.KingSquare(c)
	forward := c.Unit()

	count := 0
	for _, df := range []int{-1, 0, 1} {
		sq := g.Step(king, df, forward)
		if g.OnBoard(sq) && pos.At(sq).IsOccupied() && pos.At(sq).Color() == c {
			count++
		}
	}
	return count
}

// openRingSquares counts the empty squares immediately left and right of
// c's king, scaled by how many distinct piece types the opponent holds in
// hand and could drop into one.
func openRingSquares(pos *board.Position, c board.Color) int {
	g := pos.Geometry()
	def := pos.Definition()
	king := pos.KingSquare(c)

	open := 0
	for _, df := range []int{-1, 1} {
		sq := g.Step(king, df, 0)
		if g.OnBoard(sq) && pos.At(sq).IsEmpty() {
			open++
		}
	}
	if open == 0 {
		return 0
	}

	droppable := 0
	for _, pd := range def.Pieces {
		if pd.Droppable && pos.HandCount(c.Opponent(), pd.Type) > 0 {
			droppable++
		}
	}
	return open * droppable
}

// attackersInKingRange counts enemy pieces within Chebyshev distance 2 of
// c's king: close enough to threaten it within two king moves.
func attackersInKingRange(pos *board.Position, c board.Color) int {
	g := pos.Geometry()
	king := pos.KingSquare(c)
	kf, kr := g.File(king), g.Rank(king)

	count := 0
	for sq := 0; sq < g.Size; sq++ {
		cell := pos.At(board.Square(sq))
		if !cell.IsOccupied() || cell.Color() == c {
			continue
		}
		f, r := g.File(board.Square(sq)), g.Rank(board.Square(sq))
		if abs(f-kf) <= 2 && abs(r-kr) <= 2 {
			count++
		}
	}
	return count
}

// frontierOpenness counts, along each of the 8 directions from king, the
// run of empty squares before the first occupied or off-board square: an
// open king is more exposed to a slider or a well-placed drop.
func frontierOpenness(pos *board.Position, g board.Geometry, king board.Square) int {
	open := 0
	for _, dir := range kingRays {
		sq := g.Step(king, dir[0], dir[1])
		for g.OnBoard(sq) && pos.At(sq).IsEmpty() {
			open++
			sq = g.Step(sq, dir[0], dir[1])
		}
	}
	return open
}

// inImpasseZone reports whether c's king has advanced into the far third
// of the board from its own side, dropper.c's killZone: a king that deep
// in enemy territory is exposed to the opponent's whole hand.
func inImpasseZone(g board.Geometry, king board.Square, c board.Color) bool {
	rank := g.Rank(king)
	third := g.Ranks / 3
	if third == 0 {
		third = 1
	}
	if c == board.White {
		return rank >= g.Ranks-third
	}
	return rank < third
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
