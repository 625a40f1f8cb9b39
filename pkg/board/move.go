package board

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mtaktikos/dropchess/pkg/variant"
)

// MoveType indicates the kind of move, following board/move.go's tagged-
// struct shape (spec.md §9: "replace the raw 32-bit move pack by a tagged
// variant") extended with the drop-chess cases spec.md §3 names: Drop,
// DoublePush (a chess pawn's first two-square push, tracked separately
// from Push so en passant eligibility is a one-field check) and Castle
// (single case, RookFrom/RookTo carry the side).
type MoveType uint8

const (
	Normal MoveType = iota
	Push            // non-capturing pawn move
	DoublePush      // pawn's two-square first move
	EnPassant       // pawn capture onto the empty square behind a double push
	Capture
	Promotion
	CapturePromotion
	Drop
	Castle
)

// Move represents a not-necessarily-legal move plus enough metadata to
// make/unmake and order it without re-deriving anything from the board.
type Move struct {
	Type MoveType

	From, To Square // From is NoSquare for Drop

	Piece     variant.PieceType // moving piece's identity before the move (NoPieceType for Drop)
	DropPiece variant.PieceType // piece type placed from hand (Drop only)
	Promotion variant.PieceType // resulting identity after promotion (Promotion/CapturePromotion only)
	Capture   variant.PieceType // captured piece's identity, if any

	// CaptureSameColor records whether Capture belonged to the mover's
	// own color (crazywa's same-color capture rule, spec.md §4.2,
	// variant.Definition.AllowSameColorCapture).
	CaptureSameColor bool

	// RookFrom/RookTo carry the rook's move for Castle; From/To carry
	// the king's move.
	RookFrom, RookTo Square

	// Priority is a move-ordering score (MVV/LVA, killer/history rank,
	// ...); it is scratch data for search and plays no role in
	// Equals/String.
	Priority int32
}

func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == CapturePromotion
}

func (m Move) Equals(o Move) bool {
	return m.Type == o.Type && m.From == o.From && m.To == o.To &&
		m.DropPiece == o.DropPiece && m.Promotion == o.Promotion
}

// String renders m in pure coordinate notation using raw square indices;
// callers that need algebraic notation or a drop's piece letter (which
// depends on the variant.Definition in play) should use Format instead.
func (m Move) String() string {
	if m.Type == Drop {
		return fmt.Sprintf("drop(%v)@%v", m.DropPiece, m.To)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// MatchesInput reports whether m is the legal move the user-supplied probe
// (built by ParseMove, which can't know Type — capture, promotion-capture,
// castle — without consulting the legal move list) refers to.
func (m Move) MatchesInput(probe Move) bool {
	if probe.Type == Drop {
		return m.Type == Drop && m.To == probe.To && m.DropPiece == probe.DropPiece
	}
	return m.From == probe.From && m.To == probe.To &&
		(probe.Promotion == variant.NoPieceType || m.Promotion == probe.Promotion)
}

// ParseMove parses pure coordinate notation ("e2e4", "e7e8q") or drop
// notation ("P@e5") into a probe Move carrying just enough identity to
// find the matching legal move via MatchesInput; the notation alone
// can't say whether a square move is a capture; that bookkeeping only
// becomes available once it's compared to board.GenerateMoves's output.
func ParseMove(g Geometry, def *variant.Definition, s string) (Move, error) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		if i != 1 {
			return Move{}, fmt.Errorf("invalid drop notation: %v", s)
		}
		pd, ok := def.PieceByLetter(byte(unicode.ToUpper(rune(s[0]))))
		if !ok {
			return Move{}, fmt.Errorf("unknown drop piece: %v", s)
		}
		to, ok := ParseSquareStr(g, s[i+1:])
		if !ok {
			return Move{}, fmt.Errorf("invalid square in: %v", s)
		}
		return Move{Type: Drop, DropPiece: pd.Type, To: to}, nil
	}

	for split := 2; split <= len(s)-2; split++ {
		from, ok := ParseSquareStr(g, s[:split])
		if !ok {
			continue
		}
		rest := s[split:]
		promotion := variant.NoPieceType
		if len(rest) > 0 {
			if pd, ok := def.PieceByLetter(byte(unicode.ToUpper(rune(rest[len(rest)-1])))); ok {
				promotion = pd.Type
				rest = rest[:len(rest)-1]
			}
		}
		if to, ok := ParseSquareStr(g, rest); ok {
			return Move{From: from, To: to, Promotion: promotion}, nil
		}
	}
	return Move{}, fmt.Errorf("invalid move: %v", s)
}

// Format renders m using g for algebraic squares and def to look up a
// drop's piece letter (spec.md §6's "P@e4" drop syntax).
func (m Move) Format(g Geometry, def *variant.Definition) string {
	if m.Type == Drop {
		letter := byte('?')
		if pd, ok := def.PieceByType(m.DropPiece); ok {
			letter = pd.Letter
		}
		return fmt.Sprintf("%c@%v", letter, SquareString(g, m.To))
	}
	s := fmt.Sprintf("%v%v", SquareString(g, m.From), SquareString(g, m.To))
	if m.IsPromotion() {
		if pd, ok := def.PieceByType(m.Promotion); ok {
			s += string(pd.Letter + 0x20)
		}
	}
	return s
}
