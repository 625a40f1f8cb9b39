// Package fen contains utilities for reading and writing variant positions
// in an extended FEN notation: holdings in square brackets ("[Pp]"),
// '+'/'~' promoted-piece markers, and board dimensions taken from the
// variant.Definition in play rather than a fixed 8x8. Grounded on
// board/fen/fen.go's six-field decode/encode, extended per spec.md §6.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/variant"
)

// Decode parses an extended FEN string into a ready-to-play Position for
// def. Returns the halfmove (no-progress) clock and fullmove number
// alongside the position, matching the teacher's four-value Decode shape.
func Decode(def *variant.Definition, zt *board.ZobristTable, s string) (*board.Position, int, int, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) < 4 {
		return nil, 0, 0, fmt.Errorf("invalid number of sections in FEN: %q", s)
	}

	pos := board.NewPosition(def, zt)
	g := pos.Geometry()

	placement, holdings := splitHoldings(parts[0])

	rank := g.Ranks - 1
	file := 0
	pendingPromotion := false
	runes := []rune(placement)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '/':
			if file != g.Files {
				return nil, 0, 0, fmt.Errorf("invalid rank length in FEN: %q", s)
			}
			rank--
			file = 0
		case r == '*':
			// dark-square marker (Shogi-family FEN dialects): cosmetic, skip.
		case r == '+':
			pendingPromotion = true
		case r == '~':
			// promoted-piece suffix (crazyhouse): a promoted pawn is stored as
			// the piece it became, so the marker has nothing to record; skip.
		case unicode.IsDigit(r):
			n := 0
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				n = n*10 + int(runes[i]-'0')
				i++
			}
			i-- // compensate for the loop's i++
			file += n
		case unicode.IsLetter(r):
			if rank < 0 || file >= g.Files {
				return nil, 0, 0, fmt.Errorf("invalid placement in FEN: %q", s)
			}
			color, pd, ok := parsePieceLetter(def, r, pendingPromotion)
			pendingPromotion = false
			if !ok {
				return nil, 0, 0, fmt.Errorf("invalid piece %q in FEN: %q", r, s)
			}
			pos.Place(g.Square(file, rank), color, pd.Type)
			file++
		default:
			return nil, 0, 0, fmt.Errorf("invalid character %q in FEN: %q", r, s)
		}
	}

	for _, r := range holdings {
		color, pd, ok := parsePieceLetter(def, r, false)
		if !ok {
			return nil, 0, 0, fmt.Errorf("invalid holding %q in FEN: %q", r, s)
		}
		pos.SetHand(color, pd.Type, pos.HandCount(color, pd.Type)+1)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, fmt.Errorf("invalid active color in FEN: %q", s)
	}
	pos.SetTurn(turn)

	idx := 2
	if def.AllowCastling {
		castling, ok := parseCastling(parts[idx])
		if !ok {
			return nil, 0, 0, fmt.Errorf("invalid castling in FEN: %q", s)
		}
		pos.SetCastling(castling)
		idx++
	}

	if parts[idx] != "-" {
		sq, ok := board.ParseSquareStr(g, parts[idx])
		if !ok {
			return nil, 0, 0, fmt.Errorf("invalid en passant in FEN: %q", s)
		}
		pos.SetEnPassant(sq)
	}
	idx++

	noprogress, fullmoves := 0, 1
	if idx < len(parts) {
		if n, err := strconv.Atoi(parts[idx]); err == nil {
			noprogress = n
		}
		idx++
	}
	if idx < len(parts) {
		if n, err := strconv.Atoi(parts[idx]); err == nil {
			fullmoves = n
		}
	}

	pos.Recompute()
	return pos, noprogress, fullmoves, nil
}

// splitHoldings separates the "board[holdings]" piece-placement field into
// its two parts; holdings is empty if no bracket is present.
func splitHoldings(field string) (placement, holdings string) {
	start := strings.IndexByte(field, '[')
	if start < 0 {
		return field, ""
	}
	end := strings.IndexByte(field, ']')
	if end < 0 {
		return field[:start], ""
	}
	return field[:start], field[start+1 : end]
}

// Encode renders pos (plus the ambient color-to-move/clocks, which
// Position no longer tracks standalone) back to extended FEN.
func Encode(pos *board.Position, noprogress, fullmoves int) string {
	def := pos.Definition()
	g := pos.Geometry()

	var sb strings.Builder
	for r := g.Ranks - 1; r >= 0; r-- {
		blanks := 0
		for f := 0; f < g.Files; f++ {
			cell := pos.At(g.Square(f, r))
			if cell.IsEmpty() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			pd, _ := def.PieceByType(cell.Piece())
			if pd.Type.IsPromoted() {
				sb.WriteByte(def.PromotedMarker)
			}
			sb.WriteRune(printPieceLetter(cell.Color(), pd))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	if hasDroppable(def) {
		sb.WriteString("[")
		sb.WriteString(encodeHoldings(pos))
		sb.WriteString("]")
	}

	fields := []string{sb.String(), printColor(pos.Turn())}
	if def.AllowCastling {
		fields = append(fields, printCastling(pos.Castling()))
	}
	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = board.SquareString(g, sq)
	}
	fields = append(fields, ep, strconv.Itoa(noprogress), strconv.Itoa(fullmoves))

	return strings.Join(fields, " ")
}

func hasDroppable(def *variant.Definition) bool {
	for _, pd := range def.Pieces {
		if pd.Droppable {
			return true
		}
	}
	return false
}

func encodeHoldings(pos *board.Position) string {
	def := pos.Definition()
	var sb strings.Builder
	for _, c := range []board.Color{board.White, board.Black} {
		for _, pd := range def.Pieces {
			if !pd.Droppable {
				continue
			}
			for i := 0; i < pos.HandCount(c, pd.Type); i++ {
				sb.WriteRune(printPieceLetter(c, pd))
			}
		}
	}
	return sb.String()
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePieceLetter(def *variant.Definition, r rune, promoted bool) (board.Color, variant.PieceDef, bool) {
	color := board.White
	upper := r
	if unicode.IsLower(r) {
		color = board.Black
		upper = unicode.ToUpper(r)
	}
	pd, ok := def.PieceByLetter(byte(upper))
	if !ok {
		return 0, variant.PieceDef{}, false
	}
	if promoted {
		promotedDef, ok := def.PieceByType(pd.Type.Promoted())
		if !ok {
			return 0, variant.PieceDef{}, false
		}
		pd = promotedDef
	}
	return color, pd, true
}

func printPieceLetter(c board.Color, pd variant.PieceDef) rune {
	letter := rune(pd.Letter)
	if c == board.Black {
		letter = unicode.ToLower(letter)
	}
	return letter
}
