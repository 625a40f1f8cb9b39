package board

import (
	"fmt"

	"github.com/mtaktikos/dropchess/pkg/variant"
)

// Position is a single, in-place mutable board: a padded mailbox array,
// per-color hand inventories, king locations, castling rights, an en
// passant target and the incremental Zobrist hash. Grounded on
// board/position.go's Position (piece placement + castling + en passant)
// merged with board/board.go's Board (history-facing responsibilities),
// reworked into the padded-array/guard-band representation spec.md keeps
// explicitly (§3, §9) plus hand counters and per-file pawn bulk (§4.2,
// §4.4). Unlike the teacher's copy-on-write Position.Move, Make/Unmake is
// in place and reversible via an Undo token, which is the shape spec.md's
// §4.4 names outright ("Make/Unmake").
type Position struct {
	def  *variant.Definition
	geom Geometry
	zt   *ZobristTable

	cells []Cell
	hands [2][32]int8

	kingSquare [2]Square
	castling   Castling
	enPassant  Square
	turn       Color

	pawnFileBulk [2][]int8 // [color][file], counts of MaxPerFile-restricted pieces already on that file

	hash ZobristHash
}

// Undo captures everything Position.Unmake needs to reverse a Make call.
type Undo struct {
	castling  Castling
	enPassant Square
	hash      ZobristHash
}

// NewPosition builds an empty board for def; callers populate it via
// Place/SetHand (see fen.Decode) before play begins, then call Recompute.
func NewPosition(def *variant.Definition, zt *ZobristTable) *Position {
	g := NewGeometry(def.Files, def.Ranks)
	p := &Position{
		def:       def,
		geom:      g,
		zt:        zt,
		cells:     make([]Cell, g.Size),
		enPassant: NoSquare,
		turn:      White,
	}
	for i := range p.cells {
		p.cells[i] = OffBoardCell
	}
	for f := 0; f < g.Files; f++ {
		for r := 0; r < g.Ranks; r++ {
			p.cells[g.Square(f, r)] = emptyCell
		}
	}
	p.pawnFileBulk[White] = make([]int8, g.Files)
	p.pawnFileBulk[Black] = make([]int8, g.Files)
	return p
}

func (p *Position) Definition() *variant.Definition            { return p.def }
func (p *Position) Geometry() Geometry                         { return p.geom }
func (p *Position) Turn() Color                                { return p.turn }
func (p *Position) Castling() Castling                         { return p.castling }
func (p *Position) EnPassant() (Square, bool)                  { return p.enPassant, p.enPassant != NoSquare }
func (p *Position) Hash() ZobristHash                          { return p.hash }
func (p *Position) KingSquare(c Color) Square                  { return p.kingSquare[c] }
func (p *Position) HandCount(c Color, t variant.PieceType) int { return int(p.hands[c][t]) }

// At returns the cell at sq.
func (p *Position) At(sq Square) Cell {
	return p.cells[sq]
}

// Place puts a piece of color c/type t on sq unconditionally; used only
// while setting up a position (fen.Decode), never during search.
func (p *Position) Place(sq Square, c Color, t variant.PieceType) {
	p.cells[sq] = NewCell(c, t)
	if t == variant.RoyalType {
		p.kingSquare[c] = sq
	}
	if pd, ok := p.def.PieceByType(t); ok && pd.MaxPerFile > 0 {
		p.pawnFileBulk[c][p.geom.File(sq)]++
	}
}

// SetHand sets c's hand count for t unconditionally (fen.Decode only).
func (p *Position) SetHand(c Color, t variant.PieceType, n int) {
	p.hands[c][t] = int8(n)
}

// SetTurn, SetCastling and SetEnPassant configure setup-only state;
// Recompute must be called once setup is complete to seed the hash.
func (p *Position) SetTurn(c Color)        { p.turn = c }
func (p *Position) SetCastling(c Castling) { p.castling = c }
func (p *Position) SetEnPassant(sq Square) { p.enPassant = sq }

// Recompute seeds the incremental Zobrist hash from scratch; call once
// after setup (fen.Decode) and never again (Make/Unmake keeps it current).
func (p *Position) Recompute() {
	p.hash = p.zt.Hash(p)
}

// IsChecked reports whether c's royal piece is currently attacked.
func (p *Position) IsChecked(c Color) bool {
	return p.IsAttacked(p.kingSquare[c], c.Opponent())
}

// IsAttacked reports whether sq is attacked by any piece of color by,
// consulting the variant's precomputed Catalogue (spec.md §4.1).
func (p *Position) IsAttacked(sq Square, by Color) bool {
	cat := p.def.Catalogue()
	color := 0
	if by == Black {
		color = 1
	}
	for from := 0; from < p.geom.Size; from++ {
		cell := p.cells[from]
		if !cell.IsOccupied() || cell.Color() != by {
			continue
		}
		fromSq := Square(from)
		if fromSq == sq {
			continue
		}
		fileDelta := p.geom.File(sq) - p.geom.File(fromSq)
		rankDelta := p.geom.Rank(sq) - p.geom.Rank(fromSq)
		needsClear, ok := cat.Threatens(color, cell.Piece(), fileDelta, rankDelta)
		if !ok {
			continue
		}
		if !needsClear || p.rayClear(fromSq, sq) {
			return true
		}
	}
	return false
}

// AttackersOf returns the squares holding a piece of color by that directly
// attacks sq, for move-ordering/SEE use (pkg/eval's capture-exchange
// ordering) rather than the single yes/no IsAttacked answer check-
// detection needs.
func (p *Position) AttackersOf(sq Square, by Color) []Square {
	cat := p.def.Catalogue()
	color := 0
	if by == Black {
		color = 1
	}
	var out []Square
	for from := 0; from < p.geom.Size; from++ {
		cell := p.cells[from]
		if !cell.IsOccupied() || cell.Color() != by {
			continue
		}
		fromSq := Square(from)
		if fromSq == sq {
			continue
		}
		fileDelta := p.geom.File(sq) - p.geom.File(fromSq)
		rankDelta := p.geom.Rank(sq) - p.geom.Rank(fromSq)
		needsClear, ok := cat.Threatens(color, cell.Piece(), fileDelta, rankDelta)
		if !ok {
			continue
		}
		if !needsClear || p.rayClear(fromSq, sq) {
			out = append(out, fromSq)
		}
	}
	return out
}

// rayClear reports whether every square strictly between from and to
// (assumed colinear) is empty.
func (p *Position) rayClear(from, to Square) bool {
	fFile, fRank := p.geom.File(from), p.geom.Rank(from)
	tFile, tRank := p.geom.File(to), p.geom.Rank(to)
	dFile, dRank := sign(tFile-fFile), sign(tRank-fRank)
	cur := p.geom.Step(from, dFile, dRank)
	for cur != to {
		if !p.cells[cur].IsEmpty() {
			return false
		}
		cur = p.geom.Step(cur, dFile, dRank)
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Make applies m in place, returning an Undo token to reverse it. The
// caller is responsible for only calling Make with pseudo-legal moves
// produced by pkg/board's move generator.
func (p *Position) Make(m Move) Undo {
	u := Undo{castling: p.castling, enPassant: p.enPassant, hash: p.hash}
	p.hash = p.zt.Move(p.hash, p, m)

	turn := p.turn

	switch m.Type {
	case Drop:
		p.hands[turn][m.DropPiece]--
		p.cells[m.To] = NewCell(turn, m.DropPiece)
		p.bumpFileBulk(turn, m.DropPiece, p.geom.File(m.To), 1)

	case Castle:
		p.movePiece(m.From, m.To, turn, m.Piece)
		rook, _ := p.def.PieceByLetter('R')
		p.movePiece(m.RookFrom, m.RookTo, turn, rook.Type)

	default:
		if m.IsCapture() {
			p.removeCapture(m, turn)
		}
		p.cells[m.From] = emptyCell
		dest := m.Piece
		if m.IsPromotion() {
			dest = m.Promotion
		}
		p.cells[m.To] = NewCell(turn, dest)
		if m.Piece == variant.RoyalType {
			p.kingSquare[turn] = m.To
		}
		if pd, ok := p.def.PieceByType(m.Piece); ok && pd.MaxPerFile > 0 {
			p.bumpFileBulk(turn, m.Piece, p.geom.File(m.From), -1)
			if !m.IsPromotion() {
				p.bumpFileBulk(turn, m.Piece, p.geom.File(m.To), 1)
			}
		}
		if m.Type == EnPassant {
			epCapSq := p.geom.Step(m.To, 0, -turn.Unit())
			p.cells[epCapSq] = emptyCell
		}
	}

	p.castling &^= m.castlingRightsLost(p)
	p.enPassant = p.nextEnPassant(m)
	p.turn = turn.Opponent()

	return u
}

// Unmake reverses the effect of Make(m) given its Undo token; u must be
// the token Make(m) returned and no other move may have been made since.
func (p *Position) Unmake(m Move, u Undo) {
	turn := p.turn.Opponent()
	p.turn = turn

	switch m.Type {
	case Drop:
		p.hands[turn][m.DropPiece]++
		p.cells[m.To] = emptyCell
		p.bumpFileBulk(turn, m.DropPiece, p.geom.File(m.To), -1)

	case Castle:
		rook, _ := p.def.PieceByLetter('R')
		p.movePiece(m.To, m.From, turn, m.Piece)
		p.movePiece(m.RookTo, m.RookFrom, turn, rook.Type)

	default:
		if m.Piece == variant.RoyalType {
			p.kingSquare[turn] = m.From
		}
		if pd, ok := p.def.PieceByType(m.Piece); ok && pd.MaxPerFile > 0 {
			p.bumpFileBulk(turn, m.Piece, p.geom.File(m.From), 1)
			if !m.IsPromotion() {
				p.bumpFileBulk(turn, m.Piece, p.geom.File(m.To), -1)
			}
		}
		p.cells[m.From] = NewCell(turn, m.Piece)
		p.cells[m.To] = emptyCell

		if m.Type == EnPassant {
			epCapSq := p.geom.Step(m.To, 0, -turn.Unit())
			p.cells[epCapSq] = NewCell(turn.Opponent(), m.Capture)
			p.bumpFileBulk(turn.Opponent(), m.Capture, p.geom.File(m.To), 1)
			p.hands[turn][p.handSlotFor(m.Capture)]--
		} else if m.IsCapture() {
			p.restoreCapture(m, turn)
		}
	}

	p.castling = u.castling
	p.enPassant = u.enPassant
	p.hash = u.hash
}

// MakeNull applies a null move in place: the side to move passes without
// moving a piece, used by null-move pruning (spec.md §4.5 step 4). The en
// passant target, if any, is cleared since it cannot survive a skipped
// ply; castling rights are unaffected.
func (p *Position) MakeNull() Undo {
	u := Undo{castling: p.castling, enPassant: p.enPassant, hash: p.hash}
	p.hash = p.zt.Null(p.hash, p)
	p.enPassant = NoSquare
	p.turn = p.turn.Opponent()
	return u
}

// UnmakeNull reverses MakeNull given its Undo token.
func (p *Position) UnmakeNull(u Undo) {
	p.turn = p.turn.Opponent()
	p.castling = u.castling
	p.enPassant = u.enPassant
	p.hash = u.hash
}

// CheckGivingDropSquares returns the empty squares on which dropping a
// piece of type t for color c would directly check c's opponent (spec.md
// §4.3's check-giving drop generator, "walks the piece's own attack
// directions from the enemy king outward to empty squares").
func (p *Position) CheckGivingDropSquares(c Color, t variant.PieceType) []Square {
	cat := p.def.Catalogue()
	color := 0
	if c == Black {
		color = 1
	}
	kingSq := p.kingSquare[c.Opponent()]

	var out []Square
	for sq := 0; sq < p.geom.Size; sq++ {
		to := Square(sq)
		if !p.geom.OnBoard(to) || !p.cells[to].IsEmpty() {
			continue
		}
		fileDelta := p.geom.File(kingSq) - p.geom.File(to)
		rankDelta := p.geom.Rank(kingSq) - p.geom.Rank(to)
		needsClear, ok := cat.Threatens(color, t, fileDelta, rankDelta)
		if !ok {
			continue
		}
		if !needsClear || p.rayClear(to, kingSq) {
			out = append(out, to)
		}
	}
	return out
}

// CheckRaySquares returns the empty squares strictly between the sole
// piece currently checking c's king and that king (spec.md §4.3's evasion-
// drop generator, which "fills squares on the check ray"). It returns nil
// if c is not in check, is in double check (only a king move evades a
// double check, so no interposition square qualifies), or the sole
// checker sits adjacent to the king (a contact check has no ray to
// interpose on).
func (p *Position) CheckRaySquares(c Color) []Square {
	kingSq := p.kingSquare[c]
	attackers := p.AttackersOf(kingSq, c.Opponent())
	if len(attackers) != 1 {
		return nil
	}
	checker := attackers[0]

	cat := p.def.Catalogue()
	color := 0
	if c.Opponent() == Black {
		color = 1
	}
	fileDelta := p.geom.File(kingSq) - p.geom.File(checker)
	rankDelta := p.geom.Rank(kingSq) - p.geom.Rank(checker)
	needsClear, ok := cat.Threatens(color, p.cells[checker].Piece(), fileDelta, rankDelta)
	if !ok || !needsClear {
		return nil // leap or contact check: no square to interpose on
	}

	fFile, fRank := p.geom.File(checker), p.geom.Rank(checker)
	tFile, tRank := p.geom.File(kingSq), p.geom.Rank(kingSq)
	dFile, dRank := sign(tFile-fFile), sign(tRank-fRank)

	var out []Square
	cur := p.geom.Step(checker, dFile, dRank)
	for cur != kingSq {
		out = append(out, cur)
		cur = p.geom.Step(cur, dFile, dRank)
	}
	return out
}

func (p *Position) movePiece(from, to Square, c Color, t variant.PieceType) {
	p.cells[from] = emptyCell
	p.cells[to] = NewCell(c, t)
	if t == variant.RoyalType {
		p.kingSquare[c] = to
	}
}

func (p *Position) removeCapture(m Move, turn Color) {
	p.cells[m.To] = emptyCell

	capColor := turn.Opponent()
	if m.CaptureSameColor {
		capColor = turn
	}
	p.bumpFileBulk(capColor, m.Capture, p.geom.File(m.To), -1)

	if m.CaptureSameColor {
		return // crazywa same-color capture: no hand credit for the mover
	}
	toHand := p.handSlotFor(m.Capture)
	p.hands[turn][toHand]++
}

func (p *Position) restoreCapture(m Move, turn Color) {
	capColor := turn.Opponent()
	if m.CaptureSameColor {
		capColor = turn
	}
	p.cells[m.To] = NewCell(capColor, m.Capture)
	p.bumpFileBulk(capColor, m.Capture, p.geom.File(m.To), 1)

	if m.CaptureSameColor {
		return
	}
	toHand := p.handSlotFor(m.Capture)
	p.hands[turn][toHand]--
}

// handSlotFor returns which piece type a captured piece is credited as in
// the capturer's hand: its demoted (unpromoted) identity, per the usual
// crazyhouse/Shogi-family rule, unless AllowSameColorCapture names an
// explicit SameColorHandSlot override (crazywa).
func (p *Position) handSlotFor(captured variant.PieceType) variant.PieceType {
	toHand := captured.Demoted()
	if pd, ok := p.def.PieceByType(captured); ok && p.def.AllowSameColorCapture && pd.SameColorHandSlot != NoPiece {
		toHand = pd.SameColorHandSlot
	}
	return toHand
}

func (p *Position) bumpFileBulk(c Color, t variant.PieceType, file int, delta int) {
	if pd, ok := p.def.PieceByType(t); ok && pd.MaxPerFile > 0 {
		p.pawnFileBulk[c][file] += int8(delta)
	}
}

// FileBulk returns how many MaxPerFile-restricted pieces of color c
// currently sit on file (spec.md §4.2's "two pawns on one file" rule).
func (p *Position) FileBulk(c Color, file int) int {
	return int(p.pawnFileBulk[c][file])
}

// castlingRightsLost computes which castling rights m revokes: moving the
// royal piece loses both rights for that color; a rook leaving, or being
// captured on, one of its home corners loses that corner's right.
func (m Move) castlingRightsLost(p *Position) Castling {
	if !p.def.AllowCastling {
		return 0
	}
	var lost Castling
	turn := p.turn
	if m.Piece == variant.RoyalType {
		if turn == White {
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	rook, _ := p.def.PieceByLetter('R')
	g := p.geom
	corner := func(c Color, file int) Square {
		rank := 0
		if c == Black {
			rank = g.Ranks - 1
		}
		return g.Square(file, rank)
	}
	if m.Piece == rook.Type && m.From == corner(turn, 7) {
		lost |= kingSideRight(turn)
	}
	if m.Piece == rook.Type && m.From == corner(turn, 0) {
		lost |= queenSideRight(turn)
	}
	if m.IsCapture() && m.Capture == rook.Type {
		opp := turn.Opponent()
		if m.To == corner(opp, 7) {
			lost |= kingSideRight(opp)
		}
		if m.To == corner(opp, 0) {
			lost |= queenSideRight(opp)
		}
	}
	return lost
}

func kingSideRight(c Color) Castling {
	if c == White {
		return WhiteKingSideCastle
	}
	return BlackKingSideCastle
}

func queenSideRight(c Color) Castling {
	if c == White {
		return WhiteQueenSideCastle
	}
	return BlackQueenSideCastle
}

// nextEnPassant computes the en passant target square created by m, or
// NoSquare if none.
func (p *Position) nextEnPassant(m Move) Square {
	if m.Type != DoublePush {
		return NoSquare
	}
	return p.geom.Step(m.From, 0, p.turn.Unit())
}

func (p *Position) String() string {
	return fmt.Sprintf("position{turn=%v, castling=%v, hash=%x}", p.turn, p.castling, p.hash)
}

// Clone returns an independent deep copy of p, so the copy may be mutated
// via Make/Unmake without affecting p. Used by Board.Fork (spec.md's
// analysis/pondering branches need an independent position, but Position
// itself is in-place mutable rather than copy-on-write, see the package
// doc).
func (p *Position) Clone() *Position {
	cp := *p
	cp.cells = append([]Cell(nil), p.cells...)
	cp.pawnFileBulk[White] = append([]int8(nil), p.pawnFileBulk[White]...)
	cp.pawnFileBulk[Black] = append([]int8(nil), p.pawnFileBulk[Black]...)
	return &cp
}

// HasInsufficientMaterial reports whether neither side holds enough force
// to deliver checkmate by any sequence of legal moves: no piece in hand,
// and every piece on the board is a lone royal or a single minor (knight
// or bishop) per color. Droppable variants essentially never qualify once
// either hand holds anything, so this only fires for bare-king-ish chess
// endings (spec.md's crazyhouse/chess insufficient-material draw, §4.5).
func (p *Position) HasInsufficientMaterial() bool {
	var minors [2]int
	var other [2]bool
	for c := 0; c < 2; c++ {
		for t := range p.hands[c] {
			if p.hands[c][t] > 0 {
				return false
			}
		}
	}
	for sq := 0; sq < p.geom.Size; sq++ {
		cell := p.cells[sq]
		if !cell.IsOccupied() {
			continue
		}
		t := cell.Piece()
		if t == variant.RoyalType {
			continue
		}
		pd, ok := p.def.PieceByType(t)
		if !ok {
			return false
		}
		if pd.Name == "Knight" || pd.Name == "Bishop" {
			minors[cell.Color()]++
		} else {
			other[cell.Color()] = true
		}
	}
	return !other[White] && !other[Black] && minors[White] <= 1 && minors[Black] <= 1
}
