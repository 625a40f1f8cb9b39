// Package board contain chess board representation and utilities.
package board

import (
	"fmt"

	"github.com/mtaktikos/dropchess/pkg/variant"
)

const (
	repetition3Limit   = 3
	repetition5Limit   = 5
	noprogressPlyLimit = 100
)

// node is one ply of history: the move played to reach it, the Undo token
// needed to reverse it, and the pre-move noprogress/check-streak counters
// (so PopMove can restore them exactly rather than recomputing).
type node struct {
	move Move
	undo Undo

	noprogress   int
	checkStreak  [2]int // consecutive moves by that color, ending here, that gave check
}

// Board wraps a single in-place Position with the history and bookkeeping
// needed to play a legal game: repetition counting, the no-progress clock,
// insufficient-material/perpetual-check adjudication and undo. Grounded on
// board/board.go's node-stack Board, reworked around Position's in-place
// Make/Unmake (see position.go's package doc) instead of copy-on-write
// positions — the history stack now holds Undo tokens rather than whole
// Position values. Not thread-safe.
type Board struct {
	zt  *ZobristTable
	pos *Position

	repetitions map[ZobristHash]int

	// pattern tracks, per board-placement-only hash (ignoring hand
	// contents), how many times that piece pattern has occurred and the
	// material balance at its first occurrence, feeding QuasiRepeat
	// (spec.md §4.5 step 6).
	pattern     map[ZobristHash]patternEntry
	quasiSwings []float32

	fullmoves int
	result    Result

	history []node
}

// patternEntry is the bookkeeping QuasiRepeat needs per board pattern.
type patternEntry struct {
	count    int
	material float32
}

// NewBoard wraps pos (already set up and Recompute'd, e.g. via fen.Decode)
// for play.
func NewBoard(zt *ZobristTable, pos *Position, noprogress, fullmoves int) *Board {
	b := &Board{
		zt:          zt,
		pos:         pos,
		repetitions: map[ZobristHash]int{pos.Hash(): 1},
		pattern:     map[ZobristHash]patternEntry{},
		quasiSwings: defaultQuasiSwings(pos.Definition()),
		fullmoves:   fullmoves,
	}
	b.history = append(b.history, node{noprogress: noprogress})
	b.pattern[zt.BoardHash(pos)] = patternEntry{count: 1, material: materialBalance(pos)}
	return b
}

// defaultQuasiSwings returns the material swing thresholds QuasiRepeat
// matches against: a pawn's and (if present) a queen's nominal value,
// per spec.md §4.5 step 6's "a pawn/queen/configured swing threshold".
func defaultQuasiSwings(def *variant.Definition) []float32 {
	var out []float32
	for _, pd := range def.Pieces {
		if pd.Name == "Pawn" || pd.Name == "Queen" {
			out = append(out, pd.Value)
		}
	}
	return out
}

// SetQuasiRepeatSwing overrides the default material swing thresholds
// QuasiRepeat checks for.
func (b *Board) SetQuasiRepeatSwing(values ...float32) {
	b.quasiSwings = values
}

// Fork branches off an independent board sharing no mutable state with b;
// unlike the teacher's Fork (which could share history because Positions
// were immutable), this clones the Position outright since Make/Unmake
// mutates it in place.
func (b *Board) Fork() *Board {
	repetitions := make(map[ZobristHash]int, len(b.repetitions))
	for k, v := range b.repetitions {
		repetitions[k] = v
	}
	pattern := make(map[ZobristHash]patternEntry, len(b.pattern))
	for k, v := range b.pattern {
		pattern[k] = v
	}
	return &Board{
		zt:          b.zt,
		pos:         b.pos.Clone(),
		repetitions: repetitions,
		pattern:     pattern,
		quasiSwings: append([]float32(nil), b.quasiSwings...),
		fullmoves:   b.fullmoves,
		result:      b.result,
		history:     append([]node(nil), b.history...),
	}
}

func (b *Board) Position() *Position { return b.pos }
func (b *Board) Turn() Color         { return b.pos.Turn() }
func (b *Board) FullMoves() int      { return b.fullmoves }
func (b *Board) Result() Result      { return b.result }
func (b *Board) Hash() ZobristHash   { return b.pos.Hash() }

// Ply returns the number of half-moves played so far on this board.
func (b *Board) Ply() int { return len(b.history) - 1 }

func (b *Board) NoProgress() int {
	return b.history[len(b.history)-1].noprogress
}

// PushMove attempts to make a pseudo-legal move. Returns true iff legal
// (does not leave the mover's own royal piece in check).
func (b *Board) PushMove(m Move) bool {
	if b.result.Reason == Checkmate || b.result.Reason == Stalemate {
		return false // there are no legal moves
	} // else: ignore draws that are not always called correctly.

	mover := b.pos.Turn()
	undo := b.pos.Make(m)
	if b.pos.IsChecked(mover) {
		b.pos.Unmake(m, undo)
		return false
	}

	// (1) Move is legal. Push history node.

	prev := b.history[len(b.history)-1]
	n := node{move: m, undo: undo, noprogress: updateNoProgress(prev.noprogress, m)}
	n.checkStreak = prev.checkStreak
	if b.pos.IsChecked(b.pos.Turn()) {
		n.checkStreak[mover] = prev.checkStreak[mover] + 1
	} else {
		n.checkStreak[mover] = 0
	}
	b.history = append(b.history, n)

	// (2) Update board-level metadata.

	b.repetitions[b.pos.Hash()]++
	if b.pos.Turn() == White {
		b.fullmoves++
	}

	bh := b.zt.BoardHash(b.pos)
	entry := b.pattern[bh]
	entry.count++
	if entry.count == 1 {
		entry.material = materialBalance(b.pos)
	}
	b.pattern[bh] = entry

	// (3) Determine if draw/adjudicated condition applies.

	if b.repetitions[b.pos.Hash()] >= repetition3Limit {
		actual := b.identicalPositionCount()
		switch {
		case actual >= repetition5Limit:
			b.result = Result{Outcome: Draw, Reason: Repetition5}
		case actual >= repetition3Limit:
			b.result = b.adjudicateRepetition(mover)
		}
	}

	if n.noprogress >= noprogressPlyLimit {
		b.result = Result{Outcome: Draw, Reason: NoProgress}
	}

	if m.IsCapture() || m.IsPromotion() {
		if b.pos.HasInsufficientMaterial() {
			b.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
		}
	}

	return true
}

// adjudicateRepetition resolves a 3-fold repetition per the variant's
// PerpetualRule (spec.md §9 open question 2): a plain draw unless one side
// has been giving uninterrupted check for the whole repeated cycle, in
// which case the rule names who loses instead.
func (b *Board) adjudicateRepetition(mover Color) Result {
	n := b.history[len(b.history)-1]
	var checker Color
	found := false
	switch {
	case n.checkStreak[White] >= repetition3Limit:
		checker, found = White, true
	case n.checkStreak[Black] >= repetition3Limit:
		checker, found = Black, true
	}
	if !found {
		return Result{Outcome: Draw, Reason: Repetition3}
	}

	switch b.pos.Definition().PerpetualRule {
	case variant.PerpetualCheckerLoses:
		return Result{Outcome: Loss(checker), Reason: PerpetualCheck}
	case variant.PerpetualSenteLoses:
		return Result{Outcome: Loss(White), Reason: PerpetualCheck}
	case variant.PerpetualRepeaterLoses:
		return Result{Outcome: Loss(mover), Reason: PerpetualCheck}
	default: // variant.PerpetualDraw
		return Result{Outcome: Draw, Reason: Repetition3}
	}
}

// QuasiRepeat reports whether the current piece-placement pattern has
// recurred since first seen, with the material balance now differing from
// that first sighting by one of the configured swing thresholds (spec.md
// §4.5 step 6's quasi-repeat: a cyclic exchange sequence that never
// trips exact repetition because hand contents differ lap to lap, yet is
// effectively winning/losing material at a steady rate). favors names the
// side whose balance improved.
func (b *Board) QuasiRepeat() (favors Color, ok bool) {
	bh := b.zt.BoardHash(b.pos)
	entry, seen := b.pattern[bh]
	if !seen || entry.count < 2 {
		return ZeroColor, false
	}
	delta := materialBalance(b.pos) - entry.material
	for _, swing := range b.quasiSwings {
		if floatsMatch(delta, swing) || floatsMatch(delta, -swing) {
			if delta > 0 {
				return White, true
			}
			return Black, true
		}
	}
	return ZeroColor, false
}

// materialBalance returns pos's raw White-minus-Black material balance,
// board and hand combined; used only by QuasiRepeat, which needs a plain
// numeric comparison rather than pkg/eval's Score (pkg/eval already
// imports pkg/board, so this duplicates the handful of lines of
// eval.Material.Evaluate rather than create an import cycle).
func materialBalance(pos *Position) float32 {
	def := pos.Definition()
	g := pos.Geometry()

	var total float32
	for sq := 0; sq < g.Size; sq++ {
		cell := pos.At(Square(sq))
		if !cell.IsOccupied() {
			continue
		}
		pd, ok := def.PieceByType(cell.Piece())
		if !ok {
			continue
		}
		if cell.Color() == White {
			total += pd.Value
		} else {
			total -= pd.Value
		}
	}
	for _, pd := range def.Pieces {
		if !pd.Droppable {
			continue
		}
		total += float32(pos.HandCount(White, pd.Type)) * pd.HandValue
		total -= float32(pos.HandCount(Black, pd.Type)) * pd.HandValue
	}
	return total
}

const quasiRepeatEpsilon = 1e-3

func floatsMatch(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < quasiRepeatEpsilon
}

// PushNull makes a null move: the side to move passes without moving a
// piece (spec.md §4.5 step 4's null-move pruning). Callers must not call
// this when the side to move is in check (a null move can't evade one).
// Unlike PushMove, this never updates history/repetition bookkeeping: a
// null move is a search-only probe, never part of the played game.
func (b *Board) PushNull() Undo {
	return b.pos.MakeNull()
}

// PopNull reverses PushNull.
func (b *Board) PopNull(u Undo) {
	b.pos.UnmakeNull(u)
}

// PopMove reverses the last move played, if any.
func (b *Board) PopMove() (Move, bool) {
	if len(b.history) <= 1 {
		return Move{}, false
	}

	n := b.history[len(b.history)-1]
	b.repetitions[b.pos.Hash()]--

	bh := b.zt.BoardHash(b.pos)
	if entry := b.pattern[bh]; entry.count <= 1 {
		delete(b.pattern, bh)
	} else {
		entry.count--
		b.pattern[bh] = entry
	}

	b.pos.Unmake(n.move, n.undo)
	b.history = b.history[:len(b.history)-1]
	if b.pos.Turn() == Black {
		b.fullmoves--
	}
	b.result = Result{Outcome: Undecided} // a legal move was made, so not terminal

	return n.move, true
}

// AdjudicateNoLegalMoves adjudicates the position assuming no legal moves
// exist. The result is then either Checkmate or Stalemate.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.Position().IsChecked(b.Turn()) {
		result = Result{Outcome: Loss(b.Turn()), Reason: Checkmate}
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate the position as given.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// identicalPositionCount returns how many times the current position's
// exact hash (board, turn and hand contents all fold into it, see
// ZobristTable) has occurred so far.
func (b *Board) identicalPositionCount() int {
	return b.repetitions[b.pos.Hash()]
}

// LastMove returns the last move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) <= 1 {
		return Move{}, false
	}
	return b.history[len(b.history)-1].move, true
}

// HasCastled returns true iff c has castled at any point in this game.
func (b *Board) HasCastled(c Color) bool {
	t := b.pos.Turn()
	for i := len(b.history) - 1; i >= 1; i-- {
		t = t.Opponent()
		if t == c && b.history[i].move.Type == Castle {
			return true
		}
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, hash=%x (%v) noprogress=%v, fullmoves=%v, result=%v}", b.pos, b.pos.Hash(), b.repetitions[b.pos.Hash()], b.NoProgress(), b.fullmoves, b.result)
}

func updateNoProgress(old int, m Move) int {
	if m.Type != Normal {
		return 0
	}
	return old + 1
}
