package search

import "github.com/mtaktikos/dropchess/pkg/board"

// maxKillerPly bounds the per-ply tables; a search deeper than this just
// stops recording/consulting killers for the excess plies rather than
// panicking, the same "degrade, don't crash" choice transposition.go's
// depth/ply fields (uint8, clamped) make.
const maxKillerPly = 128

// KillerTable holds two quiet killer moves per ply: moves that produced a
// beta cutoff in a sibling branch at that ply, tried again before falling
// back to history-ranked ordering (spec.md §4.5 step 5, §5's "killers
// tried in stage 1, before history-ranked quiets").
type KillerTable struct {
	slots [maxKillerPly][2]board.Move
}

func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Moves returns ply's killer pair, most recent first.
func (t *KillerTable) Moves(ply int) (board.Move, board.Move) {
	if t == nil || ply < 0 || ply >= maxKillerPly {
		return board.Move{}, board.Move{}
	}
	return t.slots[ply][0], t.slots[ply][1]
}

// Add records m as ply's newest killer, demoting the previous first
// killer to second. Captures and promotions are never recorded: they are
// already ordered ahead of killers by MVV/LVA, so remembering them here
// would only waste a slot.
func (t *KillerTable) Add(ply int, m board.Move) {
	if t == nil || ply < 0 || ply >= maxKillerPly || m.IsCapture() || m.IsPromotion() {
		return
	}
	if t.slots[ply][0].Equals(m) {
		return
	}
	t.slots[ply][1] = t.slots[ply][0]
	t.slots[ply][0] = m
}

// Inherit copies ply's killer pair down to ply+1, used when the only
// reply to check at ply was an evasion: the same escape is often still
// the best reply one ply deeper (spec.md §5's "inherited pair after
// evasions").
func (t *KillerTable) Inherit(ply int) {
	if t == nil || ply < 0 || ply+1 >= maxKillerPly {
		return
	}
	t.slots[ply+1] = t.slots[ply]
}

// HistoryTable ranks quiet moves by how often they have produced a beta
// cutoff, indexed by moving piece and destination square: the standard
// history heuristic (spec.md §4.5 step 5's "history-ranked quiets").
type HistoryTable struct {
	score [board.NumColors][32][]int32 // [color][pieceType][square]
	size  int
}

// NewHistoryTable allocates a table sized for a board of the given square
// count (Position.Geometry().Size).
func NewHistoryTable(squares int) *HistoryTable {
	t := &HistoryTable{size: squares}
	for c := 0; c < int(board.NumColors); c++ {
		for p := 0; p < 32; p++ {
			t.score[c][p] = make([]int32, squares)
		}
	}
	return t
}

// Get returns m's accumulated history score for the side that would play
// it.
func (t *HistoryTable) Get(c board.Color, m board.Move) int32 {
	if t == nil || int(m.To) < 0 || int(m.To) >= t.size {
		return 0
	}
	return t.score[c][m.Piece][m.To]
}

// Add rewards m, played by c, with depth^2 after it produces a beta
// cutoff at the given remaining depth — the usual history-heuristic
// weighting, favoring cutoffs found deeper in the tree.
func (t *HistoryTable) Add(c board.Color, m board.Move, depth int) {
	if t == nil || m.IsCapture() || m.IsPromotion() || int(m.To) < 0 || int(m.To) >= t.size {
		return
	}
	if depth < 1 {
		depth = 1
	}
	t.score[c][m.Piece][m.To] += int32(depth * depth)
}

// MateKillerTable remembers, per ply, a move whose subtree produced a
// forced mate score: tried before ordinary killers at that ply the next
// time it is reached, since a mating continuation threatened once is
// often threatened again after a transposition (spec.md §2's table entry
// naming killers/history "and mate killers" as distinct move-ordering
// aids).
type MateKillerTable struct {
	slot [maxKillerPly]board.Move
}

func NewMateKillerTable() *MateKillerTable {
	return &MateKillerTable{}
}

func (t *MateKillerTable) Move(ply int) board.Move {
	if t == nil || ply < 0 || ply >= maxKillerPly {
		return board.Move{}
	}
	return t.slot[ply]
}

func (t *MateKillerTable) Add(ply int, m board.Move) {
	if t == nil || ply < 0 || ply >= maxKillerPly {
		return
	}
	t.slot[ply] = m
}
