// Package variant describes the board geometry, piece catalogue and drop
// rules of a single chess variant. A Definition is pure data: pkg/board
// consumes it to build a concrete Position, it never mutates one.
package variant

// ID names one of the supported variants, matching the xboard "variant"
// command's argument (spec.md §6) and dropper.c's variants[] table.
type ID string

const (
	Crazyhouse   ID = "crazyhouse"
	MiniShogi    ID = "minishogi"
	JudkinShogi  ID = "judkinshogi"
	Shogi        ID = "shogi"
	ToriShogi    ID = "torishogi"
	CrazyWa      ID = "crazywa"
	GenericShogi ID = "generic-shogi"
)

// PerpetualRule selects how a repeated position with an ongoing checking
// cycle is adjudicated (spec.md §4.5 step 6, §9 open question 2).
type PerpetualRule int

const (
	// PerpetualDraw: repetition is a plain draw regardless of checks
	// (crazyhouse, crazywa).
	PerpetualDraw PerpetualRule = iota
	// PerpetualCheckerLoses: the side perpetually giving check loses
	// (full Shogi, Judkin Shogi).
	PerpetualCheckerLoses
	// PerpetualSenteLoses: the first player (sente) loses a perpetual
	// check cycle unconditionally (mini-Shogi).
	PerpetualSenteLoses
	// PerpetualRepeaterLoses: whichever side repeats the position loses
	// (Tori Shogi).
	PerpetualRepeaterLoses
)

// PieceType indexes a piece within a color: 0..14 unpromoted, 16..30 the
// promoted counterpart (type+16), 31 the royal piece. Matches spec.md §3's
// type numbering; pkg/board packs a color flag and this type into its own
// Cell value (see pkg/board/piece.go) rather than reusing the original's
// cell byte layout (see DESIGN.md).
type PieceType uint8

const (
	NoPieceType    PieceType = 0xFF // sentinel, never stored on board
	PromotedOffset PieceType = 16
	RoyalType      PieceType = 31
)

// IsPromoted reports whether t names a promoted piece.
func (t PieceType) IsPromoted() bool { return t >= PromotedOffset && t < RoyalType }

// Demoted returns the unpromoted base type of t (a no-op if t is already
// unpromoted or royal).
func (t PieceType) Demoted() PieceType {
	if t.IsPromoted() {
		return t - PromotedOffset
	}
	return t
}

// Promoted returns the promoted counterpart of an unpromoted, non-royal t.
func (t PieceType) Promoted() PieceType {
	return t + PromotedOffset
}

// Dir is a (file,rank) step expressed from White's point of view; Black's
// equivalent step negates DRank. This mirrors dropper.c's steps[] table,
// which stores the same vector and mirrors it for Black at lookup time.
type Dir struct {
	DFile, DRank int
}

// StepDescriptor is one entry of a piece's movement definition: a direction
// plus how far it may travel. Grounded on dropper.c's steps[] (step,range)
// pairs including the MOVE_ONLY/CAPT_ONLY flag bits.
type StepDescriptor struct {
	Dir Dir

	// MaxRange is the number of squares the piece may travel along Dir;
	// 0 means unlimited (slides to the edge of the board or a blocker).
	MaxRange int

	MoveOnly    bool // may move but never capture along this step (chess pawn push)
	CaptureOnly bool // may only capture along this step (chess pawn diagonal)
}

// PieceDef is the complete rule set for one piece type within a variant.
type PieceDef struct {
	Type   PieceType
	Letter byte // xboard/FEN letter, upper-cased; promoted pieces reuse the base letter with a '+' prefix
	Name   string

	Steps []StepDescriptor

	// Droppable is true if the piece may be placed from hand (spec §4.2,
	// §4.3 drop generation).
	Droppable bool

	// PromotesTo is the piece's promoted identity, or NoPieceType if the
	// piece never promotes (Gold, King, already-promoted pieces). For
	// pieces with more than one promotion choice (chess pawns: N/B/R/Q)
	// it names the default (Queen) and PromotesToOptions lists all of
	// them.
	PromotesTo PieceType

	// PromotesToOptions lists every legal promotion target; len==1 for
	// the Shogi family (promotion is forced-shape, never a choice),
	// len==4 for a crazyhouse pawn.
	PromotesToOptions []PieceType

	// MustPromoteZone is the zone bitmask (see zone.go) beyond which the
	// piece has no legal non-promoting move and must promote
	// (dropper.c's Z_MUST, e.g. a pawn/lance on the last rank).
	MustPromoteZone ZoneMask

	// PromotionZone is the zone bitmask in which the piece may elect to
	// promote upon move (dropper.c's Z_LAST/Z_2ND).
	PromotionZone ZoneMask

	// Value is the piece's nominal material value in pawns-equivalent
	// units, consulted by pkg/eval and by MVV/LVA move ordering.
	Value float32

	// HandValue is the value counted while the piece sits in hand; it
	// may differ from Value (dropper.c's handVal / handValSame tables).
	HandValue float32

	// SameColorHandSlot, when AllowSameColorCapture is set, is the piece
	// type credited to the capturing side's hand when this piece is
	// captured by a piece of the same color (dropper.c's handSlotSame;
	// only meaningful for crazywa).
	SameColorHandSlot PieceType

	// MaxPerFile caps how many of this piece type a single file may
	// hold on the board at once (0 = unbounded); mirrors dropper.c's
	// per-file pawn-bulk check used to forbid two pawns dropped on one
	// file.
	MaxPerFile int

	// DoubleStepFromHomeRank allows a two-square non-capturing move from
	// the piece's own back-but-one rank (the orthodox chess pawn's
	// opening move); false for every Shogi-family pawn.
	DoubleStepFromHomeRank bool
}

// Definition is the complete rule set of one variant.
type Definition struct {
	ID ID

	Files, Ranks int

	// HandSize bounds the number of distinct piece types that can be
	// held in hand (dropper.c's VariantDesc.hand); it is descriptive
	// here, actual counts are unbounded per type.
	HandSize int

	StartFEN string

	Pieces []PieceDef

	AllowCastling         bool
	AllowSameColorCapture bool
	PerpetualRule         PerpetualRule
	DarkSquareMarkers     bool // Shogi-family FEN uses '*' to mark promotion-eligible squares
	PromotedMarker        byte // '+' (Shogi-family) used when printing a promoted piece in FEN/move text

	cat *Catalogue // lazily built, see Catalogue()
}

// Catalogue returns d's precomputed attack table (spec.md §4.1), building
// it on first use.
func (d *Definition) Catalogue() *Catalogue {
	if d.cat == nil {
		d.cat = BuildCatalogue(d)
	}
	return d.cat
}

// PieceByType returns the PieceDef for t, or false if t is not part of d.
// Every promoted identity a variant supports has its own explicit entry in
// Definition.Pieces (built alongside its unpromoted base in definitions.go),
// so this is a direct lookup rather than a synthesis from the base piece.
func (d *Definition) PieceByType(t PieceType) (PieceDef, bool) {
	for _, p := range d.Pieces {
		if p.Type == t {
			return p, true
		}
	}
	return PieceDef{}, false
}

// PieceByLetter returns the PieceDef whose FEN/move-text letter is ch
// (case-insensitive), or false if no piece in d uses that letter.
func (d *Definition) PieceByLetter(ch byte) (PieceDef, bool) {
	upper := ch &^ 0x20
	for _, p := range d.Pieces {
		if p.Letter == upper {
			return p, true
		}
	}
	return PieceDef{}, false
}
