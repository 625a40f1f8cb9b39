package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/mtaktikos/dropchess/pkg/board"
	"github.com/mtaktikos/dropchess/pkg/board/fen"
	"github.com/mtaktikos/dropchess/pkg/eval"
	"github.com/mtaktikos/dropchess/pkg/search"
	"github.com/mtaktikos/dropchess/pkg/search/searchctl"
	"github.com/mtaktikos/dropchess/pkg/variant"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 89, 3)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use
	// a transposition table.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations.
	Noise uint
	// Resign is the resignation threshold in centipawns (xboard "option
	// Resign=K"). It is only stored: nothing reads it and the engine never
	// resigns.
	Resign int
	// Contempt is the contempt value in centipawns (xboard "option
	// Contempt=K"). It is only stored: the search scores every draw as zero.
	Contempt int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, resign=%v, contempt=%v}", o.Depth, o.Hash, o.Noise, o.Resign, o.Contempt)
}

// Engine encapsulates game-playing logic, search and evaluation.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	factory  search.TranspositionTableFactory
	seed     int64
	opts     Options

	def  *variant.Definition
	zt   *board.ZobristTable
	book Book

	b      *board.Board
	tt     search.TranspositionTable
	noise  eval.Random
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the
// default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithVariant configures the engine's starting variant instead of the
// default of Crazyhouse.
func WithVariant(def *variant.Definition) Option {
	return func(e *Engine) {
		e.def = def
	}
}

// WithBook configures the engine's opening book. Defaults to NoBook.
func WithBook(book Book) Option {
	return func(e *Engine) {
		e.book = book
	}
}

func New(ctx context.Context, name, author string, root search.Search, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: &searchctl.Iterative{Root: root},
		factory:  search.NewTranspositionTable,
		def:      variant.CrazyhouseDefinition(),
		book:     NoBook,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed, board.NewGeometry(e.def.Files, e.def.Ranks))

	_ = e.Reset(ctx, e.def.StartFEN)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
}

func (e *Engine) SetResign(centipawns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Resign = centipawns
}

func (e *Engine) SetContempt(centipawns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Contempt = centipawns
}

// Variant returns the variant definition currently in play.
func (e *Engine) Variant() *variant.Definition {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.def
}

// Board returns a forked board.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position(), e.b.NoProgress(), e.b.FullMoves())
}

// SetVariant switches the engine to def and resets the board to its
// starting position. Changing variants invalidates the Zobrist table,
// since its square count and hand size are variant-specific.
func (e *Engine) SetVariant(ctx context.Context, def *variant.Definition) error {
	e.mu.Lock()
	e.def = def
	e.zt = board.NewZobristTable(e.seed, board.NewGeometry(def.Files, def.Ranks))
	e.mu.Unlock()

	return e.Reset(ctx, def.StartFEN)
}

// Reset resets the engine to a new starting position in FEN format, under
// the engine's current variant.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	_, _ = e.haltSearchIfActive(ctx)

	pos, noprogress, fullmoves, err := fen.Decode(e.def, e.zt, position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(e.zt, pos, noprogress, fullmoves)

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandom(int(e.opts.Noise), e.seed)
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move selects the given move, usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(e.b.Position().Geometry(), e.def, move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	moves := e.b.Position().GenerateMoves()
	for _, m := range moves {
		if !m.MatchesInput(candidate) {
			continue
		}

		// Candidate is at least pseudo-legal.

		if !e.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}

		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze analyzes the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if moves, err := e.book.Find(ctx, fen.Encode(e.b.Position(), e.b.NoProgress(), e.b.FullMoves())); err == nil && len(moves) > 0 {
		out := make(chan search.PV, 1)
		out <- search.PV{Depth: 0, Moves: moves[:1]}
		close(out)
		return out, nil
	}

	handle, out := e.launcher.Launch(ctx, e.b.Fork(), e.tt, e.noise, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
