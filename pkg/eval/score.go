package eval

import (
	"fmt"

	"github.com/mtaktikos/dropchess/pkg/board"
)

// Score is a signed move or position score in pawns-equivalent units;
// positive favors White (or, within search, the side to move). Grounded
// on eval/score.go's plain bounded float, extended with the mate-distance
// and invalid-result handling pkg/search's alpha-beta/quiescence/
// transposition-table code needs (IsInvalid/Negate/Less, IncrementMateDistance,
// MateInXScore) — the corpus's search files use this richer API but its
// score.go only had the bounded-float piece, so this unifies both onto one
// consistent Score type rather than two incompatible ones (see DESIGN.md).
type Score float32

const (
	ZeroScore Score = 0

	MinScore Score = -1000000
	MaxScore Score = 1000000

	NegInfScore Score = MinScore - 2000
	InfScore    Score = MaxScore + 2000

	// InvalidScore is returned when a search is cancelled mid-evaluation;
	// it sits further out than even NegInfScore so a caller that forgets
	// to check IsInvalid still fails safely low rather than silently
	// looking like "lost".
	InvalidScore Score = MinScore - 5000

	// mateBase is the magnitude of a "mate on this move" score; actual
	// mate-in-N scores count down from it by N plies (MateInXScore),
	// staying above MaxScore (so any mate beats any heuristic score) and
	// below InfScore (so alpha-beta bounds still dominate it).
	mateBase Score = MaxScore + 1000
)

func (s Score) String() string {
	return fmt.Sprintf("%.2f", s)
}

// IsInvalid reports whether s is the InvalidScore sentinel.
func (s Score) IsInvalid() bool {
	return s == InvalidScore
}

// IsMate reports whether s represents a forced mate (for or against the
// side it is expressed from the point of view of), rather than a
// heuristic positional evaluation.
func (s Score) IsMate() bool {
	return s > MaxScore || s < MinScore
}

// Negate flips s to the opponent's point of view (negamax convention).
func (s Score) Negate() Score {
	return -s
}

// Less reports whether s is strictly less than o.
func (s Score) Less(o Score) bool {
	return s < o
}

// HeuristicScore casts a raw evaluation value into a Score; it is a
// no-op beyond documenting, at call sites, that the value came from a
// position evaluator rather than a mate/bound computation.
func HeuristicScore(v Score) Score {
	return v
}

// MateInXScore returns the score for delivering mate in n plies from the
// current node, viewed from the mover's perspective: larger for a nearer
// mate, but always beating MaxScore (an engine must always prefer any
// forced mate over the best heuristic evaluation).
func MateInXScore(n int) Score {
	return mateBase - Score(n)
}

// IncrementMateDistance lengthens a mate score by one ply as it
// propagates up the search tree (a mate found one ply deeper is one ply
// further from the root); non-mate scores pass through unchanged.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > MaxScore:
		return s - 1
	case s < MinScore:
		return s + 1
	default:
		return s
	}
}

// MateDistance returns the number of plies to a forced mate encoded in s,
// and whether s encodes one at all (see MateInXScore/IncrementMateDistance).
func (s Score) MateDistance() (uint, bool) {
	switch {
	case s > MaxScore:
		return uint(mateBase - s), true
	case s < MinScore:
		return uint(s - -mateBase), true
	default:
		return 0, false
	}
}

// Unit returns the signed unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop clamps s into [MinScore;MaxScore], discarding any mate encoding.
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
