package variant

// Catalogue is the precomputed attack table for a Definition: for every
// piece type and color it lists the directions and ranges that type
// threatens a square along, split into leap entries (checked directly,
// matching dropper.c's unconditional captCode leap match) and slide
// entries (require a clear ray, matching dropper.c's "slide match requires
// a ray scan" rule, spec.md §4.1). Unlike dropper.c's flat captCode/
// deltaVec/dist arrays indexed by raw pointer offset, this is expressed as
// plain Go slices keyed by PieceType, per spec.md §9's instruction to drop
// the pointer-arithmetic encoding.
type Catalogue struct {
	// Attackers[color][pieceType] lists the steps that piece can capture
	// along, from that color's point of view (DRank already sign-
	// adjusted: White's steps point toward increasing rank, Black's
	// toward decreasing rank).
	Attackers [2][32][]StepDescriptor
}

// BuildCatalogue derives a Catalogue from a Definition's piece list. Only
// capture-capable steps are retained (MoveOnly steps, e.g. a chess pawn's
// straight push, never threaten a square and are irrelevant to attack
// detection).
func BuildCatalogue(d *Definition) *Catalogue {
	c := &Catalogue{}
	for _, p := range d.Pieces {
		steps := captureSteps(p.Steps)
		c.Attackers[0][p.Type] = mirror(steps, false) // White
		c.Attackers[1][p.Type] = mirror(steps, true)  // Black

		if p.PromotesTo != NoPieceType {
			promoted, ok := d.PieceByType(p.PromotesTo)
			if ok {
				psteps := captureSteps(promoted.Steps)
				c.Attackers[0][p.PromotesTo] = mirror(psteps, false)
				c.Attackers[1][p.PromotesTo] = mirror(psteps, true)
			}
		}
	}
	return c
}

func captureSteps(steps []StepDescriptor) []StepDescriptor {
	out := make([]StepDescriptor, 0, len(steps))
	for _, s := range steps {
		if s.MoveOnly {
			continue
		}
		out = append(out, s)
	}
	return out
}

// mirror flips DRank for Black, since StepDescriptor.Dir is authored from
// White's perspective (see variant.go's Dir doc comment).
func mirror(steps []StepDescriptor, black bool) []StepDescriptor {
	if !black {
		out := make([]StepDescriptor, len(steps))
		copy(out, steps)
		return out
	}
	out := make([]StepDescriptor, len(steps))
	for i, s := range steps {
		out[i] = StepDescriptor{
			Dir:         Dir{DFile: s.Dir.DFile, DRank: -s.Dir.DRank},
			MaxRange:    s.MaxRange,
			MoveOnly:    s.MoveOnly,
			CaptureOnly: s.CaptureOnly,
		}
	}
	return out
}

// Threatens reports whether a piece of type t, of the given color, sitting
// at fileDelta/rankDelta squares away from a target, threatens that target
// — and if so, whether the path between them needs to be clear (a slide)
// or not (a leap). ok is false if no step matches.
func (c *Catalogue) Threatens(color int, t PieceType, fileDelta, rankDelta int) (needsClearPath bool, ok bool) {
	for _, s := range c.Attackers[color][t] {
		if !colinearMatch(s.Dir, fileDelta, rankDelta) {
			continue
		}
		dist := stepCount(s.Dir, fileDelta, rankDelta)
		if dist <= 0 {
			continue
		}
		if s.MaxRange != 0 && dist > s.MaxRange {
			continue
		}
		// Non-unit steps (knight-like jumps) never need ray clearance;
		// unit-vector steps at distance >= 2 do.
		return dist >= 2 && isUnitVector(s.Dir), true
	}
	return false, false
}

func colinearMatch(dir Dir, fileDelta, rankDelta int) bool {
	if dir.DFile == 0 && dir.DRank == 0 {
		return false
	}
	if !isUnitVector(dir) {
		return dir.DFile == fileDelta && dir.DRank == rankDelta
	}
	// unit vector: fileDelta/rankDelta must be a non-negative multiple of it
	if dir.DFile == 0 {
		return fileDelta == 0 && sameSign(dir.DRank, rankDelta)
	}
	if dir.DRank == 0 {
		return rankDelta == 0 && sameSign(dir.DFile, fileDelta)
	}
	if (fileDelta == 0) != (dir.DFile == 0) {
		return false
	}
	if fileDelta*dir.DRank != rankDelta*dir.DFile {
		return false
	}
	return sameSign(dir.DFile, fileDelta) && sameSign(dir.DRank, rankDelta)
}

func sameSign(a, b int) bool {
	if a == 0 {
		return b == 0
	}
	return (a > 0) == (b > 0)
}

func stepCount(dir Dir, fileDelta, rankDelta int) int {
	if !isUnitVector(dir) {
		if dir.DFile == fileDelta && dir.DRank == rankDelta {
			return 1
		}
		return 0
	}
	if dir.DFile != 0 {
		return abs(fileDelta)
	}
	return abs(rankDelta)
}

func isUnitVector(d Dir) bool {
	return abs(d.DFile) <= 1 && abs(d.DRank) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
