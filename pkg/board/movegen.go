package board

import "github.com/mtaktikos/dropchess/pkg/variant"

// GenerateMoves returns every pseudo-legal move for the side to move:
// board moves (including promotions), drops from hand, and castling.
// "Pseudo-legal" here means every spec.md §4.2/§4.3 placement and drop
// restriction is already enforced (file bulk caps, must-promote zones,
// same-color capture gating); the one thing left to the caller is
// rejecting moves that leave the mover's own royal piece in check, which
// pkg/search does by trial Make + IsChecked (spec.md §4.3's "evasion"
// framing, same pattern as the teacher's board.PushMove).
//
// Grounded on dropper.c's MoveGen (walk each piece's own step table rather
// than reverse-querying the attack catalogue, spec.md §4.3) and on the
// shape of board/position.go's (now removed) PseudoLegalMoves stub.
func (p *Position) GenerateMoves() []Move {
	var moves []Move
	turn := p.turn
	g := p.geom

	for from := 0; from < g.Size; from++ {
		cell := p.cells[from]
		if !cell.IsOccupied() || cell.Color() != turn {
			continue
		}
		pd, ok := p.def.PieceByType(cell.Piece())
		if !ok {
			continue
		}
		moves = p.appendPieceMoves(moves, Square(from), pd, turn)
	}

	moves = p.appendDropMoves(moves, turn)

	if p.def.AllowCastling {
		moves = p.appendCastlingMoves(moves, turn)
	}

	return moves
}

func (p *Position) appendPieceMoves(moves []Move, from Square, pd variant.PieceDef, turn Color) []Move {
	g := p.geom
	white := turn == White

	for _, s := range pd.Steps {
		dFile, dRank := s.Dir.DFile, s.Dir.DRank
		if !white {
			dRank = -dRank
		}

		maxRange := s.MaxRange
		if maxRange == 0 {
			maxRange = g.Files + g.Ranks // effectively unlimited
		}

		cur := from
		for step := 1; step <= maxRange; step++ {
			cur = g.Step(cur, dFile, dRank)
			if !g.OnBoard(cur) {
				break
			}
			target := p.cells[cur]

			if target.IsEmpty() {
				if s.CaptureOnly {
					if ep, ok := p.EnPassant(); ok && cur == ep {
						capSq := g.Step(cur, 0, -turn.Unit())
						moves = append(moves, Move{
							Type: EnPassant, From: from, To: cur, Piece: pd.Type,
							Capture: p.cells[capSq].Piece(),
						})
					}
				} else {
					moves = p.appendBoardMove(moves, from, cur, pd, turn, NoPiece, false)
				}
				continue
			}

			// occupied: capture if allowed, then this ray is blocked
			sameColor := target.Color() == turn
			if sameColor && !p.def.AllowSameColorCapture {
				break
			}
			if !s.MoveOnly {
				moves = p.appendBoardMove(moves, from, cur, pd, turn, target.Piece(), sameColor)
			}
			break
		}
	}

	if pd.DoubleStepFromHomeRank {
		moves = p.appendDoubleStep(moves, from, pd, turn)
	}

	return moves
}

func (p *Position) appendDoubleStep(moves []Move, from Square, pd variant.PieceDef, turn Color) []Move {
	g := p.geom
	file, rank := g.File(from), g.Rank(from)
	homeRank := 1
	if turn == Black {
		homeRank = g.Ranks - 2
	}
	if rank != homeRank {
		return moves
	}
	unit := turn.Unit()
	one := g.Step(from, 0, unit)
	two := g.Step(from, 0, 2*unit)
	if !g.OnBoard(two) || !p.cells[one].IsEmpty() || !p.cells[two].IsEmpty() {
		return moves
	}
	_ = file
	moves = append(moves, Move{Type: DoublePush, From: from, To: two, Piece: pd.Type})
	return moves
}

// appendBoardMove appends the non-promoting and/or promoting variants of a
// board move from->to, respecting MustPromoteZone/PromotionZone.
func (p *Position) appendBoardMove(moves []Move, from, to Square, pd variant.PieceDef, turn Color, captured variant.PieceType, sameColor bool) []Move {
	g := p.geom
	white := turn == White
	depth := variant.RankDepthFromOwnEdge(g.Ranks, g.Rank(to), white)

	mustPromote := pd.PromotesTo != variant.NoPieceType && variant.InZone(pd.MustPromoteZone, depth)
	canPromote := pd.PromotesTo != variant.NoPieceType && variant.InZone(pd.PromotionZone|pd.MustPromoteZone, depth)

	if !mustPromote {
		moves = append(moves, Move{
			Type: normalMoveType(captured, false),
			From: from, To: to, Piece: pd.Type,
			Capture: captured, CaptureSameColor: sameColor,
		})
	}
	if canPromote {
		for _, promo := range pd.PromotesToOptions {
			moves = append(moves, Move{
				Type: normalMoveType(captured, true),
				From: from, To: to, Piece: pd.Type, Promotion: promo,
				Capture: captured, CaptureSameColor: sameColor,
			})
		}
	}
	return moves
}

func normalMoveType(captured variant.PieceType, promo bool) MoveType {
	switch {
	case captured != NoPiece && promo:
		return CapturePromotion
	case captured != NoPiece:
		return Capture
	case promo:
		return Promotion
	default:
		return Normal
	}
}

// appendCastlingMoves adds king/queen-side castling for turn, only
// reachable when AllowCastling is set (crazyhouse only, spec.md §9 open
// question 1). Grounded on the orthodox chess castling rule: king and rook
// unmoved (tracked via Castling rights), squares between them empty, and
// the king does not start, pass through, or end up in check.
func (p *Position) appendCastlingMoves(moves []Move, turn Color) []Move {
	g := p.geom
	rank := 0
	if turn == Black {
		rank = g.Ranks - 1
	}
	kingFrom := g.Square(4, rank)
	if p.kingSquare[turn] != kingFrom || p.IsChecked(turn) {
		return moves
	}
	rook, _ := p.def.PieceByLetter('R')
	king, _ := p.def.PieceByLetter('K')

	tryCastle := func(right Castling, rookFile, kingToFile, rookToFile int, clear []int) []Move {
		if !p.castling.IsAllowed(right) {
			return moves
		}
		rookFrom := g.Square(rookFile, rank)
		if p.cells[rookFrom].Piece() != rook.Type || p.cells[rookFrom].Color() != turn {
			return moves
		}
		for _, f := range clear {
			if !p.cells[g.Square(f, rank)].IsEmpty() {
				return moves
			}
		}
		kingTo := g.Square(kingToFile, rank)
		passThrough := g.Square((4+kingToFile)/2, rank)
		if p.IsAttacked(passThrough, turn.Opponent()) || p.IsAttacked(kingTo, turn.Opponent()) {
			return moves
		}
		moves = append(moves, Move{
			Type: Castle, From: kingFrom, To: kingTo, Piece: king.Type,
			RookFrom: rookFrom, RookTo: g.Square(rookToFile, rank),
		})
		return moves
	}

	kingSideRight, queenSideRight := WhiteKingSideCastle, WhiteQueenSideCastle
	if turn == Black {
		kingSideRight, queenSideRight = BlackKingSideCastle, BlackQueenSideCastle
	}
	moves = tryCastle(kingSideRight, 7, 6, 5, []int{5, 6})
	moves = tryCastle(queenSideRight, 0, 2, 3, []int{1, 2, 3})
	return moves
}

// appendDropMoves adds every legal hand-to-board placement for turn.
func (p *Position) appendDropMoves(moves []Move, turn Color) []Move {
	g := p.geom
	white := turn == White

	for _, pd := range p.def.Pieces {
		if !pd.Droppable || p.hands[turn][pd.Type] <= 0 {
			continue
		}
		for f := 0; f < g.Files; f++ {
			if pd.MaxPerFile > 0 && p.FileBulk(turn, f) >= pd.MaxPerFile {
				continue
			}
			for r := 0; r < g.Ranks; r++ {
				to := g.Square(f, r)
				if !p.cells[to].IsEmpty() {
					continue
				}
				depth := variant.RankDepthFromOwnEdge(g.Ranks, r, white)
				if variant.InZone(pd.MustPromoteZone, depth) {
					continue // would have no legal move if dropped here
				}
				moves = append(moves, Move{Type: Drop, To: to, DropPiece: pd.Type})
			}
		}
	}
	return moves
}
