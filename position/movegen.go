package position

import "math/bits"

const (
	genAll int = iota
	genCaptures
	genQuiets
)

// GenerateLegalMoves returns every legal move for the side to move.
func (p *Position) GenerateLegalMoves() []Move {
	return p.generateInto(make([]Move, 0, 64), genAll)
}

// GenerateCaptures returns every legal capture (including capturing
// promotions and en-passant) for the side to move; used by quiescence
// search. Non-capturing promotions are not included.
func (p *Position) GenerateCaptures() []Move {
	return p.generateInto(make([]Move, 0, 32), genCaptures)
}

// GenerateQuiets returns every legal non-capturing move for the side to move.
func (p *Position) GenerateQuiets() []Move {
	return p.generateInto(make([]Move, 0, 64), genQuiets)
}

// pinData carries, for the side to move, whether the king is in check, in
// double check, the check-block/capture mask, and per-square pin-line masks.
type pinData struct {
	inCheck     bool
	doubleCheck bool
	checkMask   Bitboard
	pinLine     [64]Bitboard
}

// computeCheckAndPins finds the checking pieces and pin rays against the
// king of `side`, using the classic ray-from-king approach: walk each rook
// and bishop ray outward, and if the first blocker is ours and the next
// piece along the same ray is an enemy slider of the matching geometry,
// the first piece is pinned to that ray.
func (p *Position) computeCheckAndPins(side Color, occ Bitboard) pinData {
	var d pinData
	us, them := side, side.Other()

	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return d
	}

	var checkers Bitboard
	checkers |= PawnAttacks(us, ksq) & p.pieceBB[them][PieceTypePawn]
	checkers |= KnightAttacks(ksq) & p.pieceBB[them][PieceTypeKnight]
	diag := BishopAttacks(ksq, occ)
	checkers |= diag & (p.pieceBB[them][PieceTypeBishop] | p.pieceBB[them][PieceTypeQueen])
	orth := RookAttacks(ksq, occ)
	checkers |= orth & (p.pieceBB[them][PieceTypeRook] | p.pieceBB[them][PieceTypeQueen])

	d.inCheck = checkers != 0
	d.doubleCheck = d.inCheck && (checkers&(checkers-1)) != 0

	if d.inCheck && !d.doubleCheck {
		c := Square(bits.TrailingZeros64(uint64(checkers)))
		cbb := SquareBB(c)
		switch p.pieces[c].Type() {
		case PieceTypeRook:
			d.checkMask = rayBetween(rookRays, ksq, c, cbb)
		case PieceTypeBishop:
			d.checkMask = rayBetween(bishopRays, ksq, c, cbb)
		case PieceTypeQueen:
			if m := rayBetween(rookRays, ksq, c, cbb); m != 0 {
				d.checkMask = m
			} else {
				d.checkMask = rayBetween(bishopRays, ksq, c, cbb)
			}
		default:
			d.checkMask = cbb
		}
	}

	scanPins(&d, p, us, ksq, occ, rookRays, rookAscending, PieceTypeRook, PieceTypeQueen)
	scanPins(&d, p, us, ksq, occ, bishopRays, bishopAscending, PieceTypeBishop, PieceTypeQueen)

	return d
}

func rayBetween(table [64][4]Bitboard, ksq, checker Square, checkerBB Bitboard) Bitboard {
	for dir, ray := range table[ksq] {
		if ray&checkerBB != 0 {
			return ray &^ table[checker][dir]
		}
	}
	return 0
}

// scanPins walks the four rays of `table` from the king; if the nearest
// piece is ours and the next piece beyond it is an enemy slider of type
// sliderA or sliderB, the nearest piece is pinned along that ray. ascending
// gives table's per-direction index ordering (see nearestOnRay).
func scanPins(d *pinData, p *Position, us Color, ksq Square, occ Bitboard, table [64][4]Bitboard, ascending [4]bool, sliderA, sliderB PieceType) {
	them := us.Other()
	for dir, ray := range table[ksq] {
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		first := nearestOnRay(ascending[dir], blockers)
		firstBB := SquareBB(first)
		if firstBB&p.occupancy[us] == 0 {
			continue
		}
		beyond := table[first][dir] & occ
		if beyond == 0 {
			continue
		}
		next := nearestOnRay(ascending[dir], beyond)
		pc := p.pieces[next]
		if pc.Color() == them && (pc.Type() == sliderA || pc.Type() == sliderB) {
			d.pinLine[first] = table[ksq][dir] &^ table[next][dir]
		}
	}
}

// nearestOnRay returns the square of the blocker closest to the ray's
// origin. Rook rays increase index along N and E, decrease along S and W;
// bishop rays increase along NE and NW, decrease along SE and SW (see
// rookAscending/bishopAscending) — an ascending ray's nearest blocker is
// its lowest set bit, a descending ray's is its highest set bit.
func nearestOnRay(ascending bool, blockers Bitboard) Square {
	if ascending {
		return Square(bits.TrailingZeros64(uint64(blockers)))
	}
	return Square(63 - bits.LeadingZeros64(uint64(blockers)))
}

func popLSB(bb *Bitboard) Square {
	s := Square(bits.TrailingZeros64(uint64(*bb)))
	*bb &= *bb - 1
	return s
}

func (p *Position) generateInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := p.sideToMove
	them := us.Other()

	ownOcc := p.occupancy[us]
	oppOcc := p.occupancy[them]
	allOcc := ownOcc | oppOcc

	d := p.computeCheckAndPins(us, allOcc)

	moves = p.genPawnMoves(moves, us, allOcc, oppOcc, d, filter)

	if !d.doubleCheck {
		moves = p.genLeaperMoves(moves, us, PieceTypeKnight, KnightAttacks, ownOcc, oppOcc, d, filter)
		moves = p.genSliderMoves(moves, us, PieceTypeBishop, BishopAttacks, ownOcc, oppOcc, allOcc, d, filter)
		moves = p.genSliderMoves(moves, us, PieceTypeRook, RookAttacks, ownOcc, oppOcc, allOcc, d, filter)
		moves = p.genSliderMoves(moves, us, PieceTypeQueen, QueenAttacks, ownOcc, oppOcc, allOcc, d, filter)
	}

	moves = p.genKingMoves(moves, us, them, ownOcc, oppOcc, allOcc, d, filter)

	return moves
}

func (p *Position) genPawnMoves(moves []Move, us Color, allOcc, oppOcc Bitboard, d pinData, filter int) []Move {
	promoRank := 7
	pushDir := 8
	startRank := 1
	if us == Black {
		promoRank = 0
		pushDir = -8
		startRank = 6
	}

	pawns := p.pieceBB[us][PieceTypePawn]
	for pawns != 0 {
		from := popLSB(&pawns)
		pinMask := d.pinLine[from]

		allowed := func(to Square) bool {
			toBB := SquareBB(to)
			if d.doubleCheck {
				return false
			}
			if pinMask != 0 && toBB&pinMask == 0 {
				return false
			}
			if d.inCheck && toBB&d.checkMask == 0 {
				return false
			}
			return true
		}

		one := int(from) + pushDir
		if one >= 0 && one < 64 && allOcc&SquareBB(Square(one)) == 0 {
			oneSq := Square(one)
			if filter != genCaptures {
				if oneSq.Rank() == promoRank {
					if allowed(oneSq) {
						moves = appendPromotions(moves, from, oneSq, false)
					}
				} else {
					if allowed(oneSq) {
						moves = append(moves, NewMove(from, oneSq, FlagQuiet))
					}
					if from.Rank() == startRank {
						two := Square(int(from) + 2*pushDir)
						if allOcc&SquareBB(two) == 0 && allowed(two) {
							moves = append(moves, NewMove(from, two, FlagDoublePush))
						}
					}
				}
			}
		}

		caps := PawnAttacks(us, from) & oppOcc
		for caps != 0 {
			to := popLSB(&caps)
			if !allowed(to) {
				continue
			}
			if filter == genQuiets {
				continue
			}
			if to.Rank() == promoRank {
				moves = appendPromotions(moves, from, to, true)
			} else {
				moves = append(moves, NewMove(from, to, FlagCapture))
			}
		}

		if p.epSquare != NoSquare && filter != genQuiets {
			ep := p.epSquare
			if PawnAttacks(us, from)&SquareBB(ep) != 0 {
				if !d.doubleCheck && (pinMask == 0 || pinMask&SquareBB(ep) != 0) {
					capSq := ep - 8
					if us == Black {
						capSq = ep + 8
					}
					ksq := p.KingSquare(us)
					// The en-passant capture only has a chance of exposing the
					// king to a slider if the king shares a rook/bishop ray
					// with one of the two vacated squares; otherwise removing
					// them can't uncover an attack and the full rescan below
					// is skipped.
					onKingRay := ksq != NoSquare && kingRaysUnion[ksq]&(SquareBB(from)|SquareBB(capSq)) != 0
					if ksq == NoSquare || !onKingRay {
						moves = append(moves, NewMove(from, ep, FlagEnPassant))
					} else {
						occSim := allOcc &^ SquareBB(from) &^ SquareBB(capSq) | SquareBB(ep)
						if !p.IsSquareAttacked(ksq, us.Other(), occSim) {
							moves = append(moves, NewMove(from, ep, FlagEnPassant))
						}
					}
				}
			}
		}
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square, capture bool) []Move {
	flags := [4]MoveFlag{FlagPromoQueen, FlagPromoRook, FlagPromoBishop, FlagPromoKnight}
	if capture {
		flags = [4]MoveFlag{FlagPromoQueenCap, FlagPromoRookCap, FlagPromoBishopCap, FlagPromoKnightCap}
	}
	for _, f := range flags {
		moves = append(moves, NewMove(from, to, f))
	}
	return moves
}

func (p *Position) genLeaperMoves(moves []Move, us Color, pt PieceType, attacksFn func(Square) Bitboard, ownOcc, oppOcc Bitboard, d pinData, filter int) []Move {
	pieces := p.pieceBB[us][pt]
	for pieces != 0 {
		from := popLSB(&pieces)
		pinMask := d.pinLine[from]
		targets := attacksFn(from) &^ ownOcc
		if pinMask != 0 {
			targets &= pinMask
		}
		if d.inCheck {
			targets &= d.checkMask
		}
		if filter == genCaptures {
			targets &= oppOcc
		} else if filter == genQuiets {
			targets &^= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			flag := FlagQuiet
			if oppOcc&SquareBB(to) != 0 {
				flag = FlagCapture
			}
			moves = append(moves, NewMove(from, to, flag))
		}
	}
	return moves
}

func (p *Position) genSliderMoves(moves []Move, us Color, pt PieceType, attacksFn func(Square, Bitboard) Bitboard, ownOcc, oppOcc, allOcc Bitboard, d pinData, filter int) []Move {
	pieces := p.pieceBB[us][pt]
	for pieces != 0 {
		from := popLSB(&pieces)
		pinMask := d.pinLine[from]
		targets := attacksFn(from, allOcc) &^ ownOcc
		if pinMask != 0 {
			targets &= pinMask
		}
		if d.inCheck {
			targets &= d.checkMask
		}
		if filter == genCaptures {
			targets &= oppOcc
		} else if filter == genQuiets {
			targets &^= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			flag := FlagQuiet
			if oppOcc&SquareBB(to) != 0 {
				flag = FlagCapture
			}
			moves = append(moves, NewMove(from, to, flag))
		}
	}
	return moves
}

func (p *Position) genKingMoves(moves []Move, us, them Color, ownOcc, oppOcc, allOcc Bitboard, d pinData, filter int) []Move {
	kbb := p.pieceBB[us][PieceTypeKing]
	if kbb == 0 {
		return moves
	}
	from := Square(bits.TrailingZeros64(uint64(kbb)))
	targets := KingAttacks(from) &^ ownOcc
	if filter == genCaptures {
		targets &= oppOcc
	} else if filter == genQuiets {
		targets &^= oppOcc
	}
	for targets != 0 {
		to := popLSB(&targets)
		occSim := allOcc &^ SquareBB(from) &^ SquareBB(to) | SquareBB(to)
		if p.IsSquareAttacked(to, them, occSim) {
			continue
		}
		flag := FlagQuiet
		if oppOcc&SquareBB(to) != 0 {
			flag = FlagCapture
		}
		moves = append(moves, NewMove(from, to, flag))
	}

	if filter == genCaptures || d.inCheck {
		return moves
	}

	if us == White {
		if p.castling&CastleWhiteK != 0 && p.pieces[5] == NoPiece && p.pieces[6] == NoPiece && p.pieces[7] == WhiteRook &&
			!p.IsSquareAttacked(5, Black, allOcc) && !p.IsSquareAttacked(6, Black, allOcc) {
			moves = append(moves, NewMove(4, 6, FlagCastleKing))
		}
		if p.castling&CastleWhiteQ != 0 && p.pieces[1] == NoPiece && p.pieces[2] == NoPiece && p.pieces[3] == NoPiece && p.pieces[0] == WhiteRook &&
			!p.IsSquareAttacked(3, Black, allOcc) && !p.IsSquareAttacked(2, Black, allOcc) {
			moves = append(moves, NewMove(4, 2, FlagCastleQueen))
		}
	} else {
		if p.castling&CastleBlackK != 0 && p.pieces[61] == NoPiece && p.pieces[62] == NoPiece && p.pieces[63] == BlackRook &&
			!p.IsSquareAttacked(61, White, allOcc) && !p.IsSquareAttacked(62, White, allOcc) {
			moves = append(moves, NewMove(60, 62, FlagCastleKing))
		}
		if p.castling&CastleBlackQ != 0 && p.pieces[57] == NoPiece && p.pieces[58] == NoPiece && p.pieces[59] == NoPiece && p.pieces[56] == BlackRook &&
			!p.IsSquareAttacked(59, White, allOcc) && !p.IsSquareAttacked(58, White, allOcc) {
			moves = append(moves, NewMove(60, 58, FlagCastleQueen))
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has any legal move at all.
func (p *Position) HasLegalMoves() bool {
	return len(p.generateInto(make([]Move, 0, 8), genAll)) > 0
}

func (p *Position) InCheckmate() bool { return p.InCheck() && !p.HasLegalMoves() }
func (p *Position) InStalemate() bool { return !p.InCheck() && !p.HasLegalMoves() }
func (p *Position) IsDrawByFiftyMove() bool { return p.halfmove >= 100 }

// Perft counts leaf nodes at the given depth by brute-force recursive move
// generation, used to validate the move generator against known node counts.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range p.GenerateLegalMoves() {
		undo := p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// PerftDivide returns the per-root-move leaf count at depth, for diagnosing
// move generator discrepancies against a reference engine.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	for _, m := range p.GenerateLegalMoves() {
		undo := p.MakeMove(m)
		var n uint64
		if depth <= 1 {
			n = 1
		} else {
			n = Perft(p, depth-1)
		}
		result[m] = n
		p.UnmakeMove(m, undo)
	}
	return result
}
