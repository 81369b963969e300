package engine

import (
	"math/bits"

	"github.com/oliverans/goknight/position"
)

// SeePieceValue gives the material value used by static exchange evaluation,
// indexed by position.PieceType.
var SeePieceValue = [7]int{
	position.PieceTypeNone:   0,
	position.PieceTypePawn:   100,
	position.PieceTypeKnight: 300,
	position.PieceTypeBishop: 300,
	position.PieceTypeRook:   500,
	position.PieceTypeQueen:  900,
	position.PieceTypeKing:   5000,
}

// see runs the classic minimax "swap" algorithm for static exchange
// evaluation of a capture on move.To(): after each capture the defending
// occupancy shrinks, which naturally reveals x-ray attackers behind the
// piece that just captured (a rook behind a rook, a queen behind a bishop,
// and so on) the next time attackers are recomputed.
func see(p *position.Position, m position.Move) int {
	to := m.To()
	from := m.From()

	occ := p.Occupied()
	var gain [32]int
	depth := 0

	var capturedType position.PieceType
	if m.IsEnPassant() {
		capturedType = position.PieceTypePawn
	} else {
		capturedType = p.PieceAt(to).Type()
	}
	gain[0] = SeePieceValue[capturedType]

	attackerType := p.PieceAt(from).Type()
	side := p.SideToMove().Other()

	occ &^= position.SquareBB(from)
	if m.IsEnPassant() {
		capSq := to - 8
		if p.SideToMove() == position.Black {
			capSq = to + 8
		}
		occ &^= position.SquareBB(capSq)
	}

	for {
		depth++
		gain[depth] = SeePieceValue[attackerType] - gain[depth-1]
		if maxInt(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attackerSq, pt, found := closestAttacker(p, occ, to, side)
		if !found {
			break
		}
		occ &^= position.SquareBB(attackerSq)
		attackerType = pt
		side = side.Other()
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -maxInt(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// closestAttacker finds the least valuable piece of `side` attacking `to`
// under occupancy occ, scanning by ascending piece value (MVV-LVA order
// reversed: least valuable attacker first, standard for SEE).
func closestAttacker(p *position.Position, occ position.Bitboard, to position.Square, side position.Color) (position.Square, position.PieceType, bool) {
	if bb := position.PawnAttacks(side.Other(), to) & occ & p.Pieces(side, position.PieceTypePawn); bb != 0 {
		return firstSquare(bb), position.PieceTypePawn, true
	}
	if bb := position.KnightAttacks(to) & occ & p.Pieces(side, position.PieceTypeKnight); bb != 0 {
		return firstSquare(bb), position.PieceTypeKnight, true
	}
	diag := position.BishopAttacks(to, occ) & occ
	if bb := diag & p.Pieces(side, position.PieceTypeBishop); bb != 0 {
		return firstSquare(bb), position.PieceTypeBishop, true
	}
	orth := position.RookAttacks(to, occ) & occ
	if bb := orth & p.Pieces(side, position.PieceTypeRook); bb != 0 {
		return firstSquare(bb), position.PieceTypeRook, true
	}
	if bb := (diag | orth) & p.Pieces(side, position.PieceTypeQueen); bb != 0 {
		return firstSquare(bb), position.PieceTypeQueen, true
	}
	if bb := position.KingAttacks(to) & occ & p.Pieces(side, position.PieceTypeKing); bb != 0 {
		return firstSquare(bb), position.PieceTypeKing, true
	}
	return position.NoSquare, position.PieceTypeNone, false
}

func firstSquare(bb position.Bitboard) position.Square {
	return position.Square(bits.TrailingZeros64(uint64(bb)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// seeGreaterOrEqual reports whether the static exchange value of playing m
// is at least threshold, without needing the exact score — used to prune
// clearly-losing captures in quiescence search.
func seeGreaterOrEqual(p *position.Position, m position.Move, threshold int) bool {
	return see(p, m) >= threshold
}
