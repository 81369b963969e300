package engine

import (
	"math/bits"

	"github.com/oliverans/goknight/internal/xmath"
	"github.com/oliverans/goknight/position"
)

// Score bounds. Checkmate marks the smallest magnitude a mate score can
// have; anything beyond it is a mate-in-N score, used by the transposition
// table's mate-normalization and by the search's mate-distance pruning.
const (
	Infinity  = int16(32000)
	Checkmate = int16(31000)
	DrawScore = int16(0)
)

// Game phase weights for midgame/endgame interpolation, used to taper
// piece-square and mobility scores as material comes off the board.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
)

var pieceValueMG = [7]int{position.PieceTypeKing: 0, position.PieceTypePawn: 88, position.PieceTypeKnight: 316, position.PieceTypeBishop: 331, position.PieceTypeRook: 494, position.PieceTypeQueen: 993}
var pieceValueEG = [7]int{position.PieceTypeKing: 0, position.PieceTypePawn: 111, position.PieceTypeKnight: 305, position.PieceTypeBishop: 333, position.PieceTypeRook: 535, position.PieceTypeQueen: 963}

var mobilityValueMG = [7]int{position.PieceTypeKnight: 2, position.PieceTypeBishop: 3, position.PieceTypeRook: 2, position.PieceTypeQueen: 1}
var mobilityValueEG = [7]int{position.PieceTypeKnight: 3, position.PieceTypeBishop: 2, position.PieceTypeRook: 4, position.PieceTypeQueen: 4}

// PSQT tables are indexed by (piece type, square from White's perspective,
// rank 1 at index 0). Black's lookups mirror the square vertically.
var psqtMG = [7][64]int{
	position.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-46, -41, -42, -39, -40, -12, 1, -21,
		-51, -52, -45, -45, -37, -37, -20, -30,
		-46, -40, -33, -33, -23, -26, -15, -30,
		-36, -27, -27, -11, 1, 2, -4, -21,
		-33, -6, 7, 13, 27, 57, 19, -11,
		57, 54, 55, 54, 46, 32, 4, 9,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	position.PieceTypeKnight: {
		-24, -28, -46, -30, -25, -21, -27, -40,
		-35, -32, -18, -10, -14, -12, -20, -18,
		-25, -8, -4, 6, 7, -1, -1, -17,
		-14, -1, 8, 5, 13, 10, 26, -1,
		-5, 8, 30, 35, 24, 43, 19, 22,
		-21, 12, 40, 49, 67, 64, 37, 14,
		-17, -12, 20, 33, 33, 37, -8, 3,
		-61, -6, -12, -2, 1, -6, -1, -16,
	},
	position.PieceTypeBishop: {
		4, -2, -15, -21, -18, -8, -8, 2,
		4, 8, 11, -2, 1, 5, 20, 11,
		-2, 11, 8, 13, 10, 8, 10, 13,
		-7, 10, 15, 21, 26, 11, 10, 7,
		-4, 22, 24, 49, 34, 37, 20, 6,
		4, 18, 36, 36, 47, 55, 37, 24,
		-22, 6, 3, -7, 4, 14, -3, 8,
		-27, -8, -13, -12, -8, -21, 1, -10,
	},
	position.PieceTypeRook: {
		-46, -41, -37, -34, -36, -40, -19, -42,
		-71, -45, -44, -43, -47, -37, -25, -51,
		-60, -46, -50, -44, -47, -48, -21, -38,
		-49, -45, -43, -35, -37, -34, -13, -29,
		-33, -21, -11, 6, 0, 7, 8, 2,
		-22, 10, 4, 25, 41, 38, 44, 20,
		-3, -5, 16, 28, 31, 37, 9, 30,
		23, 22, 19, 24, 23, 20, 21, 34,
	},
	position.PieceTypeQueen: {
		-6, -17, -12, -3, -6, -28, -27, -12,
		-11, -4, 2, -2, -1, 7, 8, -7,
		-8, -1, -2, -4, -4, -1, 8, 7,
		-5, -3, -2, -6, -6, 10, 7, 16,
		-11, -6, -2, -1, 12, 22, 26, 26,
		-13, -6, -1, 14, 36, 58, 71, 42,
		-11, -40, 5, 5, 20, 44, -2, 27,
		0, 16, 21, 29, 36, 38, 25, 36,
	},
	position.PieceTypeKing: {
		-4, 36, -1, -69, -23, -74, 19, 26,
		12, 0, -18, -53, -33, -39, 7, 25,
		-6, -4, -3, -11, -6, -8, 4, -15,
		-1, 8, 16, 10, 15, 12, 23, -9,
		0, 9, 16, 10, 13, 15, 15, -8,
		1, 11, 12, 9, 8, 14, 12, 0,
		-2, 6, 6, 2, 3, 4, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}

var psqtEG = [7][64]int{
	position.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-9, -8, -4, -2, 7, 2, -14, -29,
		-16, -17, -13, -12, -9, -12, -26, -29,
		-8, -10, -19, -18, -19, -17, -22, -21,
		3, -2, -5, -23, -16, -14, -10, -12,
		21, 22, 21, 22, 22, 11, 25, 17,
		75, 69, 58, 48, 43, 43, 55, 63,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	position.PieceTypeKnight: {
		-29, -60, -26, -18, -20, -28, -48, -30,
		-28, -13, -13, -6, -4, -16, -18, -31,
		-38, -3, 6, 19, 18, 5, -2, -33,
		-15, 11, 32, 36, 34, 35, 16, -9,
		-11, 14, 28, 43, 48, 36, 28, -1,
		-20, 6, 24, 26, 20, 31, 12, -11,
		-25, -12, 1, 21, 19, -3, -9, -16,
		-41, -11, 2, 0, 1, 4, -4, -17,
	},
	position.PieceTypeBishop: {
		-28, -16, -38, -14, -19, -24, -21, -20,
		-10, -20, -12, -4, -5, -18, -18, -33,
		-12, -1, 7, 10, 8, 3, -11, -11,
		-5, 6, 17, 18, 15, 14, 4, -10,
		0, 11, 12, 17, 24, 15, 19, 3,
		-5, 8, 11, 11, 13, 19, 12, 3,
		-7, 7, 10, 11, 12, 10, 12, -6,
		1, 5, 5, 8, 4, 0, 2, 2,
	},
	position.PieceTypeRook: {
		-10, 0, 5, 5, 3, 3, -1, -18,
		-8, -10, -3, -6, -5, -11, -14, -10,
		-2, 7, 8, 5, 4, 3, -1, -8,
		13, 25, 26, 22, 20, 18, 12, 6,
		25, 27, 30, 26, 23, 20, 16, 16,
		34, 24, 32, 25, 17, 24, 14, 18,
		36, 42, 40, 41, 40, 23, 28, 22,
		32, 37, 40, 37, 38, 42, 39, 37,
	},
	position.PieceTypeQueen: {
		-25, -35, -41, -48, -50, -39, -27, -9,
		-26, -24, -44, -27, -36, -62, -57, -17,
		-22, -17, 5, -10, -11, 1, -19, -14,
		-19, 5, 6, 38, 32, 30, 17, 20,
		-11, 14, 13, 42, 52, 57, 49, 33,
		-1, 3, 20, 29, 45, 56, 40, 38,
		7, 31, 25, 36, 57, 44, 28, 25,
		14, 26, 29, 38, 44, 43, 31, 33,
	},
	position.PieceTypeKing: {
		-37, -29, -20, -26, -54, -14, -35, -78,
		-15, -9, -3, 4, -2, 1, -15, -35,
		-16, -3, 7, 16, 13, 6, -8, -18,
		-16, 8, 21, 28, 25, 19, 5, -18,
		-2, 22, 29, 30, 29, 26, 20, -5,
		1, 26, 25, 19, 16, 32, 31, -1,
		-12, 14, 11, 3, 5, 10, 20, -9,
		-17, -12, -6, -1, -6, -6, -6, -14,
	},
}

var passedPawnMG = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	-11, -10, -11, -11, -1, -6, 16, 14,
	-2, -4, -17, -17, -7, -6, -5, 15,
	15, 6, -8, -5, -8, -8, -2, 6,
	34, 33, 25, 17, 11, 8, 15, 17,
	68, 52, 41, 33, 24, 24, 19, 17,
	56, 53, 55, 54, 46, 31, 4, 9,
	0, 0, 0, 0, 0, 0, 0, 0,
}
var passedPawnEG = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	18, 16, 10, 9, 4, 0, 8, 15,
	13, 22, 12, 10, 9, 8, 25, 13,
	32, 36, 29, 24, 23, 30, 44, 33,
	60, 54, 40, 41, 35, 37, 48, 45,
	102, 86, 64, 41, 33, 50, 57, 78,
	68, 66, 56, 46, 43, 42, 55, 62,
	0, 0, 0, 0, 0, 0, 0, 0,
}

const (
	bishopPairMG = 10
	bishopPairEG = 50
	isolatedPawnMG = 6
	isolatedPawnEG = 7
	doubledPawnMG  = 4
	doubledPawnEG  = 17
	backwardPawnMG = 1
	backwardPawnEG = 4
	tempoBonus     = 10
)

// King safety is a midgame-only term (the endgame king PST already rewards
// centralization once safety stops mattering). shieldPenalty punishes a
// missing pawn on one of the three files around the king within two ranks;
// the open/semi-open file penalties punish each of those three files that
// has no friendly pawn on it; ringAttackUnit scales with the number and weight of
// enemy pieces that reach a square adjacent to the king.
const (
	kingShieldPenalty       = 10
	kingOpenFilePenalty     = 22
	kingSemiOpenFilePenalty = 11
	kingRingAttackUnit      = 6
)

var kingRingAttackWeight = [7]int{
	position.PieceTypeKnight: 1,
	position.PieceTypeBishop: 1,
	position.PieceTypeRook:   2,
	position.PieceTypeQueen:  4,
}

var fileMask = [8]position.Bitboard{
	0x0101010101010101, 0x0202020202020202, 0x0404040404040404, 0x0808080808080808,
	0x1010101010101010, 0x2020202020202020, 0x4040404040404040, 0x8080808080808080,
}

var neighborFileMask = func() [8]position.Bitboard {
	var m [8]position.Bitboard
	for f := 0; f < 8; f++ {
		if f > 0 {
			m[f] |= fileMask[f-1]
		}
		if f < 7 {
			m[f] |= fileMask[f+1]
		}
	}
	return m
}()

// aheadMask[color][square] covers every square in front of square along its
// file and the two adjacent files, used for passed-pawn detection.
var aheadMask = buildAheadMasks()

func buildAheadMasks() [2][64]position.Bitboard {
	var m [2][64]position.Bitboard
	for sq := 0; sq < 64; sq++ {
		file := sq & 7
		rank := sq >> 3
		var span position.Bitboard
		for r := rank + 1; r < 8; r++ {
			for f := file - 1; f <= file+1; f++ {
				if f >= 0 && f < 8 {
					span |= position.SquareBB(position.MakeSquare(f, r))
				}
			}
		}
		m[position.White][sq] = span

		span = 0
		for r := rank - 1; r >= 0; r-- {
			for f := file - 1; f <= file+1; f++ {
				if f >= 0 && f < 8 {
					span |= position.SquareBB(position.MakeSquare(f, r))
				}
			}
		}
		m[position.Black][sq] = span
	}
	return m
}

// behindOrLevelMask[color][square] covers the two adjacent files (not
// square's own file) from the back rank up to and including square's own
// rank, used to find a pawn's potential supporters for backward-pawn
// detection: a pawn with no friendly pawn in this zone has nothing behind
// or beside it to lean on before advancing.
var behindOrLevelMask = buildBehindOrLevelMasks()

func buildBehindOrLevelMasks() [2][64]position.Bitboard {
	var m [2][64]position.Bitboard
	for sq := 0; sq < 64; sq++ {
		file := sq & 7
		rank := sq >> 3
		var span position.Bitboard
		for r := 0; r <= rank; r++ {
			for _, f := range [2]int{file - 1, file + 1} {
				if f >= 0 && f < 8 {
					span |= position.SquareBB(position.MakeSquare(f, r))
				}
			}
		}
		m[position.White][sq] = span

		span = 0
		for r := rank; r < 8; r++ {
			for _, f := range [2]int{file - 1, file + 1} {
				if f >= 0 && f < 8 {
					span |= position.SquareBB(position.MakeSquare(f, r))
				}
			}
		}
		m[position.Black][sq] = span
	}
	return m
}

func flipSquare(sq position.Square) position.Square { return sq ^ 56 }

func psqtLookup(table *[7][64]int, c position.Color, pt position.PieceType, sq position.Square) int {
	if c == position.White {
		return table[pt][sq]
	}
	return table[pt][flipSquare(sq)]
}

func phase(p *position.Position) int {
	ph := 0
	ph += bits.OnesCount64(uint64(p.Pieces(position.White, position.PieceTypeKnight)|p.Pieces(position.Black, position.PieceTypeKnight))) * knightPhase
	ph += bits.OnesCount64(uint64(p.Pieces(position.White, position.PieceTypeBishop)|p.Pieces(position.Black, position.PieceTypeBishop))) * bishopPhase
	ph += bits.OnesCount64(uint64(p.Pieces(position.White, position.PieceTypeRook)|p.Pieces(position.Black, position.PieceTypeRook))) * rookPhase
	ph += bits.OnesCount64(uint64(p.Pieces(position.White, position.PieceTypeQueen)|p.Pieces(position.Black, position.PieceTypeQueen))) * queenPhase
	if ph > totalPhase {
		ph = totalPhase
	}
	return ph
}

// Evaluate scores position p from the perspective of the side to move,
// positive meaning better for that side. Material and piece-square terms
// are tapered between midgame and endgame values by the remaining
// non-pawn material (phase); mobility, pawn structure (isolated, doubled,
// backward, and passed pawns), bishop-pair, and king safety (pawn shield,
// open files, ring-attacker pressure) cover the pieces and structures that
// most affect playing strength without pulling in a full tuned term set.
// King safety is folded into the midgame side only; the endgame king PST
// already rewards centralizing once shelter stops mattering.
func Evaluate(p *position.Position) int16 {
	mg, eg := evaluateSide(p, position.White) - evaluateSide(p, position.Black), 0
	eg = evaluateSideEG(p, position.White) - evaluateSideEG(p, position.Black)

	ph := phase(p)
	score := (mg*ph + eg*(totalPhase-ph)) / totalPhase
	score += tempoBonus

	if p.SideToMove() == position.Black {
		score = -score
	}
	return int16(xmath.Clamp(score, -int(Infinity-1), int(Infinity-1)))
}

func evaluateSide(p *position.Position, c position.Color) int {
	score := 0
	occ := p.Occupied()
	for pt := position.PieceTypePawn; pt <= position.PieceTypeKing; pt++ {
		bb := p.Pieces(c, pt)
		score += bits.OnesCount64(uint64(bb)) * pieceValueMG[pt]
		for bb != 0 {
			sq := position.Square(bits.TrailingZeros64(uint64(bb)))
			bb &^= position.SquareBB(sq)
			score += psqtLookup(&psqtMG, c, pt, sq)
			score += mobilityMG(p, c, pt, sq, occ)
		}
	}
	score += bishopPairBonus(p, c, bishopPairMG)
	score += pawnStructure(p, c, isolatedPawnMG, doubledPawnMG, backwardPawnMG, passedPawnMG)
	score += kingSafety(p, c)
	return score
}

func evaluateSideEG(p *position.Position, c position.Color) int {
	score := 0
	occ := p.Occupied()
	for pt := position.PieceTypePawn; pt <= position.PieceTypeKing; pt++ {
		bb := p.Pieces(c, pt)
		score += bits.OnesCount64(uint64(bb)) * pieceValueEG[pt]
		for bb != 0 {
			sq := position.Square(bits.TrailingZeros64(uint64(bb)))
			bb &^= position.SquareBB(sq)
			score += psqtLookup(&psqtEG, c, pt, sq)
			score += mobilityEG(p, c, pt, sq, occ)
		}
	}
	score += bishopPairBonus(p, c, bishopPairEG)
	score += pawnStructure(p, c, isolatedPawnEG, doubledPawnEG, backwardPawnEG, passedPawnEG)
	return score
}

// kingSafety is a midgame-only pressure term: pawn shield gaps, open or
// semi-open files on or beside the king's file, and enemy pieces bearing on the
// squares immediately around it.
func kingSafety(p *position.Position, c position.Color) int {
	them := c.Other()
	ksq := p.KingSquare(c)
	if ksq == position.NoSquare {
		return 0
	}

	file := int(ksq) & 7
	rank := int(ksq) >> 3
	ownPawns := p.Pieces(c, position.PieceTypePawn)
	enemyPawns := p.Pieces(them, position.PieceTypePawn)

	shieldRank1, shieldRank2 := rank+1, rank+2
	if c == position.Black {
		shieldRank1, shieldRank2 = rank-1, rank-2
	}

	score := 0
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		hasNear := shieldRank1 >= 0 && shieldRank1 < 8 && ownPawns&position.SquareBB(position.MakeSquare(f, shieldRank1)) != 0
		hasFar := shieldRank2 >= 0 && shieldRank2 < 8 && ownPawns&position.SquareBB(position.MakeSquare(f, shieldRank2)) != 0
		if !hasNear && !hasFar {
			score -= kingShieldPenalty
		}

		onFile := fileMask[f]
		switch {
		case ownPawns&onFile == 0 && enemyPawns&onFile == 0:
			score -= kingOpenFilePenalty
		case ownPawns&onFile == 0:
			score -= kingSemiOpenFilePenalty
		}
	}

	ring := position.KingAttacks(ksq)
	occ := p.Occupied()
	attackUnits := 0

	knights := p.Pieces(them, position.PieceTypeKnight)
	for knights != 0 {
		sq := position.Square(bits.TrailingZeros64(uint64(knights)))
		knights &^= position.SquareBB(sq)
		if position.KnightAttacks(sq)&ring != 0 {
			attackUnits += kingRingAttackWeight[position.PieceTypeKnight]
		}
	}
	bishops := p.Pieces(them, position.PieceTypeBishop)
	for bishops != 0 {
		sq := position.Square(bits.TrailingZeros64(uint64(bishops)))
		bishops &^= position.SquareBB(sq)
		if position.BishopAttacks(sq, occ)&ring != 0 {
			attackUnits += kingRingAttackWeight[position.PieceTypeBishop]
		}
	}
	rooks := p.Pieces(them, position.PieceTypeRook)
	for rooks != 0 {
		sq := position.Square(bits.TrailingZeros64(uint64(rooks)))
		rooks &^= position.SquareBB(sq)
		if position.RookAttacks(sq, occ)&ring != 0 {
			attackUnits += kingRingAttackWeight[position.PieceTypeRook]
		}
	}
	queens := p.Pieces(them, position.PieceTypeQueen)
	for queens != 0 {
		sq := position.Square(bits.TrailingZeros64(uint64(queens)))
		queens &^= position.SquareBB(sq)
		if position.QueenAttacks(sq, occ)&ring != 0 {
			attackUnits += kingRingAttackWeight[position.PieceTypeQueen]
		}
	}

	score -= kingRingAttackUnit * attackUnits
	return score
}

func mobilityMG(p *position.Position, c position.Color, pt position.PieceType, sq position.Square, occ position.Bitboard) int {
	return pieceMobility(p, c, pt, sq, occ) * mobilityValueMG[pt]
}

func mobilityEG(p *position.Position, c position.Color, pt position.PieceType, sq position.Square, occ position.Bitboard) int {
	return pieceMobility(p, c, pt, sq, occ) * mobilityValueEG[pt]
}

func pieceMobility(p *position.Position, c position.Color, pt position.PieceType, sq position.Square, occ position.Bitboard) int {
	var attacks position.Bitboard
	switch pt {
	case position.PieceTypeKnight:
		attacks = position.KnightAttacks(sq)
	case position.PieceTypeBishop:
		attacks = position.BishopAttacks(sq, occ)
	case position.PieceTypeRook:
		attacks = position.RookAttacks(sq, occ)
	case position.PieceTypeQueen:
		attacks = position.QueenAttacks(sq, occ)
	default:
		return 0
	}
	return bits.OnesCount64(uint64(attacks &^ p.OccupiedBy(c)))
}

func bishopPairBonus(p *position.Position, c position.Color, bonus int) int {
	if bits.OnesCount64(uint64(p.Pieces(c, position.PieceTypeBishop))) >= 2 {
		return bonus
	}
	return 0
}

func pawnStructure(p *position.Position, c position.Color, isolated, doubled, backward int, passedTable [64]int) int {
	score := 0
	pawns := p.Pieces(c, position.PieceTypePawn)
	enemyPawns := p.Pieces(c.Other(), position.PieceTypePawn)
	for f := 0; f < 8; f++ {
		count := bits.OnesCount64(uint64(pawns & fileMask[f]))
		if count == 0 {
			continue
		}
		if count > 1 {
			score -= doubled * (count - 1)
		}
		if pawns&neighborFileMask[f] == 0 {
			score -= isolated
		}
	}
	bb := pawns
	for bb != 0 {
		sq := position.Square(bits.TrailingZeros64(uint64(bb)))
		bb &^= position.SquareBB(sq)
		if enemyPawns&aheadMask[c][sq]&(fileMask[sq&7]|neighborFileMask[sq&7]) == 0 {
			score += psqtLookup2(passedTable, c, sq)
		}
		if isBackwardPawn(c, sq, pawns, enemyPawns) {
			score -= backward
		}
	}
	return score
}

// isBackwardPawn reports whether the pawn at sq has no friendly pawn beside
// or behind it on an adjacent file to support its advance, and its stop
// square is already covered by an enemy pawn.
func isBackwardPawn(c position.Color, sq position.Square, pawns, enemyPawns position.Bitboard) bool {
	if pawns&behindOrLevelMask[c][sq] != 0 {
		return false
	}

	file := int(sq) & 7
	rank := int(sq) >> 3
	var stopSq position.Square
	switch {
	case c == position.White && rank < 7:
		stopSq = position.MakeSquare(file, rank+1)
	case c == position.Black && rank > 0:
		stopSq = position.MakeSquare(file, rank-1)
	default:
		return false
	}
	return position.PawnAttacks(c, stopSq)&enemyPawns != 0
}

func psqtLookup2(table [64]int, c position.Color, sq position.Square) int {
	if c == position.White {
		return table[sq]
	}
	return table[flipSquare(sq)]
}
