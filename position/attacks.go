package position

import "math/bits"

// Precomputed leaper attack tables.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard
var pawnAttackTable [2][64]Bitboard

// rookRays[sq][dir] / bishopRays[sq][dir] hold the ray of squares from sq to
// the edge of the board in one direction, excluding sq itself.
// Rook directions: 0=N 1=S 2=E 3=W. Bishop directions: 0=NE 1=NW 2=SE 3=SW.
var rookRays [64][4]Bitboard
var bishopRays [64][4]Bitboard
var kingRaysUnion [64]Bitboard

// rookAscending/bishopAscending say whether square index increases as a ray
// walks away from its origin, per direction. Rook: N and E increase (a rank
// or file step forward is +8 or +1). Bishop: NE (+9) and NW (+7) increase,
// SE (-7) and SW (-9) decrease. The nearest blocker on an ascending ray is
// its lowest set bit; on a descending ray it's the highest set bit.
var rookAscending = [4]bool{true, false, true, false}
var bishopAscending = [4]bool{true, true, false, false}

// Slider blocker masks and PEXT-indexed attack tables, built once at
// package init by iterating every subset of each square's relevant blocker
// mask through a software pdep, since Go exposes no portable PEXT/PDEP
// intrinsic.
var rookBlockerMask [64]Bitboard
var bishopBlockerMask [64]Bitboard
var rookAttackTable [64][]Bitboard
var bishopAttackTable [64][]Bitboard

func init() {
	initLeaperTables()
	initRayTables()
	initSliderTables()
}

func initLeaperTables() {
	knightOffsets := [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8
		var n, k Bitboard
		for _, o := range knightOffsets {
			rf, ff := rank+o[0], file+o[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				n |= SquareBB(MakeSquare(ff, rf))
			}
		}
		for _, o := range kingOffsets {
			rf, ff := rank+o[0], file+o[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				k |= SquareBB(MakeSquare(ff, rf))
			}
		}
		knightAttacks[sq] = n
		kingAttacks[sq] = k

		if rank < 7 {
			if file > 0 {
				pawnAttackTable[White][sq] |= SquareBB(MakeSquare(file-1, rank+1))
			}
			if file < 7 {
				pawnAttackTable[White][sq] |= SquareBB(MakeSquare(file+1, rank+1))
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttackTable[Black][sq] |= SquareBB(MakeSquare(file-1, rank-1))
			}
			if file < 7 {
				pawnAttackTable[Black][sq] |= SquareBB(MakeSquare(file+1, rank-1))
			}
		}
	}
}

func initRayTables() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8

		var ray Bitboard
		for r := rank + 1; r < 8; r++ {
			ray |= SquareBB(MakeSquare(file, r))
		}
		rookRays[sq][0] = ray

		ray = 0
		for r := rank - 1; r >= 0; r-- {
			ray |= SquareBB(MakeSquare(file, r))
		}
		rookRays[sq][1] = ray

		ray = 0
		for f := file + 1; f < 8; f++ {
			ray |= SquareBB(MakeSquare(f, rank))
		}
		rookRays[sq][2] = ray

		ray = 0
		for f := file - 1; f >= 0; f-- {
			ray |= SquareBB(MakeSquare(f, rank))
		}
		rookRays[sq][3] = ray

		ray = 0
		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 {
			ray |= SquareBB(MakeSquare(f, r))
		}
		bishopRays[sq][0] = ray

		ray = 0
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 {
			ray |= SquareBB(MakeSquare(f, r))
		}
		bishopRays[sq][1] = ray

		ray = 0
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 {
			ray |= SquareBB(MakeSquare(f, r))
		}
		bishopRays[sq][2] = ray

		ray = 0
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 {
			ray |= SquareBB(MakeSquare(f, r))
		}
		bishopRays[sq][3] = ray

		kingRaysUnion[sq] = rookRays[sq][0] | rookRays[sq][1] | rookRays[sq][2] | rookRays[sq][3] |
			bishopRays[sq][0] | bishopRays[sq][1] | bishopRays[sq][2] | bishopRays[sq][3]
	}
}

func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8

		var rm Bitboard
		for r := rank + 1; r < 7; r++ {
			rm |= SquareBB(MakeSquare(file, r))
		}
		for r := rank - 1; r > 0; r-- {
			rm |= SquareBB(MakeSquare(file, r))
		}
		for f := file + 1; f < 7; f++ {
			rm |= SquareBB(MakeSquare(f, rank))
		}
		for f := file - 1; f > 0; f-- {
			rm |= SquareBB(MakeSquare(f, rank))
		}
		rookBlockerMask[sq] = rm

		var bm Bitboard
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= SquareBB(MakeSquare(f, r))
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= SquareBB(MakeSquare(f, r))
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= SquareBB(MakeSquare(f, r))
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= SquareBB(MakeSquare(f, r))
		}
		bishopBlockerMask[sq] = bm

		rBits := bits.OnesCount64(uint64(rm))
		bBits := bits.OnesCount64(uint64(bm))
		rookAttackTable[sq] = make([]Bitboard, 1<<rBits)
		bishopAttackTable[sq] = make([]Bitboard, 1<<bBits)

		for idx := 0; idx < 1<<rBits; idx++ {
			occ := pdep(uint64(idx), uint64(rm))
			rookAttackTable[sq][idx] = slideAttacksDirect(Bitboard(occ), rookRays[sq][:], rookRays, rookAscending)
		}
		for idx := 0; idx < 1<<bBits; idx++ {
			occ := pdep(uint64(idx), uint64(bm))
			bishopAttackTable[sq][idx] = slideAttacksDirect(Bitboard(occ), bishopRays[sq][:], bishopRays, bishopAscending)
		}
	}
}

// pext extracts the bits of x at the positions where mask has a 1, packing
// them into the low bits of the result, in ascending mask-bit order.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep deposits the low bits of x into the positions where mask has a 1.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// slideAttacksDirect walks each of the four supplied rays out from the
// origin square, stopping at (and including) the first blocker present in
// occ. It is used only to seed the PEXT-indexed attack tables above; move
// generation and check/pin detection read from those tables via
// RookAttacks/BishopAttacks. ascending[d] says whether square index
// increases as ray d walks away from the origin (true: nearest blocker is
// the lowest set bit; false: nearest blocker is the highest set bit).
func slideAttacksDirect(occ Bitboard, rays []Bitboard, table [64][4]Bitboard, ascending [4]bool) Bitboard {
	var attacks Bitboard
	for d, ray := range rays {
		blockers := ray & occ
		if blockers == 0 {
			attacks |= ray
			continue
		}
		var first int
		if ascending[d] {
			first = bits.TrailingZeros64(uint64(blockers))
		} else {
			first = 63 - bits.LeadingZeros64(uint64(blockers))
		}
		attacks |= ray &^ table[first][d]
	}
	return attacks
}

// RookAttacks returns the rook attack set from sq given full-board occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	idx := pext(uint64(occ), uint64(rookBlockerMask[sq]))
	return rookAttackTable[sq][idx]
}

// BishopAttacks returns the bishop attack set from sq given full-board occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	idx := pext(uint64(occ), uint64(bishopBlockerMask[sq]))
	return bishopAttackTable[sq][idx]
}

// QueenAttacks returns the queen attack set from sq given full-board occupancy.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

func KnightAttacks(sq Square) Bitboard   { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard     { return kingAttacks[sq] }
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttackTable[c][sq] }
