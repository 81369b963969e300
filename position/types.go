// Package position implements bitboard-based chess position representation,
// legal move generation, and Zobrist hashing.
package position

// Piece identifies a piece kind and color packed into a single byte: bit 3
// marks the color, bits 0-2 carry the colorless PieceType.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless kind of a piece, used for table lookups.
type PieceType uint8

const (
	PieceTypeNone PieceType = iota
	PieceTypePawn
	PieceTypeKnight
	PieceTypeBishop
	PieceTypeRook
	PieceTypeQueen
	PieceTypeKing
)

func (p Piece) Type() PieceType { return PieceType(p & 7) }

func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

func (p Piece) IsSlider() bool {
	t := p.Type()
	return t == PieceTypeBishop || t == PieceTypeRook || t == PieceTypeQueen
}

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if c == Black {
		p |= 8
	}
	return p
}

func (p Piece) String() string {
	letters := ".PNBRQK"
	if p == NoPiece {
		return "."
	}
	l := letters[p.Type()]
	if p.Color() == Black {
		return string(l + 32)
	}
	return string(l)
}

// Color is the side to move: White or Black.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// CastleRights is a 4-bit mask of remaining castling rights.
type CastleRights uint8

const (
	CastleWhiteK CastleRights = 1 << iota
	CastleWhiteQ
	CastleBlackK
	CastleBlackQ
)

// Square is a board square index, 0 (a1) through 63 (h8), rank-major.
type Square int8

const NoSquare Square = -1

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

func MakeSquare(file, rank int) Square { return Square(rank*8 + file) }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Bitboard is a 64-bit set of squares, LSB = a1, MSB = h8.
type Bitboard uint64

func SquareBB(s Square) Bitboard { return Bitboard(1) << uint(s) }
