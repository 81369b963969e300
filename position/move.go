package position

// Move packs a chess move into 16 bits: 6 bits "from" square, 6 bits "to"
// square, 4 bits of flags describing the move's special character. The
// moved and captured piece are recovered from the position's mailbox at
// make time rather than inlined into the move itself; only the promotion
// piece type is recoverable directly from the flag nibble.
type Move uint16

const (
	moveFromShift  = 0
	moveToShift    = 6
	moveFlagsShift = 12
	moveFromMask   = 0x3F
	moveToMask     = 0x3F
	moveFlagsMask  = 0xF
)

// MoveFlag is the 4-bit move-kind tag carried in a Move's top nibble.
type MoveFlag uint8

const (
	FlagQuiet          MoveFlag = 0x0
	FlagDoublePush     MoveFlag = 0x1
	FlagCastleKing     MoveFlag = 0x2
	FlagCastleQueen    MoveFlag = 0x3
	FlagCapture        MoveFlag = 0x4
	FlagEnPassant      MoveFlag = 0x5
	FlagPromoKnight    MoveFlag = 0x8
	FlagPromoBishop    MoveFlag = 0x9
	FlagPromoRook      MoveFlag = 0xA
	FlagPromoQueen     MoveFlag = 0xB
	FlagPromoKnightCap MoveFlag = 0xC
	FlagPromoBishopCap MoveFlag = 0xD
	FlagPromoRookCap   MoveFlag = 0xE
	FlagPromoQueenCap  MoveFlag = 0xF
)

// promoBit is set on any flag that carries a promotion piece.
const promoBit = 0x8

// isCaptureFlag marks the capturing flags: plain captures, en passant and
// the promotion-captures. IsCapture looks the flag up in this table rather
// than testing a bit of the flag nibble.
var isCaptureFlag = [16]bool{
	FlagCapture: true, FlagEnPassant: true,
	FlagPromoKnightCap: true, FlagPromoBishopCap: true,
	FlagPromoRookCap: true, FlagPromoQueenCap: true,
}

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(from)<<moveFromShift | uint16(to)<<moveToShift | uint16(flag)<<moveFlagsShift)
}

func (m Move) From() Square    { return Square((m >> moveFromShift) & moveFromMask) }
func (m Move) To() Square      { return Square((m >> moveToShift) & moveToMask) }
func (m Move) Flag() MoveFlag  { return MoveFlag((m >> moveFlagsShift) & moveFlagsMask) }
func (m Move) IsCapture() bool { return isCaptureFlag[m.Flag()] }
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKing || f == FlagCastleQueen
}
func (m Move) IsDoublePush() bool { return m.Flag() == FlagDoublePush }
func (m Move) IsPromotion() bool  { return m.Flag()&promoBit != 0 }

// PromotionType returns the colorless piece type promoted to, or
// PieceTypeNone if this move is not a promotion.
func (m Move) PromotionType() PieceType {
	if !m.IsPromotion() {
		return PieceTypeNone
	}
	switch m.Flag() &^ 0x4 { // strip the capture bit shared with plain promos
	case FlagPromoKnight:
		return PieceTypeKnight
	case FlagPromoBishop:
		return PieceTypeBishop
	case FlagPromoRook:
		return PieceTypeRook
	case FlagPromoQueen:
		return PieceTypeQueen
	}
	return PieceTypeNone
}

func (m Move) IsNull() bool { return m == 0 }

// NullMove is the zero move: from a1 to a1, quiet. It is never produced by
// move generation and is used only as a "no move" sentinel.
const NullMove Move = 0

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.PromotionType() {
	case PieceTypeKnight:
		s += "n"
	case PieceTypeBishop:
		s += "b"
	case PieceTypeRook:
		s += "r"
	case PieceTypeQueen:
		s += "q"
	}
	return s
}
