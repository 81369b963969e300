package position

import (
	"errors"
	"strconv"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

func charFromPiece(p Piece) byte {
	letters := "PNBRQK"
	if p == NoPiece {
		return '?'
	}
	c := letters[p.Type()-1]
	if p.Color() == Black {
		c += 32
	}
	return c
}

// ParseFEN parses a FEN string into a new Position, or returns an error
// describing the first malformed field encountered.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("position: FEN has too few fields")
	}

	p := &Position{epSquare: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("position: FEN piece placement must have 8 ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			default:
				pc := pieceFromChar(ch)
				if pc == NoPiece {
					return nil, errors.New("position: unrecognized piece character in FEN")
				}
				if file >= 8 {
					return nil, errors.New("position: too many squares in FEN rank")
				}
				p.addPiece(MakeSquare(file, rank), pc)
				file++
			}
		}
		if file != 8 {
			return nil, errors.New("position: FEN rank does not sum to 8 files")
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.hash ^= zobristSide
	default:
		return nil, errors.New("position: side to move must be 'w' or 'b'")
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling |= CastleWhiteK
			case 'Q':
				p.castling |= CastleWhiteQ
			case 'k':
				p.castling |= CastleBlackK
			case 'q':
				p.castling |= CastleBlackQ
			default:
				return nil, errors.New("position: invalid castling rights character in FEN")
			}
		}
	}
	p.hash ^= zobristCastle[p.castling]

	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, errors.New("position: invalid en passant square in FEN")
		}
		file, rank := fields[3][0], fields[3][1]
		if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
			return nil, errors.New("position: en passant square out of range in FEN")
		}
		p.epSquare = MakeSquare(int(file-'a'), int(rank-'1'))
		p.hash ^= zobristEP[p.epSquare.File()]
	}

	p.halfmove = 0
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.New("position: halfmove clock is not a number in FEN")
		}
		p.halfmove = n
	}
	p.fullmove = 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, errors.New("position: fullmove number is not a number in FEN")
		}
		p.fullmove = n
	}

	return p, nil
}

// String renders the position as a FEN string.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.pieces[MakeSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&CastleWhiteK != 0 {
			sb.WriteByte('K')
		}
		if p.castling&CastleWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&CastleBlackK != 0 {
			sb.WriteByte('k')
		}
		if p.castling&CastleBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}

// ParseUCIMove converts a UCI move string ("e2e4", "e7e8q") into a Move by
// matching it against the position's current legal moves.
func (p *Position) ParseUCIMove(s string) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return 0, errors.New("position: malformed UCI move string")
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return 0, err
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return 0, err
	}
	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = PieceTypeQueen
		case 'r':
			promo = PieceTypeRook
		case 'b':
			promo = PieceTypeBishop
		case 'n':
			promo = PieceTypeKnight
		default:
			return 0, errors.New("position: invalid promotion character in UCI move")
		}
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.From() == from && m.To() == to && m.PromotionType() == promo {
			return m, nil
		}
	}
	return 0, errors.New("position: move is not legal in the current position")
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errors.New("position: invalid square notation")
	}
	return MakeSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
