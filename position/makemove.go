package position

// UndoInfo carries exactly the state a MakeMove call cannot cheaply
// recompute on unmake: what was captured, and the previous castling/en-passant/
// clock/hash values. Move generation here is legal-by-construction (pins and
// checks are filtered during generation, see movegen.go), so MakeMove never
// rejects a move — it only needs to be reversible.
type UndoInfo struct {
	captured    Piece
	captureSq   Square
	castling    CastleRights
	epSquare    Square
	halfmove    int
	fullmove    int
	hash        uint64
	rookFrom    Square
	rookTo      Square
}

// NullUndo restores the position after MakeNullMove.
type NullUndo struct {
	epSquare Square
	halfmove int
	fullmove int
	hash     uint64
	side     Color
}

var castleRookMove = map[Square][2]Square{
	6:  {7, 5},   // white king-side: h1 -> f1
	2:  {0, 3},   // white queen-side: a1 -> d1
	62: {63, 61}, // black king-side: h8 -> f8
	58: {56, 59}, // black queen-side: a8 -> d8
}

// MakeMove applies a legal move to the position, returning the information
// needed to unmake it.
func (p *Position) MakeMove(m Move) UndoInfo {
	from, to, flag := m.From(), m.To(), m.Flag()
	moved := p.pieces[from]

	undo := UndoInfo{
		castling:  p.castling,
		epSquare:  p.epSquare,
		halfmove:  p.halfmove,
		fullmove:  p.fullmove,
		hash:      p.hash,
		captureSq: NoSquare,
		rookFrom:  NoSquare,
		rookTo:    NoSquare,
	}

	if p.epSquare != NoSquare {
		p.hash ^= zobristEP[p.epSquare.File()]
	}
	p.epSquare = NoSquare

	us := p.sideToMove

	switch flag {
	case FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		undo.captured = p.removePiece(capSq)
		undo.captureSq = capSq
	default:
		if m.IsCapture() {
			undo.captured = p.removePiece(to)
			undo.captureSq = to
		}
	}

	p.removePiece(from)
	if pt := m.PromotionType(); pt != PieceTypeNone {
		p.addPiece(to, PieceFromType(us, pt))
	} else {
		p.addPiece(to, moved)
	}

	if m.IsCastle() {
		rt, ok := castleRookMove[to]
		if ok {
			rook := p.removePiece(rt[0])
			p.addPiece(rt[1], rook)
			undo.rookFrom, undo.rookTo = rt[0], rt[1]
		}
	}

	newCR := p.castling
	switch moved {
	case WhiteKing:
		newCR &^= CastleWhiteK | CastleWhiteQ
	case BlackKing:
		newCR &^= CastleBlackK | CastleBlackQ
	}
	switch from {
	case 0:
		newCR &^= CastleWhiteQ
	case 7:
		newCR &^= CastleWhiteK
	case 56:
		newCR &^= CastleBlackQ
	case 63:
		newCR &^= CastleBlackK
	}
	switch to {
	case 0:
		newCR &^= CastleWhiteQ
	case 7:
		newCR &^= CastleWhiteK
	case 56:
		newCR &^= CastleBlackQ
	case 63:
		newCR &^= CastleBlackK
	}
	if newCR != p.castling {
		p.hash ^= zobristCastle[p.castling]
		p.hash ^= zobristCastle[newCR]
		p.castling = newCR
	}

	if m.IsDoublePush() {
		var ep Square
		if us == White {
			ep = from + 8
		} else {
			ep = from - 8
		}
		p.epSquare = ep
		p.hash ^= zobristEP[ep.File()]
	}

	if moved.Type() == PieceTypePawn || undo.captured != NoPiece {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if us == Black {
		p.fullmove++
	}

	p.sideToMove = us.Other()
	p.hash ^= zobristSide

	return undo
}

// UnmakeMove reverses a move previously applied by MakeMove, given the
// UndoInfo it returned.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.sideToMove = p.sideToMove.Other()
	us := p.sideToMove
	from, to := m.From(), m.To()

	moved := p.pieces[to]
	if pt := m.PromotionType(); pt != PieceTypeNone {
		p.removePiece(to)
		p.addPiece(from, PieceFromType(us, PieceTypePawn))
	} else {
		p.removePiece(to)
		p.addPiece(from, moved)
	}

	if m.IsCastle() && undo.rookFrom != NoSquare {
		rook := p.removePiece(undo.rookTo)
		p.addPiece(undo.rookFrom, rook)
	}

	if undo.captured != NoPiece {
		p.addPiece(undo.captureSq, undo.captured)
	}

	p.castling = undo.castling
	p.epSquare = undo.epSquare
	p.halfmove = undo.halfmove
	p.fullmove = undo.fullmove
	p.hash = undo.hash
}

// MakeNullMove passes the turn without moving a piece, for null-move pruning.
func (p *Position) MakeNullMove() NullUndo {
	undo := NullUndo{epSquare: p.epSquare, halfmove: p.halfmove, fullmove: p.fullmove, hash: p.hash, side: p.sideToMove}
	if p.epSquare != NoSquare {
		p.hash ^= zobristEP[p.epSquare.File()]
	}
	p.epSquare = NoSquare
	p.halfmove++
	if p.sideToMove == Black {
		p.fullmove++
	}
	p.sideToMove = p.sideToMove.Other()
	p.hash ^= zobristSide
	return undo
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove(undo NullUndo) {
	p.epSquare = undo.epSquare
	p.halfmove = undo.halfmove
	p.fullmove = undo.fullmove
	p.sideToMove = undo.side
	p.hash = undo.hash
}
