package position

import "testing"

func TestGenerateLegalMovesInitialPosition(t *testing.T) {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := p.GenerateLegalMoves()
	if len(moves) != 20 {
		t.Errorf("initial position: got %d moves, want 20", len(moves))
	}
}

func TestPinnedPieceCannotLeaveRay(t *testing.T) {
	// White bishop on b2 is pinned to the king on a1 by the black bishop on h8.
	p, err := ParseFEN("7b/8/8/8/8/8/1B6/K6k w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.From() == MakeSquare(1, 1) && m.To().File() != m.To().Rank() {
			// any move off the a1-h8 diagonal is illegal for the pinned bishop
			t.Errorf("pinned bishop made illegal move %s", m)
		}
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// King on e1 double-checked by rook on e8 and knight on d3.
	p, err := ParseFEN("4r3/8/8/8/8/3n4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.From() != p.KingSquare(White) {
			t.Errorf("non-king move %s generated during double check", m)
		}
	}
}

func TestEnPassantDiscoveredCheckExcluded(t *testing.T) {
	// Capturing en passant would expose the white king to the black rook on
	// the fifth rank once both pawns leave it, so it must not be generated.
	p, err := ParseFEN("8/8/8/K2Pp2r/8/8/8/6k1 w - e6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("illegal (pin-breaking) en passant capture %s generated", m)
		}
	}
}

func TestCastlingBlockedByAttackedSquare(t *testing.T) {
	p, err := ParseFEN("4k3/8/8/8/8/8/8/R3K2r w Q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.IsCastle() {
			t.Errorf("castle through/into attacked square generated: %s", m)
		}
	}
}

func TestMakeUnmakeRoundTripsHash(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := p.Hash()
	for _, m := range p.GenerateLegalMoves() {
		undo := p.MakeMove(m)
		if !p.Validate() {
			t.Errorf("position invalid after making %s", m)
		}
		p.UnmakeMove(m, undo)
		if p.Hash() != before {
			t.Errorf("hash mismatch after make/unmake %s: got %d want %d", m, p.Hash(), before)
		}
		if !p.Validate() {
			t.Errorf("position invalid after unmaking %s", m)
		}
	}
}
