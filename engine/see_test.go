package engine

import (
	"testing"

	"github.com/oliverans/goknight/position"
)

func TestSEEEqualTradeRecapturedByQueen(t *testing.T) {
	p, err := position.ParseFEN("6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move, err := p.ParseUCIMove("c4e6")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}

	score := see(p, move)
	if score != 0 {
		t.Fatalf("expected SEE score 0, got %d", score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	p, err := position.ParseFEN("8/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move, err := p.ParseUCIMove("e5d6")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	if !move.IsEnPassant() {
		t.Fatalf("expected en passant flag to be set on %s", move)
	}

	score := see(p, move)
	if score != SeePieceValue[position.PieceTypePawn] {
		t.Fatalf("expected SEE score %d, got %d", SeePieceValue[position.PieceTypePawn], score)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	// White queen takes a pawn defended by a rook: loses the queen for a pawn.
	p, err := position.ParseFEN("3r2k1/8/8/3p4/8/8/3Q4/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	move, err := p.ParseUCIMove("d2d5")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	if score := see(p, move); score >= 0 {
		t.Fatalf("expected a losing SEE score, got %d", score)
	}
}
