package engine

import (
	"testing"

	"github.com/oliverans/goknight/position"
)

func TestEvaluateStartPositionIsSymmetric(t *testing.T) {
	p, err := position.ParseFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	score := Evaluate(p)
	if score != tempoBonus && score != 0 {
		t.Fatalf("expected the balanced start position to score near zero (plus tempo), got %d", score)
	}
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	p, err := position.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	score := Evaluate(p)
	if score <= 0 {
		t.Fatalf("expected white (up a rook) to have a positive score, got %d", score)
	}
}

func TestEvaluateSideToMoveFlip(t *testing.T) {
	white, err := position.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	black, err := position.ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if Evaluate(white) <= 0 {
		t.Fatalf("white to move should see a positive score when up material")
	}
	if Evaluate(black) >= 0 {
		t.Fatalf("black to move should see the same material deficit as a negative score")
	}
}

func TestBishopPairBonusAppliesOnlyWithTwoBishops(t *testing.T) {
	onePair, err := position.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if bishopPairBonus(onePair, position.White, bishopPairMG) != bishopPairMG {
		t.Fatalf("expected the bishop pair bonus with two bishops on the board")
	}

	single, err := position.ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if bishopPairBonus(single, position.White, bishopPairMG) != 0 {
		t.Fatalf("expected no bishop pair bonus with a single bishop")
	}
}
