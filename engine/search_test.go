package engine

import (
	"testing"

	"github.com/oliverans/goknight/position"
)

func TestSearchFindsMateInOne(t *testing.T) {
	// Black king boxed into the h8 corner by its own f7/g7/h7 pawns;
	// Ra1-a8 delivers a clear back-rank checkmate.
	p, err := position.ParseFEN("7k/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	e := NewEngine(1)
	tm := NewFixedDepthTimeManager()
	best := e.Search(p, 3, tm)

	if best.String() != "a1a8" {
		t.Fatalf("expected mating move a1a8, got %s", best)
	}
}

func TestSearchReturnsLegalMoveFromStartPosition(t *testing.T) {
	p, err := position.ParseFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	e := NewEngine(1)
	tm := NewFixedDepthTimeManager()
	best := e.Search(p, 2, tm)

	legal := p.GenerateLegalMoves()
	found := false
	for _, m := range legal {
		if m == best {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("search returned a move %s that isn't legal in the start position", best)
	}
}

func TestSearchAvoidsStalemateWhenWinning(t *testing.T) {
	// White is up a queen; any reasonable search should not walk into
	// stalemating black.
	p, err := position.ParseFEN("7k/8/6QK/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	e := NewEngine(1)
	tm := NewFixedDepthTimeManager()
	best := e.Search(p, 3, tm)

	undo := p.MakeMove(best)
	stalemate := p.InStalemate()
	p.UnmakeMove(best, undo)

	if stalemate {
		t.Fatalf("search chose a stalemating move %s while ahead in material", best)
	}
}
