package engine

import (
	"testing"

	"github.com/oliverans/goknight/position"
)

func TestOrderMovesPutsPVMoveFirst(t *testing.T) {
	p, err := position.ParseFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	moves := p.GenerateLegalMoves()
	pv := moves[len(moves)-1]

	var ost moveOrderingState
	scored := orderMoves(p, moves, &ost, pv, position.NullMove, 0)
	if scored[0].move != pv {
		t.Fatalf("expected PV move %s first, got %s", pv, scored[0].move)
	}
}

func TestOrderMovesRanksGoodCapturesAboveQuiets(t *testing.T) {
	p, err := position.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	moves := p.GenerateLegalMoves()
	var ost moveOrderingState
	scored := orderMoves(p, moves, &ost, position.NullMove, position.NullMove, 0)

	var captureRank, quietRank = -1, -1
	for i, sm := range scored {
		if sm.move.IsCapture() && captureRank == -1 {
			captureRank = i
		}
		if !sm.move.IsCapture() && quietRank == -1 {
			quietRank = i
		}
	}
	if captureRank == -1 {
		t.Fatalf("expected at least one capture in the move list")
	}
	if quietRank != -1 && captureRank > quietRank {
		t.Fatalf("expected the good capture (rank %d) to sort before a quiet move (rank %d)", captureRank, quietRank)
	}
}

func TestInsertKillerRecordsMoveAtPly(t *testing.T) {
	var ost moveOrderingState
	m1 := position.NewMove(position.MakeSquare(4, 1), position.MakeSquare(4, 3), position.FlagDoublePush)
	m2 := position.NewMove(position.MakeSquare(1, 0), position.MakeSquare(2, 2), position.FlagQuiet)

	ost.insertKiller(m1, 3)
	if !ost.isKiller(m1, 3) {
		t.Fatalf("expected m1 to be recorded as a killer at ply 3")
	}
	if ost.isKiller(m2, 3) {
		t.Fatalf("did not expect m2 to be a killer")
	}
}
