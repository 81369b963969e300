package engine

import "testing"

func TestGameHistoryDetectsThreefoldRepetition(t *testing.T) {
	h := newGameHistory()
	h.Reset(1, 0)  // idx0: H1, game history before the root
	h.Push(2, 1)   // idx1: H2
	h.Push(1, 2)   // idx2: H1, root (ply 0), second occurrence, still not a draw
	if h.IsDraw(0) {
		t.Fatalf("did not expect a draw after only two occurrences")
	}
	h.Push(2, 3)   // idx3: H2
	h.Push(1, 4)   // idx4: H1, third occurrence overall
	if !h.IsDraw(0) {
		t.Fatalf("expected a draw after the third occurrence of the same position")
	}
}

func TestGameHistoryFiftyMoveRule(t *testing.T) {
	h := newGameHistory()
	h.Reset(1, 0)
	h.Push(2, fiftyMoveLimit)
	if !h.IsDraw(1) {
		t.Fatalf("expected a draw once the fifty-move counter reaches its limit")
	}
}

func TestGameHistoryPreRootOccurrenceNeedsThirdRepetition(t *testing.T) {
	// H1 occurred once before the search root; a single repeat inside
	// the tree is only the second occurrence overall and must not draw.
	h := newGameHistory()
	h.Reset(1, 0) // idx0: H1, pre-root
	h.Push(2, 1)  // idx1: H2, this is the search root (ply 0 here)
	h.Push(1, 2)  // idx2: H1, ply 1 relative to root -- second occurrence overall

	if h.IsDraw(1) {
		t.Fatalf("a pre-root repetition plus one in-tree occurrence must not draw yet")
	}

	h.Push(2, 3) // idx3: H2, ply 2
	h.Push(1, 4) // idx4: H1, ply 3 -- third occurrence overall
	if !h.IsDraw(3) {
		t.Fatalf("expected a draw once the pre-root occurrence is confirmed a third time")
	}
}

func TestGameHistoryWithinTreeTwofoldDrawsImmediately(t *testing.T) {
	// A position repeating twice entirely inside the search tree (both
	// occurrences at or after the root) is treated as a draw without
	// waiting for a third occurrence: the standard graph-history-
	// interaction workaround for search-local repetitions.
	h := newGameHistory()
	h.Reset(1, 0) // idx0: H1, root (ply 0)
	h.Push(2, 1)  // idx1: H2, ply 1
	h.Push(1, 2)  // idx2: H1, ply 2 -- repeats the root position within the tree
	if !h.IsDraw(2) {
		t.Fatalf("expected an in-tree twofold repetition to draw immediately")
	}
}

func TestUpcomingRepetitionDetectsRepeatSinceRoot(t *testing.T) {
	h := newGameHistory()
	h.Reset(1, 0)
	h.Push(2, 1)
	h.Push(1, 2)
	if !h.UpcomingRepetition(2) {
		t.Fatalf("expected an upcoming repetition to be detected")
	}
}
