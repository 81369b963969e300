package engine

import (
	"testing"

	"github.com/oliverans/goknight/position"
)

func TestTranspositionTableStoreAndProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xdeadbeefcafef00d)
	pos, err := position.ParseFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse start FEN: %v", err)
	}
	legal := pos.GenerateLegalMoves()[0]

	tt.Store(hash, 6, 0, legal, 120, BoundExact)

	usable, score, entry := tt.Probe(hash, 4, -1000, 1000, 0, position.NullMove)
	if !usable {
		t.Fatalf("expected a usable entry at shallower depth")
	}
	if score != 120 {
		t.Fatalf("expected score 120, got %d", score)
	}
	if entry.Move != legal {
		t.Fatalf("expected stored move %s, got %s", legal, entry.Move)
	}
}

func TestTranspositionTableProbeMissesDeeperRequest(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(12345)
	tt.Store(hash, 3, 0, position.NullMove, 50, BoundExact)

	usable, _, _ := tt.Probe(hash, 10, -1000, 1000, 0, position.NullMove)
	if usable {
		t.Fatalf("expected probe to miss when stored depth is shallower than requested")
	}
}

func TestTranspositionTableMateScoreNormalization(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(999)
	mateScore := int16(Checkmate + 5)

	tt.Store(hash, 4, 2, position.NullMove, mateScore, BoundExact)

	usable, score, _ := tt.Probe(hash, 4, -int16(Infinity), int16(Infinity), 2, position.NullMove)
	if !usable {
		t.Fatalf("expected usable mate entry")
	}
	if score != mateScore {
		t.Fatalf("expected mate score to normalize back to %d, got %d", mateScore, score)
	}
}

func TestTranspositionTableClearRemovesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(1, 5, 0, position.NullMove, 10, BoundExact)
	tt.Clear()
	if _, found := tt.Get(1); found {
		t.Fatalf("expected entry to be gone after Clear")
	}
}

func TestTranspositionTableStalerEntryReplacedFirst(t *testing.T) {
	tt := NewTranspositionTable(1)

	// Fill a cluster with four deep entries from the current generation so
	// none of them are eligible for the empty-slot fast path.
	var base uint64 = 7
	cluster := tt.cluster(base)
	for i := 1; i < len(cluster); i++ {
		filler := base + uint64(i)*tt.clusterCount
		tt.Store(filler, 10, 0, position.NullMove, 0, BoundExact)
	}
	tt.Store(base, 10, 0, position.NullMove, 0, BoundExact)

	// Age the table forward several generations, then store a shallow entry
	// that should still evict the now-stale depth-10 slots ahead of any
	// current-generation entry.
	for i := 0; i < 3; i++ {
		tt.NewSearch()
	}
	newHash := base + uint64(len(cluster))*tt.clusterCount
	tt.Store(newHash, 1, 0, position.NullMove, 42, BoundExact)

	if _, found := tt.Get(newHash); !found {
		t.Fatalf("expected shallow current-generation entry to have replaced a stale deep one")
	}
}
