package engine

import "testing"

func TestNewClockTimeManagerRespectsMinimum(t *testing.T) {
	tm := NewClockTimeManager(10, 0, 0)
	if tm.softDeadline.IsZero() || tm.hardDeadline.IsZero() {
		t.Fatalf("expected both deadlines to be populated even for a tiny time budget")
	}
	if tm.hardDeadline.Before(tm.softDeadline) {
		t.Fatalf("hard deadline must never be earlier than the soft deadline")
	}
}

func TestNewClockTimeManagerHardDeadlineExtendsSoft(t *testing.T) {
	tm := NewClockTimeManager(100000, 0, 0)
	if !tm.hardDeadline.After(tm.softDeadline) {
		t.Fatalf("expected the hard deadline to give room beyond the soft budget")
	}
}

func TestUpdateStabilityResetsOnMoveChange(t *testing.T) {
	tm := NewMoveTimeManager(1000)
	tm.UpdateStability(100, 1)
	tm.UpdateStability(102, 1)
	if tm.stableIterations != 1 {
		t.Fatalf("expected stability counter to increase for a repeated move, got %d", tm.stableIterations)
	}
	tm.UpdateStability(500, 2)
	if tm.stableIterations != 0 {
		t.Fatalf("expected stability counter to reset when the best move changes, got %d", tm.stableIterations)
	}
}

func TestShouldExtendTimeOnlyExtendsOnce(t *testing.T) {
	tm := NewClockTimeManager(60000, 0, 0)
	first := tm.ShouldExtendTime()
	second := tm.ShouldExtendTime()
	if !first {
		t.Fatalf("expected the first extension request to be granted")
	}
	if second {
		t.Fatalf("expected a second extension request to be denied")
	}
}

func TestFixedDepthAndMoveTimeManagersDenyExtension(t *testing.T) {
	if NewFixedDepthTimeManager().ShouldExtendTime() {
		t.Fatalf("a fixed-depth search should never get a time extension")
	}
	if NewMoveTimeManager(500).ShouldExtendTime() {
		t.Fatalf("an exact movetime search should never get a time extension")
	}
}
