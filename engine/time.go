package engine

import (
	"time"

	"github.com/oliverans/goknight/internal/xmath"
)

// TimeManager computes and monitors the per-move search deadline: a soft
// budget derived from remaining clock time, a moves-left estimate, and
// increment, plus a hard ceiling that is never crossed regardless of
// stability extensions.
type TimeManager struct {
	remaining     int
	increment     int
	softDeadline  time.Time
	hardDeadline  time.Time
	fixedDepth    bool
	movetime      bool
	stopped       bool

	stableIterations int
	lastBestMove     uint32
	lastScore        int16
	extended         bool
}

const (
	overheadMs   = 30
	minMoveMs    = 5
	maxFraction  = 0.7
	panicThresholdMs = 1000
	panicFraction    = 0.90
)

// NewFixedDepthTimeManager builds a manager with no clock, used when the
// UCI client asked for a fixed search depth or node count instead of a
// time budget.
func NewFixedDepthTimeManager() *TimeManager {
	return &TimeManager{fixedDepth: true}
}

// NewMoveTimeManager gives the search exactly ms milliseconds, no more,
// no less (the "movetime" UCI go subcommand).
func NewMoveTimeManager(ms int) *TimeManager {
	now := time.Now()
	return &TimeManager{
		movetime:     true,
		softDeadline: now.Add(time.Duration(ms) * time.Millisecond),
		hardDeadline: now.Add(time.Duration(ms) * time.Millisecond),
	}
}

// NewClockTimeManager estimates a soft budget from remaining time,
// increment, and an estimate of moves left derived from the game phase
// (0..totalPhase, 0 = endgame, totalPhase = full material on board).
// The moves-left estimate is used only when there is an increment; with
// no increment the budget is a flat 1/40 of the remaining time.
func NewClockTimeManager(remainingMs, incrementMs, piecePhase int) *TimeManager {
	movesLeft := estimateMovesRemaining(piecePhase)

	var moveTime int
	if incrementMs > 0 {
		if remainingMs < panicThresholdMs {
			moveTime = int(float64(incrementMs) * panicFraction)
		} else {
			moveTime = remainingMs/movesLeft + incrementMs
		}
	} else {
		moveTime = remainingMs / 40
	}

	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}
	if cap := int(float64(remainingMs) * maxFraction); moveTime > cap {
		moveTime = cap
	}
	if moveTime > remainingMs-overheadMs {
		moveTime = remainingMs - overheadMs
	}
	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}

	now := time.Now()
	tm := &TimeManager{
		remaining: remainingMs,
		increment: incrementMs,
	}
	tm.softDeadline = now.Add(time.Duration(moveTime) * time.Millisecond)
	// The hard ceiling allows a stability extension to run up to three
	// times the soft budget, but never beyond what's safe for the clock.
	hardMs := moveTime * 3
	if hardMs > remainingMs-overheadMs {
		hardMs = remainingMs - overheadMs
	}
	if hardMs < moveTime {
		hardMs = moveTime
	}
	tm.hardDeadline = now.Add(time.Duration(hardMs) * time.Millisecond)
	return tm
}

func estimateMovesRemaining(piecePhase int) int {
	if piecePhase > totalPhase {
		piecePhase = totalPhase
	}
	return (piecePhase*25)/totalPhase + 20
}

// SoftTimeExceeded reports whether the search has run past its normal
// budget; the search may keep going if ShouldExtendTime allows it.
func (tm *TimeManager) SoftTimeExceeded() bool {
	if tm.fixedDepth {
		return false
	}
	return time.Now().After(tm.softDeadline)
}

// HardTimeExceeded reports whether the absolute deadline has passed; the
// search must stop immediately regardless of stability.
func (tm *TimeManager) HardTimeExceeded() bool {
	if tm.fixedDepth {
		return tm.stopped
	}
	return tm.stopped || time.Now().After(tm.hardDeadline)
}

// UpdateStability records the best move and score of the just-completed
// iteration. Score swings or a changed best move reset the stability
// counter; a search that keeps reproducing the same move at a steady
// score is considered stable and won't get a time extension.
func (tm *TimeManager) UpdateStability(score int16, bestMove uint32) {
	const scoreSwingThreshold = 30
	if bestMove == tm.lastBestMove && xmath.Abs(score-tm.lastScore) < scoreSwingThreshold {
		tm.stableIterations++
	} else {
		tm.stableIterations = 0
	}
	tm.lastBestMove = bestMove
	tm.lastScore = score
}

// ShouldExtendTime reports whether the search should be allowed to run
// past its soft deadline: only once, and only when the last iteration's
// result still looked unstable.
func (tm *TimeManager) ShouldExtendTime() bool {
	if tm.movetime || tm.fixedDepth {
		return false
	}
	if tm.extended {
		return false
	}
	if tm.stableIterations >= 3 {
		return false
	}
	if time.Now().After(tm.hardDeadline) {
		return false
	}
	tm.extended = true
	return true
}

// Stop forces HardTimeExceeded to report true, for the UCI "stop" command.
func (tm *TimeManager) Stop() { tm.stopped = true }

