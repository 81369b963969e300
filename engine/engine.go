package engine

import "github.com/oliverans/goknight/position"

// Engine owns everything a running search needs: the transposition table,
// move-ordering heuristics, and game history are long-lived across moves.
// Hanging them off an explicit object instead of package-level globals
// lets a UCI loop, or a test, hold more than one independent instance.
type Engine struct {
	TT      *TranspositionTable
	order   moveOrderingState
	history *gameHistory

	nodes        uint64
	selDepth     int
	stop         bool
	tm           *TimeManager
	OnInfo       func(Info)
	rootPosition *position.Position
}

func NewEngine(hashMB int) *Engine {
	return &Engine{
		TT:      NewTranspositionTable(hashMB),
		history: newGameHistory(),
	}
}

// NewGame clears all learned state, for the UCI "ucinewgame" command.
func (e *Engine) NewGame() {
	e.TT.Clear()
	e.order.clearKillers()
	e.order.clearHistory()
}

// Stop asks any in-progress Search to return as soon as possible.
func (e *Engine) Stop() {
	e.stop = true
	if e.tm != nil {
		e.tm.Stop()
	}
}

// SetHistory replaces the game history the draw detector consults, called
// whenever the UCI "position" command supplies a fresh move list.
func (e *Engine) SetHistory(hashes []uint64, rule50 []int) {
	e.history = newGameHistory()
	for i, h := range hashes {
		e.history.Push(h, rule50[i])
	}
}
