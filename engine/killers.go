package engine

import "github.com/oliverans/goknight/position"

// MaxPly bounds the killer/PV table depth.
const MaxPly = 128

// moveOrderingState is the search's per-Engine mutable state for move
// ordering: killer moves, counter moves, and the history heuristic table.
// Hanging these off the search object rather than package-level vars means
// multiple Engine instances (e.g. concurrent test cases) don't share state.
type moveOrderingState struct {
	killers [MaxPly + 1][2]position.Move
	counter [2][64][64]position.Move
	history [2][64][64]int
}

const historyMaxVal = 2000

func (s *moveOrderingState) insertKiller(m position.Move, ply int) {
	if ply < 0 || ply > MaxPly {
		return
	}
	if m != s.killers[ply][0] {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

func (s *moveOrderingState) isKiller(m position.Move, ply int) bool {
	if ply < 0 || ply > MaxPly {
		return false
	}
	return m == s.killers[ply][0] || m == s.killers[ply][1]
}

func (s *moveOrderingState) clearKillers() {
	for i := range s.killers {
		s.killers[i][0] = position.NullMove
		s.killers[i][1] = position.NullMove
	}
}

func (s *moveOrderingState) storeCounter(side position.Color, prev, m position.Move) {
	s.counter[side][prev.From()][prev.To()] = m
}

func (s *moveOrderingState) counterMove(side position.Color, prev position.Move) position.Move {
	return s.counter[side][prev.From()][prev.To()]
}

func (s *moveOrderingState) incrementHistory(side position.Color, m position.Move, depth int) {
	h := &s.history[side][m.From()][m.To()]
	*h += depth * depth
	if *h >= historyMaxVal {
		s.ageHistory(side)
	}
}

func (s *moveOrderingState) decrementHistory(side position.Color, m position.Move) {
	h := &s.history[side][m.From()][m.To()]
	if *h > 0 {
		*h /= 4
	}
}

func (s *moveOrderingState) ageHistory(side position.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			s.history[side][from][to] /= 8
		}
	}
}

func (s *moveOrderingState) historyScore(side position.Color, m position.Move) int {
	return s.history[side][m.From()][m.To()]
}

func (s *moveOrderingState) clearHistory() {
	s.history = [2][64][64]int{}
	s.counter = [2][64][64]position.Move{}
}
