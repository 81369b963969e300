package engine

import (
	"sort"

	"github.com/oliverans/goknight/position"
)

// mvvLva[victim][attacker] scores captures by Most Valuable Victim, Least
// Valuable Aggressor (index 0 unused, PieceTypeNone is never a victim).
var mvvLva = [7][7]int{
	{},
	{0, 14, 13, 12, 11, 10, 0}, // victim pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim knight
	{0, 34, 33, 32, 31, 30, 0}, // victim bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim rook
	{0, 54, 53, 52, 51, 50, 0}, // victim queen
	{},
}

// Move ordering priority bands: PV first, then promotions, then good
// captures (SEE >= 0), then killers, then quiet moves by history score,
// then finally captures SEE judges as losing. orderMoves scores every move
// against these bands up front and sorts once, rather than picking moves
// one stage at a time.
const (
	scorePV           = 300000
	scorePromotion    = 250000
	scoreGoodCapture  = 200000
	scoreKiller1      = 150000
	scoreKiller2      = 149000
	scoreCounter      = 100000
	scoreLosingCapture = -100000
)

type scoredMove struct {
	move  position.Move
	score int
}

// orderMoves scores every legal move in moves for search ordering and sorts
// descending by score. pv is the move to try first (typically the
// transposition table's stored move), prev is the previously played move
// (for counter-move lookup).
func orderMoves(p *position.Position, moves []position.Move, ost *moveOrderingState, pv, prev position.Move, ply int) []scoredMove {
	side := p.SideToMove()
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: scoreMove(p, m, ost, pv, prev, side, ply)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

func scoreMove(p *position.Position, m position.Move, ost *moveOrderingState, pv, prev position.Move, side position.Color, ply int) int {
	if m == pv {
		return scorePV
	}
	if pt := m.PromotionType(); pt == position.PieceTypeQueen {
		return scorePromotion
	}
	if m.IsCapture() {
		victim := capturedType(p, m)
		attacker := p.PieceAt(m.From()).Type()
		mvv := mvvLva[victim][attacker]
		if seeGreaterOrEqual(p, m, 0) {
			return scoreGoodCapture + mvv
		}
		return scoreLosingCapture + mvv
	}
	if m.IsPromotion() {
		return scorePromotion - 1000
	}
	if ost != nil {
		if m == ost.killers[minPly(ply)][0] {
			return scoreKiller1
		}
		if m == ost.killers[minPly(ply)][1] {
			return scoreKiller2
		}
		score := ost.historyScore(side, m)
		if prev != position.NullMove && ost.counterMove(side, prev) == m {
			score += scoreCounter
		}
		return score
	}
	return 0
}

func minPly(ply int) int {
	if ply < 0 {
		return 0
	}
	if ply > MaxPly {
		return MaxPly
	}
	return ply
}

func capturedType(p *position.Position, m position.Move) position.PieceType {
	if m.IsEnPassant() {
		return position.PieceTypePawn
	}
	return p.PieceAt(m.To()).Type()
}

// orderCaptures scores only captures/promotions, for quiescence search.
func orderCaptures(p *position.Position, moves []position.Move, pv position.Move) []scoredMove {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		s := 0
		switch {
		case m == pv:
			s = scoreGoodCapture + 256
		case m.IsPromotion():
			s = scoreGoodCapture + 75
		default:
			s = mvvLva[capturedType(p, m)][p.PieceAt(m.From()).Type()]
		}
		scored[i] = scoredMove{move: m, score: s}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}
