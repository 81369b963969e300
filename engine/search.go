package engine

import (
	"time"

	"github.com/oliverans/goknight/internal/xmath"
	"github.com/oliverans/goknight/position"
)

// Margin tables are hand-tuned pruning thresholds indexed by remaining
// depth; the values are kept fixed rather than fitted by an offline tuner.
var futilityMargins = [8]int{0, 120, 220, 320, 420, 520, 620, 720}
var rfpMargins = [8]int{0, 100, 200, 300, 400, 500, 600, 700}
var lateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

const (
	lmrDepthLimit    = 2
	lmrMoveLimit     = 2
	nullMoveMinDepth = 2
	deltaMargin      = 200
	quiescenceSeeMargin = 100
	maxSearchPly     = MaxPly
)

// Info is one iteration's reportable result, handed to the Engine's
// OnInfo callback so the UCI bridge can print "info depth ... pv ...".
type Info struct {
	Depth    int
	SelDepth int
	Score    int
	Mate     int // non-zero: distance to mate, sign is who mates
	Nodes    uint64
	NPS      uint64
	Hashfull int
	Time     time.Duration
	PV       PVLine
}

// Search runs iterative deepening from p up to maxDepth (0 means until tm
// expires), reporting each completed iteration via OnInfo, and returns the
// best move found.
func (e *Engine) Search(p *position.Position, maxDepth int, tm *TimeManager) position.Move {
	e.nodes = 0
	e.selDepth = 0
	e.stop = false
	e.tm = tm
	e.rootPosition = p
	e.order.clearKillers()
	e.TT.NewSearch()

	if maxDepth <= 0 || maxDepth > maxSearchPly {
		maxDepth = maxSearchPly
	}

	rootIndex := len(e.history.hashes) - 1
	if rootIndex < 0 {
		e.history.Reset(p.Hash(), p.HalfmoveClock())
		rootIndex = 0
	}

	var alpha, beta int
	window := 35
	prevScore := 0
	var pvLine, prevPVLine PVLine

	start := time.Now()

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 {
			if tm.SoftTimeExceeded() && !tm.ShouldExtendTime() {
				break
			}
		}

		if prevScore != 0 {
			alpha = prevScore - window
			beta = prevScore + window
		} else {
			alpha, beta = -int(Infinity), int(Infinity)
		}

		var score int
		for {
			pvLine.Clear()
			score = e.alphabeta(p, alpha, beta, depth, 0, &pvLine, position.NullMove, false, false, position.NullMove, rootIndex)

			if e.stop || tm.HardTimeExceeded() {
				break
			}
			if score <= alpha || score >= beta {
				if alpha <= -int(Infinity) && beta >= int(Infinity) {
					window *= 2
				} else {
					window *= 2
				}
				alpha = score - window
				beta = score + window
				if alpha < -int(Infinity) {
					alpha = -int(Infinity)
				}
				if beta > int(Infinity) {
					beta = int(Infinity)
				}
				continue
			}
			break
		}

		if e.stop || tm.HardTimeExceeded() {
			if len(prevPVLine.Moves) == 0 && len(pvLine.Moves) > 0 {
				prevPVLine = pvLine.Clone()
			}
			break
		}

		window = 35
		prevScore = score
		prevPVLine = pvLine.Clone()

		if len(pvLine.Moves) > 0 {
			tm.UpdateStability(int16(score), uint32(pvLine.Moves[0]))
		}

		if e.OnInfo != nil {
			elapsed := time.Since(start)
			nps := uint64(0)
			if elapsed > 0 {
				nps = uint64(float64(e.nodes) / elapsed.Seconds())
			}
			info := Info{Depth: depth, SelDepth: e.selDepth, Score: score, Nodes: e.nodes, NPS: nps, Hashfull: e.TT.Hashfull(), Time: elapsed, PV: pvLine.Clone()}
			if score > int(Checkmate) {
				info.Mate = (int(Infinity) - score + 1) / 2
			} else if score < -int(Checkmate) {
				info.Mate = -(int(Infinity) + score + 1) / 2
			}
			e.OnInfo(info)
		}

		if score > int(Checkmate) || score < -int(Checkmate) {
			break
		}
	}

	return prevPVLine.GetPVMove()
}

func (e *Engine) alphabeta(p *position.Position, alpha, beta, depth, ply int, pvLine *PVLine, prevMove position.Move, didNull, isExtended bool, excluded position.Move, rootIndex int) int {
	e.nodes++
	if ply > e.selDepth {
		e.selDepth = ply
	}
	if e.nodes&4095 == 0 && e.tm.HardTimeExceeded() {
		e.stop = true
	}
	if e.stop {
		return 0
	}
	if ply >= maxSearchPly {
		return int(Evaluate(p))
	}

	var childPV PVLine
	isPVNode := beta-alpha > 1
	isRoot := ply == 0

	if !isRoot {
		if e.history.IsDraw(ply) {
			return int(DrawScore)
		}
		if alpha < int(DrawScore) && e.history.UpcomingRepetition(ply) {
			alpha = int(DrawScore)
		}
	}

	inCheck := p.InCheck()
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return e.quiescence(p, alpha, beta, &childPV, ply, rootIndex)
	}

	hash := p.Hash()
	usable, ttScore, ttEntry := e.TT.Probe(hash, depth, int16(alpha), int16(beta), ply, excluded)
	if usable && !isRoot && !isPVNode {
		return int(ttScore)
	}

	var ttMove position.Move
	if ttEntry.Hash == hash {
		ttMove = ttEntry.Move
	}

	var staticScore int
	if usable {
		staticScore = int(ttEntry.Score)
	} else {
		staticScore = int(Evaluate(p))
	}

	improving := ply >= 2 && !inCheck && staticScore > alpha

	if !inCheck && !isPVNode && depth >= 1 && depth <= 7 && xmath.Abs(beta) < int(Checkmate) && !isRoot {
		margin := rfpMargins[depth]
		if !improving {
			margin -= 50
		}
		if staticScore-margin >= beta {
			e.TT.Store(hash, depth, ply, ttMove, int16(staticScore-margin), BoundBeta)
			return staticScore - margin
		}
	}

	if !inCheck && !isPVNode && !didNull && depth >= nullMoveMinDepth && !isRoot && hasNonPawnMaterial(p, p.SideToMove()) {
		undo := p.MakeNullMove()
		e.history.Push(p.Hash(), p.HalfmoveClock())
		r := 3 + depth/3
		if depth > 6 {
			r++
		}
		if r > depth-1 {
			r = depth - 1
		}
		score := -e.alphabeta(p, -beta, -beta+1, depth-1-r, ply+1, &childPV, position.NullMove, true, isExtended, position.NullMove, rootIndex)
		e.history.Pop()
		p.UnmakeNullMove(undo)

		if score >= beta && score < int(Checkmate) {
			e.TT.Store(hash, depth, ply, ttMove, int16(score), BoundBeta)
			return score
		}
	}

	var singularExtension bool
	if !isPVNode && !isRoot && !inCheck && !didNull && !isExtended && depth >= 8 && ttMove != position.NullMove &&
		ttEntry.Bound == BoundExact && int(ttEntry.Depth) >= depth-3 {
		ttValue := int(ttEntry.Score)
		if ttValue < int(Checkmate) && ttValue > -int(Checkmate) {
			margin := 50 + 10*depth
			scoreToBeat := ttValue - margin
			r := 3 + depth/4
			if r > depth-1 {
				r = depth - 1
			}
			var verify PVLine
			s := e.alphabeta(p, scoreToBeat-1, scoreToBeat, depth-1-r, ply, &verify, prevMove, didNull, true, ttMove, rootIndex)
			if s < scoreToBeat {
				singularExtension = true
			}
		}
	}

	moves := p.GenerateLegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return -int(Infinity) + ply
		}
		return int(DrawScore)
	}

	scored := orderMoves(p, moves, &e.order, ttMove, prevMove, ply)

	bestScore := -int(Infinity)
	bestMove := position.NullMove
	bound := BoundAlpha
	legal := 0
	quietsTried := make([]position.Move, 0, 16)

	for _, sm := range scored {
		move := sm.move
		if move == excluded {
			continue
		}

		isCapture := move.IsCapture()
		isPromotion := move.IsPromotion()
		tactical := isCapture || isPromotion
		legal++

		if depth <= 8 && !isPVNode && !tactical && !isRoot && legal > 1 {
			lmpMargin := lateMovePruningMargins[xmath.Min(depth, len(lateMovePruningMargins)-1)]
			if !improving {
				lmpMargin = lmpMargin * 2 / 3
			}
			if lmpMargin > 0 && legal > lmpMargin {
				continue
			}
		}

		if depth >= 1 && depth <= 7 && !isPVNode && !isRoot && !tactical && xmath.Abs(alpha) < int(Checkmate) {
			margin := futilityMargins[depth]
			if !improving {
				margin -= 50
			}
			if staticScore+margin <= alpha {
				continue
			}
		}

		if !isCapture {
			quietsTried = append(quietsTried, move)
		}

		undo := p.MakeMove(move)
		e.history.Push(p.Hash(), p.HalfmoveClock())

		extendMove := !isExtended && move == ttMove && singularExtension
		nextExtended := isExtended || extendMove

		var score int
		if legal == 1 {
			nextDepth := searchDepth(depth-1, 0, extendMove)
			score = -e.alphabeta(p, -beta, -alpha, nextDepth, ply+1, &childPV, move, false, nextExtended, position.NullMove, rootIndex)
		} else {
			reduction := 0
			if depth >= lmrDepthLimit && legal >= lmrMoveLimit && !tactical {
				reduction = lmrReduction(depth, legal, isPVNode, improving)
			}
			score = e.pvs(p, move, depth-1, reduction, alpha, beta, ply, extendMove, nextExtended, rootIndex, &childPV)
		}

		e.history.Pop()
		p.UnmakeMove(move, undo)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score >= beta {
			bound = BoundBeta
			if !isCapture {
				e.order.insertKiller(move, ply)
				if prevMove != position.NullMove {
					e.order.storeCounter(p.SideToMove(), prevMove, move)
				}
				e.order.incrementHistory(p.SideToMove(), move, depth)
				for _, failed := range quietsTried {
					if failed != move {
						e.order.decrementHistory(p.SideToMove(), failed)
					}
				}
			}
			break
		}

		if score > alpha {
			alpha = score
			bound = BoundExact
			pvLine.Update(move, childPV)
			if !isCapture {
				e.order.incrementHistory(p.SideToMove(), move, depth)
			}
		}
		childPV.Clear()
	}

	if !e.stop {
		e.TT.Store(hash, depth, ply, bestMove, int16(bestScore), bound)
	}
	return bestScore
}

func (e *Engine) pvs(p *position.Position, move position.Move, baseDepth, reduction, alpha, beta, ply int, extendMove, nextExtended bool, rootIndex int, childPV *PVLine) int {
	nextDepth := searchDepth(baseDepth, reduction, extendMove)
	score := -e.alphabeta(p, -(alpha + 1), -alpha, nextDepth, ply+1, childPV, move, false, nextExtended, position.NullMove, rootIndex)

	if score > alpha && reduction > 0 {
		nextDepth = searchDepth(baseDepth, 0, extendMove)
		score = -e.alphabeta(p, -(alpha + 1), -alpha, nextDepth, ply+1, childPV, move, false, nextExtended, position.NullMove, rootIndex)
	}
	if score > alpha && score < beta {
		nextDepth = searchDepth(baseDepth, 0, extendMove)
		score = -e.alphabeta(p, -beta, -alpha, nextDepth, ply+1, childPV, move, false, nextExtended, position.NullMove, rootIndex)
	}
	return score
}

func (e *Engine) quiescence(p *position.Position, alpha, beta int, pvLine *PVLine, ply, rootIndex int) int {
	e.nodes++
	if ply > e.selDepth {
		e.selDepth = ply
	}
	if e.nodes&2047 == 0 && e.tm.HardTimeExceeded() {
		e.stop = true
	}
	if e.stop {
		return 0
	}
	if ply >= maxSearchPly {
		return int(Evaluate(p))
	}

	inCheck := p.InCheck()
	var childPV PVLine
	standPat := int(Evaluate(p))

	if !inCheck {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	bestScore := standPat
	if inCheck {
		bestScore = -int(Infinity)
	}

	var moves []position.Move
	if inCheck {
		moves = p.GenerateLegalMoves()
	} else {
		moves = p.GenerateCaptures()
	}

	scored := orderCaptures(p, moves, position.NullMove)

	for _, sm := range scored {
		move := sm.move

		if !inCheck {
			if !seeGreaterOrEqual(p, move, -quiescenceSeeMargin) {
				continue
			}
			gain := 0
			if move.IsCapture() {
				gain = SeePieceValue[capturedType(p, move)]
			}
			if pt := move.PromotionType(); move.IsPromotion() {
				gain += SeePieceValue[pt] - SeePieceValue[position.PieceTypePawn]
			}
			if standPat+gain+deltaMargin < alpha {
				continue
			}
		}

		undo := p.MakeMove(move)
		score := -e.quiescence(p, -beta, -alpha, &childPV, ply+1, rootIndex)
		p.UnmakeMove(move, undo)

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPV)
		}
		childPV.Clear()
	}

	return bestScore
}

func searchDepth(base, reduction int, extend bool) int {
	depth := base - reduction
	if extend && reduction == 0 {
		depth++
	}
	return depth
}

func lmrReduction(depth, moveCount int, isPVNode, improving bool) int {
	r := 1
	if depth > 6 && moveCount > 6 {
		r = 2
	}
	if isPVNode {
		r--
	}
	if !improving {
		r++
	}
	if r < 0 {
		r = 0
	}
	return r
}

func hasNonPawnMaterial(p *position.Position, c position.Color) bool {
	return p.Pieces(c, position.PieceTypeKnight) != 0 ||
		p.Pieces(c, position.PieceTypeBishop) != 0 ||
		p.Pieces(c, position.PieceTypeRook) != 0 ||
		p.Pieces(c, position.PieceTypeQueen) != 0
}

