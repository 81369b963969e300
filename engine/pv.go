package engine

import "github.com/oliverans/goknight/position"

// PVLine collects the principal variation found at a node, backed by a
// slice that grows as needed instead of a fixed-size array.
type PVLine struct {
	Moves []position.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update makes m the first move of the line, followed by child's line.
func (pv *PVLine) Update(m position.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv PVLine) Clone() PVLine {
	moves := make([]position.Move, len(pv.Moves))
	copy(moves, pv.Moves)
	return PVLine{Moves: moves}
}

func (pv PVLine) GetPVMove() position.Move {
	if len(pv.Moves) == 0 {
		return position.NullMove
	}
	return pv.Moves[0]
}

func (pv PVLine) String() string {
	s := ""
	for i, m := range pv.Moves {
		if i > 0 {
			s += " "
		}
		s += m.String()
	}
	return s
}
