package search

import "sort"

// initRootMoves builds the thread's candidate list from legal moves,
// ordering the previous iteration's best line first the way the
// teacher's searchDepth moves task.startingMove to the front of ml
// (pkg/engine/lazysmp.go) before the next aspiration window opens.
func (t *thread) initRootMoves(legal []Move, ttMove Move) {
	t.rootMoves = t.rootMoves[:0]
	for _, m := range legal {
		t.rootMoves = append(t.rootMoves, RootMove{PV: []Move{m}, Score: -ValueInfinty, PreviousScore: -ValueInfinty, AverageScore: -ValueInfinty})
	}
	if ttMove != moveNone {
		moveRootMoveToFront(t.rootMoves, ttMove)
	}
}

func moveRootMoveToFront(rm []RootMove, move Move) {
	for i, r := range rm {
		if len(r.PV) > 0 && r.PV[0] == move {
			if i != 0 {
				var item = rm[i]
				copy(rm[1:i+1], rm[0:i])
				rm[0] = item
			}
			return
		}
	}
}

// isExcludedRootMove reports whether move has already been assigned to
// an earlier MultiPV slot this iteration, the way Stockfish's
// RootMoves [firstPV,end) window hides already-reported lines from
// later PV searches.
func (t *thread) isExcludedRootMove(move Move) bool {
	for i := 0; i < t.pvIdx; i++ {
		if len(t.rootMoves[i].PV) > 0 && t.rootMoves[i].PV[0] == move {
			return true
		}
	}
	return false
}

func findRootMove(rm []RootMove, move Move) int {
	for i := range rm {
		if len(rm[i].PV) > 0 && rm[i].PV[0] == move {
			return i
		}
	}
	return -1
}

// recordRootScore is how the move loop in search() reports a root
// child's score back to the owning RootMove entry; only called when
// nt==nodeRoot.
func (t *thread) recordRootScore(move Move, score Value, firstMoveThisIteration bool) {
	var idx = findRootMove(t.rootMoves, move)
	if idx < 0 {
		return
	}
	var rm = &t.rootMoves[idx]
	if firstMoveThisIteration || score > rm.Score {
		rm.Score = score
		rm.SelDepth = t.selDepth
		rm.PV = append(rm.PV[:0], move)
		rm.PV = append(rm.PV, t.stack[1].pv...)
	} else {
		rm.Score = -ValueInfinty
	}
}

// sortRootMoves stable-sorts by Score descending. -INF entries (moves
// not yet searched this iteration, or searched and failing to beat
// the lowest MultiPV slot) keep their relative order, matching the
// spec's "stable sort preserving -INF order" property.
func sortRootMoves(rm []RootMove) {
	sort.SliceStable(rm, func(i, j int) bool {
		return rm[i].Score > rm[j].Score
	})
}
