package search

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// stackEntry is one ply's worth of per-node scratch state, threaded
// down the recursion by index rather than by allocating a frame per
// call, matching the teacher's []SearchStack convention
// (pkg/engine/search.go) generalised with the extra fields section 3's
// "Search stack" data model names.
type stackEntry struct {
	ply         int
	pos         *chess.Position
	pv          []Move
	currentMove Move
	excludedMove Move
	killers     [2]Move
	staticEval  Value
	moveCount   int
	inCheck     bool
	ttPV        bool
	cutoffCnt   int
	quietsBuf   []Move
	capturesBuf []Move
	marked      bool // section 4.3: another thread already claimed this node's breadcrumb

	// contHistPtr[i] points at the pieceToHistory the move played at
	// this ply should update for continuation-history offset i+1, or
	// nil if that ancestor slot doesn't exist (root-adjacent plies).
	// Populated by thread.pushMove before recursing, consumed by
	// updateContinuationHistories / movepicker's history probes.
	contHistPtr [6]*pieceToHistory
}

// contHist returns the continuation-history table belonging to the
// move played `offset` plies ago, or nil if unavailable.
func (ss *stackEntry) contHist(offset int) *pieceToHistory {
	if offset < 1 || offset > len(ss.contHistPtr) {
		return nil
	}
	return ss.contHistPtr[offset-1]
}

func newStack() []stackEntry {
	var stack = make([]stackEntry, MaxPly+10)
	for i := range stack {
		stack[i].ply = i
		for j := range stack[i].contHistPtr {
			stack[i].contHistPtr[j] = nil
		}
	}
	return stack
}
