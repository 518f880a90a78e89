package search

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// historyRange bounds every i16 history cell via the gravity rule
// (section 3): updates saturate instead of overflowing.
const historyRange = 7183

// pieceToHistory is a [piece][to] table, the cell type continuation
// histories and counter-move history are built from (section 3).
type pieceToHistory [chess.PieceNB][64]int16

// maxLowPlyHistory bounds the low-ply history's ply index (section 3,
// "low_ply_history[ply<MAX_LPH]").
const maxLowPlyHistory = 4

// heuristics is the per-thread table bundle of C2: everything here is
// thread-local (section 5), so no synchronisation guards any field.
type heuristics struct {
	mainHistory    [2][4096]int16 // [side][from*64+to]
	captureHistory [chess.PieceNB][64][chess.PieceNB]int16
	lowPlyHistory  [maxLowPlyHistory][4096]int16
	counterMoves   [chess.PieceNB][64]Move

	// continuation history is addressed by the (piece,to) of the move
	// *being played now* and keyed off which ply offset it continues;
	// contTables[piece][to] holds one pieceToHistory per (piece,to)
	// pair so that ss-1..ss-6 lookups are a pointer fetch, matching the
	// teacher's continuationHistory-by-index array
	// (pkg/engine/history.go) generalised from 2 context slots to the
	// spec's four (offsets 1,2,4,6).
	contTables [chess.PieceNB][64]pieceToHistory
}

func newHeuristics() *heuristics {
	return &heuristics{}
}

func (h *heuristics) clear() {
	*h = heuristics{}
}

func (h *heuristics) continuationTable(piece, to int) *pieceToHistory {
	return &h.contTables[piece][to]
}

// statBonus is section 4.2's history-update magnitude as a function of
// depth.
func statBonus(depth Depth) int {
	var d = int(depth)
	if d > 14 {
		return 73
	}
	return 6*d*d + 229*d - 215
}

// gravityUpdate applies x <- x + bonus - x*|bonus|/MAX, the contraction
// rule section 3 specifies, keeping |x| <= historyRange.
func gravityUpdate(v *int16, bonus int) {
	bonus = clampI(bonus, -historyRange, historyRange)
	var x = int(*v)
	x += bonus - x*absI(bonus)/historyRange
	*v = int16(x)
}

func fromToIndex(m Move) int {
	return m.From()*64 + m.To()
}

func sideIndex(white bool) int {
	if white {
		return 0
	}
	return 1
}

// updateContinuationHistories adds bonus at offsets {1,2,4,6} behind
// the current ply, skipping 4 and 6 while in check, exactly as section
// 4.2 describes; ss holds the borrowed continuation-history pointers
// for those offsets (nil where the ancestor slot is a sentinel).
func updateContinuationHistories(ss *stackEntry, piece, to int, bonus int) {
	for _, offset := range [...]int{1, 2, 4, 6} {
		if (offset == 4 || offset == 6) && ss.inCheck {
			continue
		}
		var parent = ss.contHist(offset)
		if parent == nil {
			continue
		}
		gravityUpdate(&parent[piece][to], bonus)
	}
}

// updateQuietStats implements section 4.2's update_quiet_stats: killer
// shift, main history, continuation histories, the non-pawn
// reverse-move penalty, the counter-move table, and the deep low-ply
// bonus.
func (t *thread) updateQuietStats(ss *stackEntry, move Move, bonus int, depth Depth) {
	if ss.killers[0] != move {
		ss.killers[1] = ss.killers[0]
		ss.killers[0] = move
	}

	var us = ss.pos.WhiteMove
	gravityUpdate(&t.h.mainHistory[sideIndex(us)][fromToIndex(move)], bonus)
	updateContinuationHistories(ss, move.MovingPiece(), move.To(), bonus)

	if move.MovingPiece() != chess.Pawn {
		var rev = reverseMove(move)
		gravityUpdate(&t.h.mainHistory[sideIndex(us)][fromToIndex(rev)], -bonus)
	}

	if ss.ply > 0 {
		var prevSq = t.stack[ss.ply-1].currentMove.To()
		var prevPiece = ss.pos.PieceOn(prevSq)
		if prevPiece != chess.Empty {
			t.h.counterMoves[prevPiece][prevSq] = move
		}
	}

	if depth > 11 && ss.ply < maxLowPlyHistory {
		gravityUpdate(&t.h.lowPlyHistory[ss.ply][fromToIndex(move)], statBonus(depth-7))
	}
}

// reverseMove swaps from/to, used by the "penalise the reverse of a
// good quiet move" heuristic (section 4.2).
func reverseMove(m Move) Move {
	return chess.MakeMove(m.To(), m.From(), m.MovingPiece(), chess.Empty)
}

// updateAllStats implements section 4.2's update_all_stats, called
// once a node's best move is known.
func (t *thread) updateAllStats(ss *stackEntry, bestMove Move, bestValue, beta Value,
	depth Depth, quiets, captures []Move) {

	var bonus1 = statBonus(depth + 1)
	var bonus2 = bonus1
	if bestValue > beta+Value(pawnValueMg) {
		bonus2 = bonus1
	} else {
		bonus2 = minI(bonus1, statBonus(depth))
	}

	if bestMove != moveNone && !bestMove.IsCaptureOrPromotion() {
		t.updateQuietStats(ss, bestMove, bonus2, depth)
		for _, m := range quiets {
			if m == bestMove {
				continue
			}
			gravityUpdate(&t.h.mainHistory[sideIndex(ss.pos.WhiteMove)][fromToIndex(m)], -bonus2)
			updateContinuationHistories(ss, m.MovingPiece(), m.To(), -bonus2)
		}
	} else if bestMove != moveNone {
		gravityUpdate(&t.h.captureHistory[bestMove.MovingPiece()][bestMove.To()][bestMove.CapturedPiece()], bonus1)
	}

	if ss.ply > 0 {
		var prev = &t.stack[ss.ply-1]
		if (prev.moveCount == 1 || prev.currentMove == prev.killers[0]) &&
			!prev.currentMove.IsCaptureOrPromotion() && prev.currentMove != moveNone {
			updateContinuationHistories(&t.stack[ss.ply-1], ss.pos.MovedPiece(), prev.currentMove.To(), -bonus1)
		}
	}

	for _, m := range captures {
		if m == bestMove {
			continue
		}
		gravityUpdate(&t.h.captureHistory[m.MovingPiece()][m.To()][m.CapturedPiece()], -bonus1)
	}
}

const pawnValueMg = 100
