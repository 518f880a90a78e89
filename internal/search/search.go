package search

import (
	"github.com/ChizhovVadim/CounterGo/internal/chess"
	"github.com/ChizhovVadim/CounterGo/internal/tablebase"
)

// pawnValue anchors several pruning margins to "about one pawn",
// matching the teacher's pawnValue constant (pkg/engine/search.go).
const pawnValue = 100

// search implements C5: the recursive alpha-beta driver shared by
// root, PV and non-PV nodes (section 4.5), grounded on the teacher's
// thread.alphaBeta and extended with the extra pruning/extension
// machinery (singular+double extension, multi-cut, ProbCut, IIR,
// breadcrumbs) the specification names that CounterGo's engine
// variant does not implement.
func (t *thread) search(nt nodeKind, alpha, beta Value, depth Depth, ply int) Value {
	if depth <= 0 {
		return t.quiescence(alpha, beta, ply)
	}

	var ss = &t.stack[ply]
	ss.pv = ss.pv[:0]

	var rootNode = nt == nodeRoot
	var pvNode = nt != nodeNonPV
	var pos = ss.pos
	ss.inCheck = pos.IsCheck()
	if ply > t.selDepth {
		t.selDepth = ply
	}

	if !rootNode {
		if ply >= MaxPly {
			return t.evaluate(pos)
		}
		if t.isDraw(ply) {
			return ValueDraw
		}
		if mateIn(ply+1) <= alpha {
			return alpha
		}
		if matedIn(ply+2) >= beta && !ss.inCheck {
			return beta
		}
		if tbValue, ok := t.probeTablebase(pos, depth, ply); ok {
			return tbValue
		}
	}

	var excluded = ss.excludedMove
	var ttData TTData
	if excluded == moveNone {
		ttData = t.tt.Probe(pos.Key)
	}

	var ttValue = ValueNone
	if ttData.Hit {
		ttValue = valueFromTT(ttData.Value, ply, int(pos.Rule50))
		if ttData.Depth >= depth && !pvNode && !rootNode {
			if ttValue >= beta && ttData.Bound&BoundLower != 0 {
				if ttData.Move != moveNone && !ttData.Move.IsCaptureOrPromotion() {
					t.updateKiller(ss, ttData.Move)
				}
				return ttValue
			}
			if ttValue <= alpha && ttData.Bound&BoundUpper != 0 {
				return ttValue
			}
		}
	}
	ss.ttPV = pvNode || (ttData.Hit && ttData.IsPV)

	var staticEval Value
	if ss.inCheck {
		staticEval = ValueNone
		ss.staticEval = ValueNone
	} else if ttData.Hit && ttData.Eval != ValueNone {
		staticEval = ttData.Eval
		ss.staticEval = staticEval
	} else {
		staticEval = t.evaluate(pos)
		ss.staticEval = staticEval
	}

	var improving bool
	if !ss.inCheck {
		improving = ply < 2 || t.stack[ply-2].staticEval == ValueNone ||
			staticEval > t.stack[ply-2].staticEval
	}

	if ply+2 < len(t.stack) {
		t.stack[ply+2].killers = [2]Move{}
	}

	// Internal iterative reduction: no TT move in a sufficiently deep
	// node is itself evidence the position needs more work before its
	// move ordering can be trusted (section 4.5).
	if pvNode && depth >= 4 && ttData.Move == moveNone {
		depth--
	}

	// Breadcrumbs (section 4.3) are scoped to near-root plies; a
	// collision there is only advisory, softening LMR in the move loop
	// below rather than cutting this node's depth.
	ss.marked = false
	var clearCrumb func()
	if !rootNode && ply < 8 && t.crumbs != nil {
		if t.crumbs.occupied(pos.Key, t.id) {
			ss.marked = true
		} else {
			clearCrumb = t.crumbs.mark(pos.Key, t.id)
		}
	}
	if clearCrumb != nil {
		defer clearCrumb()
	}

	if !rootNode && excluded == moveNone && !ss.inCheck {
		// Reverse futility / static null move pruning.
		if !pvNode && depth <= 8 && staticEval-Value(pawnValue)*Value(depth) >= beta &&
			staticEval < KnownWin {
			return staticEval
		}

		// Null-move pruning.
		if !pvNode && depth >= 3 && staticEval >= beta &&
			pos.LastMove != moveNone && nonPawnMaterial(pos) &&
			!(ttData.Hit && ttValue < beta && ttData.Bound&BoundUpper != 0) {
			var r = Depth(4 + int(depth)/6 + minI(2, int((staticEval-beta)/200)))
			var child = t.stack[ply+1].pos
			pos.DoNullMove(child)
			t.pushMove(ply, moveNone)
			var score = -t.search(nodeNonPV, -beta, -beta+1, depth-r, ply+1)
			t.popMove(ply)
			if score >= beta {
				if score >= MateInMaxPly {
					score = beta
				}
				return score
			}
		}

		// ProbCut: a cheap capture search that tries to prove beta can
		// already be beaten by a large margin.
		var probCutBeta = minV(KnownWin, beta+Value(150))
		if depth >= 5 && beta > -KnownWin && beta < KnownWin &&
			!(ttData.Hit && ttData.Depth >= depth-3 && ttValue < probCutBeta && ttData.Bound&BoundUpper != 0) {

			var mp = &t.qpickers[ply]
			mp.pos = pos
			mp.init(false, false)
			var child = t.stack[ply+1].pos
			for {
				var move = mp.next()
				if move == moveNone {
					break
				}
				if !pos.SeeGE(move, int(probCutBeta-staticEval)) {
					continue
				}
				if !pos.DoMove(move, child) {
					continue
				}
				t.pushMove(ply, move)
				var score = -t.quiescence(-probCutBeta, -probCutBeta+1, ply+1)
				if score >= probCutBeta {
					score = -t.search(nodeNonPV, -probCutBeta, -probCutBeta+1, depth-4, ply+1)
				}
				t.popMove(ply)
				if score >= probCutBeta {
					return score
				}
			}
		}
	}

	// Singular extension: verify the TT move is genuinely the only
	// move that holds this node, extending it (twice, if the margin is
	// very large) when so, and returning singularBeta as a multi-cut
	// when another move also reaches singularBeta and singularBeta is
	// at or above beta.
	var ttMoveSingular = false
	var ttMoveDoubleExt = false
	if !rootNode && excluded == moveNone && depth >= 7 &&
		ttData.Move != moveNone && ttData.Depth >= depth-3 &&
		ttData.Bound&BoundLower != 0 &&
		ttValue > -KnownWin && ttValue < KnownWin {

		var singularBeta = ttValue - Value(2*int(depth))
		var singularDepth = (depth - 1) / 2
		ss.excludedMove = ttData.Move
		var score = t.search(nodeNonPV, singularBeta-1, singularBeta, singularDepth, ply)
		ss.excludedMove = moveNone
		if score < singularBeta {
			ttMoveSingular = true
			if !pvNode && score < singularBeta-Value(pawnValue) {
				ttMoveDoubleExt = true
			}
		} else if singularBeta >= beta {
			// Multi-cut: the reduced-depth search without the TT move
			// already reached singularBeta, which is at or above beta.
			return singularBeta
		}
	}

	var mp = &t.pickers[ply]
	mp.pos = pos
	mp.ttMove = ttData.Move
	mp.killers = ss.killers
	mp.counter = t.counterMove(ply)
	mp.quietHist = func(m Move) int { return t.quietHistoryScore(ss, m) }
	mp.captHist = func(m Move) int { return int(t.h.captureHistory[m.MovingPiece()][m.To()][m.CapturedPiece()]) }
	mp.init()

	var quiets = t.stack[ply].quietsBuf[:0]
	var captures = t.stack[ply].capturesBuf[:0]

	var moveCount = 0
	var quietCount = 0
	var hasLegalMove = false
	var best = -ValueInfinty
	var bestMove Move
	var oldAlpha = alpha

	var lmp = 5 + int(depth-1)*int(depth)
	if !improving {
		lmp /= 2
	}

	var child = t.stack[ply+1].pos

	for {
		var move = mp.next()
		if move == moveNone {
			break
		}
		if move == excluded {
			continue
		}
		if rootNode && t.isExcludedRootMove(move) {
			continue
		}

		var isNoisy = move.IsCaptureOrPromotion()
		if !isNoisy {
			quietCount++
		}

		if !rootNode && best > -MateInMaxPly && hasLegalMove && !ss.inCheck &&
			int(depth) <= 8 && !isNoisy && move != ss.killers[0] && move != ss.killers[1] {
			if quietCount > lmp {
				continue
			}
			if staticEval+Value(100)+Value(pawnValue)*Value(depth) <= alpha {
				continue
			}
		}
		if !rootNode && best > -MateInMaxPly && hasLegalMove && !ss.inCheck && int(depth) <= 8 {
			var seeMargin int
			if isNoisy {
				seeMargin = maxI(int(depth), int(staticEval+Value(pawnValue)-alpha)/pawnValue)
			} else {
				seeMargin = int(depth) / 2
			}
			if !pos.SeeGE(move, -seeMargin) {
				continue
			}
		}

		if !pos.DoMove(move, child) {
			continue
		}
		hasLegalMove = true
		moveCount++
		t.pushMove(ply, move)

		if isNoisy {
			captures = append(captures, move)
		} else {
			quiets = append(quiets, move)
		}

		var extension Depth
		if child.IsCheck() && depth >= 3 {
			extension = 1
		}
		if move == ttData.Move {
			if ttMoveDoubleExt {
				extension = 2
			} else if ttMoveSingular {
				extension = 1
			}
		}

		var newDepth = depth - 1 + extension
		var reduction Depth

		if depth >= 3 && moveCount > 1 && !isNoisy {
			reduction = Depth(t.pool.lmr(int(depth), moveCount))
			if move == ss.killers[0] || move == ss.killers[1] {
				reduction--
			}
			if !ss.inCheck {
				var hist = t.quietHistoryScore(ss, move)
				reduction -= Depth(clampI(hist/5000, -2, 2))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if ss.inCheck || child.IsCheck() {
				reduction--
			}
			if ss.marked {
				reduction--
			}
			if newDepth < 1 {
				reduction = 0
			} else {
				reduction = maxD(reduction, 0)
				reduction = minD(reduction, newDepth-1)
			}
		}

		// PVS: a reduced/null-window search first, widening only when it
		// beats alpha, exactly as the teacher's alphaBeta move loop does
		// (pkg/engine/search.go) — at non-PV nodes beta==alpha+1 already,
		// so the final "full search" call below is still a null-window
		// search there, and only genuinely widens at a PV node.
		var score = alpha + 1
		if reduction > 0 {
			score = -t.search(nodeNonPV, -(alpha + 1), -alpha, newDepth-reduction, ply+1)
		}
		if score > alpha && pvNode && moveCount > 1 && newDepth > 0 {
			score = -t.search(nodeNonPV, -(alpha + 1), -alpha, newDepth, ply+1)
		}
		if score > alpha {
			var childKind = nodeNonPV
			if pvNode {
				childKind = nodePV
			}
			score = -t.search(childKind, -beta, -alpha, newDepth, ply+1)
		}

		t.popMove(ply)

		if rootNode {
			t.recordRootScore(move, score, moveCount == 1)
		}

		if score > best {
			best = score
			bestMove = move
			if score > alpha {
				alpha = score
				t.assignPV(ply, move)
				if alpha >= beta {
					ss.cutoffCnt++
					break
				}
			}
		}
	}

	if !hasLegalMove {
		if excluded != moveNone {
			return alpha
		}
		if ss.inCheck {
			return matedIn(ply)
		}
		return ValueDraw
	}

	if alpha > oldAlpha && bestMove != moveNone {
		t.updateAllStats(ss, bestMove, best, beta, depth, quiets, captures)
	}

	if excluded == moveNone {
		var bound Bound
		if best > oldAlpha {
			bound |= BoundLower
		}
		if best < beta {
			bound |= BoundUpper
		}
		if !(rootNode && bound == BoundUpper) {
			t.tt.Save(ttData, valueToTT(best, ply), staticEval, bound, depth, bestMove, ss.ttPV)
		}
	}

	return best
}

// probeTablebase consults the WDL tablebase collaborator named in
// spec.md section 6: a cheap, exact answer for small-enough positions
// the search would otherwise have to prove by brute force. Only
// zeroing (Rule50==0) positions are probed, matching Syzygy's
// DTZ-at-root convention. Clean wins and losses score through ToScore;
// draws and cursed/blessed results score as a draw when
// Syzygy50MoveRule is set, and otherwise through ToScore, which gives
// cursed/blessed results its "nearly won/lost" values.
func (t *thread) probeTablebase(pos *chess.Position, depth Depth, ply int) (Value, bool) {
	var tb = t.pool.tb
	if tb == nil || !tb.Available() || pos.Rule50 != 0 {
		return 0, false
	}
	if int(depth) < t.pool.options.SyzygyProbeDepth {
		return 0, false
	}
	var pieces = tablebase.CountPieces(pos)
	if pieces > tb.MaxPieces() || pieces > t.pool.options.SyzygyProbeLimit {
		return 0, false
	}
	var result = tb.Probe(pos)
	if !result.Found {
		return 0, false
	}
	switch result.WDL {
	case tablebase.WDLWin:
		return Value(tablebase.ToScore(tablebase.WDLWin, ply)), true
	case tablebase.WDLLoss:
		return Value(tablebase.ToScore(tablebase.WDLLoss, ply)), true
	default:
		if t.pool.options.Syzygy50MoveRule {
			return ValueDraw, true
		}
		return Value(tablebase.ToScore(result.WDL, ply)), true
	}
}

func (t *thread) updateKiller(ss *stackEntry, move Move) {
	if ss.killers[0] != move {
		ss.killers[1] = ss.killers[0]
		ss.killers[0] = move
	}
}

func (t *thread) counterMove(ply int) Move {
	if ply == 0 {
		return moveNone
	}
	var prevMove = t.stack[ply-1].currentMove
	if prevMove == moveNone {
		return moveNone
	}
	var prevSq = prevMove.To()
	var prevPiece = t.stack[ply].pos.PieceOn(prevSq)
	if prevPiece == chess.Empty {
		return moveNone
	}
	return t.h.counterMoves[prevPiece][prevSq]
}

// quietHistoryScore sums the main history and every applicable
// continuation-history offset for move, the combined ordering key
// section 4.2 calls "history" for quiets.
func (t *thread) quietHistoryScore(ss *stackEntry, move Move) int {
	var side = ss.pos.WhiteMove
	var total = int(t.h.mainHistory[sideIndex(side)][fromToIndex(move)])
	for _, offset := range [...]int{1, 2, 4, 6} {
		var cont = ss.contHist(offset)
		if cont == nil {
			continue
		}
		total += int(cont[move.MovingPiece()][move.To()])
	}
	return total
}

func nonPawnMaterial(pos *chess.Position) bool {
	return (pos.Rooks|pos.Queens|pos.Knights|pos.Bishops)&pos.PiecesByColor(pos.WhiteMove) != 0
}

func maxD(a, b Depth) Depth {
	if a > b {
		return a
	}
	return b
}
func minD(a, b Depth) Depth {
	if a < b {
		return a
	}
	return b
}
