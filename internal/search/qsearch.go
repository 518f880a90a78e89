package search

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// futilityPieceValue is the end-game material value section 4.4 step 5
// adds to futilityBase per captured piece, the same PeSTO end-game
// base values internal/eval/pst.go folds into its tapered score.
var futilityPieceValue = [chess.PieceNB]Value{
	chess.Pawn:   94,
	chess.Knight: 281,
	chess.Bishop: 297,
	chess.Rook:   512,
	chess.Queen:  936,
}

// counterMovePruneThreshold gates section 4.4 step 5's quiet-move skip:
// a quiet move whose offset-1 and offset-2 continuation-history scores
// are both at or below this is assumed to be going nowhere.
const counterMovePruneThreshold = 0

// contHistScore reads move's cell out of a continuation-history table.
// A missing (root-adjacent) table has no opinion, so it reports a
// score above any sane prune threshold rather than below it.
func contHistScore(cont *pieceToHistory, move Move) int {
	if cont == nil {
		return counterMovePruneThreshold + 1
	}
	return int(cont[move.MovingPiece()][move.To()])
}

// quiescence implements C4: a capture-and-check-only search that walks
// out to a quiet position before the static evaluation is trusted,
// grounded on the teacher's thread.quiescence (pkg/engine/search.go)
// and extended with the stand-pat randomised "Variety" noise and
// continuation-history / SEE pruning the spec names in section 4.4.
//
// Step 1's game-cycle early alpha-raise is not implemented: it needs an
// upcoming-repetition detector distinct from thread.isDraw's
// already-occurred check, which this engine does not carry.
func (t *thread) quiescence(alpha, beta Value, ply int) Value {
	var ss = &t.stack[ply]
	ss.pv = ss.pv[:0]

	var pos = ss.pos
	if t.isDraw(ply) {
		return ValueDraw
	}
	if ply >= MaxPly {
		return t.evaluate(pos)
	}

	var ttData = t.tt.Probe(pos.Key)
	if ttData.Hit {
		var ttValue = valueFromTT(ttData.Value, ply, int(pos.Rule50))
		if ttData.Bound == BoundExact ||
			(ttData.Bound == BoundLower && ttValue >= beta) ||
			(ttData.Bound == BoundUpper && ttValue <= alpha) {
			return ttValue
		}
	}

	var inCheck = pos.IsCheck()
	var best = -ValueInfinty
	var bestMove Move
	var staticEval Value

	if !inCheck {
		if ttData.Hit && ttData.Eval != ValueNone {
			staticEval = ttData.Eval
		} else {
			staticEval = t.evaluate(pos)
		}
		staticEval += t.varietyNoise()
		best = staticEval
		if ttData.Hit &&
			((ttData.Bound == BoundLower && ttData.Value > best) ||
				(ttData.Bound == BoundUpper && ttData.Value < best)) {
			best = ttData.Value
		}
		if best > alpha {
			alpha = best
			if alpha >= beta {
				t.tt.Save(ttData, valueToTT(best, ply), staticEval, BoundLower, DepthQSNoChecks, moveNone, false)
				return best
			}
		}
	}

	var futilityBase = -ValueInfinty
	if !inCheck {
		futilityBase = best + 155
	}

	var mp = &t.qpickers[ply]
	mp.pos = pos
	// Quiet checks are requested only at ply 0, and search never enters
	// quiescence at the root, so out of check only captures and
	// promotions are searched here.
	mp.init(inCheck, ply == 0)

	var hasLegalMove = false
	var moveCount = 0
	var child = t.stack[ply+1].pos

	for {
		var move = mp.next()
		if move == moveNone {
			break
		}

		var isCapture = move.IsCaptureOrPromotion()

		if !inCheck {
			if !isCapture {
				if contHistScore(ss.contHist(1), move) <= counterMovePruneThreshold &&
					contHistScore(ss.contHist(2), move) <= counterMovePruneThreshold {
					continue
				}
			} else if !pos.SeeGE(move, 0) {
				continue
			}

			if isCapture && futilityBase > -KnownWin && best > -MateInMaxPly {
				moveCount++
				if moveCount > 2 {
					continue
				}
				var futilityValue = futilityBase + futilityPieceValue[move.CapturedPiece()]
				if futilityValue <= alpha {
					if futilityValue > best {
						best = futilityValue
					}
					continue
				}
				if futilityBase <= alpha && !pos.SeeGE(move, 1) {
					if futilityBase > best {
						best = futilityBase
					}
					continue
				}
			}
		}

		if !pos.DoMove(move, child) {
			continue
		}
		hasLegalMove = true
		t.pushMove(ply, move)
		var score = -t.quiescence(-beta, -alpha, ply+1)
		t.popMove(ply)

		if score > best {
			best = score
			bestMove = move
			if score > alpha {
				alpha = score
				t.assignPV(ply, move)
				if alpha >= beta {
					break
				}
			}
		}
	}

	if inCheck && !hasLegalMove {
		return matedIn(ply)
	}

	var bound = BoundUpper
	if best >= beta {
		bound = BoundLower
	}
	t.tt.Save(ttData, valueToTT(best, ply), staticEval, bound, DepthQSNoChecks, bestMove, false)
	return best
}
