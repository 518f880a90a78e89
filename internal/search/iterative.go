package search

import (
	"context"
	"sort"
)

// runThread is C6/C7's per-worker outer loop: each thread iterates its
// own depth sequence independently (no shared task queue, unlike the
// teacher's lazySmp/searchDepth), widening aspiration windows and
// cycling through MultiPV slots at every depth, until the pool-wide
// stop flag fires.
func runThread(ctx context.Context, p *Pool, t *thread) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchStopped {
				return
			}
			panic(r)
		}
	}()

	for h := 0; h <= 2 && h < len(t.stack); h++ {
		t.stack[h].killers = [2]Move{}
	}

	if len(t.rootMoves) == 0 {
		return
	}

	for depth := Depth(1); ; depth++ {
		if p.stop.Load() {
			return
		}
		if int(depth) > MaxPly {
			return
		}
		t.rootDepth = depth

		var multiPV = p.options.MultiPV
		if p.options.TacticalMultiPV > 0 {
			multiPV = 1 << uint(p.options.TacticalMultiPV)
		}
		multiPV = minI(multiPV, len(t.rootMoves))
		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			t.pvIdx = pvIdx
			t.selDepth = 0
			aspirationWindow(t, depth, t.rootMoves[pvIdx].PreviousScore)

			sort.SliceStable(t.rootMoves[pvIdx:], func(i, j int) bool {
				return t.rootMoves[pvIdx+i].Score > t.rootMoves[pvIdx+j].Score
			})

			if t.id == 0 && p.onIteration != nil {
				p.mu.Lock()
				p.onIteration(MainLine{
					Depth:    int(depth),
					SelDepth: t.rootMoves[pvIdx].SelDepth,
					Score:    t.rootMoves[pvIdx].Score,
					PV:       t.rootMoves[pvIdx].PV,
					Nodes:    p.totalNodes(),
					MultiPV:  pvIdx + 1,
				})
				p.mu.Unlock()
			}
		}

		// Persist this iteration's conclusion to the experience sink
		// (write-only, section 1 Non-goals: self-learning is out of
		// scope, recording is not). Only the nominal main thread's
		// best line is worth the write.
		if t.id == 0 && p.onExperience != nil && len(t.rootMoves) > 0 && len(t.rootMoves[0].PV) > 0 {
			p.onExperience(t.rootPos.Key, int(depth), t.rootMoves[0].Score, t.rootMoves[0].PV[0])
		}

		for i := range t.rootMoves {
			t.rootMoves[i].PreviousScore = t.rootMoves[i].Score
			if t.rootMoves[i].AverageScore == -ValueInfinty {
				t.rootMoves[i].AverageScore = t.rootMoves[i].Score
			} else {
				t.rootMoves[i].AverageScore = (t.rootMoves[i].AverageScore + t.rootMoves[i].Score) / 2
			}
		}
		t.completedDepth = depth

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// aspirationWindow narrows the search window around the previous
// iteration's score once depth is deep enough to make the gamble
// worthwhile, widening by the spec's delta/4+5 growth on every
// re-search, grounded on the teacher's aspirationWindow
// (pkg/engine/search.go), with section 4.6's delta=17/rootDepth>=4
// threshold and dynamic-contempt trend term.
func aspirationWindow(t *thread, depth Depth, prevScore Value) {
	var alpha, beta = -ValueInfinty, ValueInfinty
	var delta = Value(17)
	t.contempt = 0

	if depth >= 4 && prevScore > -MateInMaxPly && prevScore < MateInMaxPly {
		alpha = maxV(-ValueInfinty, prevScore-delta)
		beta = minV(ValueInfinty, prevScore+delta)
		t.contempt = dynamicContemptTrend(t, prevScore)
	}

	for {
		t.stack[0].pv = t.stack[0].pv[:0]
		var score = t.search(nodeRoot, alpha, beta, depth, 0)

		if t.pool != nil && t.pool.stop.Load() {
			return
		}

		sort.SliceStable(t.rootMoves[t.pvIdx:], func(i, j int) bool {
			return t.rootMoves[t.pvIdx+i].Score > t.rootMoves[t.pvIdx+j].Score
		})

		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = maxV(-ValueInfinty, score-delta)
		} else if score >= beta {
			beta = minV(ValueInfinty, score+delta)
		} else {
			return
		}
		delta += delta/4 + 5
	}
}

// dynamicContemptTrend computes section 4.6's aspiration trend,
// `tr = dynamicContempt * 113*prev/(|prev|+147)`, White-relative so it
// composes with thread.evaluate's own side-to-move flip: `Options.
// DynamicContempt` is this repo's on/off knob for the teacher's scaled
// "Dynamic Contempt" option, so it contributes as 0 or 1.
func dynamicContemptTrend(t *thread, prevScore Value) Value {
	if t.pool == nil || !t.pool.options.DynamicContempt {
		return 0
	}
	var tr = 113 * prevScore / (absV(prevScore) + 147)
	if t.rootPos.WhiteMove {
		return tr
	}
	return -tr
}
