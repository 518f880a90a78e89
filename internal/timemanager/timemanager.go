// Package timemanager derives soft/hard search deadlines from UCI
// "go" limits, grounded on the teacher's
// pkg/engine/simple_time_manager.go: a context.WithDeadline wraps the
// hard limit, and OnIterationComplete cancels early once the soft
// limit, a depth limit, or a won/lost mate score is reached.
package timemanager

import (
	"context"
	"time"
)

// Limits mirrors the UCI "go" command's option set (pkg/common.LimitsType).
type Limits struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration
	MoveTime       time.Duration
	MovesToGo      int
	Depth          int
	Nodes          int64
}

// IterationInfo is the subset of a completed iterative-deepening
// iteration the time manager reacts to.
type IterationInfo struct {
	Depth int
	Score int // centipawn score, with mate scores near +-MateValue
}

const (
	MateValue    = 32000
	moveOverhead = 300 * time.Millisecond
	minTimeLimit = 1 * time.Millisecond
	winMargin    = 5 // ply cushion before treating a score as a forced mate (section matches teacher's winIn(depth-5))
)

// Manager tracks a single search's deadlines and exposes the done
// signal as a context, the way the teacher wires timeManager into
// alphaBeta's node-count poll (pkg/engine/search.go's incNodes).
type Manager struct {
	start     time.Time
	limits    Limits
	softLimit time.Duration
	hardLimit time.Duration
	cancel    context.CancelFunc
	nodes     int64
}

// New builds a Manager and returns a context that is canceled once the
// hard limit (if any) elapses; sideToMove selects which clock/increment
// applies.
func New(ctx context.Context, start time.Time, limits Limits, sideToMoveIsWhite bool) (context.Context, *Manager) {
	var tm = &Manager{start: start, limits: limits}

	if limits.MoveTime > 0 {
		tm.hardLimit = limits.MoveTime
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if sideToMoveIsWhite {
			main, inc = limits.WhiteTime, limits.WhiteIncrement
		} else {
			main, inc = limits.BlackTime, limits.BlackIncrement
		}
		tm.softLimit, tm.hardLimit = calcLimits(main, inc, limits.MovesToGo)
	}

	var cancel context.CancelFunc
	if tm.hardLimit != 0 {
		ctx, cancel = context.WithDeadline(ctx, start.Add(tm.hardLimit))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	tm.cancel = cancel
	return ctx, tm
}

// OnNodesChanged cancels the search once the node limit, if any, is
// reached. The search engine does not call it; search.Pool enforces
// its node limit itself.
func (tm *Manager) OnNodesChanged(nodes int64) {
	if tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes {
		tm.cancel()
	}
}

// OnIterationComplete cancels the search once a depth limit is hit, a
// mate within a few plies of the root is confirmed, or the soft time
// budget is exhausted; infinite-analysis mode ("go infinite") disables
// all of these except an explicit stop.
func (tm *Manager) OnIterationComplete(info IterationInfo) {
	if tm.limits.Infinite {
		return
	}
	if tm.limits.Depth != 0 && info.Depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if info.Score >= MateValue-info.Depth+winMargin ||
		info.Score <= -MateValue+info.Depth-winMargin {
		tm.cancel()
		return
	}
	if tm.softLimit != 0 && time.Since(tm.start) >= tm.softLimit {
		tm.cancel()
		return
	}
}

// Close releases the manager's deadline/cancel resources; must be
// deferred by callers regardless of how the search ended.
func (tm *Manager) Close() {
	tm.cancel()
}

func calcLimits(main, inc time.Duration, moves int) (soft, hard time.Duration) {
	const defaultMovesToGo = 40

	main -= moveOverhead
	if main < minTimeLimit {
		main = minTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		if moves > defaultMovesToGo {
			moves = defaultMovesToGo
		}
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = clampDuration(hard, minTimeLimit, main)
	soft = clampDuration(soft, minTimeLimit, main)
	return
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
