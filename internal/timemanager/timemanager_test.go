package timemanager

import (
	"context"
	"testing"
	"time"
)

func TestNewInfiniteHasNoDeadline(t *testing.T) {
	var ctx, tm = New(context.Background(), time.Now(), Limits{Infinite: true}, true)
	defer tm.Close()

	if _, ok := ctx.Deadline(); ok {
		t.Fatal("infinite search context should have no deadline")
	}
	tm.OnIterationComplete(IterationInfo{Depth: 40, Score: MateValue})
	select {
	case <-ctx.Done():
		t.Fatal("infinite search must not be canceled by depth or a mate score")
	default:
	}
}

func TestDepthLimitCancelsOnReachedDepth(t *testing.T) {
	var ctx, tm = New(context.Background(), time.Now(), Limits{Depth: 10}, true)
	defer tm.Close()

	tm.OnIterationComplete(IterationInfo{Depth: 9, Score: 0})
	select {
	case <-ctx.Done():
		t.Fatal("depth 9 should not cancel a depth-10 limited search")
	default:
	}

	tm.OnIterationComplete(IterationInfo{Depth: 10, Score: 0})
	select {
	case <-ctx.Done():
	default:
		t.Fatal("reaching the configured depth should cancel the search")
	}
}

func TestNodesLimitCancels(t *testing.T) {
	var ctx, tm = New(context.Background(), time.Now(), Limits{Nodes: 1000}, true)
	defer tm.Close()

	tm.OnNodesChanged(999)
	select {
	case <-ctx.Done():
		t.Fatal("should not cancel before the node limit is reached")
	default:
	}

	tm.OnNodesChanged(1000)
	select {
	case <-ctx.Done():
	default:
		t.Fatal("reaching the node limit should cancel the search")
	}
}

func TestForcedMateScoreCancelsEarly(t *testing.T) {
	var ctx, tm = New(context.Background(), time.Now(), Limits{WhiteTime: 60 * time.Second}, true)
	defer tm.Close()

	tm.OnIterationComplete(IterationInfo{Depth: 5, Score: MateValue})
	select {
	case <-ctx.Done():
	default:
		t.Fatal("a confirmed forced mate should cancel the search early")
	}
}

func TestMoveTimeSetsHardDeadline(t *testing.T) {
	var start = time.Now()
	var ctx, tm = New(context.Background(), start, Limits{MoveTime: 50 * time.Millisecond}, true)
	defer tm.Close()

	var deadline, ok = ctx.Deadline()
	if !ok {
		t.Fatal("MoveTime limit should set a context deadline")
	}
	if !deadline.Equal(start.Add(50 * time.Millisecond)) {
		t.Fatalf("deadline = %v, want %v", deadline, start.Add(50*time.Millisecond))
	}
}

func TestCalcLimitsSoftNeverExceedsHard(t *testing.T) {
	for _, tc := range []struct {
		main, inc time.Duration
		moves     int
	}{
		{10 * time.Second, 0, 0},
		{10 * time.Second, 100 * time.Millisecond, 20},
		{500 * time.Millisecond, 0, 0},
		{2 * time.Minute, time.Second, 5},
	} {
		var soft, hard = calcLimits(tc.main, tc.inc, tc.moves)
		if soft > hard {
			t.Fatalf("calcLimits(%v,%v,%v): soft=%v > hard=%v", tc.main, tc.inc, tc.moves, soft, hard)
		}
		if soft < minTimeLimit || hard < minTimeLimit {
			t.Fatalf("calcLimits(%v,%v,%v): soft=%v hard=%v below minimum", tc.main, tc.inc, tc.moves, soft, hard)
		}
	}
}

func TestClampDuration(t *testing.T) {
	if v := clampDuration(5, 10, 20); v != 10 {
		t.Fatalf("clampDuration(5,10,20) = %v, want 10", v)
	}
	if v := clampDuration(30, 10, 20); v != 20 {
		t.Fatalf("clampDuration(30,10,20) = %v, want 20", v)
	}
	if v := clampDuration(15, 10, 20); v != 15 {
		t.Fatalf("clampDuration(15,10,20) = %v, want 15", v)
	}
}
