package search

import "testing"

func TestTranspositionTableProbeSaveRoundTrip(t *testing.T) {
	var tt = NewTranspositionTable(1)
	var key = uint64(0x1122334455667788)

	var probe = tt.Probe(key)
	if probe.Hit {
		t.Fatal("Probe on an empty table reported a hit")
	}

	var move = Move(12345)
	tt.Save(probe, Value(57), Value(-12), BoundExact, Depth(7), move, true)

	var probe2 = tt.Probe(key)
	if !probe2.Hit {
		t.Fatal("Probe after Save did not find the entry")
	}
	if probe2.Move != move || probe2.Value != 57 || probe2.Eval != -12 ||
		probe2.Depth != 7 || probe2.Bound != BoundExact || !probe2.IsPV {
		t.Fatalf("round-tripped entry mismatch: %+v", probe2)
	}
}

func TestTranspositionTableKeyCollisionMiss(t *testing.T) {
	var tt = NewTranspositionTable(1)
	var keyA = uint64(0x00000000_00000001)
	var keyB = keyA + (1 << 32) // shares the low bits (cluster index), differs in the high key fragment

	tt.Save(tt.Probe(keyA), Value(10), ValueNone, BoundExact, Depth(3), Move(1), false)

	var probeB = tt.Probe(keyB)
	if probeB.Hit {
		t.Fatal("Probe matched a different key's high fragment")
	}
}

func TestHashfullEmptyTable(t *testing.T) {
	var tt = NewTranspositionTable(1)
	if h := tt.Hashfull(); h != 0 {
		t.Fatalf("Hashfull() on an empty table = %v, want 0", h)
	}
}

func TestLmrMonotonicInDepthAndMoveCount(t *testing.T) {
	var o = DefaultOptions()
	for d := 1; d < 63; d++ {
		if o.lmr(d, 10) > o.lmr(d+1, 10) {
			t.Fatalf("lmr(%v,10)=%v > lmr(%v,10)=%v, want non-decreasing in depth",
				d, o.lmr(d, 10), d+1, o.lmr(d+1, 10))
		}
	}
	for m := 1; m < 63; m++ {
		if o.lmr(20, m) > o.lmr(20, m+1) {
			t.Fatalf("lmr(20,%v)=%v > lmr(20,%v)=%v, want non-decreasing in move count",
				m, o.lmr(20, m), m+1, o.lmr(20, m+1))
		}
	}
}

func TestSortRootMovesPreservesNegInfOrder(t *testing.T) {
	var rm = []RootMove{
		{PV: []Move{1}, Score: -ValueInfinty},
		{PV: []Move{2}, Score: 50},
		{PV: []Move{3}, Score: -ValueInfinty},
		{PV: []Move{4}, Score: 100},
	}
	sortRootMoves(rm)

	var want = []Move{4, 2, 1, 3}
	for i, m := range want {
		if rm[i].PV[0] != m {
			t.Fatalf("sortRootMoves()[%v] = %v, want %v", i, rm[i].PV[0], m)
		}
	}
}
