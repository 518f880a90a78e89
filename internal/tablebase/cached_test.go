package tablebase

import (
	"testing"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

// countingProber records how many times Probe was actually called,
// so tests can tell a cache hit from a fresh probe.
type countingProber struct {
	calls  int
	result ProbeResult
}

func (cp *countingProber) Probe(pos *chess.Position) ProbeResult {
	cp.calls++
	return cp.result
}
func (cp *countingProber) ProbeRoot(pos *chess.Position) RootResult { return RootResult{} }
func (cp *countingProber) MaxPieces() int                          { return 6 }
func (cp *countingProber) Available() bool                         { return true }

func TestCachedProberHitsAfterFirstProbe(t *testing.T) {
	var inner = &countingProber{result: ProbeResult{Found: true, WDL: WDLWin, DTZ: 5}}
	var cached = NewCachedProber(inner, 16)

	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}

	var first = cached.Probe(&pos)
	var second = cached.Probe(&pos)

	if inner.calls != 1 {
		t.Fatalf("inner.calls = %v, want 1 (second Probe should be served from cache)", inner.calls)
	}
	if first != second {
		t.Fatalf("cached result mismatch: %+v != %+v", first, second)
	}
	if hr := cached.HitRate(); hr != 50 {
		t.Fatalf("HitRate() = %v, want 50", hr)
	}
}

func TestCachedProberClearForcesReprobe(t *testing.T) {
	var inner = &countingProber{result: ProbeResult{Found: true, WDL: WDLDraw}}
	var cached = NewCachedProber(inner, 16)

	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}

	cached.Probe(&pos)
	cached.Clear()
	cached.Probe(&pos)

	if inner.calls != 2 {
		t.Fatalf("inner.calls = %v, want 2 (Clear should force a fresh probe)", inner.calls)
	}
	if hr := cached.HitRate(); hr != 0 {
		t.Fatalf("HitRate() after Clear = %v, want 0", hr)
	}
}

func TestCachedProberEvictsAtHalfCapacity(t *testing.T) {
	var inner = &countingProber{result: ProbeResult{Found: true, WDL: WDLWin}}
	var cached = NewCachedProber(inner, 2)

	var base, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}

	// Three distinct keys into a size-2 cache: the third insert should
	// trigger the half-cache eviction sweep rather than growing forever.
	for i, key := range []uint64{1, 2, 3} {
		var pos = base
		pos.Key = key
		cached.Probe(&pos)
		_ = i
	}

	cached.mu.RLock()
	var size = len(cached.cache)
	cached.mu.RUnlock()

	if size > 2 {
		t.Fatalf("cache size = %v, want <= 2 after eviction sweep", size)
	}
}

func TestNoopProberUnavailable(t *testing.T) {
	var np = NoopProber{}
	if np.Available() {
		t.Fatal("NoopProber.Available() = true, want false")
	}
	if np.MaxPieces() != 0 {
		t.Fatalf("NoopProber.MaxPieces() = %v, want 0", np.MaxPieces())
	}
}

func TestToScorePrefersCleanWinOverCursed(t *testing.T) {
	if ToScore(WDLWin, 0) <= ToScore(WDLCursedWin, 0) {
		t.Fatal("a clean win should score higher than a cursed win at the same ply")
	}
	if ToScore(WDLDraw, 0) != 0 {
		t.Fatalf("ToScore(WDLDraw) = %v, want 0", ToScore(WDLDraw, 0))
	}
}
