package tablebase

import (
	"sync"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

// CachedProber wraps another Prober with a simple size-bounded cache
// keyed by the zobrist key, grounded on hailam-chessplay's
// internal/tablebase/cached.go (its own key was a position hash; here
// it is chess.Position.Key). Root probing is never cached, since it
// needs to examine every legal move rather than just the
// position's class.
type CachedProber struct {
	inner   Prober
	cache   map[uint64]ProbeResult
	mu      sync.RWMutex
	maxSize int
	hits    uint64
	misses  uint64
}

func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	return &CachedProber{
		inner:   inner,
		cache:   make(map[uint64]ProbeResult, cacheSize),
		maxSize: cacheSize,
	}
}

func (cp *CachedProber) Probe(pos *chess.Position) ProbeResult {
	cp.mu.RLock()
	if result, ok := cp.cache[pos.Key]; ok {
		cp.mu.RUnlock()
		cp.mu.Lock()
		cp.hits++
		cp.mu.Unlock()
		return result
	}
	cp.mu.RUnlock()

	var result = cp.inner.Probe(pos)

	cp.mu.Lock()
	cp.misses++
	if len(cp.cache) >= cp.maxSize {
		var i = 0
		for k := range cp.cache {
			if i >= cp.maxSize/2 {
				break
			}
			delete(cp.cache, k)
			i++
		}
	}
	cp.cache[pos.Key] = result
	cp.mu.Unlock()

	return result
}

func (cp *CachedProber) ProbeRoot(pos *chess.Position) RootResult {
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate reports the cache's running hit percentage, useful for UCI
// "debug" output.
func (cp *CachedProber) HitRate() float64 {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	var total = cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}

func (cp *CachedProber) Clear() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.cache = make(map[uint64]ProbeResult, cp.maxSize)
	cp.hits = 0
	cp.misses = 0
}
