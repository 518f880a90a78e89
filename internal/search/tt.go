package search

import "sync/atomic"

// Transposition table (C1). Entries are grouped into clusters of
// three, probed linearly. Unlike the teacher's single-entry, CAS-spinlocked
// transTable (pkg/engine/transtable.go), clusters here are read and
// written with plain atomic word loads/stores and no lock at all: the
// spec's concurrency model (section 5) asks for genuinely lock-free
// racy access where a reader re-verifies the key fragment rather than
// ever blocking on a writer. Each entry is a 32-bit key fragment plus
// two 64-bit data words (24 bytes with padding, so a cluster spans 72
// bytes); Save writes the key fragment last.
const clusterSize = 3

type ttEntry struct {
	key  atomic.Uint32 // high 32 bits of the zobrist key
	lo   atomic.Uint64 // move(32) | value(16) | depth(8) | bound(2)|isPV(1) packed in top byte
	hi   atomic.Uint64 // eval(16) | generation(5)
}

type ttCluster struct {
	entries [clusterSize]ttEntry
}

type TranspositionTable struct {
	clusters   []ttCluster
	mask       uint64
	generation atomic.Uint32 // low 5 bits used (see generationByte)
}

func NewTranspositionTable(megabytes int) *TranspositionTable {
	if megabytes < 1 {
		megabytes = 1
	}
	var count = roundPowerOfTwo(megabytes * 1024 * 1024 / 32 / clusterSize)
	if count < 1 {
		count = 1
	}
	return &TranspositionTable{
		clusters: make([]ttCluster, count),
		mask:     uint64(count - 1),
	}
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for x<<1 <= size {
		x <<= 1
	}
	return x
}

func (tt *TranspositionTable) Resize(megabytes int) {
	*tt = *NewTranspositionTable(megabytes)
}

func (tt *TranspositionTable) Clear() {
	tt.clusters = make([]ttCluster, len(tt.clusters))
	tt.generation.Store(0)
}

// NewSearch bumps the generation, the aging counter the replacement
// policy in save() discounts against (section 4.1's new_search()).
func (tt *TranspositionTable) NewSearch() {
	tt.generation.Add(1)
}

// generationByte returns the current 5-bit generation value packed
// into encoded entries (0-31, wrapping).
func (tt *TranspositionTable) generationByte() uint8 {
	return uint8(tt.generation.Load()) & 0x1f
}

// TTData is the decoded view of one probed entry, handed back
// regardless of hit/miss: section 9's open question preserves reading
// ttDepth/ttBound/ttMove off the replacement candidate even on a miss,
// since save() needs somewhere to write.
type TTData struct {
	Move     Move
	Value    Value
	Eval     Value
	Depth    Depth
	Bound    Bound
	IsPV     bool
	Hit      bool
	keyHigh  uint32
	entry    *ttEntry
}

// Probe locates the cluster by the low bits of key and searches its
// three entries for a matching key fragment (section 4.1). On a miss
// it selects, and returns a pointer into, the entry that save() should
// overwrite: the one with the smallest depth discounted by how stale
// its generation is.
func (tt *TranspositionTable) Probe(key uint64) TTData {
	var cluster = &tt.clusters[key&tt.mask]
	var keyHigh = uint32(key >> 32)
	var gen = tt.generationByte()

	var replace *ttEntry
	var replaceScore = 1 << 30
	for i := range cluster.entries {
		var e = &cluster.entries[i]
		var k = e.key.Load()
		var lo = e.lo.Load()
		if k == keyHigh && lo != 0 {
			var hi = e.hi.Load()
			if e.key.Load() == keyHigh {
				var td = decodeTT(lo, hi)
				td.Hit = true
				td.keyHigh = keyHigh
				td.entry = e
				return td
			}
		}
		var depth = int(int8(lo >> 48))
		var entryGen = uint8(e.hi.Load()) & 0x1f
		var age = int(uint8(gen-entryGen) & 0x1f)
		var score = depth - 2*age
		if score < replaceScore {
			replaceScore = score
			replace = e
		}
	}
	return TTData{keyHigh: keyHigh, entry: replace}
}

// Save writes a search result into the cluster slot identified by a
// prior Probe call, preserving a deeper same-key entry unless the new
// write carries more information, and keeping the PV flag sticky
// (section 4.1).
func (tt *TranspositionTable) Save(probe TTData, value, eval Value, bound Bound, depth Depth, move Move, isPV bool) {
	if probe.entry == nil {
		return
	}
	var e = probe.entry
	var oldLo = e.lo.Load()
	var oldHi = e.hi.Load()
	var sameKey = e.key.Load() == probe.keyHigh && oldLo != 0

	if move == moveNone && sameKey {
		move = decodeTT(oldLo, oldHi).Move
	}

	if sameKey {
		var oldDepth = Depth(int8(oldLo >> 48))
		if depth < oldDepth-4 && bound != BoundExact {
			return
		}
		isPV = isPV || decodeTT(oldLo, oldHi).IsPV
	}

	var gen = tt.generationByte()
	e.lo.Store(encodeLo(move, value, depth, bound, isPV))
	e.hi.Store(encodeHi(eval, gen))
	e.key.Store(probe.keyHigh)
}

func decodeTT(lo, hi uint64) TTData {
	var flags = uint8(lo >> 56)
	return TTData{
		Move:  Move(uint32(lo)),
		Value: Value(int16(lo >> 32)),
		Depth: Depth(int8(lo >> 48)),
		Bound: Bound(flags & 0x3),
		IsPV:  (flags>>2)&1 != 0,
		Eval:  Value(int16(hi)),
	}
}

func encodeLo(move Move, value Value, depth Depth, bound Bound, isPV bool) uint64 {
	var d = uint64(uint32(move))
	d |= uint64(uint16(int16(value))) << 32
	d |= uint64(uint8(int8(depth))) << 48
	var flags = uint8(bound & 0x3)
	if isPV {
		flags |= 1 << 2
	}
	d |= uint64(flags) << 56
	return d
}

func encodeHi(eval Value, gen uint8) uint64 {
	return uint64(uint16(int16(eval))) | uint64(gen&0x1f)<<16
}

// Hashfull estimates the permille of the table occupied by entries
// written in the current generation (section 4.1); the UCI info line
// does not include it.
func (tt *TranspositionTable) Hashfull() int {
	var sample = minI(1000, len(tt.clusters))
	var gen = tt.generationByte()
	var used int
	for i := 0; i < sample; i++ {
		for j := range tt.clusters[i].entries {
			var lo = tt.clusters[i].entries[j].lo.Load()
			var hi = tt.clusters[i].entries[j].hi.Load()
			if lo != 0 && uint8(hi>>16)&0x1f == gen {
				used++
			}
		}
	}
	return used * 1000 / (sample * clusterSize)
}
