package search

import "sync/atomic"

// breadcrumbSize is the fixed table size section 4.3 calls for: a
// small, always-allocated array hashed into by zobrist key, not grown
// with thread count.
const breadcrumbSize = 1024

// breadcrumb records which worker last started searching a given
// position near the root, an advisory-only collision hint (section
// 4.3): nothing ever blocks on it, so relaxed atomics are enough.
type breadcrumb struct {
	key    atomic.Uint64
	thread atomic.Int32 // -1 means empty
}

// breadcrumbs is shared by every worker in a Pool, grounded on the
// teacher's lack of an equivalent (CounterGo does not implement
// multi-cut breadcrumbs); the shape follows Stockfish's ThreadPool
// owned low-level table, adapted here to spec section 4.3's contract.
type breadcrumbs struct {
	table [breadcrumbSize]breadcrumb
}

func newBreadcrumbs() *breadcrumbs {
	var b = &breadcrumbs{}
	for i := range b.table {
		b.table[i].thread.Store(-1)
	}
	return b
}

func (b *breadcrumbs) index(key uint64) int {
	return int(key % breadcrumbSize)
}

// mark claims the slot for key on behalf of threadID and returns a
// clear func the caller must run when it leaves that node, matching
// the RAII ScopedMoveList-style "enter/exit" pattern the teacher's
// moveIterator and pv helpers use elsewhere in this codebase.
func (b *breadcrumbs) mark(key uint64, threadID int) func() {
	var slot = &b.table[b.index(key)]
	slot.key.Store(key)
	slot.thread.Store(int32(threadID))
	return func() {
		if slot.key.Load() == key {
			slot.thread.Store(-1)
		}
	}
}

// occupied reports whether some other thread currently has a
// breadcrumb at key; search then marks the node and reduces its later
// moves one ply less (section 4.3).
func (b *breadcrumbs) occupied(key uint64, threadID int) bool {
	var slot = &b.table[b.index(key)]
	var t = slot.thread.Load()
	return t != -1 && t != int32(threadID) && slot.key.Load() == key
}
