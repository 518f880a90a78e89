package search

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
	"github.com/ChizhovVadim/CounterGo/internal/tablebase"
	"golang.org/x/sync/errgroup"
)

// Pool is C7: the worker-coordination layer shared by every thread.
// Unlike the teacher's pkg/engine/lazysmp.go (one shared channel of
// depth-tagged tasks pulled by N identical workers), each thread here
// runs its own independent iterative-deepening loop end to end and
// the pool's job is purely the shared stop signal, the shared TT and
// breadcrumbs, and picking a winner at the end (section 4.6/4.7); the
// fan-out itself uses the teacher's own golang.org/x/sync/errgroup
// dependency instead of a hand-rolled sync.WaitGroup.
type Pool struct {
	options Options
	tt      *TranspositionTable
	crumbs  *breadcrumbs
	eval    Evaluator
	tb      tablebase.Prober

	threads []*thread
	stop    atomic.Bool

	mu           sync.Mutex
	onIteration  func(MainLine)
	onExperience func(key uint64, depth int, score Value, move Move)
	nodesLimit   int64
}

// MainLine is the aggregate result reported after every improving
// iteration, independent of which thread produced it.
type MainLine struct {
	Depth    int
	SelDepth int
	Score    Value
	PV       []Move
	Nodes    int64
	MultiPV  int
}

func NewPool(eval Evaluator) *Pool {
	var p = &Pool{
		options: DefaultOptions(),
		tt:      NewTranspositionTable(16),
		crumbs:  newBreadcrumbs(),
		eval:    eval,
		tb:      tablebase.NoopProber{},
	}
	p.resize()
	return p
}

func (p *Pool) resize() {
	for len(p.threads) != p.options.Threads {
		if len(p.threads) < p.options.Threads {
			p.threads = append(p.threads, newThread(len(p.threads), p.tt, p.crumbs, p.eval))
		} else {
			p.threads = p.threads[:len(p.threads)-1]
		}
	}
	for _, t := range p.threads {
		t.pool = p
	}
}

func (p *Pool) SetOptions(o Options) {
	var resize = o.Threads != p.options.Threads
	var rehash = o.Hash != p.options.Hash
	p.options = o
	if resize {
		p.resize()
	}
	if rehash {
		p.tt.Resize(o.Hash)
	}
}

// SetTablebase wires the WDL probe collaborator; passing nil restores
// the default NoopProber.
func (p *Pool) SetTablebase(tb tablebase.Prober) {
	if tb == nil {
		tb = tablebase.NoopProber{}
	}
	p.tb = tb
}

// SetExperienceSink wires a callback invoked with the nominal main
// thread's best line at the end of every completed iteration; passing
// nil (the default) disables it.
func (p *Pool) SetExperienceSink(fn func(key uint64, depth int, score Value, move Move)) {
	p.onExperience = fn
}

func (p *Pool) Clear() {
	if !p.options.NeverClearHash {
		p.tt.Clear()
	}
	for _, t := range p.threads {
		t.clearForNewGame()
	}
}

func (p *Pool) lmr(d, m int) int {
	return p.options.lmr(d, m)
}

// pollTime is every thread's per-1024-node checkpoint: it unwinds the
// thread with errSearchStopped once the pool's stop flag is set (by
// Stop, or by Run when its context is done) or once the summed node
// count of all threads reaches the node limit.
func (p *Pool) pollTime(t *thread) {
	if p.stop.Load() {
		panic(errSearchStopped)
	}
	if p.nodesLimit > 0 && p.totalNodes() >= p.nodesLimit {
		p.stop.Store(true)
		panic(errSearchStopped)
	}
}

func (p *Pool) totalNodes() int64 {
	var total int64
	for _, t := range p.threads {
		total += t.nodes
	}
	return total
}

// probeRootTablebase is the once-per-search root TB consult every
// thread's root moves are then annotated from (section 4.7's
// TBRank/TBScore grouping), rather than each thread probing
// separately for an identical answer.
func probeRootTablebase(tb tablebase.Prober, pos *chess.Position, probeLimit int) tablebase.RootResult {
	if tb == nil || !tb.Available() || pos.Rule50 != 0 {
		return tablebase.RootResult{}
	}
	if tablebase.CountPieces(pos) > minI(tb.MaxPieces(), probeLimit) {
		return tablebase.RootResult{}
	}
	return tb.ProbeRoot(pos)
}

// applyRootTablebase records the root tablebase score on every root
// move and gives the tablebase's chosen move TBRank 1. Nothing reads
// TBRank afterwards: iterative deepening neither groups nor sorts root
// moves by it, and Run moves the chosen move to the front instead.
func applyRootTablebase(rootMoves []RootMove, result tablebase.RootResult) {
	if !result.Found {
		return
	}
	for i := range rootMoves {
		rootMoves[i].TBScore = Value(tablebase.ToScore(result.WDL, 0))
		if rootMoves[i].PV != nil && len(rootMoves[i].PV) > 0 && rootMoves[i].PV[0] == result.Move {
			rootMoves[i].TBRank = 1
		}
	}
}

// errSearchStopped is the sentinel panic every thread's search loop
// recovers from, the teacher's errSearchTimeout
// (pkg/engine/lazysmp.go) renamed to match what actually triggers it
// here (a pool-wide stop, not only a clock deadline).
var errSearchStopped = newSentinel("search stopped")

type sentinelError string

func newSentinel(s string) error { return sentinelError(s) }
func (e sentinelError) Error() string { return string(e) }

// Run launches every thread's independent iterative-deepening loop
// (section 4.7), waits for them all via errgroup, then returns the
// line of the thread betterThread ranks best (deepest completed
// iteration, then highest root score).
func (p *Pool) Run(ctx context.Context, pos *chess.Position, history []chess.Position, rootLegal []Move) MainLine {
	p.stop.Store(false)
	p.tt.NewSearch()

	var g, gctx = errgroup.WithContext(ctx)
	_ = gctx

	var rootTB = probeRootTablebase(p.tb, pos, p.options.SyzygyProbeLimit)

	for _, t := range p.threads {
		var th = t
		th.nodes = 0
		th.rootPos = *pos
		th.stack[0].pos = &th.rootPos
		th.history = history
		th.completedDepth = 0
		th.initRootMoves(rootLegal, moveNone)
		applyRootTablebase(th.rootMoves, rootTB)
		if rootTB.Found {
			moveRootMoveToFront(th.rootMoves, rootTB.Move)
		}

		g.Go(func() error {
			runThread(ctx, p, th)
			return nil
		})
	}

	go func() {
		<-ctx.Done()
		p.stop.Store(true)
	}()

	g.Wait()

	return p.bestLine()
}

// Stop requests every running thread to return as soon as it next
// polls, used both by an explicit UCI "stop" and by the time manager's
// deadline.
func (p *Pool) Stop() {
	p.stop.Store(true)
}

func (p *Pool) bestLine() MainLine {
	var best = p.threads[0]
	for _, t := range p.threads[1:] {
		if betterThread(t, best) {
			best = t
		}
	}
	if len(best.rootMoves) == 0 {
		return MainLine{}
	}
	var rm = &best.rootMoves[0]
	return MainLine{
		Depth:    int(best.completedDepth),
		SelDepth: rm.SelDepth,
		Score:    rm.Score,
		PV:       rm.PV,
		Nodes:    p.totalNodes(),
		MultiPV:  1,
	}
}

// betterThread reports whether t ranks above the current pick (passed
// as main): a thread with root moves beats one without, a deeper
// completed iteration wins, and at equal depth the higher root score
// wins. No score-times-depth-difference vote against the nominal main
// thread is computed, and the MultiPV setting and depth limits do not
// change the choice.
func betterThread(t, main *thread) bool {
	if len(t.rootMoves) == 0 {
		return false
	}
	if len(main.rootMoves) == 0 {
		return true
	}
	if t.completedDepth != main.completedDepth {
		return t.completedDepth > main.completedDepth
	}
	return t.rootMoves[0].Score > main.rootMoves[0].Score
}
