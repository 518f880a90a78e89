package search

import (
	"math/rand"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

var goldenRatioU64 uint64 = 0x9e3779b97f4a7c15
var goldenRatio64 = int64(goldenRatioU64)

// Evaluator is the narrow static-evaluation collaborator (section 6):
// search never inspects position internals beyond what chess.Position
// already exposes, and never inspects eval internals beyond this one
// method.
type Evaluator interface {
	Evaluate(pos *chess.Position) int
}

// RootMove is one candidate at the root, carrying the bookkeeping
// iterative deepening and MultiPV need across iterations: previous
// score (for aspiration re-centering), average score (for stability
// checks), and TB classification (section 3's "Root move").
type RootMove struct {
	PV            []Move
	Score         Value
	PreviousScore Value
	AverageScore  Value
	SelDepth      int
	TBRank        int
	TBScore       Value
}

// thread is one worker's private state: its own stack, heuristic
// tables and root-move list, touching shared state only through tt,
// crumbs and the pool's atomic stop flag (section 5's "everything
// else is thread-local").
type thread struct {
	id       int
	pool     *Pool
	tt       *TranspositionTable
	crumbs   *breadcrumbs
	eval     Evaluator
	h        *heuristics
	stack    []stackEntry
	pickers  []movePicker
	qpickers []qMovePicker
	history  []chess.Position // positions since the last irreversible move, for repetition detection
	rng      *rand.Rand

	nodes          int64
	rootDepth      Depth
	selDepth       int
	pvIdx          int
	pvLast         int
	rootMoves      []RootMove
	rootPos        chess.Position
	completedDepth Depth
	contempt       Value // white-relative dynamic-contempt trend, section 4.6
}

func newThread(id int, tt *TranspositionTable, crumbs *breadcrumbs, eval Evaluator) *thread {
	var t = &thread{
		id:     id,
		tt:     tt,
		crumbs: crumbs,
		eval:   eval,
		h:      newHeuristics(),
		stack:  newStack(),
		rng:    rand.New(rand.NewSource(int64(id)*goldenRatio64 + 1)),
	}
	t.pickers = make([]movePicker, len(t.stack))
	t.qpickers = make([]qMovePicker, len(t.stack))
	for i := range t.stack {
		var p = new(chess.Position)
		t.stack[i].pos = p
	}
	return t
}

func (t *thread) clearForNewGame() {
	t.h.clear()
}

// pushMove plays move at ply, advancing to ply+1's position slot and
// threading continuation-history pointers the way
// updateContinuationHistories expects to find them.
func (t *thread) pushMove(ply int, move Move) {
	var ss = &t.stack[ply]
	var child = &t.stack[ply+1]

	ss.currentMove = move
	child.inCheck = child.pos.IsCheck()
	child.excludedMove = moveNone
	child.killers = [2]Move{}

	if move != moveNone {
		child.contHistPtr[0] = t.h.continuationTable(move.MovingPiece(), move.To())
		for i := 1; i < len(child.contHistPtr); i++ {
			child.contHistPtr[i] = ss.contHistPtr[i-1]
		}
	} else {
		for i := range child.contHistPtr {
			child.contHistPtr[i] = nil
		}
	}

	t.nodes++
	if t.nodes&1023 == 0 {
		t.pool.pollTime(t)
	}
}

func (t *thread) popMove(ply int) {
	_ = ply
}

// evaluate wraps the injected Evaluator with section 4.6's dynamic
// contempt trend: t.contempt is White-relative, so it flips sign the
// same way the Evaluator's own side-to-move-relative score does.
func (t *thread) evaluate(pos *chess.Position) Value {
	var v = Value(t.eval.Evaluate(pos))
	if t.contempt != 0 {
		if pos.WhiteMove {
			v += t.contempt
		} else {
			v -= t.contempt
		}
	}
	return v
}

// assignPV splices move in front of the child ply's principal
// variation, the teacher's pv.assign (pkg/engine/engine.go)
// generalised from a fixed-size array to a slice.
func (t *thread) assignPV(ply int, move Move) {
	var ss = &t.stack[ply]
	var child = &t.stack[ply+1]
	ss.pv = append(ss.pv[:0], move)
	ss.pv = append(ss.pv, child.pv...)
}

// varietyNoise perturbs the quiescence stand-pat score by a small
// random amount when Options.Variety is non-zero, the knob the spec's
// glossary names for deliberately weakening move choice in testing.
func (t *thread) varietyNoise() Value {
	if t.pool == nil || t.pool.options.Variety == 0 {
		return 0
	}
	return Value(t.rng.Intn(2*t.pool.options.Variety+1) - t.pool.options.Variety)
}

// isDraw matches the teacher's isDraw+thread.isRepeat pair
// (pkg/engine/search.go and engine.go's historyKeys map): a node is
// drawn by the 50-move rule, by a repetition found within this
// search's own stack, or by a position that already occurred twice in
// the game leading up to the search root (so this would be its
// third occurrence).
func (t *thread) isDraw(ply int) bool {
	var p = t.stack[ply].pos
	if p.Rule50 >= 100 {
		return true
	}
	if p.Rule50 == 0 {
		return false
	}
	for i := ply - 1; i >= 0; i-- {
		var q = t.stack[i].pos
		if q.Key == p.Key {
			return true
		}
		if q.Rule50 == 0 {
			return false
		}
	}
	return t.historyRepeatCount(p) >= 2
}

func (t *thread) historyRepeatCount(p *chess.Position) int {
	var count = 0
	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i].Key == p.Key {
			count++
		}
		if t.history[i].Rule50 == 0 {
			break
		}
	}
	return count
}
