// Package search is the search engine proper: iterative deepening,
// alpha-beta PV/non-PV search, quiescence, move ordering heuristics,
// the transposition table protocol and multi-thread coordination
// described by sections 2-5 of the specification this repository
// implements. It consumes position mutation, move generation and
// static evaluation from internal/chess and internal/eval as narrow
// collaborators (section 6), the way the teacher's pkg/engine package
// consumes pkg/common and an injected evaluator.
package search

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// Move is re-exported so callers of this package never need to import
// internal/chess directly for the handle type.
type Move = chess.Move

const moveNone = chess.MoveEmpty

// Value is signed centipawns, with a mate family layered on top of the
// ordinary score range exactly as section 3 describes.
type Value int32

const (
	ValueZero    Value = 0
	ValueDraw    Value = 0
	ValueNone    Value = 32002
	ValueInfWin  Value = 32001
	ValueInfinty       = ValueInfWin
	Mate         Value = 32000
	MaxPly             = 246
)

func mateIn(ply int) Value  { return Mate - Value(ply) }
func matedIn(ply int) Value { return -Mate + Value(ply) }

// MateInMaxPly / TBWinInMaxPly / TBLossInMaxPly are the thresholds the
// spec names for distinguishing "forced mate found" from "merely a big
// score" at pruning and reporting sites.
const (
	MateInMaxPly     = Mate - Value(MaxPly)
	MatedInMaxPly     = -MateInMaxPly
	TBWinInMaxPly    = MateInMaxPly - 1
	TBLossInMaxPly   = -TBWinInMaxPly
	KnownWin         = Value(10000)
)

// Depth is signed plies. The special negative depths select the
// quiescence search's check-generation mode.
type Depth int32

const (
	DepthQSChecks   Depth = 0
	DepthQSNoChecks Depth = -1
	DepthNone       Depth = -6
)

// Bound records whether a stored/returned value is an upper bound, a
// lower bound, or exact (both at once).
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundUpper Bound = 1
	BoundLower Bound = 2
	BoundExact       = BoundUpper | BoundLower
)

// nodeKind is the static-polymorphism tag of section 9's design note:
// the three node kinds share one algorithm skeleton, told apart here
// by a plain enum rather than three monomorphised copies.
type nodeKind uint8

const (
	nodeNonPV nodeKind = iota
	nodePV
	nodeRoot
)

func valueToTT(v Value, ply int) Value {
	if v == ValueNone {
		return v
	}
	if v >= TBWinInMaxPly {
		return v + Value(ply)
	}
	if v <= TBLossInMaxPly {
		return v - Value(ply)
	}
	return v
}

// valueFromTT is the inverse adjustment, plus the graph-history
// interaction guard from section 3: a stored mate score is demoted
// when the rule-50 counter could plausibly prevent it from being
// delivered.
func valueFromTT(v Value, ply, rule50 int) Value {
	if v == ValueNone {
		return v
	}
	if v >= TBWinInMaxPly {
		if v >= MateInMaxPly && Mate-v > Value(99-rule50) {
			return MateInMaxPly - 1
		}
		return v - Value(ply)
	}
	if v <= TBLossInMaxPly {
		if v <= -MateInMaxPly && Mate+v > Value(99-rule50) {
			return -MateInMaxPly + 1
		}
		return v + Value(ply)
	}
	return v
}

func minV(a, b Value) Value {
	if a < b {
		return a
	}
	return b
}
func maxV(a, b Value) Value {
	if a > b {
		return a
	}
	return b
}
func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
func absI(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
func absV(v Value) Value {
	if v < 0 {
		return -v
	}
	return v
}
