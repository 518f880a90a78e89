package search

import (
	"context"
	"math"
	"time"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
	"github.com/ChizhovVadim/CounterGo/internal/experience"
	"github.com/ChizhovVadim/CounterGo/internal/timemanager"
)

// LimitsType mirrors the teacher's common.LimitsType (pkg/common),
// the UCI "go" command's option bag.
type LimitsType struct {
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

// SearchParams is the Engine.Search input: the position history (so
// repetition detection can see moves played before the search began)
// plus the limits for this call.
type SearchParams struct {
	Positions []chess.Position
	Limits    LimitsType
	Progress  func(SearchInfo)
}

// UciScore is the teacher's pair of "one or the other is set" score
// kinds (pkg/common.UciScore).
type UciScore struct {
	Centipawns int
	Mate       int
}

// WDL is the win/draw/loss per-mille triple original_source reports
// alongside the score when UCI_ShowWDL is on (FEATURES SUPPLEMENTED).
type WDL struct {
	Win, Draw, Loss int
}

// SearchInfo is one reported line, either a mid-search progress update
// or the final result, generalizing the teacher's SearchInfo
// (pkg/common) with SelDepth, MultiPV index and an optional WDL.
type SearchInfo struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    UciScore
	WDL      *WDL
	Nodes    int64
	Time     time.Duration
	MainLine []Move
}

// Engine wires a Pool, a time manager and an injected Evaluator into
// the single Search(ctx, params) entrypoint the teacher's
// pkg/engine.Engine exposes, generalized to this spec's richer Options
// and WDL reporting.
type Engine struct {
	Options Options
	Pool    *Pool

	start time.Time
}

func NewEngine(eval Evaluator) *Engine {
	return &Engine{
		Options: DefaultOptions(),
		Pool:    NewPool(eval),
	}
}

func (e *Engine) Prepare() {
	e.Pool.SetOptions(e.Options)
}

// Clear resets heuristic state between games ("ucinewgame").
func (e *Engine) Clear() {
	e.Pool.Clear()
}

// SetExperienceStore wires a persisted write-only experience sink;
// every completed root iteration's conclusion is recorded, never
// consulted mid-search. Passing nil disables recording.
func (e *Engine) SetExperienceStore(store *experience.Store) {
	if store == nil {
		e.Pool.SetExperienceSink(nil)
		return
	}
	e.Pool.SetExperienceSink(func(key uint64, depth int, score Value, move Move) {
		_ = store.Record(key, experience.Record{Depth: depth, Score: int(score), Move: move})
	})
}

// Search runs every worker thread's iterative-deepening loop until ctx
// is done or a configured limit is reached, reporting intermediate
// lines through params.Progress and returning the final one.
func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()

	var p = &params.Positions[len(params.Positions)-1]
	var tmLimits = timemanager.Limits{
		Ponder:         params.Limits.Ponder,
		Infinite:       params.Limits.Infinite,
		WhiteTime:      params.Limits.WhiteTime,
		BlackTime:      params.Limits.BlackTime,
		WhiteIncrement: params.Limits.WhiteIncrement,
		BlackIncrement: params.Limits.BlackIncrement,
		MoveTime:       params.Limits.MoveTime,
		MovesToGo:      params.Limits.MovesToGo,
		Depth:          params.Limits.Depth,
		Nodes:          params.Limits.Nodes,
	}
	var tctx, tm = timemanager.New(ctx, e.start, tmLimits, p.WhiteMove)
	defer tm.Close()

	e.Pool.nodesLimit = params.Limits.Nodes
	e.Pool.onIteration = func(ml MainLine) {
		tm.OnIterationComplete(timemanager.IterationInfo{Depth: ml.Depth, Score: int(ml.Score)})
		if params.Progress != nil {
			params.Progress(e.toSearchInfo(ml))
		}
	}

	var history = params.Positions[:len(params.Positions)-1]
	var legal = p.GenerateLegalMoves()

	var result = e.Pool.Run(tctx, p, history, legal)
	return e.toSearchInfo(result)
}

func (e *Engine) toSearchInfo(ml MainLine) SearchInfo {
	var info = SearchInfo{
		Depth:    ml.Depth,
		SelDepth: ml.SelDepth,
		MultiPV:  ml.MultiPV,
		Score:    newUciScore(ml.Score),
		Nodes:    ml.Nodes,
		Time:     time.Since(e.start),
		MainLine: ml.PV,
	}
	if e.Options.ShowWDL {
		info.WDL = winDrawLossModel(ml.Score)
	}
	return info
}

func newUciScore(v Value) UciScore {
	if v >= MateInMaxPly {
		return UciScore{Mate: int(Mate-v+1) / 2}
	}
	if v <= -MateInMaxPly {
		return UciScore{Mate: int(-Mate-v) / 2}
	}
	return UciScore{Centipawns: int(v)}
}

// winDrawLossModel is a simple centipawn->WDL logistic, the
// "not NNUE-calibrated" conversion SPEC_FULL.md's FEATURES
// SUPPLEMENTED section asks for in place of Stockfish's fitted model.
func winDrawLossModel(score Value) *WDL {
	var x = float64(score)
	var win = 1.0 / (1.0 + math.Exp(-x/200.0))
	var loss = 1.0 / (1.0 + math.Exp(x/200.0))
	var draw = 1.0 - win - loss
	if draw < 0 {
		draw = 0
	}
	return &WDL{
		Win:  int(win * 1000),
		Draw: int(draw * 1000),
		Loss: int(loss * 1000),
	}
}
