// Package tablebase is the WDL/DTZ probe collaborator named in
// spec.md section 6 (out-of-scope for the search core itself, but
// named as an external interface C5/C6 consult at shallow depth and
// root). Grounded on hailam-chessplay's internal/tablebase package,
// adapted from its board.Position/board.Move types to this repo's
// internal/chess equivalents.
package tablebase

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// WDL is a tablebase result class, including the 50-move-rule-aware
// "cursed"/"blessed" variants (hailam-chessplay's WDL).
type WDL int

const (
	WDLLoss        WDL = -2
	WDLBlessedLoss WDL = -1 // loss in theory, but the 50-move rule may save it
	WDLDraw        WDL = 0
	WDLCursedWin   WDL = 1 // win in theory, but the 50-move rule may spoil it
	WDLWin         WDL = 2
)

// ProbeResult is one position's tablebase classification.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTZ   int
}

// RootResult is ProbeRoot's richer answer: which move to play, not
// just the position's class.
type RootResult struct {
	Found bool
	Move  chess.Move
	WDL   WDL
	DTZ   int
}

// Prober is the collaborator search consults; NoopProber satisfies it
// trivially when no tablebase set is configured.
type Prober interface {
	Probe(pos *chess.Position) ProbeResult
	ProbeRoot(pos *chess.Position) RootResult
	MaxPieces() int
	Available() bool
}

// NoopProber always reports "not found". cmd/counter installs it on
// Engine.Pool whether or not a Syzygy path is configured.
type NoopProber struct{}

func (NoopProber) Probe(pos *chess.Position) ProbeResult  { return ProbeResult{} }
func (NoopProber) ProbeRoot(pos *chess.Position) RootResult { return RootResult{} }
func (NoopProber) MaxPieces() int                          { return 0 }
func (NoopProber) Available() bool                         { return false }

// ToScore converts a WDL classification to a search-scale centipawn
// score, cursed/blessed results scored closer to a draw than a clean
// win/loss, matching hailam-chessplay's WDLToScore.
func ToScore(wdl WDL, ply int) int {
	const mateScore = 32000
	switch wdl {
	case WDLWin:
		return mateScore - ply
	case WDLCursedWin:
		return mateScore - 100 - ply
	case WDLDraw:
		return 0
	case WDLBlessedLoss:
		return -mateScore + 100 + ply
	case WDLLoss:
		return -mateScore + ply
	default:
		return 0
	}
}

// CountPieces is the piece-count gate callers use against
// MaxPieces() before bothering to probe.
func CountPieces(pos *chess.Position) int {
	var occ = pos.White | pos.Black
	var count = 0
	for occ != 0 {
		occ &= occ - 1
		count++
	}
	return count
}
