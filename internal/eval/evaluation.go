// Package eval is the static position evaluator the search engine
// consumes through the single-function eval(pos) -> Value contract of
// spec.md section 6. It is an out-of-scope collaborator: a tapered
// material+piece-square evaluator, grounded on the teacher's
// pkg/eval/pesto package, simplified (no phase-dependent scaling
// table) since the search core, not eval quality, is what this repo
// covers.
package eval

import (
	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

const (
	minorPhase = 4
	rookPhase  = 6
	queenPhase = 12
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

// score packs a middlegame/endgame pair into one int32, the teacher's
// tapered-eval trick (pkg/eval/pesto.Score) avoiding two parallel
// arrays.
type score int32

func s(mg, eg int16) score { return score(int32(mg)<<16 + int32(eg)) }
func (sc score) mg() int16 { return int16(uint32(sc+0x8000) >> 16) }
func (sc score) eg() int16 { return int16(sc) }

// Service holds no mutable state; Evaluate is pure given a Position,
// matching the eval(pos) -> Value collaborator contract.
type Service struct{}

func NewService() *Service { return &Service{} }

// Evaluate returns a centipawn score from the side-to-move's point of
// view, as spec.md section 6 requires of the eval collaborator.
func (e *Service) Evaluate(p *chess.Position) int {
	var total score
	var pieceCount [2][chess.PieceNB]int

	for bb, side := p.White, true; ; {
		for x := bb; x != 0; x &= x - 1 {
			sq := chess.FirstOne(x)
			piece := p.PieceOn(sq)
			total += pstValue(piece, side, sq)
			pieceCount[sideIndex(side)][piece]++
		}
		if !side {
			break
		}
		bb, side = p.Black, false
	}

	if pieceCount[0][chess.Bishop] >= 2 {
		total += bishopPairBonus
	}
	if pieceCount[1][chess.Bishop] >= 2 {
		total -= bishopPairBonus
	}

	var forceWhite = minorPhase*(pieceCount[0][chess.Knight]+pieceCount[0][chess.Bishop]) +
		rookPhase*pieceCount[0][chess.Rook] + queenPhase*pieceCount[0][chess.Queen]
	var forceBlack = minorPhase*(pieceCount[1][chess.Knight]+pieceCount[1][chess.Bishop]) +
		rookPhase*pieceCount[1][chess.Rook] + queenPhase*pieceCount[1][chess.Queen]

	var phase = forceWhite + forceBlack
	if phase > totalPhase {
		phase = totalPhase
	}

	var result = (int(total.mg())*phase + int(total.eg())*(totalPhase-phase)) / totalPhase

	if !p.WhiteMove {
		result = -result
	}
	return result
}

func sideIndex(white bool) int {
	if white {
		return 0
	}
	return 1
}

func pstValue(piece int, white bool, sq int) score {
	if !white {
		sq = chess.FlipSquare(sq)
	}
	var v = pst[piece][sq]
	if white {
		return v
	}
	return -v
}

var bishopPairBonus = s(30, 38)
