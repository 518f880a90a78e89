package search

import (
	"context"
	"testing"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

// materialEvaluator is a minimal Evaluator good enough to drive the
// search in tests without depending on internal/eval: it never needs
// to be a strong evaluation, only a deterministic one that prefers
// having more material.
type materialEvaluator struct{}

var pieceValue = [chess.PieceNB]int{0, 100, 320, 330, 500, 900, 0}

func (materialEvaluator) Evaluate(pos *chess.Position) int {
	var total int
	for sq := 0; sq < 64; sq++ {
		var piece = pos.PieceOn(sq)
		if piece == chess.Empty {
			continue
		}
		var sign = 1
		if (uint64(1)<<sq)&pos.Black != 0 {
			sign = -1
		}
		total += sign * pieceValue[piece]
	}
	if !pos.WhiteMove {
		total = -total
	}
	return total
}

func searchFEN(t *testing.T, fen string, depth int) MainLine {
	t.Helper()
	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	var eng = NewEngine(materialEvaluator{})
	eng.Options.Threads = 1
	eng.Prepare()
	var info = eng.Search(context.Background(), SearchParams{
		Positions: []chess.Position{pos},
		Limits:    LimitsType{Depth: depth},
	})
	return MainLine{PV: info.MainLine, Score: Value(scoreFromInfo(info))}
}

func scoreFromInfo(info SearchInfo) int {
	if info.Score.Mate != 0 {
		if info.Score.Mate > 0 {
			return int(Mate)
		}
		return int(-Mate)
	}
	return info.Score.Centipawns
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Corner king on h8 with its own pawns on f7/g7/h7 leaves g8 as the
	// only flight square; Qb1-b8 covers it along the rank, mating.
	var ml = searchFEN(t, "7k/5ppp/8/8/8/8/8/1Q2K3 w - - 0 1", 4)
	if len(ml.PV) == 0 {
		t.Fatal("search returned an empty PV")
	}
	var best = ml.PV[0]
	if best.String() != "b1b8" {
		t.Fatalf("PV[0] = %v, want b1b8 (mate in one)", best)
	}
}

func TestSearchStalemateIsDraw(t *testing.T) {
	var pos, err = chess.NewPositionFromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	if len(pos.GenerateLegalMoves()) != 0 {
		t.Fatalf("fixture is not a stalemate, black has legal moves")
	}

	var ml = searchFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 4)
	if len(ml.PV) != 0 {
		t.Fatalf("PV = %v, want empty (no legal moves to search)", ml.PV)
	}
	if ml.Score != 0 {
		t.Fatalf("Score = %v, want 0 for a position with no legal moves", ml.Score)
	}
}

func TestIsExcludedRootMoveAfterMultiPVSlot(t *testing.T) {
	var th = newThread(0, NewTranspositionTable(1), newBreadcrumbs(), materialEvaluator{})
	th.rootMoves = []RootMove{
		{PV: []Move{1}},
		{PV: []Move{2}},
	}
	th.pvIdx = 1
	if !th.isExcludedRootMove(1) {
		t.Fatal("move already in an earlier PV slot should be excluded")
	}
	if th.isExcludedRootMove(2) {
		t.Fatal("the current slot's own move should not be excluded")
	}
}
