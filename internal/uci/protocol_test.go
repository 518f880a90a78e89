package uci

import (
	"context"
	"testing"
	"time"

	"github.com/ChizhovVadim/CounterGo/internal/search"
)

type stubEngine struct {
	cleared  bool
	prepared bool
}

func (s *stubEngine) Prepare() { s.prepared = true }
func (s *stubEngine) Clear()   { s.cleared = true }
func (s *stubEngine) Search(ctx context.Context, params search.SearchParams) search.SearchInfo {
	return search.SearchInfo{}
}

func TestParseLimitsTimeControl(t *testing.T) {
	var limits = parseLimits([]string{"wtime", "60000", "btime", "55000", "winc", "1000", "movestogo", "20"})
	if limits.WhiteTime != 60*time.Second {
		t.Fatalf("WhiteTime = %v, want 60s", limits.WhiteTime)
	}
	if limits.BlackTime != 55*time.Second {
		t.Fatalf("BlackTime = %v, want 55s", limits.BlackTime)
	}
	if limits.WhiteIncrement != 1*time.Second {
		t.Fatalf("WhiteIncrement = %v, want 1s", limits.WhiteIncrement)
	}
	if limits.MovesToGo != 20 {
		t.Fatalf("MovesToGo = %v, want 20", limits.MovesToGo)
	}
}

func TestParseLimitsDepthAndInfinite(t *testing.T) {
	var limits = parseLimits([]string{"depth", "12"})
	if limits.Depth != 12 {
		t.Fatalf("Depth = %v, want 12", limits.Depth)
	}

	limits = parseLimits([]string{"infinite"})
	if !limits.Infinite {
		t.Fatal("Infinite should be true")
	}
}

func TestParseLimitsMoveTimeAndNodes(t *testing.T) {
	var limits = parseLimits([]string{"movetime", "5000", "nodes", "100000"})
	if limits.MoveTime != 5*time.Second {
		t.Fatalf("MoveTime = %v, want 5s", limits.MoveTime)
	}
	if limits.Nodes != 100000 {
		t.Fatalf("Nodes = %v, want 100000", limits.Nodes)
	}
}

func TestFindIndexString(t *testing.T) {
	var args = []string{"fen", "8/8/8/8/8/8/8/8", "w", "-", "-", "moves", "e2e4"}
	if i := findIndexString(args, "moves"); i != 5 {
		t.Fatalf("findIndexString = %v, want 5", i)
	}
	if i := findIndexString(args, "nope"); i != -1 {
		t.Fatalf("findIndexString(missing) = %v, want -1", i)
	}
}

func TestPositionCommandStartpos(t *testing.T) {
	var p = New("Test", "Tester", "0", &stubEngine{}, nil)
	if err := p.positionCommand([]string{"startpos"}); err != nil {
		t.Fatalf("positionCommand: %v", err)
	}
	if len(p.positions) != 1 {
		t.Fatalf("len(positions) = %v, want 1", len(p.positions))
	}
}

func TestPositionCommandStartposWithMoves(t *testing.T) {
	var p = New("Test", "Tester", "0", &stubEngine{}, nil)
	if err := p.positionCommand([]string{"startpos", "moves", "e2e4", "e7e5"}); err != nil {
		t.Fatalf("positionCommand: %v", err)
	}
	if len(p.positions) != 3 {
		t.Fatalf("len(positions) = %v, want 3 (initial + 2 played moves)", len(p.positions))
	}
}

func TestPositionCommandFen(t *testing.T) {
	var p = New("Test", "Tester", "0", &stubEngine{}, nil)
	var err = p.positionCommand([]string{"fen", "4k3/8/8/8/8/8/8/4K2R", "w", "K", "-", "0", "1"})
	if err != nil {
		t.Fatalf("positionCommand: %v", err)
	}
	if len(p.positions) != 1 {
		t.Fatalf("len(positions) = %v, want 1", len(p.positions))
	}
}

func TestPositionCommandRejectsUnknownToken(t *testing.T) {
	var p = New("Test", "Tester", "0", &stubEngine{}, nil)
	if err := p.positionCommand([]string{"bogus"}); err == nil {
		t.Fatal("expected an error for an unrecognized position token")
	}
}

func TestUciNewGameClearsEngine(t *testing.T) {
	var stub = &stubEngine{}
	var p = New("Test", "Tester", "0", stub, nil)
	if err := p.uciNewGameCommand(nil); err != nil {
		t.Fatalf("uciNewGameCommand: %v", err)
	}
	if !stub.cleared {
		t.Fatal("engine implementing Clearer should have been cleared")
	}
}

func TestSearchInfoToUciFormatsCentipawnScore(t *testing.T) {
	var s = searchInfoToUci(search.SearchInfo{
		Depth: 10,
		Score: search.UciScore{Centipawns: 37},
		Nodes: 12345,
		Time:  time.Second,
	})
	if !containsAll(s, "depth 10", "score cp 37", "nodes 12345") {
		t.Fatalf("unexpected uci info line: %v", s)
	}
}

func TestSearchInfoToUciFormatsMateScore(t *testing.T) {
	var s = searchInfoToUci(search.SearchInfo{
		Depth: 5,
		Score: search.UciScore{Mate: 3},
	})
	if !containsAll(s, "score mate 3") {
		t.Fatalf("unexpected uci info line: %v", s)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
