package chess

import "testing"

// Standard chess programming perft positions, grounded on the
// teacher's common/perft_test.go (same five reference FENs), at a
// depth shallow enough to keep the table-driven test itself fast.
func TestPerft(t *testing.T) {
	var tests = []struct {
		name  string
		fen   string
		depth int
		nodes int64
	}{
		{"startpos", InitialPositionFen, 4, 197281},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 4, 4085603},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 4, 43238},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
		{"position6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 4, 3894594},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pos, err := NewPositionFromFEN(test.fen)
			if err != nil {
				t.Fatalf("NewPositionFromFEN: %v", err)
			}
			var nodes = Perft(&pos, test.depth)
			if nodes != test.nodes {
				t.Errorf("Perft(%v) = %v, want %v", test.depth, nodes, test.nodes)
			}
		})
	}
}
