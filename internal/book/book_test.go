package book

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

func startPos() *chess.Position {
	pos, err := chess.NewPositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		panic(err)
	}
	return &pos
}

func encodeEntry(key uint64, move, weight uint16) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], key)
	binary.BigEndian.PutUint16(buf[8:10], move)
	binary.BigEndian.PutUint16(buf[10:12], weight)
	return buf[:]
}

func TestLoadPolyglotReaderAndProbe(t *testing.T) {
	var pos = startPos()
	var key = polyglotHash(pos)

	// e2e4: from=e2(12), to=e4(28) in Polyglot's rank*8+file square
	// numbering (to occupies the low bits, from the next six), no
	// promotion.
	var move = uint16(28) | uint16(12)<<6

	var data bytes.Buffer
	data.Write(encodeEntry(key, move, 10))

	b, err := LoadPolyglotReader(&data)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if b.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", b.Size())
	}

	mv, ok := b.Probe(pos, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("Probe() found no move")
	}
	if mv.String() != "e2e4" {
		t.Fatalf("Probe() = %v, want e2e4", mv)
	}
}

func TestProbeEmptyBook(t *testing.T) {
	var b = New()
	_, ok := b.Probe(startPos(), rand.New(rand.NewSource(1)))
	if ok {
		t.Fatal("Probe() on empty book should report ok=false")
	}
}

func TestDecodePolyglotMoveCastling(t *testing.T) {
	// White kingside castle encoded as Polyglot's king-captures-rook
	// e1h1, expected to resolve to internal/chess's e1g1 form.
	var move = uint16(chess.SquareH1) | uint16(chess.SquareE1)<<6
	from, to, promo := decodePolyglotMove(move)
	if from != chess.SquareE1 || to != chess.SquareG1 || promo != chess.Empty {
		t.Fatalf("decodePolyglotMove(e1h1) = (%d,%d,%d), want (%d,%d,%d)",
			from, to, promo, chess.SquareE1, chess.SquareG1, chess.Empty)
	}
}
