// Package book implements the opening-book collaborator named in
// spec.md section 6: a read-only Polyglot book consulted at the root
// before search begins. Grounded on hailam-chessplay's
// internal/book/book.go, adapted from its board.Position/board.Move
// types to this repo's internal/chess equivalents and its own
// zobrist hash (internal/board/polyglot.go) to polyglot_hash.go.
package book

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

// BookEntry is one 16-byte Polyglot record, weight kept for
// probability-weighted move selection.
type BookEntry struct {
	Key    uint64
	Move   uint16
	Weight uint16
}

// Book indexes entries by Polyglot key so Probe/ProbeAll are O(1) plus
// a small per-position scan.
type Book struct {
	entries map[uint64][]BookEntry
}

func New() *Book {
	return &Book{entries: make(map[uint64][]BookEntry)}
}

// LoadPolyglot opens filename and delegates to LoadPolyglotReader.
func LoadPolyglot(filename string) (*Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPolyglotReader(f)
}

// LoadPolyglotReader parses a Polyglot .bin stream: a sequence of
// 16-byte big-endian records (8-byte key, 2-byte move, 2-byte weight,
// 4-byte learn data the engine has no use for).
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	var book = New()
	var br = bufio.NewReader(r)
	var buf [16]byte
	for {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		var entry = BookEntry{
			Key:    binary.BigEndian.Uint64(buf[0:8]),
			Move:   binary.BigEndian.Uint16(buf[8:10]),
			Weight: binary.BigEndian.Uint16(buf[10:12]),
		}
		book.entries[entry.Key] = append(book.entries[entry.Key], entry)
	}
	for key := range book.entries {
		var es = book.entries[key]
		sort.Slice(es, func(i, j int) bool { return es[i].Weight > es[j].Weight })
	}
	return book, nil
}

// decodePolyglotMove unpacks Polyglot's 16-bit move encoding: bits
// 0-5 to, 6-11 from, 12-14 promotion piece (1=knight..4=queen), and
// remaps Polyglot's king-captures-own-rook castling convention to the
// king-steps-two-squares form internal/chess's move generator produces.
func decodePolyglotMove(data uint16) (from, to, promotion int) {
	to = int(data & 7)
	to |= int((data>>3)&7) << 3
	from = int((data >> 6) & 7)
	from |= int((data>>9)&7) << 3
	var promoBits = int((data >> 12) & 7)
	switch promoBits {
	case 1:
		promotion = chess.Knight
	case 2:
		promotion = chess.Bishop
	case 3:
		promotion = chess.Rook
	case 4:
		promotion = chess.Queen
	default:
		promotion = chess.Empty
	}

	switch {
	case from == chess.SquareE1 && to == chess.SquareH1:
		to = chess.SquareG1
	case from == chess.SquareE1 && to == chess.SquareA1:
		to = chess.SquareC1
	case from == chess.SquareE8 && to == chess.SquareH8:
		to = chess.SquareG8
	case from == chess.SquareE8 && to == chess.SquareA8:
		to = chess.SquareC8
	}
	return from, to, promotion
}

// verifyAndConvert resolves a decoded (from, to, promotion) triple
// against pos's actual legal moves, since Polyglot move encoding alone
// does not carry the moving/captured piece fields internal/chess.Move
// packs in.
func verifyAndConvert(pos *chess.Position, from, to, promotion int) (chess.Move, bool) {
	for _, mv := range pos.GenerateLegalMoves() {
		if mv.From() == from && mv.To() == to && mv.Promotion() == promotion {
			return mv, true
		}
	}
	return chess.MoveEmpty, false
}

// Probe picks a single move for pos, weighted at random by each
// candidate's Polyglot weight; ok is false when the position is not
// in the book or none of its entries resolve to a legal move.
func (b *Book) Probe(pos *chess.Position, rng *rand.Rand) (chess.Move, bool) {
	var candidates = b.ProbeAll(pos)
	if len(candidates) == 0 {
		return chess.MoveEmpty, false
	}

	var totalWeight int
	for _, e := range candidates {
		totalWeight += int(e.Weight)
	}
	if totalWeight == 0 {
		return candidates[0].Move, true
	}

	var pick = rng.Intn(totalWeight)
	for _, e := range candidates {
		pick -= int(e.Weight)
		if pick < 0 {
			return e.Move, true
		}
	}
	return candidates[len(candidates)-1].Move, true
}

type weightedMove struct {
	Move   chess.Move
	Weight uint16
}

// ProbeAll returns every book move legal in pos, highest weight first.
func (b *Book) ProbeAll(pos *chess.Position) []weightedMove {
	var key = polyglotHash(pos)
	var entries, ok = b.entries[key]
	if !ok {
		return nil
	}
	var result = make([]weightedMove, 0, len(entries))
	for _, e := range entries {
		from, to, promotion := decodePolyglotMove(e.Move)
		if mv, ok := verifyAndConvert(pos, from, to, promotion); ok {
			result = append(result, weightedMove{Move: mv, Weight: e.Weight})
		}
	}
	return result
}

// Size reports the number of distinct keys loaded; cmd/counter logs it
// when a book is loaded.
func (b *Book) Size() int {
	return len(b.entries)
}
