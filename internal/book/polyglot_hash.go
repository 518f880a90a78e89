package book

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// Polyglot's own key space is distinct from internal/chess's zobrist
// keys, so book lookups need their own hash; grounded on
// hailam-chessplay's internal/board/polyglot.go, including its
// xorshift64* stand-in PRNG for the 781-key table rather than the
// literal published constants (hailam-chessplay does the same).
var (
	polyglotPieces    [12][64]uint64
	polyglotCastling  [4]uint64
	polyglotEnPassant [8]uint64
	polyglotTurn      uint64
)

func init() {
	var s uint64 = 0x37b4a4b3f0d1c0d0
	var next = func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = next()
		}
	}
	for i := range polyglotCastling {
		polyglotCastling[i] = next()
	}
	for i := range polyglotEnPassant {
		polyglotEnPassant[i] = next()
	}
	polyglotTurn = next()
}

// polyglotPieceKind maps (white, pieceType) to Polyglot's piece
// ordering: black pawn..king (0-5), then white pawn..king (6-11).
func polyglotPieceKind(white bool, pieceType int) int {
	var base = 0
	if white {
		base = 6
	}
	return base + (pieceType - chess.Pawn)
}

func polyglotHash(p *chess.Position) uint64 {
	var hash uint64

	for bb, white := p.White, true; ; {
		for x := bb; x != 0; x &= x - 1 {
			var sq = chess.FirstOne(x)
			var piece = p.PieceOn(sq)
			hash ^= polyglotPieces[polyglotPieceKind(white, piece)][sq]
		}
		if !white {
			break
		}
		bb, white = p.Black, false
	}

	if p.CastleRights&chess.WhiteKingSide != 0 {
		hash ^= polyglotCastling[0]
	}
	if p.CastleRights&chess.WhiteQueenSide != 0 {
		hash ^= polyglotCastling[1]
	}
	if p.CastleRights&chess.BlackKingSide != 0 {
		hash ^= polyglotCastling[2]
	}
	if p.CastleRights&chess.BlackQueenSide != 0 {
		hash ^= polyglotCastling[3]
	}

	if p.EpSquare != chess.SquareNone {
		hash ^= polyglotEnPassant[chess.File(p.EpSquare)]
	}

	if p.WhiteMove {
		hash ^= polyglotTurn
	}

	return hash
}
