package chess

import "strings"

// Move packs from/to/movingPiece/capturedPiece/promotion into a 32-bit
// value, adapted from the teacher's common.Move encoding.
type Move int32

const MoveEmpty = Move(0)

func MakeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func MakePawnMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int          { return int(m & 63) }
func (m Move) To() int            { return int((m >> 6) & 63) }
func (m Move) MovingPiece() int   { return int((m >> 12) & 7) }
func (m Move) CapturedPiece() int { return int((m >> 15) & 7) }
func (m Move) Promotion() int     { return int((m >> 18) & 7) }

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMoveLAN resolves a long algebraic notation string ("e2e4", "e7e8q")
// against the pseudo-legal moves of pos, returning MoveEmpty if none
// match. Legality is left to the caller: the UCI "position ... moves ..."
// command rejects a parsed move whose DoMove fails.
func ParseMoveLAN(pos *Position, lan string) Move {
	var buffer [MaxMoves]Move
	for _, mv := range pos.GenerateMoves(buffer[:0]) {
		if strings.EqualFold(mv.String(), lan) {
			return mv
		}
	}
	return MoveEmpty
}

func moveToSAN(pos *Position, ml []Move, mv Move) string {
	const pieceNames = "NBRQK"
	if mv == whiteKingSideCastle || mv == blackKingSideCastle {
		return "O-O"
	}
	if mv == whiteQueenSideCastle || mv == blackQueenSideCastle {
		return "O-O-O"
	}
	var strPiece, strCapture, strFrom, strTo, strPromotion string
	if mv.MovingPiece() != Pawn {
		strPiece = string(pieceNames[mv.MovingPiece()-Knight])
	}
	strTo = SquareName(mv.To())
	if mv.CapturedPiece() != Empty {
		strCapture = "x"
		if mv.MovingPiece() == Pawn {
			strFrom = SquareName(mv.From())[:1]
		}
	}
	if mv.Promotion() != Empty {
		strPromotion = "=" + string(pieceNames[mv.Promotion()-Knight])
	}
	var ambiguity, uniqCol, uniqRow = false, true, true
	for _, mv1 := range ml {
		if mv1.From() == mv.From() || mv1.To() != mv.To() || mv1.MovingPiece() != mv.MovingPiece() {
			continue
		}
		ambiguity = true
		if File(mv1.From()) == File(mv.From()) {
			uniqCol = false
		}
		if Rank(mv1.From()) == Rank(mv.From()) {
			uniqRow = false
		}
	}
	if ambiguity {
		switch {
		case uniqCol:
			strFrom = SquareName(mv.From())[:1]
		case uniqRow:
			strFrom = SquareName(mv.From())[1:2]
		default:
			strFrom = SquareName(mv.From())
		}
	}
	return strPiece + strFrom + strCapture + strTo + strPromotion
}

// MoveToSAN renders mv in standard algebraic notation, disambiguated
// against the legal moves available in pos.
func MoveToSAN(pos *Position, mv Move) string {
	return moveToSAN(pos, pos.GenerateLegalMoves(), mv)
}

// ParseMoveSAN is the inverse of MoveToSAN, used by PGN/book tooling.
func ParseMoveSAN(pos *Position, san string) Move {
	if index := strings.IndexAny(san, "+#?!"); index >= 0 {
		san = san[:index]
	}
	var ml = pos.GenerateLegalMoves()
	for _, mv := range ml {
		if san == moveToSAN(pos, ml, mv) {
			return mv
		}
	}
	return MoveEmpty
}
