package search

import "github.com/ChizhovVadim/CounterGo/internal/chess"

// scoredMove pairs a generated move with its ordering key, the
// teacher's OrderedMove (pkg/common) generalised with an int64 key so
// the TT-move bucket can sit strictly above everything else without
// overflowing an int32.
type scoredMove struct {
	move Move
	key  int64
}

// Ordering buckets, strictly decreasing, matching spec section 6's
// staged contract: TT move, good captures, killers, counter-move,
// quiets by history, bad captures.
const (
	bucketTT       = int64(1) << 40
	bucketGoodCap  = int64(1) << 36
	bucketKiller1  = int64(1) << 32
	bucketKiller2  = bucketKiller1 - 1
	bucketCounter  = int64(1) << 28
	bucketQuiet    = int64(1) << 20 // quiet history values are added on top, small relative to this
	bucketBadCap   = -(int64(1) << 24)
)

var mvvValue = [...]int{chess.Empty: 0, chess.Pawn: 1, chess.Knight: 2, chess.Bishop: 3, chess.Rook: 4, chess.Queen: 5, chess.King: 6}

func mvvlva(m Move) int64 {
	return int64(8*(mvvValue[m.CapturedPiece()]+mvvValue[m.Promotion()]) - mvvValue[m.MovingPiece()])
}

// movePicker generates and orders the moves of one search node. It is
// reused across the node's lifetime the way the teacher's moveIterator
// is: buffer owned by the caller's stack slot, Init scores everything
// once, Next pops the remaining best-scored entry.
type movePicker struct {
	pos       *chess.Position
	buffer    []Move
	scores    []scoredMove
	count     int
	index     int
	ttMove    Move
	killers   [2]Move
	counter   Move
	quietHist func(Move) int
	captHist  func(Move) int
}

func (mp *movePicker) init() {
	mp.buffer = mp.pos.GenerateMoves(mp.buffer[:0])
	mp.count = len(mp.buffer)
	if cap(mp.scores) < mp.count {
		mp.scores = make([]scoredMove, mp.count)
	} else {
		mp.scores = mp.scores[:mp.count]
	}

	for i, m := range mp.buffer {
		mp.scores[i] = scoredMove{move: m, key: mp.scoreMove(m)}
	}
	insertionSortByKeyDesc(mp.scores)
	mp.index = 0
}

func (mp *movePicker) scoreMove(m Move) int64 {
	switch {
	case m == mp.ttMove:
		return bucketTT
	case m.IsCaptureOrPromotion():
		if mp.pos.SeeGE(m, 0) {
			return bucketGoodCap + mvvlva(m)*1000 + int64(mp.captHist(m))
		}
		return bucketBadCap + mvvlva(m)*1000 + int64(mp.captHist(m))
	case m == mp.killers[0]:
		return bucketKiller1
	case m == mp.killers[1]:
		return bucketKiller2
	case m == mp.counter:
		return bucketCounter
	default:
		return bucketQuiet + int64(mp.quietHist(m))
	}
}

func (mp *movePicker) next() Move {
	if mp.index >= mp.count {
		return moveNone
	}
	var m = mp.scores[mp.index].move
	mp.index++
	return m
}

func insertionSortByKeyDesc(s []scoredMove) {
	for i := 1; i < len(s); i++ {
		var j, v = i, s[i]
		for ; j > 0 && s[j-1].key < v.key; j-- {
			s[j] = s[j-1]
		}
		s[j] = v
	}
}

// qMovePicker generates the noisy-move set quiescence search works
// from: all evasions while in check, otherwise captures plus (when
// genChecks is set) quiet checks, scored by MVV-LVA alone as the teacher's
// moveIteratorQS does (pkg/engine/moveiterator.go).
type qMovePicker struct {
	pos    *chess.Position
	buffer []Move
	scores []scoredMove
	count  int
	index  int
}

func (mp *qMovePicker) init(inCheck bool, genChecks bool) {
	if inCheck {
		mp.buffer = mp.pos.GenerateMoves(mp.buffer[:0])
	} else {
		mp.buffer = mp.pos.GenerateCaptures(mp.buffer[:0], genChecks)
	}
	mp.count = len(mp.buffer)
	if cap(mp.scores) < mp.count {
		mp.scores = make([]scoredMove, mp.count)
	} else {
		mp.scores = mp.scores[:mp.count]
	}
	for i, m := range mp.buffer {
		var key = int64(0)
		if m.IsCaptureOrPromotion() {
			key = 1<<20 + mvvlva(m)
		}
		mp.scores[i] = scoredMove{move: m, key: key}
	}
	insertionSortByKeyDesc(mp.scores)
	mp.index = 0
}

func (mp *qMovePicker) next() Move {
	if mp.index >= mp.count {
		return moveNone
	}
	var m = mp.scores[mp.index].move
	mp.index++
	return m
}
