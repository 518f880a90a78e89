package search

import "math"

// Options mirrors the teacher's engine.Options (pkg/engine/options.go)
// generalised with the UCI knobs the specification's glossary names:
// MultiPV, Syzygy probing limits, Variety noise and a contempt toggle,
// alongside the original Hash/Threads pair.
type Options struct {
	Hash             int
	Threads          int
	MultiPV          int
	NeverClearHash   bool
	ShowWDL          bool
	SyzygyPath       string
	Syzygy50MoveRule bool
	SyzygyProbeDepth int
	SyzygyProbeLimit int
	Variety          int
	DynamicContempt  bool
	TacticalMultiPV  int // section 6: multiPV widened to 2^TacticalMultiPV when non-zero

	reductions [64][64]int
}

// DefaultOptions matches the teacher's NewOptions defaults, widened
// with MultiPV=1 and Syzygy50MoveRule=true (Syzygy convention).
func DefaultOptions() Options {
	var o = Options{
		Hash:             16,
		Threads:          1,
		MultiPV:          1,
		Syzygy50MoveRule: true,
		SyzygyProbeDepth: 1,
		SyzygyProbeLimit: 6,
	}
	o.initLmr()
	return o
}

func (o *Options) initLmr() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			o.reductions[d][m] = int(lmrFormula(float64(d), float64(m)))
		}
	}
}

// lmrFormula is the teacher's LmrMult curve (pkg/engine/options.go):
// log-log interpolation between two hand-picked anchor points.
func lmrFormula(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m), math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

func (o *Options) lmr(d, m int) int {
	return o.reductions[minI(d, 63)][minI(m, 63)]
}
