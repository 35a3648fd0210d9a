package simrel

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// newRand returns the single random source threaded through one simulation.
// A zero seed is replaced by a time-based one; the seed actually used is
// returned so the run can be reproduced.
func newRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed)), seed
}

// standardNormal draws a rows x cols matrix of independent N(0, 1) values,
// filled column by column.
func standardNormal(rows, cols int, rng *rand.Rand) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out.Set(i, j, norm.Rand())
		}
	}
	return out
}
