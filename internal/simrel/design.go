package simrel

import (
	"math/rand/v2"
	"slices"
)

// completeDesign pads relpos, R2 and q to m components and
// allocates masking predictors to every component.
//
// Components are processed in order 1..m. Each one takes q[i]-|relpos[i]|
// positions from the pool of predictors not named in any relpos set, and the
// pool handed to the next component no longer contains them.
func completeDesign(p Parameters, rng *rand.Rand) Design {
	m := p.M
	d := Design{
		RelPos:    make([][]int, m),
		R2:        make([]float64, m),
		Q:         make([]int, m),
		NRelevant: make([]int, m),
		PredPos:   make([][]int, m),
	}

	// Extra components carry no positions, no signal and no reserved predictors
	for i := 0; i < m; i++ {
		if i < len(p.RelPos) {
			d.RelPos[i] = slices.Clone(p.RelPos[i])
			d.R2[i] = p.R2[i]
			d.Q[i] = p.Q[i]
		} else {
			d.RelPos[i] = []int{}
		}
		d.NRelevant[i] = len(d.RelPos[i])
	}

	pool := irrelevantPool(p.P, d.RelPos)
	for i := 0; i < m; i++ {
		var extra []int
		extra, pool = takeMasking(pool, d.Q[i]-d.NRelevant[i], rng)

		pos := make([]int, 0, d.NRelevant[i]+len(extra))
		for _, r := range d.RelPos[i] {
			pos = append(pos, r-1)
		}
		pos = append(pos, extra...)
		slices.Sort(pos)
		d.PredPos[i] = pos
	}
	d.Irrelevant = pool

	return d
}

// irrelevantPool returns the sorted 0-based positions of 0..p-1 that appear
// in none of the 1-based relpos sets.
func irrelevantPool(p int, relpos [][]int) []int {
	used := make(map[int]bool)
	for _, set := range relpos {
		for _, pos := range set {
			used[pos-1] = true
		}
	}
	pool := make([]int, 0, p)
	for j := 0; j < p; j++ {
		if !used[j] {
			pool = append(pool, j)
		}
	}
	return pool
}

// takeMasking draws k positions from pool without replacement and returns
// them with the positions that remain. The input pool is not modified.
func takeMasking(pool []int, k int, rng *rand.Rand) (taken, rest []int) {
	if k <= 0 {
		return nil, pool
	}
	work := slices.Clone(pool)
	for j := 0; j < k; j++ {
		r := j + rng.IntN(len(work)-j)
		work[j], work[r] = work[r], work[j]
	}
	taken = slices.Clone(work[:k])
	rest = slices.Clone(work[k:])
	slices.Sort(rest)
	return taken, rest
}
