package simrel

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// randomRotation returns a random k x k orthogonal matrix: the Q factor of a
// matrix of standard normals whose columns were centered to zero mean.
func randomRotation(k int, rng *rand.Rand) *mat.Dense {
	a := standardNormal(k, k, rng)

	col := make([]float64, k)
	for j := 0; j < k; j++ {
		mat.Col(col, j, a)
		floats.AddConst(-floats.Sum(col)/float64(k), col)
		a.SetCol(j, col)
	}

	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)
	return &q
}

// identity returns the n x n identity as a *mat.Dense.
func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// embed writes block into dst at the rows and columns given by pos.
func embed(dst *mat.Dense, pos []int, block mat.Matrix) {
	for a, i := range pos {
		for b, j := range pos {
			dst.Set(i, j, block.At(a, b))
		}
	}
}

// rotate builds an n x n rotation that is a random orthogonal block on each
// group and identity elsewhere. Groups with fewer than two positions are left
// as identity and consume no random numbers.
func rotate(n int, groups [][]int, rng *rand.Rand) (*mat.Dense, []Block) {
	rot := identity(n)
	var blocks []Block
	for _, pos := range groups {
		if len(pos) < 2 {
			continue
		}
		block := randomRotation(len(pos), rng)
		embed(rot, pos, block)
		blocks = append(blocks, Block{Positions: append([]int(nil), pos...), Matrix: block})
	}
	return rot, blocks
}

// generateRotations draws every predictor block in component order, then
// every response block in ypos order.
func generateRotations(d Design, p, m int, ypos [][]int, rng *rand.Rand) Rotation {
	rotX, xBlocks := rotate(p, d.PredPos, rng)

	groups := make([][]int, len(ypos))
	for g, set := range ypos {
		groups[g] = make([]int, len(set))
		for i, idx := range set {
			groups[g][i] = idx - 1
		}
	}
	rotY, yBlocks := rotate(m, groups, rng)

	return Rotation{RotX: rotX, RotY: rotY, XBlocks: xBlocks, YBlocks: yBlocks}
}
