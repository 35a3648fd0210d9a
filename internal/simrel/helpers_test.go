package simrel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-10

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func testRand(seed uint64) *rand.Rand {
	rng, _ := newRand(seed)
	return rng
}

// requireOrthonormal checks q^T * q = I.
func requireOrthonormal(t *testing.T, q mat.Matrix) {
	t.Helper()
	_, k := q.Dims()
	var qtq mat.Dense
	qtq.Mul(q.T(), q)
	require.True(t, mat.EqualApprox(&qtq, identity(k), 1e-9), "q^T q =\n%v", mat.Formatted(&qtq))
}

func mustSimulate(t *testing.T, p Parameters, seed uint64) *Result {
	t.Helper()
	res, err := Simulate(p, Options{Seed: seed})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}
