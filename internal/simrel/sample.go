package simrel

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// choleskyUpper returns U with sigma = U^T * U.
func choleskyUpper(sigma *mat.SymDense) (*mat.TriDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, &FeasibilityError{
			Condition: CondCholeskyFailed,
			Detail:    "joint covariance could not be factorized",
		}
	}
	n := sigma.SymmetricDim()
	u := mat.NewTriDense(n, mat.Upper, nil)
	chol.UTo(u)
	return u, nil
}

// drawSample draws rows correlated latent observations (W first, then Z) and
// rotates them into observed X and Y, shifted by the optional means.
func drawSample(rows int, u *mat.TriDense, rot Rotation, muX, muY []float64, rng *rand.Rand) Sample {
	m, _ := rot.RotY.Dims()
	p, _ := rot.RotX.Dims()

	// 1. Correlated latent draws: N(0, I) * U has covariance U^T * U
	var latent mat.Dense
	latent.Mul(standardNormal(rows, m+p, rng), u)

	w := mat.DenseCopyOf(latent.Slice(0, rows, 0, m))
	z := mat.DenseCopyOf(latent.Slice(0, rows, m, m+p))

	// 2. Observed variables
	var x, y mat.Dense
	x.Mul(z, rot.RotX.T())
	y.Mul(w, rot.RotY.T())

	// 3. Means
	addColumnMeans(&x, muX)
	addColumnMeans(&y, muY)

	return Sample{X: &x, Y: &y, W: w, Z: z}
}

func addColumnMeans(a *mat.Dense, mu []float64) {
	if mu == nil {
		return
	}
	rows, cols := a.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a.Set(i, j, a.At(i, j)+mu[j])
		}
	}
}
