package simrel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// conjugate returns r * a * r^T.
func conjugate(r, a mat.Matrix) *mat.Dense {
	var ra, out mat.Dense
	ra.Mul(r, a)
	out.Mul(&ra, r.T())
	return &out
}

// deriveCoefficients computes the true regression coefficients and the
// covariances of the observed variables. Observed variables are X = Z*RotX^T
// and Y = W*RotY^T, so every observed covariance is conjugated by the
// rotations in that direction. No random numbers are used.
func deriveCoefficients(cov Covariance, rot Rotation, muX, muY []float64) (Coefficients, error) {
	p, m := cov.SigmaZW.Dims()

	// 1. Latent coefficients: betaZ = SigmaZ^-1 * SigmaZW
	var zInv mat.Dense
	if err := zInv.Inverse(cov.SigmaZ); err != nil {
		return Coefficients{}, &FeasibilityError{
			Condition: CondSingularLatentCov,
			Detail:    fmt.Sprintf("predictor latent covariance: %v", err),
		}
	}
	var betaZ mat.Dense
	betaZ.Mul(&zInv, cov.SigmaZW)

	// 2. Observed coefficients: beta = RotX * betaZ * RotY^T
	var xb, beta mat.Dense
	xb.Mul(rot.RotX, &betaZ)
	beta.Mul(&xb, rot.RotY.T())

	// 3. Intercept
	beta0 := make([]float64, m)
	if muY != nil {
		copy(beta0, muY)
	}
	if muX != nil {
		var bx mat.VecDense
		bx.MulVec(beta.T(), mat.NewVecDense(p, append([]float64(nil), muX...)))
		for i := range beta0 {
			beta0[i] -= bx.AtVec(i)
		}
	}

	// 4. Variance explained: RsqW = betaZ^T * SigmaZW * SigmaW^-1
	var wInv mat.Dense
	if err := wInv.Inverse(cov.SigmaW); err != nil {
		return Coefficients{}, &FeasibilityError{
			Condition: CondSingularLatentCov,
			Detail:    fmt.Sprintf("response latent covariance: %v", err),
		}
	}
	var bz, rsqW mat.Dense
	bz.Mul(betaZ.T(), cov.SigmaZW)
	rsqW.Mul(&bz, &wInv)
	rsqY := conjugate(rot.RotY, &rsqW)

	// 5. Observed covariances
	sigmaY := conjugate(rot.RotY, cov.SigmaW)
	sigmaX := conjugate(rot.RotX, cov.SigmaZ)

	var sigmaWX, sigmaYZ, sigmaYX mat.Dense
	sigmaWX.Mul(cov.SigmaZW.T(), rot.RotX.T())
	sigmaYZ.Mul(rot.RotY, cov.SigmaZW.T())
	sigmaYX.Mul(rot.RotY, &sigmaWX)

	var minErr mat.Dense
	minErr.Sub(sigmaY, rsqY)

	return Coefficients{
		BetaZ:    &betaZ,
		Beta:     &beta,
		Beta0:    beta0,
		RsqW:     &rsqW,
		RsqY:     rsqY,
		SigmaX:   sigmaX,
		SigmaY:   sigmaY,
		SigmaYX:  &sigmaYX,
		SigmaWX:  &sigmaWX,
		SigmaYZ:  &sigmaYZ,
		SigmaObs: jointCovariance(sigmaY, sigmaX, &sigmaYX),
		MinError: &minErr,
	}, nil
}

// jointCovariance assembles the symmetric covariance of (Y, X), responses
// first. Diagonal blocks are symmetrized to absorb rounding.
func jointCovariance(sigmaY, sigmaX, sigmaYX mat.Matrix) *mat.SymDense {
	m, _ := sigmaY.Dims()
	p, _ := sigmaX.Dims()
	out := mat.NewSymDense(m+p, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			out.SetSym(i, j, (sigmaY.At(i, j)+sigmaY.At(j, i))/2)
		}
		for k := 0; k < p; k++ {
			out.SetSym(i, m+k, sigmaYX.At(i, k))
		}
	}
	for k := 0; k < p; k++ {
		for l := k; l < p; l++ {
			out.SetSym(m+k, m+l, (sigmaX.At(k, l)+sigmaX.At(l, k))/2)
		}
	}
	return out
}
