package simrel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// latentEigenvalues returns lambda_j = exp(-gamma*j)/exp(-gamma), j = 1..p.
// lambda_1 is 1 and the sequence is strictly decreasing for gamma > 0.
func latentEigenvalues(p int, gamma float64) []float64 {
	lambda := make([]float64, p)
	for j := 1; j <= p; j++ {
		lambda[j-1] = math.Exp(-gamma*float64(j)) / math.Exp(-gamma)
	}
	return lambda
}

// crossCovariance returns the covariances between one response component and
// all p predictor components. Only the positions in pos are non-zero; the
// target R2 is spread over them by a random simplex weighting with random
// signs, scaled by each predictor's latent variance.
//
// Exactly one uniform draw is made per position.
func crossCovariance(pos []int, r2 float64, lambda []float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(lambda))
	if len(pos) == 0 {
		return out
	}

	unif := distuv.Uniform{Min: -1, Max: 1, Src: rng}
	draws := make([]float64, len(pos))
	for k := range draws {
		draws[k] = unif.Rand()
	}
	if r2 == 0 {
		return out
	}

	total := floats.Norm(draws, 1) // sum of |draw|
	if total == 0 {
		return out
	}
	for k, j := range pos {
		u := draws[k]
		out[j] = sign(u) * math.Sqrt(r2*math.Abs(u)/total*lambda[j])
	}
	return out
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// buildCovariance draws the cross-covariance block for every component in
// order, assembles the joint covariance of (W, Z) and runs the correlation
// and positive-definiteness gates.
func buildCovariance(d Design, p int, gamma float64, rng *rand.Rand) (Covariance, error) {
	m := len(d.PredPos)

	lambda := latentEigenvalues(p, gamma)
	sigmaZ := mat.NewDiagDense(p, lambda)

	ones := make([]float64, m)
	floats.AddConst(1, ones)
	sigmaW := mat.NewDiagDense(m, ones)

	// Cross covariance, one column per response component
	sigmaZW := mat.NewDense(p, m, nil)
	for i := 0; i < m; i++ {
		sigmaZW.SetCol(i, crossCovariance(d.PredPos[i], d.R2[i], lambda, rng))
	}

	// Joint covariance: W block first, then Z
	sigma := mat.NewSymDense(m+p, nil)
	for i := 0; i < m; i++ {
		sigma.SetSym(i, i, sigmaW.At(i, i))
		for j := i + 1; j < m; j++ {
			sigma.SetSym(i, j, sigmaW.At(i, j))
		}
		for k := 0; k < p; k++ {
			sigma.SetSym(i, m+k, sigmaZW.At(k, i))
		}
	}
	for k := 0; k < p; k++ {
		sigma.SetSym(m+k, m+k, lambda[k])
	}

	cov := Covariance{
		Lambda:  lambda,
		SigmaZ:  sigmaZ,
		SigmaW:  sigmaW,
		SigmaZW: sigmaZW,
		Sigma:   sigma,
	}

	rho, err := responseCorrelation(sigmaW, d.R2)
	if err != nil {
		return Covariance{}, err
	}
	cov.RhoOut = rho

	if err := checkPositiveDefinite(sigma); err != nil {
		return Covariance{}, err
	}
	return cov, nil
}

// responseCorrelation scales the response-component covariances by the
// square roots of the target R2 values. The diagonal is 1 and NaN entries
// coming from zero R2 are 0. Off-diagonal values outside [-1, 1] are fatal.
func responseCorrelation(sigmaW mat.Matrix, r2 []float64) (*mat.Dense, error) {
	m := len(r2)
	rho := mat.NewDense(m, m, nil)
	for row := 0; row < m; row++ {
		for col := 0; col < m; col++ {
			if row == col {
				rho.Set(row, col, 1)
				continue
			}
			v := sigmaW.At(row, col) / math.Sqrt(r2[row]*r2[col])
			if math.IsNaN(v) {
				v = 0
			}
			if v < -1 || v > 1 {
				return nil, &FeasibilityError{
					Condition: CondCorrelationBound,
					Detail: fmt.Sprintf("correlation %v between response components %d and %d lies outside [-1, 1]",
						v, row+1, col+1),
				}
			}
			rho.Set(row, col, v)
		}
	}
	return rho, nil
}

// checkPositiveDefinite requires every eigenvalue of sigma to be positive.
func checkPositiveDefinite(sigma *mat.SymDense) error {
	var es mat.EigenSym
	if !es.Factorize(sigma, false) {
		return &FeasibilityError{
			Condition: CondNotPosDefinite,
			Detail:    "eigen decomposition of the joint covariance failed",
		}
	}
	vals := es.Values(nil)
	for i, v := range vals {
		if v <= 0 {
			return &FeasibilityError{
				Condition: CondNotPosDefinite,
				Detail:    fmt.Sprintf("eigenvalue %d of the joint covariance is %v", i+1, v),
			}
		}
	}
	return nil
}
