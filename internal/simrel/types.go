// Package simrel simulates multivariate linear-model data (predictors X,
// responses Y) with a controlled relevant subspace, covariance structure and
// coefficient of determination.
package simrel

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// ResultType tags every result produced by Simulate.
const ResultType = "multivariate"

// Parameters describes the requested design.
// Predictor positions (RelPos) and response-component indices (YPos) are
// 1-based, as written in the usual simrel notation.
type Parameters struct {
	// Training sample size
	N int
	// Number of predictors
	P int
	// Number of responses
	M int
	// Predictor positions reserved for each relevant component (relevant + masking)
	Q []int
	// Relevant predictor positions per relevant response component
	RelPos [][]int
	// Decay rate of the predictor latent variances
	Gamma float64
	// Target coefficient of determination per relevant component
	R2 []float64
	// Test sample size, 0 means no test set
	NTest int
	// Optional means, nil means zero
	MuX []float64
	MuY []float64
	// Response components mixed together by the response rotation
	YPos [][]int
}

// DefaultParameters returns the reference multivariate design.
func DefaultParameters() Parameters {
	return Parameters{
		N:      100,
		P:      15,
		M:      5,
		Q:      []int{5, 4, 3},
		RelPos: [][]int{{1, 2}, {3, 4, 6}, {5, 7}},
		Gamma:  0.6,
		R2:     []float64{0.8, 0.7, 0.8},
		YPos:   [][]int{{1}, {3, 4}, {2, 5}},
	}
}

// Clone returns a deep copy of the parameters.
func (p Parameters) Clone() Parameters {
	out := p
	out.Q = append([]int(nil), p.Q...)
	out.R2 = append([]float64(nil), p.R2...)
	out.RelPos = cloneSets(p.RelPos)
	out.YPos = cloneSets(p.YPos)
	if p.MuX != nil {
		out.MuX = append([]float64(nil), p.MuX...)
	}
	if p.MuY != nil {
		out.MuY = append([]float64(nil), p.MuY...)
	}
	return out
}

func cloneSets(sets [][]int) [][]int {
	if sets == nil {
		return nil
	}
	out := make([][]int, len(sets))
	for i, s := range sets {
		out[i] = append([]int(nil), s...)
	}
	return out
}

// Design is the completed relevant-subspace design, padded to M components.
type Design struct {
	// Padded per-component relpos, R2 and q (length M); RelPos stays 1-based
	RelPos [][]int
	R2     []float64
	Q      []int
	// Number of explicitly relevant positions per component
	NRelevant []int
	// 0-based predictor positions allocated to each component (relevant + masking), sorted
	PredPos [][]int
	// 0-based predictor positions left in the shared irrelevant pool
	Irrelevant []int
}

// Covariance holds the latent covariance structure.
type Covariance struct {
	// Eigenvalues of the predictor latent components, descending
	Lambda []float64
	// Diagonal of Lambda (p x p)
	SigmaZ *mat.DiagDense
	// Response latent covariance (m x m identity)
	SigmaW *mat.DiagDense
	// Cross covariance between predictor and response components (p x m)
	SigmaZW *mat.Dense
	// Joint covariance of (W, Z), responses first ((m+p) x (m+p))
	Sigma *mat.SymDense
	// Pairwise response-component correlations (m x m)
	RhoOut *mat.Dense
}

// Block is one rotation block embedded at the given 0-based positions.
type Block struct {
	Positions []int
	Matrix    *mat.Dense
}

// Rotation holds the orthogonal maps from latent to observed variables.
type Rotation struct {
	RotX *mat.Dense // p x p
	RotY *mat.Dense // m x m

	XBlocks []Block
	YBlocks []Block
}

// Coefficients holds the population quantities derived from the covariance
// and rotation matrices.
type Coefficients struct {
	// Latent-basis coefficients (p x m)
	BetaZ *mat.Dense
	// True regression coefficients of Y on X (p x m)
	Beta *mat.Dense
	// Intercept (length m)
	Beta0 []float64

	// Variance explained, latent and observed bases (m x m)
	RsqW *mat.Dense
	RsqY *mat.Dense

	// Observed covariances
	SigmaX  *mat.Dense // p x p
	SigmaY  *mat.Dense // m x m
	SigmaYX *mat.Dense // m x p
	SigmaWX *mat.Dense // m x p
	SigmaYZ *mat.Dense // m x p

	// Joint covariance of (Y, X), responses first
	SigmaObs *mat.SymDense

	// Residual response covariance not explained by X (m x m)
	MinError *mat.Dense
}

// Sample is one draw of latent and observed variables.
type Sample struct {
	X *mat.Dense // rows x p
	Y *mat.Dense // rows x m
	W *mat.Dense // rows x m
	Z *mat.Dense // rows x p
}

// Result is the complete output of one simulation. It is not mutated after
// Simulate returns.
type Result struct {
	ID   uuid.UUID
	Type string
	Seed uint64

	// Parameters as supplied by the caller
	Params Parameters
	Design Design

	Cov  Covariance
	Rot  Rotation
	Coef Coefficients

	Train Sample
	// Nil when no test set was requested
	Test *Sample

	Advisories []Advisory
}
