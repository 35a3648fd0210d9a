package simrel

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestSimulateReferenceScenario(t *testing.T) {
	p := DefaultParameters()
	res := mustSimulate(t, p, 2024)

	assert.Equal(t, ResultType, res.Type)
	assert.Equal(t, uint64(2024), res.Seed)
	assert.Nil(t, res.Test)
	assert.Empty(t, res.Advisories)

	// Dimensions
	r, c := res.Coef.Beta.Dims()
	assert.Equal(t, 15, r)
	assert.Equal(t, 5, c)
	r, c = res.Train.X.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 15, c)
	r, c = res.Train.Y.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 5, c)
	r, c = res.Train.W.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 5, c)
	r, c = res.Train.Z.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 15, c)

	assert.InDelta(t, math.Exp(-0.6), res.Cov.Lambda[1], tol)

	// Every allocated predictor carries signal for its component
	for i, pos := range res.Design.PredPos {
		for _, j := range pos {
			assert.NotZero(t, res.Coef.BetaZ.At(j, i), "component %d, predictor %d", i+1, j+1)
		}
	}
	// Irrelevant predictors carry none, latent or observed
	for _, j := range res.Design.Irrelevant {
		for i := 0; i < p.M; i++ {
			assert.Zero(t, res.Cov.SigmaZW.At(j, i))
			assert.Zero(t, res.Coef.Beta.At(j, i))
		}
	}

	for i := 0; i < p.M; i++ {
		e := res.Coef.MinError.At(i, i)
		assert.GreaterOrEqual(t, e, -1e-12)
		assert.LessOrEqual(t, e, res.Coef.SigmaY.At(i, i)+1e-12)
	}

	assert.True(t, mat.Equal(res.Cov.Sigma, res.Cov.Sigma.T()))
	for _, b := range res.Rot.XBlocks {
		requireOrthonormal(t, b.Matrix)
	}
	for _, b := range res.Rot.YBlocks {
		requireOrthonormal(t, b.Matrix)
	}
}

func TestSimulateTestSet(t *testing.T) {
	p := DefaultParameters()
	p.NTest = 40
	res := mustSimulate(t, p, 8)

	require.NotNil(t, res.Test)
	r, c := res.Test.X.Dims()
	assert.Equal(t, 40, r)
	assert.Equal(t, 15, c)
	r, c = res.Test.Y.Dims()
	assert.Equal(t, 40, r)
	assert.Equal(t, 5, c)
	r, _ = res.Test.W.Dims()
	assert.Equal(t, 40, r)
	r, _ = res.Test.Z.Dims()
	assert.Equal(t, 40, r)

	// The training draw is unaffected by requesting a test set
	p.NTest = 0
	plain := mustSimulate(t, p, 8)
	assert.True(t, mat.Equal(plain.Train.X, res.Train.X))
	assert.True(t, mat.Equal(plain.Coef.Beta, res.Coef.Beta))
}

func TestSimulateIsReproducible(t *testing.T) {
	p := DefaultParameters()
	p.NTest = 10
	a := mustSimulate(t, p, 99)
	b := mustSimulate(t, p, 99)

	assert.True(t, mat.Equal(a.Train.X, b.Train.X))
	assert.True(t, mat.Equal(a.Train.Y, b.Train.Y))
	assert.True(t, mat.Equal(a.Test.X, b.Test.X))
	assert.True(t, mat.Equal(a.Coef.Beta, b.Coef.Beta))
	assert.Equal(t, a.Design, b.Design)

	c := mustSimulate(t, p, 100)
	assert.False(t, mat.Equal(a.Cov.SigmaZW, c.Cov.SigmaZW))
	assert.False(t, mat.Equal(a.Train.X, c.Train.X))
	for _, blk := range c.Rot.XBlocks {
		requireOrthonormal(t, blk.Matrix)
	}
}

func TestSimulateSampleMatchesPopulation(t *testing.T) {
	p := DefaultParameters()
	p.N = 20000
	p.MuX = make([]float64, p.P)
	for j := range p.MuX {
		p.MuX[j] = float64(j)
	}
	p.MuY = []float64{-1, 0, 1, 2, 3}
	res := mustSimulate(t, p, 17)

	// Observed (Y, X) sample covariance against the population one
	n := p.M + p.P
	yx := mat.NewDense(p.N, n, nil)
	yx.Slice(0, p.N, 0, p.M).(*mat.Dense).Copy(res.Train.Y)
	yx.Slice(0, p.N, p.M, n).(*mat.Dense).Copy(res.Train.X)

	var sample mat.SymDense
	stat.CovarianceMatrix(&sample, yx, nil)
	assert.True(t, mat.EqualApprox(&sample, res.Coef.SigmaObs, 0.1),
		"sample covariance\n%v", mat.Formatted(&sample, mat.Squeeze()))

	col := make([]float64, p.N)
	for j := 0; j < p.P; j++ {
		assert.InDelta(t, p.MuX[j], stat.Mean(mat.Col(col, j, res.Train.X), nil), 0.1)
	}
	for i := 0; i < p.M; i++ {
		assert.InDelta(t, p.MuY[i], stat.Mean(mat.Col(col, i, res.Train.Y), nil), 0.1)
	}
}

func TestSimulateRejectsStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
		code   ViolationCode
	}{
		{"p not above sum of q", func(p *Parameters) { p.P = 12 }, CodeSumQ},
		{"R2 at one", func(p *Parameters) { p.R2 = []float64{1, 0.7, 0.8} }, CodeR2Range},
		{"R2 at zero", func(p *Parameters) { p.R2 = []float64{0.8, 0, 0.8} }, CodeR2Range},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.modify(&p)

			res, err := Simulate(p, Options{Seed: 1})
			assert.Nil(t, res)
			require.True(t, errors.Is(err, ErrStructural))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has(tt.code))
		})
	}
}

func TestSimulateLogsAdvisories(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := DefaultParameters()
	p.YPos = [][]int{{1, 2}, {3, 4}, {5}}

	res, err := Simulate(p, Options{Seed: 5, Logger: zap.New(core)})
	require.NoError(t, err)
	require.Len(t, res.Advisories, 1)
	assert.Equal(t, CodeUninformativeRot, res.Advisories[0].Code)

	entries := logs.FilterField(zap.String("code", string(CodeUninformativeRot))).All()
	require.Len(t, entries, 1)
	assert.Equal(t, res.ID.String(), entries[0].ContextMap()["run"])
}

func TestSimulateTimeSeed(t *testing.T) {
	res := mustSimulate(t, DefaultParameters(), 0)
	assert.NotZero(t, res.Seed)
}

func TestSimulateKeepsCallerParameters(t *testing.T) {
	p := DefaultParameters()
	res := mustSimulate(t, p, 12)
	res.Params.RelPos[0][0] = 99
	assert.Equal(t, 1, p.RelPos[0][0])
}

func TestSummary(t *testing.T) {
	p := DefaultParameters()
	p.NTest = 5
	p.YPos = [][]int{{1, 2}}
	res := mustSimulate(t, p, 31)

	var buf bytes.Buffer
	res.Summary(&buf)
	out := buf.String()
	assert.Contains(t, out, res.ID.String())
	assert.Contains(t, out, "Test size (ntest):       5")
	assert.Contains(t, out, "W1: R2 = 0.800")
	assert.Contains(t, out, string(CodeUninformativeRot))

	buf.Reset()
	var nilRes *Result
	nilRes.Summary(&buf)
	assert.Contains(t, buf.String(), "nil")
}
