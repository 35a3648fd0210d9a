package tidy

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrel/internal/simrel"
)

func simulate(t *testing.T, n int) *simrel.Result {
	t.Helper()
	p := simrel.DefaultParameters()
	p.N = n
	res, err := simrel.Simulate(p, simrel.Options{Seed: 77})
	require.NoError(t, err)
	return res
}

func TestCovariancesPopulation(t *testing.T) {
	res := simulate(t, 50)

	latent, err := Covariances(res, Latent, Population)
	require.NoError(t, err)
	assert.Equal(t, "population latent covariance", latent.Name)
	assert.Equal(t, res.ID.String(), latent.RunID)
	require.Len(t, latent.Entries, 20*20)
	assert.Equal(t, Entry{Row: "W1", Col: "W1", Value: 1}, latent.Entries[0])
	// Z1 variance is lambda_1
	assert.Equal(t, Entry{Row: "Z1", Col: "Z1", Value: res.Cov.Lambda[0]}, latent.Entries[5*20+5])

	observed, err := Covariances(res, Observed, Population)
	require.NoError(t, err)
	require.Len(t, observed.Entries, 20*20)
	assert.Equal(t, "Y1", observed.Entries[0].Row)
	assert.Equal(t, "X15", observed.Entries[len(observed.Entries)-1].Col)
	assert.Equal(t, res.Coef.SigmaObs.At(2, 7), observed.Entries[2*20+7].Value)
}

func TestCovariancesSample(t *testing.T) {
	res := simulate(t, 20000)

	for _, basis := range []Basis{Latent, Observed} {
		pop, err := Covariances(res, basis, Population)
		require.NoError(t, err)
		smp, err := Covariances(res, basis, Sample)
		require.NoError(t, err)
		assert.Equal(t, "sample "+basis.String()+" covariance", smp.Name)

		require.Len(t, smp.Entries, len(pop.Entries))
		for i := range pop.Entries {
			assert.Equal(t, pop.Entries[i].Row, smp.Entries[i].Row)
			assert.Equal(t, pop.Entries[i].Col, smp.Entries[i].Col)
			assert.InDelta(t, pop.Entries[i].Value, smp.Entries[i].Value, 0.1)
		}
	}
}

func TestCoefficientsAndEigenvalues(t *testing.T) {
	res := simulate(t, 30)

	coef, err := Coefficients(res)
	require.NoError(t, err)
	require.Len(t, coef.Entries, 15*5)
	assert.Equal(t, "X1", coef.Entries[0].Row)
	assert.Equal(t, "Y5", coef.Entries[4].Col)
	assert.Equal(t, res.Coef.Beta.At(3, 2), coef.Entries[3*5+2].Value)

	eig, err := Eigenvalues(res)
	require.NoError(t, err)
	require.Len(t, eig.Entries, 15)
	for j, e := range eig.Entries {
		assert.Equal(t, res.Cov.Lambda[j], e.Value)
		assert.Equal(t, "lambda", e.Col)
	}

	cross, err := CrossCovariances(res)
	require.NoError(t, err)
	// 5 + 4 + 3 allocated predictors
	assert.Len(t, cross.Entries, 12)
}

func TestNilResult(t *testing.T) {
	_, err := Covariances(nil, Latent, Population)
	assert.Error(t, err)
	_, err = Coefficients(nil)
	assert.Error(t, err)
	_, err = Eigenvalues(nil)
	assert.Error(t, err)
	_, err = CrossCovariances(nil)
	assert.Error(t, err)
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("sample")
	require.NoError(t, err)
	assert.Equal(t, Sample, s)
	s, err = ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, Population, s)
	_, err = ParseSource("bootstrap")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tbl := &Table{
		Name:  "coefficients",
		RunID: "run-1",
		Entries: []Entry{
			{Row: "X1", Col: "Y1", Value: 0.5},
			{Row: "X2", Col: "Y1", Value: -1.25},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Run", "Table", "Row", "Col", "Value"}, records[0])
	assert.Equal(t, "X2", records[2][2])
	v, err := strconv.ParseFloat(records[2][4], 64)
	require.NoError(t, err)
	assert.Equal(t, -1.25, v)
}

func TestWriteText(t *testing.T) {
	tbl := &Table{Name: "eigenvalues", RunID: "r", Entries: []Entry{{Row: "Z1", Col: "lambda", Value: 1}}}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, tbl))
	assert.Contains(t, buf.String(), "=== eigenvalues (run r) ===")
	assert.Contains(t, buf.String(), "1.000000")
}
