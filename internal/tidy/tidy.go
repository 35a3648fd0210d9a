// Package tidy reshapes covariance and coefficient matrices of a simulation
// result into long-form (row, column, value) tables.
package tidy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"simrel/internal/simrel"
)

// Source selects population (true) or sample-estimated covariances.
type Source int

const (
	Population Source = iota
	Sample
)

func (s Source) String() string {
	if s == Sample {
		return "sample"
	}
	return "population"
}

// ParseSource maps "population" or "sample" to a Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "population", "":
		return Population, nil
	case "sample":
		return Sample, nil
	}
	return Population, fmt.Errorf("unknown covariance source %q", s)
}

// Basis selects latent (W, Z) or observed (Y, X) variables.
type Basis int

const (
	Latent Basis = iota
	Observed
)

func (b Basis) String() string {
	if b == Observed {
		return "observed"
	}
	return "latent"
}

// Entry is one cell of a matrix.
type Entry struct {
	Row   string
	Col   string
	Value float64
}

// Table is a named long-form table.
type Table struct {
	Name    string
	RunID   string
	Entries []Entry
}

// Covariances returns the joint covariance of the responses and predictors in
// the requested basis. Sample covariances are estimated from the training
// draw.
func Covariances(res *simrel.Result, basis Basis, src Source) (*Table, error) {
	if res == nil {
		return nil, fmt.Errorf("simulation result not provided")
	}
	m, p := res.Params.M, res.Params.P

	resp, pred := "W", "Z"
	if basis == Observed {
		resp, pred = "Y", "X"
	}
	names := append(labels(resp, m), labels(pred, p)...)

	var cov mat.Matrix
	switch {
	case src == Population && basis == Latent:
		cov = res.Cov.Sigma
	case src == Population && basis == Observed:
		cov = res.Coef.SigmaObs
	case basis == Latent:
		cov = sampleCovariance(res.Train.W, res.Train.Z)
	default:
		cov = sampleCovariance(res.Train.Y, res.Train.X)
	}

	t := fromMatrix(fmt.Sprintf("%s %s covariance", src, basis), res, cov, names, names)
	return t, nil
}

// Coefficients returns the true regression coefficients, predictors by
// responses.
func Coefficients(res *simrel.Result) (*Table, error) {
	if res == nil {
		return nil, fmt.Errorf("simulation result not provided")
	}
	m, p := res.Params.M, res.Params.P
	return fromMatrix("coefficients", res, res.Coef.Beta, labels("X", p), labels("Y", m)), nil
}

// Eigenvalues returns the latent predictor variances.
func Eigenvalues(res *simrel.Result) (*Table, error) {
	if res == nil {
		return nil, fmt.Errorf("simulation result not provided")
	}
	t := &Table{Name: "eigenvalues", RunID: res.ID.String()}
	for j, v := range res.Cov.Lambda {
		t.Entries = append(t.Entries, Entry{Row: fmt.Sprintf("Z%d", j+1), Col: "lambda", Value: v})
	}
	return t, nil
}

// CrossCovariances returns the non-zero latent cross covariances, i.e. the
// relevant predictor components of every response component.
func CrossCovariances(res *simrel.Result) (*Table, error) {
	if res == nil {
		return nil, fmt.Errorf("simulation result not provided")
	}
	t := &Table{Name: "relevant cross covariance", RunID: res.ID.String()}
	p, m := res.Cov.SigmaZW.Dims()
	for i := 0; i < m; i++ {
		for k := 0; k < p; k++ {
			v := res.Cov.SigmaZW.At(k, i)
			if v == 0 {
				continue
			}
			t.Entries = append(t.Entries, Entry{Row: fmt.Sprintf("W%d", i+1), Col: fmt.Sprintf("Z%d", k+1), Value: v})
		}
	}
	return t, nil
}

func fromMatrix(name string, res *simrel.Result, a mat.Matrix, rows, cols []string) *Table {
	r, c := a.Dims()
	t := &Table{Name: name, RunID: res.ID.String(), Entries: make([]Entry, 0, r*c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.Entries = append(t.Entries, Entry{Row: rows[i], Col: cols[j], Value: a.At(i, j)})
		}
	}
	return t
}

// sampleCovariance estimates the covariance of the columns of [resp pred].
func sampleCovariance(resp, pred *mat.Dense) *mat.SymDense {
	n, m := resp.Dims()
	_, p := pred.Dims()
	joint := mat.NewDense(n, m+p, nil)
	joint.Slice(0, n, 0, m).(*mat.Dense).Copy(resp)
	joint.Slice(0, n, m, m+p).(*mat.Dense).Copy(pred)

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, joint, nil)
	return &cov
}

func labels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}
