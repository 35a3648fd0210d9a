package simrel

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Summary writes a human-readable overview of the result to w.
func (r *Result) Summary(w io.Writer) {
	if r == nil {
		fmt.Fprintln(w, "simulation result is nil")
		return
	}
	fmt.Fprintln(w, "         Multivariate simulation summary      ")

	// Basic dimensions
	fmt.Fprintf(w, "Run id:                  %s\n", r.ID)
	fmt.Fprintf(w, "Seed:                    %d\n", r.Seed)
	fmt.Fprintf(w, "Predictors (p):          %d\n", r.Params.P)
	fmt.Fprintf(w, "Responses (m):           %d\n", r.Params.M)
	fmt.Fprintf(w, "Training size (n):       %d\n", r.Params.N)
	if r.Test != nil {
		fmt.Fprintf(w, "Test size (ntest):       %d\n", r.Params.NTest)
	}
	fmt.Fprintf(w, "Decay (gamma):           %v\n", r.Params.Gamma)
	fmt.Fprintln(w)

	// Design
	fmt.Fprintln(w, "Relevant components:")
	for i := range r.Design.PredPos {
		fmt.Fprintf(w, "  W%d: R2 = %.3f, relevant = %v, predictors = %v\n",
			i+1, r.Design.R2[i], r.Design.RelPos[i], oneBased(r.Design.PredPos[i]))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Latent eigenvalues (lambda):")
	fmt.Fprintf(w, "  %.4f\n", r.Cov.Lambda)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "True coefficients (beta):")
	fmt.Fprintf(w, "%v\n", mat.Formatted(r.Coef.Beta, mat.Prefix("  "), mat.Squeeze()))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Intercept (beta0):")
	fmt.Fprintf(w, "  %.4f\n", r.Coef.Beta0)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Variance explained, observed basis (RsqY):")
	fmt.Fprintf(w, "%v\n", mat.Formatted(r.Coef.RsqY, mat.Prefix("  "), mat.Squeeze()))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Minimum prediction error (minerror):")
	fmt.Fprintf(w, "%v\n", mat.Formatted(r.Coef.MinError, mat.Prefix("  "), mat.Squeeze()))
	fmt.Fprintln(w)

	if len(r.Advisories) > 0 {
		fmt.Fprintln(w, "Advisories:")
		for _, a := range r.Advisories {
			fmt.Fprintf(w, "  [%s] %s\n", a.Code, a.Message)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=======================================")
}

func oneBased(pos []int) []int {
	out := make([]int, len(pos))
	for i, v := range pos {
		out[i] = v + 1
	}
	return out
}
