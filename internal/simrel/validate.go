package simrel

import (
	"fmt"
	"slices"
)

// Report is the outcome of Check: fatal violations and non-fatal advisories.
type Report struct {
	Violations []Violation
	Advisories []Advisory
}

// Err returns a *ValidationError when the report has violations, else nil.
func (r Report) Err() error {
	if len(r.Violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

func (r *Report) fail(code ViolationCode, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) advise(code ViolationCode, format string, args ...any) {
	r.Advisories = append(r.Advisories, Advisory{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Check validates the structural consistency of a design. It never draws
// random numbers and never modifies p. Every violated rule is reported.
func Check(p Parameters) Report {
	var r Report

	// 1. Sizes
	if p.N < 1 {
		r.fail(CodeSampleSize, "n must be positive, got %d", p.N)
	}
	if p.NTest < 0 {
		r.fail(CodeTestSize, "ntest must not be negative, got %d", p.NTest)
	}
	if p.P < 1 || p.M < 1 {
		r.fail(CodeDimension, "p and m must be positive, got p = %d, m = %d", p.P, p.M)
	}
	if !(p.Gamma > 0) {
		r.fail(CodeGamma, "gamma must be positive, got %v", p.Gamma)
	}

	// 2. Relevant components
	nrel := len(p.RelPos)
	if nrel != len(p.R2) || nrel != len(p.Q) {
		r.fail(CodeLengthMismatch, "relpos, R2 and q must have equal length, got %d, %d and %d",
			nrel, len(p.R2), len(p.Q))
	}
	if p.M >= 1 && nrel > p.M {
		r.fail(CodeTooManyRelevant, "at most m = %d relevant components, got %d", p.M, nrel)
	}
	for i := 0; i < nrel && i < len(p.Q); i++ {
		if p.Q[i] <= len(p.RelPos[i]) {
			r.fail(CodeQNotAboveRelPos, "q[%d] = %d must exceed the %d relevant positions of component %d",
				i+1, p.Q[i], len(p.RelPos[i]), i+1)
		}
	}
	sumQ := 0
	for _, qi := range p.Q {
		sumQ += qi
	}
	if sumQ >= p.P {
		r.fail(CodeSumQ, "sum of q (%d) must be less than p (%d)", sumQ, p.P)
	}

	// 3. Relevant positions
	if maxPos, ok := maxOf(p.RelPos); ok && maxPos >= p.P {
		r.fail(CodeRelPosRange, "largest relevant position (%d) must be less than p (%d)", maxPos, p.P)
	}
	seen := make(map[int]int)
	for i, set := range p.RelPos {
		inSet := make(map[int]bool, len(set))
		for _, pos := range set {
			if pos < 1 {
				r.fail(CodeRelPosRange, "relevant position %d of component %d must be at least 1", pos, i+1)
				continue
			}
			if inSet[pos] {
				r.fail(CodeRelPosDuplicate, "relevant position %d repeated in component %d", pos, i+1)
				continue
			}
			inSet[pos] = true
			if owner, ok := seen[pos]; ok {
				r.fail(CodeRelPosOverlap, "relevant position %d claimed by components %d and %d", pos, owner+1, i+1)
				continue
			}
			seen[pos] = i
		}
	}

	// 4. Coefficients of determination
	for i, r2 := range p.R2 {
		if !(r2 > 0 && r2 < 1) {
			r.fail(CodeR2Range, "R2[%d] = %v must lie in (0, 1)", i+1, r2)
		}
	}

	// 5. Means
	if p.MuX != nil && len(p.MuX) != p.P {
		r.fail(CodeMuXLength, "muX must have length p = %d, got %d", p.P, len(p.MuX))
	}
	if p.MuY != nil && len(p.MuY) != p.M {
		r.fail(CodeMuYLength, "muY must have length m = %d, got %d", p.M, len(p.MuY))
	}

	// 6. Response grouping
	claimed := make(map[int]bool)
	for g, set := range p.YPos {
		for _, idx := range set {
			if idx < 1 || idx > p.M {
				r.fail(CodeYPosRange, "ypos index %d in group %d must lie in 1..%d", idx, g+1, p.M)
				continue
			}
			if claimed[idx] {
				r.fail(CodeYPosDuplicate, "response component %d appears more than once in ypos", idx)
				continue
			}
			claimed[idx] = true
		}
		if isPair12(set) {
			r.advise(CodeUninformativeRot,
				"ypos group %d mixes response components 1 and 2, one of the resulting responses may be uninformative", g+1)
		}
	}

	return r
}

func maxOf(sets [][]int) (int, bool) {
	found := false
	best := 0
	for _, s := range sets {
		for _, v := range s {
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	return best, found
}

// isPair12 reports whether set is exactly {1, 2}.
func isPair12(set []int) bool {
	if len(set) != 2 {
		return false
	}
	s := slices.Clone(set)
	slices.Sort(s)
	return s[0] == 1 && s[1] == 2
}
