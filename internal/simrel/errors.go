package simrel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural matches every *ValidationError.
	ErrStructural = errors.New("simrel: invalid parameters")
	// ErrInfeasible matches every *FeasibilityError.
	ErrInfeasible = errors.New("simrel: infeasible covariance structure")
)

// ViolationCode names a structural rule.
type ViolationCode string

const (
	CodeSampleSize       ViolationCode = "sample-size"
	CodeTestSize         ViolationCode = "test-size"
	CodeDimension        ViolationCode = "dimension"
	CodeGamma            ViolationCode = "gamma"
	CodeLengthMismatch   ViolationCode = "length-mismatch"
	CodeTooManyRelevant  ViolationCode = "too-many-relevant-components"
	CodeQNotAboveRelPos  ViolationCode = "q-not-above-relpos"
	CodeSumQ             ViolationCode = "sum-q-not-below-p"
	CodeRelPosRange      ViolationCode = "relpos-out-of-range"
	CodeRelPosDuplicate  ViolationCode = "relpos-duplicate"
	CodeRelPosOverlap    ViolationCode = "relpos-overlap"
	CodeR2Range          ViolationCode = "r2-out-of-range"
	CodeMuXLength        ViolationCode = "mux-length"
	CodeMuYLength        ViolationCode = "muy-length"
	CodeYPosRange        ViolationCode = "ypos-out-of-range"
	CodeYPosDuplicate    ViolationCode = "ypos-duplicate"
	CodeUninformativeRot ViolationCode = "uninformative-response"
)

// Violation is one broken structural rule.
type Violation struct {
	Code    ViolationCode
	Message string
}

// Advisory is a non-fatal finding attached to a successful result.
type Advisory struct {
	Code    ViolationCode
	Message string
}

// ValidationError aggregates every structural violation found in one check.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "invalid parameters: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrStructural }

// Has reports whether the error contains a violation with the given code.
func (e *ValidationError) Has(code ViolationCode) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// FeasibilityCondition names a run-time feasibility gate.
type FeasibilityCondition string

const (
	CondCorrelationBound  FeasibilityCondition = "correlation-bound"
	CondNotPosDefinite    FeasibilityCondition = "not-positive-definite"
	CondCholeskyFailed    FeasibilityCondition = "cholesky-failed"
	CondSingularLatentCov FeasibilityCondition = "singular-latent-covariance"
)

// FeasibilityError reports a covariance structure that is valid on paper but
// numerically infeasible for the drawn covariances. Re-running with another
// seed may succeed.
type FeasibilityError struct {
	Condition FeasibilityCondition
	Detail    string
}

func (e *FeasibilityError) Error() string {
	return fmt.Sprintf("infeasible covariance structure (%s): %s", e.Condition, e.Detail)
}

func (e *FeasibilityError) Is(target error) bool { return target == ErrInfeasible }
