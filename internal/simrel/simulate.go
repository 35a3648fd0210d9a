package simrel

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options controls one call to Simulate.
type Options struct {
	// Seed of the random source; 0 picks a time-based seed
	Seed uint64
	// Logger receives stage and advisory messages; nil disables logging
	Logger *zap.Logger
}

// Simulate validates params, builds the covariance structure and rotations,
// derives the true coefficients and draws the training (and optional test)
// samples.
//
// A structural problem returns a *ValidationError before any random number is
// drawn. A numerically infeasible draw returns a *FeasibilityError; calling
// again with another seed may succeed. Random numbers are consumed in a fixed
// order: masking positions, cross covariances, predictor rotations, response
// rotations, training sample, test sample.
func Simulate(params Parameters, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. Structural validation
	report := Check(params)
	if err := report.Err(); err != nil {
		logger.Debug("parameters rejected", zap.Error(err))
		return nil, err
	}

	rng, seed := newRand(opts.Seed)
	id := uuid.New()
	logger = logger.With(
		zap.String("run", id.String()),
		zap.Uint64("seed", seed),
		zap.Int("n", params.N),
		zap.Int("p", params.P),
		zap.Int("m", params.M),
	)
	for _, a := range report.Advisories {
		logger.Warn(a.Message, zap.String("code", string(a.Code)))
	}

	// 2. Design completion
	design := completeDesign(params, rng)
	logger.Debug("design completed", zap.Any("predictor_positions", design.PredPos))

	// 3. Covariance structure
	cov, err := buildCovariance(design, params.P, params.Gamma, rng)
	if err != nil {
		logger.Debug("covariance rejected", zap.Error(err))
		return nil, err
	}

	// 4. Rotations
	rot := generateRotations(design, params.P, params.M, params.YPos, rng)

	// 5. True coefficients
	coef, err := deriveCoefficients(cov, rot, params.MuX, params.MuY)
	if err != nil {
		return nil, err
	}

	// 6. Samples
	u, err := choleskyUpper(cov.Sigma)
	if err != nil {
		return nil, err
	}
	train := drawSample(params.N, u, rot, params.MuX, params.MuY, rng)

	var test *Sample
	if params.NTest > 0 {
		s := drawSample(params.NTest, u, rot, params.MuX, params.MuY, rng)
		test = &s
	}
	logger.Debug("samples drawn", zap.Int("ntest", params.NTest))

	// 7. Assembly
	return &Result{
		ID:         id,
		Type:       ResultType,
		Seed:       seed,
		Params:     params.Clone(),
		Design:     design,
		Cov:        cov,
		Rot:        rot,
		Coef:       coef,
		Train:      train,
		Test:       test,
		Advisories: report.Advisories,
	}, nil
}
