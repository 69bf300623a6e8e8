package multilat

import (
	"errors"
	"fmt"
	"math/rand"

	"multilat/pkg/geometry"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// ErrInvalidInput is returned when the caller violates the input contract.
var ErrInvalidInput = errors.New("multilat: invalid input")

var validate = validator.New()

// Method names the local optimizer used for each restart.
type Method string

const (
	MethodBFGS       Method = "bfgs"
	MethodLBFGS      Method = "lbfgs"
	MethodCG         Method = "cg"
	MethodNelderMead Method = "neldermead"
)

// newOptimizer returns a fresh optimize.Method. Empty selects BFGS.
func (m Method) newOptimizer() optimize.Method {
	switch m {
	case MethodLBFGS:
		return &optimize.LBFGS{}
	case MethodCG:
		return &optimize.CG{}
	case MethodNelderMead:
		return &optimize.NelderMead{}
	default:
		return &optimize.BFGS{}
	}
}

// Default values for the top-level Locate entry point.
const (
	DefaultLocateOptTrials      = 15
	DefaultLocateReclusterIters = 8
)

// Config is the caller-facing configuration for Locate. Zero values select
// the documented defaults or auto-derived values.
type Config struct {
	// XLim and YLim bound the random restarts. Both or neither must be set;
	// when neither is set they are computed from the circle extents.
	XLim *geometry.Limits `json:"xlim,omitempty" yaml:"xlim,omitempty" validate:"required_with=YLim"`
	YLim *geometry.Limits `json:"ylim,omitempty" yaml:"ylim,omitempty" validate:"required_with=XLim"`

	// NumClusters fixes the number of sources. Zero estimates it.
	NumClusters int `json:"num_clusters,omitempty" yaml:"num_clusters,omitempty" validate:"gte=0"`

	// ClusteringThreshold is the single-linkage cut distance used by the
	// estimator. Zero derives it from the mean circle radius.
	ClusteringThreshold float64 `json:"clustering_threshold,omitempty" yaml:"clustering_threshold,omitempty" validate:"gte=0"`

	OptTrials       int     `json:"opt_trials,omitempty" yaml:"opt_trials,omitempty" validate:"gte=0"`
	ReclusterIters  int     `json:"recluster_iters,omitempty" yaml:"recluster_iters,omitempty" validate:"gte=0"`
	HighlightRadius float64 `json:"highlight_radius,omitempty" yaml:"highlight_radius,omitempty" validate:"gte=0"`

	Method Method `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=bfgs lbfgs cg neldermead"`

	// Seed seeds the restart generator unless WithRand is given.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Validate checks the configuration. Errors wrap ErrInvalidInput.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// SolverConfig is the fully-resolved configuration of one solver run.
type SolverConfig struct {
	XLim geometry.Limits
	YLim geometry.Limits

	// NumClusters fixes the number of sources. Zero estimates it.
	NumClusters int `validate:"gte=0"`

	ClusteringThreshold float64 `validate:"gte=0"`
	OptTrials           int     `validate:"gte=1"`
	ReclusterIters      int     `validate:"gte=1"`
	HighlightRadius     float64 `validate:"gte=0"`
	Method              Method  `validate:"omitempty,oneof=bfgs lbfgs cg neldermead"`
}

// DefaultSolverConfig returns the defaults of the lower-level Solve entry point.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		XLim:                geometry.NewLimits(0, 10),
		YLim:                geometry.NewLimits(0, 10),
		ClusteringThreshold: 4.5,
		OptTrials:           7,
		ReclusterIters:      5,
		HighlightRadius:     0.2,
		Method:              MethodBFGS,
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidInput.
func (c *SolverConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if c.XLim.Max < c.XLim.Min || c.YLim.Max < c.YLim.Min {
		return fmt.Errorf("%w: limits out of order: x=%v y=%v", ErrInvalidInput, c.XLim, c.YLim)
	}
	return nil
}

// Option customizes a solver run.
type Option func(*options)

type options struct {
	rng         *rand.Rand
	logger      *zap.Logger
	onIteration func(Iteration)
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(0))
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// WithRand supplies the random source used for restart points.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithSeed seeds a new random source for restart points.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIterationHook registers a callback invoked after each iteration's
// solve step, before reassignment. The callback receives copies.
func WithIterationHook(fn func(Iteration)) Option {
	return func(o *options) {
		o.onIteration = fn
	}
}
