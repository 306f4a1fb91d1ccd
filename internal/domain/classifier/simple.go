package classifier

import (
	"fmt"
	"math"

	"github.com/okian/tapcheck/internal/domain/tap"
)

// Tolerance defaults and bounds, in percent.
const (
	DefaultMinDecompressionForcePercentage  = 66.66
	DefaultMaxBaselineForceChangePercentage = 20.0

	minDecompressionPctLow  = 20.0
	minDecompressionPctHigh = 100.0
	maxBaselinePctHigh      = 50.0

	// excessCompressionReturn is the share of compression force above the
	// trigger force that must come back during release.
	excessCompressionReturn = 0.33
)

// Config holds the two rule tolerances as percentages.
type Config struct {
	// MinDecompressionForcePercentage is the share of the trigger force the
	// release must dissipate. Valid range [20, 100].
	MinDecompressionForcePercentage float64 `koanf:"min_decompression_force_percentage" json:"min_decompression_force_percentage"`

	// MaxBaselineForceChangePercentage bounds the baseline drift relative to
	// the compression force. Valid range (0, 50].
	MaxBaselineForceChangePercentage float64 `koanf:"max_baseline_force_change_percentage" json:"max_baseline_force_change_percentage"`
}

// DefaultConfig returns the default tolerances.
func DefaultConfig() Config {
	return Config{
		MinDecompressionForcePercentage:  DefaultMinDecompressionForcePercentage,
		MaxBaselineForceChangePercentage: DefaultMaxBaselineForceChangePercentage,
	}
}

// Validate reports the first tolerance outside its range.
func (c Config) Validate() error {
	// Negated comparisons so NaN is rejected too.
	if !(c.MinDecompressionForcePercentage >= minDecompressionPctLow && c.MinDecompressionForcePercentage <= minDecompressionPctHigh) {
		return fmt.Errorf("%w: min_decompression_force_percentage=%g must be in [%g, %g]",
			ErrInvalidConfig, c.MinDecompressionForcePercentage, minDecompressionPctLow, minDecompressionPctHigh)
	}
	if !(c.MaxBaselineForceChangePercentage > 0 && c.MaxBaselineForceChangePercentage <= maxBaselinePctHigh) {
		return fmt.Errorf("%w: max_baseline_force_change_percentage=%g must be in (0, %g]",
			ErrInvalidConfig, c.MaxBaselineForceChangePercentage, maxBaselinePctHigh)
	}
	return nil
}

// Simple applies fixed force-magnitude rules to the characteristic points of
// a tap. It holds no per-call state and is safe for concurrent use on
// distinct curves.
type Simple struct {
	cfg               Config
	minDecompForcePct float64
	maxBaselineChgPct float64
}

// NewSimple validates cfg and returns a rule classifier.
func NewSimple(cfg Config) (*Simple, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simple{
		cfg:               cfg,
		minDecompForcePct: cfg.MinDecompressionForcePercentage / 100,
		maxBaselineChgPct: cfg.MaxBaselineForceChangePercentage / 100,
	}, nil
}

// Config returns the tolerances the classifier was built with.
func (s *Simple) Config() Config { return s.cfg }

// Classify appends an anomaly for every failed rule and invalidates the curve
// if any anomaly is present. Curves that already carry anomalies are left
// untouched: force reasoning on badly segmented data is meaningless.
func (s *Simple) Classify(c *tap.Curve) {
	if c.HasAnomalies() {
		return
	}

	p := c.Points
	trigger := c.TriggerForce

	// Collision to max compression must develop at least the trigger force.
	compression := math.Abs(p[tap.MaxCompression].Force - p[tap.CollisionElbow].Force)
	if compression < trigger {
		c.AddAnomaly(tap.InsufficientCompressionForce)
	}

	// Release must return a share of the trigger force plus a third of any
	// excess compression.
	decompression := math.Abs(p[tap.PullbackElbow].Force - p[tap.FinalBaseline].Force)
	minDecompression := trigger*s.minDecompForcePct + (compression-trigger)*excessCompressionReturn
	if decompression < minDecompression {
		c.AddAnomaly(tap.InsufficientDecompressionForce)
	}

	baselineDelta := math.Abs(p[tap.CollisionElbow].Force - p[tap.FinalBaseline].Force)
	if baselineDelta > compression*s.maxBaselineChgPct {
		c.AddAnomaly(tap.BaselineForceInconsistent)
	}

	// TODO: add collision and pullback elbow sharpness checks once their
	// thresholds are defined.

	if c.HasAnomalies() {
		c.Invalidate()
	}
}
