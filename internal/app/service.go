// Package service hosts the installed tap classifier and reports its verdicts.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okian/tapcheck/internal/domain/classifier"
	"github.com/okian/tapcheck/internal/domain/tap"
	"github.com/okian/tapcheck/pkg/logger"
	"github.com/okian/tapcheck/pkg/metrics"
)

// Verdict is the outcome of classifying one tap.
type Verdict struct {
	TapID     string
	Valid     bool
	Anomalies []tap.Anomaly
	// Added holds the anomalies appended by this classification.
	Added []tap.Anomaly
	// Skipped is set when the tap arrived already flagged and no rule ran.
	Skipped bool
}

// Service runs exactly one classification per tap through the installed
// classifier. It keeps no per-tap state.
type Service struct {
	name       string
	classifier classifier.Classifier
	tolerances classifier.Config
	logger     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClassifier installs an already built classifier variant under name.
func WithClassifier(name string, c classifier.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.name = name
			s.classifier = c
		}
	}
}

// New builds the service with the named classifier variant and tolerances.
// Invalid tolerances or an unknown variant fail here, before any tap is seen.
func New(name string, tolerances classifier.Config, opts ...Option) (*Service, error) {
	c, err := classifier.New(name, tolerances)
	if err != nil {
		return nil, err
	}
	s := &Service{
		name:       name,
		classifier: c,
		tolerances: tolerances,
		logger:     logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ClassifierName returns the name of the installed variant.
func (s *Service) ClassifierName() string { return s.name }

// Tolerances returns the configured tolerances.
func (s *Service) Tolerances() classifier.Config { return s.tolerances }

// Classify evaluates c in place and returns the verdict. The caller must not
// share c with another goroutine until Classify returns.
func (s *Service) Classify(ctx context.Context, c *tap.Curve) Verdict {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	flagged := len(c.Anomalies)

	start := time.Now()
	s.classifier.Classify(c)
	metrics.RecordClassifyLatency(float64(time.Since(start).Nanoseconds()) / float64(time.Microsecond))

	v := Verdict{
		TapID:     c.ID,
		Valid:     c.Valid,
		Anomalies: c.Anomalies,
		Added:     c.Anomalies[flagged:],
		Skipped:   flagged > 0,
	}

	if v.Skipped {
		metrics.RecordTapSkipped()
	}
	for _, a := range v.Added {
		metrics.RecordAnomaly(string(a))
	}
	metrics.RecordTapClassified(v.Valid)

	fields := []logger.Field{
		logger.String("tap_id", v.TapID),
		logger.String("classifier", s.name),
		logger.Bool("valid", v.Valid),
		logger.Strings("anomalies", c.AnomalyStrings()),
		logger.Float64("trigger_force", c.TriggerForce),
	}
	if v.Valid {
		s.logger.Debug(ctx, "tap accepted", fields...)
	} else {
		s.logger.Info(ctx, "tap rejected", fields...)
	}
	return v
}
