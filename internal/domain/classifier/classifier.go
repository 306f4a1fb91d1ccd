// Package classifier decides whether a segmented tap is a mechanically valid
// contact.
package classifier

import (
	"fmt"
	"sort"

	"github.com/okian/tapcheck/internal/domain/tap"
)

// Classifier inspects a curve and may append anomalies and invalidate it.
// Implementations must not clear anomalies or set Valid back to true. The
// caller owns the curve exclusively for the duration of the call.
type Classifier interface {
	Classify(c *tap.Curve)
}

// Func adapts a plain function to Classifier.
type Func func(c *tap.Curve)

// Classify calls f(c).
func (f Func) Classify(c *tap.Curve) { f(c) }

// Factory builds a classifier variant from tolerances.
type Factory func(cfg Config) (Classifier, error)

// SimpleName is the name of the built-in rule classifier.
const SimpleName = "simple"

var factories = map[string]Factory{ //nolint:gochecknoglobals // fixed registry of built-in variants
	SimpleName: func(cfg Config) (Classifier, error) { return NewSimple(cfg) },
}

// New builds the classifier variant registered under name.
func New(name string, cfg Config) (Classifier, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownClassifier, name, Names())
	}
	return f(cfg)
}

// Names lists the registered variants in sorted order.
func Names() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
