// Package curvefile reads a tap curve summary from a YAML or JSON document.
package curvefile

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/okian/tapcheck/internal/domain/tap"
)

// ErrInvalidCurve marks a document that does not describe a curve summary.
var ErrInvalidCurve = errors.New("invalid curve")

// document mirrors the on-disk layout:
//
//	id: tap-7
//	trigger_force: 10
//	points:
//	  - {force: 0, position: 0.2, time: 0.0}
//	  ...five entries...
//	anomalies: []
//	is_valid: true
type document struct {
	ID           string      `koanf:"id"`
	TriggerForce *float64    `koanf:"trigger_force"`
	Points       []tap.Point `koanf:"points"`
	Anomalies    []string    `koanf:"anomalies"`
	IsValid      *bool       `koanf:"is_valid"`
}

// Load reads the curve at path. JSON is accepted since it is valid YAML.
func Load(path string) (*tap.Curve, error) {
	return load(file.Provider(path), path)
}

// Parse reads a curve from an in-memory document.
func Parse(b []byte) (*tap.Curve, error) {
	return load(rawbytes.Provider(b), "<bytes>")
}

func load(p koanf.Provider, name string) (*tap.Curve, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCurve, name, err)
	}
	if doc.TriggerForce == nil {
		return nil, fmt.Errorf("%w: %s: missing trigger_force", ErrInvalidCurve, name)
	}
	if len(doc.Points) != tap.PointCount {
		return nil, fmt.Errorf("%w: %s: points must hold exactly %d entries, got %d",
			ErrInvalidCurve, name, tap.PointCount, len(doc.Points))
	}

	var pts [tap.PointCount]tap.Point
	copy(pts[:], doc.Points)
	c := tap.NewCurve(pts, *doc.TriggerForce)
	c.ID = doc.ID
	for _, a := range doc.Anomalies {
		c.AddAnomaly(tap.Anomaly(a))
	}
	if doc.IsValid != nil {
		c.Valid = *doc.IsValid
	}
	return c, nil
}
