// Package tap contains the curve summary passed between tap detection and
// tap classification.
package tap

// PointCount is the number of characteristic points summarizing one tap.
const PointCount = 5

// Indexes into Curve.Points.
const (
	Baseline       = 0 // pre-contact baseline
	CollisionElbow = 1 // contact onset
	MaxCompression = 2
	PullbackElbow  = 3 // start of release
	FinalBaseline  = 4 // post-release baseline
)

// Anomaly tags appended by the rule classifier. Downstream consumers match on
// these exact strings.
const (
	InsufficientCompressionForce   Anomaly = "INSUFFICIENT_COMPRESSION_FORCE"
	InsufficientDecompressionForce Anomaly = "INSUFFICIENT_DECOMPRESSION_FORCE"
	BaselineForceInconsistent      Anomaly = "BASELINE_FORCE_INCONSISTENT"
)

// Anomaly is a tag describing why a tap is not mechanically valid.
type Anomaly string

// Point is one characteristic sample of a force curve.
type Point struct {
	Force    float64 `json:"force" koanf:"force"`
	Position float64 `json:"position" koanf:"position"`
	Time     float64 `json:"time" koanf:"time"`
}

// Curve summarizes a single tap. It is owned by the caller; classifiers only
// append anomalies and may clear Valid.
type Curve struct {
	ID           string
	Points       [PointCount]Point
	TriggerForce float64
	Anomalies    []Anomaly
	Valid        bool
}

// NewCurve returns a valid curve with no anomalies.
func NewCurve(points [PointCount]Point, triggerForce float64) *Curve {
	return &Curve{
		Points:       points,
		TriggerForce: triggerForce,
		Valid:        true,
	}
}

// AddAnomaly appends tag. Duplicates are kept.
func (c *Curve) AddAnomaly(tag Anomaly) {
	c.Anomalies = append(c.Anomalies, tag)
}

// HasAnomalies reports whether any anomaly has been recorded.
func (c *Curve) HasAnomalies() bool {
	return len(c.Anomalies) > 0
}

// Invalidate marks the tap invalid. There is no way back.
func (c *Curve) Invalidate() {
	c.Valid = false
}

// AnomalyStrings returns the anomaly tags as plain strings.
func (c *Curve) AnomalyStrings() []string {
	out := make([]string, len(c.Anomalies))
	for i, a := range c.Anomalies {
		out[i] = string(a)
	}
	return out
}
