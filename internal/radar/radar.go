// Package radar maps named scalar metrics onto 2D coordinates for
// radial chart rendering. Projection is pure geometry: no I/O, no
// state, identical inputs give identical outputs.
package radar

import (
	"errors"
	"math"
)

// DefaultMaxValue is the scale ceiling used when Options leaves
// MaxValue unset.
const DefaultMaxValue = 100

// ErrNoMetrics is returned when a projection is requested for an empty
// metric set.
var ErrNoMetrics = errors.New("at least one metric is required")

// Metric is one named value on the chart. Values outside
// [0, MaxValue] are clamped at render time, never rejected: the chart
// must always draw.
type Metric struct {
	Label string
	Value float64
}

type Point struct {
	X float64
	Y float64
}

// Options controls the geometry of a projection.
type Options struct {
	// MaxValue is the value that reaches the full radius. Defaults to
	// DefaultMaxValue when zero or negative.
	MaxValue float64
	// Radius is the render radius of the full-value ring.
	Radius float64
	// Center is the fixed center point of the chart.
	Center Point
	// LabelOffset is added to MaxValue (in value units) when placing
	// label anchors, so labels sit outside the filled shape regardless
	// of the data.
	LabelOffset float64
}

func (o Options) maxValue() float64 {
	if o.MaxValue <= 0 {
		return DefaultMaxValue
	}

	return o.MaxValue
}

// Axis is the geometry computed for a single metric.
type Axis struct {
	Label string
	// Vertex is the data point on the polygon.
	Vertex Point
	// End is the axis-line endpoint at full value.
	End Point
	// LabelAnchor sits just outside the full-value ring.
	LabelAnchor Point
}

// Projection is the complete renderable geometry for one metric set.
type Projection struct {
	Axes   []Axis
	Center Point
	Radius float64
}

// Project computes vertex, axis and label coordinates for the ordered
// metric set. Metric 0 is placed at the top (angle -π/2) and the rest
// follow clockwise at 2π/N increments. With a single metric the
// "polygon" degenerates to one vertex at the top axis; no special
// casing is needed since 2π/1 never revisits another index.
func Project(metrics []Metric, opts Options) (*Projection, error) {
	n := len(metrics)
	if n == 0 {
		return nil, ErrNoMetrics
	}

	max := opts.maxValue()
	step := 2 * math.Pi / float64(n)

	axes := make([]Axis, 0, n)
	for i, m := range metrics {
		angle := step*float64(i) - math.Pi/2

		axes = append(axes, Axis{
			Label:       m.Label,
			Vertex:      opts.at(angle, clamp(m.Value, 0, max)/max),
			End:         opts.at(angle, 1),
			LabelAnchor: opts.at(angle, (max+opts.LabelOffset)/max),
		})
	}

	return &Projection{
		Axes:   axes,
		Center: opts.Center,
		Radius: opts.Radius,
	}, nil
}

// GridRings returns the radii of evenly spaced background circles, the
// last one at the full radius. Independent of any metric data.
func GridRings(opts Options, steps int) []float64 {
	if steps <= 0 {
		return nil
	}

	rings := make([]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		rings = append(rings, opts.Radius*float64(i)/float64(steps))
	}

	return rings
}

// Vertices returns the polygon points in metric order.
func (p *Projection) Vertices() []Point {
	points := make([]Point, 0, len(p.Axes))
	for _, a := range p.Axes {
		points = append(points, a.Vertex)
	}

	return points
}

// at converts a polar position (angle, fraction of radius) into
// cartesian coordinates around the center.
func (o Options) at(angle, fraction float64) Point {
	return Point{
		X: o.Center.X + o.Radius*fraction*math.Cos(angle),
		Y: o.Center.Y + o.Radius*fraction*math.Sin(angle),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
