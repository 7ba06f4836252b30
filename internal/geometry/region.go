package geometry

import (
	"errors"
	"math/rand"
)

// ErrEmptyBox is returned when a drop target has no area to map onto.
var ErrEmptyBox = errors.New("target box has zero size")

// Point is a coordinate in the 0-100 percentage space of the target box
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Region describes the triangular area ornaments must land in.
// Vertices give the horizontal extent; TopY/BottomY give the vertical
// bounds used for clamping, which may differ from the vertex y values
// when the drawing and its container use different units.
type Region struct {
	Top         Point   `yaml:"top"`
	BottomLeft  Point   `yaml:"bottom_left"`
	BottomRight Point   `yaml:"bottom_right"`
	TopY        float64 `yaml:"top_y"`
	BottomY     float64 `yaml:"bottom_y"`
	Inset       float64 `yaml:"inset"`    // keeps items off the outline
	BandTop     float64 `yaml:"band_top"` // random fill band
	BandBottom  float64 `yaml:"band_bottom"`
}

// Span is the valid horizontal range at a given height
type Span struct {
	MinX, MaxX float64
	Y          float64
}

// DefaultRegion returns the tree silhouette of the decorating board:
// apex at x=50, base from 10 to 90, occupying 8%..79% of the container height.
func DefaultRegion() Region {
	return Region{
		Top:         Point{X: 50, Y: 10},
		BottomLeft:  Point{X: 10, Y: 95},
		BottomRight: Point{X: 90, Y: 95},
		TopY:        8,
		BottomY:     79,
		Inset:       5,
		BandTop:     20,
		BandBottom:  75,
	}
}

// SpanAt clamps y into the region bounds and returns the horizontal range
// available at that height. At the apex, where the inset swallows the
// whole width, the span collapses to the apex x.
func (r Region) SpanAt(y float64) Span {
	clampedY := clamp(y, r.TopY, r.BottomY)

	progress := 0.0
	if h := r.BottomY - r.TopY; h > 0 {
		progress = (clampedY - r.TopY) / h
	}
	halfWidth := progress * (r.BottomRight.X - r.BottomLeft.X) / 2

	minX := r.Top.X - halfWidth + r.Inset
	maxX := r.Top.X + halfWidth - r.Inset
	if minX > maxX {
		minX, maxX = r.Top.X, r.Top.X
	}

	return Span{MinX: minX, MaxX: maxX, Y: clampedY}
}

// ClampToRegion maps an arbitrary point onto the nearest valid placement.
func (r Region) ClampToRegion(x, y float64) (float64, float64) {
	span := r.SpanAt(y)
	return clamp(x, span.MinX, span.MaxX), span.Y
}

// Contains reports whether the point is already a valid placement.
func (r Region) Contains(x, y float64) bool {
	cx, cy := r.ClampToRegion(x, y)
	return cx == x && cy == y
}

// RandomPointInRegion draws y uniformly from the placement band and x
// uniformly from the span at that height.
func (r Region) RandomPointInRegion(rng *rand.Rand) (float64, float64) {
	lo, hi := r.BandTop, r.BandBottom
	if hi < lo {
		lo, hi = hi, lo
	}
	y := lo + rng.Float64()*(hi-lo)

	span := r.SpanAt(y)
	x := span.MinX + rng.Float64()*(span.MaxX-span.MinX)
	return clamp(x, span.MinX, span.MaxX), span.Y
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
