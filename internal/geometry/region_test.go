package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRegion() Region {
	return Region{
		Top:         Point{X: 50, Y: 10},
		BottomLeft:  Point{X: 10, Y: 95},
		BottomRight: Point{X: 90, Y: 95},
		TopY:        10,
		BottomY:     95,
		Inset:       5,
		BandTop:     20,
		BandBottom:  90,
	}
}

func TestClampToRegionApexAndBase(t *testing.T) {
	r := scenarioRegion()

	x, y := r.ClampToRegion(50, 10)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 10.0, y)

	x, y = r.ClampToRegion(50, 95)
	assert.Equal(t, 95.0, y)
	assert.GreaterOrEqual(t, x, 10+r.Inset)
	assert.LessOrEqual(t, x, 90-r.Inset)

	x, _ = r.ClampToRegion(0, 95)
	assert.Equal(t, 15.0, x)
	x, _ = r.ClampToRegion(100, 95)
	assert.Equal(t, 85.0, x)
}

func TestClampToRegionVerticalBounds(t *testing.T) {
	r := scenarioRegion()

	tests := []struct {
		name  string
		y     float64
		wantY float64
	}{
		{"above top", -20, 10},
		{"just above top", 9.99, 10},
		{"below bottom", 140, 95},
		{"inside", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, y := r.ClampToRegion(50, tt.y)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestSpanAtAlwaysOrdered(t *testing.T) {
	r := scenarioRegion()
	for y := r.TopY - 5; y <= r.BottomY+5; y += 0.25 {
		span := r.SpanAt(y)
		require.LessOrEqual(t, span.MinX, span.MaxX, "y=%f", y)

		for _, px := range []float64{-50, 0, 33, 50, 71, 100, 150} {
			x, _ := r.ClampToRegion(px, y)
			assert.GreaterOrEqual(t, x, span.MinX)
			assert.LessOrEqual(t, x, span.MaxX)
		}
	}
}

func TestSpanAtDegenerateApex(t *testing.T) {
	r := scenarioRegion()
	// halfWidth at y=12 is 2*40/85 < inset, so the span collapses.
	span := r.SpanAt(12)
	assert.Equal(t, r.Top.X, span.MinX)
	assert.Equal(t, r.Top.X, span.MaxX)

	x, _ := r.ClampToRegion(10, 12)
	assert.Equal(t, r.Top.X, x)
}

func TestRandomPointInRegionStaysInside(t *testing.T) {
	r := scenarioRegion()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		x, y := r.RandomPointInRegion(rng)
		require.GreaterOrEqual(t, y, r.BandTop)
		require.LessOrEqual(t, y, r.BandBottom)
		require.True(t, r.Contains(x, y), "point (%f, %f) escaped the region", x, y)
	}
}

func TestRandomPointInRegionSeeded(t *testing.T) {
	r := DefaultRegion()
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		ax, ay := r.RandomPointInRegion(a)
		bx, by := r.RandomPointInRegion(b)
		assert.Equal(t, ax, bx)
		assert.Equal(t, ay, by)
	}
}

func TestToPercent(t *testing.T) {
	box := Box{Left: 100, Top: 50, Width: 300, Height: 400}

	x, y, err := ToPercent(250, 250, box)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 50.0, y, 1e-9)

	_, _, err = ToPercent(10, 10, Box{Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrEmptyBox)
}
