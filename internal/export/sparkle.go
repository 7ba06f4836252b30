package export

import (
	"image"
	"image/color"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

var sparkleColors = []color.RGBA{
	{R: 0xff, G: 0xf4, B: 0xb0, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
}

// Sparkle is one star of the overlay in a given frame.
type Sparkle struct {
	X, Y   int
	Radius float64
	Color  color.RGBA
}

// SparkleAt places sprite i in frame f of a loop of frames. Sprites drift
// down by exactly one canvas height per loop, so frame `frames` equals
// frame 0 and the animation wraps without a seam.
func SparkleAt(i, f, frames, width, height int, maxRadius float64) Sparkle {
	if frames <= 0 {
		frames = 1
	}
	f %= frames

	x := (i*7919 + 13) % width
	y := (i*4793 + 29 + f*height/frames) % height

	phase := float32((f+i)%frames) / float32(frames)
	return Sparkle{
		X:      x,
		Y:      y,
		Radius: maxRadius * twinkle(phase),
		Color:  sparkleColors[i%len(sparkleColors)],
	}
}

// twinkle grows a sparkle over the first half of its cycle and shrinks it
// over the second, eased at both ends.
func twinkle(phase float32) float64 {
	grow := gween.New(0.35, 1, 0.5, ease.InOutSine)
	t := phase
	if t > 0.5 {
		t = 1 - t
	}
	v, _ := grow.Set(t)
	return float64(v)
}

// drawSparkle paints a four-point star.
func drawSparkle(dst draw.Image, s Sparkle) {
	if s.Radius < 0.5 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	cx, cy := float64(s.X-b.Min.X), float64(s.Y-b.Min.Y)
	inner := s.Radius * 0.28
	for k := 0; k < 8; k++ {
		r := s.Radius
		if k%2 == 1 {
			r = inner
		}
		a := math.Pi / 4 * float64(k)
		px, py := float32(cx+r*math.Sin(a)), float32(cy-r*math.Cos(a))
		if k == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(s.Color), image.Point{})
}
