package scene

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type fpoint struct{ X, Y float64 }

// fillPolygon rasterizes a closed polygon with anti-aliased edges.
func fillPolygon(dst draw.Image, pts []fpoint, src image.Image) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].X-float64(b.Min.X)), float32(pts[0].Y-float64(b.Min.Y)))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-float64(b.Min.X)), float32(p.Y-float64(b.Min.Y)))
	}
	z.ClosePath()
	z.Draw(dst, b, src, b.Min)
}

func fillCircle(dst draw.Image, cx, cy, r float64, c color.Color) {
	const segments = 32
	pts := make([]fpoint, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = fpoint{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	fillPolygon(dst, pts, image.NewUniform(c))
}

// strokeLine draws a segment of the given width as a filled quad.
func strokeLine(dst draw.Image, a, b fpoint, width float64, c color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	fillPolygon(dst, []fpoint{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}, image.NewUniform(c))
}

func strokePath(dst draw.Image, pts []fpoint, width float64, c color.Color) {
	for i := 1; i < len(pts); i++ {
		strokeLine(dst, pts[i-1], pts[i], width, c)
		fillCircle(dst, pts[i].X, pts[i].Y, width/2, c)
	}
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// stop is a colour at a position along a gradient axis, 0..1.
type stop struct {
	at float64
	c  color.RGBA
}

// linearGradient is an unbounded image whose colour varies along the
// axis from (x0,y0) to (x1,y1).
type linearGradient struct {
	x0, y0, x1, y1 float64
	stops          []stop
}

func (g *linearGradient) ColorModel() color.Model { return color.RGBAModel }

func (g *linearGradient) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (g *linearGradient) At(x, y int) color.Color {
	dx, dy := g.x1-g.x0, g.y1-g.y0
	den := dx*dx + dy*dy
	t := 0.0
	if den > 0 {
		t = ((float64(x)+0.5-g.x0)*dx + (float64(y)+0.5-g.y0)*dy) / den
	}
	return g.sample(t)
}

func (g *linearGradient) sample(t float64) color.RGBA {
	if t <= g.stops[0].at {
		return g.stops[0].c
	}
	for i := 1; i < len(g.stops); i++ {
		a, b := g.stops[i-1], g.stops[i]
		if t <= b.at {
			f := (t - a.at) / (b.at - a.at)
			return mix(a.c, b.c, f)
		}
	}
	return g.stops[len(g.stops)-1].c
}

func mix(a, b color.RGBA, f float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A)}
}

// dim scales the colour channels, keeping alpha.
func dim(c color.RGBA, k float64) color.RGBA {
	s := func(v uint8) uint8 { return uint8(math.Round(float64(v) * k)) }
	return color.RGBA{s(c.R), s(c.G), s(c.B), c.A}
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
