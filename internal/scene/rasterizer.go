package scene

import (
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/draw"

	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/session"
)

// The tree is drawn in a 100x120 unit box fitted into the capture, like an
// SVG viewBox with "meet" scaling.
const (
	viewW = 100.0
	viewH = 120.0
)

var (
	treeOutline = []fpoint{{50, 10}, {10, 95}, {90, 95}}
	starPoints  = []fpoint{
		{50, 5}, {52, 12}, {59, 12}, {53, 16}, {55, 23},
		{50, 19}, {45, 23}, {47, 16}, {41, 12}, {48, 12},
	}
	snowLeft  = []fpoint{{50, 10}, {25, 52}, {30, 52}, {15, 75}, {22, 75}, {10, 95}}
	snowRight = []fpoint{{50, 10}, {75, 52}, {70, 52}, {85, 75}, {78, 75}, {90, 95}}

	lightColors  = []color.RGBA{hex(0xff0000), hex(0xffff00), hex(0x00ff00), hex(0x0088ff), hex(0xff00ff)}
	baubleColors = []color.RGBA{
		hex(0xd62828), hex(0xf4b400), hex(0x1e88e5), hex(0x8e24aa),
		hex(0xc0c0c0), hex(0xef6c00), hex(0x00897b), hex(0xe91e63),
	}
)

// Rasterizer paints the tree and its ornaments into a bitmap.
type Rasterizer struct {
	LightSeed int64   // positions of night-mode lights
	Lights    int     // number of night-mode lights
	ItemScale float64 // ornament size relative to the tree view width
	logger    *log.Logger
}

type Option func(*Rasterizer)

func WithLogger(l *log.Logger) Option {
	return func(r *Rasterizer) { r.logger = l }
}

func WithLightSeed(seed int64) Option {
	return func(r *Rasterizer) { r.LightSeed = seed }
}

func NewRasterizer(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		LightSeed: 2024,
		Lights:    20,
		ItemScale: 0.08,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture renders the current state of the scene. The ornament list is
// read once, so placements made during the call are not included.
func (r *Rasterizer) Capture(ctx context.Context, h *Handle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !h.ready() {
		return nil, ErrCaptureUnavailable
	}

	items := h.Source.Items()
	img := image.NewRGBA(image.Rect(0, 0, h.Width, h.Height))

	r.drawSky(img, h.Night)
	v := fitView(h.Width, h.Height)
	r.drawTree(img, v, h.Night)
	if h.Night {
		r.drawLights(img, v)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.drawOrnaments(img, v, items); err != nil {
		return nil, err
	}

	r.logger.Printf("[*] Captured %dx%d scene with %d ornaments", h.Width, h.Height, len(items))
	return img, nil
}

type view struct {
	scale, ox, oy float64
}

func fitView(w, h int) view {
	s := math.Min(float64(w)/viewW, float64(h)/viewH)
	return view{
		scale: s,
		ox:    (float64(w) - viewW*s) / 2,
		oy:    (float64(h) - viewH*s) / 2,
	}
}

func (v view) pt(p fpoint) fpoint {
	return fpoint{X: v.ox + p.X*v.scale, Y: v.oy + p.Y*v.scale}
}

func (v view) pts(ps []fpoint) []fpoint {
	out := make([]fpoint, len(ps))
	for i, p := range ps {
		out[i] = v.pt(p)
	}
	return out
}

func (v view) rect(x, y, w, h float64) image.Rectangle {
	a := v.pt(fpoint{x, y})
	b := v.pt(fpoint{x + w, y + h})
	return image.Rect(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)))
}

func (r *Rasterizer) drawSky(img *image.RGBA, night bool) {
	top, bottom := hex(0xbae6fd), hex(0xffffff)
	if night {
		top, bottom = hex(0x0b1026), hex(0x1e2a4a)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		c := mix(top, bottom, float64(y-b.Min.Y)/float64(max(b.Dy()-1, 1)))
		row := image.Rect(b.Min.X, y, b.Max.X, y+1)
		draw.Draw(img, row, image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func (r *Rasterizer) drawTree(img *image.RGBA, v view, night bool) {
	k := 1.0
	if night {
		k = 0.8
	}

	fillRect(img, v.rect(42, 95, 16, 20), dim(hex(0x8b4513), k))
	fillRect(img, v.rect(40, 110, 20, 8), dim(hex(0x654321), k))

	outline := v.pts(treeOutline)
	grad := &linearGradient{
		x0: outline[1].X, y0: outline[0].Y,
		x1: outline[2].X, y1: outline[2].Y,
		stops: []stop{
			{0, dim(hex(0x228b22), k)},
			{0.5, dim(hex(0x1a472a), k)},
			{1, dim(hex(0x0d3320), k)},
		},
	}
	fillPolygon(img, outline, grad)
	strokePath(img, append(outline, outline[0]), v.scale, dim(hex(0x1a472a), k))

	snow := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x99}
	strokePath(img, v.pts(snowLeft), 2*v.scale, snow)
	strokePath(img, v.pts(snowRight), 2*v.scale, snow)

	star := v.pts(starPoints)
	if night {
		c := v.pt(fpoint{50, 14})
		fillCircle(img, c.X, c.Y, 8*v.scale, color.NRGBA{R: 0xff, G: 0xd7, A: 0x50})
	}
	fillPolygon(img, star, image.NewUniform(hex(0xffd700)))
}

// drawLights scatters glowing bulbs down the tree. Positions come from
// LightSeed so repeated captures match.
func (r *Rasterizer) drawLights(img *image.RGBA, v view) {
	rng := rand.New(rand.NewSource(r.LightSeed))
	for i := 0; i < r.Lights; i++ {
		p := v.pt(fpoint{
			X: 20 + rng.Float64()*60,
			Y: 15 + float64(i)/float64(r.Lights)*70,
		})
		c := lightColors[i%len(lightColors)]
		glow := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x60}
		fillCircle(img, p.X, p.Y, 3*v.scale, glow)
		fillCircle(img, p.X, p.Y, 1.5*v.scale, c)
	}
}

// drawOrnaments positions items inside the fitted tree view, so the
// 0-100 coordinates land on the same branches whatever the canvas aspect.
func (r *Rasterizer) drawOrnaments(img *image.RGBA, v view, items []session.PlacedItem) error {
	size := math.Max(6, viewW*v.scale*r.ItemScale)

	face, err := NewFace(size * 0.55)
	if err != nil {
		return err
	}
	defer face.Close()

	for _, p := range items {
		c := v.pt(fpoint{X: p.X / 100 * viewW, Y: p.Y / 100 * viewH})
		cx, cy := c.X, c.Y

		switch vis := p.Item.Visual.(type) {
		case catalog.Glyph:
			drawBauble(img, cx, cy, size, p.Item)
			DrawTextCentered(img, face, badge(p.Item, vis), int(cx), int(cy), color.White)
		case catalog.Image:
			dst := image.Rect(
				int(math.Round(cx-size/2)), int(math.Round(cy-size/2)),
				int(math.Round(cx+size/2)), int(math.Round(cy+size/2)),
			)
			if vis.Pixels != nil {
				draw.CatmullRom.Scale(img, dst, vis.Pixels, vis.Pixels.Bounds(), draw.Over, nil)
			}
		}
	}
	return nil
}

// badge is the text printed on a bauble: the glyph itself when it is short
// and the font can draw it, otherwise the label's initial.
func badge(it catalog.Item, g catalog.Glyph) string {
	if utf8.RuneCountInString(g.Text) <= 2 && Covers(g.Text) {
		return g.Text
	}
	return initial(it)
}

func drawBauble(img *image.RGBA, cx, cy, size float64, it catalog.Item) {
	h := fnv.New32a()
	h.Write([]byte(it.ID))
	c := baubleColors[h.Sum32()%uint32(len(baubleColors))]

	r := size / 2
	fillRect(img, image.Rect(int(cx-r*0.25), int(cy-r*1.2), int(cx+r*0.25), int(cy-r*0.8)), hex(0xb8860b))
	fillCircle(img, cx+1, cy+1.5, r, color.NRGBA{A: 0x40})
	fillCircle(img, cx, cy, r, c)
	fillCircle(img, cx-r*0.35, cy-r*0.35, r*0.25, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x90})
}

func initial(it catalog.Item) string {
	s := strings.TrimSpace(it.Label)
	if s == "" {
		s = it.ID
	}
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}
