package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"log"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/treedecor/internal/metrics"
	"github.com/ivlev/treedecor/internal/scene"
	"github.com/ivlev/treedecor/internal/system"
)

var (
	// ErrEncodingFailure wraps any quantization or encoding error.
	ErrEncodingFailure = errors.New("export encoding failed")
	// ErrExportInProgress is returned while another export of the same
	// pipeline has not finished.
	ErrExportInProgress = errors.New("export already in progress")
)

// Capturer rasterizes a scene on demand.
type Capturer interface {
	Capture(ctx context.Context, h *scene.Handle) (*image.RGBA, error)
}

// Result is a finished export ready to share or download.
type Result struct {
	Data     []byte
	MIME     string
	Filename string
}

// AnimOptions configures the looping export
type AnimOptions struct {
	Frames   int
	Delay    time.Duration
	Width    int
	Height   int
	Sparkles int
	Caption  string
}

func DefaultAnimOptions() AnimOptions {
	return AnimOptions{
		Frames:   8,
		Delay:    200 * time.Millisecond,
		Width:    360,
		Height:   480,
		Sparkles: 24,
	}
}

func (o AnimOptions) withDefaults() AnimOptions {
	d := DefaultAnimOptions()
	if o.Frames <= 0 {
		o.Frames = d.Frames
	}
	if o.Delay <= 0 {
		o.Delay = d.Delay
	}
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = d.Width, d.Height
	}
	if o.Sparkles < 0 {
		o.Sparkles = 0
	}
	return o
}

// centiseconds converts a frame delay into GIF units (1/100 s), at least 1.
func centiseconds(d time.Duration) int {
	cs := int(math.Round(float64(d) / float64(10*time.Millisecond)))
	if cs < 1 {
		cs = 1
	}
	return cs
}

var backdrop = color.RGBA{R: 0x0d, G: 0x33, B: 0x20, A: 0xff}

// Pipeline turns scene captures into shareable images. Only one export
// runs at a time; a second call while one is running fails fast.
type Pipeline struct {
	capturer     Capturer
	encoder      Encoder
	workers      int
	shareURL     string
	captionLimit int
	frames       *system.FramePool
	logger       *log.Logger
	metrics      *metrics.Metrics
	now          func() time.Time

	busy atomic.Bool
}

type Option func(*Pipeline)

func WithEncoder(e Encoder) Option {
	return func(p *Pipeline) { p.encoder = e }
}

// WithWorkers bounds how many frames are quantized in parallel.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithShareURL stamps a QR code for url onto still exports.
func WithShareURL(url string) Option {
	return func(p *Pipeline) { p.shareURL = url }
}

func WithCaptionLimit(n int) Option {
	return func(p *Pipeline) { p.captionLimit = n }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(c Capturer, opts ...Option) *Pipeline {
	p := &Pipeline{
		capturer:     c,
		encoder:      StdEncoder{},
		workers:      runtime.NumCPU(),
		captionLimit: MaxCaption,
		frames:       system.NewFramePool(),
		logger:       log.New(io.Discard, "", 0),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) acquire() error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrExportInProgress
	}
	return nil
}

func (p *Pipeline) release() { p.busy.Store(false) }

func (p *Pipeline) finish(mode string, start time.Time, err error) {
	p.metrics.Export(mode, err, time.Since(start))
	if err != nil {
		p.logger.Printf("[!] %s export failed: %v", mode, err)
	}
}

// Still captures the scene once and encodes it as a PNG with an optional
// caption label.
func (p *Pipeline) Still(ctx context.Context, h *scene.Handle, caption string) (*Result, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	start := time.Now()
	res, err := p.still(ctx, h, caption)
	p.finish("png", start, err)
	return res, err
}

func (p *Pipeline) still(ctx context.Context, h *scene.Handle, caption string) (*Result, error) {
	img, err := p.capturer.Capture(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	if err := drawCaption(img, NormalizeCaption(caption, p.captionLimit)); err != nil {
		return nil, fmt.Errorf("%w: caption: %w", ErrEncodingFailure, err)
	}
	if p.shareURL != "" {
		if err := stampQR(img, p.shareURL); err != nil {
			return nil, fmt.Errorf("%w: qr: %w", ErrEncodingFailure, err)
		}
	}

	var buf bytes.Buffer
	if err := p.encoder.EncodeStill(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: png: %w", ErrEncodingFailure, err)
	}

	p.logger.Printf("[*] Still export: %dx%d, %d bytes", img.Bounds().Dx(), img.Bounds().Dy(), buf.Len())
	return &Result{Data: buf.Bytes(), MIME: "image/png", Filename: p.filename("png")}, nil
}

// Animated captures the scene once and renders a looping GIF: the same
// base image in every frame with moving sparkles and the caption on top.
func (p *Pipeline) Animated(ctx context.Context, h *scene.Handle, opts AnimOptions) (*Result, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	start := time.Now()
	res, err := p.animated(ctx, h, opts.withDefaults())
	p.finish("gif", start, err)
	return res, err
}

func (p *Pipeline) animated(ctx context.Context, h *scene.Handle, opts AnimOptions) (*Result, error) {
	base, err := p.capturer.Capture(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	rect := image.Rect(0, 0, opts.Width, opts.Height)
	background := fitCanvas(base, rect)
	caption := NormalizeCaption(opts.Caption, p.captionLimit)
	maxRadius := float64(min(opts.Width, opts.Height)) * 0.03

	frames := make([]*image.Paletted, opts.Frames)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for f := 0; f < opts.Frames; f++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frame := p.frames.Frame(rect, background)
			defer p.frames.Release(frame)

			for i := 0; i < opts.Sparkles; i++ {
				drawSparkle(frame, SparkleAt(i, f, opts.Frames, opts.Width, opts.Height, maxRadius))
			}
			if err := drawCaption(frame, caption); err != nil {
				return fmt.Errorf("frame %d caption: %w", f, err)
			}

			pal := MedianCut{Colors: MaxColors}.Quantize(make(color.Palette, 0, MaxColors), frame)
			frames[f] = Palettize(frame, pal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}

	delays := make([]int, opts.Frames)
	for i := range delays {
		delays[i] = centiseconds(opts.Delay)
	}
	anim := &gif.GIF{Image: frames, Delay: delays, LoopCount: 0}

	var buf bytes.Buffer
	if err := p.encoder.EncodeAnimation(&buf, anim); err != nil {
		return nil, fmt.Errorf("%w: gif: %w", ErrEncodingFailure, err)
	}

	p.logger.Printf("[*] Animated export: %d frames @ %v, %dx%d, %d bytes",
		opts.Frames, opts.Delay, opts.Width, opts.Height, buf.Len())
	return &Result{Data: buf.Bytes(), MIME: "image/gif", Filename: p.filename("gif")}, nil
}

// fitCanvas scales src to fit inside rect, centred on the backdrop colour.
func fitCanvas(src image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, image.NewUniform(backdrop), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Empty() {
		return dst
	}
	scale := math.Min(float64(rect.Dx())/float64(sb.Dx()), float64(rect.Dy())/float64(sb.Dy()))
	w := int(math.Round(float64(sb.Dx()) * scale))
	h := int(math.Round(float64(sb.Dy()) * scale))
	x0 := rect.Min.X + (rect.Dx()-w)/2
	y0 := rect.Min.Y + (rect.Dy()-h)/2

	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, sb, draw.Over, nil)
	return dst
}

func (p *Pipeline) filename(ext string) string {
	return fmt.Sprintf("ornament-tree_%s.%s", p.now().Format("2006-01-02_15-04-05"), ext)
}
