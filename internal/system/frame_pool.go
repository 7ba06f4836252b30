package system

import (
	"image"
	"image/draw"
	"sync"
)

// FramePool recycles animation frames between renders. Frames are pooled
// by size, so a frame released at one origin can come back at another.
type FramePool struct {
	mu    sync.Mutex
	sizes map[image.Point]*sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{sizes: make(map[image.Point]*sync.Pool)}
}

func (p *FramePool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sp, ok := p.sizes[size]
	if !ok {
		sp = &sync.Pool{New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		}}
		p.sizes[size] = sp
	}
	return sp
}

// Frame returns a frame covering rect with its pixels copied from bg, so
// nothing from an earlier render survives.
func (p *FramePool) Frame(rect image.Rectangle, bg image.Image) *image.RGBA {
	frame := p.pool(rect.Size()).Get().(*image.RGBA)
	frame.Rect = rect
	draw.Draw(frame, rect, bg, rect.Min, draw.Src)
	return frame
}

// Release returns frame to the pool. Empty frames are ignored.
func (p *FramePool) Release(frame *image.RGBA) {
	if frame == nil || frame.Rect.Empty() {
		return
	}
	p.pool(frame.Rect.Size()).Put(frame)
}
