package scene

import (
	"errors"
	"sync/atomic"

	"github.com/ivlev/treedecor/internal/session"
)

// ErrCaptureUnavailable means the scene cannot be rasterized right now:
// the handle is detached or has no area.
var ErrCaptureUnavailable = errors.New("scene capture unavailable")

// Snapshotter yields the ornaments to draw, in draw order.
type Snapshotter interface {
	Items() []session.PlacedItem
}

// Handle points the rasterizer at a live scene of a fixed pixel size.
type Handle struct {
	Source Snapshotter
	Width  int
	Height int
	Night  bool

	detached atomic.Bool
}

func NewHandle(src Snapshotter, width, height int) *Handle {
	return &Handle{Source: src, Width: width, Height: height}
}

// Detach marks the scene as gone; later captures fail.
func (h *Handle) Detach() { h.detached.Store(true) }

func (h *Handle) Detached() bool { return h.detached.Load() }

func (h *Handle) ready() bool {
	return h != nil && h.Source != nil && !h.Detached() && h.Width > 0 && h.Height > 0
}
