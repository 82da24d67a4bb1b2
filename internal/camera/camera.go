// Package camera maps between world coordinates and viewport pixels.
package camera

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/scarab/internal/core"
)

// ErrInvalidViewport is returned for a viewport with a zero dimension.
var ErrInvalidViewport = errors.New("camera: viewport dimensions must be positive")

// Camera shows the world rectangle View on a viewport of W x H pixels
// (terminal cells for the TUI host). Each axis scales independently.
type Camera struct {
	view  core.Box
	w, h  uint32
	scale core.Vec
}

// New creates a camera. The view box must be valid and the viewport non-empty.
func New(view core.Box, w, h uint32) (*Camera, error) {
	if err := view.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidViewport, w, h)
	}
	c := &Camera{view: view, w: w, h: h}
	c.rescale()
	return c, nil
}

func (c *Camera) rescale() {
	c.scale = core.Vec{
		X: float64(c.w) / c.view.Size.X,
		Y: float64(c.h) / c.view.Size.Y,
	}
}

// View returns the visible world rectangle.
func (c *Camera) View() core.Box {
	return c.view
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (w, h uint32) {
	return c.w, c.h
}

// Scale returns pixels per world unit on each axis.
func (c *Camera) Scale() core.Vec {
	return c.scale
}

// WorldToScreen projects a world point onto the viewport.
func (c *Camera) WorldToScreen(p core.Vec) core.Vec {
	return p.Sub(c.view.Pos).Mul(c.scale)
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p core.Vec) core.Vec {
	return p.Div(c.scale).Add(c.view.Pos)
}

// ProjectBox projects a world box into screen space.
func (c *Camera) ProjectBox(b core.Box) core.Box {
	return core.Box{
		Pos:  c.WorldToScreen(b.Pos),
		Size: b.Size.Mul(c.scale),
	}
}

// Visible reports whether any part of b is inside the view.
func (c *Camera) Visible(b core.Box) bool {
	return c.view.Intersects(b)
}

// ResizeViewport changes the viewport size, e.g. after a window resize.
// The view rectangle does not move.
func (c *Camera) ResizeViewport(w, h uint32) error {
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidViewport, w, h)
	}
	c.w, c.h = w, h
	c.rescale()
	return nil
}

// SetView replaces the visible world rectangle.
func (c *Camera) SetView(view core.Box) error {
	if err := view.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	c.view = view
	c.rescale()
	return nil
}

// Follow recentres the view on target without changing its size.
// When bounds is non-nil the view is kept inside it where possible.
func (c *Camera) Follow(target core.Box, bounds *core.Box) {
	center := target.Center()
	pos := center.Sub(c.view.Size.Scale(0.5))

	if bounds != nil {
		if bounds.Size.X > c.view.Size.X {
			pos.X = core.ClampF(pos.X, bounds.Left(), bounds.Right()-c.view.Size.X)
		}
		if bounds.Size.Y > c.view.Size.Y {
			pos.Y = core.ClampF(pos.Y, bounds.Top(), bounds.Bottom()-c.view.Size.Y)
		}
	}
	c.view = c.view.WithPos(pos)
}
