// Package core provides the fundamental types shared by the simulation and the host:
// world-space vectors and boxes, runtime configuration, logical input and the
// terminal screen buffer. It has no external dependencies so that geometry stays
// pure and testable.
package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a box would have a non-positive or
// non-finite size, or a non-finite position.
var ErrInvalidGeometry = errors.New("core: invalid geometry")

// Vec is a 2D vector in world (or screen) space.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Mul multiplies component-wise.
func (v Vec) Mul(o Vec) Vec {
	return Vec{X: v.X * o.X, Y: v.Y * o.Y}
}

// Div divides component-wise. The caller guarantees o has no zero component.
func (v Vec) Div(o Vec) Vec {
	return Vec{X: v.X / o.X, Y: v.Y / o.Y}
}

// Len returns the Euclidean length.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether both components are finite numbers.
func (v Vec) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// ClampLen scales v down so its length does not exceed limit.
// Direction is preserved; a vector already within the limit is returned as is.
func (v Vec) ClampLen(limit float64) Vec {
	if limit <= 0 {
		return Vec{}
	}
	l := v.Len()
	if l <= limit {
		return v
	}
	k := limit / l
	out := v.Scale(k)
	// Rounding can leave the result a hair above the limit.
	for out.Len() > limit {
		k = math.Nextafter(k, 0)
		out = v.Scale(k)
	}
	return out
}

// Box is an axis-aligned rectangle in world coordinates.
// Pos is the top-left corner (y grows downward); Size is strictly positive.
// Box is a value type: operations return new boxes.
type Box struct {
	Pos  Vec
	Size Vec
}

// NewBox creates a box, validating that the size is positive and finite.
func NewBox(pos, size Vec) (Box, error) {
	if !pos.IsFinite() {
		return Box{}, fmt.Errorf("%w: position (%g, %g) is not finite", ErrInvalidGeometry, pos.X, pos.Y)
	}
	if !size.IsFinite() || size.X <= 0 || size.Y <= 0 {
		return Box{}, fmt.Errorf("%w: size (%g, %g) must be positive", ErrInvalidGeometry, size.X, size.Y)
	}
	return Box{Pos: pos, Size: size}, nil
}

// MustBox is NewBox for literals known to be valid. Panics otherwise.
func MustBox(x, y, w, h float64) Box {
	b, err := NewBox(V(x, y), V(w, h))
	if err != nil {
		panic(err)
	}
	return b
}

// Validate reports whether b satisfies the box invariants.
// Useful for boxes built as literals or decoded from files.
func (b Box) Validate() error {
	_, err := NewBox(b.Pos, b.Size)
	return err
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float64 { return b.Pos.X }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 { return b.Pos.Y }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.Pos.X + b.Size.X
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Pos.Y + b.Size.Y
}

// Center returns the center point of the box.
func (b Box) Center() Vec {
	return Vec{X: b.Pos.X + b.Size.X/2, Y: b.Pos.Y + b.Size.Y/2}
}

// Intersects returns true if the two boxes overlap on both axes.
// Boxes that only share an edge do not intersect.
func (b Box) Intersects(other Box) bool {
	return b.Pos.X < other.Right() && b.Right() > other.Pos.X &&
		b.Pos.Y < other.Bottom() && b.Bottom() > other.Pos.Y
}

// Contains returns true if the point p is inside the box (right/bottom exclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Pos.X && p.X < b.Right() && p.Y >= b.Pos.Y && p.Y < b.Bottom()
}

// OverlapExtent returns the signed penetration depth per axis when b and other
// intersect. Each component is the translation b needs along that axis alone to
// stop overlapping; its sign points away from other's center. ok is false when
// the boxes do not intersect.
func (b Box) OverlapExtent(other Box) (depth Vec, ok bool) {
	if !b.Intersects(other) {
		return Vec{}, false
	}
	bc, oc := b.Center(), other.Center()

	if bc.X < oc.X {
		depth.X = other.Pos.X - b.Right()
	} else {
		depth.X = other.Right() - b.Pos.X
	}
	if bc.Y < oc.Y {
		depth.Y = other.Pos.Y - b.Bottom()
	} else {
		depth.Y = other.Bottom() - b.Pos.Y
	}
	return depth, true
}

// Translate returns the box moved by delta.
func (b Box) Translate(delta Vec) Box {
	return Box{Pos: b.Pos.Add(delta), Size: b.Size}
}

// WithPos returns the box moved so its top-left corner is pos.
func (b Box) WithPos(pos Vec) Box {
	return Box{Pos: pos, Size: b.Size}
}

// Resize returns the box with a new size, keeping the top-left corner.
func (b Box) Resize(size Vec) (Box, error) {
	return NewBox(b.Pos, size)
}

// Union returns the smallest box covering both boxes.
// A box and its translation along one axis give the exact swept area.
func (b Box) Union(other Box) Box {
	minX := math.Min(b.Pos.X, other.Pos.X)
	minY := math.Min(b.Pos.Y, other.Pos.Y)
	maxX := math.Max(b.Right(), other.Right())
	maxY := math.Max(b.Bottom(), other.Bottom())
	return Box{Pos: Vec{X: minX, Y: minY}, Size: Vec{X: maxX - minX, Y: maxY - minY}}
}

// String formats the box as [x y w h].
func (b Box) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.Pos.X, b.Pos.Y, b.Size.X, b.Size.Y)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return isFinite(f)
}
