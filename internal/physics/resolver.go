// Package physics advances actors through the static field one tick at a time.
//
// Movement is resolved one axis at a time: first x, then y. Each axis sweeps
// the actor's box along its displacement, finds the nearest blocking edge in
// that direction and stops the actor flush against it. Because the sweep
// covers the whole path, thin walls cannot be skipped at high speed, and a
// diagonal move into a wall keeps its free component (sliding).
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/field"
)

var (
	// ErrDegenerateOverlap reports an actor found inside blocking geometry at
	// the start of a tick. It is a diagnostic: the actor is not moved.
	ErrDegenerateOverlap = errors.New("physics: actor overlaps solid geometry")

	// ErrInvalidTick is returned for negative or non-finite tick durations.
	ErrInvalidTick = errors.New("physics: invalid tick duration")
)

// DegenerateOverlapError carries the details of an ErrDegenerateOverlap.
type DegenerateOverlapError struct {
	Actor    uint64   // scene id of the actor, 0 when resolved outside a scene
	Cell     int      // storage index of the first overlapping cell
	ActorBox core.Box // actor geometry at tick start
	CellBox  core.Box
}

func (e *DegenerateOverlapError) Error() string {
	if e.Actor != 0 {
		return fmt.Sprintf("%v: actor %d %v overlaps cell %d %v", ErrDegenerateOverlap, e.Actor, e.ActorBox, e.Cell, e.CellBox)
	}
	return fmt.Sprintf("%v: actor %v overlaps cell %d %v", ErrDegenerateOverlap, e.ActorBox, e.Cell, e.CellBox)
}

func (e *DegenerateOverlapError) Unwrap() error {
	return ErrDegenerateOverlap
}

// Axis selects one of the two movement axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// BlockerKind tells what stopped movement along an axis.
type BlockerKind int

const (
	BlockerNone BlockerKind = iota
	BlockerCell
	BlockerActor
)

// Blocker identifies the obstacle that stopped an axis.
// ID is the cell's storage index or the obstacle actor's ID.
type Blocker struct {
	Kind BlockerKind
	ID   uint64
}

// Obstacle is another actor's box used for actor-vs-actor resolution.
type Obstacle struct {
	ID  uint64
	Box core.Box
}

// Result describes one resolved tick for one actor.
type Result struct {
	Displacement core.Vec
	BlockedX     bool
	BlockedY     bool
	BlockerX     Blocker
	BlockerY     Blocker
}

// Resolver integrates actor movement against a field.
type Resolver struct {
	// Blocks decides which solidities stop movement.
	Blocks func(field.Solidity) bool
}

// NewResolver returns a resolver where only Solid cells block.
func NewResolver() *Resolver {
	return &Resolver{Blocks: field.Solidity.Blocks}
}

func (r *Resolver) blocks() func(field.Solidity) bool {
	if r == nil || r.Blocks == nil {
		return field.Solidity.Blocks
	}
	return r.Blocks
}

// CheckOverlap returns a *DegenerateOverlapError if box intersects any
// blocking cell, or nil.
func (r *Resolver) CheckOverlap(box core.Box, f *field.Field) error {
	for i, c := range f.CellsOverlapping(box, r.blocks()) {
		return &DegenerateOverlapError{Cell: i, ActorBox: box, CellBox: c.Box}
	}
	return nil
}

// Resolve moves a by its velocity over dt seconds.
//
// The velocity is first clamped to the actor's max speed. Each axis is then
// moved independently; an axis stopped by a cell, or by an obstacle when the
// actor is hard blocking, has its velocity component zeroed. Obstacles that
// already overlap the actor are ignored so soft contacts can separate.
//
// dt == 0 is a no-op. An actor starting the tick inside blocking geometry is
// left untouched and a *DegenerateOverlapError is returned.
func (r *Resolver) Resolve(a *actor.Actor, f *field.Field, dt float64, obstacles []Obstacle) (Result, error) {
	var res Result
	if !core.IsFinite(dt) || dt < 0 {
		return res, fmt.Errorf("%w: %g", ErrInvalidTick, dt)
	}
	if dt == 0 {
		return res, nil
	}

	start := a.Box()
	if err := r.CheckOverlap(start, f); err != nil {
		return res, err
	}

	vel := a.Velocity().ClampLen(a.MaxSpeed())
	box := start

	var stopped bool
	box, res.BlockerX, stopped = r.moveAxis(box, AxisX, vel.X*dt, f, obstacles, a.HardBlocking())
	res.BlockedX = res.BlockerX.Kind != BlockerNone
	if stopped {
		vel.X = 0
	}

	box, res.BlockerY, stopped = r.moveAxis(box, AxisY, vel.Y*dt, f, obstacles, a.HardBlocking())
	res.BlockedY = res.BlockerY.Kind != BlockerNone
	if stopped {
		vel.Y = 0
	}

	if err := a.SetBox(box); err != nil {
		return Result{}, err
	}
	if err := a.SetVelocity(vel); err != nil {
		return Result{}, err
	}
	res.Displacement = box.Pos.Sub(start.Pos)
	return res, nil
}

// moveAxis translates box by delta along axis, stopping at the nearest
// blocking edge. It reports what blocked the move and whether the velocity on
// that axis must be zeroed.
func (r *Resolver) moveAxis(box core.Box, axis Axis, delta float64, f *field.Field, obstacles []Obstacle, hard bool) (core.Box, Blocker, bool) {
	if delta == 0 {
		return box, Blocker{}, false
	}

	candidate := box.Translate(along(axis, delta))
	swept := box.Union(candidate)

	limit := math.Abs(delta)
	var blocker Blocker
	var edge float64

	// Strict comparison keeps the first blocker in scan order on ties.
	for i, c := range f.CellsOverlapping(swept, r.blocks()) {
		if c.Box.Intersects(box) {
			continue
		}
		if gap, near := gapTo(box, c.Box, axis, delta); gap < limit {
			limit, edge = gap, near
			blocker = Blocker{Kind: BlockerCell, ID: uint64(i)}
		}
	}
	for _, o := range obstacles {
		if !o.Box.Intersects(swept) || o.Box.Intersects(box) {
			continue
		}
		if gap, near := gapTo(box, o.Box, axis, delta); gap < limit {
			limit, edge = gap, near
			blocker = Blocker{Kind: BlockerActor, ID: o.ID}
		}
	}

	if blocker.Kind == BlockerNone {
		return candidate, blocker, false
	}

	stopped := blocker.Kind == BlockerCell || hard
	return snap(box, axis, delta, limit, edge), blocker, stopped
}

// gapTo returns the free distance from box's leading edge to the near edge of
// obstacle in the direction of delta, and that edge's coordinate.
func gapTo(box, obstacle core.Box, axis Axis, delta float64) (gap, edge float64) {
	switch {
	case axis == AxisX && delta > 0:
		edge = obstacle.Left()
		gap = edge - box.Right()
	case axis == AxisX:
		edge = obstacle.Right()
		gap = box.Left() - edge
	case delta > 0:
		edge = obstacle.Top()
		gap = edge - box.Bottom()
	default:
		edge = obstacle.Bottom()
		gap = box.Top() - edge
	}
	return max(gap, 0), edge
}

// snap moves box flush against edge. The result never crosses the edge,
// nudging by single floating point steps where rounding would overshoot.
func snap(box core.Box, axis Axis, delta, gap, edge float64) core.Box {
	pos := box.Pos
	if axis == AxisX {
		pos.X = snapCoord(pos.X, box.Size.X, delta, gap, edge)
	} else {
		pos.Y = snapCoord(pos.Y, box.Size.Y, delta, gap, edge)
	}
	return box.WithPos(pos)
}

func snapCoord(p, size, delta, gap, edge float64) float64 {
	if gap == 0 {
		return p
	}
	if delta < 0 {
		return edge
	}
	q := edge - size
	for q+size > edge {
		q = math.Nextafter(q, math.Inf(-1))
	}
	return max(q, p)
}

func along(axis Axis, d float64) core.Vec {
	if axis == AxisX {
		return core.Vec{X: d}
	}
	return core.Vec{Y: d}
}
