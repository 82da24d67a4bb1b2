// Package actor defines the mutable, positioned entities of a scene.
//
// Every actor shares the same geometry, velocity and speed limit; what makes a
// player different from an enemy is its State, a kind-specific payload. The
// simulation only ever touches the shared fields, so new kinds never require
// changes to collision resolution.
package actor

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/scarab/internal/core"
)

// ErrInvalidActor is returned when an actor would violate its invariants.
var ErrInvalidActor = errors.New("actor: invalid actor")

// State is the kind-specific part of an actor.
// Implementations are plain structs so they can be encoded in save files.
type State interface {
	// Kind returns the registered kind name (e.g. "player").
	Kind() string
}

// Actor is a positioned, sized entity with a velocity bounded by MaxSpeed.
// The zero value is not usable; construct actors with New.
type Actor struct {
	box          core.Box
	velocity     core.Vec
	maxSpeed     float64
	hardBlocking bool
	state        State
}

// New creates an actor at rest.
func New(box core.Box, maxSpeed float64, state State) (*Actor, error) {
	a := &Actor{box: box, maxSpeed: maxSpeed, state: state}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks every actor invariant.
func (a *Actor) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil actor", ErrInvalidActor)
	}
	if a.state == nil {
		return fmt.Errorf("%w: missing kind state", ErrInvalidActor)
	}
	if err := a.box.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActor, err)
	}
	if err := checkMaxSpeed(a.maxSpeed); err != nil {
		return err
	}
	if !a.velocity.IsFinite() {
		return fmt.Errorf("%w: velocity is not finite", ErrInvalidActor)
	}
	if a.velocity.Len() > a.maxSpeed {
		return fmt.Errorf("%w: speed %g exceeds max speed %g", ErrInvalidActor, a.velocity.Len(), a.maxSpeed)
	}
	return nil
}

func checkMaxSpeed(v float64) error {
	if !core.IsFinite(v) || v < 0 {
		return fmt.Errorf("%w: max speed %g must be finite and non-negative", ErrInvalidActor, v)
	}
	return nil
}

// Box returns the actor's current geometry.
func (a *Actor) Box() core.Box {
	return a.box
}

// Pos returns the top-left corner of the actor's box.
func (a *Actor) Pos() core.Vec {
	return a.box.Pos
}

// Size returns the size of the actor's box.
func (a *Actor) Size() core.Vec {
	return a.box.Size
}

// SetPos moves the actor. Non-finite positions are rejected.
func (a *Actor) SetPos(pos core.Vec) error {
	b, err := core.NewBox(pos, a.box.Size)
	if err != nil {
		return err
	}
	a.box = b
	return nil
}

// SetSize resizes the actor, keeping its top-left corner.
func (a *Actor) SetSize(size core.Vec) error {
	b, err := a.box.Resize(size)
	if err != nil {
		return err
	}
	a.box = b
	return nil
}

// SetBox replaces the actor's geometry.
func (a *Actor) SetBox(b core.Box) error {
	if err := b.Validate(); err != nil {
		return err
	}
	a.box = b
	return nil
}

// Velocity returns the current velocity in world units per second.
func (a *Actor) Velocity() core.Vec {
	return a.velocity
}

// SetVelocity sets the velocity, scaling it down to MaxSpeed if needed.
// Non-finite velocities are rejected.
func (a *Actor) SetVelocity(v core.Vec) error {
	if !v.IsFinite() {
		return fmt.Errorf("%w: velocity (%g, %g) is not finite", ErrInvalidActor, v.X, v.Y)
	}
	a.velocity = v.ClampLen(a.maxSpeed)
	return nil
}

// MaxSpeed returns the speed limit.
func (a *Actor) MaxSpeed() float64 {
	return a.maxSpeed
}

// SetMaxSpeed changes the speed limit and re-clamps the current velocity.
func (a *Actor) SetMaxSpeed(v float64) error {
	if err := checkMaxSpeed(v); err != nil {
		return err
	}
	a.maxSpeed = v
	a.velocity = a.velocity.ClampLen(v)
	return nil
}

// HardBlocking reports whether other actors stop this actor dead, rather than
// merely separating from it.
func (a *Actor) HardBlocking() bool {
	return a.hardBlocking
}

// SetHardBlocking sets the actor-vs-actor collision policy for this actor.
func (a *Actor) SetHardBlocking(v bool) {
	a.hardBlocking = v
}

// State returns the kind-specific payload.
func (a *Actor) State() State {
	return a.state
}

// Kind returns the kind name of the actor's state.
func (a *Actor) Kind() string {
	if a.state == nil {
		return ""
	}
	return a.state.Kind()
}
