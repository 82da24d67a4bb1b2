// Package scene is the composition root of the simulation. A Scene owns the
// static Field and every registered Actor and advances them one fixed tick at
// a time. Cameras and all presentation state live outside the Scene.
package scene

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/field"
	"github.com/vovakirdan/scarab/internal/physics"
)

// ErrInvalidActor is returned when registering a malformed actor or one that
// is already registered.
var ErrInvalidActor = errors.New("scene: duplicate or invalid actor")

// ActorID identifies a registered actor. IDs start at 1, are issued in
// increasing order and are never reused, so save files stay unambiguous.
type ActorID uint64

// Intent is the host-supplied behaviour for one actor kind. It is called once
// per tick, before any actor moves, and returns the desired velocity.
// It may update the actor's own kind state but must not move actors.
type Intent func(id ActorID, a *actor.Actor, s *Scene) (core.Vec, error)

// Diagnostic is a non-fatal problem found during Update.
type Diagnostic struct {
	ID  ActorID
	Err error
}

// Report summarizes one Update call.
type Report struct {
	Tick        uint64
	Moved       int // actors whose resolution ran
	Diagnostics []Diagnostic
	Results     map[ActorID]physics.Result
}

// Scene owns the field and the registered actors.
type Scene struct {
	field    *field.Field
	actors   map[ActorID]*actor.Actor
	order    []ActorID
	nextID   ActorID
	tick     uint64
	intents  map[string]Intent
	resolver *physics.Resolver
	collide  bool
	logger   *log.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResolver replaces the default resolver.
func WithResolver(r *physics.Resolver) Option {
	return func(s *Scene) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithActorCollisions enables actor-vs-actor resolution.
func WithActorCollisions(enabled bool) Option {
	return func(s *Scene) {
		s.collide = enabled
	}
}

// New creates an empty scene over a field.
func New(f *field.Field, opts ...Option) *Scene {
	s := &Scene{
		field:    f,
		actors:   make(map[ActorID]*actor.Actor),
		nextID:   1,
		intents:  make(map[string]Intent),
		resolver: physics.NewResolver(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entry pairs an actor with the ID it was registered under.
type Entry struct {
	ID    ActorID
	Actor *actor.Actor
}

// Rebuild reconstructs a scene with previously issued IDs, as read from a
// save file. Entries must have distinct IDs below nextID and are kept in the
// given order, which becomes the update order.
func Rebuild(f *field.Field, entries []Entry, nextID ActorID, tick uint64, opts ...Option) (*Scene, error) {
	if f == nil {
		return nil, field.ErrEmptyField
	}
	s := New(f, opts...)
	if nextID == 0 {
		return nil, fmt.Errorf("%w: next id must be at least 1", ErrInvalidActor)
	}
	for _, e := range entries {
		if e.ID == 0 || e.ID >= nextID {
			return nil, fmt.Errorf("%w: id %d outside issued range [1, %d)", ErrInvalidActor, e.ID, nextID)
		}
		if _, dup := s.actors[e.ID]; dup {
			return nil, fmt.Errorf("%w: id %d appears twice", ErrInvalidActor, e.ID)
		}
		if err := s.checkActor(e.Actor); err != nil {
			return nil, fmt.Errorf("actor %d: %w", e.ID, err)
		}
		s.actors[e.ID] = e.Actor
		s.order = append(s.order, e.ID)
	}
	s.nextID = nextID
	s.tick = tick
	return s, nil
}

func (s *Scene) checkActor(a *actor.Actor) error {
	if a == nil {
		return fmt.Errorf("%w: nil actor", ErrInvalidActor)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActor, err)
	}
	for _, existing := range s.actors {
		if existing == a {
			return fmt.Errorf("%w: actor already registered", ErrInvalidActor)
		}
	}
	return nil
}

// RegisterActor adds an actor and returns its new ID.
func (s *Scene) RegisterActor(a *actor.Actor) (ActorID, error) {
	if err := s.checkActor(a); err != nil {
		return 0, err
	}
	id := s.nextID
	s.nextID++
	s.actors[id] = a
	s.order = append(s.order, id)

	s.logger.Debug("actor registered", "id", id, "kind", a.Kind(), "box", a.Box())
	return id, nil
}

// Deregister removes an actor. Its ID is never issued again.
// Returns false if the ID is not registered.
func (s *Scene) Deregister(id ActorID) bool {
	if _, ok := s.actors[id]; !ok {
		return false
	}
	delete(s.actors, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debug("actor deregistered", "id", id)
	return true
}

// SetIntent installs the behaviour for every actor of a kind.
// A nil intent removes it; actors without an intent keep their velocity.
func (s *Scene) SetIntent(kind string, fn Intent) {
	if fn == nil {
		delete(s.intents, kind)
		return
	}
	s.intents[kind] = fn
}

// Update advances the simulation by dt seconds.
//
// First every actor's intent is evaluated in registration order against the
// state at the start of the tick; an intent error, or a velocity whose step
// would leave finite coordinates, aborts the tick before any actor moves. Then
// each actor is resolved against the field (and the other actors when
// enabled), again in registration order. Actors embedded in solid geometry are
// skipped and reported in Report.Diagnostics.
//
// Intents may register and deregister actors. The tick works on the actors
// registered when it started: an actor removed by an intent does not move,
// and an actor added by an intent first moves on the next tick.
func (s *Scene) Update(dt float64) (Report, error) {
	rep := Report{Tick: s.tick}
	if !core.IsFinite(dt) || dt < 0 {
		return rep, fmt.Errorf("scene: %w: %g", physics.ErrInvalidTick, dt)
	}
	if dt == 0 {
		return rep, nil
	}

	order := slices.Clone(s.order)
	desired := make(map[ActorID]core.Vec, len(order))
	for _, id := range order {
		a, ok := s.actors[id]
		if !ok {
			continue // removed by an earlier intent this tick
		}
		v := a.Velocity()
		if fn, ok := s.intents[a.Kind()]; ok {
			var err error
			if v, err = fn(id, a, s); err != nil {
				return rep, fmt.Errorf("scene: intent for actor %d (%s): %w", id, a.Kind(), err)
			}
			if !v.IsFinite() {
				return rep, fmt.Errorf("scene: intent for actor %d (%s) returned non-finite velocity", id, a.Kind())
			}
		}
		step := v.ClampLen(a.MaxSpeed()).Scale(dt)
		if err := a.Box().Translate(step).Validate(); err != nil {
			return rep, fmt.Errorf("scene: actor %d (%s) cannot move by %v: %w", id, a.Kind(), step, err)
		}
		desired[id] = v
	}

	rep.Results = make(map[ActorID]physics.Result, len(desired))
	for _, id := range order {
		a, ok := s.actors[id]
		v, planned := desired[id]
		if !ok || !planned {
			continue
		}
		if err := a.SetVelocity(v); err != nil {
			return rep, fmt.Errorf("scene: actor %d: %w", id, err)
		}

		res, err := s.resolver.Resolve(a, s.field, dt, s.obstacles(id))
		var overlap *physics.DegenerateOverlapError
		if errors.As(err, &overlap) {
			overlap.Actor = uint64(id)
		}
		if err != nil {
			rep.Diagnostics = append(rep.Diagnostics, Diagnostic{ID: id, Err: err})
			if errors.Is(err, physics.ErrDegenerateOverlap) {
				s.logger.Warn("actor embedded in solid geometry, skipping", "id", id, "kind", a.Kind(), "error", err)
			} else {
				s.logger.Error("actor could not be resolved, skipping", "id", id, "kind", a.Kind(), "error", err)
			}
			continue
		}
		rep.Results[id] = res
		rep.Moved++
	}

	s.tick++
	rep.Tick = s.tick
	return rep, nil
}

func (s *Scene) obstacles(self ActorID) []physics.Obstacle {
	if !s.collide || len(s.order) < 2 {
		return nil
	}
	out := make([]physics.Obstacle, 0, len(s.order)-1)
	for _, id := range s.order {
		if id == self {
			continue
		}
		out = append(out, physics.Obstacle{ID: uint64(id), Box: s.actors[id].Box()})
	}
	return out
}

// Field returns the static field.
func (s *Scene) Field() *field.Field {
	return s.field
}

// Actors iterates the registered actors in registration order.
// The scene must not be modified while iterating.
func (s *Scene) Actors() iter.Seq2[ActorID, *actor.Actor] {
	return func(yield func(ActorID, *actor.Actor) bool) {
		for _, id := range s.order {
			if !yield(id, s.actors[id]) {
				return
			}
		}
	}
}

// Actor returns the actor registered under id.
func (s *Scene) Actor(id ActorID) (*actor.Actor, bool) {
	a, ok := s.actors[id]
	return a, ok
}

// Len returns the number of registered actors.
func (s *Scene) Len() int {
	return len(s.order)
}

// Tick returns the number of completed non-empty updates.
func (s *Scene) Tick() uint64 {
	return s.tick
}

// NextID returns the ID the next registration will receive.
func (s *Scene) NextID() ActorID {
	return s.nextID
}

// ActorCollisions reports whether actor-vs-actor resolution is enabled.
func (s *Scene) ActorCollisions() bool {
	return s.collide
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}
