package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/field"
)

type dummy struct{}

func (dummy) Kind() string { return "dummy" }

func mustField(t *testing.T, cells ...field.Cell) *field.Field {
	t.Helper()
	f, err := field.New(cells)
	if err != nil {
		t.Fatalf("field.New() failed: %v", err)
	}
	return f
}

func solid(x, y, w, h float64) field.Cell {
	return field.Cell{Solidity: field.Solid, Box: core.MustBox(x, y, w, h)}
}

func air(x, y, w, h float64) field.Cell {
	return field.Cell{Solidity: field.NoSolidity, Box: core.MustBox(x, y, w, h)}
}

func mustActor(t *testing.T, box core.Box, maxSpeed float64, vel core.Vec) *actor.Actor {
	t.Helper()
	a, err := actor.New(box, maxSpeed, dummy{})
	if err != nil {
		t.Fatalf("actor.New() failed: %v", err)
	}
	if err := a.SetVelocity(vel); err != nil {
		t.Fatalf("SetVelocity() failed: %v", err)
	}
	return a
}

func noSolidOverlap(t *testing.T, a *actor.Actor, f *field.Field) {
	t.Helper()
	for i, c := range f.SolidCellsOverlapping(a.Box()) {
		t.Errorf("actor %v overlaps solid cell %d %v", a.Box(), i, c.Box)
	}
}

func TestResolveFreeMovement(t *testing.T) {
	f := mustField(t, air(0, 0, 640, 360))
	a := mustActor(t, core.MustBox(100, 100, 20, 20), 75, core.V(30, -40))

	res, err := NewResolver().Resolve(a, f, 0.5, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if res.Displacement != core.V(15, -20) {
		t.Errorf("Displacement = %v, expected {15 -20}", res.Displacement)
	}
	if res.BlockedX || res.BlockedY {
		t.Error("free movement should not be blocked")
	}
	if a.Velocity() != core.V(30, -40) {
		t.Errorf("Velocity() = %v, expected unchanged {30 -40}", a.Velocity())
	}
}

func TestResolveClampsToWallEdge(t *testing.T) {
	// Leading edge at x=40, wall edge at x=50: only 10 units of travel are free.
	f := mustField(t, solid(50, 0, 50, 100))
	a := mustActor(t, core.MustBox(20, 40, 20, 20), 100, core.V(50, 0))

	res, err := NewResolver().Resolve(a, f, 1, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if res.Displacement.X != 10 {
		t.Errorf("x displacement = %g, expected 10", res.Displacement.X)
	}
	if !res.BlockedX || res.BlockerX != (Blocker{Kind: BlockerCell, ID: 0}) {
		t.Errorf("BlockerX = %+v, expected cell 0", res.BlockerX)
	}
	if a.Velocity().X != 0 {
		t.Errorf("x velocity = %g, expected 0 after hitting the wall", a.Velocity().X)
	}
	noSolidOverlap(t, a, f)
}

func TestResolveThinWallNoTunneling(t *testing.T) {
	// Wall of width 1; one tick of travel (50) would jump clean over it.
	f := mustField(t, air(0, 0, 200, 100), solid(80, 0, 1, 100))
	a := mustActor(t, core.MustBox(40, 40, 20, 20), 100, core.V(100, 0))

	res, err := NewResolver().Resolve(a, f, 0.5, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if a.Box().Right() != 80 {
		t.Errorf("actor right edge = %g, expected flush at 80", a.Box().Right())
	}
	if res.Displacement.X != 20 {
		t.Errorf("x displacement = %g, expected 20", res.Displacement.X)
	}
	if a.Velocity().X != 0 {
		t.Errorf("x velocity = %g, expected 0", a.Velocity().X)
	}
	noSolidOverlap(t, a, f)
}

func TestResolveDiagonalSlide(t *testing.T) {
	// Wall to the right blocks x only; y is applied in full.
	f := mustField(t, solid(100, 0, 10, 400))
	a := mustActor(t, core.MustBox(70, 100, 20, 20), 100, core.V(60, 80))

	res, err := NewResolver().Resolve(a, f, 1, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if res.Displacement.X != 10 {
		t.Errorf("x displacement = %g, expected 10", res.Displacement.X)
	}
	if res.Displacement.Y != 80 {
		t.Errorf("y displacement = %g, expected full 80", res.Displacement.Y)
	}
	if res.BlockedY {
		t.Error("y axis should not be blocked")
	}
	if v := a.Velocity(); v.X != 0 || v.Y != 80 {
		t.Errorf("Velocity() = %v, expected {0 80}", v)
	}
	noSolidOverlap(t, a, f)
}

func TestResolveNegativeDirections(t *testing.T) {
	f := mustField(t, solid(0, 0, 10, 200), solid(0, 0, 200, 10))
	a := mustActor(t, core.MustBox(30, 30, 10, 10), 1000, core.V(-100, -100))

	if _, err := NewResolver().Resolve(a, f, 1, nil); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if a.Box().Pos != core.V(10, 10) {
		t.Errorf("Pos = %v, expected flush in the corner at {10 10}", a.Box().Pos)
	}
	if a.Velocity() != (core.Vec{}) {
		t.Errorf("Velocity() = %v, expected zero", a.Velocity())
	}
}

func TestResolveNearestBlockerWins(t *testing.T) {
	// Cell 1 is nearer than cell 0 even though cell 0 comes first.
	f := mustField(t, solid(90, 0, 10, 100), solid(60, 0, 10, 100), solid(60, 0, 10, 100))
	a := mustActor(t, core.MustBox(0, 10, 10, 10), 200, core.V(200, 0))

	res, err := NewResolver().Resolve(a, f, 1, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if a.Box().Right() != 60 {
		t.Errorf("right edge = %g, expected 60", a.Box().Right())
	}
	// Cells 1 and 2 tie; the first in storage order is reported.
	if res.BlockerX.ID != 1 {
		t.Errorf("BlockerX.ID = %d, expected 1", res.BlockerX.ID)
	}
}

func TestResolveClampsVelocity(t *testing.T) {
	f := mustField(t, air(0, 0, 1000, 1000))
	a := mustActor(t, core.MustBox(0, 0, 1, 1), 75, core.V(0, 0))

	// Lower the limit after setting velocity through SetMaxSpeed's re-clamp
	_ = a.SetMaxSpeed(1000)
	_ = a.SetVelocity(core.V(600, 800))
	_ = a.SetMaxSpeed(75)

	if _, err := NewResolver().Resolve(a, f, 1, nil); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if s := a.Velocity().Len(); s > 75 {
		t.Errorf("speed = %g, expected <= 75", s)
	}
}

func TestResolveZeroTick(t *testing.T) {
	f := mustField(t, solid(0, 0, 10, 10))
	// Embedded actor: a no-op tick does not even look at the field.
	a := mustActor(t, core.MustBox(5, 5, 2, 2), 10, core.V(10, 0))

	res, err := NewResolver().Resolve(a, f, 0, nil)
	if err != nil {
		t.Fatalf("Resolve(dt=0) error = %v, expected nil", err)
	}
	if res.Displacement != (core.Vec{}) || a.Box().Pos != core.V(5, 5) {
		t.Error("Resolve(dt=0) should not move the actor")
	}
}

func TestResolveInvalidTick(t *testing.T) {
	f := mustField(t, air(0, 0, 10, 10))
	a := mustActor(t, core.MustBox(0, 0, 1, 1), 10, core.V(1, 0))

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := NewResolver().Resolve(a, f, dt, nil); !errors.Is(err, ErrInvalidTick) {
			t.Errorf("Resolve(dt=%g) error = %v, expected ErrInvalidTick", dt, err)
		}
	}
}

func TestResolveDegenerateOverlap(t *testing.T) {
	// Actor box [40,40,20,20] starts inside the solid cell [0,0,50,100].
	f := mustField(t, solid(0, 0, 50, 100))
	a := mustActor(t, core.MustBox(40, 40, 20, 20), 100, core.V(50, 0))

	_, err := NewResolver().Resolve(a, f, 1, nil)
	if !errors.Is(err, ErrDegenerateOverlap) {
		t.Fatalf("Resolve() error = %v, expected ErrDegenerateOverlap", err)
	}
	var de *DegenerateOverlapError
	if !errors.As(err, &de) || de.Cell != 0 {
		t.Errorf("error = %#v, expected *DegenerateOverlapError for cell 0", err)
	}
	if a.Box().Pos != core.V(40, 40) {
		t.Errorf("embedded actor moved to %v", a.Box().Pos)
	}
}

func TestResolveCustomBlockingPredicate(t *testing.T) {
	// A resolver that treats every cell as passable ignores the wall.
	f := mustField(t, solid(50, 0, 10, 100))
	a := mustActor(t, core.MustBox(20, 10, 20, 20), 100, core.V(100, 0))

	r := &Resolver{Blocks: func(field.Solidity) bool { return false }}
	res, err := r.Resolve(a, f, 1, nil)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if res.Displacement.X != 100 {
		t.Errorf("x displacement = %g, expected 100", res.Displacement.X)
	}
}

func TestResolveActorObstacles(t *testing.T) {
	f := mustField(t, air(0, 0, 500, 500))
	other := Obstacle{ID: 7, Box: core.MustBox(100, 0, 20, 50)}

	t.Run("soft keeps velocity", func(t *testing.T) {
		a := mustActor(t, core.MustBox(50, 10, 20, 20), 100, core.V(100, 0))
		res, err := NewResolver().Resolve(a, f, 1, []Obstacle{other})
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if a.Box().Right() != 100 {
			t.Errorf("right edge = %g, expected 100", a.Box().Right())
		}
		if res.BlockerX != (Blocker{Kind: BlockerActor, ID: 7}) {
			t.Errorf("BlockerX = %+v, expected actor 7", res.BlockerX)
		}
		if a.Velocity().X != 100 {
			t.Errorf("soft contact zeroed velocity: %v", a.Velocity())
		}
	})

	t.Run("hard zeroes velocity", func(t *testing.T) {
		a := mustActor(t, core.MustBox(50, 10, 20, 20), 100, core.V(100, 0))
		a.SetHardBlocking(true)
		if _, err := NewResolver().Resolve(a, f, 1, []Obstacle{other}); err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if a.Velocity().X != 0 {
			t.Errorf("hard contact kept velocity: %v", a.Velocity())
		}
	})

	t.Run("already overlapping is ignored", func(t *testing.T) {
		a := mustActor(t, core.MustBox(95, 10, 20, 20), 100, core.V(100, 0))
		res, err := NewResolver().Resolve(a, f, 1, []Obstacle{other})
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if res.Displacement.X != 100 {
			t.Errorf("x displacement = %g, expected 100", res.Displacement.X)
		}
	})
}

func TestResolveNeverEntersSolid(t *testing.T) {
	// The ten-cell example layout with awkward float sizes and speeds.
	f := mustField(t,
		solid(0, 0, 50, 100),
		solid(50, 50, 100, 150),
		air(50, 0, 590, 50),
		air(150, 50, 490, 310),
		air(0, 200, 150, 160),
		air(0, 100, 50, 100),
		solid(640, 0, 1, 360),
		solid(0, 360, 640, 1),
		solid(0, -1, 640, 1),
		solid(-1, 0, 1, 360),
	)

	dirs := []core.Vec{
		core.V(1, 0), core.V(-1, 0), core.V(0, 1), core.V(0, -1),
		core.V(0.7, 0.3), core.V(-0.3, 0.9), core.V(-0.6, -0.8), core.V(0.1, -1),
	}
	a := mustActor(t, core.MustBox(310.3, 170.7, 19.9, 20.1), 75, core.Vec{})
	r := NewResolver()

	for tick := range 2000 {
		d := dirs[(tick/40)%len(dirs)]
		_ = a.SetVelocity(d.Scale(75))
		if _, err := r.Resolve(a, f, 1.0/60.0*7.3, nil); err != nil {
			t.Fatalf("tick %d: Resolve() failed: %v", tick, err)
		}
		if s := a.Velocity().Len(); s > a.MaxSpeed() {
			t.Fatalf("tick %d: speed %g exceeds max", tick, s)
		}
		for i, c := range f.SolidCellsOverlapping(a.Box()) {
			t.Fatalf("tick %d: actor %v entered solid cell %d %v", tick, a.Box(), i, c.Box)
		}
	}
}
