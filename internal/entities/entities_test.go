package entities

import (
	"math"
	"testing"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/field"
	"github.com/vovakirdan/scarab/internal/registry"
	"github.com/vovakirdan/scarab/internal/scene"
)

func openScene(t *testing.T) *scene.Scene {
	t.Helper()
	f, err := field.New([]field.Cell{{Solidity: field.NoSolidity, Box: core.MustBox(0, 0, 640, 360)}})
	if err != nil {
		t.Fatalf("field.New() failed: %v", err)
	}
	return scene.New(f)
}

func spawn(t *testing.T, s *scene.Scene, kind string, x, y, size, speed float64) (scene.ActorID, *actor.Actor) {
	t.Helper()
	state, err := registry.New(kind)
	if err != nil {
		t.Fatalf("registry.New(%q) failed: %v", kind, err)
	}
	a, err := actor.New(core.MustBox(x, y, size, size), speed, state)
	if err != nil {
		t.Fatalf("actor.New() failed: %v", err)
	}
	id, err := s.RegisterActor(a)
	if err != nil {
		t.Fatalf("RegisterActor() failed: %v", err)
	}
	return id, a
}

func TestKindsRegistered(t *testing.T) {
	for _, kind := range []string{KindPlayer, KindEnemy} {
		if !registry.Exists(kind) {
			t.Errorf("kind %q not registered", kind)
		}
	}
	st, _ := registry.New(KindPlayer)
	p, ok := st.(*Player)
	if !ok {
		t.Fatalf("player state is %T", st)
	}
	if p.Health != 10 || p.AttackCooldown != 30 {
		t.Errorf("player defaults = %+v", p)
	}
}

func TestPlayerIntent(t *testing.T) {
	s := openScene(t)
	var c Controls
	Install(s, &c)
	_, pa := spawn(t, s, KindPlayer, 100, 100, 20, 75)

	c.SetDirection(core.V(1, 1))
	if _, err := s.Update(1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if v := pa.Velocity().Len(); math.Abs(v-75) > 1e-9 {
		t.Errorf("speed = %g, expected 75", v)
	}

	c.SetDirection(core.Vec{})
	before := pa.Pos()
	if _, err := s.Update(1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if pa.Pos() != before {
		t.Errorf("player moved to %v without input", pa.Pos())
	}

	PlayerState(pa).Health = 0
	c.SetDirection(core.V(-1, 0))
	if _, err := s.Update(1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if pa.Pos() != before {
		t.Error("dead player should not move")
	}
}

func TestEnemyChasesNearestPlayer(t *testing.T) {
	s := openScene(t)
	Install(s, &Controls{})
	_, near := spawn(t, s, KindPlayer, 200, 100, 20, 75)
	spawn(t, s, KindPlayer, 600, 300, 20, 75)
	_, en := spawn(t, s, KindEnemy, 100, 100, 20, 50)

	if _, err := s.Update(0.1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	v := en.Velocity()
	if math.Abs(v.X-50) > 1e-9 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("enemy velocity = %v, expected (50, 0)", v)
	}

	PlayerState(near).Health = 0
	if _, err := s.Update(0.1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if v := en.Velocity(); v.X <= 0 || v.Y <= 0 {
		t.Errorf("enemy velocity = %v, expected to head for the far player", v)
	}
}

func TestEnemyIdleWithoutPlayers(t *testing.T) {
	s := openScene(t)
	Install(s, &Controls{})
	_, en := spawn(t, s, KindEnemy, 100, 100, 20, 50)

	if _, err := s.Update(1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if en.Velocity() != (core.Vec{}) {
		t.Errorf("velocity = %v, expected zero", en.Velocity())
	}
}

func TestCombatAttack(t *testing.T) {
	s := openScene(t)
	pid, pa := spawn(t, s, KindPlayer, 100, 100, 20, 75)
	nearID, _ := spawn(t, s, KindEnemy, 125, 100, 15, 50) // 5 units away, inside reach 12
	farID, _ := spawn(t, s, KindEnemy, 300, 100, 15, 50)

	rep := Combat(s, true, nil)
	if len(rep.Killed) != 1 || rep.Killed[0] != nearID {
		t.Fatalf("Killed = %v, expected [%d]", rep.Killed, nearID)
	}
	if _, ok := s.Actor(nearID); ok {
		t.Error("killed enemy still registered")
	}
	if _, ok := s.Actor(farID); !ok {
		t.Error("enemy out of reach was removed")
	}
	if _, ok := s.Actor(pid); !ok {
		t.Error("player was removed")
	}

	p := PlayerState(pa)
	if p.Kills != 1 || p.CooldownLeft != p.AttackCooldown {
		t.Errorf("player after attack = %+v", p)
	}

	if rep := Combat(s, true, nil); rep.Attacks != 0 {
		t.Error("attack should be on cooldown")
	}
}

func TestCombatContactDamage(t *testing.T) {
	s := openScene(t)
	_, pa := spawn(t, s, KindPlayer, 100, 100, 20, 75)
	_, en := spawn(t, s, KindEnemy, 120, 100, 15, 50) // flush against the player
	EnemyState(en).ContactDamage = 2

	rep := Combat(s, false, func(base int) int { return base + 1 })
	p := PlayerState(pa)
	if rep.Damage != 3 || p.Health != 7 {
		t.Errorf("damage = %d, health = %d, expected 3 and 7", rep.Damage, p.Health)
	}
	if p.GraceLeft != p.HurtGrace {
		t.Errorf("GraceLeft = %d, expected %d", p.GraceLeft, p.HurtGrace)
	}

	if rep := Combat(s, false, nil); rep.Damage != 0 {
		t.Error("player should be invulnerable during grace")
	}

	p.GraceLeft = 0
	p.Health = 1
	rep = Combat(s, false, nil)
	if !rep.Downed || p.Health != 0 {
		t.Errorf("Downed = %v, health = %d, expected the player down", rep.Downed, p.Health)
	}
}

func TestScaleEnemySpeed(t *testing.T) {
	s := openScene(t)
	_, pa := spawn(t, s, KindPlayer, 100, 100, 20, 75)
	_, en := spawn(t, s, KindEnemy, 300, 100, 15, 50)

	double := func(base float64) float64 { return base * 2 }
	if err := ScaleEnemySpeed(s, double); err != nil {
		t.Fatalf("ScaleEnemySpeed() failed: %v", err)
	}
	if err := ScaleEnemySpeed(s, double); err != nil {
		t.Fatalf("ScaleEnemySpeed() failed: %v", err)
	}
	if en.MaxSpeed() != 100 {
		t.Errorf("enemy MaxSpeed() = %g, expected 100", en.MaxSpeed())
	}
	if pa.MaxSpeed() != 75 {
		t.Errorf("player MaxSpeed() = %g, expected 75", pa.MaxSpeed())
	}
}
