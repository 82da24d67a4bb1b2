package entities

import (
	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/scene"
)

// contactSlop is how close an enemy must be to count as touching.
const contactSlop = 0.5

// CombatReport summarizes one combat step.
type CombatReport struct {
	Killed  []scene.ActorID
	Damage  int  // Health lost by players
	Downed  bool // A player reached zero health this step
	Attacks int
}

// Combat applies the rules between ticks: cooldowns run down, attacking
// players remove enemies in reach, and enemies touching a player hurt it.
// damage scales an enemy's base contact damage; nil leaves it unchanged.
func Combat(s *scene.Scene, attack bool, damage func(base int) int) CombatReport {
	var rep CombatReport
	if damage == nil {
		damage = func(base int) int { return base }
	}

	type fighter struct {
		id scene.ActorID
		a  *actor.Actor
	}
	var players, enemies []fighter
	for id, a := range s.Actors() {
		switch {
		case PlayerState(a) != nil:
			players = append(players, fighter{id, a})
		case EnemyState(a) != nil:
			enemies = append(enemies, fighter{id, a})
		}
	}

	dead := make(map[scene.ActorID]bool)
	for _, pl := range players {
		p := PlayerState(pl.a)
		p.CooldownLeft = max(p.CooldownLeft-1, 0)
		p.GraceLeft = max(p.GraceLeft-1, 0)

		if !attack || !p.CanAttack() {
			continue
		}
		rep.Attacks++
		p.CooldownLeft = p.AttackCooldown
		reach := grow(pl.a.Box(), p.AttackReach)
		for _, en := range enemies {
			if dead[en.id] || !reach.Intersects(en.a.Box()) {
				continue
			}
			e := EnemyState(en.a)
			e.Health--
			if e.Health <= 0 {
				dead[en.id] = true
				p.Kills++
			}
		}
	}

	for _, en := range enemies {
		if dead[en.id] {
			continue
		}
		touch := grow(en.a.Box(), contactSlop)
		for _, pl := range players {
			p := PlayerState(pl.a)
			if !p.Alive() || p.GraceLeft > 0 || !touch.Intersects(pl.a.Box()) {
				continue
			}
			hit := min(damage(EnemyState(en.a).ContactDamage), p.Health)
			p.Health -= hit
			p.GraceLeft = p.HurtGrace
			rep.Damage += hit
			if !p.Alive() {
				rep.Downed = true
			}
		}
	}

	for _, en := range enemies {
		if dead[en.id] {
			s.Deregister(en.id)
			rep.Killed = append(rep.Killed, en.id)
		}
	}
	return rep
}

// ScaleEnemySpeed sets every enemy's max speed from its base speed.
// An enemy without a recorded base speed adopts its current max speed.
func ScaleEnemySpeed(s *scene.Scene, speed func(base float64) float64) error {
	for _, a := range s.Actors() {
		e := EnemyState(a)
		if e == nil {
			continue
		}
		if e.BaseSpeed == 0 {
			e.BaseSpeed = a.MaxSpeed()
		}
		if err := a.SetMaxSpeed(speed(e.BaseSpeed)); err != nil {
			return err
		}
	}
	return nil
}

// grow returns b expanded by d on every side.
func grow(b core.Box, d float64) core.Box {
	return core.Box{
		Pos:  b.Pos.Sub(core.V(d, d)),
		Size: b.Size.Add(core.V(2*d, 2*d)),
	}
}
