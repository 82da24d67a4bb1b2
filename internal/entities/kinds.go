// Package entities provides the example actor kinds, player and enemy, with
// their intents and the combat rules applied between ticks.
package entities

import (
	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/registry"
)

// Kind names.
const (
	KindPlayer = "player"
	KindEnemy  = "enemy"
)

// Player is the state of the player-controlled actor.
type Player struct {
	Health         int     `yaml:"health" msgpack:"health"`
	MaxHealth      int     `yaml:"max_health" msgpack:"max_health"`
	AttackCooldown int     `yaml:"attack_cooldown" msgpack:"attack_cooldown"` // Ticks between attacks
	CooldownLeft   int     `yaml:"cooldown_left" msgpack:"cooldown_left"`
	AttackReach    float64 `yaml:"attack_reach" msgpack:"attack_reach"` // World units around the box
	HurtGrace      int     `yaml:"hurt_grace" msgpack:"hurt_grace"`     // Invulnerable ticks after a hit
	GraceLeft      int     `yaml:"grace_left" msgpack:"grace_left"`
	Kills          int     `yaml:"kills" msgpack:"kills"`
}

// Kind implements actor.State.
func (*Player) Kind() string { return KindPlayer }

// Alive reports whether the player has health left.
func (p *Player) Alive() bool { return p.Health > 0 }

// CanAttack reports whether the attack cooldown has elapsed.
func (p *Player) CanAttack() bool { return p.Alive() && p.CooldownLeft == 0 }

// Enemy is the state of a chasing enemy.
type Enemy struct {
	Health        int     `yaml:"health" msgpack:"health"`
	ContactDamage int     `yaml:"contact_damage" msgpack:"contact_damage"`
	BaseSpeed     float64 `yaml:"base_speed" msgpack:"base_speed"` // Max speed before difficulty scaling
}

// Kind implements actor.State.
func (*Enemy) Kind() string { return KindEnemy }

func newPlayer() actor.State {
	return &Player{
		Health:         10,
		MaxHealth:      10,
		AttackCooldown: 30,
		AttackReach:    12,
		HurtGrace:      45,
	}
}

func newEnemy() actor.State {
	return &Enemy{
		Health:        1,
		ContactDamage: 1,
	}
}

func init() {
	registry.Register(KindPlayer, "Player-controlled hero that attacks nearby enemies", newPlayer)
	registry.Register(KindEnemy, "Enemy that chases the nearest player", newEnemy)
}

// PlayerState returns a's player state, or nil for other kinds.
func PlayerState(a *actor.Actor) *Player {
	p, _ := a.State().(*Player)
	return p
}

// EnemyState returns a's enemy state, or nil for other kinds.
func EnemyState(a *actor.Actor) *Enemy {
	e, _ := a.State().(*Enemy)
	return e
}
