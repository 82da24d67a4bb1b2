package entities

import (
	"math"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/scene"
)

// Controls holds the movement direction the host wants for players.
// The host updates it between ticks; the player intent reads it.
type Controls struct {
	dir core.Vec
}

// SetDirection sets the desired movement direction. Zero stops the player.
func (c *Controls) SetDirection(d core.Vec) {
	if !d.IsFinite() {
		d = core.Vec{}
	}
	c.dir = d
}

// Direction returns the current movement direction.
func (c *Controls) Direction() core.Vec {
	return c.dir
}

// PlayerIntent moves players at full speed in the controlled direction.
// Dead players stand still.
func PlayerIntent(c *Controls) scene.Intent {
	return func(_ scene.ActorID, a *actor.Actor, _ *scene.Scene) (core.Vec, error) {
		if p := PlayerState(a); p != nil && !p.Alive() {
			return core.Vec{}, nil
		}
		return unit(c.dir).Scale(a.MaxSpeed()), nil
	}
}

// EnemyIntent steers enemies straight toward the nearest living player.
func EnemyIntent(_ scene.ActorID, a *actor.Actor, s *scene.Scene) (core.Vec, error) {
	target, ok := nearestPlayer(a.Box().Center(), s)
	if !ok {
		return core.Vec{}, nil
	}
	return unit(target.Sub(a.Box().Center())).Scale(a.MaxSpeed()), nil
}

func nearestPlayer(from core.Vec, s *scene.Scene) (core.Vec, bool) {
	best := math.Inf(1)
	var target core.Vec
	for _, other := range s.Actors() {
		p := PlayerState(other)
		if p == nil || !p.Alive() {
			continue
		}
		c := other.Box().Center()
		if d := c.Sub(from).Len(); d < best {
			best, target = d, c
		}
	}
	return target, !math.IsInf(best, 1)
}

// unit returns d scaled to length 1, or zero for a (near) zero vector.
func unit(d core.Vec) core.Vec {
	l := d.Len()
	if l < 1e-9 {
		return core.Vec{}
	}
	return d.Scale(1 / l)
}

// Install registers the example intents on a scene.
func Install(s *scene.Scene, c *Controls) {
	s.SetIntent(KindPlayer, PlayerIntent(c))
	s.SetIntent(KindEnemy, EnemyIntent)
}
