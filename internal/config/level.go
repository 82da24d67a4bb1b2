package config

import (
	"fmt"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/field"
	"github.com/vovakirdan/scarab/internal/registry"
)

// Validate checks the level without building it.
func (l LevelConfig) Validate() error {
	_, _, err := BuildLevel(l)
	return err
}

// BuildLevel constructs the field and the initial actors of a level.
// Actor states are created through the kind registry and filled from the
// level's state mapping. Nothing is returned unless every part is valid.
func BuildLevel(l LevelConfig) (*field.Field, []*actor.Actor, error) {
	cells := make([]field.Cell, 0, len(l.Cells))
	for i, c := range l.Cells {
		sol, err := field.ParseSolidity(c.Solidity)
		if err != nil {
			return nil, nil, fmt.Errorf("config: cell %d: %w", i, err)
		}
		b, err := c.Box.Box()
		if err != nil {
			return nil, nil, fmt.Errorf("config: cell %d: %w", i, err)
		}
		cells = append(cells, field.Cell{Solidity: sol, Box: b})
	}
	f, err := field.New(cells)
	if err != nil {
		return nil, nil, fmt.Errorf("config: level %q: %w", l.Name, err)
	}

	actors := make([]*actor.Actor, 0, len(l.Actors))
	for i, ac := range l.Actors {
		a, err := buildActor(ac)
		if err != nil {
			return nil, nil, fmt.Errorf("config: actor %d (%s): %w", i, ac.Kind, err)
		}
		actors = append(actors, a)
	}
	return f, actors, nil
}

func buildActor(ac ActorConfig) (*actor.Actor, error) {
	state, err := registry.New(ac.Kind)
	if err != nil {
		return nil, err
	}
	if !ac.State.IsZero() {
		if err := ac.State.Decode(state); err != nil {
			return nil, fmt.Errorf("cannot decode state: %w", err)
		}
	}

	b, err := ac.Box.Box()
	if err != nil {
		return nil, err
	}
	a, err := actor.New(b, ac.MaxSpeed, state)
	if err != nil {
		return nil, err
	}
	a.SetHardBlocking(ac.HardBlocking)
	return a, nil
}
