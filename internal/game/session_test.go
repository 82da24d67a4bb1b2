package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/entities"
	"github.com/vovakirdan/scarab/internal/storage"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	eng := config.DefaultEngineConfig()
	eng.Save.Path = filepath.Join(t.TempDir(), "slot.sav")
	eng.Difficulty.Preset = config.DifficultyFixed
	return Options{Engine: eng, Level: config.DefaultLevelConfig()}
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func step(t *testing.T, s *Session, in core.InputFrame) StepResult {
	t.Helper()
	res, err := s.Step(in)
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	return res
}

func TestNewFreshWhenNoSave(t *testing.T) {
	s, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	st := s.State()
	if st.Loaded {
		t.Error("session should start fresh without a save file")
	}
	if st.Enemies != 2 || st.Health != 10 {
		t.Errorf("State() = %+v, expected 2 enemies and full health", st)
	}
	if s.Scene().Len() != 3 {
		t.Errorf("scene has %d actors, expected 3", s.Scene().Len())
	}
}

func TestStepMovesPlayer(t *testing.T) {
	s, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p, _ := s.Player()
	x0 := p.Pos().X

	res := step(t, s, press(core.ActionMoveRight))
	if res.State.Tick != 1 {
		t.Errorf("Tick = %d, expected 1", res.State.Tick)
	}
	if dx := p.Pos().X - x0; math.Abs(dx-75.0/60.0) > 1e-9 {
		t.Errorf("player moved %g, expected %g", dx, 75.0/60.0)
	}
}

func TestMovementHeldAfterPress(t *testing.T) {
	opts := testOptions(t)
	opts.Engine.Controls.HoldTicks = 3
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p, _ := s.Player()

	step(t, s, press(core.ActionMoveLeft))
	for range 2 {
		before := p.Pos().X
		step(t, s, press())
		if p.Pos().X >= before {
			t.Fatal("movement should stay held after the press")
		}
	}
	before := p.Pos()
	step(t, s, press())
	if p.Pos() != before {
		t.Errorf("player still moving after hold expired: %v -> %v", before, p.Pos())
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	s, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	res := step(t, s, press(core.ActionPause))
	if !res.State.Paused || res.State.Tick != 0 {
		t.Errorf("State() = %+v, expected paused at tick 0", res.State)
	}
	step(t, s, press(core.ActionMoveUp))
	if s.Scene().Tick() != 0 {
		t.Error("paused session advanced")
	}
	if res := step(t, s, press(core.ActionPause)); res.State.Paused || res.State.Tick != 1 {
		t.Errorf("State() = %+v, expected resumed at tick 1", res.State)
	}
}

func TestSaveAndResume(t *testing.T) {
	opts := testOptions(t)
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for range 30 {
		step(t, s, press(core.ActionMoveDown))
	}
	res := step(t, s, press(core.ActionSave))
	if !res.Saved || res.Err != nil {
		t.Fatalf("save failed: %+v", res)
	}
	if _, err := os.Stat(opts.Engine.Save.Path); err != nil {
		t.Fatalf("save file missing: %v", err)
	}

	resumed, err := New(opts)
	if err != nil {
		t.Fatalf("New() from save failed: %v", err)
	}
	if !resumed.State().Loaded {
		t.Error("session should resume from the save file")
	}
	if resumed.Scene().Tick() != s.Scene().Tick() {
		t.Errorf("Tick() = %d, expected %d", resumed.Scene().Tick(), s.Scene().Tick())
	}
	for id, a := range s.Scene().Actors() {
		b, ok := resumed.Scene().Actor(id)
		if !ok || b.Box() != a.Box() {
			t.Errorf("actor %d not restored", id)
		}
	}

	// Intents are reinstalled after loading.
	p, _ := resumed.Player()
	x0 := p.Pos().X
	step(t, resumed, press(core.ActionMoveRight))
	if p.Pos().X <= x0 {
		t.Error("resumed player does not respond to input")
	}

	opts.Fresh = true
	fresh, err := New(opts)
	if err != nil {
		t.Fatalf("New() fresh failed: %v", err)
	}
	if fresh.State().Loaded || fresh.Scene().Tick() != 0 {
		t.Error("Fresh should ignore the save file")
	}
}

func TestCorruptSaveIsAnError(t *testing.T) {
	opts := testOptions(t)
	if err := os.WriteFile(opts.Engine.Save.Path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(opts)
	if !errors.Is(err, storage.ErrDecode) {
		t.Errorf("New() error = %v, expected storage.ErrDecode", err)
	}
}

func TestSaveWithoutSlot(t *testing.T) {
	opts := testOptions(t)
	opts.Engine.Save.Path = ""
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	res := step(t, s, press(core.ActionSave))
	if !errors.Is(res.Err, ErrNoSaveSlot) {
		t.Errorf("Err = %v, expected ErrNoSaveSlot", res.Err)
	}
}

func duelLevel() config.LevelConfig {
	return config.LevelConfig{
		Name:  "duel",
		Cells: []config.CellConfig{{Solidity: "none", Box: config.BoxConfig{0, 0, 640, 360}}},
		Actors: []config.ActorConfig{
			{Kind: entities.KindPlayer, Box: config.BoxConfig{100, 100, 20, 20}, MaxSpeed: 75},
			{Kind: entities.KindEnemy, Box: config.BoxConfig{121, 100, 15, 15}, MaxSpeed: 50},
		},
	}
}

func TestGameOverAndRestart(t *testing.T) {
	opts := testOptions(t)
	opts.Level = duelLevel()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p, _ := s.Player()
	entities.PlayerState(p).Health = 1

	res := step(t, s, press())
	if !res.Combat.Downed || !res.State.GameOver {
		t.Fatalf("expected the player to go down, got %+v", res.State)
	}

	tick := s.Scene().Tick()
	step(t, s, press(core.ActionMoveLeft))
	if s.Scene().Tick() != tick {
		t.Error("simulation advanced after game over")
	}

	res = step(t, s, press(core.ActionRestart))
	if res.State.GameOver || res.State.Health != 10 || res.State.Tick != 0 {
		t.Errorf("State() after restart = %+v", res.State)
	}
}

func TestAttackClearsEnemy(t *testing.T) {
	opts := testOptions(t)
	opts.Level = duelLevel()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	res := step(t, s, press(core.ActionAttack))
	if len(res.Combat.Killed) != 1 || res.State.Enemies != 0 {
		t.Errorf("Combat = %+v, State = %+v, expected the enemy removed", res.Combat, res.State)
	}
}

func TestRender(t *testing.T) {
	s, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	screen := core.NewScreen(80, 24)
	if err := s.Resize(80, 24); err != nil {
		t.Fatalf("Resize() failed: %v", err)
	}
	s.Render(screen)

	if !strings.Contains(screen.Row(0), "Health: 10") {
		t.Errorf("HUD = %q, expected health", screen.Row(0))
	}
	out := screen.String()
	if !strings.ContainsRune(out, '@') {
		t.Error("player glyph missing")
	}
	if !strings.ContainsRune(out, 'x') {
		t.Error("enemy glyph missing")
	}
	if !strings.ContainsRune(out, '█') {
		t.Error("solid cells missing")
	}

	step(t, s, press(core.ActionDebug))
	s.Render(screen)
	if !strings.Contains(screen.String(), "tick 1") {
		t.Error("debug overlay missing")
	}
}
