// Package game composes a playable session: a Scene built from a level or a
// save slot, the Camera looking at it, the player controls and the save slot
// path. The host drives it one fixed tick at a time through Step.
package game

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/camera"
	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/entities"
	"github.com/vovakirdan/scarab/internal/scene"
	"github.com/vovakirdan/scarab/internal/storage"
)

// HUDHeight is the number of screen rows reserved for the status bar.
const HUDHeight = 2

// ErrNoSaveSlot is returned when saving a session without a save path.
var ErrNoSaveSlot = errors.New("game: no save slot configured")

// Options configures a new Session.
type Options struct {
	Engine   config.EngineConfig
	Level    config.LevelConfig
	SavePath string // Overrides Engine.Save.Path when set
	Fresh    bool   // Ignore the save slot at startup
	Logger   *log.Logger
}

// State is the host-visible summary of a session.
type State struct {
	Tick     uint64
	Health   int
	Kills    int
	Enemies  int
	GameOver bool
	Paused   bool
	Debug    bool
	Loaded   bool // Started from a save slot
}

// StepResult is returned by Step.
type StepResult struct {
	State  State
	Report scene.Report
	Combat entities.CombatReport
	Saved  bool
	Err    error // Non-fatal error, such as a failed save
}

// Session is one running game.
type Session struct {
	cfg        config.EngineConfig
	level      config.LevelConfig
	savePath   string
	logger     *log.Logger
	scene      *scene.Scene
	camera     *camera.Camera
	controls   entities.Controls
	difficulty *config.DifficultyManager
	dt         float64

	held     map[core.Action]int // Movement actions and the ticks they stay held
	paused   bool
	debug    bool
	gameOver bool
	loaded   bool
	status   string
}

// New starts a session. Unless opts.Fresh is set or the engine's startup
// policy is "fresh", the save slot is loaded; a missing slot falls back to
// building the level. A slot that exists but cannot be read is an error.
func New(opts Options) (*Session, error) {
	if err := opts.Engine.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	savePath := opts.SavePath
	if savePath == "" {
		savePath = opts.Engine.Save.Path
	}

	s := &Session{
		cfg:        opts.Engine,
		level:      opts.Level,
		savePath:   savePath,
		logger:     logger,
		difficulty: config.NewDifficultyManager(opts.Engine.Difficulty),
		dt:         opts.Engine.Runtime().TickSeconds(),
		held:       make(map[core.Action]int),
	}

	if !opts.Fresh && opts.Engine.Save.OnStart == config.StartLoad && savePath != "" {
		err := s.load()
		switch {
		case err == nil:
			return s, nil
		case errors.Is(err, os.ErrNotExist):
			logger.Info("no save found, starting fresh", "path", savePath)
		default:
			return nil, err
		}
	}

	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	sc, cam, err := storage.Load(s.savePath, scene.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.install(sc, cam)
	s.loaded = true
	s.gameOver = !s.playerAlive()
	s.status = "Loaded " + s.savePath
	s.logger.Info("save loaded", "path", s.savePath, "tick", sc.Tick(), "actors", sc.Len())
	return nil
}

// build creates the scene and camera from the level.
func (s *Session) build() error {
	f, actors, err := config.BuildLevel(s.level)
	if err != nil {
		return err
	}
	sc := scene.New(f,
		scene.WithLogger(s.logger),
		scene.WithActorCollisions(s.cfg.Physics.ActorCollisions),
	)
	for _, a := range actors {
		if _, err := sc.RegisterActor(a); err != nil {
			return fmt.Errorf("game: %w", err)
		}
	}

	view, err := s.cfg.Camera.View.Box()
	if err != nil {
		return fmt.Errorf("game: camera view: %w", err)
	}
	vp := s.cfg.Camera.Viewport
	cam, err := camera.New(view, vp.Width, vp.Height)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	s.install(sc, cam)
	s.loaded = false
	s.gameOver = false
	s.status = "Level " + s.level.Name
	s.logger.Info("level built", "level", s.level.Name, "cells", f.Len(), "actors", sc.Len())
	return nil
}

func (s *Session) install(sc *scene.Scene, cam *camera.Camera) {
	s.scene = sc
	s.camera = cam
	s.controls = entities.Controls{}
	clear(s.held)
	entities.Install(sc, &s.controls)
	s.follow()
}

// Step advances the session by one tick of input. A save requested in the
// same input is written after the tick completes.
// The returned error is fatal for the session; recoverable problems such as
// a failed save are reported in StepResult.Err.
func (s *Session) Step(in core.InputFrame) (StepResult, error) {
	var res StepResult

	if in.Has(core.ActionDebug) {
		s.debug = !s.debug
	}
	if err := s.advance(in, &res); err != nil {
		return res, err
	}
	if in.Has(core.ActionSave) {
		if err := s.Save(); err != nil {
			res.Err = err
			s.status = "Save failed"
		} else {
			res.Saved = true
		}
	}
	res.State = s.State()
	return res, nil
}

func (s *Session) advance(in core.InputFrame, res *StepResult) error {
	if in.Has(core.ActionRestart) && s.gameOver {
		return s.build()
	}
	if in.Has(core.ActionPause) && !s.gameOver {
		s.paused = !s.paused
	}
	if s.paused || s.gameOver {
		return nil
	}

	s.controls.SetDirection(s.movement(in))

	tick := s.scene.Tick()
	if err := entities.ScaleEnemySpeed(s.scene, func(base float64) float64 {
		return s.difficulty.Speed(base, tick)
	}); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	rep, err := s.scene.Update(s.dt)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	res.Report = rep

	res.Combat = entities.Combat(s.scene, in.Has(core.ActionAttack), func(base int) int {
		return s.difficulty.Damage(base, tick)
	})
	if len(res.Combat.Killed) > 0 {
		s.logger.Debug("enemies defeated", "ids", res.Combat.Killed, "tick", rep.Tick)
	}
	if res.Combat.Downed {
		s.gameOver = true
		s.status = "You fell"
		s.logger.Info("player down", "tick", rep.Tick)
	}

	s.follow()
	return nil
}

// movement keeps movement keys held for a few ticks after each press,
// since terminals report key presses but not releases.
func (s *Session) movement(in core.InputFrame) core.Vec {
	hold := max(s.cfg.Controls.HoldTicks, 1)
	dirs := []core.Action{core.ActionMoveUp, core.ActionMoveDown, core.ActionMoveLeft, core.ActionMoveRight}

	frame := core.NewInputFrame()
	for _, a := range dirs {
		if in.Has(a) {
			s.held[a] = hold
		}
		if s.held[a] > 0 {
			frame.Set(a)
			s.held[a]--
		}
	}
	return frame.Movement()
}

func (s *Session) follow() {
	if !s.cfg.Camera.Follow {
		return
	}
	if p, ok := s.Player(); ok {
		bounds := s.scene.Field().Bounds()
		s.camera.Follow(p.Box(), &bounds)
	}
}

// Save writes the session to its save slot.
func (s *Session) Save() error {
	if s.savePath == "" {
		return ErrNoSaveSlot
	}
	if err := storage.Save(s.scene, s.camera, s.savePath); err != nil {
		s.logger.Error("save failed", "path", s.savePath, "error", err)
		return err
	}
	s.status = "Saved"
	s.logger.Info("game saved", "path", s.savePath, "tick", s.scene.Tick())
	return nil
}

// Resize adapts the camera to a new screen size, keeping room for the HUD.
func (s *Session) Resize(width, height int) error {
	w, h := max(width, 1), max(height-HUDHeight, 1)
	return s.camera.ResizeViewport(uint32(w), uint32(h)) //#nosec G115 -- screen sizes are small and positive
}

// Player returns the first player actor.
func (s *Session) Player() (*actor.Actor, bool) {
	for _, a := range s.scene.Actors() {
		if entities.PlayerState(a) != nil {
			return a, true
		}
	}
	return nil, false
}

func (s *Session) playerAlive() bool {
	a, ok := s.Player()
	return ok && entities.PlayerState(a).Alive()
}

// State returns the current session state.
func (s *Session) State() State {
	st := State{
		Tick:     s.scene.Tick(),
		GameOver: s.gameOver,
		Paused:   s.paused,
		Debug:    s.debug,
		Loaded:   s.loaded,
	}
	if a, ok := s.Player(); ok {
		p := entities.PlayerState(a)
		st.Health = p.Health
		st.Kills = p.Kills
	}
	for _, a := range s.scene.Actors() {
		if entities.EnemyState(a) != nil {
			st.Enemies++
		}
	}
	return st
}

// Scene returns the running scene.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Camera returns the session camera.
func (s *Session) Camera() *camera.Camera { return s.camera }

// SavePath returns the save slot path.
func (s *Session) SavePath() string { return s.savePath }

// Status returns the last status message.
func (s *Session) Status() string { return s.status }

// Config returns the engine configuration.
func (s *Session) Config() config.EngineConfig { return s.cfg }

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }
