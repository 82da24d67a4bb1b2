package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/game"
)

// helpHeight is the number of rows below the game screen used by the help line.
const helpHeight = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model running one game session.
type Model struct {
	session    *game.Session
	screen     *core.Screen
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	ups        int
	saveOnQuit bool
	logger     *log.Logger
	quitting   bool
	err        error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithSaveOnQuit saves the session when the player quits.
func WithSaveOnQuit() ModelOption {
	return func(m *Model) {
		m.saveOnQuit = true
	}
}

// WithLogger sets the logger for host events.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// NewModel creates a new Bubble Tea model for a session drawn at width x height.
func NewModel(session *game.Session, width, height int, opts ...ModelOption) Model {
	m := Model{
		session:    session,
		screen:     core.NewScreen(width, max(height-helpHeight, 0)),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		ups:        session.Config().Loop.UPS,
		logger:     session.Logger(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize(width, height)
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.ups)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey records actions for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		if m.saveOnQuit {
			if err := m.session.Save(); err != nil {
				m.logger.Warn("save on quit failed", "error", err)
			}
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	h := max(height-helpHeight, 1)
	m.screen.Resize(width, h)
	m.help.Width = width
	if err := m.session.Resize(width, h); err != nil {
		m.logger.Warn("cannot resize camera", "width", width, "height", h, "error", err)
	}
}

// handleTick runs one simulation step with the input gathered since the last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	_, err := m.session.Step(m.inputFrame)
	m.inputFrame.Clear()
	if err != nil {
		m.logger.Error("simulation stopped", "error", err)
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.ups)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.session.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Err returns the error that stopped the session, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program for a session.
// Frames are capped at the engine's FPS; ticks run at its UPS.
func Run(session *game.Session, width, height int, opts ...ModelOption) error {
	model := NewModel(session, width, height, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(session.Config().Loop.FPS),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
