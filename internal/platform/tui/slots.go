package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scarab/internal/storage"
)

// SlotsKeyMap defines the key bindings for the save slot browser.
type SlotsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SlotsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SlotsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Quit}}
}

// DefaultSlotsKeyMap returns default key bindings.
func DefaultSlotsKeyMap() SlotsKeyMap {
	return SlotsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play slot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SlotsModel is the Bubble Tea model listing save slots.
type SlotsModel struct {
	dir      string
	slots    []storage.SaveInfo
	table    table.Model
	help     help.Model
	keys     SlotsKeyMap
	width    int
	height   int
	selected *storage.SaveInfo
	quitting bool
}

// NewSlotsModel creates a slot browser over the given slots.
func NewSlotsModel(dir string, slots []storage.SaveInfo, width, height int) SlotsModel {
	m := SlotsModel{
		dir:    dir,
		slots:  slots,
		help:   help.New(),
		keys:   DefaultSlotsKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *SlotsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Slot", Width: 16},
		{Title: "Tick", Width: 8},
		{Title: "Actors", Width: 8},
		{Title: "Saved", Width: 14},
		{Title: "Status", Width: 24},
	}

	// Give the slot name any spare width
	if extra := m.width - 4 - 80; extra > 0 {
		columns[0].Width += min(extra, 24)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the slot list.
func (m *SlotsModel) updateTableRows() {
	rows := make([]table.Row, len(m.slots))
	for i, s := range m.slots {
		status := "ok"
		saved := "-"
		if s.Err != nil {
			status = "unreadable"
		} else if !s.SavedAt.IsZero() {
			saved = s.SavedAt.Local().Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			s.Name,
			fmt.Sprintf("%d", s.Tick),
			fmt.Sprintf("%d", s.Actors),
			saved,
			status,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the slot browser.
func (m SlotsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the slot browser.
func (m SlotsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.slots) && m.slots[i].Err == nil {
				m.selected = &m.slots[i]
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the slot browser.
func (m SlotsModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SAVE SLOTS - "+m.dir, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SlotsModel) renderTableContent() string {
	if len(m.slots) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No saves yet.\nPress ctrl+s while playing to save!")
	}
	return m.table.View()
}

// Selected returns the chosen slot, or nil if the user quit.
func (m SlotsModel) Selected() *storage.SaveInfo {
	return m.selected
}

// centerText pads text so it is centered within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// BrowseSlots runs the slot browser and returns the chosen slot path.
// Returns an empty path if the user quit without choosing.
func BrowseSlots(dir string, width, height int) (string, error) {
	slots, err := storage.ListSlots(dir)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(
		NewSlotsModel(dir, slots, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(SlotsModel)
	if !ok || m.Selected() == nil {
		return "", nil
	}
	return m.Selected().Path, nil
}
