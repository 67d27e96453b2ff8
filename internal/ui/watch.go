// Package ui renders the terminal status view of `halo watch`.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/halo/editor"
)

// Config wires the model to a session.
type Config struct {
	// Path of the watched shader.
	Path string
	// Events from editor.Session.Subscribe.
	Events <-chan editor.Event
	// Text returns the current shader text, for diagnostic slices.
	Text func() string
	// Validate is called when Enter is pressed.
	Validate func()
	// Backend names the GPU backend shown in the header.
	Backend string
}

type watchModel struct {
	cfg     Config
	spinner spinner.Model
	status  editor.Status
	version uint64
	changes int
	width   int
	done    bool
}

type eventMsg editor.Event
type doneMsg struct{}

// NewWatchModel returns a Bubble Tea model showing the validation status.
func NewWatchModel(cfg Config) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &watchModel{
		cfg:     cfg,
		spinner: sp,
		width:   80,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.status = msg.Status
		m.version = msg.Version
		m.changes++
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		case "enter":
			if m.cfg.Validate != nil {
				m.cfg.Validate()
			}
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	header := truncate(m.cfg.Path, m.width-20)
	if m.cfg.Backend != "" {
		header = fmt.Sprintf("%s [%s]", header, m.cfg.Backend)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	state := m.status.State.String()
	marker := " "
	if m.status.State == editor.Validating && !m.done {
		marker = m.spinner.View()
	}
	fmt.Fprintf(&b, "  %s %s  %s\n", marker, styleState(m.status.State).Render(fmt.Sprintf("%-16s", state)),
		dimStyle.Render(fmt.Sprintf("version %d", m.version)))

	if d := m.status.Diagnostic; d != nil {
		text := ""
		if m.cfg.Text != nil {
			text = m.cfg.Text()
		}
		b.WriteString("\n")
		for _, line := range strings.Split(d.Format(text), "\n") {
			b.WriteString("    ")
			b.WriteString(truncate(line, m.width-6))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: validate  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *watchModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.cfg.Events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func styleState(s editor.State) lipgloss.Style {
	switch s {
	case editor.Validated:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case editor.Invalid:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case editor.Validating:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
