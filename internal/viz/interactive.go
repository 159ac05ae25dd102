package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tablesim/internal/config"
)

var (
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var presetInfo = map[string]string{
	"default": "three balls in a row",
	"line":    "cue ball into a line of four",
	"rack":    "cue ball and a triangle rack",
	"corners": "four balls from the corners",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is one editable physics or input parameter.
type tunable struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var tunables = []tunable{
	{"friction", func(c *config.Config) float64 { return c.Physics.Friction }, func(c *config.Config, v float64) { c.Physics.Friction = v }},
	{"rest_epsilon", func(c *config.Config) float64 { return c.Physics.RestEpsilon }, func(c *config.Config, v float64) { c.Physics.RestEpsilon = v }},
	{"impulse", func(c *config.Config) float64 { return c.Input.ImpulseScale }, func(c *config.Config, v float64) { c.Input.ImpulseScale = v }},
}

// picker chooses a preset, lets the user tune it, then hands over to Model.
type picker struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	live          Model
}

func newPicker() picker {
	return picker{state: stateMenu, presets: config.ListPresets()}
}

// RunInteractive starts the terminal UI at the preset menu.
func RunInteractive() error {
	_, err := tea.NewProgram(newPicker(), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			val, err := strconv.ParseFloat(m.editBuf, 64)
			if err != nil {
				m.err = fmt.Sprintf("not a number: %q", m.editBuf)
			} else {
				tunables[m.paramCursor].set(m.cfg, val)
				m.err = ""
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter":
		m.editing = true
		m.editBuf = strconv.FormatFloat(tunables[m.paramCursor].get(m.cfg), 'g', -1, 64)
	case "s", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	live, err := NewModel(m.cfg, m.selected)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, live.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateSim:
		return m.live.View()
	case stateConfig:
		return m.configView()
	}
	return m.menuView()
}

func (m picker) menuView() string {
	var s strings.Builder
	s.WriteString("\n  " + cyan.Render("tablesim") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, dim.Render(presetInfo[name]))
		if i == m.cursor {
			s.WriteString("  " + white.Render("> "+line) + "\n")
		} else {
			s.WriteString("    " + line + "\n")
		}
	}
	s.WriteString("\n  " + dim.Render("↑↓:Select  Enter:Configure  Q:Quit") + "\n")
	return s.String()
}

func (m picker) configView() string {
	var s strings.Builder
	s.WriteString("\n  " + cyan.Render("tablesim") + " " + white.Render(m.selected) + "\n\n")
	s.WriteString(fmt.Sprintf("  %s %d balls on %gx%g\n\n", dim.Render("table"), len(m.cfg.Balls), m.cfg.Table.Width, m.cfg.Table.Height))
	for i, p := range tunables {
		val := strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
		if m.editing && i == m.paramCursor {
			val = m.editBuf + "_"
		}
		line := fmt.Sprintf("%-14s %s", p.name, val)
		if i == m.paramCursor {
			s.WriteString("  " + white.Render("> "+line) + "\n")
		} else {
			s.WriteString("    " + dim.Render(line) + "\n")
		}
	}
	if m.err != "" {
		s.WriteString("\n  " + red.Render(m.err) + "\n")
	}
	s.WriteString("\n  " + dim.Render("↑↓:Select  Enter:Edit  S:Start  Esc:Back") + "\n")
	return s.String()
}
