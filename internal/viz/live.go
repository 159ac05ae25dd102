package viz

import (
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tablesim/internal/config"
	"github.com/san-kum/tablesim/internal/palette"
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/render"
	"github.com/san-kum/tablesim/internal/table"
)

const (
	canvasCols      = 100
	canvasRows      = 25
	canvasTop       = 1 // header line above the canvas
	historyCapacity = 200
	gifScale        = 0.5
)

var dragColor = table.MustParseColor("#FFFFFF")

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the running table in the terminal.
type Model struct {
	name    string
	table   table.Table
	reg     *table.Registry
	stepper *physics.Stepper
	ctrl    *pointer.Controller
	panel   *palette.Panel
	pass    render.Pass
	canvas  *Canvas

	theme  Theme
	styles styles

	running   bool
	ticks     int
	total     physics.Stats
	keHistory []float64

	hexBuf  string
	lastErr string

	recording bool
	frames    []*image.Paletted
	gifPath   string
}

// NewModel builds a model for cfg; name labels the header.
func NewModel(cfg *config.Config, name string) (Model, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return Model{}, err
	}
	t := cfg.TableSpec()
	panel := palette.New(reg)
	m := Model{
		name:      name,
		table:     t,
		reg:       reg,
		stepper:   cfg.Stepper(),
		ctrl:      pointer.New(reg, panel, cfg.Input.ImpulseScale),
		panel:     panel,
		pass:      render.NewPass(t),
		canvas:    NewCanvas(t, canvasCols, canvasRows),
		theme:     Themes[0],
		styles:    newStyles(Themes[0]),
		running:   true,
		keHistory: make([]float64, 0, historyCapacity),
		gifPath:   "tablesim.gif",
	}
	m.draw()
	return m, nil
}

// Run starts the terminal UI and blocks until the user quits.
func Run(cfg *config.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.panel.IsOpen() && m.panelKey(msg) {
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// panelKey handles keys aimed at the color panel and reports whether the
// key was consumed.
func (m *Model) panelKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		m.blur()
		return true
	case tea.KeyLeft:
		m.setErr(m.panel.Cycle(-1))
		return true
	case tea.KeyRight:
		m.setErr(m.panel.Cycle(1))
		return true
	case tea.KeyBackspace:
		if len(m.hexBuf) > 0 {
			m.hexBuf = m.hexBuf[:len(m.hexBuf)-1]
		}
		return true
	case tea.KeyEnter:
		if m.hexBuf == "" {
			return true
		}
		s := m.hexBuf
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		err := m.panel.SetHex(s)
		m.setErr(err)
		if err == nil {
			m.hexBuf = ""
		}
		return true
	case tea.KeyRunes:
		s := string(msg.Runes)
		if len(s) != 1 || !isHexRune(s[0]) || len(m.hexBuf) >= 7 {
			return false
		}
		m.hexBuf += s
		return true
	}
	return false
}

func isHexRune(c byte) bool {
	return c == '#' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (m *Model) mouse(msg tea.MouseMsg) {
	p, ok := m.canvas.CellToTable(msg.X, msg.Y-canvasTop)

	switch msg.Action {
	case tea.MouseActionRelease:
		m.ctrl.Release()
	case tea.MouseActionMotion:
		if ok {
			if err := m.ctrl.Move(p.X, p.Y); err != nil {
				m.setErr(err)
			}
		}
	case tea.MouseActionPress:
		if !ok {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.blur()
			m.ctrl.Press(pointer.Primary, p.X, p.Y)
		case tea.MouseButtonRight:
			if m.ctrl.Press(pointer.Secondary, p.X, p.Y) {
				m.hexBuf = ""
				m.lastErr = ""
			} else {
				m.blur()
			}
		}
	}
}

func (m *Model) blur() {
	m.panel.Blur()
	m.hexBuf = ""
	m.lastErr = ""
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.lastErr = ""
}

func (m *Model) step() {
	st := m.stepper.Step(m.reg)
	m.ticks++
	m.total.Collisions += st.Collisions
	m.total.Bounces += st.Bounces
	if st.MaxImpact > m.total.MaxImpact {
		m.total.MaxImpact = st.MaxImpact
	}
	if st.MaxBounce > m.total.MaxBounce {
		m.total.MaxBounce = st.MaxBounce
	}

	m.keHistory = append(m.keHistory, physics.KineticEnergy(m.reg.Snapshot()))
	if len(m.keHistory) > historyCapacity {
		m.keHistory = m.keHistory[1:]
	}
}

func (m *Model) reset() {
	m.reg.Reset()
	m.ctrl.Reset()
	m.blur()
	m.ticks = 0
	m.total = physics.Stats{}
	m.keHistory = m.keHistory[:0]
	m.draw()
}

func (m *Model) draw() {
	m.pass.DrawRegistry(m.canvas, m.reg)
	if _, ok := m.ctrl.Selected(); ok {
		m.canvas.DrawLine(m.ctrl.Anchor(), m.ctrl.Pointer(), dragColor)
	}
}

func (m *Model) captureFrame() {
	w, h := int(m.table.Width*gifScale), int(m.table.Height*gifScale)
	s := render.NewImageSurface(m.table, w, h)
	m.pass.DrawRegistry(s, m.reg)
	m.frames = append(m.frames, s.Paletted())
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	defer f.Close()
	if err := render.EncodeGIF(f, m.frames, 2); err != nil {
		m.lastErr = err.Error()
	}
}

func (m Model) View() string {
	left := m.styles.header.UnsetMarginBottom().Render(strings.ToUpper("tablesim "+m.name)) + "\n" + m.canvas.String()

	st := m.styles
	var s strings.Builder

	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + st.record.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	if len(m.keHistory) > 1 {
		chart := asciigraph.Plot(m.keHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	balls := m.reg.Snapshot()
	maxSpeed := physics.MaxSpeed(balls)
	s.WriteString(st.label.Render("Tick") + st.value.Render(fmt.Sprintf("%d", m.ticks)) + "\n")
	s.WriteString(st.label.Render("Collisions") + st.value.Render(fmt.Sprintf("%d", m.total.Collisions)) + "\n")
	s.WriteString(st.label.Render("Bounces") + st.value.Render(fmt.Sprintf("%d", m.total.Bounces)) + "\n")
	s.WriteString(st.label.Render("Pointer") + st.value.Render(m.ctrl.Mode().String()) + "\n\n")

	for i, b := range balls {
		line := fmt.Sprintf("%d %s %s", i, swatch(b.Color, false), SpeedBar(b.Speed(), maxSpeed, 10))
		if j, ok := m.ctrl.Hovered(); ok && j == i {
			s.WriteString(st.selected.Render(">") + line + "\n")
		} else {
			s.WriteString(" " + line + "\n")
		}
	}

	s.WriteString("\n" + m.panelView())
	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record\nRight-click a ball to recolor"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, st.side.Render(s.String()))
}

func (m Model) panelView() string {
	i, open := m.panel.Target()
	if !open {
		return ""
	}
	st := m.styles
	var s strings.Builder
	s.WriteString(st.selected.Render(fmt.Sprintf("BALL %d  %s", i, m.panel.Value())) + "\n")

	current := m.panel.SwatchIndex()
	for j, c := range palette.Swatches {
		s.WriteString(swatch(c, j == current))
	}
	s.WriteString("\n")
	s.WriteString(st.label.Render("Hex") + st.value.Render(m.hexBuf+"_") + "\n")
	if m.lastErr != "" {
		s.WriteString(st.errText.Render(m.lastErr) + "\n")
	}
	s.WriteString(st.help.UnsetMarginTop().Render("←→:Swatch Enter:Apply Esc:Close") + "\n")
	return s.String()
}
