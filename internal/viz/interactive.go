package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/scenario"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable knob of the config screen.
type param struct {
	name string
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

var params = []param{
	{"target km/h", func(c *config.Config) float64 { return c.Scenario.TargetSpeedKmh }, func(c *config.Config, v float64) { c.Scenario.TargetSpeedKmh = v }},
	{"offset m", func(c *config.Config) float64 { return c.Scenario.Offset.Lateral }, func(c *config.Config, v float64) { c.Scenario.Offset.Lateral = v }},
	{"offset rad", func(c *config.Config) float64 { return c.Scenario.Offset.Heading }, func(c *config.Config, v float64) { c.Scenario.Offset.Heading = v }},
	{"q lateral", func(c *config.Config) float64 { return c.LQR.Q[0] }, func(c *config.Config, v float64) { c.LQR.Q[0] = v }},
	{"q heading", func(c *config.Config) float64 { return c.LQR.Q[2] }, func(c *config.Config, v float64) { c.LQR.Q[2] = v }},
	{"r", func(c *config.Config) float64 { return c.LQR.R }, func(c *config.Config, v float64) { c.LQR.R = v }},
}

// App picks a preset, lets a few values be edited and then runs the live
// view.
type App struct {
	state       int
	cursor      int
	presets     []string
	selected    string
	cfg         *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error
	liveModel   Model
}

func NewInteractiveApp() *App {
	return &App{state: stateMenu, presets: config.ListPresets()}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		if msg.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
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
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, v)
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
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
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
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'f', -1, 64)
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-0.1)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+0.1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m App) start() (App, tea.Cmd) {
	sc, err := scenario.Build(m.cfg.Clone())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.liveModel = NewModel(sc.Simulator(), sc.SimConfig(), m.selected)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m App) View() string {
	switch m.state {
	case stateConfig:
		return m.configView()
	case stateSim:
		return m.liveModel.View()
	default:
		return m.menuView()
	}
}

func (m App) menuView() string {
	var s strings.Builder
	s.WriteString(cyan.Bold(true).Render("TRACKCTL") + dim.Render("  lqr path tracking") + "\n\n")
	for i, name := range m.presets {
		cfg := config.Presets[name]
		line := fmt.Sprintf("%-12s %s, %.0f km/h", name, cfg.Scenario.Path, cfg.Scenario.TargetSpeedKmh)
		if i == m.cursor {
			s.WriteString(magenta.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + white.Render(line) + "\n")
		}
	}
	s.WriteString("\n" + KeyHint.Render("↑↓ select · enter configure · q quit"))
	return s.String()
}

func (m App) configView() string {
	var s strings.Builder
	s.WriteString(cyan.Bold(true).Render(strings.ToUpper(m.selected)) + dim.Render("  path "+m.cfg.Scenario.Path) + "\n\n")
	for i, p := range params {
		val := strconv.FormatFloat(p.get(m.cfg), 'f', 3, 64)
		if i == m.paramCursor && m.editing {
			val = m.editBuf + "▏"
		}
		line := fmt.Sprintf("%-12s %s", p.name, val)
		if i == m.paramCursor {
			s.WriteString(green.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + white.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + yellow.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("↑↓ select · ←→ ±0.1 · enter edit · s start · esc back"))
	return s.String()
}
