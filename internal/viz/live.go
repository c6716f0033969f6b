package viz

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/trajectory"
)

const (
	width           = 72
	height          = 24
	historyCapacity = 6000
	graphWindow     = 120
	maxStepsPerTick = 16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a simulator one or more control ticks per frame and draws
// the course, the driven trail and the vehicle.
type Model struct {
	sim    *sim.Simulator
	cfg    sim.Config
	title  string
	course trajectory.Path

	width, height int
	canvas        *Canvas
	frame         Frame

	samples      []sim.Sample
	playHead     int
	running      bool
	stop         sim.StopReason
	err          error
	stepsPerTick int

	recording bool
	frames    []*image.Paletted
	gifPath   string
	showHelp  bool
}

func NewModel(s *sim.Simulator, cfg sim.Config, title string) Model {
	course := s.Analyzer().Path()
	canvas := NewCanvas(width, height)

	minX, maxX := bounds(course.X)
	minY, maxY := bounds(course.Y)

	return Model{
		sim:          s,
		cfg:          cfg,
		title:        title,
		course:       course,
		width:        width,
		height:       height,
		canvas:       canvas,
		frame:        NewFrame(canvas, minX, maxX, minY, maxY),
		samples:      make([]sim.Sample, 0, 256),
		playHead:     -1,
		running:      true,
		stepsPerTick: 1,
		gifPath:      "tracking.gif",
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-10)
		case "]":
			m.scrub(10)
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "g":
			m.toggleRecording()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance()
			} else {
				m.playHead++
				if m.playHead >= len(m.samples) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to stepsPerTick control ticks until the run stops.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick && m.stop == sim.StopNone; i++ {
		smp, err := m.sim.Step(m.cfg)
		if errors.Is(err, trajectory.ErrPathExhausted) {
			m.stop = sim.StopPathEnd
			return
		}
		if err != nil {
			m.err = err
			m.stop = sim.StopInvalid
			return
		}

		m.samples = append(m.samples, smp)
		if len(m.samples) > historyCapacity {
			m.samples = m.samples[1:]
		}
		m.stop = m.sim.Check(m.cfg, smp)
	}
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.samples) == 0 {
			return
		}
		m.playHead = len(m.samples) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.samples) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.samples = m.samples[:0]
	m.playHead = -1
	m.stop = sim.StopNone
	m.err = nil
	m.running = true
}

// current is the sample on screen: the replay position or the latest one.
func (m Model) current() (sim.Sample, bool) {
	if len(m.samples) == 0 {
		return sim.Sample{}, false
	}
	if m.playHead >= 0 && m.playHead < len(m.samples) {
		return m.samples[m.playHead], true
	}
	return m.samples[len(m.samples)-1], true
}

func (m Model) visible() []sim.Sample {
	if m.playHead >= 0 && m.playHead < len(m.samples) {
		return m.samples[:m.playHead+1]
	}
	return m.samples
}

func (m *Model) draw() {
	m.canvas.Clear()

	// dotted reference
	for i := 0; i < m.course.Len(); i += 4 {
		m.canvas.Plot(m.frame, m.course.X[i], m.course.Y[i])
	}

	trail := m.visible()
	for i := 1; i < len(trail); i++ {
		m.canvas.Line(m.frame, trail[i-1].X, trail[i-1].Y, trail[i].X, trail[i].Y)
	}

	x, y, yaw := m.sim.State().X, m.sim.State().Y, m.sim.State().Yaw
	if cur, ok := m.current(); ok {
		x, y, yaw = cur.X, cur.Y, cur.Yaw
	}
	m.drawVehicle(x, y, yaw)
}

// drawVehicle draws a wheelbase-long arrow at the rear axle pose.
func (m *Model) drawVehicle(x, y, yaw float64) {
	l := m.sim.State().Config().Params.Wheelbase()
	hx, hy := x+l*math.Cos(yaw), y+l*math.Sin(yaw)
	m.canvas.Line(m.frame, x, y, hx, hy)

	for _, side := range []float64{-1, 1} {
		a := yaw + math.Pi + side*0.5
		m.canvas.Line(m.frame, hx, hy, hx+0.4*l*math.Cos(a), hy+0.4*l*math.Sin(a))
	}
}

func (m Model) status() string {
	switch {
	case m.stop != sim.StopNone:
		label := strings.ToUpper(m.stop.String())
		if m.err != nil {
			label += ": " + m.err.Error()
		}
		return StopStyle(m.stop).Render(label)
	case m.playHead != -1:
		last := m.samples[len(m.samples)-1].T
		return StatusPaused.Render(fmt.Sprintf("REPLAY (%.1fs)", m.samples[m.playHead].T-last))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(fmt.Sprintf("RUNNING x%d", m.stepsPerTick))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(CurrentTheme.Track).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status())
	if m.recording {
		s.WriteString("  " + StatusRecording.Render("● REC"))
	}
	s.WriteString("\n\n")

	cur, _ := m.current()
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Foreground(CurrentTheme.Value).Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1f s", cur.T))
	row("Speed", fmt.Sprintf("%.1f km/h", cur.V*3.6))
	row("Steer", fmt.Sprintf("%+.1f°", cur.Steer*180/math.Pi))
	row("Lateral", fmt.Sprintf("%+.3f m", cur.LateralError))
	row("Heading", fmt.Sprintf("%+.2f°", cur.HeadingError*180/math.Pi))
	row("To goal", fmt.Sprintf("%.1f m", cur.DistToGoal))

	progress := 0.0
	if n := m.course.Len(); n > 1 {
		progress = float64(cur.Index) / float64(n-1)
	}
	s.WriteString(MetricLabel.Render("Progress") + ProgressBar(progress, 20) + "\n")

	visible := m.visible()
	window := visible[max(len(visible)-graphWindow, 0):]
	if len(window) > 1 {
		lat := make([]float64, len(window))
		steer := make([]float64, len(window))
		for i, smp := range window {
			lat[i] = smp.LateralError
			steer[i] = smp.Steer
		}
		chart := asciigraph.Plot(lat, asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("lateral error [m]"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Graph).Render(chart) + "\n")
		s.WriteString(MetricLabel.Render("Steer |δ|") + SparklineChart(steer, 30) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(40) + "\nSP:Pause R:Reset Q:Quit\n+/-:Speed [ ]:Replay\nT:Theme G:Record ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart the run          ║
║  Q        - Quit                     ║
║  + / -    - Ticks per frame          ║
║  [ / ]    - Replay back / forward    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Result summarises what the view has driven so far.
func (m Model) Result() (sim.StopReason, []sim.Sample) {
	return m.stop, m.samples
}

func bounds(vals []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(vals) == 0 {
		return 0, 1
	}
	return lo, hi
}
