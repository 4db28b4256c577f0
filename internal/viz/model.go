package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	canvasCols      = 60
	canvasRows      = 24
	historyCapacity = 300
	trailCapacity   = 80
	maxStepsPerTick = 1 << 16
)

// Source is a running simulation the view can step and inspect.
type Source interface {
	Advance(n int) error
	Positions() [][]float64
	Time() float64
	Steps() int
	Energy() float64
	Dimensions() int
	Reset()
}

type TickMsg time.Time

type dot struct{ x, y int }

// Model is a bubbletea model animating a Source on a braille canvas.
type Model struct {
	src          Source
	name         string
	canvas       *Canvas
	proj         *Projector
	trails       [][]dot
	energy       []float64
	drift        []float64
	e0           float64
	stepsPerTick int
	running      bool
	err          error
}

func NewModel(src Source, name string, stepsPerTick int) Model {
	c := NewCanvas(canvasCols, canvasRows)
	w, h := c.Size()
	m := Model{
		src:          src,
		name:         name,
		canvas:       c,
		proj:         Fit(src.Positions(), w, h),
		stepsPerTick: max(1, stepsPerTick),
		running:      true,
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.src.Reset()
			m.reset()
		case "+", "=":
			m.proj.ZoomIn()
		case "-", "_":
			m.proj.ZoomOut()
		case "]":
			m.stepsPerTick = min(maxStepsPerTick, m.stepsPerTick*2)
		case "[":
			m.stepsPerTick = max(1, m.stepsPerTick/2)
		case "up":
			m.proj.Rotate(0.1, 0)
		case "down":
			m.proj.Rotate(-0.1, 0)
		case "left":
			m.proj.Rotate(0, -0.1)
		case "right":
			m.proj.Rotate(0, 0.1)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the source and records history. A failing step pauses the
// view on the last good state.
func (m *Model) step() {
	if err := m.src.Advance(m.stepsPerTick); err != nil {
		m.err = err
		m.running = false
	}
	m.record()
}

func (m *Model) reset() {
	m.err = nil
	m.energy = m.energy[:0]
	m.drift = m.drift[:0]
	m.trails = make([][]dot, len(m.src.Positions()))
	m.e0 = m.src.Energy()
	m.record()
}

func (m *Model) record() {
	e := m.src.Energy()
	m.energy = appendCapped(m.energy, e, historyCapacity)
	d := 0.0
	if m.e0 != 0 {
		d = math.Abs(e-m.e0) / math.Abs(m.e0)
	}
	m.drift = appendCapped(m.drift, d, historyCapacity)

	w, h := m.canvas.Size()
	for i, p := range m.src.Positions() {
		if x, y, ok := m.proj.Project(p, w, h); ok {
			m.trails[i] = appendCapped(m.trails[i], dot{x, y}, trailCapacity)
		}
	}
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[len(s)-capacity:]
	}
	return s
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Size()
	for _, trail := range m.trails {
		for _, d := range trail {
			m.canvas.Set(d.x, d.y)
		}
	}
	for _, p := range m.src.Positions() {
		if x, y, ok := m.proj.Project(p, w, h); ok {
			m.canvas.Blob(x, y, 1)
		}
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(statusFailed.Render("FAILED") + "\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.6g", m.src.Time()))
	row("Steps", fmt.Sprintf("%d (x%d/tick)", m.src.Steps(), m.stepsPerTick))
	row("Bodies", fmt.Sprintf("%d in %dD", len(m.trails), m.src.Dimensions()))
	row("Energy", fmt.Sprintf("%.6g", m.src.Energy()))
	row("Drift", Sparkline(m.drift, 24))
	row("Zoom", fmt.Sprintf("%.2fx", m.proj.Zoom))

	if m.err != nil {
		s.WriteString("\n" + statusFailed.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SPC:Pause R:Reset Q:Quit\n+/-:Zoom [ ]:Speed Arrows:Rotate"))

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
