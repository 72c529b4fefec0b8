package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/metrics"
	"github.com/san-kum/arena/internal/physics"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 300
	tickRate        = time.Second / 60

	// MaxFrameDt caps the step taken for a single tick.
	MaxFrameDt = 0.1
)

type TickMsg time.Time

// Model holds the bodies being stepped and everything the view needs.
type Model struct {
	pipe          *physics.Pipeline
	initial       dynamo.Bodies
	bodies        dynamo.Bodies
	t             float64
	last          time.Time
	running       bool
	title         string
	theme         int
	canvas        *Canvas
	energyHistory []float64
}

// NewModel takes a copy of bodies; reset returns to that copy.
func NewModel(pipe *physics.Pipeline, bodies dynamo.Bodies, title string) Model {
	return Model{
		pipe:          pipe,
		initial:       bodies.Clone(),
		bodies:        bodies.Clone(),
		running:       true,
		title:         title,
		canvas:        NewCanvas(width, height),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

// WithTheme selects a theme by name.
func (m Model) WithTheme(name string) Model {
	m.theme = ThemeIndex(name)
	return m
}

func (m Model) Bodies() dynamo.Bodies { return m.bodies }

func (m Model) Time() float64 { return m.t }

func (m Model) Running() bool { return m.running }

func (m Model) Theme() Theme { return Themes[m.theme] }

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and advances the simulation on each tick.
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
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running && !m.last.IsZero() {
			m.Advance(now.Sub(m.last).Seconds())
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

// Advance steps the bodies by dt seconds, clamped to MaxFrameDt.
func (m *Model) Advance(dt float64) {
	if !physics.ValidDt(dt) {
		return
	}
	if dt > MaxFrameDt {
		dt = MaxFrameDt
	}
	m.pipe.Step(m.bodies, dt)
	m.t += dt

	m.energyHistory = append(m.energyHistory,
		metrics.TotalEnergy(m.bodies, m.pipe.Gravity.G, m.pipe.Arena.HalfSide()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	m.bodies = m.initial.Clone()
	m.t = 0
	m.energyHistory = m.energyHistory[:0]
	m.pipe.ResetCounters()
}

// project maps arena coordinates to canvas dots with y pointing up.
func (m *Model) project(x, y float64) (int, int) {
	scale := m.scale()
	half := m.pipe.Arena.HalfSide()
	return int((x + half) * scale), int((half - y) * scale)
}

func (m *Model) scale() float64 {
	cw, ch := m.canvas.Dots()
	side := cw
	if ch < side {
		side = ch
	}
	if m.pipe.Arena.Side <= 0 {
		return 1
	}
	return float64(side-1) / m.pipe.Arena.Side
}

func (m *Model) draw() {
	m.canvas.Clear()
	half := m.pipe.Arena.HalfSide()
	x0, y0 := m.project(-half, half)
	x1, y1 := m.project(half, -half)
	m.canvas.DrawRect(x0, y0, x1, y1)

	scale := m.scale()
	for _, b := range m.bodies {
		cx, cy := m.project(b.Position[0], b.Position[1])
		m.canvas.DrawCircle(cx, cy, int(b.Radius()*scale+0.5))
	}
}

// View renders the arena next to the stats panel.
func (m Model) View() string {
	th := m.Theme()
	m.draw()
	canvasView := canvasStyle.Foreground(th.Primary).Render(m.canvas.String())

	label := labelStyle.Foreground(th.Muted)
	value := lipgloss.NewStyle().Foreground(th.Text)
	row := func(name, v string) string {
		return label.Render(name) + value.Render(v) + "\n"
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render(strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Running).Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Paused).Render("PAUSED") + "\n\n")
	}

	energy := metrics.TotalEnergy(m.bodies, m.pipe.Gravity.G, m.pipe.Arena.HalfSide())
	p := m.bodies.Momentum()
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.t)))
	s.WriteString(row("Bodies", fmt.Sprintf("%d", len(m.bodies))))
	s.WriteString(row("Energy", fmt.Sprintf("%.1f", energy)))
	s.WriteString(value.Render(Sparkline(m.energyHistory, 30)) + "\n")
	s.WriteString(row("Momentum", fmt.Sprintf("(%.1f, %.1f)", p[0], p[1])))
	s.WriteString(row("Collisions", fmt.Sprintf("%d", m.pipe.Collisions.Resolved)))
	s.WriteString(row("Reflections", fmt.Sprintf("%d", m.pipe.Walls.Reflections)))
	s.WriteString(row("Theme", th.Name))
	s.WriteString(helpStyle.Foreground(th.Muted).Render("SP:Pause R:Reset T:Theme Q:Quit"))

	statsView := statsStyle.BorderForeground(th.Border).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
