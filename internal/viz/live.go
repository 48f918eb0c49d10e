// Package viz renders trajectories in the terminal: a live Bubble Tea
// view that follows a run in progress, and static asciigraph plots for
// finished records.
//
// The live view draws the orbit top-down in the equatorial plane on a
// Braille canvas, with the horizon to scale, while a side panel tracks
// proper time, radius and normalization drift.
//
// # Key Bindings
//
//	Space - Pause/Resume the view (the run keeps going)
//	Q     - Quit
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/sim"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

const (
	canvasWidth  = 56
	canvasHeight = 22
	historyCap   = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// RunResult carries the outcome of the background run into the view.
type RunResult struct {
	Status sim.Status
	Err    error
}

// Model follows a record that a Simulator fills concurrently; it never
// steps the physics itself.
type Model struct {
	metric *metric.Schwarzschild
	rec    *trajectory.Record
	it     *trajectory.Iterator
	done   <-chan RunResult

	canvas  *Canvas
	latest  trajectory.Sample
	samples int
	radii   []float64
	scale   float64 // meters (or mass units) per sub-pixel

	paused   bool
	finished bool
	result   RunResult
}

func NewModel(m *metric.Schwarzschild, rec *trajectory.Record, done <-chan RunResult) Model {
	return Model{
		metric: m,
		rec:    rec,
		it:     rec.Iter(),
		done:   done,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		radii:  make([]float64, 0, historyCap),
		scale:  1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			m.drain()
		}
		if !m.finished {
			select {
			case res := <-m.done:
				m.finished = true
				m.result = res
				m.drain()
			default:
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// drain consumes every sample the producer has appended since the last
// frame and plots it.
func (m *Model) drain() {
	for {
		s, ok := m.it.Next()
		if !ok {
			return
		}
		m.latest = s
		m.samples++
		m.radii = append(m.radii, s.State.R())
		if len(m.radii) > historyCap {
			m.radii = m.radii[1:]
		}
		m.plot(s)
	}
}

func (m *Model) plot(s trajectory.Sample) {
	r := s.State.R()
	if need := r / (float64(canvasHeight*4) * 0.45); need > m.scale {
		m.rescale(need)
	}
	x, y, _ := trajectory.CartesianPoint(s)
	cx, cy := canvasWidth, canvasHeight*2 // sub-pixel center
	m.canvas.Set(cx+int(x/m.scale), cy-int(y/m.scale))
	m.drawHorizon()
	m.canvas.Mark(cx, cy, '+')
}

// rescale throws the canvas away and replays the whole record at the
// new scale, so long trajectories keep their history on zoom-out.
func (m *Model) rescale(scale float64) {
	m.scale = scale * 1.2
	m.canvas.Clear()
	replay := m.rec.Iter()
	cx, cy := canvasWidth, canvasHeight*2
	for {
		s, ok := replay.Next()
		if !ok {
			break
		}
		x, y, _ := trajectory.CartesianPoint(s)
		m.canvas.Set(cx+int(x/m.scale), cy-int(y/m.scale))
	}
}

func (m *Model) drawHorizon() {
	rs := m.metric.Rs()
	if rs/m.scale < 1 {
		return
	}
	cx, cy := canvasWidth, canvasHeight*2
	for a := 0.0; a < 2*math.Pi; a += 0.05 {
		m.canvas.Set(cx+int(rs*math.Cos(a)/m.scale), cy-int(rs*math.Sin(a)/m.scale))
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("SCHWARZSCHILD ORBIT") + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	if m.finished {
		status = strings.ToUpper(m.result.Status.String())
		if m.result.Err != nil {
			status += ": " + m.result.Err.Error()
		}
	}
	b.WriteString(status + "\n\n")

	if len(m.radii) > 1 {
		chart := asciigraph.Plot(m.radii,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("r(tau)"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Proper time") + valueStyle.Render(fmt.Sprintf("%.4g", m.latest.Tau)) + "\n")
	b.WriteString(labelStyle.Render("Coord time") + valueStyle.Render(fmt.Sprintf("%.4g", m.latest.T)) + "\n")
	if m.latest.State != nil {
		b.WriteString(labelStyle.Render("Radius") + valueStyle.Render(fmt.Sprintf("%.6g", m.latest.State.R())) + "\n")
		b.WriteString(labelStyle.Render("Azimuth") + valueStyle.Render(fmt.Sprintf("%.4f rad", m.latest.State.Phi())) + "\n")
	}
	driftStr := fmt.Sprintf("%.3g", m.latest.Drift)
	if m.latest.Warning {
		b.WriteString(labelStyle.Render("Drift") + warnStyle.Render(driftStr+" !") + "\n")
	} else {
		b.WriteString(labelStyle.Render("Drift") + valueStyle.Render(driftStr) + "\n")
	}
	b.WriteString(labelStyle.Render("Samples") + valueStyle.Render(fmt.Sprintf("%d", m.samples)) + "\n")
	b.WriteString(labelStyle.Render("Horizon") + valueStyle.Render(fmt.Sprintf("%.4g", m.metric.Rs())) + "\n")
	b.WriteString(helpStyle.Render("\nSP:Pause Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(b.String()))
}
