// Package tui implements a live ASCII viewer for a running simulation: a
// bubbletea Tick loop, a lipgloss stat panel, and asciigraph history
// charts for the engine's scalar thermodynamic observables. Because the
// engine is single-threaded and cooperative, the tick handler itself
// drives Engine.Step between frames rather than reading from a background
// goroutine.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdsim/internal/engine"
	"github.com/san-kum/mdsim/internal/observables"
)

const (
	historyCapacity = 300
	stepsPerTick    = 1
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2).Width(50)
)

// TickMsg drives the frame loop.
type TickMsg time.Time

// Model owns the engine and the chart history derived from its callbacks.
type Model struct {
	eng     *engine.Engine
	cfg     engine.SimConfig
	running bool

	tempHist, presHist, energyHist []float64
	last                           *observables.Sample
	err                            error
}

// NewModel builds a Model around an already-Built engine; StartRun is
// invoked when the TUI starts ticking. The latest sample is stored behind a
// pointer so bubbletea's copy-on-Update value semantics don't detach the
// OnSample closure from later Model copies.
func NewModel(eng *engine.Engine) Model {
	cfg := eng.Config()
	last := &observables.Sample{}
	eng.OnSample(func(s observables.Sample) {
		*last = s
	})
	return Model{eng: eng, cfg: cfg, running: true, last: last}
}

func (m Model) Init() tea.Cmd {
	if err := m.eng.StartRun(); err != nil {
		return tea.Quit
	}
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
			_ = m.eng.StopRun()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.eng.State() == engine.Running {
			for i := 0; i < stepsPerTick; i++ {
				if err := m.eng.Step(); err != nil {
					m.err = err
					m.running = false
					break
				}
				if m.eng.State() != engine.Running {
					break
				}
			}
			m.pushHistory()
		}
		if m.eng.State() != engine.Running {
			return m, tick()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) pushHistory() {
	m.tempHist = pushCapped(m.tempHist, m.last.Temperature)
	m.presHist = pushCapped(m.presHist, m.last.Pressure)
	m.energyHist = pushCapped(m.energyHist, m.last.TotalE)
}

func pushCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[len(hist)-historyCapacity:]
	}
	return hist
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s  %s  N=%d", m.cfg.Species, m.cfg.Ensemble, m.cfg.AtomCount)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.eng.State() != engine.Running {
		status = "STOPPED"
	}
	s.WriteString(valueStyle.Render(status) + "\n\n")

	if len(m.tempHist) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.tempHist, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("Temperature (K)"))) + "\n")
	}
	if len(m.presHist) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.presHist, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("Pressure (atm)"))) + "\n")
	}
	if len(m.energyHist) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.energyHist, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("Total energy"))) + "\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d / %d", m.eng.StepCounter(), m.cfg.NSteps)) + "\n")
	s.WriteString(labelStyle.Render("T inst") + valueStyle.Render(fmt.Sprintf("%.1f K", m.last.Temperature)) + "\n")
	s.WriteString(labelStyle.Render("P inst") + valueStyle.Render(fmt.Sprintf("%.3f atm", m.last.Pressure)) + "\n")
	s.WriteString(labelStyle.Render("Avg T") + valueStyle.Render(fmt.Sprintf("%.1f K", m.eng.AverageTemperature())) + "\n")
	s.WriteString(labelStyle.Render("Avg P") + valueStyle.Render(fmt.Sprintf("%.3f atm", m.eng.AveragePressure())) + "\n")
	s.WriteString(labelStyle.Render("KE target") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.TargetKineticEnergy())) + "\n")
	if m.err != nil {
		s.WriteString(valueStyle.Render("error: "+m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("space: pause/resume   q: quit"))

	return panelStyle.Render(s.String())
}
