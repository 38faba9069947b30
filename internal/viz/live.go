// Package viz renders a running simulation in the terminal: a scrolling
// trajectory chart for one selected variable next to the current readings
// of the whole collection.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/limnetics/limnosim/internal/sim"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(22)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives one simulation tick per frame and buffers trajectories for
// the chart.
type Model struct {
	sim *sim.Simulation

	t   time.Time
	end time.Time
	dt  float64
	fps int

	order     []string
	histories map[string][]float64
	selected  int

	running bool
	done    bool
	err     error
	width   int
}

func NewModel(s *sim.Simulation, days, dt float64, fps int) Model {
	start := s.StartTime()
	return Model{
		sim:       s,
		t:         start,
		end:       start.Add(time.Duration(days * float64(24) * float64(time.Hour))),
		dt:        dt,
		fps:       fps,
		order:     s.VariableNames(),
		histories: make(map[string][]float64),
		running:   true,
		width:     100,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab", "right":
			if len(m.order) > 0 {
				m.selected = (m.selected + 1) % len(m.order)
			}
		case "left":
			if len(m.order) > 0 {
				m.selected = (m.selected + len(m.order) - 1) % len(m.order)
			}
		}
		return m, nil
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			next, err := m.sim.Step(m.t, m.dt)
			if err != nil {
				m.err = err
				return m, m.tick()
			}
			m.t = next
			for _, sv := range m.sim.Vars {
				h := append(m.histories[sv.Name()], sv.Value())
				if len(h) > historyCapacity {
					h = h[len(h)-historyCapacity:]
				}
				m.histories[sv.Name()] = h
			}
			if !m.t.Before(m.end) {
				m.done = true
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("limnosim live  %s", m.t.Format("2006-01-02")))

	graphWidth := m.width - 48
	if graphWidth < 30 {
		graphWidth = 30
	}
	graph := "waiting for data..."
	if len(m.order) > 0 {
		name := m.order[m.selected]
		if h := m.histories[name]; len(h) > 1 {
			graph = asciigraph.Plot(h,
				asciigraph.Height(14),
				asciigraph.Width(graphWidth),
				asciigraph.Caption(name),
			)
		}
	}

	var stats strings.Builder
	stats.WriteString(labelStyle.Render("volume (m^3)"))
	stats.WriteString(valueStyle.Render(fmt.Sprintf("%.2f", m.sim.Env.Volume)))
	stats.WriteString("\n")
	for i, name := range m.order {
		style := labelStyle
		if i == m.selected {
			style = selectedStyle
		}
		stats.WriteString(style.Render(name))
		stats.WriteString(valueStyle.Render(fmt.Sprintf("%.4g", m.sim.Vars[i].Value())))
		stats.WriteString("\n")
	}
	if m.err != nil {
		stats.WriteString("\n")
		stats.WriteString(errorStyle.Render(m.err.Error()))
	} else if m.done {
		stats.WriteString("\nrun complete")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(graph),
		statsStyle.Render(stats.String()),
	)
	help := helpStyle.Render("space pause · tab/arrows select variable · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

// Run starts the live view and blocks until the user quits.
func Run(s *sim.Simulation, days, dt float64, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	p := tea.NewProgram(NewModel(s, days, dt, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
