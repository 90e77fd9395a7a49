// Package tui runs the world in a bubbletea program and draws it top-down.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/viz"
)

const (
	DefaultFPS        = 30
	DefaultFadeFrames = 12
	maxSpeed          = 16
	historyLen        = 120
)

type Options struct {
	FPS        int
	FadeFrames int // viewer-side explosion lifetime in frames
	Theme      viz.Theme
	Width      int
	Height     int
}

type tickMsg time.Time

type Model struct {
	world *sim.World
	dt    float64
	opts  Options

	frame      sim.Frame
	fades      map[effects.EventID]int
	energy     []float64
	completed  int
	speed      int
	paused     bool
	showTrails bool
	width      int
	height     int
	extent     float64
}

func NewModel(w *sim.World, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.FadeFrames <= 0 {
		opts.FadeFrames = DefaultFadeFrames
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeSolar
	}
	cfg := w.Config()
	return Model{
		world:      w,
		dt:         cfg.Dt,
		opts:       opts,
		frame:      w.Snapshot(),
		fades:      make(map[effects.EventID]int),
		speed:      1,
		showTrails: true,
		width:      max(opts.Width, 20),
		height:     max(opts.Height, 10),
		extent:     cfg.Constants.EntryRadius() * 1.05,
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 20)
		m.height = max(msg.Height-7, 10)
		return m, nil
	case tickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "t":
		m.showTrails = !m.showTrails
	case "c":
		m.opts.Theme = viz.NextTheme(m.opts.Theme)
	}
	return m, nil
}

// step advances the world and the viewer's own explosion fades. A fade
// that runs out completes the event in the world; events the world expired
// first are dropped. Nothing moves while paused.
func (m *Model) step() {
	if m.paused {
		return
	}
	for i := 0; i < m.speed; i++ {
		m.world.Tick(m.dt)
	}
	m.frame = m.world.Snapshot()

	live := make(map[effects.EventID]bool, len(m.frame.Explosions))
	kept := m.frame.Explosions[:0]
	for _, e := range m.frame.Explosions {
		m.fades[e.ID]++
		if m.fades[e.ID] >= m.opts.FadeFrames {
			if m.world.CompleteExplosion(e.ID) {
				m.completed++
			}
			delete(m.fades, e.ID)
			continue
		}
		live[e.ID] = true
		kept = append(kept, e)
	}
	m.frame.Explosions = kept
	for id := range m.fades {
		if !live[id] {
			delete(m.fades, id)
		}
	}

	m.energy = append(m.energy, metrics.TotalKinetic(m.frame.Bodies))
	if len(m.energy) > historyLen {
		m.energy = m.energy[len(m.energy)-historyLen:]
	}
}

func (m Model) progress(e effects.Explosion) float64 {
	return float64(m.fades[e.ID]) / float64(m.opts.FadeFrames)
}

func (m Model) View() string {
	scene := viz.Render(m.frame, viz.Options{
		Width:    m.width,
		Height:   m.height,
		Extent:   m.extent,
		Trails:   m.showTrails,
		Progress: m.progress,
	})

	status := viz.StatusRunning.Render("RUNNING")
	if m.paused {
		status = viz.StatusPaused.Render("PAUSED")
	}

	var b strings.Builder
	b.WriteString(viz.Title.Render("orrery") + "  " + status + "\n")
	b.WriteString(viz.Frame.Render(strings.TrimSuffix(scene.String(m.opts.Theme), "\n")) + "\n")

	metric := func(label, value string) string {
		return viz.MetricLabel.Render(label+" ") + viz.MetricValue.Render(value)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		metric("t", fmt.Sprintf("%.2fs", m.frame.Time)), "  ",
		metric("bodies", fmt.Sprint(len(m.frame.Bodies))), "  ",
		metric("explosions", fmt.Sprint(len(m.frame.Explosions))), "  ",
		metric("speed", fmt.Sprintf("x%d", m.speed)), "  ",
		metric("theme", m.opts.Theme.Name),
	) + "\n")
	b.WriteString(viz.MetricLabel.Render("energy ") + viz.Sparkline(m.energy, min(m.width-8, historyLen)) + "\n")
	b.WriteString(viz.KeyHint.Render("space pause  +/- speed  t trails  c theme  q quit"))

	return b.String()
}

// Run blocks until the viewer quits.
func Run(w *sim.World, opts Options) error {
	_, err := tea.NewProgram(NewModel(w, opts), tea.WithAltScreen()).Run()
	return err
}
