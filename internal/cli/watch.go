package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

var (
	watchFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	watchLabelStyle = lipgloss.NewStyle().Foreground(colorGray)
	watchHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	watchCols        = 80
	watchRows        = 24
	watchChrome      = 5 // title, status, help and the frame border
	maxStepsPerFrame = 64
)

type watchTickMsg time.Time

// watchModel is the bubbletea model that steps a simulation and draws it
// as braille.
type watchModel struct {
	g      *graph.Store
	cfg    *config.Config
	sim    *force.Simulator
	run    *force.Run
	fg     *viz.ForceGraph
	canvas *canvas.Braille
	logger *log.Logger

	radius   float64
	scatters uint64
	steps    int
	force    float64
	paused   bool
	err      error
}

func newWatchModel(g *graph.Store, cfg *config.Config, radius float64, logger *log.Logger) (*watchModel, error) {
	cfg.WithLabels = false
	m := &watchModel{
		g:      g,
		cfg:    cfg,
		sim:    force.New(cfg.ForceParams(), force.WithLogger(logger)),
		logger: logger,
		radius: radius,
		steps:  1,
	}
	if err := m.resize(watchCols, watchRows); err != nil {
		return nil, err
	}
	m.run = m.sim.Begin(g)
	return m, nil
}

// resize rebuilds the braille surface so that the configured canvas fits
// into cols×rows terminal cells.
func (m *watchModel) resize(cols, rows int) error {
	cols = max(cols-2, 10)
	rows = max(rows-watchChrome, 5)
	scale := max(float64(m.cfg.Width)/float64(cols*2), float64(m.cfg.Height)/float64(rows*4))
	surface := canvas.NewBraille(cols, rows, scale)
	fg, err := viz.New(m.g, surface, m.cfg, viz.WithLogger(m.logger))
	if err != nil {
		return err
	}
	m.canvas, m.fg = surface, fg
	return m.fg.Plot()
}

// restart scatters the nodes again and begins a new run.
func (m *watchModel) restart() {
	m.scatters++
	pipeline.Scatter(m.g, pipeline.ScatterRandom, m.radius, m.cfg.Physics.Seed+m.scatters)
	m.run = m.sim.Begin(m.g)
	m.force = 0
}

func (m *watchModel) tick() tea.Cmd {
	fps := max(m.cfg.FPS, 1)
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.restart()
		case "+", "=":
			m.steps = min(m.steps*2, maxStepsPerFrame)
		case "-", "_":
			m.steps = max(m.steps/2, 1)
		}
	case tea.WindowSizeMsg:
		if err := m.resize(msg.Width, msg.Height); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case watchTickMsg:
		if !m.paused && !m.run.Done() {
			for i := 0; i < m.steps && !m.run.Done(); i++ {
				m.force = m.run.Step()
			}
			force.Commit(m.g, m.run.Positions())
			if err := m.fg.Plot(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("forcegraph watch"))
	b.WriteString("\n")
	b.WriteString(watchFrameStyle.Render(strings.TrimSuffix(m.canvas.Frame(), "\n")))
	b.WriteString("\n")

	state := "running"
	switch {
	case m.run.Done() && m.run.Result().Converged:
		state = StyleSuccess.Render("converged")
	case m.run.Done():
		state = StyleWarning.Render("iteration cap")
	case m.paused:
		state = StyleWarning.Render("paused")
	}
	b.WriteString(watchLabelStyle.Render(fmt.Sprintf("iteration %d · force %.1f · %d steps/frame · ", m.run.Iterations(), m.force, m.steps)))
	b.WriteString(state)
	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render("space pause  r rescatter  +/- speed  q quit"))
	return b.String()
}

// watchCommand creates the watch command for the live terminal view.
func (c *CLI) watchCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Watch the simulation settle in the terminal",
		Long: `Watch the force simulation run live in the terminal.

The graph is drawn with braille characters and advanced a few iterations per
frame until it converges or reaches the iteration cap. Press r to scatter the
nodes again and restart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}
	flags.bind(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	pipeline.Scatter(g, opts.Scatter, opts.Radius, opts.Config.Physics.Seed)

	// The alternate screen owns the terminal; simulator logs would tear it.
	m, err := newWatchModel(g, opts.Config, opts.Radius, log.New(io.Discard))
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(*watchModel); ok && wm.err != nil {
		return wm.err
	}
	res := m.run.Result()
	printInfo("Stopped after %d iterations (converged: %t)", res.Iterations, res.Converged)
	return nil
}
