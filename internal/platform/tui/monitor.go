package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wavekit/internal/checkpoint"
	"github.com/vovakirdan/wavekit/internal/config"
	"github.com/vovakirdan/wavekit/internal/core"
	"github.com/vovakirdan/wavekit/internal/sim"
	"github.com/vovakirdan/wavekit/internal/storage"
	"github.com/vovakirdan/wavekit/internal/wave"
)

const (
	maxLogLines = 6
	laneMargin  = 2
)

// MonitorOptions configures optional monitor features.
type MonitorOptions struct {
	Store       *storage.Store    // Finished runs are recorded here when set
	Checkpoints *checkpoint.Store // Enables the checkpoint key when set
	Difficulty  string            // Stored with the run
}

// Model is the Bubble Tea model that runs and draws one simulation.
type Model struct {
	scenario config.Scenario
	sim      *sim.Simulation
	config   core.RuntimeConfig
	opts     MonitorOptions
	canvas   *core.Canvas
	keys     MonitorKeyMap
	help     help.Model
	cooldown progress.Model
	spawn    progress.Model
	log      []string
	flash    string
	runSaved bool
	quitting bool
	back     bool
}

// NewModel creates a monitor for a fresh run of sc.
func NewModel(sc config.Scenario, cfg core.RuntimeConfig, opts MonitorOptions) (Model, error) {
	s, err := sim.New(sc, cfg.Seed)
	if err != nil {
		return Model{}, err
	}
	return NewModelFromSim(s, cfg, opts)
}

// NewModelFromSim creates a monitor for an existing, possibly restored, simulation.
func NewModelFromSim(s *sim.Simulation, cfg core.RuntimeConfig, opts MonitorOptions) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	cfg.Seed = s.Seed()

	m := Model{
		scenario: s.Scenario(),
		sim:      s,
		config:   cfg,
		opts:     opts,
		canvas:   core.NewCanvas(cfg.ScreenW-laneMargin*2, 1),
		keys:     DefaultMonitorKeyMap(),
		help:     help.New(),
		cooldown: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spawn:    progress.New(progress.WithSolidFill("208"), progress.WithoutPercentage()),
	}
	m.resize(cfg.ScreenW, cfg.ScreenH)
	if opts.Checkpoints == nil {
		m.keys.Checkpoint.SetEnabled(false)
	}
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return scheduleTick(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.config.ScreenW = width
	m.config.ScreenH = height
	m.canvas.Resize(max(width-laneMargin*2, 0), 1)
	barWidth := max(width/2-laneMargin*2, 10)
	m.cooldown.Width = barWidth
	m.spawn.Width = barWidth
	m.help.Width = width
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.back = true
		return m, nil
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionPause:
		m.sim.TogglePause()

	case core.ActionRestart:
		m.saveRun()
		m.config.Seed = time.Now().UnixNano()
		s, err := sim.New(m.scenario, m.config.Seed)
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		m.sim = s
		m.log = nil
		m.runSaved = false
		m.flash = fmt.Sprintf("restarted with seed %d", m.config.Seed)

	case core.ActionFaster:
		m.config = m.config.Faster()

	case core.ActionSlower:
		m.config = m.config.Slower()

	case core.ActionCheckpoint:
		if err := m.opts.Checkpoints.Save(m.scenario.ID, m.sim.Snapshot()); err != nil {
			m.flash = err.Error()
		} else {
			m.flash = fmt.Sprintf("checkpoint %q saved", m.scenario.ID)
		}

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleTick advances the simulation by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.back || m.quitting {
		return m, nil
	}

	if !m.sim.Finished() {
		res, err := m.sim.Step(m.config.Delta())
		if err != nil {
			m.flash = err.Error()
		}
		for _, ev := range res.Events {
			m.appendLog(FormatEvent(ev))
		}
	}

	if m.sim.Finished() && !m.runSaved {
		m.saveRun()
		m.appendLog("all waves cleared")
	}

	return m, scheduleTick(m.config.TickRate)
}

func (m *Model) appendLog(line string) {
	if line == "" {
		return
	}
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// saveRun records the current run once, if a store is configured and anything happened.
func (m *Model) saveRun() {
	if m.runSaved || m.opts.Store == nil {
		return
	}
	m.runSaved = true

	st := m.sim.Stats()
	if st.Ticks == 0 {
		return
	}
	//nolint:errcheck // Best-effort save, the monitor keeps running regardless
	m.opts.Store.SaveRun(RunRecord(m.scenario.ID, m.sim.Seed(), m.opts.Difficulty, st))
}

// RunRecord converts simulation stats to a storage record.
func RunRecord(scenario string, seed int64, difficulty string, st sim.Stats) storage.RunRecord {
	return storage.RunRecord{
		Scenario:   scenario,
		Seed:       seed,
		Difficulty: difficulty,
		Duration:   st.Elapsed,
		Waves:      st.Waves,
		Spawned:    st.Spawned,
		Killed:     st.Killed,
		Leaked:     st.Leaked,
		Drops:      st.TotalDrops(),
		Items:      st.Drops,
	}
}

// FormatEvent renders a simulation event as one log line.
func FormatEvent(ev sim.Event) string {
	switch e := ev.(type) {
	case sim.WaveStartedEvent:
		return fmt.Sprintf("wave %d started (%d spawns)", e.Wave, e.Size)
	case sim.WaveEndedEvent:
		if e.Bonus == "" {
			return fmt.Sprintf("wave %d done spawning", e.Wave)
		}
		return fmt.Sprintf("wave %d done spawning, bonus %s", e.Wave, e.Bonus)
	case sim.SpawnedEvent:
		return fmt.Sprintf("%s #%d entered", e.Kind, e.UnitID)
	case sim.UnknownSpawnEvent:
		return fmt.Sprintf("skipped unknown unit %q", e.Kind)
	case sim.KilledEvent:
		if len(e.Drops) == 0 {
			return fmt.Sprintf("%s #%d destroyed", e.Kind, e.UnitID)
		}
		return fmt.Sprintf("%s #%d destroyed, dropped %s", e.Kind, e.UnitID, strings.Join(e.Drops, ", "))
	case sim.LeakedEvent:
		return fmt.Sprintf("%s #%d got through", e.Kind, e.UnitID)
	default:
		return ""
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	flashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Italic(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the monitor.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	st := m.sim.Status()
	stats := m.sim.Stats()
	pad := strings.Repeat(" ", laneMargin)

	var b strings.Builder

	title := m.scenario.Title
	if title == "" {
		title = m.scenario.ID
	}
	b.WriteString(titleStyle.Render(centerText(strings.ToUpper(title), m.config.ScreenW)))
	b.WriteString("\n\n")

	b.WriteString(pad + statusLine(st, m.config.Speed, m.sim.Seed()))
	b.WriteString("\n\n")

	m.canvas.Clear()
	DrawLane(m.canvas, 0, m.sim.Units(), m.scenario.Lane.Length)
	b.WriteString(pad + RenderCanvas(m.canvas))
	b.WriteString("\n\n")

	b.WriteString(pad + labelStyle.Render("next wave  ") + m.cooldown.ViewAs(st.CooldownProgress))
	b.WriteString("\n")
	b.WriteString(pad + labelStyle.Render("next spawn ") + m.spawn.ViewAs(st.SpawnProgress))
	b.WriteString("\n")
	b.WriteString(pad + labelStyle.Render("reload     ") + reloadLine(m.sim.ReloadRemaining()))
	b.WriteString("\n\n")

	b.WriteString(pad + fmt.Sprintf("alive %d  spawned %d  killed %d  leaked %d  drops %d  bonus %d",
		len(m.sim.Units()), stats.Spawned, stats.Killed, stats.Leaked, stats.TotalDrops(), stats.TotalBonus()))
	b.WriteString("\n\n")

	for _, line := range m.log {
		b.WriteString(pad + logStyle.Render(line) + "\n")
	}
	for range maxLogLines - len(m.log) {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(pad + flashStyle.Render(m.flash) + "\n")
	}
	b.WriteString(pad + helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// reloadLine shows the defender's readiness.
func reloadLine(remaining float64) string {
	if remaining <= 0 {
		return "ready"
	}
	return fmt.Sprintf("%.1fs", remaining)
}

// statusLine summarizes the scheduler phase.
func statusLine(st wave.Status, speed float64, seed int64) string {
	line := fmt.Sprintf("%-11s wave %d of %d", st.Phase, st.Wave, st.TotalWaves)
	if st.Phase == wave.PhaseSpawning {
		line += fmt.Sprintf("  %d/%d left", st.SpawnsRemaining, st.WaveSize)
	}
	return line + fmt.Sprintf("  x%g  seed %d", speed, seed)
}

// Simulation returns the simulation being monitored.
func (m Model) Simulation() *sim.Simulation {
	return m.sim
}

// Config returns the current runtime config.
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts the Bubble Tea program for the given model and returns its final state.
// The finished run is recorded on exit if it was not already.
func Run(m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return m, err
	}
	fm, ok := final.(Model)
	if !ok {
		return m, nil
	}
	fm.saveRun()
	return fm, nil
}
