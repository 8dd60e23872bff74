package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/core"
	"github.com/vovakirdan/gridhopper/internal/game"
)

// maxWatchSpeed caps the fast-forward factor.
const maxWatchSpeed = 64

// WatchModel is the Bubble Tea model for watching an agent play. The agent
// picks an action every tick with its loaded exploration rate; finished
// episodes hold a banner for a second and reset.
type WatchModel struct {
	game   *game.Game
	agent  *agent.Agent
	screen *core.Screen
	cfg    config.PlayConfig
	keys   WatchKeyMap
	help   help.Model

	speed         int // Simulation ticks per frame
	paused        bool
	episodes      int
	wins          int
	lastAction    game.Action
	episodeReward float64
	lastReward    float64
	doneTicks     int // Frames left on the terminal banner

	width    int
	height   int
	quitting bool
	err      error
}

// NewWatchModel creates a watch model around an initialized game and agent.
func NewWatchModel(g *game.Game, a *agent.Agent, cfg config.PlayConfig) WatchModel {
	m := g.Map()
	return WatchModel{
		game:   g,
		agent:  a,
		screen: core.NewScreen(m.Width(), m.Height()),
		cfg:    cfg,
		keys:   DefaultWatchKeyMap(),
		help:   help.New(),
		speed:  1,
	}
}

// Init starts the simulation tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and advances the replay.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			if m.speed < maxWatchSpeed {
				m.speed *= 2
			}
		case key.Matches(msg, m.keys.Slower):
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleTick advances the simulation by the current speed factor.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if m.paused {
		return m, tickCmd(m.cfg.TickRate)
	}

	if m.doneTicks > 0 {
		m.doneTicks--
		if m.doneTicks == 0 {
			m.game.Reset()
			m.episodeReward = 0
		}
		return m, tickCmd(m.cfg.TickRate)
	}

	for i := 0; i < m.speed; i++ {
		if err := m.stepOnce(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.doneTicks > 0 {
			break
		}
	}
	return m, tickCmd(m.cfg.TickRate)
}

// stepOnce lets the agent choose and play one action.
func (m *WatchModel) stepOnce() error {
	obs := m.game.Observe()
	action := game.Action(m.agent.ChooseAction(agent.StateKey(obs.Key())))

	res, err := m.game.Step(action)
	if err != nil {
		return err
	}
	m.lastAction = action
	m.episodeReward += res.Reward

	if res.Done {
		m.episodes++
		if m.game.Completed() {
			m.wins++
		}
		m.lastReward = m.episodeReward
		m.doneTicks = m.cfg.TickRate // Hold the banner for about a second
	}
	return nil
}

// View renders the playfield with training statistics.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	playfield := renderPlayfield(m.screen, m.cfg.Colors)

	title := titleStyle.Render(fmt.Sprintf("GRIDHOPPER - watching %s", m.cfg.Map))
	episodeLine := hudStyle.Render(fmt.Sprintf("episode %d   wins %d   steps %d   reward %.1f",
		m.episodes+1, m.wins, m.game.Steps(), m.episodeReward))
	agentLine := hudStyle.Render(fmt.Sprintf("action %s   epsilon %.3f   states %d   speed %dx",
		m.lastAction, m.agent.Epsilon(), m.agent.States(), m.speed))

	parts := []string{title, playfield, episodeLine, agentLine}
	if overlay := m.overlayLine(); overlay != "" {
		parts = append(parts, overlayStyle.Render(overlay))
	}
	parts = append(parts, helpTextStyle.Render(m.help.View(m.keys)))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// overlayLine returns the banner for paused and terminal states.
func (m WatchModel) overlayLine() string {
	if m.paused {
		return "PAUSED - space to resume"
	}
	if m.doneTicks > 0 {
		switch {
		case m.game.Completed():
			return fmt.Sprintf("GOAL REACHED in %d steps", m.game.Steps())
		case m.game.GameOver():
			return "AGENT DIED"
		default:
			return "NO PROGRESS, EPISODE CUT"
		}
	}
	return ""
}

// Err returns the error that stopped the replay, if any.
func (m WatchModel) Err() error {
	return m.err
}

// RunWatch starts the watch TUI and blocks until the user quits.
func RunWatch(g *game.Game, a *agent.Agent, cfg config.PlayConfig) error {
	p := tea.NewProgram(
		NewWatchModel(g, a, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(WatchModel); ok {
		return m.Err()
	}
	return nil
}
