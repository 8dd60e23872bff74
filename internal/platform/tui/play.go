package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/core"
	"github.com/vovakirdan/gridhopper/internal/game"
)

// PlayModel is the Bubble Tea model for a human-controlled session.
// One key press feeds exactly one simulation tick; holding a movement key
// keeps the player running through terminal auto-repeat.
type PlayModel struct {
	game       *game.Game
	screen     *core.Screen
	cfg        config.PlayConfig
	keys       PlayKeyMap
	help       help.Model
	pending    game.Action // Consumed by the next tick, then cleared
	totalCoins int
	paused     bool
	width      int
	height     int
	quitting   bool
}

// NewPlayModel creates a play model around an initialized game.
func NewPlayModel(g *game.Game, cfg config.PlayConfig) PlayModel {
	m := g.Map()
	return PlayModel{
		game:       g,
		screen:     core.NewScreen(m.Width(), m.Height()),
		cfg:        cfg,
		keys:       DefaultPlayKeyMap(),
		help:       help.New(),
		totalCoins: m.CoinCount(),
	}
}

// Init starts the simulation tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and advances the session.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused && !m.game.Done() {
			m.game.Update(m.pending)
		}
		m.pending = game.ActionIdle
		return m, tickCmd(m.cfg.TickRate)
	}

	return m, nil
}

// handleKey maps key presses to the pending action or a session command.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Restart):
		m.game.Reset()
		m.pending = game.ActionIdle
		m.paused = false

	case key.Matches(msg, m.keys.Left):
		m.pending = game.ActionLeft

	case key.Matches(msg, m.keys.Right):
		m.pending = game.ActionRight

	case key.Matches(msg, m.keys.Jump):
		m.pending = game.ActionJump
	}

	return m, nil
}

// View renders the playfield with a HUD line and help bar.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	playfield := renderPlayfield(m.screen, m.cfg.Colors)

	title := titleStyle.Render(fmt.Sprintf("GRIDHOPPER - %s", m.cfg.Map))
	hud := hudStyle.Render(m.hudLine())

	parts := []string{title, playfield, hud}
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

// hudLine formats the status line under the playfield.
func (m PlayModel) hudLine() string {
	line := fmt.Sprintf("steps %d   coins %d/%d   time %s",
		m.game.Steps(), m.game.Coins(), m.totalCoins, m.game.FormattedTime())
	if best, ok := m.game.BestSteps(); ok {
		line += fmt.Sprintf("   best %d", best)
	}
	return line
}

// overlayLine returns the banner for paused and terminal states.
func (m PlayModel) overlayLine() string {
	switch {
	case m.game.Completed():
		return "LEVEL COMPLETE - r to restart"
	case m.game.GameOver():
		return "GAME OVER - r to restart"
	case m.paused:
		return "PAUSED - p to resume"
	}
	return ""
}

// RunPlay starts the play TUI and blocks until the user quits.
func RunPlay(g *game.Game, cfg config.PlayConfig) error {
	p := tea.NewProgram(
		NewPlayModel(g, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
