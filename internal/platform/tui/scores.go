package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridhopper/internal/storage"
)

// Scores layout constants
const (
	minWidthForSidebar = 90 // Minimum width to show the map list sidebar
	sidebarWidth       = 18 // Width of the map list sidebar
	defaultRunLimit    = 50 // Runs to load when no limit is given
)

// Viewing modes for the runs table.
const (
	viewRecent = iota // Newest runs first
	viewBest          // Fastest completions first
)

// ScoresKeyMap defines the key bindings for the runs browser.
type ScoresKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextMap key.Binding
	PrevMap key.Binding
	Toggle  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the one-line help view.
func (k ScoresKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMap, k.Toggle, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k ScoresKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMap, k.PrevMap},
		{k.Toggle, k.Quit},
	}
}

// DefaultScoresKeyMap returns the default browser bindings.
func DefaultScoresKeyMap() ScoresKeyMap {
	return ScoresKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMap: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next map"),
		),
		PrevMap: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev map"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "recent/best"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoresModel is the Bubble Tea model for browsing recorded training runs.
type ScoresModel struct {
	store       *storage.Store
	maps        []string // Map filter entries; index 0 is "all maps"
	mapCursor   int
	mode        int // viewRecent or viewBest
	limit       int
	runs        []storage.RunEntry
	table       table.Model
	help        help.Model
	keys        ScoresKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoresModel creates a runs browser backed by the given store.
func NewScoresModel(store *storage.Store, limit, width, height int) ScoresModel {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	maps := []string{"all maps"}
	if store != nil {
		if names, err := store.Maps(); err == nil {
			maps = append(maps, names...)
		}
	}

	h := help.New()
	h.ShowAll = false

	m := ScoresModel{
		store:       store,
		maps:        maps,
		limit:       limit,
		keys:        DefaultScoresKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadRuns()

	return m
}

// createTable creates the runs table with its columns and styles.
func (m *ScoresModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Map", Width: 12},
		{Title: "Gens", Width: 8},
		{Title: "Wins", Width: 6},
		{Title: "Best", Width: 6},
		{Title: "Reward", Width: 10},
		{Title: "Date", Width: 13},
	}

	height := m.height - 8 // Leave room for title, help and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return t
}

// selectedMap returns the map filter for queries; empty means every map.
func (m *ScoresModel) selectedMap() string {
	if m.mapCursor == 0 {
		return ""
	}
	return m.maps[m.mapCursor]
}

// loadRuns queries the store for the current filter and mode.
func (m *ScoresModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		var (
			runs []storage.RunEntry
			err  error
		)
		if m.mode == viewBest {
			runs, err = m.store.BestRuns(m.selectedMap(), m.limit)
		} else {
			runs, err = m.store.RecentRuns(m.limit)
			if name := m.selectedMap(); name != "" {
				filtered := runs[:0]
				for _, r := range runs {
					if r.Map == name {
						filtered = append(filtered, r)
					}
				}
				runs = filtered
			}
		}
		if err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows rebuilds the table from the loaded runs.
func (m *ScoresModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		label := fmt.Sprintf("%d", r.ID)
		if m.mode == viewBest {
			label = fmt.Sprintf("#%d", i+1)
		}

		best := "-"
		if r.BestSteps > 0 {
			best = fmt.Sprintf("%d", r.BestSteps)
		}

		rows[i] = table.Row{
			label,
			r.Map,
			fmt.Sprintf("%d", r.Generations),
			fmt.Sprintf("%d", r.Wins),
			best,
			fmt.Sprintf("%.1f", r.TotalReward),
			r.StartedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the runs browser.
func (m ScoresModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m ScoresModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMap):
			m.mapCursor = (m.mapCursor + 1) % len(m.maps)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevMap):
			m.mapCursor--
			if m.mapCursor < 0 {
				m.mapCursor = len(m.maps) - 1
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if m.mode == viewRecent {
				m.mode = viewBest
			} else {
				m.mode = viewRecent
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.showSidebar = m.width >= minWidthForSidebar

		// The table height depends on the window, so rebuild it
		m.table = m.createTable()
		m.updateTableRows()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runs browser.
func (m ScoresModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	mode := "RECENT"
	if m.mode == viewBest {
		mode = "BEST"
	}
	title := fmt.Sprintf("TRAINING RUNS - %s - %s", mode, m.maps[m.mapCursor])
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpTextStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the browser with a map list sidebar.
func (m ScoresModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Maps\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, name := range m.maps {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.mapCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the browser with the map filter above the table.
func (m ScoresModel) renderNarrowLayout() string {
	var b strings.Builder

	filter := fmt.Sprintf("< %s >", m.maps[m.mapCursor])
	b.WriteString(centerText(filter, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or an empty-state message.
func (m ScoresModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No training runs recorded yet.\nStart one with: gridhopper train")
	}

	return m.table.View()
}

// RunScores starts the runs browser and blocks until the user quits.
func RunScores(store *storage.Store, limit, width, height int) error {
	p := tea.NewProgram(
		NewScoresModel(store, limit, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
