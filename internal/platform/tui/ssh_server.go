package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/level"
	"github.com/vovakirdan/gridhopper/internal/storage"
)

// SSHServerConfig holds the listener and per-session settings.
type SSHServerConfig struct {
	// Address is the host:port to listen on, e.g. ":23234".
	Address string

	// HostKeyPath points at the server's host key. Empty means a key is
	// generated at ~/.gridhopper/host_key on first start.
	HostKeyPath string

	// DBPath is the path to the runs database. Empty leaves the runs
	// browser without data.
	DBPath string

	// Play describes the map, tick rate and game tuning each session gets.
	Play config.PlayConfig

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns the settings serve uses when no flags are given.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gridhopper/gridhopper.db",
		Play:        config.DefaultPlayConfig(),
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the watch and runs-browser TUIs over SSH via Wish.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer opens the runs database and host key and builds the Wish
// server. A missing or broken database degrades the runs browser instead of
// failing the server.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridhopper-ssh",
	})

	var store *storage.Store
	if cfg.DBPath != "" {
		var err error
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
			store = nil
		}
	}

	keyPath := cfg.HostKeyPath
	if keyPath == "" {
		keyPath = "~/.gridhopper/host_key"
	}
	keyPath, err := config.ExpandHome(keyPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds the per-connection Bubble Tea model.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sess.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	model := NewSessionModel(s.store, s.config.Play, sess.User(), s.logger)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs the session lifecycle with connection duration.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		user, remote := sess.User(), sess.RemoteAddr().String()
		s.logger.Info("session started", "user", user, "remote", remote)
		start := time.Now()
		next(sess)
		s.logger.Info("session ended", "user", user, "remote", remote,
			"duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe runs the server until a shutdown signal or a listener
// error. Listener errors (a busy port, an unreadable host key) are
// returned rather than waiting for an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "map", s.config.Play.Map)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Shutdown()
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown closes the runs database and stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("closing runs database", "error", err)
		}
	}
	return s.server.Shutdown(ctx)
}

// Session states for the SSH flow.
const (
	sessionChoosing = iota // Start screen
	sessionWatching        // WatchModel active
	sessionBrowsing        // ScoresModel active
)

// SessionModel manages one SSH session: a start screen that hands off to
// the watch view or the runs browser and returns when they quit.
type SessionModel struct {
	store  *storage.Store
	cfg    config.PlayConfig
	user   string
	logger *log.Logger

	state  int
	watch  WatchModel
	scores ScoresModel

	width    int
	height   int
	lastErr  string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg config.PlayConfig, user string, logger *log.Logger) SessionModel {
	return SessionModel{
		store:  store,
		cfg:    cfg,
		user:   user,
		logger: logger,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.state {
	case sessionWatching:
		return m.updateWatch(msg)
	case sessionBrowsing:
		return m.updateScores(msg)
	default:
		return m.updateChooser(msg)
	}
}

// updateChooser handles the start screen.
func (m SessionModel) updateChooser(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "w", "enter":
		watch, err := m.buildWatch()
		if err != nil {
			m.lastErr = err.Error()
			m.logger.Warn("cannot start watch session", "user", m.user, "error", err)
			return m, nil
		}
		m.watch = watch
		m.state = sessionWatching
		m.lastErr = ""
		return m, m.watch.Init()

	case "s":
		m.scores = NewScoresModel(m.store, 0, m.width, m.height)
		m.state = sessionBrowsing
		m.lastErr = ""
		return m, m.scores.Init()
	}

	return m, nil
}

// buildWatch assembles a fresh game and agent for a watch session.
func (m SessionModel) buildWatch() (WatchModel, error) {
	tmap, err := level.Resolve(m.cfg.Map)
	if err != nil {
		return WatchModel{}, err
	}
	g := game.New(tmap, m.cfg.Game)

	a := agent.New(agent.DefaultConfig(), nil)
	if m.cfg.QTable != "" {
		path, pathErr := config.ExpandHome(m.cfg.QTable)
		if pathErr != nil {
			return WatchModel{}, pathErr
		}
		if loadErr := a.Load(path); loadErr != nil {
			if !errors.Is(loadErr, fs.ErrNotExist) {
				return WatchModel{}, loadErr
			}
			m.logger.Warn("no saved policy, agent starts untrained", "path", path)
		}
	}

	watch := NewWatchModel(g, a, m.cfg)
	watch.width = m.width
	watch.height = m.height
	return watch, nil
}

// updateWatch forwards messages to the watch view until it quits.
func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.watch.Update(msg)
	if watch, ok := next.(WatchModel); ok {
		m.watch = watch
	}

	if m.watch.quitting || m.watch.err != nil {
		if m.watch.err != nil {
			m.logger.Warn("watch session stopped", "user", m.user, "error", m.watch.err)
		}
		m.state = sessionChoosing
		return m, nil // Swallow the child's quit command
	}
	return m, cmd
}

// updateScores forwards messages to the runs browser until it quits.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoresModel); ok {
		m.scores = scores
	}

	if m.scores.quitting {
		m.state = sessionChoosing
		return m, nil
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionWatching:
		return m.watch.View()
	case sessionBrowsing:
		return m.scores.View()
	}

	lines := []string{
		titleStyle.Render("GRIDHOPPER"),
		"",
		hudStyle.Render(fmt.Sprintf("map: %s", m.cfg.Map)),
		"",
		"[w] watch the agent play",
		"[s] browse training runs",
		"[q] disconnect",
	}
	if m.lastErr != "" {
		lines = append(lines, "", helpTextStyle.Render(m.lastErr))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
