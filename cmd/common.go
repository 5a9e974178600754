package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"packsmith/backend"
	"packsmith/config"
	"packsmith/db"
	"packsmith/logger"
	"packsmith/presence"
	"packsmith/service"
	"packsmith/store"
	"packsmith/types"
	"packsmith/ui"

	"go.uber.org/zap"
)

var (
	errNoProject     = errors.New("could not open a packsmith project in this directory")
	errSearchFailed  = errors.New("search failed, see the log for details")
	errModNotInIndex = errors.New("mod not found on platform")
)

// session wires the stores to a backend for the lifetime of one command.
type session struct {
	cfg      config.Config
	app      *backend.App // nil when running against a different backend
	mods     *service.Mods
	projects *service.Projects
	search   *store.SearchStore
	project  *store.ProjectStore
	ui       *store.UIStore
	notices  *noticeLog

	choose func(path string)
	stop   func()
}

func newSession(cfg config.Config, b service.Backend, choose func(string)) *session {
	mods := service.NewMods(b)
	projects := service.NewProjects(b)
	notices := &noticeLog{}

	s := &session{
		cfg:      cfg,
		mods:     mods,
		projects: projects,
		search:   store.NewSearchStore(mods, notices),
		project:  store.NewProjectStore(projects),
		ui:       store.NewUIStore(projects),
		notices:  notices,
		choose:   choose,
	}
	s.search.SetPlatform(types.Platform(cfg.DefaultPlatform))
	s.stop = store.Coordinate(s.project, s.ui)
	return s
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) *session {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	if err := db.InitDatabase(cfg.DatabasePath); err != nil {
		logger.Log.Fatalw("Failed to initialize database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	picker := &backend.PresetPicker{}
	app, err := backend.New(cfg, db.DB, picker)
	if err != nil {
		logger.Log.Fatalw("Failed to create backend", zap.Error(err))
	}

	s := newSession(cfg, app, picker.Set)
	s.app = app
	if cfg.DiscordRPC {
		startPresence(s)
	}
	return s
}

// startPresence shows the session in Discord. A missing Discord client is only logged.
func startPresence(s *session) {
	d := presence.NewDiscord(s.cfg.DiscordAppID)
	if err := d.Start(); err != nil {
		logger.Log.Warnw("Discord RPC unavailable", zap.Error(err))
		return
	}
	s.app.SetPresence(d)

	stop := s.stop
	s.stop = func() {
		stop()
		d.Close()
	}
}

// startSession is replaced in tests.
var startSession = func() *session {
	return bootstrap(".")
}

// open opens the project in dir through the project store. A directory without a
// manifest is reported as errNoProject wrapping the underlying open error.
func (s *session) open(ctx context.Context, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}

	var openErr error
	unsubscribe := s.project.Subscribe(func(e store.Event) {
		if e.Kind == store.EventOpenFailed {
			openErr = e.Err
		}
	})
	defer unsubscribe()

	s.choose(abs)
	if err := s.project.SelectAndOpenProject(ctx); err != nil {
		return err
	}
	if openErr != nil {
		logger.Log.Infow("Project could not be opened", zap.String("path", abs), zap.Error(openErr))
		return fmt.Errorf("%w: %w", errNoProject, openErr)
	}
	return nil
}

// refresh reloads the project after a change so the printed state is current.
func (s *session) refresh(ctx context.Context) {
	s.project.RefreshProject(ctx)
}

func (s *session) close() {
	if s.stop != nil {
		s.stop()
	}
}

// onChange calls fn after any store changes.
func (s *session) onChange(fn func()) func() {
	unsubs := []func(){
		s.search.OnChange(fn),
		s.project.OnChange(fn),
		s.ui.OnChange(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// findResult searches platform for modID and returns the hit with that exact id.
func (s *session) findResult(ctx context.Context, modID string, platform types.Platform) (types.ModSearchResult, error) {
	s.search.SetPlatform(platform)
	failures := s.notices.count()
	s.search.Search(ctx, modID)
	if s.notices.count() > failures {
		return types.ModSearchResult{}, errSearchFailed
	}
	for _, r := range s.search.Results.Get() {
		if r.ID == modID {
			return r, nil
		}
	}
	return types.ModSearchResult{}, fmt.Errorf("%s on %s: %w", modID, platform, errModNotInIndex)
}

// noticeLog is the store notifier for the command line: it logs every message and keeps
// them so the commands can tell the user.
type noticeLog struct {
	mu       sync.Mutex
	messages []string
}

func (n *noticeLog) Error(title, description string) {
	logger.Log.Errorw(title, zap.String("description", description))
	n.mu.Lock()
	n.messages = append(n.messages, title+": "+description)
	n.mu.Unlock()
}

func (n *noticeLog) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *noticeLog) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func parsePlatform(value string) (types.Platform, error) {
	p := types.Platform(strings.ToLower(value))
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q, expected one of %v", value, types.Platforms)
	}
	return p, nil
}

func parseSide(value string) (types.Side, error) {
	side := types.Side(strings.ToLower(value))
	if !side.Valid() {
		return "", fmt.Errorf("unknown side %q, expected one of %v", value, types.Sides)
	}
	return side, nil
}

func parseLoader(value string) (types.Loader, error) {
	loader := types.Loader(strings.ToLower(value))
	if !loader.Valid() {
		return "", fmt.Errorf("unknown loader %q, expected one of %v", value, types.Loaders)
	}
	return loader, nil
}

// sortedModIDs returns the ids of mods in a stable display order.
func sortedModIDs(mods map[string]types.Mod) []string {
	ids := make([]string, 0, len(mods))
	for id := range mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func printProject(w io.Writer, p types.Project) {
	fmt.Fprintln(w, ui.Header.Render(fmt.Sprintf("%s  (Minecraft %s, %s)", p.Name, p.Minecraft, p.Loader)))
	if len(p.Mods) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("No mods yet. Add one with 'packsmith add'."))
		return
	}
	for _, id := range sortedModIDs(p.Mods) {
		printMod(w, id, p.Mods[id])
	}
}

func printMod(w io.Writer, id string, mod types.Mod) {
	fmt.Fprintf(w, "  %-32s %-24s %s %s\n",
		ui.Truncate(id, 32),
		ui.Truncate(mod.Version, 24),
		ui.SideBadge(mod.Side),
		ui.Locked(mod.Locked),
	)
}
