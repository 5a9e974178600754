// Package backend implements service.Backend in process: project manifests on disk,
// platform search and downloads, update resolution and installation.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"packsmith/config"
	"packsmith/curseforge"
	"packsmith/db"
	"packsmith/logger"
	"packsmith/modrinth"
	"packsmith/packfile"
	"packsmith/service"
	"packsmith/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNoProject is returned by mod operations before a project was opened.
	ErrNoProject           = errors.New("no project is open")
	ErrUnknownPlatform     = errors.New("unknown platform")
	ErrNoCompatibleVersion = errors.New("no compatible version found")
	ErrModNotFound         = errors.New("mod not found in project")
)

var _ service.Backend = (*App)(nil)

// Presence is told about every opened project.
type Presence interface {
	ProjectOpened(name, minecraft, loader string)
}

// App holds the open project directory and the clients used to reach the platforms.
// Manifest changes are serialized by mu.
type App struct {
	cfg        config.Config
	modrinth   *modrinth.Client
	curseforge *curseforge.Client
	downloads  *http.Client
	conn       *gorm.DB
	picker     DirectoryPicker
	logPath    func() string
	presence   Presence

	mu          sync.Mutex
	projectPath string
}

// New builds an App from cfg. A search limit or worker count left at zero gets its default.
// conn may be nil, in which case recent projects and version history are not recorded.
func New(cfg config.Config, conn *gorm.DB, picker DirectoryPicker) (*App, error) {
	config.ApplyLimits(&cfg)
	mr, err := modrinth.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create modrinth client: %w", err)
	}
	cf, err := curseforge.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create curseforge client: %w", err)
	}
	if picker == nil {
		picker = &PresetPicker{}
	}
	return &App{
		cfg:        cfg,
		modrinth:   mr,
		curseforge: cf,
		downloads:  &http.Client{},
		conn:       conn,
		picker:     picker,
		logPath:    logger.FilePath,
	}, nil
}

// SetPresence reports opened projects to p. Call it before the App is shared.
func (a *App) SetPresence(p Presence) {
	a.presence = p
}

// ProjectPath is the directory of the open project, or "" before OpenProject succeeded.
func (a *App) ProjectPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.projectPath
}

// edit loads the open project's manifest, applies fn and saves the result when fn succeeds.
func (a *App) edit(fn func(m *packfile.Manifest) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return m.Save()
}

func (a *App) load() (*packfile.Manifest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadLocked()
}

func (a *App) loadLocked() (*packfile.Manifest, error) {
	if a.projectPath == "" {
		return nil, ErrNoProject
	}
	return packfile.Load(a.projectPath)
}

func lookupMod(m *packfile.Manifest, modID string) (types.Mod, error) {
	mod, ok := m.Mods[modID]
	if !ok {
		return types.Mod{}, fmt.Errorf("%w: %s", ErrModNotFound, modID)
	}
	return mod, nil
}

func (a *App) SelectProjectDirectory(ctx context.Context) (string, error) {
	path, err := a.picker.PickDirectory(ctx)
	if err != nil {
		return "", err
	}
	logger.Log.Infow("Selected project directory", zap.String("path", path))
	return path, nil
}

// OpenProject loads the manifest in path and makes it the open project.
func (a *App) OpenProject(_ context.Context, path string) (*types.ProjectResponse, error) {
	m, err := packfile.Load(path)
	if err != nil {
		logger.Log.Warnw("Error loading project manifest", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	a.mu.Lock()
	a.projectPath = path
	a.mu.Unlock()

	if a.conn != nil {
		if err := db.RecordRecent(a.conn, path, m.Name, m.Minecraft, m.Loader); err != nil {
			logger.Log.Warnw("Failed to record recent project", zap.String("path", path), zap.Error(err))
		}
	}
	if a.presence != nil {
		a.presence.ProjectOpened(m.Name, m.Minecraft, m.Loader)
	}
	logger.Log.Infow("Project opened", zap.String("path", path), zap.Int("mods", len(m.Mods)))
	return m.Response(), nil
}

func (a *App) InitializeProject(_ context.Context, path, name, minecraft, loader string) error {
	if _, err := packfile.Init(path, name, minecraft, loader); err != nil {
		logger.Log.Warnw("Error initializing project", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// GetLogs returns the content of the application log file.
func (a *App) GetLogs(_ context.Context) (string, error) {
	path := a.logPath()
	if path == "" {
		return "", errors.New("file logging is not enabled")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log file: %w", err)
	}
	return string(data), nil
}

// RecentProjects lists recently opened projects, newest first.
func (a *App) RecentProjects(limit int) ([]db.RecentProject, error) {
	if a.conn == nil {
		return nil, nil
	}
	return db.ListRecent(a.conn, limit)
}
