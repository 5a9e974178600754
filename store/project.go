package store

import (
	"context"
	"sync"

	"packsmith/logger"
	"packsmith/service"
	"packsmith/types"

	"go.uber.org/zap"
)

// EventKind identifies a project lifecycle event.
type EventKind int

const (
	// EventOpenFailed is emitted when opening or refreshing a project fails.
	EventOpenFailed EventKind = iota + 1
	// EventProjectCreated is emitted after a new project was initialized and opened.
	EventProjectCreated
)

func (k EventKind) String() string {
	switch k {
	case EventOpenFailed:
		return "project-open-failed"
	case EventProjectCreated:
		return "project-created"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
	Path string
	Err  error
}

// ProjectStore holds the single active project.
type ProjectStore struct {
	Current *Observable[types.Project]

	projects *service.Projects

	mu       sync.Mutex
	nextID   int
	handlers map[int]func(Event)
}

func NewProjectStore(projects *service.Projects) *ProjectStore {
	return &ProjectStore{
		Current:  NewObservable(types.EmptyProject()),
		projects: projects,
		handlers: map[int]func(Event){},
	}
}

func (s *ProjectStore) HasProject() bool {
	return s.Current.Get().Name != ""
}

func (s *ProjectStore) HasMods() bool {
	return s.Current.Get().Mods != nil
}

// Subscribe registers fn for lifecycle events. Handlers run synchronously inside the
// operation that emits the event.
func (s *ProjectStore) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.handlers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *ProjectStore) emit(e Event) {
	s.mu.Lock()
	// ids only grow, so walking them keeps subscription order
	handlers := make([]func(Event), 0, len(s.handlers))
	for id := 1; id <= s.nextID; id++ {
		if fn, ok := s.handlers[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// SelectAndOpenProject asks for a directory and opens it. Cancelling the picker is a
// no-op. The chosen path is recorded before opening so a failed open still shows which
// directory was tried; a failed open emits EventOpenFailed instead of returning an error.
func (s *ProjectStore) SelectAndOpenProject(ctx context.Context) error {
	path, err := s.projects.SelectProjectDirectory(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	s.Current.Update(func(p types.Project) types.Project {
		p.Path = path
		return p
	})

	s.open(ctx, path)
	return nil
}

// CreateProject initializes a project in the current directory and opens it.
// Failures are returned to the caller.
func (s *ProjectStore) CreateProject(ctx context.Context, name, minecraft string, loader types.Loader) error {
	path := s.Current.Get().Path
	if err := s.projects.InitializeProject(ctx, path, name, minecraft, loader); err != nil {
		return err
	}
	cfg, err := s.projects.OpenProject(ctx, path)
	if err != nil {
		return err
	}
	s.Current.Set(types.NewProject(path, cfg))
	logger.Log.Infow("Project created", zap.String("path", path), zap.String("name", name))
	s.emit(Event{Kind: EventProjectCreated, Path: path})
	return nil
}

// RefreshProject reloads the current project. It does nothing without a project path.
func (s *ProjectStore) RefreshProject(ctx context.Context) {
	path := s.Current.Get().Path
	if path == "" {
		return
	}
	s.open(ctx, path)
}

func (s *ProjectStore) open(ctx context.Context, path string) {
	cfg, err := s.projects.OpenProject(ctx, path)
	if err != nil {
		logger.Log.Warnw("Failed to open project", zap.String("path", path), zap.Error(err))
		s.emit(Event{Kind: EventOpenFailed, Path: path, Err: err})
		return
	}
	s.Current.Set(types.NewProject(path, cfg))
}

func (s *ProjectStore) OnChange(fn func()) func() {
	return watch(s.Current, fn)
}
