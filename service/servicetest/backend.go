// Package servicetest provides a scriptable service.Backend for tests.
package servicetest

import (
	"context"
	"sync"

	"packsmith/types"
)

// Backend implements service.Backend. Each call is recorded by name; a nil Func field
// makes the call succeed with zero values.
type Backend struct {
	SearchModsFunc             func(ctx context.Context, query, platform string) ([]types.ModSearchResult, error)
	AddModFunc                 func(ctx context.Context, modID, platform string, opts types.AddModOptions) error
	RemoveModFunc              func(ctx context.Context, modID string) error
	CheckModsUpdatesFunc       func(ctx context.Context, modIDs []string) ([]types.ModUpdateInfo, error)
	UpdateModsFunc             func(ctx context.Context, mods []types.ModUpdateInfo) error
	InstallModsFunc            func(ctx context.Context) error
	ChangeModSideFunc          func(ctx context.Context, modID, side string) error
	ChangeModLockedFunc        func(ctx context.Context, modID string, locked bool) error
	ChangeModVersionFunc       func(ctx context.Context, modID, version string) error
	GetModVersionsFunc         func(ctx context.Context, modID string) ([]string, error)
	ImportModsFunc             func(ctx context.Context, dir string) (int, error)
	SelectProjectDirectoryFunc func(ctx context.Context) (string, error)
	OpenProjectFunc            func(ctx context.Context, path string) (*types.ProjectResponse, error)
	InitializeProjectFunc      func(ctx context.Context, path, name, minecraft, loader string) error
	GetLogsFunc                func(ctx context.Context) (string, error)

	mu    sync.Mutex
	calls []string
}

func (b *Backend) record(name string) {
	b.mu.Lock()
	b.calls = append(b.calls, name)
	b.mu.Unlock()
}

// Calls returns the names of the methods invoked so far, in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CallCount returns how many times the named method was invoked.
func (b *Backend) CallCount(name string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (b *Backend) SearchMods(ctx context.Context, query, platform string) ([]types.ModSearchResult, error) {
	b.record("SearchMods")
	if b.SearchModsFunc == nil {
		return nil, nil
	}
	return b.SearchModsFunc(ctx, query, platform)
}

func (b *Backend) AddMod(ctx context.Context, modID, platform string, opts types.AddModOptions) error {
	b.record("AddMod")
	if b.AddModFunc == nil {
		return nil
	}
	return b.AddModFunc(ctx, modID, platform, opts)
}

func (b *Backend) RemoveMod(ctx context.Context, modID string) error {
	b.record("RemoveMod")
	if b.RemoveModFunc == nil {
		return nil
	}
	return b.RemoveModFunc(ctx, modID)
}

func (b *Backend) CheckModsUpdates(ctx context.Context, modIDs []string) ([]types.ModUpdateInfo, error) {
	b.record("CheckModsUpdates")
	if b.CheckModsUpdatesFunc == nil {
		return nil, nil
	}
	return b.CheckModsUpdatesFunc(ctx, modIDs)
}

func (b *Backend) UpdateMods(ctx context.Context, mods []types.ModUpdateInfo) error {
	b.record("UpdateMods")
	if b.UpdateModsFunc == nil {
		return nil
	}
	return b.UpdateModsFunc(ctx, mods)
}

func (b *Backend) InstallMods(ctx context.Context) error {
	b.record("InstallMods")
	if b.InstallModsFunc == nil {
		return nil
	}
	return b.InstallModsFunc(ctx)
}

func (b *Backend) ChangeModSide(ctx context.Context, modID, side string) error {
	b.record("ChangeModSide")
	if b.ChangeModSideFunc == nil {
		return nil
	}
	return b.ChangeModSideFunc(ctx, modID, side)
}

func (b *Backend) ChangeModLocked(ctx context.Context, modID string, locked bool) error {
	b.record("ChangeModLocked")
	if b.ChangeModLockedFunc == nil {
		return nil
	}
	return b.ChangeModLockedFunc(ctx, modID, locked)
}

func (b *Backend) ChangeModVersion(ctx context.Context, modID, version string) error {
	b.record("ChangeModVersion")
	if b.ChangeModVersionFunc == nil {
		return nil
	}
	return b.ChangeModVersionFunc(ctx, modID, version)
}

func (b *Backend) GetModVersions(ctx context.Context, modID string) ([]string, error) {
	b.record("GetModVersions")
	if b.GetModVersionsFunc == nil {
		return nil, nil
	}
	return b.GetModVersionsFunc(ctx, modID)
}

func (b *Backend) ImportMods(ctx context.Context, dir string) (int, error) {
	b.record("ImportMods")
	if b.ImportModsFunc == nil {
		return 0, nil
	}
	return b.ImportModsFunc(ctx, dir)
}

func (b *Backend) SelectProjectDirectory(ctx context.Context) (string, error) {
	b.record("SelectProjectDirectory")
	if b.SelectProjectDirectoryFunc == nil {
		return "", nil
	}
	return b.SelectProjectDirectoryFunc(ctx)
}

func (b *Backend) OpenProject(ctx context.Context, path string) (*types.ProjectResponse, error) {
	b.record("OpenProject")
	if b.OpenProjectFunc == nil {
		return &types.ProjectResponse{}, nil
	}
	return b.OpenProjectFunc(ctx, path)
}

func (b *Backend) InitializeProject(ctx context.Context, path, name, minecraft, loader string) error {
	b.record("InitializeProject")
	if b.InitializeProjectFunc == nil {
		return nil
	}
	return b.InitializeProjectFunc(ctx, path, name, minecraft, loader)
}

func (b *Backend) GetLogs(ctx context.Context) (string, error) {
	b.record("GetLogs")
	if b.GetLogsFunc == nil {
		return "", nil
	}
	return b.GetLogsFunc(ctx)
}

// Projects is an in-memory project registry that makes InitializeProject and
// OpenProject behave like a real backend.
type Projects struct {
	mu       sync.Mutex
	projects map[string]types.ProjectResponse
}

func NewProjects() *Projects {
	return &Projects{projects: map[string]types.ProjectResponse{}}
}

// Put registers a project at path.
func (p *Projects) Put(path string, resp types.ProjectResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projects[path] = resp
}

// Install wires the registry into b.
func (p *Projects) Install(b *Backend, notFound error) {
	b.InitializeProjectFunc = func(_ context.Context, path, name, minecraft, loader string) error {
		p.Put(path, types.ProjectResponse{Name: name, Minecraft: minecraft, Loader: loader, Mods: map[string]types.Mod{}})
		return nil
	}
	b.OpenProjectFunc = func(_ context.Context, path string) (*types.ProjectResponse, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		resp, ok := p.projects[path]
		if !ok {
			return nil, notFound
		}
		return &resp, nil
	}
}
