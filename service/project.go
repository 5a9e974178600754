package service

import (
	"context"

	"packsmith/types"
)

// Projects forwards project lifecycle calls to the backend.
type Projects struct {
	backend Backend
}

func NewProjects(backend Backend) *Projects {
	return &Projects{backend: backend}
}

// SelectProjectDirectory asks the user for a directory. An empty path means the user
// cancelled.
func (s *Projects) SelectProjectDirectory(ctx context.Context) (string, error) {
	return s.backend.SelectProjectDirectory(ctx)
}

func (s *Projects) GetLogs(ctx context.Context) (string, error) {
	return s.backend.GetLogs(ctx)
}

// OpenProject loads the project at path. The loader reported by the backend is trusted as is.
func (s *Projects) OpenProject(ctx context.Context, path string) (types.ProjectConfig, error) {
	resp, err := s.backend.OpenProject(ctx, path)
	if err != nil {
		return types.ProjectConfig{}, err
	}
	if resp == nil {
		return types.ProjectConfig{}, ErrEmptyResponse
	}

	mods := resp.Mods
	if mods == nil {
		mods = map[string]types.Mod{}
	}
	return types.ProjectConfig{
		Name:      resp.Name,
		Minecraft: resp.Minecraft,
		Loader:    types.Loader(resp.Loader),
		Mods:      mods,
	}, nil
}

func (s *Projects) InitializeProject(ctx context.Context, path, name, minecraft string, loader types.Loader) error {
	return s.backend.InitializeProject(ctx, path, name, minecraft, string(loader))
}
