package service

import (
	"context"

	"packsmith/types"
)

// Mods forwards mod operations to the backend. Errors are returned as the backend
// produced them.
type Mods struct {
	backend Backend
}

func NewMods(backend Backend) *Mods {
	return &Mods{backend: backend}
}

// SearchMods never returns a nil slice on success.
func (s *Mods) SearchMods(ctx context.Context, query string, platform types.Platform) ([]types.ModSearchResult, error) {
	results, err := s.backend.SearchMods(ctx, query, string(platform))
	if err != nil {
		return nil, err
	}
	if results == nil {
		return []types.ModSearchResult{}, nil
	}
	return results, nil
}

func (s *Mods) AddMod(ctx context.Context, modID string, platform types.Platform, opts types.AddModOptions) error {
	return s.backend.AddMod(ctx, modID, string(platform), opts)
}

func (s *Mods) RemoveMod(ctx context.Context, modID string) error {
	return s.backend.RemoveMod(ctx, modID)
}

func (s *Mods) CheckModsUpdates(ctx context.Context, modIDs []string) ([]types.ModUpdateInfo, error) {
	updates, err := s.backend.CheckModsUpdates(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	if updates == nil {
		return []types.ModUpdateInfo{}, nil
	}
	return updates, nil
}

func (s *Mods) UpdateMods(ctx context.Context, mods []types.ModUpdateInfo) error {
	return s.backend.UpdateMods(ctx, mods)
}

func (s *Mods) InstallMods(ctx context.Context) error {
	return s.backend.InstallMods(ctx)
}

func (s *Mods) ChangeModSide(ctx context.Context, modID string, side types.Side) error {
	return s.backend.ChangeModSide(ctx, modID, string(side))
}

func (s *Mods) ChangeModLocked(ctx context.Context, modID string, locked bool) error {
	return s.backend.ChangeModLocked(ctx, modID, locked)
}

func (s *Mods) GetModVersions(ctx context.Context, modID string) ([]string, error) {
	versions, err := s.backend.GetModVersions(ctx, modID)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		return []string{}, nil
	}
	return versions, nil
}

func (s *Mods) ChangeModVersion(ctx context.Context, modID, version string) error {
	return s.backend.ChangeModVersion(ctx, modID, version)
}

// ImportMods adds the jars found in dir to the open project and reports how many were added.
func (s *Mods) ImportMods(ctx context.Context, dir string) (int, error) {
	return s.backend.ImportMods(ctx, dir)
}
