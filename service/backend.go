package service

import (
	"context"
	"errors"

	"packsmith/types"
)

// ErrEmptyResponse is returned when the backend reports success without a payload.
var ErrEmptyResponse = errors.New("backend returned an empty response")

// Backend is the boundary to the component that touches the filesystem and the mod
// platforms. Every call may fail and may block.
type Backend interface {
	SearchMods(ctx context.Context, query, platform string) ([]types.ModSearchResult, error)
	AddMod(ctx context.Context, modID, platform string, opts types.AddModOptions) error
	RemoveMod(ctx context.Context, modID string) error
	CheckModsUpdates(ctx context.Context, modIDs []string) ([]types.ModUpdateInfo, error)
	UpdateMods(ctx context.Context, mods []types.ModUpdateInfo) error
	InstallMods(ctx context.Context) error
	ChangeModSide(ctx context.Context, modID, side string) error
	ChangeModLocked(ctx context.Context, modID string, locked bool) error
	ChangeModVersion(ctx context.Context, modID, version string) error
	GetModVersions(ctx context.Context, modID string) ([]string, error)
	ImportMods(ctx context.Context, dir string) (int, error)

	SelectProjectDirectory(ctx context.Context) (string, error)
	OpenProject(ctx context.Context, path string) (*types.ProjectResponse, error)
	InitializeProject(ctx context.Context, path, name, minecraft, loader string) error
	GetLogs(ctx context.Context) (string, error)
}
