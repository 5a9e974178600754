package backend

import (
	"context"

	"packsmith/db"
	"packsmith/logger"
	"packsmith/packfile"
	"packsmith/types"

	"go.uber.org/zap"
)

// AddMod downloads modID into the cache and records it in the manifest. Without a version
// the newest compatible one is used.
func (a *App) AddMod(ctx context.Context, modID, platform string, opts types.AddModOptions) error {
	return a.edit(func(m *packfile.Manifest) error {
		p := types.Platform(platform)
		version := opts.Version
		if version == "" {
			latest, err := a.latestVersion(ctx, m, modID, p)
			if err != nil {
				return err
			}
			version = latest
		}

		url, err := a.downloadURL(ctx, m, modID, p, version)
		if err != nil {
			return err
		}
		filename, err := a.download(ctx, m.Dir(), url, version)
		if err != nil {
			return err
		}

		m.Mods[modID] = types.Mod{
			Source:   opts.URL,
			Side:     string(opts.Side),
			Version:  version,
			URL:      url,
			Filename: filename,
		}
		logger.Log.Infow("Mod added", zap.String("mod", modID), zap.String("version", version), zap.String("side", string(opts.Side)))
		return nil
	})
}

// RemoveMod deletes the cached file of modID and drops it from the manifest.
func (a *App) RemoveMod(_ context.Context, modID string) error {
	return a.edit(func(m *packfile.Manifest) error {
		mod, err := lookupMod(m, modID)
		if err != nil {
			return err
		}
		if err := removeCached(m.Dir(), mod.Filename); err != nil {
			return err
		}
		delete(m.Mods, modID)
		logger.Log.Infow("Mod removed", zap.String("mod", modID))
		return nil
	})
}

func (a *App) ChangeModSide(_ context.Context, modID, side string) error {
	return a.edit(func(m *packfile.Manifest) error {
		mod, err := lookupMod(m, modID)
		if err != nil {
			return err
		}
		mod.Side = side
		m.Mods[modID] = mod
		return nil
	})
}

// ChangeModLocked sets whether update checks skip modID.
func (a *App) ChangeModLocked(_ context.Context, modID string, locked bool) error {
	return a.edit(func(m *packfile.Manifest) error {
		mod, err := lookupMod(m, modID)
		if err != nil {
			return err
		}
		mod.Locked = locked
		m.Mods[modID] = mod
		return nil
	})
}

// GetModVersions lists the versions of modID that fit the project.
func (a *App) GetModVersions(ctx context.Context, modID string) ([]string, error) {
	m, err := a.load()
	if err != nil {
		return nil, err
	}
	mod, err := lookupMod(m, modID)
	if err != nil {
		return nil, err
	}
	return a.versions(ctx, m, modID, a.platformOf(mod.Source))
}

// ChangeModVersion downloads version of modID and makes it the recorded one. The replaced
// version goes to the history so it can be rolled back.
func (a *App) ChangeModVersion(ctx context.Context, modID, version string) error {
	return a.edit(func(m *packfile.Manifest) error {
		mod, err := lookupMod(m, modID)
		if err != nil {
			return err
		}

		url, err := a.downloadURL(ctx, m, modID, a.platformOf(mod.Source), version)
		if err != nil {
			return err
		}
		filename, err := a.download(ctx, m.Dir(), url, version)
		if err != nil {
			return err
		}

		a.recordHistory(m.Dir(), modID, mod)
		if filename != mod.Filename {
			if err := removeCached(m.Dir(), mod.Filename); err != nil {
				logger.Log.Warnw("Failed to remove old cache file", zap.String("mod", modID), zap.Error(err))
			}
		}

		mod.Version = version
		mod.URL = url
		mod.Filename = filename
		m.Mods[modID] = mod
		logger.Log.Infow("Mod version changed", zap.String("mod", modID), zap.String("version", version))
		return nil
	})
}

// recordHistory stores the state of mod before it is replaced.
func (a *App) recordHistory(projectPath, modID string, mod types.Mod) {
	if a.conn == nil || mod.Version == "" {
		return
	}
	err := db.RecordVersion(a.conn, &db.ModVersion{
		ProjectPath: projectPath,
		ModID:       modID,
		Version:     mod.Version,
		URL:         mod.URL,
		Filename:    mod.Filename,
		Source:      mod.Source,
	})
	if err != nil {
		logger.Log.Warnw("Failed to save mod version history to database", zap.String("mod", modID), zap.Error(err))
	}
}
