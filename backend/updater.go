package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"packsmith/logger"
	"packsmith/packfile"
	"packsmith/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CheckModsUpdates reports which of modIDs have a newer compatible version. An empty list
// checks every mod of the project. Mods that are missing, locked or have no source are
// skipped, as are mods whose lookup fails.
func (a *App) CheckModsUpdates(ctx context.Context, modIDs []string) ([]types.ModUpdateInfo, error) {
	m, err := a.load()
	if err != nil {
		return nil, err
	}
	if len(modIDs) == 0 {
		for id := range m.Mods {
			modIDs = append(modIDs, id)
		}
		slices.Sort(modIDs)
	}

	found := make([]*types.ModUpdateInfo, len(modIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, modID := range modIDs {
		mod, ok := m.Mods[modID]
		if !ok || mod.Source == "" || mod.Locked {
			logger.Log.Infow("Skipping mod (not found, no source, or locked)", zap.String("mod", modID))
			continue
		}

		g.Go(func() error {
			log := logger.Log.With(zap.String("mod", modID))
			platform := a.platformOf(mod.Source)

			latest, err := a.latestVersion(gctx, m, modID, platform)
			if err != nil {
				log.Warnw("Failed to check for updates", zap.Error(err))
				return nil
			}
			if latest == mod.Version {
				log.Debugw("Mod is up to date", zap.String("version", latest))
				return nil
			}

			url, err := a.downloadURL(gctx, m, modID, platform, latest)
			if err != nil {
				log.Warnw("Failed to resolve update download", zap.String("version", latest), zap.Error(err))
				return nil
			}
			log.Infow("Update available", zap.String("from", mod.Version), zap.String("to", latest))
			found[i] = &types.ModUpdateInfo{ModID: modID, Version: latest, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updates := make([]types.ModUpdateInfo, 0, len(found))
	for _, u := range found {
		if u != nil {
			updates = append(updates, *u)
		}
	}
	return updates, nil
}

// UpdateMods downloads every update and records the new versions. Updates that fail leave
// their mod untouched; the others are saved and the failures are returned together.
func (a *App) UpdateMods(ctx context.Context, updates []types.ModUpdateInfo) error {
	var failures []error
	err := a.edit(func(m *packfile.Manifest) error {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.Workers)
		for _, update := range updates {
			g.Go(func() error {
				if err := a.applyUpdate(gctx, m, &mu, update); err != nil {
					logger.Log.Errorw("Failed to update mod", zap.String("mod", update.ModID), zap.Error(err))
					mu.Lock()
					failures = append(failures, fmt.Errorf("%s: %w", update.ModID, err))
					mu.Unlock()
				}
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return err
	}
	return errors.Join(failures...)
}

func (a *App) applyUpdate(ctx context.Context, m *packfile.Manifest, mu *sync.Mutex, update types.ModUpdateInfo) error {
	mu.Lock()
	mod, err := lookupMod(m, update.ModID)
	mu.Unlock()
	if err != nil {
		return err
	}

	filename, err := a.download(ctx, m.Dir(), update.URL, update.Version)
	if err != nil {
		return err
	}
	if filename != mod.Filename {
		if err := removeCached(m.Dir(), mod.Filename); err != nil {
			return err
		}
	}
	a.recordHistory(m.Dir(), update.ModID, mod)

	mod.Version = update.Version
	mod.URL = update.URL
	mod.Filename = filename

	mu.Lock()
	m.Mods[update.ModID] = mod
	mu.Unlock()
	logger.Log.Infow("Mod updated", zap.String("mod", update.ModID), zap.String("version", update.Version))
	return nil
}
