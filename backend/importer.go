package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"packsmith/logger"
	"packsmith/modrinth"
	"packsmith/packfile"
	"packsmith/service"
	"packsmith/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImportMods adds the .jar files in dir to the project. Each file is identified on Modrinth
// by its SHA1 hash; unknown files and mods already in the project are skipped. It returns
// the number of mods added.
func (a *App) ImportMods(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read import directory: %w", err)
	}

	added := 0
	err = a.edit(func(m *packfile.Manifest) error {
		if err := os.MkdirAll(filepath.Join(m.Dir(), cacheDir), 0o755); err != nil {
			return err
		}

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.Workers)
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".jar") {
				continue
			}
			g.Go(func() error {
				modID, mod, ok := a.identifyJar(gctx, m, filepath.Join(dir, entry.Name()))
				if !ok {
					return nil
				}

				mu.Lock()
				defer mu.Unlock()
				if _, exists := m.Mods[modID]; exists {
					return nil
				}
				if err := copyFile(filepath.Join(dir, entry.Name()), cachedPath(m.Dir(), mod.Filename)); err != nil {
					return fmt.Errorf("%s: %w", entry.Name(), err)
				}
				m.Mods[modID] = mod
				added++
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return 0, err
	}
	logger.Log.Infow("Mods imported", zap.String("dir", dir), zap.Int("added", added))
	return added, nil
}

// identifyJar looks up the Modrinth project a jar belongs to.
func (a *App) identifyJar(ctx context.Context, m *packfile.Manifest, path string) (string, types.Mod, bool) {
	log := logger.Log.With(zap.String("file", filepath.Base(path)))

	hash, err := calculateSHA1(path)
	if err != nil {
		log.Warnw("Failed to calculate hash", zap.Error(err))
		return "", types.Mod{}, false
	}

	version, err := a.modrinth.GetVersionByHash(ctx, hash)
	if err != nil {
		log.Debugw("Mod not found on Modrinth by hash", zap.Error(err))
		return "", types.Mod{}, false
	}
	project, err := a.modrinth.GetProject(ctx, version.ProjectID)
	if err != nil {
		log.Warnw("Failed to get project details", zap.String("project_id", version.ProjectID), zap.Error(err))
		return "", types.Mod{}, false
	}
	if !version.Supports(m.Minecraft, m.Loader) {
		log.Warnw("Imported mod does not list the project's version or loader",
			zap.String("minecraft", m.Minecraft), zap.String("loader", m.Loader))
	}

	url := ""
	if f := version.PrimaryFile(); f != nil {
		url = f.URL
	}
	side := service.DetermineModSide(types.PlatformModrinth, project.ClientSide, project.ServerSide)
	return project.Slug, types.Mod{
		Source:   modrinth.ProjectURL + project.Slug,
		Side:     string(side),
		Version:  version.VersionNumber,
		URL:      url,
		Filename: filepath.Base(path),
	}, true
}
