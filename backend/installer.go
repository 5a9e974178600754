package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"packsmith/logger"
	"packsmith/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InstallMods rebuilds the client/ and server/ folders of the project from the cache,
// downloading mods that are not cached yet.
func (a *App) InstallMods(ctx context.Context) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	client := filepath.Join(m.Dir(), clientDir)
	server := filepath.Join(m.Dir(), serverDir)
	for _, folder := range []string{client, server} {
		if err := os.RemoveAll(folder); err != nil {
			return fmt.Errorf("clean %s: %w", folder, err)
		}
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", folder, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for modID, mod := range m.Mods {
		g.Go(func() error {
			src := cachedPath(m.Dir(), mod.Filename)
			if _, err := os.Stat(src); os.IsNotExist(err) {
				logger.Log.Infow("Mod not in cache, downloading", zap.String("mod", modID), zap.String("url", mod.URL))
				name, err := a.download(gctx, m.Dir(), mod.URL, mod.Version)
				if err != nil {
					return fmt.Errorf("%s: %w", modID, err)
				}
				src = cachedPath(m.Dir(), name)
			}

			var targets []string
			switch types.Side(mod.Side) {
			case types.SideBoth:
				targets = []string{client, server}
			case types.SideClient:
				targets = []string{client}
			case types.SideServer:
				targets = []string{server}
			default:
				logger.Log.Warnw("Mod has no valid side, not installed", zap.String("mod", modID), zap.String("side", mod.Side))
			}
			for _, dir := range targets {
				if err := copyFile(src, filepath.Join(dir, mod.Filename)); err != nil {
					return fmt.Errorf("%s: %w", modID, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Log.Infow("Mods installed", zap.String("project", m.Dir()), zap.Int("mods", len(m.Mods)))
	return nil
}
