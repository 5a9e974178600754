package backend

import (
	"context"
	"errors"

	"packsmith/db"
	"packsmith/logger"
	"packsmith/packfile"

	"go.uber.org/zap"
)

var ErrNoDatabase = errors.New("version history is not available without a database")

// History lists the versions modID had before, newest first.
func (a *App) History(modID string) ([]db.ModVersion, error) {
	if a.conn == nil {
		return nil, ErrNoDatabase
	}
	path := a.ProjectPath()
	if path == "" {
		return nil, ErrNoProject
	}
	return db.History(a.conn, path, modID)
}

// RollbackMod restores the version modID had before its last update and removes that
// entry from the history. It returns the restored version.
func (a *App) RollbackMod(ctx context.Context, modID string) (*db.ModVersion, error) {
	if a.conn == nil {
		return nil, ErrNoDatabase
	}

	var previous *db.ModVersion
	err := a.edit(func(m *packfile.Manifest) error {
		mod, err := lookupMod(m, modID)
		if err != nil {
			return err
		}
		previous, err = db.Latest(a.conn, m.Dir(), modID)
		if err != nil {
			return err
		}

		filename, err := a.download(ctx, m.Dir(), previous.URL, previous.Version)
		if err != nil {
			return err
		}
		if filename != mod.Filename {
			if err := removeCached(m.Dir(), mod.Filename); err != nil {
				logger.Log.Warnw("Failed to remove current version", zap.String("file", mod.Filename), zap.Error(err))
			}
		}

		mod.Version = previous.Version
		mod.URL = previous.URL
		mod.Filename = filename
		m.Mods[modID] = mod
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.DeleteVersion(a.conn, previous); err != nil {
		logger.Log.Warnw("Failed to delete history record", zap.String("version", previous.Version), zap.Error(err))
	}
	logger.Log.Infow("Rollback successful", zap.String("mod", modID), zap.String("version", previous.Version))
	return previous, nil
}
