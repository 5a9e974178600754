package store

import (
	"packsmith/logger"

	"go.uber.org/zap"
)

// Coordinate drives dialog state from project lifecycle events: a failed open asks the
// user to create a project there, a created project closes that prompt.
func Coordinate(project *ProjectStore, ui *UIStore) func() {
	return project.Subscribe(func(e Event) {
		switch e.Kind {
		case EventOpenFailed:
			logger.Log.Infow("Prompting for a new project", zap.String("path", e.Path))
			ui.OpenNewProjectDialog()
		case EventProjectCreated:
			ui.CloseNewProjectDialog()
		}
	})
}
