package store

import (
	"packsmith/logger"

	"go.uber.org/zap"
)

// Notifier shows non-blocking messages to the user.
type Notifier interface {
	Error(title, description string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, description string)

func (f NotifierFunc) Error(title, description string) {
	f(title, description)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) Error(title, description string) {
	logger.Log.Errorw(title, zap.String("description", description))
}
