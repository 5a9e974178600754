package backend

import (
	"context"
	"sync"
)

// DirectoryPicker asks the user for a project directory. An empty path means the user
// cancelled.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context) (string, error)
}

// PresetPicker answers with a path chosen beforehand, for example from a command line flag
// or a text prompt. Each path is handed out once.
type PresetPicker struct {
	mu   sync.Mutex
	path string
}

func (p *PresetPicker) Set(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

func (p *PresetPicker) PickDirectory(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.path
	p.path = ""
	return path, nil
}
