// Package packfile reads and writes the packsmith.json manifest at the root of a project.
package packfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"packsmith/logger"
	"packsmith/types"

	"go.uber.org/zap"
)

const FileName = "packsmith.json"

var (
	// ErrNotInitialized is returned when a directory has no manifest.
	ErrNotInitialized = errors.New("initialize project before using other commands")
	ErrInvalidLoader  = errors.New("loader must be one of forge, fabric, neoforge, quilt")
)

// Manifest is the on-disk project description.
type Manifest struct {
	Name      string               `json:"name"`
	Minecraft string               `json:"minecraft"`
	Loader    string               `json:"loader"`
	Mods      map[string]types.Mod `json:"mods"`

	dir string
}

// Dir is the project directory the manifest belongs to.
func (m *Manifest) Dir() string {
	return m.dir
}

// Path returns the manifest location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Init writes a new manifest with no mods into dir, replacing any existing one.
func Init(dir, name, minecraft, loader string) (*Manifest, error) {
	if !types.Loader(loader).Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidLoader, loader)
	}

	m := &Manifest{
		Name:      name,
		Minecraft: minecraft,
		Loader:    loader,
		Mods:      map[string]types.Mod{},
		dir:       dir,
	}
	if err := m.Save(); err != nil {
		return nil, err
	}
	logger.Log.Infow("Project manifest initialized", zap.String("dir", dir), zap.String("loader", loader))
	return m, nil
}

// Load reads the manifest in dir. A missing manifest yields ErrNotInitialized.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m := &Manifest{dir: dir}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Path(dir), err)
	}
	if m.Mods == nil {
		m.Mods = map[string]types.Mod{}
	}
	return m, nil
}

// Save writes the manifest back to its directory.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(Path(m.dir), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Response converts the manifest into the shape returned to the UI.
func (m *Manifest) Response() *types.ProjectResponse {
	return &types.ProjectResponse{
		Name:      m.Name,
		Minecraft: m.Minecraft,
		Loader:    m.Loader,
		Mods:      m.Mods,
	}
}
