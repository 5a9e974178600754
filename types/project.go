package types

// Loader is the mod-loading runtime a project targets.
type Loader string

const (
	LoaderForge    Loader = "forge"
	LoaderFabric   Loader = "fabric"
	LoaderNeoForge Loader = "neoforge"
	LoaderQuilt    Loader = "quilt"
)

var Loaders = []Loader{LoaderForge, LoaderFabric, LoaderNeoForge, LoaderQuilt}

func (l Loader) Valid() bool {
	switch l {
	case LoaderForge, LoaderFabric, LoaderNeoForge, LoaderQuilt:
		return true
	}
	return false
}

// ProjectConfig is the typed content of a project manifest.
type ProjectConfig struct {
	Name      string
	Minecraft string
	Loader    Loader
	Mods      map[string]Mod
}

// ProjectResponse is the shape the backend reports for an opened project.
// Loader is left as a plain string; callers narrow it.
type ProjectResponse struct {
	Name      string         `json:"name"`
	Minecraft string         `json:"minecraft"`
	Loader    string         `json:"loader"`
	Mods      map[string]Mod `json:"mods"`
}

// Project is the open modpack: a ProjectConfig plus the directory it lives in.
// Mods is nil only for the empty project returned by EmptyProject.
type Project struct {
	Path      string
	Name      string
	Minecraft string
	Loader    Loader
	Mods      map[string]Mod
}

func EmptyProject() Project {
	return Project{Loader: LoaderForge}
}

// NewProject combines a directory and its config.
func NewProject(path string, cfg ProjectConfig) Project {
	return Project{
		Path:      path,
		Name:      cfg.Name,
		Minecraft: cfg.Minecraft,
		Loader:    cfg.Loader,
		Mods:      cfg.Mods,
	}
}

// Config returns the project without its path.
func (p Project) Config() ProjectConfig {
	return ProjectConfig{Name: p.Name, Minecraft: p.Minecraft, Loader: p.Loader, Mods: p.Mods}
}
