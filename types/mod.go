package types

// Side is the compatibility classification of a mod.
type Side string

const (
	SideClient Side = "client"
	SideServer Side = "server"
	SideBoth   Side = "both"
)

// Sides lists every supported side in display order.
var Sides = []Side{SideClient, SideServer, SideBoth}

func (s Side) Valid() bool {
	switch s {
	case SideClient, SideServer, SideBoth:
		return true
	}
	return false
}

// Platform is a mod-hosting source used for search and downloads.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseForge Platform = "curseforge"
)

// Platforms lists every supported platform. The first one is the default.
var Platforms = []Platform{PlatformModrinth, PlatformCurseForge}

func (p Platform) Valid() bool {
	return p == PlatformModrinth || p == PlatformCurseForge
}

// Mod is a single mod tracked in a project manifest.
type Mod struct {
	Source   string `json:"source"`
	Side     string `json:"side"`
	Version  string `json:"version"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Locked   bool   `json:"locked"` // update checks skip locked mods
}

// ModSearchResult is a search hit returned by a platform. It is never persisted.
type ModSearchResult struct {
	ID          string
	Name        string
	Description string
	URL         string
	Downloads   string
	ClientSide  string // required, optional, unsupported or empty
	ServerSide  string
	Versions    []string
}

// AddModOptions carries what is needed to commit a search result into a project.
type AddModOptions struct {
	URL     string
	Side    Side
	Version string
}

// ModUpdateInfo pairs a mod id with the version it can be updated to.
type ModUpdateInfo struct {
	ModID   string
	Version string
	URL     string
}
