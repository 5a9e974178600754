package backend

import (
	"context"
	"fmt"
	"strconv"

	"packsmith/modrinth"
	"packsmith/packfile"
	"packsmith/types"

	"golang.org/x/sync/errgroup"
)

// platformOf tells which platform a mod's source URL belongs to. Anything that is not a
// CurseForge page is treated as Modrinth.
func (a *App) platformOf(source string) types.Platform {
	if a.curseforge.IsSource(source) {
		return types.PlatformCurseForge
	}
	return types.PlatformModrinth
}

// SearchMods searches platform for mods compatible with the open project. Each hit carries
// its compatible versions, looked up concurrently.
func (a *App) SearchMods(ctx context.Context, query, platform string) ([]types.ModSearchResult, error) {
	m, err := a.load()
	if err != nil {
		return nil, err
	}

	switch types.Platform(platform) {
	case types.PlatformModrinth:
		return a.searchModrinth(ctx, m, query)
	case types.PlatformCurseForge:
		return a.searchCurseForge(ctx, m, query)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
}

func (a *App) searchModrinth(ctx context.Context, m *packfile.Manifest, query string) ([]types.ModSearchResult, error) {
	hits, err := a.modrinth.Search(ctx, query, m.Minecraft, m.Loader, a.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]types.ModSearchResult, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, hit := range hits {
		g.Go(func() error {
			versions, err := a.modrinthVersions(gctx, m, hit.Slug)
			if err != nil {
				return err
			}
			results[i] = types.ModSearchResult{
				ID:          hit.Slug,
				Name:        hit.Title,
				Description: hit.Description,
				URL:         modrinth.ProjectURL + hit.Slug,
				Downloads:   strconv.Itoa(hit.Downloads),
				ClientSide:  hit.ClientSide,
				ServerSide:  hit.ServerSide,
				Versions:    versions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *App) searchCurseForge(ctx context.Context, m *packfile.Manifest, query string) ([]types.ModSearchResult, error) {
	hits, err := a.curseforge.Search(ctx, query, m.Minecraft, m.Loader, a.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]types.ModSearchResult, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, hit := range hits {
		g.Go(func() error {
			versions, err := a.curseforge.GetVersions(gctx, hit.ID, m.Minecraft, m.Loader)
			if err != nil {
				return err
			}
			// the website does not publish side information
			results[i] = types.ModSearchResult{
				ID:          hit.ID,
				Name:        hit.Name,
				Description: hit.Description,
				URL:         hit.URL,
				Downloads:   hit.Downloads,
				Versions:    versions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *App) modrinthVersions(ctx context.Context, m *packfile.Manifest, slug string) ([]string, error) {
	versions, err := a.modrinth.GetProjectVersions(ctx, slug, m.Minecraft, m.Loader)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, 0, len(versions))
	for _, v := range versions {
		numbers = append(numbers, v.VersionNumber)
	}
	return numbers, nil
}

// versions lists the versions of modID compatible with the project, newest first.
func (a *App) versions(ctx context.Context, m *packfile.Manifest, modID string, platform types.Platform) ([]string, error) {
	switch platform {
	case types.PlatformModrinth:
		return a.modrinthVersions(ctx, m, modID)
	case types.PlatformCurseForge:
		return a.curseforge.GetVersions(ctx, modID, m.Minecraft, m.Loader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
}

// latestVersion is the newest version of modID compatible with the project.
func (a *App) latestVersion(ctx context.Context, m *packfile.Manifest, modID string, platform types.Platform) (string, error) {
	versions, err := a.versions(ctx, m, modID, platform)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoCompatibleVersion, modID)
	}
	return versions[0], nil
}

// downloadURL resolves the file of modID at version.
func (a *App) downloadURL(ctx context.Context, m *packfile.Manifest, modID string, platform types.Platform, version string) (string, error) {
	switch platform {
	case types.PlatformModrinth:
		versions, err := a.modrinth.GetProjectVersions(ctx, modID, m.Minecraft, m.Loader)
		if err != nil {
			return "", err
		}
		for _, v := range versions {
			if v.VersionNumber != version {
				continue
			}
			if f := v.PrimaryFile(); f != nil {
				return f.URL, nil
			}
		}
		return "", fmt.Errorf("%w: %s %s", ErrNoCompatibleVersion, modID, version)
	case types.PlatformCurseForge:
		return a.curseforge.GetDownloadURL(ctx, modID, m.Minecraft, m.Loader, version)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
}
