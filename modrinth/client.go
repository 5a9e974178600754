package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"packsmith/config"
	"packsmith/logger"

	"go.uber.org/zap"
)

// ProjectURL is the public page of a Modrinth project; it is stored as a mod's source.
const ProjectURL = "https://modrinth.com/mod/"

// Client handles communication with the Modrinth API.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Modrinth API client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		// Should be handled by LoadConfig default, but double-check
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	if cfg.ModrinthAPIURL == "" {
		return nil, fmt.Errorf("MODRINTH_API_URL is not configured")
	}

	return &Client{
		BaseURL:   cfg.ModrinthAPIURL,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}, nil
}

// makeRequest sends a GET to BaseURL+path and decodes the JSON body into target.
func (c *Client) makeRequest(ctx context.Context, path string, queryParams url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}
	// Modrinth rejects requests without a descriptive User-Agent
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to read body for more error info, but don't fail if it's unreadable
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode json response: %w", err)
		}
	}
	return nil
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status %d, body: %s", e.StatusCode, e.Body)
}

// Search finds mods matching query that support the given game version and loader.
func (c *Client) Search(ctx context.Context, query, gameVersion, loader string, limit int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	// Facets are ANDed between inner arrays: mods only, for this game version and loader
	params.Set("facets", fmt.Sprintf(`[["project_type:mod"],["versions:%s"],["categories:%s"]]`, gameVersion, loader))

	var result SearchResponse
	if err := c.makeRequest(ctx, "/search", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search for '%s': %w", query, err)
	}
	logger.Log.Debugw("Modrinth search finished", zap.String("query", query), zap.Int("hits", len(result.Hits)))
	return result.Hits, nil
}

// GetProjectVersions retrieves the versions of a project that support gameVersion and loader,
// newest first.
func (c *Client) GetProjectVersions(ctx context.Context, slug, gameVersion, loader string) ([]Version, error) {
	params := url.Values{}
	params.Add("game_versions", "[\""+gameVersion+"\"]")
	params.Add("loaders", "[\""+loader+"\"]")

	var versions []Version
	if err := c.makeRequest(ctx, fmt.Sprintf("/project/%s/version", slug), params, &versions); err != nil {
		return nil, fmt.Errorf("failed to get project versions for '%s': %w", slug, err)
	}

	// Keep only versions that list both the game version and the loader
	compatible := versions[:0]
	for _, v := range versions {
		if v.Supports(gameVersion, loader) {
			compatible = append(compatible, v)
		}
	}
	return compatible, nil
}

// GetVersionByHash retrieves version information using the file's SHA1 hash.
func (c *Client) GetVersionByHash(ctx context.Context, hash string) (*Version, error) {
	var version Version
	if err := c.makeRequest(ctx, fmt.Sprintf("/version_file/%s", hash), nil, &version); err != nil {
		return nil, fmt.Errorf("failed to get version by hash '%s': %w", hash, err)
	}
	return &version, nil
}

// GetProject retrieves details for a specific project.
func (c *Client) GetProject(ctx context.Context, slug string) (*Project, error) {
	var project Project
	if err := c.makeRequest(ctx, fmt.Sprintf("/project/%s", slug), nil, &project); err != nil {
		return nil, fmt.Errorf("failed to get project '%s': %w", slug, err)
	}
	return &project, nil
}

// SearchResponse is the body of /search.
type SearchResponse struct {
	Hits      []SearchHit `json:"hits"`
	TotalHits int         `json:"total_hits"`
}

// SearchHit is one project in a search response.
type SearchHit struct {
	Slug        string `json:"slug"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ClientSide  string `json:"client_side"` // required, optional, unsupported, unknown
	ServerSide  string `json:"server_side"`
	Downloads   int    `json:"downloads"`
}

// Project represents a Modrinth project
type Project struct {
	Slug        string `json:"slug"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectType string `json:"project_type"`
	ClientSide  string `json:"client_side"`
	ServerSide  string `json:"server_side"`
	Downloads   int    `json:"downloads"`
}

// Version represents a Modrinth project version (simplified).
type Version struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
	Files         []File   `json:"files"`
}

// Supports reports whether the version is built for gameVersion and loader.
func (v Version) Supports(gameVersion, loader string) bool {
	return slices.Contains(v.GameVersions, gameVersion) && slices.Contains(v.Loaders, loader)
}

// PrimaryFile locates the primary file in a version, or the first file if no primary is marked.
func (v Version) PrimaryFile() *File {
	for i := range v.Files {
		if v.Files[i].Primary {
			return &v.Files[i]
		}
	}
	if len(v.Files) > 0 {
		return &v.Files[0]
	}
	return nil
}

// File represents a file within a Modrinth version (simplified).
type File struct {
	Filename string            `json:"filename"`
	URL      string            `json:"url"`
	Primary  bool              `json:"primary"`
	Size     int               `json:"size"`
	Hashes   map[string]string `json:"hashes"` // e.g., {"sha512": "...", "sha1": "..."}
}
