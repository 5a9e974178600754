// Package curseforge reads mod information from the CurseForge website.
package curseforge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"packsmith/config"
	"packsmith/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// The website rejects non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

const modsPath = "/minecraft/mc-mods/"

var (
	ErrNoProjectID   = errors.New("could not find project ID")
	ErrNoVersions    = errors.New("could not find file version")
	ErrFileNotFound  = errors.New("could not find file for version")
	ErrUnknownLoader = errors.New("loader has no curseforge game version type")
)

// gameVersionTypeIDs maps a loader to the id the website filters files by.
var gameVersionTypeIDs = map[string]int{
	"forge":    1,
	"fabric":   4,
	"quilt":    5,
	"neoforge": 6,
}

// GameVersionTypeID returns the website's id for loader.
func GameVersionTypeID(loader string) (int, error) {
	id, ok := gameVersionTypeIDs[loader]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownLoader, loader)
	}
	return id, nil
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg config.Config) (*Client, error) {
	if cfg.CurseForgeURL == "" {
		return nil, fmt.Errorf("CURSEFORGE_URL is not configured")
	}
	return &Client{
		BaseURL: strings.TrimSuffix(cfg.CurseForgeURL, "/"),
		HTTPClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}, nil
}

// SearchHit is one project card of the search page.
type SearchHit struct {
	ID          string
	Name        string
	Description string
	Downloads   string
	URL         string
}

// ProjectURL is the page of the mod with the given slug.
func (c *Client) ProjectURL(id string) string {
	return c.BaseURL + modsPath + id
}

// IsSource reports whether source points at this website.
func (c *Client) IsSource(source string) bool {
	return strings.HasPrefix(source, c.BaseURL)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("curseforge %s returned status %d", path, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

func filterParams(gameVersion, loader string) (url.Values, error) {
	typeID, err := GameVersionTypeID(loader)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("page", "1")
	params.Set("class", "mc-mods")
	params.Set("version", gameVersion)
	params.Set("gameVersionTypeId", strconv.Itoa(typeID))
	return params, nil
}

// Search returns the project cards of the search page for query.
func (c *Client) Search(ctx context.Context, query, gameVersion, loader string, limit int) ([]SearchHit, error) {
	params, err := filterParams(gameVersion, loader)
	if err != nil {
		return nil, err
	}
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("sortBy", "relevancy")
	params.Set("search", query)

	doc, err := c.fetch(ctx, "/minecraft/search", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search for '%s': %w", query, err)
	}

	var hits []SearchHit
	doc.Find(".project-card").Each(func(_ int, s *goquery.Selection) {
		href := s.Find(".name").AttrOr("href", "")
		if href == "" {
			return
		}
		hits = append(hits, SearchHit{
			ID:          strings.TrimPrefix(href, modsPath),
			Name:        strings.TrimSpace(s.Find(".name span").Text()),
			Description: strings.TrimSpace(s.Find(".description").Text()),
			Downloads:   strings.TrimSpace(s.Find(".details-list .detail-downloads").Text()),
			URL:         c.BaseURL + href,
		})
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	logger.Log.Debugw("CurseForge search finished", zap.String("query", query), zap.Int("hits", len(hits)))
	return hits, nil
}

func (c *Client) files(ctx context.Context, id, gameVersion, loader string) (*goquery.Document, error) {
	params, err := filterParams(gameVersion, loader)
	if err != nil {
		return nil, err
	}
	params.Set("pageSize", "20")
	params.Set("showAlphaFiles", "hide")
	return c.fetch(ctx, modsPath+id+"/files/all", params)
}

// GetVersions lists the file names of a mod for gameVersion and loader, newest first.
func (c *Client) GetVersions(ctx context.Context, id, gameVersion, loader string) ([]string, error) {
	doc, err := c.files(ctx, id, gameVersion, loader)
	if err != nil {
		return nil, fmt.Errorf("failed to get versions for '%s': %w", id, err)
	}

	names := doc.Find("span.name")
	if names.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNoVersions)
	}

	var versions []string
	names.Each(func(_ int, s *goquery.Selection) {
		if v := s.AttrOr("title", ""); v != "" {
			versions = append(versions, v)
		}
	})
	return versions, nil
}

// GetDownloadURL finds the file named version and returns its download link.
func (c *Client) GetDownloadURL(ctx context.Context, id, gameVersion, loader, version string) (string, error) {
	doc, err := c.files(ctx, id, gameVersion, loader)
	if err != nil {
		return "", fmt.Errorf("failed to get files for '%s': %w", id, err)
	}

	projectID := strings.TrimSpace(doc.Find(".project-id").Text())
	if projectID == "" {
		return "", fmt.Errorf("%s: %w", id, ErrNoProjectID)
	}

	var fileID string
	doc.Find(".file-row-details").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find("span.name").AttrOr("title", "") != version {
			return true
		}
		href := s.AttrOr("href", "")
		if href == "" {
			return true
		}
		fileID = href[strings.LastIndex(href, "/")+1:]
		return false
	})
	if fileID == "" {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, version)
	}

	return fmt.Sprintf("%s/api/v1/mods/%s/files/%s/download", c.BaseURL, projectID, fileID), nil
}
