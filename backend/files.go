package backend

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

const (
	cacheDir  = "cache"
	clientDir = "client"
	serverDir = "server"
)

// download fetches fileURL into the project's cache and returns the stored file name.
// The name comes from the final URL, or from version when the URL ends in "download".
func (a *App) download(ctx context.Context, projectPath, fileURL, version string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := a.downloads.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to start download from %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	name := downloadFilename(resp, version)
	if name == "" {
		return "", fmt.Errorf("could not determine filename for %s", fileURL)
	}

	dir := filepath.Join(projectPath, cacheDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory '%s': %w", dir, err)
	}

	// a failed download must leave an existing cached copy untouched
	tmp, err := os.CreateTemp(dir, name+".*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in '%s': %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write downloaded content for '%s': %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to finish download of '%s': %w", name, err)
	}

	destinationPath := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), destinationPath); err != nil {
		return "", fmt.Errorf("failed to move download to '%s': %w", destinationPath, err)
	}
	return name, nil
}

func downloadFilename(resp *http.Response, version string) string {
	base := path.Base(resp.Request.URL.Path)
	if base != "download" && base != "/" && base != "." {
		return base
	}
	if version != "" && path.Ext(version) == ".jar" {
		return version
	}
	return ""
}

// copyFile copies src to dst and syncs dst. Copying a file onto itself is a no-op.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if srcInfo, err := in.Stat(); err == nil {
		if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
			return nil
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// removeCached deletes filename from the project's cache. A missing file is not an error.
func removeCached(projectPath, filename string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(projectPath, cacheDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cachedPath(projectPath, filename string) string {
	return filepath.Join(projectPath, cacheDir, filename)
}

func calculateSHA1(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha1.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
