// Copyright 2025 Nexus Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scraper acquires media and metadata for a submitted link. The
// Acquirer tries a yt-dlp download first; when the host refuses, it degrades
// to an Open Graph page fetch, and when even that fails it returns a
// restricted placeholder. Acquisition is total: every URL yields an asset.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/khushrathi249/nexus-app/internal/cloud"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// ytdlpMetadata is the subset of the yt-dlp JSON output the pipeline uses.
type ytdlpMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// Acquirer downloads short-form videos and their metadata.
type Acquirer struct {
	cfg        *cloud.Scraper
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAcquirer builds an Acquirer from the scraper configuration.
func NewAcquirer(cfg *cloud.Scraper) *Acquirer {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Acquirer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "scraper"),
	}
}

// Fetch acquires the media and metadata for url. It never returns an error:
// a host that refuses the download yields an asset without a video file, and
// a fully unreachable post yields the restricted placeholder. A download that
// succeeds with only a bare platform-name title still gets a page fetch, to
// recover the real Open Graph metadata.
func (a *Acquirer) Fetch(ctx context.Context, url string) *model.MediaAsset {
	asset, err := a.download(ctx, url)
	if err == nil {
		a.enrichFromPage(ctx, url, asset)
		asset.Title = a.sanitizeTitle(asset.Title, asset.Description)
		return asset
	}
	a.logger.Warn("video download failed, falling back to page metadata", "url", url, "error", err)

	meta, err := a.fetchPageMetadata(ctx, url)
	if err != nil {
		a.logger.Warn("page metadata fetch failed, marking link restricted", "url", url, "error", err)
		return &model.MediaAsset{Title: model.RestrictedTitle, Restricted: true}
	}
	return &model.MediaAsset{
		Title:        a.sanitizeTitle(meta.Title, meta.Description),
		Description:  meta.Description,
		ThumbnailURL: meta.Image,
	}
}

// enrichFromPage re-reads the post page when the downloaded metadata carries
// an empty or bare platform-name title. Hosts often hand yt-dlp a generic
// title while the page itself still exposes real Open Graph tags.
func (a *Acquirer) enrichFromPage(ctx context.Context, url string, asset *model.MediaAsset) {
	title := strings.TrimSpace(asset.Title)
	if title != "" && !a.isPlaceholder(title) {
		return
	}
	meta, err := a.fetchPageMetadata(ctx, url)
	if err != nil {
		a.logger.Warn("page metadata fetch failed, keeping downloaded metadata", "url", url, "error", err)
		return
	}
	if meta.Title != "" && !a.isPlaceholder(meta.Title) {
		asset.Title = meta.Title
	}
	if asset.Description == "" {
		asset.Description = meta.Description
	}
	if asset.ThumbnailURL == "" {
		asset.ThumbnailURL = meta.Image
	}
}

// download runs yt-dlp against url and verifies the result is a video file.
func (a *Acquirer) download(ctx context.Context, url string) (*model.MediaAsset, error) {
	tempDir := a.cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	base := filepath.Join(tempDir, uuid.New().String())

	format := a.cfg.Format
	if format == "" {
		format = "best[ext=mp4]/best"
	}
	maxSize := a.cfg.MaxFileSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}

	args := a.ytdlpArgs(url, base, format, maxSize)

	ytdlpPath := a.cfg.YtdlpPath
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ytdlpPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var meta ytdlpMetadata
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	localPath, mimeType, err := a.locateVideo(base)
	if err != nil {
		return nil, err
	}

	return &model.MediaAsset{
		Title:        meta.Title,
		Description:  meta.Description,
		ThumbnailURL: meta.Thumbnail,
		LocalPath:    localPath,
		MIMEType:     mimeType,
	}, nil
}

// ytdlpArgs builds the download invocation. The header set mimics a plain
// browser navigation, which many hosts require before serving anonymous
// requests.
func (a *Acquirer) ytdlpArgs(url string, base string, format string, maxSize int) []string {
	return []string{
		"--no-playlist",
		"--quiet",
		"--ignore-errors",
		"--print-json",
		"--format", format,
		"--max-filesize", fmt.Sprintf("%dM", maxSize),
		"--user-agent", randomUserAgent(),
		"--add-header", "Accept:text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"--add-header", "Accept-Language:en-us,en;q=0.5",
		"--add-header", "Sec-Fetch-Mode:navigate",
		"--output", base + ".%(ext)s",
		url,
	}
}

// locateVideo finds the file yt-dlp wrote for the given base name and sniffs
// its content to confirm it is a video. The extension in the output template
// is chosen by yt-dlp, so the path is resolved by glob.
func (a *Acquirer) locateVideo(base string) (string, string, error) {
	matches, err := filepath.Glob(base + ".*")
	if err != nil || len(matches) == 0 {
		return "", "", fmt.Errorf("no downloaded file found for %s", base)
	}
	localPath := matches[0]

	file, err := os.Open(localPath)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	head := make([]byte, 262)
	n, _ := file.Read(head)
	head = head[:n]

	if !filetype.IsVideo(head) {
		os.Remove(localPath)
		return "", "", fmt.Errorf("downloaded file %s is not a video", localPath)
	}

	kind, _ := filetype.Match(head)
	mimeType := kind.MIME.Value
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return localPath, mimeType, nil
}

// sanitizeTitle replaces bare platform-name titles with the start of the
// description. Hosts commonly return just "Instagram" or "TikTok" as the
// title of a login-walled post.
func (a *Acquirer) sanitizeTitle(title string, description string) string {
	title = strings.TrimSpace(title)
	if title != "" && !a.isPlaceholder(title) {
		return title
	}
	if description != "" {
		runes := []rune(description)
		if len(runes) > 50 {
			return string(runes[:50]) + "..."
		}
		return string(runes)
	}
	if title != "" {
		return title
	}
	return model.RestrictedTitle
}

// isPlaceholder reports whether the title is one of the configured bare
// platform names.
func (a *Acquirer) isPlaceholder(title string) bool {
	lower := strings.ToLower(title)
	for _, token := range a.cfg.PlaceholderTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
