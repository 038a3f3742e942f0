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

package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khushrathi249/nexus-app/internal/cloud"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

func newTestAcquirer() *Acquirer {
	return NewAcquirer(&cloud.Scraper{
		YtdlpPath:         "/nonexistent/yt-dlp",
		TimeoutInSeconds:  2,
		PlaceholderTokens: []string{"instagram", "tiktok"},
	})
}

func TestSanitizeTitleKeepsRealTitles(t *testing.T) {
	a := newTestAcquirer()
	assert.Equal(t, "Street Food Tour of Delhi", a.sanitizeTitle("Street Food Tour of Delhi", "desc"))
}

func TestSanitizeTitleReplacesPlatformPlaceholders(t *testing.T) {
	a := newTestAcquirer()
	long := strings.Repeat("x", 80)

	synthesized := a.sanitizeTitle("Instagram", long)
	assert.Equal(t, strings.Repeat("x", 50)+"...", synthesized)

	assert.Equal(t, "short desc", a.sanitizeTitle("Video by TikTok", "short desc"))
}

func TestSanitizeTitleWithoutAnyMetadata(t *testing.T) {
	a := newTestAcquirer()
	assert.Equal(t, model.RestrictedTitle, a.sanitizeTitle("", ""))
	// A placeholder title with no description is kept over nothing.
	assert.Equal(t, "Instagram", a.sanitizeTitle("Instagram", ""))
}

func TestFetchFallsBackToOpenGraph(t *testing.T) {
	page := `<html><head>
		<meta property="og:title" content="Hidden Waterfall Hike" />
		<meta property="og:description" content="Trail starts behind the temple." />
		<meta property="og:image" content="https://cdn.example.com/thumb.jpg" />
	</head><body></body></html>`
	var referer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		w.Write([]byte(page))
	}))
	defer server.Close()

	asset := newTestAcquirer().Fetch(context.Background(), server.URL)

	assert.Equal(t, "https://www.google.com/", referer)
	assert.False(t, asset.HasVideo())
	assert.False(t, asset.Restricted)
	assert.Equal(t, "Hidden Waterfall Hike", asset.Title)
	assert.Equal(t, "Trail starts behind the temple.", asset.Description)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", asset.ThumbnailURL)
}

func TestFetchUsesDocumentTitleWhenOpenGraphAbsent(t *testing.T) {
	page := `<html><head><title>Plain Page Title</title></head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	asset := newTestAcquirer().Fetch(context.Background(), server.URL)
	assert.Equal(t, "Plain Page Title", asset.Title)
}

func TestEnrichFromPageReplacesPlaceholderTitle(t *testing.T) {
	page := `<html><head>
		<meta property="og:title" content="Real Reel Title" />
		<meta property="og:description" content="The caption." />
		<meta property="og:image" content="https://cdn.example.com/thumb.jpg" />
	</head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	a := newTestAcquirer()
	asset := &model.MediaAsset{Title: "Instagram", LocalPath: "/tmp/clip.mp4"}
	a.enrichFromPage(context.Background(), server.URL, asset)

	assert.Equal(t, "Real Reel Title", asset.Title)
	assert.Equal(t, "The caption.", asset.Description)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", asset.ThumbnailURL)
}

func TestEnrichFromPageSkipsRealTitles(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	a := newTestAcquirer()
	asset := &model.MediaAsset{Title: "Street Food Tour", Description: "desc"}
	a.enrichFromPage(context.Background(), server.URL, asset)

	assert.False(t, requested)
	assert.Equal(t, "Street Food Tour", asset.Title)
}

func TestEnrichFromPageToleratesFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	a := newTestAcquirer()
	asset := &model.MediaAsset{Title: "Instagram", Description: "short desc"}
	a.enrichFromPage(context.Background(), server.URL, asset)

	// The downloaded metadata stands when the page is unreachable.
	assert.Equal(t, "Instagram", asset.Title)
	assert.Equal(t, "short desc", asset.Description)
}

func TestYtdlpArgsSpoofBrowserHeaders(t *testing.T) {
	a := newTestAcquirer()
	args := a.ytdlpArgs("https://example.com/reel/42", "/tmp/abc", "best", 50)

	assert.Contains(t, args, "--ignore-errors")
	assert.Contains(t, args, "Accept-Language:en-us,en;q=0.5")
	assert.Contains(t, args, "Sec-Fetch-Mode:navigate")
}

func TestFetchRestrictedWhenPageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	asset := newTestAcquirer().Fetch(context.Background(), server.URL)

	assert.True(t, asset.Restricted)
	assert.Equal(t, model.RestrictedTitle, asset.Title)
	assert.False(t, asset.HasVideo())
}
