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

package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/khushrathi249/nexus-app/internal/core/model"

	"github.com/khushrathi249/nexus-app/internal/cloud"
)

// NominatimProvider geocodes through the OpenStreetMap Nominatim API, the
// fallback provider. Nominatim answers best on short queries, so a venue
// string like "Blue Tokai, Bandra, Mumbai" is retried with progressively
// shorter comma prefixes until something resolves.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// nominatimResult is one entry of the Nominatim search response. Coordinates
// arrive as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimProvider builds the provider from its configuration section.
func NewNominatimProvider(cfg *cloud.GeocoderProvider) *NominatimProvider {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NominatimProvider{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs.
func (p *NominatimProvider) Name() string { return "nominatim" }

// Geocode resolves query, retrying with shortened comma prefixes. The first
// attempt that yields a result wins; attempt errors carry over only when
// every attempt fails.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*model.GeoPoint, error) {
	var lastErr error
	for _, attempt := range queryAttempts(query) {
		point, err := p.search(ctx, attempt)
		if err != nil {
			lastErr = err
			continue
		}
		if point != nil {
			return point, nil
		}
	}
	return nil, lastErr
}

// queryAttempts produces the shortened forms of a venue string: the full
// query, its first two comma segments, and its first segment alone.
// Duplicates collapse, so a query without commas yields one attempt.
func queryAttempts(query string) []string {
	segments := strings.Split(query, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	candidates := []string{strings.TrimSpace(query)}
	if len(segments) > 2 {
		candidates = append(candidates, segments[0]+", "+segments[1])
	}
	if len(segments) > 1 {
		candidates = append(candidates, segments[0])
	}

	attempts := make([]string, 0, len(candidates))
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		attempts = append(attempts, candidate)
	}
	return attempts
}

// search issues one Nominatim query and parses the top result.
func (p *NominatimProvider) search(ctx context.Context, query string) (*model.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", p.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, fmt.Errorf("malformed coordinates in search response")
	}
	return &model.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
