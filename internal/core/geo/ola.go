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
	"time"

	"github.com/khushrathi249/nexus-app/internal/core/model"

	"github.com/khushrathi249/nexus-app/internal/cloud"
)

// OlaProvider geocodes through the Ola Maps Places API, the primary provider.
type OlaProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// olaResponse is the subset of the Ola geocode response the resolver uses.
type olaResponse struct {
	GeocodingResults []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"geocodingResults"`
}

// NewOlaProvider builds the provider from its configuration section.
func NewOlaProvider(cfg *cloud.GeocoderProvider) *OlaProvider {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OlaProvider{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs.
func (p *OlaProvider) Name() string { return "ola" }

// Geocode resolves query through the Ola geocode endpoint. An empty result
// list is a miss, not an error.
func (p *OlaProvider) Geocode(ctx context.Context, query string) (*model.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/places/v1/geocode?address=%s&api_key=%s",
		p.baseURL, url.QueryEscape(query), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var body olaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(body.GeocodingResults) == 0 {
		return nil, nil
	}

	location := body.GeocodingResults[0].Geometry.Location
	return &model.GeoPoint{Latitude: location.Lat, Longitude: location.Lng}, nil
}
