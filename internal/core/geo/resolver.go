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

// Package geo resolves place names to coordinates through a waterfall of
// providers. Each provider is isolated: a timeout or malformed response from
// one never prevents the next from being tried, and a total miss resolves to
// no coordinates rather than an error.
package geo

import (
	"context"
	"log/slog"

	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// Provider is one geocoding backend.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Geocode resolves a place name to a coordinate pair. A miss (the place
	// is unknown to this provider) returns nil with a nil error.
	Geocode(ctx context.Context, query string) (*model.GeoPoint, error)
}

// Resolver tries its providers in order and returns the first hit.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

// NewResolver builds a Resolver over the given providers, tried in argument
// order.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		logger:    slog.Default().With("component", "geo"),
	}
}

// Resolve walks the provider waterfall for the given place name. It returns
// nil when every provider misses or fails; resolution is best-effort and a
// link without coordinates is still a valid link.
func (r *Resolver) Resolve(ctx context.Context, locationName string) *model.GeoPoint {
	if locationName == "" {
		return nil
	}
	for _, provider := range r.providers {
		point, err := provider.Geocode(ctx, locationName)
		if err != nil {
			r.logger.Warn("geocoding provider failed",
				"provider", provider.Name(), "query", locationName, "error", err)
			continue
		}
		if point != nil {
			r.logger.Debug("geocoding hit",
				"provider", provider.Name(), "query", locationName,
				"latitude", point.Latitude, "longitude", point.Longitude)
			return point
		}
	}
	return nil
}
