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

package commands

import (
	"context"

	"github.com/khushrathi249/nexus-app/internal/core/cor"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// PlaceResolver turns a place name into coordinates, or nil on a total miss.
type PlaceResolver interface {
	Resolve(ctx context.Context, locationName string) *model.GeoPoint
}

// GeoResolve resolves the analysis's location name to coordinates. It only
// runs when the analysis produced a location name; when the resolver misses,
// the coordinates the model itself estimated are used as a fallback.
type GeoResolve struct {
	cor.BaseCommand
	resolver PlaceResolver
}

// NewGeoResolve creates the geocoding command.
func NewGeoResolve(name string, resolver PlaceResolver) *GeoResolve {
	return &GeoResolve{
		BaseCommand: *cor.NewBaseCommand(name),
		resolver:    resolver,
	}
}

// IsExecutable requires an analysis that recognized a location name.
func (c *GeoResolve) IsExecutable(chCtx cor.Context) bool {
	if chCtx.GetContext() == nil {
		return false
	}
	analysis, ok := chCtx.Get(GetAnalysisParamName()).(*model.Analysis)
	return ok && analysis.LocationName != ""
}

// Execute resolves coordinates for the recognized location name.
func (c *GeoResolve) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	analysis := chCtx.Get(GetAnalysisParamName()).(*model.Analysis)

	point := c.resolver.Resolve(ctx, analysis.LocationName)
	if point == nil {
		point = analysis.Coordinates
	}
	if point != nil {
		chCtx.Add(GetGeoPointParamName(), point)
	}
	c.GetSuccessCounter().Add(ctx, 1)
}
