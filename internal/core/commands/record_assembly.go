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
	"github.com/khushrathi249/nexus-app/internal/core/cor"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// RecordAssembly combines the request, the analysis, and the optional
// coordinates into a Link record ready for persistence.
type RecordAssembly struct {
	cor.BaseCommand
}

// NewRecordAssembly creates the assembly command.
func NewRecordAssembly(name string) *RecordAssembly {
	return &RecordAssembly{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires both the request and an analysis in the chain
// context.
func (c *RecordAssembly) IsExecutable(chCtx cor.Context) bool {
	return chCtx.GetContext() != nil &&
		chCtx.Get(GetSourceRequestParamName()) != nil &&
		chCtx.Get(GetAnalysisParamName()) != nil
}

// Execute assembles the Link record and publishes it.
func (c *RecordAssembly) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	request := chCtx.Get(GetSourceRequestParamName()).(*model.SourceRequest)
	analysis := chCtx.Get(GetAnalysisParamName()).(*model.Analysis)

	link := model.NewLink(request.URL, request.UserID)
	link.Title = analysis.Title
	link.Category = analysis.Category
	link.Summary = analysis.Summary
	link.LocationName = analysis.LocationName

	if asset, ok := chCtx.Get(GetMediaAssetParamName()).(*model.MediaAsset); ok {
		link.ImageURL = asset.ThumbnailURL
	}
	if point, ok := chCtx.Get(GetGeoPointParamName()).(*model.GeoPoint); ok {
		link.SetCoordinates(point)
	}

	chCtx.Add(GetRecordParamName(), link)
	c.GetSuccessCounter().Add(ctx, 1)
}
