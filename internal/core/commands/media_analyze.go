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
	"os"

	"github.com/khushrathi249/nexus-app/internal/core/cor"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// VideoAnalyzer produces a structured analysis for an asset with a video
// file. Analysis is total: failures come back as a degraded analysis, not an
// error.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, asset *model.MediaAsset, url string) *model.Analysis
}

// MediaAnalyze turns the acquired asset into a structured analysis. Assets
// without a video file skip the model entirely and get the download-failed
// analysis, keeping whatever title and description the fallback recovered.
//
// The local video file is removed as soon as the analysis returns; the chain
// context's temp-file tracking backstops the removal.
type MediaAnalyze struct {
	cor.BaseCommand
	analyzer VideoAnalyzer
}

// NewMediaAnalyze creates the analysis command.
func NewMediaAnalyze(name string, analyzer VideoAnalyzer) *MediaAnalyze {
	return &MediaAnalyze{
		BaseCommand: *cor.NewBaseCommand(name),
		analyzer:    analyzer,
	}
}

// IsExecutable requires an acquired asset in the chain context.
func (c *MediaAnalyze) IsExecutable(chCtx cor.Context) bool {
	return chCtx.GetContext() != nil && chCtx.Get(GetMediaAssetParamName()) != nil
}

// Execute analyzes the asset and publishes the structured result.
func (c *MediaAnalyze) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	request := chCtx.Get(GetSourceRequestParamName()).(*model.SourceRequest)
	asset := chCtx.Get(GetMediaAssetParamName()).(*model.MediaAsset)

	var analysis *model.Analysis
	if asset.HasVideo() {
		analysis = c.analyzer.Analyze(ctx, asset, request.URL)
		os.Remove(asset.LocalPath)
	} else {
		analysis = &model.Analysis{
			Title:       asset.Title,
			Category:    model.DefaultCategory,
			Summary:     model.DownloadFailedSummary,
			Recognition: model.RecognitionNone,
		}
	}

	chCtx.Add(GetAnalysisParamName(), analysis)
	c.GetSuccessCounter().Add(ctx, 1)
}
