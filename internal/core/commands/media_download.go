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

// MediaFetcher acquires media and metadata for a URL. Acquisition is total:
// every URL yields an asset, possibly without a video file.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) *model.MediaAsset
}

// MediaDownload runs the acquirer for the submitted link and publishes the
// resulting asset. A downloaded video file is registered as a temp file so
// the chain context removes it even when later commands fail.
type MediaDownload struct {
	cor.BaseCommand
	fetcher MediaFetcher
}

// NewMediaDownload creates the acquisition command.
func NewMediaDownload(name string, fetcher MediaFetcher) *MediaDownload {
	return &MediaDownload{
		BaseCommand: *cor.NewBaseCommand(name),
		fetcher:     fetcher,
	}
}

// IsExecutable requires a submitted request and no already-saved flag.
func (c *MediaDownload) IsExecutable(chCtx cor.Context) bool {
	return chCtx.GetContext() != nil &&
		chCtx.Get(GetSourceRequestParamName()) != nil &&
		chCtx.Get(GetAlreadySavedParamName()) == nil
}

// Execute acquires the media asset for the submitted URL.
func (c *MediaDownload) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	request := chCtx.Get(GetSourceRequestParamName()).(*model.SourceRequest)

	asset := c.fetcher.Fetch(ctx, request.URL)
	if asset.HasVideo() {
		chCtx.AddTempFile(asset.LocalPath)
	}

	chCtx.Add(GetMediaAssetParamName(), asset)
	c.GetSuccessCounter().Add(ctx, 1)
}
