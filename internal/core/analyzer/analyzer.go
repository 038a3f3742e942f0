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

// Package analyzer turns a downloaded video and its metadata into a
// structured Analysis using a multimodal generative model. This file drives
// the Files API protocol: upload the local video, poll until the remote copy
// is active, send one combined analysis request, and delete the remote copy.
//
// Analysis is total. Upload failures, processing timeouts, generation errors,
// and unreadable replies all collapse into the failure analysis (the scraped
// title with AnalysisFailedSummary in the default category) rather than an
// error, so a link is always saved in some form.
package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/khushrathi249/nexus-app/internal/cloud"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// PromptValues carries the metadata interpolated into the analysis prompt.
type PromptValues struct {
	Title       string
	Description string
	URL         string
}

// Analyzer sends videos to a multimodal model and parses the replies.
type Analyzer struct {
	files  cloud.FileService
	model  cloud.ContentGenerator
	prompt *template.Template
	poll   cloud.PollPolicy
	logger *slog.Logger

	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewAnalyzer wires an Analyzer to its file service, model handle, and
// parsed prompt template.
func NewAnalyzer(files cloud.FileService, generator cloud.ContentGenerator, prompt *template.Template, poll cloud.PollPolicy) *Analyzer {
	meter := otel.Meter("github.com/khushrathi249/nexus-app/analyzer")
	inputTokens, err := meter.Int64Counter("analyzer.tokens.input")
	if err != nil {
		slog.Warn("failed to create input token counter", "error", err)
	}
	outputTokens, err := meter.Int64Counter("analyzer.tokens.output")
	if err != nil {
		slog.Warn("failed to create output token counter", "error", err)
	}
	retries, err := meter.Int64Counter("analyzer.generate.retries")
	if err != nil {
		slog.Warn("failed to create retry counter", "error", err)
	}

	return &Analyzer{
		files:              files,
		model:              generator,
		prompt:             prompt,
		poll:               poll,
		logger:             slog.Default().With("component", "analyzer"),
		inputTokenCounter:  inputTokens,
		outputTokenCounter: outputTokens,
		retryCounter:       retries,
	}
}

// Analyze runs the full analysis protocol for an asset that has a local
// video file. The returned Analysis always carries the asset's title; only
// the classified fields come from the model.
func (a *Analyzer) Analyze(ctx context.Context, asset *model.MediaAsset, url string) *model.Analysis {
	analysis, err := a.analyze(ctx, asset, url)
	if err != nil {
		a.logger.Warn("analysis failed", "url", url, "error", err)
		return &model.Analysis{
			Title:       asset.Title,
			Category:    model.DefaultCategory,
			Summary:     model.AnalysisFailedSummary,
			Recognition: model.RecognitionNone,
		}
	}
	return analysis
}

func (a *Analyzer) analyze(ctx context.Context, asset *model.MediaAsset, url string) (*model.Analysis, error) {
	var promptText bytes.Buffer
	err := a.prompt.Execute(&promptText, &PromptValues{
		Title:       asset.Title,
		Description: asset.Description,
		URL:         url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render analysis prompt: %w", err)
	}

	remote, err := a.files.Upload(ctx, asset.LocalPath, asset.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	// The poll loop below reassigns remote and returns nil on failure, so the
	// cleanup holds on to the uploaded name instead.
	remoteName := remote.Name
	defer func() {
		if err := a.files.Delete(ctx, remoteName); err != nil {
			a.logger.Warn("failed to delete remote file", "file", remoteName, "error", err)
		}
	}()

	remote, err = a.awaitProcessing(ctx, remote)
	if err != nil {
		return nil, err
	}

	fileData := cloud.NewFileData(remote.URI, asset.MIMEType)
	content := cloud.NewTextPart(promptText.String())
	content[0].Parts = append(content[0].Parts, &genai.Part{FileData: &fileData})

	reply, err := cloud.GenerateMultiModalResponse(ctx,
		a.inputTokenCounter, a.outputTokenCounter, a.retryCounter, 0, a.model, content)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	parsed := ParseReply(reply)
	if parsed.Recognition != model.RecognitionFull {
		a.logger.Info("model reply only partially recognized",
			"url", url, "recognition", parsed.Recognition.String(), "missing", parsed.Missing)
	}

	return &model.Analysis{
		Title:        asset.Title,
		Category:     parsed.Category,
		Summary:      parsed.Summary,
		LocationName: parsed.LocationName,
		Coordinates:  parsed.Coordinates,
		Recognition:  parsed.Recognition,
		Missing:      parsed.Missing,
		Raw:          reply,
	}, nil
}

// awaitProcessing polls the remote file until it leaves the processing state.
// The poll loop is bounded by the configured deadline so a stuck file fails
// the analysis instead of pinning a worker.
func (a *Analyzer) awaitProcessing(ctx context.Context, remote *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(a.poll.Deadline)
	for remote.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("file %s still processing after %s", remote.Name, a.poll.Deadline)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.poll.Interval):
		}
		var err error
		remote, err = a.files.Get(ctx, remote.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to poll file state: %w", err)
		}
	}
	if remote.State == genai.FileStateFailed {
		return nil, fmt.Errorf("remote processing failed for file %s", remote.Name)
	}
	return remote, nil
}
