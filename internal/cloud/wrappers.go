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

// Package cloud provides configuration loading and external-service clients.
// This file defines the seams between the pipeline and the Gemini API:
//
//   - ContentGenerator: the minimal generation interface commands depend on,
//     satisfied by QuotaAwareGenerativeAIModel in production and by fakes in
//     tests.
//   - QuotaAwareGenerativeAIModel: a model handle that enforces a client-side
//     rate limit before every request, so parallel pipeline runs share one
//     quota budget instead of racing for it.
//   - FileService: the upload, poll, and delete protocol for media files,
//     satisfied by GenAIFileService in production.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the generation seam the pipeline commands depend on.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel wraps a model name and generation configuration
// with a client-side rate limiter. Every request waits for a limiter token
// before reaching the API, so concurrent pipeline runs degrade to queuing
// rather than quota errors.
type QuotaAwareGenerativeAIModel struct {
	client         *genai.Client
	modelName      string
	generateConfig *genai.GenerateContentConfig
	limiter        *rate.Limiter
}

// NewQuotaAwareModel wraps the given model selection in a rate limiter that
// allows requestsPerSecond sustained requests with a burst of one.
func NewQuotaAwareModel(client *genai.Client, modelName string, config *genai.GenerateContentConfig, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		client:         client,
		modelName:      modelName,
		generateConfig: config,
		limiter:        rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// ModelName returns the resolved model name behind this handle.
func (q *QuotaAwareGenerativeAIModel) ModelName() string {
	return q.modelName
}

// GenerateContent blocks until the limiter grants a token, then forwards the
// request to the underlying model.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return q.client.Models.GenerateContent(ctx, q.modelName, content, q.generateConfig)
}

// FileService is the file-handling seam the pipeline commands depend on. It
// mirrors the Gemini Files API protocol: upload a local file, poll its
// processing state, and delete the remote copy when done.
type FileService interface {
	Upload(ctx context.Context, path string, mimeType string) (*genai.File, error)
	Get(ctx context.Context, name string) (*genai.File, error)
	Delete(ctx context.Context, name string) error
}

// GenAIFileService implements FileService against the Gemini Files API.
type GenAIFileService struct {
	Client *genai.Client
}

// Upload sends a local file to the Files API and returns the remote handle.
func (s *GenAIFileService) Upload(ctx context.Context, path string, mimeType string) (*genai.File, error) {
	return s.Client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
}

// Get fetches the current remote state of an uploaded file.
func (s *GenAIFileService) Get(ctx context.Context, name string) (*genai.File, error) {
	return s.Client.Files.Get(ctx, name, nil)
}

// Delete removes an uploaded file from the Files API.
func (s *GenAIFileService) Delete(ctx context.Context, name string) error {
	_, err := s.Client.Files.Delete(ctx, name, nil)
	return err
}

// PollPolicy describes how long to wait for an uploaded file to become
// active, derived from the GenAI configuration section.
type PollPolicy struct {
	Interval time.Duration // Pause between state checks.
	Deadline time.Duration // Total time allowed in the processing state.
}

// NewPollPolicy converts the configured second counts into durations,
// substituting safe values when the configuration leaves them zero.
func NewPollPolicy(cfg *GenAI) PollPolicy {
	policy := PollPolicy{
		Interval: time.Duration(cfg.PollIntervalInSeconds) * time.Second,
		Deadline: time.Duration(cfg.UploadTimeoutInSeconds) * time.Second,
	}
	if policy.Interval <= 0 {
		policy.Interval = 2 * time.Second
	}
	if policy.Deadline <= 0 {
		policy.Deadline = 5 * time.Minute
	}
	return policy
}
