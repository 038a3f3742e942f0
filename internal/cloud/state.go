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
// This file defines ServiceClients, the container for the long-lived clients
// the application shares across requests, and the startup sequence that
// validates credentials and probes for a working generative model.
package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/genai"
)

// VideoAnalyzerModel is the logical name of the model configuration used for
// combined video analysis.
const VideoAnalyzerModel = "video-analyzer"

// ServiceClients holds the initialized, long-lived clients for external
// services. One instance is created at startup and shared by all requests.
type ServiceClients struct {
	GenAIClient *genai.Client                           // The Gemini API client.
	Files       FileService                             // File upload, poll, and delete operations.
	Pool        *pgxpool.Pool                           // The Postgres connection pool.
	AgentModels map[string]*QuotaAwareGenerativeAIModel // Probed model handles keyed by logical name.
}

// Close releases the database pool. The Gemini client holds no persistent
// connection and needs no teardown.
func (sc *ServiceClients) Close() {
	if sc.Pool != nil {
		sc.Pool.Close()
	}
}

// NewServiceClients validates the configuration and builds the shared client
// container. Missing credentials are startup failures, not runtime ones.
//
// For each configured agent model the candidate list (the preferred model
// followed by its fallbacks) is probed with a trivial generation request, and
// the first candidate that answers becomes the handle for that logical name.
// Probing can be disabled for offline environments, in which case the
// preferred model is taken on faith.
func NewServiceClients(ctx context.Context, cfg *Config) (*ServiceClients, error) {
	if cfg.GenAI.APIKey == "" {
		return nil, fmt.Errorf("genai api_key is not configured")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GenAI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	clients := &ServiceClients{
		GenAIClient: client,
		Files:       &GenAIFileService{Client: client},
		Pool:        pool,
		AgentModels: make(map[string]*QuotaAwareGenerativeAIModel),
	}

	for name, agent := range cfg.AgentModels {
		modelName, err := resolveModel(ctx, client, &agent, cfg.GenAI.ProbeModels)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("no usable model for agent %q: %w", name, err)
		}
		generateConfig := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(agent.Temperature),
			TopP:            genai.Ptr(agent.TopP),
			TopK:            genai.Ptr(agent.TopK),
			MaxOutputTokens: agent.MaxTokens,
			SafetySettings:  DefaultSafetySettings,
		}
		if agent.OutputFormat != "" {
			generateConfig.ResponseMIMEType = agent.OutputFormat
		}
		if agent.SystemInstructions != "" {
			generateConfig.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: agent.SystemInstructions}},
			}
		}
		clients.AgentModels[name] = NewQuotaAwareModel(client, modelName, generateConfig, agent.RateLimit)
		slog.Info("agent model resolved", "agent", name, "model", modelName)
	}

	return clients, nil
}

// resolveModel walks the candidate model names in order and returns the first
// one that responds to a trivial generation request. With probing disabled
// the preferred name is returned unverified.
func resolveModel(ctx context.Context, client *genai.Client, agent *AgentModel, probe bool) (string, error) {
	candidates := append([]string{agent.Model}, agent.FallbackModels...)
	if !probe {
		return candidates[0], nil
	}

	var lastErr error
	for _, candidate := range candidates {
		_, err := client.Models.GenerateContent(ctx, candidate, genai.Text("ping"), nil)
		if err == nil {
			return candidate, nil
		}
		slog.Warn("model probe failed, trying next candidate", "model", candidate, "error", err)
		lastErr = err
	}
	return "", fmt.Errorf("all candidate models failed, last error: %w", lastErr)
}
