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
// This file contains the hierarchical TOML configuration loader and the
// resilient helper for multimodal generation requests.
//
// Functions:
//   - LoadConfig: reads a base configuration file, then overlays an
//     environment-specific file (.env.local.toml, .env.test.toml) selected by
//     an environment variable.
//   - GenerateMultiModalResponse: executes a generation request with retries
//     and OpenTelemetry token accounting, returning the concatenated text.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// Constants for configuration loading and API retry policy.
const (
	ConfigFileBaseName  = ".env"                // Base name for configuration files (".env.toml").
	ConfigFileExtension = ".toml"               // File extension for configuration files.
	ConfigSeparator     = "."                   // Separator in overlay file names (".env.local.toml").
	EnvConfigFilePrefix = "NEXUS_CONFIG_PREFIX" // Environment variable naming the config directory.
	EnvConfigRuntime    = "NEXUS_RUNTIME"       // Environment variable naming the runtime ("local", "test", "prod").
	MaxRetries          = 3                     // Maximum retries for a failed generation call.
)

// fileExists reports whether a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file and then overlays
// the environment-specific file, so runtime environments only need to declare
// the values they change. Both file locations derive from environment
// variables; the runtime defaults to "test".
//
// Inputs:
//   - baseConfig: a pointer to the target configuration struct.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// GenerateMultiModalResponse executes a multimodal request against a
// generative model with bounded retries and token accounting.
//
// Inputs:
//   - ctx: the request context.
//   - inputTokenCounter: counter for prompt tokens used.
//   - outputTokenCounter: counter for response tokens generated.
//   - retryCounter: counter for retry attempts.
//   - tryCount: the current attempt number (starts at 0).
//   - model: the generation handle (rate-limited model or a test fake).
//   - content: the multimodal request content.
//
// Outputs:
//   - string: the concatenated text of the model's response.
//   - error: an error when the request fails after all retries.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model ContentGenerator,
	content []*genai.Content) (value string, err error) {
	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		if tryCount < MaxRetries {
			retryCounter.Add(ctx, 1)
			return GenerateMultiModalResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, content)
		}
		return "", err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value = ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += fmt.Sprint(part.Text)
			}
		}
	}
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value), nil
}

// NewTextPart builds a text-only content slice for a generation request.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

// NewFileData builds a file reference part for a generation request.
func NewFileData(in string, mimeType string) genai.FileData {
	return genai.FileData{FileURI: in, MIMEType: mimeType}
}
