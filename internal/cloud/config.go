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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for the external services the
// pipeline depends on: the Gemini API, the geocoding providers, and Postgres.
//
// Structs in this file:
//   - GenAI: Gemini API credentials and file-processing poll policy.
//   - AgentModel: a generative model configuration with fallback candidates.
//   - PromptTemplates: text templates for prompts sent to the model.
//   - Scraper: yt-dlp invocation and HTML-fallback policy.
//   - GeocoderProvider: one geocoding backend (endpoint, key, timeout).
//   - Database: Postgres connection settings.
//   - Config: the top-level aggregate.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings holds the non-restrictive content thresholds applied
// to every generation request. Submitted links are the user's own saved
// content, so nothing is blocked client-side.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// GenAI holds the Gemini API credentials and the policy for the
// upload-then-poll file processing protocol.
type GenAI struct {
	APIKey                 string `toml:"api_key"`                   // The Gemini API key. Fatal at startup when empty.
	ProbeModels            bool   `toml:"probe_models"`              // Whether to probe candidate models at startup.
	PollIntervalInSeconds  int    `toml:"poll_interval_in_seconds"`  // Interval between file-state polls.
	UploadTimeoutInSeconds int    `toml:"upload_timeout_in_seconds"` // Deadline for a file to leave the processing state.
}

// AgentModel represents the configuration for a generative model, including
// the ordered fallback candidates probed at startup.
type AgentModel struct {
	Model              string   `toml:"model"`               // The preferred model name.
	FallbackModels     []string `toml:"fallback_models"`     // Candidates tried in order when the preferred model is unavailable.
	SystemInstructions string   `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32  `toml:"temperature"`         // The temperature parameter.
	TopP               float32  `toml:"top_p"`               // The top_p parameter.
	TopK               float32  `toml:"top_k"`               // The top_k parameter.
	MaxTokens          int32    `toml:"max_tokens"`          // Maximum output tokens.
	OutputFormat       string   `toml:"output_format"`       // Desired response MIME type (e.g. "text/plain").
	RateLimit          int      `toml:"rate_limit"`          // Requests per second allowed for this model.
}

// PromptTemplates holds the templates for prompts sent to the model.
type PromptTemplates struct {
	AnalysisPrompt string `toml:"analysis"` // The template for the combined video analysis request.
}

// Scraper configures the media acquirer: the yt-dlp binary, the download
// caps, and the title-sanitization policy for the HTML fallback.
type Scraper struct {
	YtdlpPath         string   `toml:"ytdlp_path"`          // Path to the yt-dlp executable.
	Format            string   `toml:"format"`              // Preferred container selector, e.g. "best[ext=mp4]/best".
	MaxFileSizeMB     int      `toml:"max_file_size_mb"`    // Download size cap in megabytes.
	TimeoutInSeconds  int      `toml:"timeout_in_seconds"`  // Per-request timeout for the fallback page fetch.
	TempDir           string   `toml:"temp_dir"`            // Directory for per-request media files; empty means the OS default.
	PlaceholderTokens []string `toml:"placeholder_tokens"`  // Lowercase tokens that mark a title as a bare platform name.
}

// GeocoderProvider represents one geocoding backend.
type GeocoderProvider struct {
	BaseURL          string `toml:"base_url"`           // The provider's API base URL.
	APIKey           string `toml:"api_key"`            // API key, for key-authenticated providers.
	UserAgent        string `toml:"user_agent"`         // User-Agent header, required by the open provider.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per-call timeout.
}

// Database holds the Postgres connection settings.
type Database struct {
	URL string `toml:"url"` // The Postgres connection string. Fatal at startup when empty.
}

// Config is the overall application configuration, loaded from TOML files.
type Config struct {
	Application struct {
		Name           string `toml:"name"`             // The name of the application, used as the telemetry service name.
		ThreadPoolSize int    `toml:"thread_pool_size"` // Maximum concurrently running ingestion pipelines.
	} `toml:"application"`
	Database        Database                    `toml:"database"`
	GenAI           GenAI                       `toml:"genai"`
	PromptTemplates PromptTemplates             `toml:"prompt_templates"`
	Scraper         Scraper                     `toml:"scraper"`
	Geocoders       map[string]GeocoderProvider `toml:"geocoders"`    // Geocoding providers keyed by logical name ("ola", "nominatim").
	AgentModels     map[string]AgentModel       `toml:"agent_models"` // Generative models keyed by logical name ("video-analyzer").
}

// NewConfig creates a new Config with its map fields initialized, so the
// configuration loader never hits a nil map.
func NewConfig() *Config {
	return &Config{
		Geocoders:   make(map[string]GeocoderProvider),
		AgentModels: make(map[string]AgentModel),
	}
}
