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

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/template"

	"github.com/khushrathi249/nexus-app/internal/cloud"
	"github.com/khushrathi249/nexus-app/internal/core/geo"
)

// GetConfig loads the layered TOML configuration.
func GetConfig() *cloud.Config {
	config := cloud.NewConfig()
	cloud.LoadConfig(config)
	return config
}

// SetupOS returns a context canceled by SIGINT or SIGTERM, driving graceful
// shutdown.
func SetupOS() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// NewAnalysisTemplate parses the configured analysis prompt template.
func NewAnalysisTemplate(config *cloud.Config) (*template.Template, error) {
	if config.PromptTemplates.AnalysisPrompt == "" {
		return nil, fmt.Errorf("prompt_templates.analysis is not configured")
	}
	return template.New("analysis").Parse(config.PromptTemplates.AnalysisPrompt)
}

// NewGeoResolver builds the geocoding waterfall from configuration. The
// key-authenticated provider leads when configured; the open provider is
// always present as the fallback.
func NewGeoResolver(config *cloud.Config) *geo.Resolver {
	var providers []geo.Provider
	if ola, ok := config.Geocoders["ola"]; ok && ola.APIKey != "" {
		providers = append(providers, geo.NewOlaProvider(&ola))
	}
	if nominatim, ok := config.Geocoders["nominatim"]; ok {
		providers = append(providers, geo.NewNominatimProvider(&nominatim))
	}
	return geo.NewResolver(providers...)
}
