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

// Package testutil provides shared helpers for package tests: configuration
// loading pinned to the test runtime and canned model replies in the
// labeled-line layout.
package testutil

import (
	"os"

	"github.com/khushrathi249/nexus-app/internal/cloud"
)

// Canned model replies covering the reply grades the parser distinguishes.
const (
	// FullReply carries every expected label.
	FullReply = `CATEGORY: Travel
LOCATION_NAME: Gateway of India, Mumbai
COORDINATES: 18.9220, 72.8347
SUMMARY: A walking tour of the monument at sunrise with entry timings.`

	// PartialReply omits the coordinates line.
	PartialReply = `CATEGORY: Food
LOCATION_NAME: Blue Tokai, Bandra
SUMMARY: A review of the pour-over menu and seating.`

	// ProseReply has no labels at all.
	ProseReply = `This clip shows a street musician playing near a fountain.`
)

// LoadConfig loads the layered configuration with the test runtime forced,
// using the given prefix to reach the configs directory from the calling
// package.
func LoadConfig(prefix string) *cloud.Config {
	os.Setenv(cloud.EnvConfigFilePrefix, prefix)
	os.Setenv(cloud.EnvConfigRuntime, "test")
	config := cloud.NewConfig()
	cloud.LoadConfig(config)
	return config
}
