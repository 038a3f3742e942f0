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

package cloud_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/khushrathi249/nexus-app/internal/cloud"
)

const baseToml = `
[application]
name = "nexus-app"
thread_pool_size = 4

[genai]
api_key = ""
poll_interval_in_seconds = 2

[geocoders.nominatim]
base_url = "https://nominatim.openstreetmap.org"
user_agent = "NexusBot_v1"
timeout_in_seconds = 5
`

const overlayToml = `
[application]
name = "nexus-app-test"

[genai]
api_key = "test-key"
`

func TestLoadConfigOverlaysRuntimeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(overlayToml), 0o644))

	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "test")

	config := cloud.NewConfig()
	cloud.LoadConfig(config)

	// Overlay values win.
	assert.Equal(t, "nexus-app-test", config.Application.Name)
	assert.Equal(t, "test-key", config.GenAI.APIKey)

	// Base values the overlay does not mention survive.
	assert.Equal(t, 4, config.Application.ThreadPoolSize)
	assert.Equal(t, 2, config.GenAI.PollIntervalInSeconds)
	assert.Equal(t, "NexusBot_v1", config.Geocoders["nominatim"].UserAgent)
}

// flakyGenerator fails a fixed number of times before answering.
type flakyGenerator struct {
	failures int
	calls    int
	reply    string
}

func (g *flakyGenerator) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	g.calls++
	if g.calls <= g.failures {
		return nil, fmt.Errorf("transient error %d", g.calls)
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: g.reply}}}},
		},
	}, nil
}

func testCounters(t *testing.T) (metric.Int64Counter, metric.Int64Counter, metric.Int64Counter) {
	t.Helper()
	meter := otel.Meter("test")
	input, err := meter.Int64Counter("input")
	require.NoError(t, err)
	output, err := meter.Int64Counter("output")
	require.NoError(t, err)
	retries, err := meter.Int64Counter("retries")
	require.NoError(t, err)
	return input, output, retries
}

func TestGenerateMultiModalResponseRetriesTransientFailures(t *testing.T) {
	input, output, retries := testCounters(t)
	generator := &flakyGenerator{failures: 2, reply: "CATEGORY: Tech"}

	value, err := cloud.GenerateMultiModalResponse(context.Background(),
		input, output, retries, 0, generator, genai.Text("prompt"))

	require.NoError(t, err)
	assert.Equal(t, "CATEGORY: Tech", value)
	assert.Equal(t, 3, generator.calls)
}

func TestGenerateMultiModalResponseGivesUpAfterMaxRetries(t *testing.T) {
	input, output, retries := testCounters(t)
	generator := &flakyGenerator{failures: 10}

	_, err := cloud.GenerateMultiModalResponse(context.Background(),
		input, output, retries, 0, generator, genai.Text("prompt"))

	require.Error(t, err)
	assert.Equal(t, cloud.MaxRetries+1, generator.calls)
}

func TestGenerateMultiModalResponseStripsCodeFences(t *testing.T) {
	input, output, retries := testCounters(t)
	generator := &flakyGenerator{reply: "```\nCATEGORY: Tech\n```"}

	value, err := cloud.GenerateMultiModalResponse(context.Background(),
		input, output, retries, 0, generator, genai.Text("prompt"))

	require.NoError(t, err)
	assert.Equal(t, "CATEGORY: Tech", value)
}
