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

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khushrathi249/nexus-app/internal/cloud"
)

func TestQueryAttempts(t *testing.T) {
	assert.Equal(t,
		[]string{"Blue Tokai, Bandra, Mumbai", "Blue Tokai, Bandra", "Blue Tokai"},
		queryAttempts("Blue Tokai, Bandra, Mumbai"))

	assert.Equal(t,
		[]string{"Goa, India", "Goa"},
		queryAttempts("Goa, India"))

	assert.Equal(t, []string{"Mumbai"}, queryAttempts("Mumbai"))
}

func TestResolverPrefersPrimaryProvider(t *testing.T) {
	var olaCalls, nominatimCalls int

	olaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		olaCalls++
		w.Write([]byte(`{"geocodingResults":[{"geometry":{"location":{"lat":18.922,"lng":72.8347}}}]}`))
	}))
	defer olaServer.Close()

	nominatimServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nominatimCalls++
		w.Write([]byte(`[{"lat":"1.0","lon":"2.0"}]`))
	}))
	defer nominatimServer.Close()

	resolver := NewResolver(
		NewOlaProvider(&cloud.GeocoderProvider{BaseURL: olaServer.URL, APIKey: "k"}),
		NewNominatimProvider(&cloud.GeocoderProvider{BaseURL: nominatimServer.URL, UserAgent: "test"}),
	)

	point := resolver.Resolve(context.Background(), "Gateway of India, Mumbai")
	require.NotNil(t, point)
	assert.Equal(t, 18.922, point.Latitude)
	assert.Equal(t, 1, olaCalls)
	assert.Equal(t, 0, nominatimCalls)
}

func TestResolverFallsThroughOnPrimaryFailure(t *testing.T) {
	olaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer olaServer.Close()

	nominatimServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"15.2993","lon":"74.1240"}]`))
	}))
	defer nominatimServer.Close()

	resolver := NewResolver(
		NewOlaProvider(&cloud.GeocoderProvider{BaseURL: olaServer.URL, APIKey: "k"}),
		NewNominatimProvider(&cloud.GeocoderProvider{BaseURL: nominatimServer.URL, UserAgent: "test-agent"}),
	)

	point := resolver.Resolve(context.Background(), "Goa")
	require.NotNil(t, point)
	assert.Equal(t, 15.2993, point.Latitude)
	assert.Equal(t, 74.1240, point.Longitude)
}

func TestNominatimShortensVenueQueries(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if q == "Blue Tokai" {
			w.Write([]byte(`[{"lat":"19.0596","lon":"72.8295"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := NewNominatimProvider(&cloud.GeocoderProvider{BaseURL: server.URL, UserAgent: "test"})
	point, err := provider.Geocode(context.Background(), "Blue Tokai, Bandra, Mumbai")

	require.NoError(t, err)
	require.NotNil(t, point)
	assert.Equal(t, 19.0596, point.Latitude)
	assert.Equal(t, []string{"Blue Tokai, Bandra, Mumbai", "Blue Tokai, Bandra", "Blue Tokai"}, queries)
}

func TestResolverTotalMissReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	resolver := NewResolver(
		NewNominatimProvider(&cloud.GeocoderProvider{BaseURL: server.URL, UserAgent: "test"}),
	)
	assert.Nil(t, resolver.Resolve(context.Background(), "Atlantis"))
	assert.Nil(t, resolver.Resolve(context.Background(), ""))
}
