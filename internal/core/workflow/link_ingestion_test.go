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

package workflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khushrathi249/nexus-app/internal/core/model"
	"github.com/khushrathi249/nexus-app/internal/core/workflow"
)

type fakeStore struct {
	duplicate bool
	dupErr    error
	saveErr   error
	saved     []*model.Link
}

func (s *fakeStore) IsDuplicate(_ context.Context, _ string, _ int64) (bool, error) {
	return s.duplicate, s.dupErr
}

func (s *fakeStore) Save(_ context.Context, link *model.Link) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, link)
	return nil
}

type fakeFetcher struct {
	asset *model.MediaAsset
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) *model.MediaAsset {
	f.calls++
	return f.asset
}

type fakeAnalyzer struct {
	analysis *model.Analysis
	calls    int
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ *model.MediaAsset, _ string) *model.Analysis {
	a.calls++
	return a.analysis
}

type fakeResolver struct {
	point   *model.GeoPoint
	queries []string
}

func (r *fakeResolver) Resolve(_ context.Context, locationName string) *model.GeoPoint {
	r.queries = append(r.queries, locationName)
	return r.point
}

func videoAsset() *model.MediaAsset {
	return &model.MediaAsset{
		Title:        "Street Food Tour",
		Description:  "Five stalls in one evening.",
		ThumbnailURL: "https://cdn.example.com/thumb.jpg",
		LocalPath:    "/tmp/does-not-exist.mp4",
		MIMEType:     "video/mp4",
	}
}

func request() *model.SourceRequest {
	return &model.SourceRequest{URL: "https://example.com/reel/42", UserID: 7}
}

func TestRunSavesFullyAnalyzedLink(t *testing.T) {
	store := &fakeStore{}
	resolver := &fakeResolver{point: &model.GeoPoint{Latitude: 19.05, Longitude: 72.82}}
	analysis := &model.Analysis{
		Title:        "Street Food Tour",
		Category:     "Food",
		Summary:      "Five stalls in one evening.",
		LocationName: "Mohammed Ali Road, Mumbai",
		Recognition:  model.RecognitionFull,
	}
	w := workflow.NewLinkIngestionWorkflow(1, store,
		&fakeFetcher{asset: videoAsset()},
		&fakeAnalyzer{analysis: analysis},
		resolver,
	)

	receipt, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, model.ReceiptSaved, receipt.State)
	assert.Equal(t, "Street Food Tour", receipt.Title)
	assert.Equal(t, "Food", receipt.Category)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", receipt.ImageURL)

	require.Len(t, store.saved, 1)
	link := store.saved[0]
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", link.ImageURL)
	assert.Equal(t, "Mohammed Ali Road, Mumbai", link.LocationName)
	require.True(t, link.HasCoordinates())
	assert.Equal(t, 19.05, *link.Latitude)
	assert.Equal(t, []string{"Mohammed Ali Road, Mumbai"}, resolver.queries)
}

func TestRunReportsDuplicateWithoutFetching(t *testing.T) {
	store := &fakeStore{duplicate: true}
	fetcher := &fakeFetcher{asset: videoAsset()}
	analyzer := &fakeAnalyzer{analysis: &model.Analysis{}}
	w := workflow.NewLinkIngestionWorkflow(1, store, fetcher, analyzer, &fakeResolver{})

	receipt, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, model.ReceiptAlreadySaved, receipt.State)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, analyzer.calls)
	assert.Empty(t, store.saved)
}

func TestRunDuplicateCheckErrorTreatedAsNewLink(t *testing.T) {
	store := &fakeStore{dupErr: fmt.Errorf("connection refused")}
	analysis := &model.Analysis{Title: "Street Food Tour", Category: "Food", Recognition: model.RecognitionFull}
	w := workflow.NewLinkIngestionWorkflow(1, store,
		&fakeFetcher{asset: videoAsset()},
		&fakeAnalyzer{analysis: analysis},
		&fakeResolver{},
	)

	receipt, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, model.ReceiptSaved, receipt.State)
	require.Len(t, store.saved, 1)
}

func TestRunSavesLinkWhenDownloadFails(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{analysis: &model.Analysis{}}
	resolver := &fakeResolver{point: &model.GeoPoint{Latitude: 1, Longitude: 2}}
	asset := &model.MediaAsset{Title: "Hidden Waterfall Hike", Description: "Trail notes."}
	w := workflow.NewLinkIngestionWorkflow(1, store, &fakeFetcher{asset: asset}, analyzer, resolver)

	receipt, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, model.ReceiptSaved, receipt.State)
	assert.Equal(t, "Hidden Waterfall Hike", receipt.Title)
	assert.Equal(t, model.DefaultCategory, receipt.Category)
	assert.Equal(t, model.DownloadFailedSummary, receipt.Summary)

	// No analysis ran, so there is no location to resolve.
	assert.Equal(t, 0, analyzer.calls)
	assert.Empty(t, resolver.queries)
	require.Len(t, store.saved, 1)
	assert.False(t, store.saved[0].HasCoordinates())
}

func TestRunUsesModelCoordinatesWhenGeocoderMisses(t *testing.T) {
	store := &fakeStore{}
	analysis := &model.Analysis{
		Title:        "Cliff Jump Spot",
		Category:     "Travel",
		LocationName: "Unnamed Cove, Gokarna",
		Coordinates:  &model.GeoPoint{Latitude: 14.54, Longitude: 74.31},
		Recognition:  model.RecognitionFull,
	}
	w := workflow.NewLinkIngestionWorkflow(1, store,
		&fakeFetcher{asset: videoAsset()},
		&fakeAnalyzer{analysis: analysis},
		&fakeResolver{point: nil},
	)

	_, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	require.True(t, store.saved[0].HasCoordinates())
	assert.Equal(t, 14.54, *store.saved[0].Latitude)
}

func TestRunSkipsGeocodingWithoutLocationName(t *testing.T) {
	store := &fakeStore{}
	resolver := &fakeResolver{point: &model.GeoPoint{Latitude: 1, Longitude: 2}}
	analysis := &model.Analysis{Title: "Desk Setup", Category: "Tech", Recognition: model.RecognitionFull}
	w := workflow.NewLinkIngestionWorkflow(1, store,
		&fakeFetcher{asset: videoAsset()},
		&fakeAnalyzer{analysis: analysis},
		resolver,
	)

	_, err := w.Run(context.Background(), request())
	require.NoError(t, err)

	assert.Empty(t, resolver.queries)
	require.Len(t, store.saved, 1)
	assert.False(t, store.saved[0].HasCoordinates())
}

func TestRunStillReportsSavedWhenPersistenceFails(t *testing.T) {
	store := &fakeStore{saveErr: fmt.Errorf("disk full")}
	analysis := &model.Analysis{Title: "Street Food Tour", Category: "Food", Recognition: model.RecognitionFull}
	w := workflow.NewLinkIngestionWorkflow(1, store,
		&fakeFetcher{asset: videoAsset()},
		&fakeAnalyzer{analysis: analysis},
		&fakeResolver{},
	)

	receipt, err := w.Run(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptSaved, receipt.State)
	assert.Empty(t, store.saved)
}

func TestRunDeterministicRecordIdentity(t *testing.T) {
	analysis := &model.Analysis{Title: "Street Food Tour", Category: "Food", Recognition: model.RecognitionFull}
	newWorkflow := func(store *fakeStore) *workflow.LinkIngestionWorkflow {
		return workflow.NewLinkIngestionWorkflow(1, store,
			&fakeFetcher{asset: videoAsset()},
			&fakeAnalyzer{analysis: analysis},
			&fakeResolver{},
		)
	}

	first := &fakeStore{}
	second := &fakeStore{}
	_, err := newWorkflow(first).Run(context.Background(), request())
	require.NoError(t, err)
	_, err = newWorkflow(second).Run(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, first.saved[0].Id, second.saved[0].Id)
}
