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

// Package workflow assembles the pipeline commands into the link ingestion
// chain and runs it. One Run is one submission: deduplicate, acquire the
// media, analyze it, resolve the location, assemble the record, persist it,
// and report a receipt back to the submitter.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/khushrathi249/nexus-app/internal/core/commands"
	"github.com/khushrathi249/nexus-app/internal/core/cor"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// LinkStore is the persistence surface the workflow needs: the duplicate
// precheck and the insert.
type LinkStore interface {
	commands.DuplicateChecker
	commands.LinkSaver
}

// LinkIngestionWorkflow owns the ingestion chain and the worker slots that
// bound how many submissions run concurrently.
type LinkIngestionWorkflow struct {
	chain cor.Chain
	slots chan struct{}
}

// NewLinkIngestionWorkflow builds the ingestion chain over the given
// collaborators. poolSize bounds concurrent runs; zero or negative falls
// back to a small default.
func NewLinkIngestionWorkflow(
	poolSize int,
	store LinkStore,
	fetcher commands.MediaFetcher,
	analyzer commands.VideoAnalyzer,
	resolver commands.PlaceResolver) *LinkIngestionWorkflow {
	if poolSize <= 0 {
		poolSize = 4
	}
	return &LinkIngestionWorkflow{
		chain: initializeChain(store, fetcher, analyzer, resolver),
		slots: make(chan struct{}, poolSize),
	}
}

// initializeChain wires the commands in pipeline order. Short-circuits run
// through IsExecutable gating, not chain errors: a duplicate submission
// raises a flag that makes every later command skip itself, and the geocoder
// only runs when the analysis recognized a location name.
func initializeChain(
	store LinkStore,
	fetcher commands.MediaFetcher,
	analyzer commands.VideoAnalyzer,
	resolver commands.PlaceResolver) cor.Chain {
	chain := cor.NewBaseChain("link_ingestion")
	chain.AddCommand(commands.NewDedupCheck("dedup_check", store))
	chain.AddCommand(commands.NewMediaDownload("media_download", fetcher))
	chain.AddCommand(commands.NewMediaAnalyze("media_analyze", analyzer))
	chain.AddCommand(commands.NewGeoResolve("geo_resolve", resolver))
	chain.AddCommand(commands.NewRecordAssembly("record_assembly"))
	chain.AddCommand(commands.NewRecordPersist("record_persist", store))
	return chain
}

// Run executes one ingestion. It blocks while all worker slots are busy, so
// the configured pool size caps the number of downloads and model calls in
// flight at once.
func (w *LinkIngestionWorkflow) Run(ctx context.Context, request *model.SourceRequest) (*model.Receipt, error) {
	select {
	case w.slots <- struct{}{}:
		defer func() { <-w.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(commands.GetSourceRequestParamName(), request)
	defer chCtx.Close()

	w.chain.Execute(chCtx)

	if chCtx.Get(commands.GetAlreadySavedParamName()) != nil {
		return model.NewReceipt(model.ReceiptAlreadySaved, nil), nil
	}

	if chCtx.HasErrors() {
		errs := make([]error, 0, len(chCtx.GetErrors()))
		for name, err := range chCtx.GetErrors() {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return nil, errors.Join(errs...)
	}

	link, ok := chCtx.Get(commands.GetRecordParamName()).(*model.Link)
	if !ok {
		return nil, fmt.Errorf("ingestion produced no record for %s", request.URL)
	}
	return model.NewReceipt(model.ReceiptSaved, link), nil
}
