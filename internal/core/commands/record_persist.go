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

package commands

import (
	"context"
	"log/slog"

	"github.com/khushrathi249/nexus-app/internal/core/cor"
	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// LinkSaver persists one link record.
type LinkSaver interface {
	Save(ctx context.Context, link *model.Link) error
}

// RecordPersist writes the assembled record to the store. A store failure is
// logged and counted but does not fail the run: the submitter still gets the
// enrichment outcome, and there is no retry or rollback.
type RecordPersist struct {
	cor.BaseCommand
	saver LinkSaver
}

// NewRecordPersist creates the persistence command.
func NewRecordPersist(name string, saver LinkSaver) *RecordPersist {
	return &RecordPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		saver:       saver,
	}
}

// IsExecutable requires an assembled record in the chain context.
func (c *RecordPersist) IsExecutable(chCtx cor.Context) bool {
	return chCtx.GetContext() != nil && chCtx.Get(GetRecordParamName()) != nil
}

// Execute saves the record.
func (c *RecordPersist) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	link := chCtx.Get(GetRecordParamName()).(*model.Link)

	if err := c.saver.Save(ctx, link); err != nil {
		slog.Error("failed to persist link", "link_id", link.Id, "url", link.URL, "error", err)
		c.GetErrorCounter().Add(ctx, 1)
		return
	}
	c.GetSuccessCounter().Add(ctx, 1)
}
