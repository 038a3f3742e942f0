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

// DuplicateChecker answers whether a user already saved a URL.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, url string, userID int64) (bool, error)
}

// DedupCheck asks the store whether the submitted (URL, user) pair was saved
// before, and on a hit raises the already-saved flag that makes every later
// command in the chain skip itself.
//
// The check is best-effort: a store error is logged and treated as "not a
// duplicate", because failing to re-save a link is worse than saving it
// twice.
type DedupCheck struct {
	cor.BaseCommand
	checker DuplicateChecker
}

// NewDedupCheck creates the deduplication command.
func NewDedupCheck(name string, checker DuplicateChecker) *DedupCheck {
	return &DedupCheck{
		BaseCommand: *cor.NewBaseCommand(name),
		checker:     checker,
	}
}

// IsExecutable requires a submitted request in the chain context.
func (c *DedupCheck) IsExecutable(chCtx cor.Context) bool {
	return chCtx.GetContext() != nil && chCtx.Get(GetSourceRequestParamName()) != nil
}

// Execute performs the duplicate lookup and raises the already-saved flag on
// a hit.
func (c *DedupCheck) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	request := chCtx.Get(GetSourceRequestParamName()).(*model.SourceRequest)

	duplicate, err := c.checker.IsDuplicate(ctx, request.URL, request.UserID)
	if err != nil {
		slog.Warn("duplicate check failed, continuing as new link",
			"url", request.URL, "user_id", request.UserID, "error", err)
		c.GetErrorCounter().Add(ctx, 1)
		duplicate = false
	}

	if duplicate {
		chCtx.Add(GetAlreadySavedParamName(), true)
	}
	c.GetSuccessCounter().Add(ctx, 1)
}
