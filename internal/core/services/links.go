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

// Package services contains the persistence layer for saved links, built on
// a pgx connection pool.
package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// DefaultSearchLimit bounds a search result set when the caller does not.
const DefaultSearchLimit = 25

// LinkService persists and queries saved links.
type LinkService struct {
	pool *pgxpool.Pool
}

// NewLinkService wraps the shared connection pool.
func NewLinkService(pool *pgxpool.Pool) *LinkService {
	return &LinkService{pool: pool}
}

// EnsureSchema creates the links table and its indexes when absent. Called
// once at startup.
func (s *LinkService) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createLinksTable); err != nil {
		return fmt.Errorf("failed to create links table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, createLinksUserIndex); err != nil {
		return fmt.Errorf("failed to create links index: %w", err)
	}
	return nil
}

// IsDuplicate reports whether this user already saved this URL. The check is
// a best-effort precheck: two submissions racing through the pipeline can
// both pass it, but the record id is deterministic in (url, user_id) and is
// the primary key, so the later insert fails and is only logged.
func (s *LinkService) IsDuplicate(ctx context.Context, url string, userID int64) (bool, error) {
	var count int
	err := s.pool.QueryRow(ctx, countLinkByURLAndUser, url, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}
	return count > 0, nil
}

// Save inserts one link record.
func (s *LinkService) Save(ctx context.Context, link *model.Link) error {
	_, err := s.pool.Exec(ctx, insertLink,
		link.Id, link.URL, link.UserID, link.Title, link.Category, link.Summary,
		link.ImageURL, link.LocationName, link.Latitude, link.Longitude, link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save link %s: %w", link.Id, err)
	}
	return nil
}

// Search returns the user's saved links whose title, summary, category, or
// location matches the query, newest first.
func (s *LinkService) Search(ctx context.Context, userID int64, query string, limit int) ([]*model.Link, error) {
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}
	rows, err := s.pool.Query(ctx, searchLinks, userID, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var links []*model.Link
	for rows.Next() {
		link := &model.Link{}
		err := rows.Scan(&link.Id, &link.URL, &link.UserID, &link.Title, &link.Category, &link.Summary,
			&link.ImageURL, &link.LocationName, &link.Latitude, &link.Longitude, &link.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
