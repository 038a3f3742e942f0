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

package services

// SQL statements for the links table.
const (
	createLinksTable = `
CREATE TABLE IF NOT EXISTS links (
    id            UUID PRIMARY KEY,
    url           TEXT NOT NULL,
    user_id       BIGINT NOT NULL,
    title         TEXT NOT NULL,
    category      TEXT NOT NULL,
    summary       TEXT,
    image_url     TEXT,
    location_name TEXT,
    latitude      DOUBLE PRECISION,
    longitude     DOUBLE PRECISION,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	createLinksUserIndex = `
CREATE INDEX IF NOT EXISTS idx_links_user_url ON links (user_id, url)`

	countLinkByURLAndUser = `
SELECT count(*) FROM links WHERE url = $1 AND user_id = $2`

	insertLink = `
INSERT INTO links (id, url, user_id, title, category, summary, image_url, location_name, latitude, longitude, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	searchLinks = `
SELECT id, url, user_id, title, category, summary, image_url, location_name, latitude, longitude, created_at
FROM links
WHERE user_id = $1
  AND (title ILIKE $2 OR summary ILIKE $2 OR category ILIKE $2 OR location_name ILIKE $2)
ORDER BY created_at DESC
LIMIT $3`
)
