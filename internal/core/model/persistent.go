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

// Package model defines the data objects of the link ingestion pipeline.
// This file holds Link, the persisted record.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Link is the persisted outcome of one successful ingestion. Its Id is
// deterministic in (URL, UserID), so re-submitting the same link from the
// same user maps to the same record identity.
type Link struct {
	Id           string    `json:"id"`
	URL          string    `json:"url"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Summary      string    `json:"summary,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLink creates a Link with its deterministic identity and creation time
// set. Content fields are filled in by the assembly stage.
func NewLink(url string, userID int64) *Link {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s:%d", url, userID)))
	return &Link{
		Id:        id.String(),
		URL:       url,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// SetCoordinates stores a coordinate pair on the record.
func (l *Link) SetCoordinates(point *GeoPoint) {
	if point == nil {
		return
	}
	lat, lon := point.Latitude, point.Longitude
	l.Latitude = &lat
	l.Longitude = &lon
}

// HasCoordinates reports whether the record carries a full coordinate pair.
func (l *Link) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
