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
// This file holds the transient objects: values passed between pipeline
// stages that are never persisted in their own right.
package model

import "unicode/utf8"

// Titles and categories substituted when a stage cannot produce a real value.
// Downstream stages and clients match on these exact strings.
const (
	// RestrictedTitle marks content whose page metadata could not be read at
	// all, typically login-walled posts.
	RestrictedTitle = "Saved Link (Restricted)"

	// AnalysisFailedSummary is stored as the summary of a link whose
	// analysis produced nothing usable. The title keeps the scraped value.
	AnalysisFailedSummary = "Analysis Failed"

	// DownloadFailedSummary is stored as the summary of a link whose media
	// could not be downloaded, so no analysis ran.
	DownloadFailedSummary = "Download failed"

	// DefaultCategory is the catch-all category for unclassifiable links.
	DefaultCategory = "Inbox"
)

// ReceiptSummaryLimit caps the summary echoed back to the submitter, in runes.
const ReceiptSummaryLimit = 200

// SourceRequest is a link submission: the URL to ingest and the submitting
// user. The pair also forms the deduplication identity.
type SourceRequest struct {
	URL    string `json:"url"`
	UserID int64  `json:"user_id"`
}

// MediaAsset is the outcome of the acquisition stage. LocalPath is empty when
// no playable video could be downloaded; Title and Description then carry
// whatever page metadata the fallback fetch recovered.
type MediaAsset struct {
	Title        string // Page or video title, possibly RestrictedTitle.
	Description  string // Page or video description, may be empty.
	ThumbnailURL string // Preview image URL, may be empty.
	LocalPath    string // Path of the downloaded video file, empty when none.
	MIMEType     string // Sniffed MIME type of the downloaded file.
	Restricted   bool   // True when even page metadata was unreachable.
}

// HasVideo reports whether the acquisition stage produced a local video file.
func (m *MediaAsset) HasVideo() bool {
	return m.LocalPath != ""
}

// Recognition describes how completely a model reply matched the expected
// labeled-line layout.
type Recognition int

const (
	// RecognitionFull: every expected label was present.
	RecognitionFull Recognition = iota
	// RecognitionPartial: some labels were present, some missing.
	RecognitionPartial
	// RecognitionNone: no expected label was found in the reply.
	RecognitionNone
)

// String renders the recognition level for logs.
func (r Recognition) String() string {
	switch r {
	case RecognitionFull:
		return "full"
	case RecognitionPartial:
		return "partial"
	default:
		return "none"
	}
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Analysis is the structured outcome of the analysis stage. It is total: a
// failed analysis is expressed as AnalysisFailedSummary in DefaultCategory,
// never as an absent value.
type Analysis struct {
	Title        string      // Display title for the saved link.
	Category     string      // Single-word category, capitalized.
	Summary      string      // Free-text summary, may be empty.
	LocationName string      // Place name when recognized, empty otherwise.
	Coordinates  *GeoPoint   // Coordinates the model itself produced, if any.
	Recognition  Recognition // How completely the model reply was parsed.
	Missing      []string    // Labels absent from a partially recognized reply.
	Raw          string      // The unparsed model reply, kept for diagnosis.
}

// Receipt states reported back to the submitter.
const (
	ReceiptSaved        = "saved"
	ReceiptAlreadySaved = "already_saved"
)

// Receipt is the submitter-facing outcome of one ingestion run: the fields a
// front-end needs to render the saved card, with no formatting applied.
type Receipt struct {
	State        string   `json:"state"`
	Title        string   `json:"title,omitempty"`
	Category     string   `json:"category,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	LocationName string   `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// NewReceipt builds a receipt from a saved record, truncating the summary to
// ReceiptSummaryLimit runes so clients get a preview rather than the full
// text. link may be nil for the already-saved state.
func NewReceipt(state string, link *Link) *Receipt {
	receipt := &Receipt{State: state}
	if link == nil {
		return receipt
	}

	summary := link.Summary
	if utf8.RuneCountInString(summary) > ReceiptSummaryLimit {
		runes := []rune(summary)
		summary = string(runes[:ReceiptSummaryLimit]) + "..."
	}

	receipt.Title = link.Title
	receipt.Category = link.Category
	receipt.Summary = summary
	receipt.ImageURL = link.ImageURL
	receipt.LocationName = link.LocationName
	receipt.Latitude = link.Latitude
	receipt.Longitude = link.Longitude
	return receipt
}
