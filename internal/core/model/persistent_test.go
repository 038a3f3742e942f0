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

package model_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/khushrathi249/nexus-app/internal/core/model"
)

func TestNewLinkIdentityIsDeterministic(t *testing.T) {
	first := model.NewLink("https://example.com/reel/42", 7)
	second := model.NewLink("https://example.com/reel/42", 7)
	assert.Equal(t, first.Id, second.Id)

	otherUser := model.NewLink("https://example.com/reel/42", 8)
	assert.NotEqual(t, first.Id, otherUser.Id)

	otherURL := model.NewLink("https://example.com/reel/43", 7)
	assert.NotEqual(t, first.Id, otherURL.Id)
}

func TestLinkCoordinates(t *testing.T) {
	link := model.NewLink("https://example.com/reel/42", 7)
	assert.False(t, link.HasCoordinates())

	link.SetCoordinates(nil)
	assert.False(t, link.HasCoordinates())

	link.SetCoordinates(&model.GeoPoint{Latitude: 18.92, Longitude: 72.83})
	assert.True(t, link.HasCoordinates())
	assert.Equal(t, 18.92, *link.Latitude)
	assert.Equal(t, 72.83, *link.Longitude)
}

func TestNewReceiptTruncatesLongSummary(t *testing.T) {
	link := model.NewLink("https://example.com/reel/42", 7)
	link.Title = "Title"
	link.Category = "Travel"
	link.Summary = strings.Repeat("верблюд ", 50)
	receipt := model.NewReceipt(model.ReceiptSaved, link)

	assert.True(t, strings.HasSuffix(receipt.Summary, "..."))
	assert.Equal(t, model.ReceiptSummaryLimit+3, utf8.RuneCountInString(receipt.Summary))
}

func TestNewReceiptCarriesRecordFields(t *testing.T) {
	link := model.NewLink("https://example.com/reel/42", 7)
	link.Title = "Title"
	link.Category = "Travel"
	link.Summary = "short"
	link.ImageURL = "https://cdn.example.com/thumb.jpg"
	link.LocationName = "Gateway of India, Mumbai"
	link.SetCoordinates(&model.GeoPoint{Latitude: 18.92, Longitude: 72.83})

	receipt := model.NewReceipt(model.ReceiptSaved, link)
	assert.Equal(t, "short", receipt.Summary)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", receipt.ImageURL)
	assert.Equal(t, "Gateway of India, Mumbai", receipt.LocationName)
	assert.Equal(t, 18.92, *receipt.Latitude)
}

func TestNewReceiptForAlreadySavedHasNoRecord(t *testing.T) {
	receipt := model.NewReceipt(model.ReceiptAlreadySaved, nil)
	assert.Equal(t, model.ReceiptAlreadySaved, receipt.State)
	assert.Empty(t, receipt.Title)
	assert.Nil(t, receipt.Latitude)
}
