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

// Package analyzer turns a downloaded video and its metadata into a
// structured Analysis using a multimodal generative model. This file parses
// the model's labeled-line reply.
//
// The model is asked to answer in labeled lines:
//
//	CATEGORY: Food
//	LOCATION_NAME: Blue Tokai, Bandra, Mumbai
//	COORDINATES: 19.0596, 72.8295
//	SUMMARY: A walkthrough of the cafe and its pour-over menu.
//
// Models drift from the layout under load, so the parser grades each reply
// instead of rejecting it: fully recognized, partially recognized with the
// missing labels listed, or unrecognized with the raw reply preserved as the
// summary.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/khushrathi249/nexus-app/internal/core/model"
)

// Labels the model is instructed to emit.
const (
	labelCategory     = "CATEGORY:"
	labelLocationName = "LOCATION_NAME:"
	labelCoordinates  = "COORDINATES:"
	labelSummary      = "SUMMARY:"
)

var expectedLabels = []string{labelCategory, labelLocationName, labelCoordinates, labelSummary}

// coordinatePattern matches a strict decimal "lat, lon" pair. Degree marks,
// bare integers, and prose around the numbers all fail the match, which is
// intended: a half-parsed coordinate is worse than none.
var coordinatePattern = regexp.MustCompile(`(-?\d+\.\d+),\s*(-?\d+\.\d+)`)

// rejectedLocations are model answers that mean "no location", not a place.
var rejectedLocations = map[string]bool{
	"none":    true,
	"unknown": true,
	"n/a":     true,
}

// ParsedReply is the structured form of one model reply.
type ParsedReply struct {
	Category     string
	LocationName string
	Coordinates  *model.GeoPoint
	Summary      string
	Recognition  model.Recognition
	Missing      []string
}

// ParseReply extracts the labeled fields from a model reply.
//
// The summary is everything that is not a labeled line, plus the value of the
// SUMMARY line itself. A reply with no recognizable labels is graded
// RecognitionNone and its whole text becomes the summary.
func ParseReply(raw string) *ParsedReply {
	reply := &ParsedReply{Category: model.DefaultCategory}

	seen := make(map[string]bool)
	var summaryLines []string

	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*_"))
		upper := strings.ToUpper(stripped)

		switch {
		case strings.HasPrefix(upper, labelCategory):
			seen[labelCategory] = true
			reply.Category = normalizeCategory(stripped[len(labelCategory):])
		case strings.HasPrefix(upper, labelLocationName):
			seen[labelLocationName] = true
			reply.LocationName = normalizeLocation(stripped[len(labelLocationName):])
		case strings.HasPrefix(upper, labelCoordinates):
			seen[labelCoordinates] = true
			reply.Coordinates = parseCoordinates(stripped[len(labelCoordinates):])
		case strings.HasPrefix(upper, labelSummary):
			seen[labelSummary] = true
			if value := strings.TrimSpace(stripped[len(labelSummary):]); value != "" {
				summaryLines = append(summaryLines, value)
			}
		default:
			if strings.TrimSpace(line) != "" {
				summaryLines = append(summaryLines, strings.TrimSpace(line))
			}
		}
	}

	reply.Summary = strings.TrimSpace(strings.Join(summaryLines, "\n"))

	for _, label := range expectedLabels {
		if !seen[label] {
			reply.Missing = append(reply.Missing, strings.TrimSuffix(label, ":"))
		}
	}
	switch len(reply.Missing) {
	case 0:
		reply.Recognition = model.RecognitionFull
	case len(expectedLabels):
		reply.Recognition = model.RecognitionNone
		reply.Summary = strings.TrimSpace(raw)
	default:
		reply.Recognition = model.RecognitionPartial
	}

	return reply
}

// normalizeCategory reduces a category answer to its first word, stripped of
// markdown emphasis and capitalized. Empty answers fall back to the default
// category.
func normalizeCategory(value string) string {
	value = strings.Trim(strings.TrimSpace(value), "*_")
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return model.DefaultCategory
	}
	word := strings.ToLower(fields[0])
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// normalizeLocation keeps a location answer only when it names a real place:
// longer than two characters and not one of the rejected non-answers.
func normalizeLocation(value string) string {
	value = strings.Trim(strings.TrimSpace(value), "*_")
	if len(value) <= 2 || rejectedLocations[strings.ToLower(value)] {
		return ""
	}
	return value
}

// parseCoordinates extracts a strict decimal coordinate pair, returning nil
// when the value does not match.
func parseCoordinates(value string) *model.GeoPoint {
	match := coordinatePattern.FindStringSubmatch(value)
	if match == nil {
		return nil
	}
	lat, errLat := strconv.ParseFloat(match[1], 64)
	lon, errLon := strconv.ParseFloat(match[2], 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	return &model.GeoPoint{Latitude: lat, Longitude: lon}
}
