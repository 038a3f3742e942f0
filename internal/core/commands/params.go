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

// Package commands contains the pipeline commands that turn a submitted link
// into a persisted record. Each command reads and writes well-known context
// parameters; this file defines their canonical names so producers and
// consumers cannot drift apart.
package commands

// Chain context parameter names.
const (
	sourceRequestParamName = "__SOURCE_REQUEST__"
	alreadySavedParamName  = "__ALREADY_SAVED__"
	mediaAssetParamName    = "__MEDIA_ASSET__"
	analysisParamName      = "__ANALYSIS__"
	geoPointParamName      = "__GEO_POINT__"
	recordParamName        = "__RECORD__"
)

// GetSourceRequestParamName returns the context key of the submitted link
// request, set by the workflow before the chain runs.
func GetSourceRequestParamName() string { return sourceRequestParamName }

// GetAlreadySavedParamName returns the context key of the duplicate flag.
// Its presence short-circuits the rest of the chain.
func GetAlreadySavedParamName() string { return alreadySavedParamName }

// GetMediaAssetParamName returns the context key of the acquired media asset.
func GetMediaAssetParamName() string { return mediaAssetParamName }

// GetAnalysisParamName returns the context key of the structured analysis.
func GetAnalysisParamName() string { return analysisParamName }

// GetGeoPointParamName returns the context key of the resolved coordinates.
func GetGeoPointParamName() string { return geoPointParamName }

// GetRecordParamName returns the context key of the assembled link record.
func GetRecordParamName() string { return recordParamName }
