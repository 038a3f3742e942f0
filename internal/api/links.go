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

// Package api exposes the link pipeline over HTTP: submit a link for
// ingestion, search saved links, and resolve a place name directly.
package api

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khushrathi249/nexus-app/internal/core/commands"
	"github.com/khushrathi249/nexus-app/internal/core/model"
	"github.com/khushrathi249/nexus-app/internal/core/services"
	"github.com/khushrathi249/nexus-app/internal/core/workflow"
)

// urlPattern extracts the first URL from a submission, so clients can post
// shared text with surrounding words, the way messaging apps forward it.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// ingestRequest is the submission body. Text may be a bare URL or any text
// containing one.
type ingestRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
}

// LinkHandler serves the link endpoints.
type LinkHandler struct {
	workflow *workflow.LinkIngestionWorkflow
	links    *services.LinkService
	resolver commands.PlaceResolver
}

// NewLinkHandler wires the handler to its collaborators.
func NewLinkHandler(w *workflow.LinkIngestionWorkflow, links *services.LinkService, resolver commands.PlaceResolver) *LinkHandler {
	return &LinkHandler{workflow: w, links: links, resolver: resolver}
}

// Register mounts the endpoints under /api/v1.
func (h *LinkHandler) Register(router gin.IRouter) {
	v1 := router.Group("/api/v1")
	v1.POST("/links", h.ingest)
	v1.GET("/links/search", h.search)
	v1.GET("/geocode", h.geocode)
}

// ingest runs the full pipeline for one submitted link and returns the
// receipt. The call blocks for the duration of the run, which includes the
// download and the model analysis.
func (h *LinkHandler) ingest(c *gin.Context) {
	var body ingestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url := urlPattern.FindString(body.Text)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no url found in submission"})
		return
	}

	receipt, err := h.workflow.Run(c.Request.Context(), &model.SourceRequest{URL: url, UserID: body.UserID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusCreated
	if receipt.State == model.ReceiptAlreadySaved {
		status = http.StatusOK
	}
	c.JSON(status, receipt)
}

// search returns the caller's saved links matching the query.
func (h *LinkHandler) search(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	links, err := h.links.Search(c.Request.Context(), userID, query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": links})
}

// geocode resolves a place name through the same waterfall the pipeline
// uses, for diagnosis.
func (h *LinkHandler) geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	point := h.resolver.Resolve(c.Request.Context(), query)
	if point == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no coordinates found"})
		return
	}
	c.JSON(http.StatusOK, point)
}
