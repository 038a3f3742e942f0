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

// The server command hosts the link ingestion pipeline behind an HTTP API:
// clients submit short-form video links, the pipeline downloads and analyzes
// them, and the results land in Postgres.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/khushrathi249/nexus-app/internal/api"
	"github.com/khushrathi249/nexus-app/internal/cloud"
	"github.com/khushrathi249/nexus-app/internal/core/analyzer"
	"github.com/khushrathi249/nexus-app/internal/core/scraper"
	"github.com/khushrathi249/nexus-app/internal/core/services"
	"github.com/khushrathi249/nexus-app/internal/core/workflow"
	"github.com/khushrathi249/nexus-app/internal/telemetry"
)

const shutdownGracePeriod = 5 * time.Second

func main() {
	telemetry.SetupLogging()

	ctx, stop := SetupOS()
	defer stop()

	config := GetConfig()

	otelShutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	clients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		slog.Error("failed to initialize service clients", "error", err)
		os.Exit(1)
	}
	defer clients.Close()

	linkService := services.NewLinkService(clients.Pool)
	if err := linkService.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	prompt, err := NewAnalysisTemplate(config)
	if err != nil {
		slog.Error("failed to parse analysis prompt", "error", err)
		os.Exit(1)
	}

	modelHandle, ok := clients.AgentModels[cloud.VideoAnalyzerModel]
	if !ok {
		slog.Error("agent model is not configured", "agent", cloud.VideoAnalyzerModel)
		os.Exit(1)
	}

	acquirer := scraper.NewAcquirer(&config.Scraper)
	videoAnalyzer := analyzer.NewAnalyzer(clients.Files, modelHandle, prompt, cloud.NewPollPolicy(&config.GenAI))
	resolver := NewGeoResolver(config)

	ingestion := workflow.NewLinkIngestionWorkflow(
		config.Application.ThreadPoolSize,
		linkService,
		acquirer,
		videoAnalyzer,
		resolver,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(config.Application.Name))
	router.Use(cors.Default())

	api.NewLinkHandler(ingestion, linkService, resolver).Register(router)

	server := &http.Server{Addr: ":8080", Handler: router}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining requests")

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		slog.Warn("server shutdown incomplete", "error", err)
	}
}
