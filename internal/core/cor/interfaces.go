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

// Package cor (Chain of Responsibility) provides the building blocks for
// expressing the link-ingestion pipeline as a sequence of commands. This file
// defines the core interfaces. By programming against interfaces, individual
// pipeline stages stay atomic and testable, and workflows can be assembled
// from interchangeable parts.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used to pipe the primary data flow through a
// BaseChain.
const (
	// CtxIn is the default key for a command's primary input. The BaseChain
	// populates it with the output of the previous command.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	// The BaseChain picks it up as the next command's input.
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands for
// one pipeline execution. It carries data, errors, and temp-file bookkeeping
// between commands.
type Context interface {
	// SetContext sets the standard Go context.Context, used for cancellation
	// and trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for fluent chaining.
	Add(key string, value interface{}) Context

	// AddError records an error produced by a command, keyed by command name.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the execution.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool

	// AddTempFile tracks a temporary file created during the execution so the
	// context can remove it on Close. This is the backstop that guarantees
	// per-request media files are deleted on every exit path.
	AddTempFile(file string)

	// GetTempFiles returns all tracked temporary file paths.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it when starting a
	// workflow.
	Close()
}

// Executable is implemented by any object with core execution logic.
type Executable interface {
	// Execute runs the object's business logic, reading inputs from and
	// writing outputs to the given Context.
	Execute(context Context)
}

// Command is an atomic, individually instrumented unit of pipeline work.
type Command interface {
	Executable

	// GetName returns the command's unique name for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key of the command's primary input.
	GetInputParam() string

	// GetOutputParam returns the context key of the command's primary output.
	GetOutputParam() string

	// IsExecutable reports whether the command can run against the current
	// context state. Commands use it to skip themselves when an earlier stage
	// short-circuited the pipeline.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for this command.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after a
	// command records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
