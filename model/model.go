package model

import (
	"context"

	"github.com/jferrettiboke/ai/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the orchestrator:
// a prompt in message form, optional tool declarations and validated
// generation settings.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
	Settings Settings         `json:"settings"`
}

// Response is the result of starting one generation: the raw delta stream and
// any non-fatal diagnostics the provider surfaced while preparing the call.
// The stream is closed by the provider once generation finishes; source
// faults travel in-band as an ErrorDelta immediately before the close.
type Response struct {
	Stream   <-chan Delta
	Warnings []string
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the opaque generation capability consumed by the orchestrator.
// Generate must be invoked exactly once per request; the returned error covers
// setup failures only (nothing has been streamed when it is non-nil).
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
