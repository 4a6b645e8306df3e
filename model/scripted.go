package model

import (
	"context"
)

// ScriptedModel is a lightweight in-memory Model useful for tests & examples.
// It replays a fixed sequence of deltas regardless of the request content.
type ScriptedModel struct {
	info     Info
	script   []Delta
	warnings []string
}

// NewScriptedModel constructs a ScriptedModel replaying the given deltas.
func NewScriptedModel(deltas ...Delta) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          "scripted",
			Provider:      "scripted",
			SupportsTools: true,
		},
		script: deltas,
	}
}

// AddWarnings attaches diagnostic warnings to every generated response.
func (m *ScriptedModel) AddWarnings(warnings ...string) {
	m.warnings = append(m.warnings, warnings...)
}

// Generate implements Model; the stream is unbuffered so deltas are handed
// over only as the consumer pulls them.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	out := make(chan Delta)

	go func() {
		defer close(out)
		for _, d := range m.script {
			select {
			case <-ctx.Done():
				return
			case out <- d:
			}
		}
	}()

	return &Response{Stream: out, Warnings: m.warnings}, nil
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }
