package ai

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jferrettiboke/ai/core"
)

// GenerateResult is the drained, non-streaming outcome of one generation:
// accumulated text plus every tool call, tool result and non-fatal error the
// stream produced.
type GenerateResult struct {
	Text        string
	ToolCalls   []core.ToolCallPart
	ToolResults []core.ToolResultPart
	Errors      []error
	Warnings    []string
}

// GenerateText is a synchronous convenience over StreamText: it starts the
// generation, drains the full-event view to exhaustion and returns the
// accumulated result. Non-fatal stream faults are collected in
// GenerateResult.Errors rather than aborting the drain.
func GenerateText(ctx context.Context, params StreamTextParams) (*GenerateResult, error) {
	result, err := StreamText(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &GenerateResult{Warnings: result.Warnings()}
	var text strings.Builder

	full := result.FullStream()
	for {
		part, err := full.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch p := part.(type) {
		case core.TextDeltaPart:
			text.WriteString(p.Text)
		case core.ToolCallPart:
			out.ToolCalls = append(out.ToolCalls, p)
		case core.ToolResultPart:
			out.ToolResults = append(out.ToolResults, p)
		case core.ErrorPart:
			out.Errors = append(out.Errors, p.Err)
		}
	}

	out.Text = text.String()
	return out, nil
}
