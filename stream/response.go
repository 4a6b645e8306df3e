package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jferrettiboke/ai/core"
)

// SSEWriter sends Server-Sent Events to an http.ResponseWriter.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer and emits the event-stream headers.
// Returns nil if the ResponseWriter doesn't support http.Flusher.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}
}

// SendData writes an unnamed SSE event (event type = "message") with JSON data.
func (s *SSEWriter) SendData(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal SSE data: %w", err)
	}
	fmt.Fprintf(s.w, "data: %s\n\n", jsonData)
	s.flusher.Flush()
	return nil
}

// SendDone writes the terminal marker closing the event stream.
func (s *SSEWriter) SendDone() {
	fmt.Fprint(s.w, "data: [DONE]\n\n")
	s.flusher.Flush()
}

// errUsedStream rejects delivery of a raw sequence that can no longer be
// complete because a view already consumed parts before the raw cursor was
// switched on.
var errUsedStream = errors.New("stream already partially consumed")

// WriteSSE drains the raw, unfiltered part sequence into w as Server-Sent
// Events, one JSON object per part, terminated by a [DONE] marker. This is a
// terminal operation: it consumes the underlying sequence to exhaustion.
// It must be the first consumer of the Result; once any view has pulled a
// part, the raw sequence is incomplete and WriteSSE returns an error.
func (r *Result) WriteSSE(w http.ResponseWriter) error {
	if err := r.enableRaw(); err != nil {
		return err
	}

	sw := NewSSEWriter(w)
	if sw == nil {
		return fmt.Errorf("response writer does not support flushing")
	}

	for {
		part, err := r.raw.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := sw.SendData(envelope(part)); err != nil {
			return err
		}
	}
	sw.SendDone()
	return nil
}

// envelope shapes a part into its tagged wire representation.
func envelope(part core.StreamPart) map[string]any {
	switch p := part.(type) {
	case core.TextDeltaPart:
		return map[string]any{"type": "text-delta", "text": p.Text}
	case core.ToolCallPart:
		return map[string]any{
			"type":         "tool-call",
			"tool_call_id": p.ToolCallID,
			"tool_name":    p.ToolName,
			"arguments":    p.Arguments,
		}
	case core.ToolResultPart:
		return map[string]any{
			"type":         "tool-result",
			"tool_call_id": p.ToolCallID,
			"tool_name":    p.ToolName,
			"result":       p.Result,
		}
	case core.ErrorPart:
		env := map[string]any{"type": "error", "error": errMessage(p.Err)}
		if p.ToolCallID != "" {
			env["tool_call_id"] = p.ToolCallID
		}
		if p.ToolName != "" {
			env["tool_name"] = p.ToolName
		}
		return env
	default:
		return map[string]any{"type": "unknown"}
	}
}
