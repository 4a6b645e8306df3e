package core

// StreamPart represents one item of the transformed, typed output sequence
// produced for a single generation request. Concrete part types implement the
// unexported isStreamPart marker enabling a closed set, so consumption sites
// can switch exhaustively over the known kinds.
type StreamPart interface{ isStreamPart() }

// TextDeltaPart is an incremental fragment of natural-language model output.
// Fragments may be empty; filtering is a view-side concern.
type TextDeltaPart struct {
	Text string `json:"text"`
}

// isStreamPart implements the StreamPart interface for TextDeltaPart.
func (TextDeltaPart) isStreamPart() {}

// ToolCallPart is the model's request to invoke a registered tool. Arguments
// hold the decoded JSON payload as supplied by the model; they are validated
// against the tool's declared schema before execution.
type ToolCallPart struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments,omitempty"`
}

// isStreamPart implements the StreamPart interface for ToolCallPart.
func (ToolCallPart) isStreamPart() {}

// ToolResultPart is the output of one tool execution, correlated to its
// originating ToolCallPart by ToolCallID.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Result     any    `json:"result,omitempty"`
}

// isStreamPart implements the StreamPart interface for ToolResultPart.
func (ToolResultPart) isStreamPart() {}

// ErrorPart is a non-fatal fault observed while producing subsequent parts.
// For tool dispatch / execution faults ToolCallID and ToolName identify the
// failed call; both are empty for faults reading the raw source.
type ErrorPart struct {
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
	Err        error  `json:"-"`
}

// isStreamPart implements the StreamPart interface for ErrorPart.
func (ErrorPart) isStreamPart() {}
