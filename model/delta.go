package model

// Delta is one incremental unit of raw model output. Concrete delta types
// implement the unexported isDelta marker enabling a closed set.
type Delta interface{ isDelta() }

// TextDelta is an incremental text fragment. Providers may emit empty
// fragments; downstream filtering is a consumer concern.
type TextDelta struct {
	Text string
}

// isDelta implements the Delta interface for TextDelta.
func (TextDelta) isDelta() {}

// ToolCallDelta is a fully aggregated tool invocation request. Arguments is
// the serialized JSON payload exactly as produced by the model.
type ToolCallDelta struct {
	ToolCallID string
	ToolName   string
	Arguments  string
}

// isDelta implements the Delta interface for ToolCallDelta.
func (ToolCallDelta) isDelta() {}

// ErrorDelta is a fault reading from the provider. It is always the last
// delta on a stream; the provider closes the channel right after emitting it.
type ErrorDelta struct {
	Err error
}

// isDelta implements the Delta interface for ErrorDelta.
func (ErrorDelta) isDelta() {}
