// Package tool implements the function / tool calling subsystem that lets a
// generation request invoke structured capabilities (APIs, computations,
// side-effects) with schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/jferrettiboke/ai/internal/util"
)

// Tool defines a caller-registered named capability the model may request
// mid-generation.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use; multiple calls to the same tool may be
//     in flight at once within a single generation request
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the model to help it decide when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	// This schema is used for parameter validation and for the tool
	// declaration handed to the model.
	Parameters() map[string]any

	// Execute runs the tool with structured arguments. Arguments have been
	// decoded from the model's JSON payload and validated against the tool's
	// schema before this method is called.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool dispatch or execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used by the built-in tool machinery. Tools returning a
// *ToolError directly may use custom codes; they are forwarded unchanged.
const (
	CodeNotFound   = "NOT_FOUND"         // tool name absent from the registry
	CodeValidation = "VALIDATION_ERROR"  // schema / argument mismatch
	CodeExecution  = "EXECUTION_ERROR"   // underlying function returned an error
	CodeBadPayload = "MALFORMED_PAYLOAD" // arguments were not a JSON object
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
