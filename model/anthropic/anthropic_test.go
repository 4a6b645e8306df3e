package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/model"
	"github.com/jferrettiboke/ai/tool"
)

type weatherArgs struct {
	City string `json:"city" jsonschema:"description=City name"`
	Days *int   `json:"days,omitempty" jsonschema:"description=Forecast length"`
}

func toolRequest(params map[string]any) model.Request {
	return model.Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "weather in Berlin?"}},
		Tools: []model.ToolDefinition{{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        "get_weather",
				Description: "Look up the weather forecast",
				Parameters:  params,
			},
		}},
	}
}

func TestBuildParamsStructDerivedSchema(t *testing.T) {
	m := NewModelFromClient(nil)

	// Schemas derived from structs round-trip through JSON, so the required
	// list arrives as []any rather than []string.
	params, err := m.buildParams(toolRequest(tool.CreateSchema(weatherArgs{})))
	require.NoError(t, err)
	require.Len(t, params.Tools, 1)

	schema := params.Tools[0].OfTool.InputSchema
	assert.NotNil(t, schema.Properties)
	assert.ElementsMatch(t, []string{"city"}, schema.Required)
}

func TestBuildParamsHandWrittenSchema(t *testing.T) {
	m := NewModelFromClient(nil)

	params, err := m.buildParams(toolRequest(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
		"required": []string{"city"},
	}))
	require.NoError(t, err)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, []string{"city"}, params.Tools[0].OfTool.InputSchema.Required)
}

func TestBuildParamsUnsupportedRole(t *testing.T) {
	m := NewModelFromClient(nil)

	_, err := m.buildParams(model.Request{
		Messages: []core.Message{{Role: "tool", Content: "x"}},
	})
	assert.Error(t, err)
}
