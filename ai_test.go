package ai

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/model"
	"github.com/jferrettiboke/ai/tool"
)

func newAddTool(t *testing.T) *tool.Registry {
	t.Helper()
	add := tool.NewFunctionTool("add", "Add two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		})
	reg, err := tool.NewRegistry(add)
	require.NoError(t, err)
	return reg
}

func TestStreamTextScenario(t *testing.T) {
	m := model.NewScriptedModel(
		model.TextDelta{Text: "Hello "},
		model.ToolCallDelta{ToolCallID: "t1", ToolName: "add", Arguments: `{"a":2,"b":3}`},
		model.TextDelta{Text: ""},
		model.TextDelta{Text: "world"},
	)

	result, err := StreamText(context.Background(), StreamTextParams{
		Model:  m,
		Tools:  newAddTool(t),
		Prompt: "add 2 and 3",
	})
	require.NoError(t, err)

	var fragments []string
	text := result.TextStream()
	for {
		frag, err := text.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		fragments = append(fragments, frag)
	}
	assert.Equal(t, []string{"Hello ", "world"}, fragments)

	// The full view sees the correlated call/result pair as well.
	var callID, resultID string
	var sum any
	full := result.FullStream()
	for {
		part, err := full.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		switch p := part.(type) {
		case core.ToolCallPart:
			callID = p.ToolCallID
		case core.ToolResultPart:
			resultID = p.ToolCallID
			sum = p.Result
		case core.ErrorPart:
			t.Fatalf("unexpected error part: %v", p.Err)
		}
	}
	assert.Equal(t, "t1", callID)
	assert.Equal(t, "t1", resultID)
	assert.Equal(t, 5.0, sum)
}

func TestToolDeclarationsIdempotent(t *testing.T) {
	reg := newAddTool(t)

	first := ToolDeclarations(reg)
	second := ToolDeclarations(reg)
	assert.Equal(t, first, second)

	require.Len(t, first, 1)
	assert.Equal(t, "function", first[0].Type)
	assert.Equal(t, "add", first[0].Function.Name)
	assert.Equal(t, "Add two numbers", first[0].Function.Description)
	assert.NotNil(t, first[0].Function.Parameters)
}

func TestToolDeclarationsEmptyRegistry(t *testing.T) {
	assert.Nil(t, ToolDeclarations(nil))
}

func TestStreamTextSetupErrors(t *testing.T) {
	m := model.NewScriptedModel()
	badTemp := 7.5

	tests := []struct {
		name   string
		params StreamTextParams
	}{
		{"missing model", StreamTextParams{Prompt: "hi"}},
		{"missing prompt", StreamTextParams{Model: m}},
		{"prompt and messages", StreamTextParams{
			Model:    m,
			Prompt:   "hi",
			Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
		}},
		{"invalid temperature", StreamTextParams{
			Model:    m,
			Prompt:   "hi",
			Settings: model.Settings{Temperature: &badTemp},
		}},
		{"unsupported role", StreamTextParams{
			Model:    m,
			Messages: []core.Message{{Role: "tool", Content: "x"}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := StreamText(context.Background(), tc.params)
			assert.Error(t, err)
		})
	}
}

func TestStreamTextCarriesWarnings(t *testing.T) {
	m := model.NewScriptedModel(model.TextDelta{Text: "ok"})
	m.AddWarnings("tools unsupported, ignored")

	result, err := StreamText(context.Background(), StreamTextParams{Model: m, Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tools unsupported, ignored"}, result.Warnings())
}

func TestGenerateText(t *testing.T) {
	m := model.NewScriptedModel(
		model.TextDelta{Text: "The answer is "},
		model.ToolCallDelta{ToolCallID: "t1", ToolName: "add", Arguments: `{"a":2,"b":3}`},
		model.ToolCallDelta{ToolCallID: "t2", ToolName: "nope", Arguments: "{}"},
		model.TextDelta{Text: "5"},
	)

	out, err := GenerateText(context.Background(), StreamTextParams{
		Model:  m,
		Tools:  newAddTool(t),
		Prompt: "add 2 and 3",
	})
	require.NoError(t, err)

	assert.Equal(t, "The answer is 5", out.Text)
	require.Len(t, out.ToolCalls, 2)
	require.Len(t, out.ToolResults, 1)
	assert.Equal(t, "t1", out.ToolResults[0].ToolCallID)
	assert.Equal(t, 5.0, out.ToolResults[0].Result)
	require.Len(t, out.Errors, 1)

	var toolErr *tool.ToolError
	require.ErrorAs(t, out.Errors[0], &toolErr)
	assert.Equal(t, tool.CodeNotFound, toolErr.Code)
}

func TestNormalizeMessagesSystemPrepended(t *testing.T) {
	msgs, err := normalizeMessages(StreamTextParams{
		System: "be terse",
		Prompt: "hi",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, core.RoleUser, msgs[1].Role)
}
