// Package openai implements model.Model using the OpenAI Chat Completions
// API (streaming, including function/tool calling). It adapts the normalized
// Request structure into the SDK's message format and the SDK's chunk stream
// into raw deltas.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/model"
)

// aggCall aggregates partial tool call streaming deltas (id, name, arguments)
// allowing reconstruction of complete tool call requests when the finish
// reason is emitted.
type aggCall struct{ id, name, args string }

// Options configure the OpenAI model adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements streaming generation. Setup work (message and parameter
// conversion) happens synchronously so malformed requests fail before
// anything is streamed; transport faults after that surface in-band as an
// ErrorDelta followed by stream close.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	messages, err := buildMessages(req.Messages)
	if err != nil {
		return nil, err
	}
	params := m.buildParams(req, messages)

	out := make(chan model.Delta, 32)
	go func() {
		defer close(out)
		m.stream(ctx, params, out)
	}()

	return &model.Response{Stream: out}, nil
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai", SupportsTools: true}
}

// buildMessages converts normalized messages into OpenAI chat messages.
func buildMessages(msgs []core.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return messages, nil
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (m *Model) buildParams(
	req model.Request,
	messages []openai.ChatCompletionMessageParamUnion,
) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if req.Settings.Temperature != nil {
		params.Temperature = openai.Float(*req.Settings.Temperature)
	}
	if req.Settings.TopP != nil {
		params.TopP = openai.Float(*req.Settings.TopP)
	}
	if req.Settings.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.Settings.MaxTokens)
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// stream relays chunk deltas, aggregating tool call fragments until the
// finish reason marks them complete.
func (m *Model) stream(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Delta,
) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, params)
	toolAgg := map[int64]*aggCall{}
	var toolOrder []int64
	for stream.Next() {
		ck := stream.Current()
		for _, ch := range ck.Choices {
			if ch.Delta.Content != "" {
				if !send(ctx, out, model.TextDelta{Text: ch.Delta.Content}) {
					return
				}
			}
			for _, tc := range ch.Delta.ToolCalls {
				ac, ok := toolAgg[tc.Index]
				if !ok {
					ac = &aggCall{}
					toolAgg[tc.Index] = ac
					toolOrder = append(toolOrder, tc.Index)
				}
				if tc.ID != "" {
					ac.id = tc.ID
				}
				if tc.Function.Name != "" {
					ac.name = tc.Function.Name
				}
				if tc.Function.Arguments != "" {
					ac.args += tc.Function.Arguments
				}
			}
			if ch.FinishReason != "" {
				for _, idx := range toolOrder {
					ac := toolAgg[idx]
					id := ac.id
					if id == "" {
						id = core.NewID()
					}
					if !send(ctx, out, model.ToolCallDelta{
						ToolCallID: id,
						ToolName:   ac.name,
						Arguments:  ac.args,
					}) {
						return
					}
				}
				toolAgg = map[int64]*aggCall{}
				toolOrder = nil
			}
		}
	}
	if err := stream.Err(); err != nil {
		send(ctx, out, model.ErrorDelta{Err: fmt.Errorf("openai streaming error: %w", err)})
	}
}

func send(ctx context.Context, out chan<- model.Delta, d model.Delta) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- d:
		return true
	}
}
