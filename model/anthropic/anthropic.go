// Package anthropic implements model.Model using the Anthropic Messages API
// (streaming, including tool use). It adapts the normalized Request structure
// into the SDK's message format and the SDK's event stream into raw deltas.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/model"
)

// Options configures the Anthropic model adapter (model id, temperature,
// max tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Generate implements streaming generation. Request conversion happens
// synchronously; transport faults after that surface in-band as an ErrorDelta
// followed by stream close.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	params, err := m.buildParams(req)
	if err != nil {
		return nil, err
	}

	out := make(chan model.Delta, 32)
	go func() {
		defer close(out)
		m.stream(ctx, params, out)
	}()

	return &model.Response{Stream: out}, nil
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: "anthropic", SupportsTools: true}
}

// buildParams converts the normalized request into Anthropic message parameters.
func (m *Model) buildParams(req model.Request) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.Settings.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Settings.Temperature)
	}
	if req.Settings.TopP != nil {
		params.TopP = anthropic.Float(*req.Settings.TopP)
	}
	if req.Settings.MaxTokens > 0 {
		params.MaxTokens = req.Settings.MaxTokens
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case core.RoleUser:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case core.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}

	for _, tdef := range req.Tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := tdef.Function.Parameters["properties"]; ok {
			schema.Properties = props
		}
		schema.Required = requiredFields(tdef.Function.Parameters)
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tdef.Function.Name,
				Description: anthropic.String(tdef.Function.Description),
				InputSchema: schema,
			},
		})
	}

	return params, nil
}

// requiredFields normalizes the schema's required list, which may be
// constructed as []string (hand-written schemas) or decoded as []any
// (schemas round-tripped through JSON, e.g. tool.CreateSchema output).
func requiredFields(params map[string]any) []string {
	switch req := params["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	default:
		return nil
	}
}

// aggBlock tracks one in-progress tool_use content block while its input JSON
// streams in.
type aggBlock struct {
	id, name string
	args     string
	toolUse  bool
}

// stream relays message stream events, aggregating tool_use input fragments
// until the content block stops.
func (m *Model) stream(
	ctx context.Context,
	params anthropic.MessageNewParams,
	out chan<- model.Delta,
) {
	stream := m.client.Messages.NewStreaming(ctx, params)
	blocks := map[int64]*aggBlock{}
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			if block, ok := ev.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
				blocks[ev.Index] = &aggBlock{
					id:      block.ID,
					name:    block.Name,
					toolUse: true,
				}
			}
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if !send(ctx, out, model.TextDelta{Text: delta.Text}) {
					return
				}
			case anthropic.InputJSONDelta:
				if b, ok := blocks[ev.Index]; ok {
					b.args += delta.PartialJSON
				}
			}
		case anthropic.ContentBlockStopEvent:
			b, ok := blocks[ev.Index]
			if !ok || !b.toolUse {
				continue
			}
			delete(blocks, ev.Index)
			id := b.id
			if id == "" {
				id = core.NewID()
			}
			if !send(ctx, out, model.ToolCallDelta{
				ToolCallID: id,
				ToolName:   b.name,
				Arguments:  b.args,
			}) {
				return
			}
		}
	}
	if err := stream.Err(); err != nil {
		send(ctx, out, model.ErrorDelta{Err: fmt.Errorf("anthropic streaming error: %w", err)})
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
