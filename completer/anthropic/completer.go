package anthropic

import (
	"context"
	"io"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/internal/faults"
)

type anthropicCompleter struct {
	options completer.Options
	client  *anthropic.Client
}

func (c *anthropicCompleter) Complete(ctx context.Context, messages []completer.Message) (string, error) {
	rsp, err := c.client.Messages.New(ctx, c.toParams(messages))
	if err != nil {
		return "", faults.Upstream("completion", err)
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	result := b.String()
	if len(result) == 0 {
		return "", faults.ErrEmptyResponse
	}

	return result, nil
}

// CompleteJSON relies on prompt instructions for the object shape; the
// Anthropic API has no response-format switch.
func (c *anthropicCompleter) CompleteJSON(ctx context.Context, messages []completer.Message) (string, error) {
	return c.Complete(ctx, messages)
}

func (c *anthropicCompleter) Stream(ctx context.Context, messages []completer.Message) (completer.Stream, error) {
	stream := c.client.Messages.NewStreaming(ctx, c.toParams(messages))
	return &anthropicStream{stream: stream}, nil
}

func (c *anthropicCompleter) toParams(messages []completer.Message) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam

	for _, m := range messages {
		switch m.Role {
		case completer.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case completer.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(c.options.Model),
		MaxTokens: int64(c.options.MaxTokens),
		System:    system,
		Messages:  turns,
	}
}

type anthropicStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

func (s *anthropicStream) Recv() (string, error) {
	for s.stream.Next() {
		event := s.stream.Current()
		if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
				return text.Text, nil
			}
		}
		// Non-text events carry no deltas for this core; keep reading.
	}

	if err := s.stream.Err(); err != nil {
		return "", faults.Upstream("completion", err)
	}

	return "", io.EOF
}

func (s *anthropicStream) Close() error {
	return s.stream.Close()
}

func NewCompleter(opts ...completer.Option) completer.Completer {
	options := completer.NewOptions(opts...)

	c := &anthropicCompleter{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	c.client = &client

	return c
}
