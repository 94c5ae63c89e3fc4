package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/internal/faults"
)

type openAICompleter struct {
	options completer.Options
	client  *openai.Client
}

func (c *openAICompleter) Complete(ctx context.Context, messages []completer.Message) (string, error) {
	return c.complete(ctx, messages, nil)
}

func (c *openAICompleter) CompleteJSON(ctx context.Context, messages []completer.Message) (string, error) {
	return c.complete(ctx, messages, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (c *openAICompleter) complete(ctx context.Context, messages []completer.Message, format *openai.ChatCompletionResponseFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:          c.options.Model,
		Messages:       toChatMessages(messages),
		ResponseFormat: format,
		Temperature:    c.options.Temperature,
	}

	rsp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", faults.Upstream("completion", err)
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", faults.ErrEmptyResponse
	}

	return rsp.Choices[0].Message.Content, nil
}

func (c *openAICompleter) Stream(ctx context.Context, messages []completer.Message) (completer.Stream, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.options.Model,
		Messages: toChatMessages(messages),
		Stream:   true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, faults.Upstream("completion", err)
	}

	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (string, error) {
	rsp, err := s.stream.Recv()
	if err != nil {
		// io.EOF passes through untouched so callers can detect normal end.
		return "", err
	}

	if len(rsp.Choices) == 0 {
		return "", nil
	}

	return rsp.Choices[0].Delta.Content, nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

func toChatMessages(messages []completer.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

func NewCompleter(opts ...completer.Option) completer.Completer {
	options := completer.NewOptions(opts...)

	c := &openAICompleter{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	c.client = client

	return c
}
