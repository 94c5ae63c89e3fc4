package google

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	genaiopt "google.golang.org/api/option"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/internal/faults"
)

type googleCompleter struct {
	options completer.Options
	client  *genai.Client
}

func (c *googleCompleter) Complete(ctx context.Context, messages []completer.Message) (string, error) {
	return c.complete(ctx, messages, "")
}

func (c *googleCompleter) CompleteJSON(ctx context.Context, messages []completer.Message) (string, error) {
	return c.complete(ctx, messages, "application/json")
}

func (c *googleCompleter) complete(ctx context.Context, messages []completer.Message, mime string) (string, error) {
	chat, last, err := c.toChat(messages, mime)
	if err != nil {
		return "", err
	}

	rsp, err := chat.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", faults.Upstream("completion", err)
	}

	result := textOf(rsp)
	if len(result) == 0 {
		return "", faults.ErrEmptyResponse
	}

	return result, nil
}

func (c *googleCompleter) Stream(ctx context.Context, messages []completer.Message) (completer.Stream, error) {
	chat, last, err := c.toChat(messages, "")
	if err != nil {
		return nil, err
	}

	iter := chat.SendMessageStream(ctx, genai.Text(last))

	return &googleStream{iter: iter}, nil
}

func (c *googleCompleter) toChat(messages []completer.Message, mime string) (*genai.ChatSession, string, error) {
	model := c.client.GenerativeModel(c.options.Model)
	if len(mime) > 0 {
		model.ResponseMIMEType = mime
	}

	var system []genai.Part
	var history []*genai.Content
	last := ""

	for i, m := range messages {
		switch m.Role {
		case completer.RoleSystem:
			system = append(system, genai.Text(m.Content))
		case completer.RoleAssistant:
			history = append(history, &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
				Role:  "model",
			})
		default:
			if i == len(messages)-1 {
				last = m.Content
				continue
			}
			history = append(history, &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
				Role:  "user",
			})
		}
	}

	if len(last) == 0 {
		return nil, "", errors.New("the final message must be from the user")
	}

	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	chat := model.StartChat()
	chat.History = history

	return chat, last, nil
}

type googleStream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *googleStream) Recv() (string, error) {
	rsp, err := s.iter.Next()
	if errors.Is(err, iterator.Done) {
		return "", io.EOF
	}
	if err != nil {
		return "", faults.Upstream("completion", err)
	}

	return textOf(rsp), nil
}

func (s *googleStream) Close() error {
	return nil
}

func textOf(rsp *genai.GenerateContentResponse) string {
	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String()
}

func NewCompleter(opts ...completer.Option) completer.Completer {
	options := completer.NewOptions(opts...)

	c := &googleCompleter{
		options: options,
	}

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to initialize google completer"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	c.client = client

	return c
}
