package openai

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/patrolscribe/assistant/corrector"
	"github.com/patrolscribe/assistant/internal/faults"
)

type assistantsApi interface {
	CreateThread(ctx context.Context, req openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, req openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, req openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// job tracks one submitted run for the duration of a single poll loop.
type job struct {
	threadId      string
	runId         string
	lastMessageId string
}

type openAICorrector struct {
	options corrector.Options
	api     assistantsApi
	sleep   func(ctx context.Context, d time.Duration) error
}

func (c *openAICorrector) Correct(ctx context.Context, text string) (string, error) {
	j, err := c.submit(ctx, text)
	if err != nil {
		return "", err
	}

	return c.poll(ctx, j)
}

func (c *openAICorrector) submit(ctx context.Context, text string) (job, error) {
	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return job{}, faults.Upstream("assistant", err)
	}

	msg, err := c.api.CreateMessage(ctx, thread.ID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return job{}, faults.Upstream("assistant", err)
	}

	run, err := c.api.CreateRun(ctx, thread.ID, openai.RunRequest{
		AssistantID: c.options.AssistantId,
	})
	if err != nil {
		return job{}, faults.Upstream("assistant", err)
	}

	return job{
		threadId:      thread.ID,
		runId:         run.ID,
		lastMessageId: msg.ID,
	}, nil
}

func (c *openAICorrector) poll(ctx context.Context, j job) (string, error) {
	deadline := time.Now().Add(c.options.PollDeadline)

	for {
		run, err := c.api.RetrieveRun(ctx, j.threadId, j.runId)
		if err != nil {
			return "", faults.Upstream("assistant", err)
		}

		switch run.Status {
		case openai.RunStatusCompleted:
			return c.collect(ctx, j)
		case openai.RunStatusFailed, openai.RunStatusExpired, openai.RunStatusCancelled:
			// Terminal failure is reported as a friendly sentence, not an
			// error. See corrector.FallbackReply.
			return corrector.FallbackReply, nil
		}

		if time.Now().After(deadline) {
			return "", faults.ErrPollTimeout
		}

		if err := c.sleep(ctx, c.options.PollInterval); err != nil {
			return "", err
		}
	}
}

// collect fetches every message created after the one we submitted, oldest
// first, and joins their text content.
func (c *openAICorrector) collect(ctx context.Context, j job) (string, error) {
	order := "asc"
	after := j.lastMessageId

	list, err := c.api.ListMessage(ctx, j.threadId, nil, &order, &after, nil, nil)
	if err != nil {
		return "", faults.Upstream("assistant", err)
	}

	var parts []string
	for _, msg := range list.Messages {
		for _, content := range msg.Content {
			if content.Text != nil && len(content.Text.Value) > 0 {
				parts = append(parts, content.Text.Value)
			}
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func NewCorrector(opts ...corrector.Option) corrector.Corrector {
	options := corrector.NewOptions(opts...)

	c := &openAICorrector{
		options: options,
		sleep:   sleepContext,
	}

	client := openai.NewClient(options.ApiKey)

	c.api = client

	return c
}
