package corrector

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	ApiKey       string
	AssistantId  string
	PollInterval time.Duration
	PollDeadline time.Duration
	Context      context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithAssistantId(assistantId string) Option {
	return func(o *Options) {
		o.AssistantId = assistantId
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.PollInterval = interval
	}
}

func WithPollDeadline(deadline time.Duration) Option {
	return func(o *Options) {
		o.PollDeadline = deadline
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		PollInterval: 500 * time.Millisecond,
		PollDeadline: 2 * time.Minute,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
