package langchain

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/internal/faults"
)

type langchainEmbedder struct {
	options embedder.Options
	embeddings.Embedder
}

func (e *langchainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []float32{}, nil
	}

	vec, err := e.EmbedQuery(ctx, text)
	if err != nil {
		return nil, faults.Upstream("embedding", err)
	}

	return vec, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &langchainEmbedder{
		options: options,
	}

	llmOpts := []openai.Option{
		openai.WithToken(options.ApiKey),
		openai.WithEmbeddingModel(options.Model),
		openai.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}

	llm, err := openai.New(llmOpts...)
	if err != nil {
		detail := "failed to initialize model for langchain embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	emb, err := embeddings.NewEmbedder(llm)
	if err != nil {
		detail := "failed to initialize langchain embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	e.Embedder = emb

	return e
}
