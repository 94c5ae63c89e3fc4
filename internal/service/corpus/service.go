package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/retriever"
)

// Service loads reference material into the retrieval corpus: split into
// paragraph chunks, embed each, insert.
type Service struct {
	embedder  embedder.Embedder
	retriever retriever.Retriever
}

func (s *Service) IngestText(ctx context.Context, text string) (int, error) {
	inserted := 0

	for _, chunk := range split(text) {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return inserted, err
		}
		if len(vec) == 0 {
			continue
		}

		id, err := s.retriever.InsertChunk(ctx, chunk, vec)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert chunk: %w", err)
		}

		inserted++
		slog.DebugContext(ctx, "inserted reference chunk", "id", id, "chars", len(chunk))
	}

	return inserted, nil
}

func (s *Service) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return s.IngestText(ctx, string(data))
}

// split breaks text on blank lines. Reference material arrives
// pre-formatted one instruction per paragraph, so paragraph granularity is
// the retrieval unit.
func split(text string) []string {
	var chunks []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if len(block) > 0 {
			chunks = append(chunks, block)
		}
	}
	return chunks
}

func New(embedder embedder.Embedder, retriever retriever.Retriever) *Service {
	return &Service{
		embedder:  embedder,
		retriever: retriever,
	}
}
