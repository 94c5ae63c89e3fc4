package turn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/internal/service/session"
	"github.com/patrolscribe/assistant/retriever"
	"github.com/patrolscribe/assistant/store"
)

const (
	// fallbackReply replaces the placeholder text when the stream fails.
	fallbackReply = "I cannot reply at this time. Reach out to the team on Discord"

	defaultSearchLimit = 8
)

// Service runs one retrieval-augmented streaming turn: embed the latest
// user message, retrieve reference chunks, assemble the prompt, create an
// empty placeholder bot message, then stream the answer into it delta by
// delta so a concurrent reader can watch it grow.
type Service struct {
	sessions     *session.Service
	embedder     embedder.Embedder
	completer    completer.Completer
	retriever    retriever.Retriever
	store        store.SessionStore
	systemPrompt string
	searchLimit  int
}

func (s *Service) Answer(ctx context.Context, sessionId string) (string, error) {
	if err := s.sessions.BeginTurn(ctx, sessionId); err != nil {
		return "", err
	}
	defer s.sessions.EndTurn(ctx, sessionId)

	history, err := s.store.ListBySession(ctx, sessionId)
	if err != nil {
		return "", fmt.Errorf("failed to load session history: %w", err)
	}
	if len(history) == 0 {
		return "", errors.New("session has no messages")
	}

	chunks, err := s.relevantChunks(ctx, history[len(history)-1].Text)
	if err != nil {
		return "", err
	}

	messages := assemble(s.systemPrompt, chunks, history)

	// The placeholder is created after retrieval and context assembly and
	// before the streaming call opens.
	placeholderId, err := s.store.AppendMessage(ctx, sessionId, false, "")
	if err != nil {
		return "", fmt.Errorf("failed to create placeholder message: %w", err)
	}

	return s.streamInto(ctx, placeholderId, messages)
}

func (s *Service) relevantChunks(ctx context.Context, query string) ([]retriever.Chunk, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, nil
	}

	results, err := s.retriever.Search(ctx, vec, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search reference corpus: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, res := range results {
		ids = append(ids, res.Id)
	}

	chunks, err := s.retriever.GetChunks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference chunks: %w", err)
	}

	return chunks, nil
}

// streamInto consumes the token stream strictly sequentially, persisting the
// full accumulated text after every non-empty delta. On any failure it
// overwrites the placeholder with the fallback reply and re-raises the
// original error; it never succeeds silently.
func (s *Service) streamInto(ctx context.Context, placeholderId string, messages []completer.Message) (string, error) {
	stream, err := s.completer.Stream(ctx, messages)
	if err != nil {
		return "", s.fail(ctx, placeholderId, err)
	}
	defer stream.Close()

	acc := ""
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return acc, nil
		}
		if err != nil {
			return "", s.fail(ctx, placeholderId, err)
		}

		if len(delta) == 0 {
			continue
		}

		acc += delta
		if err := s.store.PatchMessageText(ctx, placeholderId, acc); err != nil {
			return "", s.fail(ctx, placeholderId, err)
		}
	}
}

func (s *Service) fail(ctx context.Context, placeholderId string, cause error) error {
	if err := s.store.PatchMessageText(ctx, placeholderId, fallbackReply); err != nil {
		slog.ErrorContext(ctx, "failed to write fallback reply", "message_id", placeholderId, "error", err)
	}
	return cause
}

func New(
	sessions *session.Service,
	embedder embedder.Embedder,
	completer completer.Completer,
	retriever retriever.Retriever,
	store store.SessionStore,
	systemPrompt string,
) *Service {
	return &Service{
		sessions:     sessions,
		embedder:     embedder,
		completer:    completer,
		retriever:    retriever,
		store:        store,
		systemPrompt: systemPrompt,
		searchLimit:  defaultSearchLimit,
	}
}
