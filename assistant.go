package assistant

import (
	"context"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/corrector"
	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/internal/service/corpus"
	"github.com/patrolscribe/assistant/internal/service/report"
	"github.com/patrolscribe/assistant/internal/service/session"
	"github.com/patrolscribe/assistant/internal/service/turn"
	"github.com/patrolscribe/assistant/retriever"
	"github.com/patrolscribe/assistant/store"
)

// Assistant is the public façade over the report-writing services: the
// retrieval-augmented chat turn, the report analysis flows, the correction
// poller, and corpus ingestion.
type Assistant struct {
	sessions  *session.Service
	turns     *turn.Service
	reports   *report.Service
	corpus    *corpus.Service
	corrector corrector.Corrector
	store     store.SessionStore
}

func (a *Assistant) CreateSession(ctx context.Context, id string) (string, error) {
	s, err := a.sessions.CreateSession(ctx, id)
	if err != nil {
		return "", err
	}
	return s.ID(), nil
}

func (a *Assistant) ListSessionIds(ctx context.Context) []string {
	return a.sessions.ListSessionIds(ctx)
}

func (a *Assistant) DeleteSession(ctx context.Context, id string) {
	a.sessions.DeleteSession(ctx, id)
}

// SendMessage appends the viewer's message to the session and runs one
// streaming turn. The reply is also observable incrementally through
// ListMessages while the turn runs.
func (a *Assistant) SendMessage(ctx context.Context, sessionId string, text string) (string, error) {
	if _, err := a.store.AppendMessage(ctx, sessionId, true, text); err != nil {
		return "", err
	}

	return a.turns.Answer(ctx, sessionId)
}

func (a *Assistant) ListMessages(ctx context.Context, sessionId string) ([]store.Message, error) {
	return a.store.ListBySession(ctx, sessionId)
}

func (a *Assistant) Correct(ctx context.Context, text string) (string, error) {
	return a.corrector.Correct(ctx, text)
}

func (a *Assistant) Validate(ctx context.Context, in report.ValidateInput) (*report.Analysis, error) {
	return a.reports.Validate(ctx, in)
}

func (a *Assistant) SuggestImprovements(ctx context.Context, in report.SuggestInput) (string, error) {
	return a.reports.SuggestImprovements(ctx, in)
}

func (a *Assistant) GenerateExample(ctx context.Context, in report.ExampleInput) (string, error) {
	return a.reports.GenerateExample(ctx, in)
}

func (a *Assistant) CrimeElements(ctx context.Context, codeNumber string) (*store.CrimeElement, error) {
	return a.reports.CrimeElements(ctx, codeNumber)
}

func (a *Assistant) IngestText(ctx context.Context, text string) (int, error) {
	return a.corpus.IngestText(ctx, text)
}

func (a *Assistant) IngestFile(ctx context.Context, path string) (int, error) {
	return a.corpus.IngestFile(ctx, path)
}

func New(
	emb embedder.Embedder,
	comp completer.Completer,
	corr corrector.Corrector,
	ret retriever.Retriever,
	sessionStore store.SessionStore,
	elementStore store.ElementStore,
	penalCodeStore store.PenalCodeStore,
	prompts Prompts,
) *Assistant {
	prompts = prompts.withDefaults()

	sessions := session.New()

	turns := turn.New(
		sessions,
		emb,
		comp,
		ret,
		sessionStore,
		prompts.Chat,
	)

	reports := report.New(
		comp,
		emb,
		ret,
		elementStore,
		penalCodeStore,
		prompts.Report,
	)

	return &Assistant{
		sessions:  sessions,
		turns:     turns,
		reports:   reports,
		corpus:    corpus.New(emb, ret),
		corrector: corr,
		store:     sessionStore,
	}
}
