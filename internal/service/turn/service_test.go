package turn

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/internal/faults"
	"github.com/patrolscribe/assistant/internal/service/session"
	"github.com/patrolscribe/assistant/retriever"
	"github.com/patrolscribe/assistant/store"
	memorystore "github.com/patrolscribe/assistant/store/memory"
)

type fakeEmbedder struct {
	calls int
	vec   []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []float32{}, nil
	}
	f.calls++
	return f.vec, nil
}

type fakeRetriever struct {
	results []retriever.Result
	chunks  map[string]retriever.Chunk
	gotK    int
}

func (f *fakeRetriever) InsertChunk(ctx context.Context, text string, embedding []float32) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeRetriever) Search(ctx context.Context, vector []float32, k int) ([]retriever.Result, error) {
	f.gotK = k
	return f.results, nil
}

func (f *fakeRetriever) GetChunks(ctx context.Context, ids []string) ([]retriever.Chunk, error) {
	chunks := make([]retriever.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.chunks[id]; ok {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

type scriptedStream struct {
	deltas []string
	err    error
	next   int
	closed bool
}

func (s *scriptedStream) Recv() (string, error) {
	if s.next < len(s.deltas) {
		d := s.deltas[s.next]
		s.next++
		return d, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

type fakeCompleter struct {
	stream    *scriptedStream
	openErr   error
	gotPrompt []completer.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []completer.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, messages []completer.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeCompleter) Stream(ctx context.Context, messages []completer.Message) (completer.Stream, error) {
	f.gotPrompt = messages
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

// snapshotStore records every persisted text of every patch so tests can
// assert the exact sequence a concurrent reader could observe.
type snapshotStore struct {
	store.SessionStore
	snapshots []string
}

func (s *snapshotStore) PatchMessageText(ctx context.Context, id string, text string) error {
	if err := s.SessionStore.PatchMessageText(ctx, id, text); err != nil {
		return err
	}
	s.snapshots = append(s.snapshots, text)
	return nil
}

func newFixture(deltas []string, streamErr error) (*Service, *snapshotStore, *fakeCompleter, *fakeEmbedder) {
	emb := &fakeEmbedder{vec: []float32{1, 0, 0}}
	ret := &fakeRetriever{
		results: []retriever.Result{{Id: "c1", Score: 0.9}},
		chunks: map[string]retriever.Chunk{
			"c1": {Id: "c1", Text: "PC 488 covers petty theft, a misdemeanor."},
		},
	}
	comp := &fakeCompleter{stream: &scriptedStream{deltas: deltas, err: streamErr}}
	backing := memorystore.NewStore()
	snaps := &snapshotStore{SessionStore: backing}

	svc := New(session.New(), emb, comp, ret, snaps, "You are an expert in criminal law.")

	return svc, snaps, comp, emb
}

func seedUserMessage(t *testing.T, s store.SessionStore, sessionId, text string) {
	t.Helper()
	_, err := s.AppendMessage(context.Background(), sessionId, true, text)
	require.NoError(t, err)
}

func TestAnswerStreamsMonotonicSnapshots(t *testing.T) {
	ctx := context.Background()
	deltas := []string{"Under ", "PC 488", ", this is", " a misdemeanor."}

	svc, snaps, comp, _ := newFixture(deltas, nil)
	seedUserMessage(t, snaps, "s1", "Is PC 488 a felony?")

	answer, err := svc.Answer(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Under PC 488, this is a misdemeanor.", answer)

	// Every snapshot is the running prefix-concatenation of the deltas.
	require.Equal(t, []string{
		"Under ",
		"Under PC 488",
		"Under PC 488, this is",
		"Under PC 488, this is a misdemeanor.",
	}, snaps.snapshots)
	for i := 1; i < len(snaps.snapshots); i++ {
		require.True(t, strings.HasPrefix(snaps.snapshots[i], snaps.snapshots[i-1]))
	}

	// Final persisted state: the user message plus the finished bot message.
	msgs, err := snaps.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.False(t, msgs[1].FromUser)
	require.Equal(t, "Under PC 488, this is a misdemeanor.", msgs[1].Text)

	require.True(t, comp.stream.closed)
}

func TestAnswerAssemblesPromptInOrder(t *testing.T) {
	ctx := context.Background()

	svc, snaps, comp, _ := newFixture([]string{"ok"}, nil)
	seedUserMessage(t, snaps, "s1", "Is PC 488 a felony?")

	_, err := svc.Answer(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, comp.gotPrompt, 3)
	require.Equal(t, completer.RoleSystem, comp.gotPrompt[0].Role)
	require.Equal(t, "You are an expert in criminal law.", comp.gotPrompt[0].Content)
	require.Equal(t, completer.RoleSystem, comp.gotPrompt[1].Role)
	require.Equal(t, "Relevant document:\n\nPC 488 covers petty theft, a misdemeanor.", comp.gotPrompt[1].Content)
	require.Equal(t, completer.RoleUser, comp.gotPrompt[2].Role)
	require.Equal(t, "Is PC 488 a felony?", comp.gotPrompt[2].Content)
}

func TestAnswerStreamFailureWritesFallbackAndPropagates(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection reset")

	svc, snaps, _, _ := newFixture([]string{"partial ", "answer"}, cause)
	seedUserMessage(t, snaps, "s1", "Is PC 488 a felony?")

	_, err := svc.Answer(ctx, "s1")
	require.ErrorIs(t, err, cause)

	msgs, err := snaps.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, fallbackReply, msgs[1].Text)

	// Partial progress was observable before the failure.
	require.Equal(t, []string{"partial ", "partial answer", fallbackReply}, snaps.snapshots)
}

func TestAnswerStreamOpenFailureWritesFallback(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("bad gateway")

	svc, snaps, comp, _ := newFixture(nil, nil)
	comp.openErr = cause
	seedUserMessage(t, snaps, "s1", "Is PC 488 a felony?")

	_, err := svc.Answer(ctx, "s1")
	require.ErrorIs(t, err, cause)

	msgs, err := snaps.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, fallbackReply, msgs[1].Text)
}

func TestAnswerSkipsEmptyDeltas(t *testing.T) {
	ctx := context.Background()

	svc, snaps, _, _ := newFixture([]string{"", "Hello", ""}, nil)
	seedUserMessage(t, snaps, "s1", "Hi")

	answer, err := svc.Answer(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Hello", answer)
	require.Equal(t, []string{"Hello"}, snaps.snapshots)
}

func TestAnswerRejectsConcurrentTurnOnSameSession(t *testing.T) {
	ctx := context.Background()

	svc, snaps, _, _ := newFixture([]string{"ok"}, nil)
	seedUserMessage(t, snaps, "s1", "Hi")

	require.NoError(t, svc.sessions.BeginTurn(ctx, "s1"))

	_, err := svc.Answer(ctx, "s1")
	require.ErrorIs(t, err, faults.ErrTurnInProgress)

	svc.sessions.EndTurn(ctx, "s1")

	_, err = svc.Answer(ctx, "s1")
	require.NoError(t, err)
}

func TestAnswerEmptySessionErrors(t *testing.T) {
	svc, _, _, _ := newFixture([]string{"ok"}, nil)

	_, err := svc.Answer(context.Background(), "unknown")
	require.Error(t, err)
}
