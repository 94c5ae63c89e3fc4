package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	assistant "github.com/patrolscribe/assistant"
	"github.com/patrolscribe/assistant/completer"
	memoryretriever "github.com/patrolscribe/assistant/retriever/memory"
	"github.com/patrolscribe/assistant/store"
	memorystore "github.com/patrolscribe/assistant/store/memory"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []float32{}, nil
	}
	return []float32{1, 0}, nil
}

type fakeStream struct {
	deltas []string
	next   int
}

func (s *fakeStream) Recv() (string, error) {
	if s.next < len(s.deltas) {
		d := s.deltas[s.next]
		s.next++
		return d, nil
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error { return nil }

type fakeCompleter struct {
	text string
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []completer.Message) (string, error) {
	return f.text, nil
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, messages []completer.Message) (string, error) {
	return f.text, nil
}

func (f *fakeCompleter) Stream(ctx context.Context, messages []completer.Message) (completer.Stream, error) {
	return &fakeStream{deltas: []string{f.text}}, nil
}

type fakeCorrector struct {
	result string
	err    error
}

func (f *fakeCorrector) Correct(ctx context.Context, text string) (string, error) {
	return f.result, f.err
}

func newTestServer(comp *fakeCompleter, corr *fakeCorrector) *Server {
	backing := memorystore.NewStore()
	backing.SeedPenalCode(store.PenalCode{
		CodeNumber: "488",
		CodeType:   "PC",
		Narrative:  "Petty theft",
		Class:      "M",
	})

	a := assistant.New(
		&fakeEmbedder{},
		comp,
		corr,
		memoryretriever.NewRetriever(),
		backing,
		backing,
		backing,
		assistant.Prompts{},
	)

	return NewServer(a, WithMiddleware(RequestLogger))
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)

	return rec
}

func TestSendMessageRoundTrip(t *testing.T) {
	s := newTestServer(&fakeCompleter{text: "It is a misdemeanor."}, &fakeCorrector{})

	rec := doJSON(t, s, http.MethodPost, "/v1/sessions", `{"id": "s1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/sessions/s1/messages", `{"text": "Is PC 488 a felony?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply replyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, "It is a misdemeanor.", reply.Reply)

	rec = doJSON(t, s, http.MethodGet, "/v1/sessions/s1/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []store.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	require.True(t, msgs[0].FromUser)
	require.Equal(t, "It is a misdemeanor.", msgs[1].Text)
}

func TestCorrectionEndpoint(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, &fakeCorrector{result: "Corrected text."})

	rec := doJSON(t, s, http.MethodPost, "/v1/corrections", `{"text": "raw declaration"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out correctionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "Corrected text.", out.Result)
}

func TestCorrectionFailureMapsToServerError(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, &fakeCorrector{err: errors.New("boom")})

	rec := doJSON(t, s, http.MethodPost, "/v1/corrections", `{"text": "raw"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestValidationReturnsStructuredAnalysis(t *testing.T) {
	s := newTestServer(&fakeCompleter{text: `{"overallAssessment": {"reportScore": 8}}`}, &fakeCorrector{})

	rec := doJSON(t, s, http.MethodPost, "/v1/validations", `{"report_text": "On the above date..."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"reportScore":8`)
}

func TestValidationParseFailureMapsToBadGateway(t *testing.T) {
	s := newTestServer(&fakeCompleter{text: "not json"}, &fakeCorrector{})

	rec := doJSON(t, s, http.MethodPost, "/v1/validations", `{"report_text": "text"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestBadRequestBody(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, &fakeCorrector{})

	rec := doJSON(t, s, http.MethodPost, "/v1/corrections", "{")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
