package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/internal/faults"
	"github.com/patrolscribe/assistant/retriever"
	"github.com/patrolscribe/assistant/store"
)

const elementSearchLimit = 5

// Prompts carries the opaque system-prompt strings for each report flow.
type Prompts struct {
	Validate string
	Suggest  string
	Example  string
	Elements string
}

// Service implements the non-streaming report flows: structured validation,
// improvement suggestions, example generation, and crime-element lookups.
// None of these recover locally; parse and empty-response failures propagate
// to the caller.
type Service struct {
	completer  completer.Completer
	embedder   embedder.Embedder
	retriever  retriever.Retriever
	elements   store.ElementStore
	penalCodes store.PenalCodeStore
	prompts    Prompts
	maxTokens  int
}

type ValidateInput struct {
	PenalCodes []store.PenalCode `json:"penal_codes,omitempty"`
	ReportText string            `json:"report_text,omitempty"`
}

func (s *Service) Validate(ctx context.Context, in ValidateInput) (*Analysis, error) {
	var parts []string
	parts = append(parts, "Analyze this case with the following context:")
	if len(in.PenalCodes) > 0 {
		parts = append(parts, "PENAL CODES: "+mustJSON(in.PenalCodes))
	}
	if len(in.ReportText) > 0 {
		parts = append(parts, "REPORT TEXT: "+Truncate(in.ReportText, s.maxTokens))
	}

	raw, err := s.completer.CompleteJSON(ctx, []completer.Message{
		completer.System(s.prompts.Validate),
		completer.User(strings.Join(parts, "\n")),
	})
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, faults.Parse("report analysis", err)
	}

	return &analysis, nil
}

type SuggestInput struct {
	PenalCodes []store.PenalCode `json:"penal_codes,omitempty"`
	ReportText string            `json:"report_text,omitempty"`
}

func (s *Service) SuggestImprovements(ctx context.Context, in SuggestInput) (string, error) {
	var parts []string
	parts = append(parts, "Suggest improvements for this case:")
	if len(in.PenalCodes) > 0 {
		parts = append(parts, "Penal Codes: "+mustJSON(in.PenalCodes))
	}
	if len(in.ReportText) > 0 {
		parts = append(parts, "Current Report: "+Truncate(in.ReportText, s.maxTokens))
	}

	return s.completer.Complete(ctx, []completer.Message{
		completer.System(s.prompts.Suggest),
		completer.User(strings.Join(parts, "\n")),
	})
}

type ExampleInput struct {
	PenalCodes []store.PenalCode `json:"penal_codes,omitempty"`
	BaseText   string            `json:"base_text,omitempty"`
}

func (s *Service) GenerateExample(ctx context.Context, in ExampleInput) (string, error) {
	var parts []string
	parts = append(parts, "Generate an example report based on these penal codes:")
	parts = append(parts, mustJSON(in.PenalCodes))
	if len(in.BaseText) > 2 {
		parts = append(parts, "And with the base report "+Truncate(in.BaseText, s.maxTokens))
	}

	return s.completer.Complete(ctx, []completer.Message{
		completer.System(s.prompts.Example),
		completer.User(strings.Join(parts, "\n")),
	})
}

// CrimeElements returns the cached element breakdown for a penal code,
// generating and persisting one on a cache miss.
func (s *Service) CrimeElements(ctx context.Context, codeNumber string) (*store.CrimeElement, error) {
	cached, err := s.elements.GetCrimeElement(ctx, codeNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up crime elements: %w", err)
	}
	if cached != nil {
		return cached, nil
	}

	pc, err := s.penalCodes.GetPenalCode(ctx, codeNumber)
	if err != nil {
		return nil, err
	}

	chunks, err := s.relevantChunks(ctx, pc.CodeNumber+" "+pc.Narrative)
	if err != nil {
		return nil, err
	}

	messages := []completer.Message{completer.System(s.prompts.Elements)}
	for _, chunk := range chunks {
		messages = append(messages, completer.System("Relevant document:\n\n"+chunk.Text))
	}
	messages = append(messages, completer.User(
		fmt.Sprintf("Create elements and CALCRIM example for: %s - %s", pc.CodeNumber, pc.Narrative),
	))

	raw, err := s.completer.CompleteJSON(ctx, messages)
	if err != nil {
		return nil, err
	}

	var payload elementsPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, faults.Parse("crime elements", err)
	}

	element := store.CrimeElement{
		CodeNumber:      pc.CodeNumber,
		Elements:        payload.Elements,
		CalcrimExamples: payload.CalcrimExample,
	}

	if err := s.elements.PutCrimeElement(ctx, element); err != nil {
		return nil, fmt.Errorf("failed to persist crime elements: %w", err)
	}

	return &element, nil
}

func (s *Service) relevantChunks(ctx context.Context, query string) ([]retriever.Chunk, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, nil
	}

	results, err := s.retriever.Search(ctx, vec, elementSearchLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, res := range results {
		ids = append(ids, res.Id)
	}

	return s.retriever.GetChunks(ctx, ids)
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

func New(
	completer completer.Completer,
	embedder embedder.Embedder,
	retriever retriever.Retriever,
	elements store.ElementStore,
	penalCodes store.PenalCodeStore,
	prompts Prompts,
) *Service {
	return &Service{
		completer:  completer,
		embedder:   embedder,
		retriever:  retriever,
		elements:   elements,
		penalCodes: penalCodes,
		prompts:    prompts,
		maxTokens:  DefaultMaxTokens,
	}
}
