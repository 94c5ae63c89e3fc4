package store

import "context"

// SessionStore persists conversation messages. Appends and text patches are
// individually atomic; ListBySession returns messages in insertion order,
// which is conversational order.
type SessionStore interface {
	AppendMessage(ctx context.Context, sessionId string, fromUser bool, text string) (string, error)
	PatchMessageText(ctx context.Context, id string, text string) error
	ListBySession(ctx context.Context, sessionId string) ([]Message, error)
}

// ElementStore caches generated crime-element breakdowns by penal code.
type ElementStore interface {
	// GetCrimeElement returns nil with no error on a cache miss.
	GetCrimeElement(ctx context.Context, codeNumber string) (*CrimeElement, error)
	PutCrimeElement(ctx context.Context, element CrimeElement) error
}

// PenalCodeStore resolves penal code numbers to their statutory records.
type PenalCodeStore interface {
	GetPenalCode(ctx context.Context, codeNumber string) (*PenalCode, error)
}
