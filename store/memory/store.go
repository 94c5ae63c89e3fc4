package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/patrolscribe/assistant/store"
)

// Store keeps everything in process memory. It backs tests and local runs.
type Store struct {
	mtx        sync.RWMutex
	messages   []store.Message
	elements   map[string]store.CrimeElement
	penalCodes map[string]store.PenalCode
}

func (s *Store) AppendMessage(ctx context.Context, sessionId string, fromUser bool, text string) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := uuid.NewString()

	s.messages = append(s.messages, store.Message{
		Id:        id,
		SessionId: sessionId,
		FromUser:  fromUser,
		Text:      text,
	})

	return id, nil
}

func (s *Store) PatchMessageText(ctx context.Context, id string, text string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := range s.messages {
		if s.messages[i].Id == id {
			s.messages[i].Text = text
			return nil
		}
	}

	return fmt.Errorf("message %s not found", id)
}

func (s *Store) ListBySession(ctx context.Context, sessionId string) ([]store.Message, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	msgs := []store.Message{}
	for _, m := range s.messages {
		if m.SessionId == sessionId {
			msgs = append(msgs, m)
		}
	}

	return msgs, nil
}

func (s *Store) GetCrimeElement(ctx context.Context, codeNumber string) (*store.CrimeElement, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if el, ok := s.elements[codeNumber]; ok {
		cpy := el
		return &cpy, nil
	}

	return nil, nil
}

func (s *Store) PutCrimeElement(ctx context.Context, element store.CrimeElement) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.elements[element.CodeNumber] = element

	return nil
}

func (s *Store) GetPenalCode(ctx context.Context, codeNumber string) (*store.PenalCode, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if pc, ok := s.penalCodes[codeNumber]; ok {
		cpy := pc
		return &cpy, nil
	}

	return nil, fmt.Errorf("penal code %s not found", codeNumber)
}

// SeedPenalCode loads one statute row, used by tests and local fixtures.
func (s *Store) SeedPenalCode(pc store.PenalCode) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.penalCodes[pc.CodeNumber] = pc
}

func NewStore() *Store {
	return &Store{
		elements:   map[string]store.CrimeElement{},
		penalCodes: map[string]store.PenalCode{},
	}
}
