package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/patrolscribe/assistant/internal/faults"
)

// Service tracks known sessions and owns the per-session exclusive-turn
// token that serializes placeholder creation for streaming turns.
type Service struct {
	sessions map[string]*Session
	mtx      sync.RWMutex
}

func (s *Service) CreateSession(ctx context.Context, id string) (*Session, error) {
	if len(strings.TrimSpace(id)) == 0 {
		id = uuid.NewString()
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if session, ok := s.sessions[id]; ok {
		return session, nil
	}

	session := &Session{
		id: id,
	}

	s.sessions[id] = session

	return session, nil
}

func (s *Service) ListSessionIds(ctx context.Context) []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (s *Service) DeleteSession(ctx context.Context, id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.sessions, id)
}

// BeginTurn acquires the session's turn token. It fails with
// faults.ErrTurnInProgress when another turn holds it, instead of letting
// two turns race to create placeholders for the same session.
func (s *Service) BeginTurn(ctx context.Context, id string) error {
	session, err := s.CreateSession(ctx, id)
	if err != nil {
		return err
	}

	return session.beginTurn()
}

// EndTurn releases the session's turn token.
func (s *Service) EndTurn(ctx context.Context, id string) {
	s.mtx.RLock()
	session, ok := s.sessions[id]
	s.mtx.RUnlock()

	if ok {
		session.endTurn()
	}
}

func New() *Service {
	return &Service{
		sessions: map[string]*Session{},
	}
}

type Session struct {
	id   string
	mtx  sync.Mutex
	busy bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) beginTurn() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.busy {
		return faults.ErrTurnInProgress
	}
	s.busy = true

	return nil
}

func (s *Session) endTurn() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.busy = false
}
