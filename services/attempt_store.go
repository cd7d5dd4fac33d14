package services

import (
	"sync"

	"github.com/google/uuid"
)

// ActiveAttempt là một lượt làm bài đang mở, giữ trong bộ nhớ của node API.
type ActiveAttempt struct {
	ID     uuid.UUID
	QuizID uuid.UUID
	UserID uuid.UUID
	Sess   *Session
}

// AttemptStore quản lý các lượt làm bài đang mở. Chỉ một node API giữ
// session nên map trong bộ nhớ là đủ; mất node thì lượt đang mở mất theo,
// kết quả đã nộp vẫn nằm trong DB.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*ActiveAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[uuid.UUID]*ActiveAttempt)}
}

func (s *AttemptStore) Add(attempt *ActiveAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = attempt
}

func (s *AttemptStore) Get(id uuid.UUID) (*ActiveAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[id]
	return attempt, ok
}

func (s *AttemptStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, id)
}
