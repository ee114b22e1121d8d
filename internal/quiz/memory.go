package quiz

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process ContentStore + AttemptLedger, used by tests
// and offline/dev mode. The ledger key check happens under one lock, which
// stands in for the SQL unique constraint.
type MemoryStore struct {
	mu        sync.RWMutex
	questions map[string]Question
	quizzes   map[string]Quiz
	attempts  map[string]AttemptRecord // key: user|quiz|day
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		questions: map[string]Question{},
		quizzes:   map[string]Quiz{},
		attempts:  map[string]AttemptRecord{},
	}
}

var (
	_ ContentStore  = (*MemoryStore)(nil)
	_ AttemptLedger = (*MemoryStore)(nil)
)

func attemptKey(userID, quizID, day string) string {
	return userID + "|" + quizID + "|" + day
}

func (m *MemoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrQuestionNotFound
	}
	return q, nil
}

func (m *MemoryStore) GetQuestions(_ context.Context, ids []string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := m.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutQuiz(_ context.Context, qz Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[qz.ID] = qz
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	qz, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return qz, nil
}

func (m *MemoryStore) ListDailyQuizzes(_ context.Context) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Quiz{}
	for _, qz := range m.quizzes {
		if qz.IsDaily && qz.IsActive {
			out = append(out, qz)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) HasAttempted(_ context.Context, userID, quizID, day string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.attempts[attemptKey(userID, quizID, day)]
	return ok, nil
}

func (m *MemoryStore) RecordAttempt(_ context.Context, rec AttemptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := attemptKey(rec.UserID, rec.QuizID, rec.Day)
	if _, ok := m.attempts[k]; ok {
		return ErrAttemptExists
	}
	m.attempts[k] = rec
	return nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, userID, quizID, day string) (AttemptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.attempts[attemptKey(userID, quizID, day)]
	if !ok {
		return AttemptRecord{}, ErrAttemptNotFound
	}
	return rec, nil
}

func (m *MemoryStore) ListAttempts(_ context.Context, userID string, limit int) ([]AttemptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []AttemptRecord{}
	for _, rec := range m.attempts {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
