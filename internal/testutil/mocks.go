package testutil

import (
	"context"
	"sync"

	"translatebot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockJournalRepository is a mock for JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(entry domain.TranslationLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockJournalRepository) CountSince(days int) (int, int, error) {
	args := m.Called(days)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockJournalRepository) CleanOldEntries(days int) error {
	args := m.Called(days)
	return args.Error(0)
}

// MockGateway is a mock for translation.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Translate(ctx context.Context, req domain.TranslationRequest) domain.TranslationResult {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func() domain.TranslationResult); ok {
		return fn()
	}
	return args.Get(0).(domain.TranslationResult)
}

func (m *MockGateway) Name() string {
	return "mock"
}

// RecordingSender collects replies instead of delivering them
type RecordingSender struct {
	mu      sync.Mutex
	Err     error
	replies []domain.Reply
}

func (s *RecordingSender) Send(_ context.Context, reply domain.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, reply)
	return s.Err
}

// Replies returns a copy of the replies sent so far
func (s *RecordingSender) Replies() []domain.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.Reply, len(s.replies))
	copy(cp, s.replies)
	return cp
}
