/* test_mocks.go
 * Contains mock structures for testing the API package and its consumers (bot, web)
 */

package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"scoreline-bot/api/store"
)

// MockStore implements store.Interface in memory for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data, in submission order
	Scores []store.ScoreRecord

	// Error injection for testing error paths
	SaveScoreError       error
	GetScoreError        error
	GetScoreHistoryError error
	GetUserScoresError   error

	// Clock used to stamp submissions
	Now    func() time.Time
	Closed bool
}

var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a new MockStore whose clock advances one second per submission
func NewMockStore() *MockStore {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	m := &MockStore{Scores: []store.ScoreRecord{}}
	m.Now = func() time.Time {
		ticks++
		return start.Add(time.Duration(ticks) * time.Second)
	}
	return m
}

// SaveScore mock implementation
func (m *MockStore) SaveScore(_ context.Context, record store.ScoreRecord) (store.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveScoreError != nil {
		return store.ScoreRecord{}, m.SaveScoreError
	}
	if record.MatchID == "" {
		return store.ScoreRecord{}, fmt.Errorf("match id is required")
	}
	record.SubmittedAt = m.Now()
	m.Scores = append(m.Scores, record)
	return record, nil
}

// GetScore mock implementation
func (m *MockStore) GetScore(_ context.Context, matchID string) (store.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetScoreError != nil {
		return store.ScoreRecord{}, m.GetScoreError
	}
	for i := len(m.Scores) - 1; i >= 0; i-- {
		if m.Scores[i].MatchID == matchID {
			return m.Scores[i], nil
		}
	}
	return store.ScoreRecord{}, fmt.Errorf("match %s: %w", matchID, store.ErrNotFound)
}

// GetScoreHistory mock implementation
func (m *MockStore) GetScoreHistory(_ context.Context, matchID string) ([]store.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetScoreHistoryError != nil {
		return nil, m.GetScoreHistoryError
	}
	history := []store.ScoreRecord{}
	for _, record := range m.Scores {
		if record.MatchID == matchID {
			history = append(history, record)
		}
	}
	return history, nil
}

// GetUserScores mock implementation
func (m *MockStore) GetUserScores(_ context.Context, userID string, limit int64) ([]store.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetUserScoresError != nil {
		return nil, m.GetUserScoresError
	}
	scores := []store.ScoreRecord{}
	for _, record := range m.Scores {
		if record.UserID == userID {
			scores = append(scores, record)
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].SubmittedAt.After(scores[j].SubmittedAt)
	})
	if limit > 0 && int64(len(scores)) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// Close mock implementation
func (m *MockStore) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
