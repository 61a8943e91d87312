/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import "context"

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	SaveScore(ctx context.Context, record ScoreRecord) (ScoreRecord, error)
	GetScore(ctx context.Context, matchID string) (ScoreRecord, error)
	GetScoreHistory(ctx context.Context, matchID string) ([]ScoreRecord, error)
	GetUserScores(ctx context.Context, userID string, limit int64) ([]ScoreRecord, error)
	Close(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
