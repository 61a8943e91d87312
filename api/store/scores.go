/* scores.go
 * Contains the methods for interacting with the scores collection
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveScore stores a new score submission
// Preconditions: Receives a ScoreRecord with MatchID set
// Postconditions: Inserts the record and returns it with its ID and SubmittedAt filled in, or an error if the insert
// failed
func (s *Store) SaveScore(ctx context.Context, record ScoreRecord) (ScoreRecord, error) {
	if record.MatchID == "" {
		return ScoreRecord{}, fmt.Errorf("matchID cannot be empty")
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}

	res, err := s.Collections.Scores.InsertOne(ctx, record)
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("failed to insert score for match %s: %w", record.MatchID, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return record, nil
}

// GetScore returns the latest score submitted for a match
// Preconditions: Receives the matchID
// Postconditions: Returns the newest ScoreRecord, an error wrapping ErrNotFound if there is none, or the db error
func (s *Store) GetScore(ctx context.Context, matchID string) (ScoreRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "submittedat", Value: -1}})

	var result ScoreRecord
	err := s.Collections.Scores.FindOne(ctx, bson.M{"matchid": matchID}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ScoreRecord{}, fmt.Errorf("match %s: %w: %w", matchID, ErrNotFound, err)
		}
		return ScoreRecord{}, fmt.Errorf("error fetching score from db: %w", err)
	}
	return result, nil
}

// GetScoreHistory returns every score submitted for a match, oldest first
func (s *Store) GetScoreHistory(ctx context.Context, matchID string) ([]ScoreRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedat", Value: 1}})
	return s.find(ctx, bson.M{"matchid": matchID}, opts)
}

// GetUserScores returns the scores a user submitted, newest first. A limit of 0 returns all of them
func (s *Store) GetUserScores(ctx context.Context, userID string, limit int64) ([]ScoreRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedat", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{"userid": userID}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]ScoreRecord, error) {
	cursor, err := s.Collections.Scores.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching scores from db: %w", err)
	}

	results := []ScoreRecord{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of scores: %w", err)
	}
	return results, nil
}
