/* helpers_test.go
 * Contains test helper functions for store package tests
 */

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"scoreline-bot/api/shared"
)

// newMockedStore wires a Store to the collection of an mtest mock deployment
func newMockedStore(mt *mtest.T) *Store {
	s := &Store{Client: mt.Client, Database: mt.DB}
	s.Collections.Scores = mt.Coll
	return s
}

// CreateSampleScore creates a sample ScoreRecord for testing.
func CreateSampleScore(matchID, userID string) ScoreRecord {
	return ScoreRecord{
		MatchID:        matchID,
		UserID:         userID,
		Username:       "user-" + userID,
		Format:         "SET3-S:6/TB7",
		Input:          "6463",
		FormattedScore: "6-4 6-3",
		Sets: []shared.SetResult{
			{SetNumber: 1, Side1Score: shared.IntPtr(6), Side2Score: shared.IntPtr(4), WinningSide: 1},
			{SetNumber: 2, Side1Score: shared.IntPtr(6), Side2Score: shared.IntPtr(3), WinningSide: 1},
		},
		WinningSide: 1,
		Complete:    true,
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// scoreDoc is the bson form of a record as the mock server returns it
func scoreDoc(record ScoreRecord) bson.D {
	data, err := bson.Marshal(record)
	if err != nil {
		panic(err)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return doc
}
