/* store_test.go
 * Contains unit tests for store.go
 */

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestNewStore_EmptyDBName(t *testing.T) {
	_, err := NewStore(context.Background(), "", "mongodb://localhost:27017")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dbName cannot be empty")
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates the score indexes", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(t, s.EnsureIndexes(context.Background()))
	})

	mt.Run("returns error when index creation fails", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad index"}))

		err := s.EnsureIndexes(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create score indexes")
	})
}

// Integration test for NewStore
func TestNewStore_Integration(t *testing.T) {
	mongoURI := os.Getenv("MONGO_TEST_URI")
	if mongoURI == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewStore(ctx, "test_scoreline", mongoURI)
	require.NoError(t, err)
	defer func() {
		_ = s.Database.Drop(ctx)
		_ = s.Close(ctx)
	}()

	saved, err := s.SaveScore(ctx, CreateSampleScore("integration-match", "user1"))
	require.NoError(t, err)

	latest, err := s.GetScore(ctx, "integration-match")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest.ID)
}
