/* store.go
 * Contains the store struct and NewStore function. The methods for this package live in scores.go, which holds every
 * operation on the submitted scores collection
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Scores *mongo.Collection
	}
}

// Function for initialising Store. Connects to the db and checks the connection is usable
// Preconditions: Receives strings containing the dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := newStore(client, client.Database(dbName))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func newStore(client *mongo.Client, db *mongo.Database) *Store {
	s := &Store{Client: client, Database: db}
	s.Collections.Scores = db.Collection("scores")
	return s
}

// EnsureIndexes creates the indexes used by the score lookups. Creating an existing index is a no-op
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Collections.Scores.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "matchid", Value: 1}, {Key: "submittedat", Value: -1}}},
		{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "submittedat", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create score indexes: %w", err)
	}
	return nil
}

// Close disconnects the mongo client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
