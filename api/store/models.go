/* models.go
 * This file contain the structs and errors that relate to DB objects
 */

package store

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"scoreline-bot/api/shared"
)

// ErrNotFound is returned when no score has been submitted for a match
var ErrNotFound = errors.New("score not found")

// ScoreRecord is a parsed score as it is stored in the db. Each submission is a new document so the history of a
// match can be replayed; the latest one is the current score
type ScoreRecord struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MatchID        string               `bson:"matchid" json:"matchId"`
	UserID         string               `bson:"userid" json:"userId"`
	Username       string               `bson:"username" json:"username"`
	Format         string               `bson:"format" json:"format"`
	Input          string               `bson:"input" json:"input"`
	FormattedScore string               `bson:"formattedscore" json:"formattedScore"`
	Sets           []shared.SetResult   `bson:"sets" json:"sets"`
	MatchUpStatus  shared.MatchUpStatus `bson:"matchupstatus,omitempty" json:"matchUpStatus,omitempty"`
	WinningSide    int                  `bson:"winningside,omitempty" json:"winningSide,omitempty"`
	Complete       bool                 `bson:"complete" json:"complete"`
	SubmittedAt    time.Time            `bson:"submittedat" json:"submittedAt"`
}

// Summary is the one line form of a record used in bot replies and logs
func (r ScoreRecord) Summary() string {
	summary := r.FormattedScore
	if r.MatchUpStatus != "" {
		if summary != "" {
			summary += " "
		}
		summary += string(r.MatchUpStatus)
	}
	if summary == "" {
		summary = "no score"
	}
	return summary
}
