/* models.go
 * This file contain the structs and constants that are shared between sub packages: the user submitting a score, the
 * per-set result produced by the parser and stored by the store, and the irregular match ending codes
 */

package shared

type User struct {
	UserID   string
	Username string
}

// SetResult is the score of a single set. Game sets carry Side1Score/Side2Score (plus the tiebreak points when the
// set was decided by a tiebreak); tiebreak-only sets carry only the tiebreak points
type SetResult struct {
	SetNumber          int  `bson:"setnumber" json:"setNumber"`
	Side1Score         *int `bson:"side1score,omitempty" json:"side1Score,omitempty"`
	Side2Score         *int `bson:"side2score,omitempty" json:"side2Score,omitempty"`
	Side1TiebreakScore *int `bson:"side1tiebreakscore,omitempty" json:"side1TiebreakScore,omitempty"`
	Side2TiebreakScore *int `bson:"side2tiebreakscore,omitempty" json:"side2TiebreakScore,omitempty"`
	WinningSide        int  `bson:"winningside,omitempty" json:"winningSide,omitempty"` // 1, 2 or 0 when undecided
}

// IsTiebreakOnly reports whether the set is a match tiebreak with no game score
func (s SetResult) IsTiebreakOnly() bool {
	return s.Side1Score == nil && s.Side2Score == nil && s.Side1TiebreakScore != nil
}

// MatchUpStatus is an irregular way for a match to end, or not start
type MatchUpStatus string

const (
	StatusRetired        MatchUpStatus = "RETIRED"
	StatusWalkover       MatchUpStatus = "WALKOVER"
	StatusDefaulted      MatchUpStatus = "DEFAULTED"
	StatusSuspended      MatchUpStatus = "SUSPENDED"
	StatusCancelled      MatchUpStatus = "CANCELLED"
	StatusIncomplete     MatchUpStatus = "INCOMPLETE"
	StatusDeadRubber     MatchUpStatus = "DEAD_RUBBER"
	StatusInProgress     MatchUpStatus = "IN_PROGRESS"
	StatusAwaitingResult MatchUpStatus = "AWAITING_RESULT"
)

// RetainsScore reports whether sets already played are kept when the match ends with this status
func (s MatchUpStatus) RetainsScore() bool {
	switch s {
	case StatusWalkover, StatusCancelled, StatusDeadRubber:
		return false
	}
	return true
}

// IntPtr returns a pointer to a copy of v
func IntPtr(v int) *int {
	return &v
}
