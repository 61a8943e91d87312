/* models.go
 * This file contain the errors that are returned to api consumers
 */

package api

import "errors"

var (
	// ErrInvalidScore is returned when submitted input does not parse into a valid score
	ErrInvalidScore = errors.New("invalid score")
	// ErrMissingMatchID is returned when a score is submitted without a match id
	ErrMissingMatchID = errors.New("match id is required")
	// ErrNoStore is returned by operations that need the db when the API was built without one
	ErrNoStore = errors.New("no score store configured")
)
