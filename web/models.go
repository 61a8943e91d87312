/* models.go
 * Contains the server configuration and the JSON bodies of the HTTP endpoints
 */

package web

import (
	"scoreline-bot/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr      string
	API       *api.API
	RateLimit float64 // requests per second per client IP on the parse and submit routes
	RateBurst int
}

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Input  string `json:"input"`
	Format string `json:"format,omitempty"`
}

// SubmitRequest is the body of POST /scores
type SubmitRequest struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Input    string `json:"input"`
	Format   string `json:"format,omitempty"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}
