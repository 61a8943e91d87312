/* router_test.go
 * Contains tests for the HTTP routes, served with httptest against a mock store
 */

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scoreline-bot/api/api"
	"scoreline-bot/api/cache"
	"scoreline-bot/api/format"
	"scoreline-bot/api/parser"
	"scoreline-bot/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer creates a Server over a mock store with a generous rate limit
func newTestServer(t *testing.T, burst int) (*Server, *api.MockStore) {
	t.Helper()
	mockStore := api.NewMockStore()
	a, err := api.New(mockStore, cache.NewResultCache(32, nil, 0), "standard")
	require.NoError(t, err)
	s, err := NewServer(Config{Addr: ":0", API: a, RateLimit: 1, RateBurst: burst})
	require.NoError(t, err)
	return s, mockStore
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// region NewServer tests

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(Config{RateLimit: 1, RateBurst: 1})
	assert.Error(t, err)

	_, err = NewServer(Config{API: &api.API{}, RateLimit: 0, RateBurst: 1})
	assert.Error(t, err)
}

// endregion

// region Parse tests

func TestParse_Post(t *testing.T) {
	s, _ := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodPost, "/parse", `{"input":"64 46 107","format":"matchtiebreak"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	result := decodeBody[parser.ParseResult](t, rec)
	assert.True(t, result.Valid)
	assert.Equal(t, "6-4 4-6 [10-7]", result.FormattedScore)
	assert.True(t, result.MatchComplete)
	assert.Len(t, result.Sets, 3)
}

func TestParse_GetKeystroke(t *testing.T) {
	s, _ := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodGet, "/parse?input=6-4+6", "")
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeBody[parser.ParseResult](t, rec)
	assert.True(t, result.Incomplete)
	assert.NotEmpty(t, result.Suggestions)
}

func TestParse_InvalidFormat(t *testing.T) {
	s, _ := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodPost, "/parse", `{"input":"6-4","format":"SET3-X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, string(parser.CodeFormatParseError))
}

func TestParse_BadBody(t *testing.T) {
	s, _ := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodPost, "/parse", `{"input":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.Router(), http.MethodPost, "/parse", `{"score":"6-4"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParse_RateLimited(t *testing.T) {
	s, _ := newTestServer(t, 2)
	h := s.Router()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/parse?input=6", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/parse?input=64", "").Code)

	rec := do(t, h, http.MethodGet, "/parse?input=64+", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// reads are not limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/formats", "").Code)
}

// endregion

// region Score tests

func TestSubmit_Created(t *testing.T) {
	s, mockStore := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodPost, "/scores",
		`{"matchId":"m1","userId":"u1","username":"alice","input":"6-7(5) 6-3 6-2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	record := decodeBody[store.ScoreRecord](t, rec)
	assert.Equal(t, "m1", record.MatchID)
	assert.Equal(t, "6-7(5) 6-3 6-2", record.FormattedScore)
	assert.True(t, record.Complete)
	require.Len(t, mockStore.Scores, 1)
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid score", `{"matchId":"m1","input":"6-4 6-3 6-2"}`, http.StatusUnprocessableEntity},
		{"missing match", `{"input":"6-4 6-3"}`, http.StatusBadRequest},
		{"bad format", `{"matchId":"m1","input":"6-4","format":"SET"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mockStore := newTestServer(t, 100)
			rec := do(t, s.Router(), http.MethodPost, "/scores", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, mockStore.Scores)
		})
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	s, mockStore := newTestServer(t, 100)
	mockStore.SaveScoreError = errors.New("db down")

	rec := do(t, s.Router(), http.MethodPost, "/scores", `{"matchId":"m1","input":"6-4 6-3"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeBody[ErrorResponse](t, rec).Error)
}

func TestGetScore(t *testing.T) {
	s, _ := newTestServer(t, 100)
	h := s.Router()
	do(t, h, http.MethodPost, "/scores", `{"matchId":"m1","input":"6-4 3-2"}`)
	do(t, h, http.MethodPost, "/scores", `{"matchId":"m1","input":"6-4 6-2"}`)

	rec := do(t, h, http.MethodGet, "/scores/m1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6-4 6-2", decodeBody[store.ScoreRecord](t, rec).FormattedScore)

	rec = do(t, h, http.MethodGet, "/scores/m1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]store.ScoreRecord](t, rec), 2)
}

func TestGetScore_NotFound(t *testing.T) {
	s, _ := newTestServer(t, 100)

	assert.Equal(t, http.StatusNotFound, do(t, s.Router(), http.MethodGet, "/scores/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s.Router(), http.MethodGet, "/scores/missing/history", "").Code)
}

func TestScores_NoStore(t *testing.T) {
	a, err := api.New(nil, nil, "standard")
	require.NoError(t, err)
	s, err := NewServer(Config{API: a, RateLimit: 10, RateBurst: 10})
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s.Router(), http.MethodGet, "/scores/m1", "").Code)
}

// endregion

// region Formats and metrics tests

func TestFormats(t *testing.T) {
	s, _ := newTestServer(t, 100)

	rec := do(t, s.Router(), http.MethodGet, "/formats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	presets := decodeBody[[]format.Preset](t, rec)
	require.NotEmpty(t, presets)
	assert.Equal(t, "standard", presets[0].Name)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, 1)
	h := s.Router()
	do(t, h, http.MethodPost, "/parse", `{"input":"6-4 6-3"}`)
	do(t, h, http.MethodPost, "/parse", `{"input":"6-4 6-3"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `scoreline_http_requests_total{code="200",route="/parse"} 1`)
	assert.Contains(t, body, `scoreline_http_requests_total{code="429",route="/parse"} 1`)
	assert.Contains(t, body, `scoreline_parse_results_total{outcome="valid"} 1`)
	assert.Contains(t, body, "scoreline_rate_limited_total 1")
	assert.Contains(t, body, "scoreline_http_request_duration_seconds_bucket")
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, 100)

	assert.Equal(t, http.StatusNotFound, do(t, s.Router(), http.MethodGet, "/nope", "").Code)
}

// endregion
