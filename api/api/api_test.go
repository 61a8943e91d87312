/* api_test.go
 * Contains unit tests for api.go - testing all public API methods
 */

package api

import (
	"context"
	"errors"
	"testing"

	"scoreline-bot/api/cache"
	"scoreline-bot/api/format"
	"scoreline-bot/api/shared"
	"scoreline-bot/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = shared.User{UserID: "user1", Username: "testuser"}

func newTestAPI(t *testing.T) (*API, *MockStore) {
	t.Helper()
	mockStore := NewMockStore()
	a, err := New(mockStore, cache.NewResultCache(16, nil, 0), "standard")
	require.NoError(t, err)
	return a, mockStore
}

// region New tests

func TestNew_ResolvesPreset(t *testing.T) {
	a, err := New(nil, nil, "fast4")
	require.NoError(t, err)
	assert.Equal(t, "SET3-S:4NOAD/TB7@3", a.DefaultFormat)
}

func TestNew_InvalidDefaultFormat(t *testing.T) {
	_, err := New(nil, nil, "SET0")
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrInvalidFormat)
}

// endregion

// region ParseScore tests

func TestParseScore_DefaultFormat(t *testing.T) {
	a, _ := newTestAPI(t)

	result, err := a.ParseScore(context.Background(), "64 36 76(4)", "")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "6-4 3-6 7-6(4)", result.FormattedScore)
	assert.True(t, result.MatchComplete)
	assert.Equal(t, 1, result.WinningSide)
}

func TestParseScore_PresetName(t *testing.T) {
	a, _ := newTestAPI(t)

	result, err := a.ParseScore(context.Background(), "64 46 107", "matchtiebreak")
	require.NoError(t, err)
	assert.Equal(t, "6-4 4-6 [10-7]", result.FormattedScore)
}

func TestParseScore_InvalidFormat(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.ParseScore(context.Background(), "6-4", "SET3-S:")
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrInvalidFormat)
	assert.True(t, IsUserError(err))
}

func TestParseScore_UsesCache(t *testing.T) {
	a, _ := newTestAPI(t)
	ctx := context.Background()

	first, err := a.ParseScore(ctx, "6-4 6-3", "")
	require.NoError(t, err)
	second, err := a.ParseScore(ctx, "6-4 6-3", "standard")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestParseScore_WithoutCacheOrParser(t *testing.T) {
	a := &API{DefaultFormat: "SET3-S:6/TB7"}

	result, err := a.ParseScore(context.Background(), "6-4", "")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.False(t, result.MatchComplete)
}

// endregion

// region SubmitScore tests

func TestSubmitScore_Success(t *testing.T) {
	a, mockStore := newTestAPI(t)

	record, err := a.SubmitScore(context.Background(), testUser, " match-1 ", "6-7(5) 6-3 6-2", "")
	require.NoError(t, err)

	assert.Equal(t, "match-1", record.MatchID)
	assert.Equal(t, "6-7(5) 6-3 6-2", record.FormattedScore)
	assert.Equal(t, "SET3-S:6/TB7", record.Format)
	assert.Equal(t, 1, record.WinningSide)
	assert.True(t, record.Complete)
	require.Len(t, mockStore.Scores, 1)
	assert.Equal(t, "testuser", mockStore.Scores[0].Username)
}

func TestSubmitScore_StatusOnly(t *testing.T) {
	a, _ := newTestAPI(t)

	record, err := a.SubmitScore(context.Background(), testUser, "match-1", "w/o", "")
	require.NoError(t, err)
	assert.Equal(t, shared.StatusWalkover, record.MatchUpStatus)
	assert.Empty(t, record.Sets)
}

func TestSubmitScore_InvalidScore(t *testing.T) {
	a, mockStore := newTestAPI(t)

	_, err := a.SubmitScore(context.Background(), testUser, "match-1", "6-4 6-3 6-2", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.True(t, IsUserError(err))
	assert.Empty(t, mockStore.Scores)
}

func TestSubmitScore_EmptyInput(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.SubmitScore(context.Background(), testUser, "match-1", "  ", "")
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestSubmitScore_MissingMatchID(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.SubmitScore(context.Background(), testUser, "", "6-4 6-3", "")
	assert.ErrorIs(t, err, ErrMissingMatchID)
}

func TestSubmitScore_StoreError(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.SaveScoreError = errors.New("db down")

	_, err := a.SubmitScore(context.Background(), testUser, "match-1", "6-4 6-3", "")
	require.Error(t, err)
	assert.False(t, IsUserError(err))
}

func TestSubmitScore_NoStore(t *testing.T) {
	a, err := New(nil, nil, "standard")
	require.NoError(t, err)

	_, err = a.SubmitScore(context.Background(), testUser, "match-1", "6-4 6-3", "")
	assert.ErrorIs(t, err, ErrNoStore)
}

// endregion

// region Read tests

func TestGetMatchScore_Latest(t *testing.T) {
	a, _ := newTestAPI(t)
	ctx := context.Background()
	_, err := a.SubmitScore(ctx, testUser, "match-1", "6-4 3-2", "")
	require.NoError(t, err)
	_, err = a.SubmitScore(ctx, testUser, "match-1", "6-4 6-2", "")
	require.NoError(t, err)

	record, err := a.GetMatchScore(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, "6-4 6-2", record.FormattedScore)
}

func TestGetMatchScore_NotFound(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.GetMatchScore(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMatchHistory(t *testing.T) {
	a, _ := newTestAPI(t)
	ctx := context.Background()
	_, err := a.SubmitScore(ctx, testUser, "match-1", "6-4", "")
	require.NoError(t, err)
	_, err = a.SubmitScore(ctx, testUser, "match-1", "6-4 6-2", "")
	require.NoError(t, err)

	history, err := a.GetMatchHistory(ctx, "match-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "6-4", history[0].FormattedScore)

	_, err = a.GetMatchHistory(ctx, "match-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserScores(t *testing.T) {
	a, mockStore := newTestAPI(t)
	ctx := context.Background()
	for _, id := range []string{"m1", "m2", "m3"} {
		_, err := a.SubmitScore(ctx, testUser, id, "6-4 6-4", "")
		require.NoError(t, err)
	}
	_, err := a.SubmitScore(ctx, shared.User{UserID: "other"}, "m4", "6-4 6-4", "")
	require.NoError(t, err)

	scores, err := a.GetUserScores(ctx, testUser, 2)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "m3", scores[0].MatchID)

	scores, err = a.GetUserScores(ctx, testUser, 0)
	require.NoError(t, err)
	assert.Len(t, scores, 3)

	mockStore.GetUserScoresError = errors.New("db down")
	_, err = a.GetUserScores(ctx, testUser, 0)
	assert.Error(t, err)
}

func TestListFormats(t *testing.T) {
	a, _ := newTestAPI(t)

	formats := a.ListFormats()
	require.NotEmpty(t, formats)
	assert.Equal(t, "standard", formats[0].Name)
}

func TestClose(t *testing.T) {
	a, mockStore := newTestAPI(t)

	require.NoError(t, a.Close(context.Background()))
	assert.True(t, mockStore.Closed)
	assert.NoError(t, (&API{}).Close(context.Background()))
}

// endregion
