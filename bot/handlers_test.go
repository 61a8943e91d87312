/* handlers_test.go
 * Contains unit tests for bot command handlers using mock Discord session
 */

package bot

import (
	"errors"
	"testing"

	"scoreline-bot/api/api"
	"scoreline-bot/api/cache"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botUserID = "bot123"

// createTestBot creates a Bot instance with a mock store for testing
func createTestBot(t *testing.T) (*Bot, *api.MockStore) {
	t.Helper()
	mockStore := api.NewMockStore()
	apiPtr, err := api.New(mockStore, cache.NewResultCache(32, nil, 0), "standard")
	require.NoError(t, err)
	return &Bot{BotToken: "test_token", APIPtr: apiPtr}, mockStore
}

// testMessage creates a message from the default test user
func testMessage(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "channel1",
			Content:   content,
			Author:    &discordgo.User{ID: "user1", Username: "testuser"},
		},
	}
}

// send routes content through newMessageHandler and returns the reply
func send(t *testing.T, b *Bot, content string) string {
	t.Helper()
	session := NewMockDiscordSession()
	b.newMessageHandler(session, testMessage(content), botUserID)
	require.Equal(t, 1, session.Count(), "expected one reply to %q", content)
	assert.Equal(t, "channel1", session.SentMessages[0].ChannelID)
	return session.LastContent()
}

// region Routing tests

// TestNewMessageHandler_IgnoresSelf tests the bot never answers its own messages
func TestNewMessageHandler_IgnoresSelf(t *testing.T) {
	b, _ := createTestBot(t)
	session := NewMockDiscordSession()
	message := testMessage("$help")
	message.Author.ID = botUserID

	b.newMessageHandler(session, message, botUserID)
	assert.Zero(t, session.Count())
}

// TestNewMessageHandler_IgnoresOtherText tests non-command and unknown command messages
func TestNewMessageHandler_IgnoresOtherText(t *testing.T) {
	b, _ := createTestBot(t)
	session := NewMockDiscordSession()

	for _, content := range []string{"hello", "6-4 6-3", "$scores m1", "$unknown"} {
		b.newMessageHandler(session, testMessage(content), botUserID)
	}
	assert.Zero(t, session.Count())
}

// TestNewMessageHandler_SendError tests a failed send does not panic
func TestNewMessageHandler_SendError(t *testing.T) {
	b, _ := createTestBot(t)
	session := NewMockDiscordSession()
	session.ErrorToReturn = errors.New("discord unavailable")

	assert.NotPanics(t, func() { b.newMessageHandler(session, testMessage("$help"), botUserID) })
}

// endregion

// region Help and formats tests

func TestHelpHandler(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$help")
	for _, command := range []string{"$parse", "$submit", "$score", "$history", "$mine", "$formats"} {
		assert.Contains(t, reply, command)
	}
	assert.Contains(t, reply, "SET3-S:6/TB7")
}

func TestFormatsHandler(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$formats")
	assert.Contains(t, reply, "`standard` (SET3-S:6/TB7)")
	assert.Contains(t, reply, "`matchtiebreak` (SET3-S:6/TB7-F:TB10)")
}

// endregion

// region Parse tests

func TestParseHandler_DefaultFormat(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$parse 6463")
	assert.Contains(t, reply, "Score: **6-4 6-3**")
	assert.Contains(t, reply, "side 1 wins")
}

func TestParseHandler_PresetFormat(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$parse matchtiebreak 64 46 107")
	assert.Contains(t, reply, "Score: **6-4 4-6 [10-7]**")
}

func TestParseHandler_QuotedScore(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, `$parse "6-4 3-2 ret"`)
	assert.Contains(t, reply, "Score: **6-4 3-2** (RETIRED)")
	assert.Contains(t, reply, "Match incomplete")
}

func TestParseHandler_PartialScore(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$parse 6-4 6")
	assert.Contains(t, reply, "Match incomplete")
	assert.Contains(t, reply, "Suggestions:")
}

func TestParseHandler_Usage(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$parse")
	assert.Contains(t, reply, "Usage")
}

// endregion

// region Submit tests

func TestSubmitHandler_Success(t *testing.T) {
	b, mockStore := createTestBot(t)

	reply := send(t, b, "$submit m1 6-7(5) 6-3 6-2")
	assert.Equal(t, "Recorded `m1`: **6-7(5) 6-3 6-2** (side 1 wins)", reply)
	require.Len(t, mockStore.Scores, 1)
	assert.Equal(t, "user1", mockStore.Scores[0].UserID)
	assert.Equal(t, "6-7(5) 6-3 6-2", mockStore.Scores[0].Input)
}

func TestSubmitHandler_WithFormat(t *testing.T) {
	b, mockStore := createTestBot(t)

	send(t, b, "$submit m1 matchtiebreak 64 46 107")
	require.Len(t, mockStore.Scores, 1)
	assert.Equal(t, "SET3-S:6/TB7-F:TB10", mockStore.Scores[0].Format)
	assert.Equal(t, "6-4 4-6 [10-7]", mockStore.Scores[0].FormattedScore)
}

func TestSubmitHandler_InvalidScore(t *testing.T) {
	b, mockStore := createTestBot(t)

	reply := send(t, b, "$submit m1 6-4 6-3 6-2")
	assert.Contains(t, reply, "testuser's score was not recorded")
	assert.Empty(t, mockStore.Scores)
}

func TestSubmitHandler_StoreError(t *testing.T) {
	b, mockStore := createTestBot(t)
	mockStore.SaveScoreError = errors.New("db down")

	reply := send(t, b, "$submit m1 6-4 6-3")
	assert.Equal(t, "An error occurred recording the score", reply)
}

func TestSubmitHandler_Usage(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$submit m1")
	assert.Contains(t, reply, "Usage")
}

// endregion

// region Read tests

func TestScoreHandler(t *testing.T) {
	b, _ := createTestBot(t)
	send(t, b, "$submit m1 6-4 3-2")
	send(t, b, "$submit m1 6-4 6-2")

	reply := send(t, b, "$score m1")
	assert.Equal(t, "`m1`: **6-4 6-2** (recorded by testuser)", reply)
}

func TestScoreHandler_NotFound(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$score missing")
	assert.Equal(t, "No score has been recorded for `missing`", reply)
}

func TestScoreHandler_StoreError(t *testing.T) {
	b, mockStore := createTestBot(t)
	mockStore.GetScoreError = errors.New("db down")

	reply := send(t, b, "$score m1")
	assert.Equal(t, "An error occurred fetching the score", reply)
}

func TestHistoryHandler(t *testing.T) {
	b, _ := createTestBot(t)
	send(t, b, "$submit m1 6-4")
	send(t, b, "$submit m1 6-4 6-2")

	reply := send(t, b, "$history m1")
	assert.Contains(t, reply, "Scores recorded for `m1`:")
	assert.Contains(t, reply, "- `m1` 6-4 by testuser")
	assert.Contains(t, reply, "- `m1` 6-4 6-2 by testuser")
}

func TestHistoryHandler_Usage(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$history")
	assert.Contains(t, reply, "Usage")
}

func TestMineHandler(t *testing.T) {
	b, _ := createTestBot(t)

	reply := send(t, b, "$mine")
	assert.Contains(t, reply, "testuser has not recorded any scores")

	send(t, b, "$submit m1 6-4 6-2")
	reply = send(t, b, "$mine")
	assert.Contains(t, reply, "testuser's latest scores:")
	assert.Contains(t, reply, "`m1` 6-4 6-2")
}

func TestMineHandler_StoreError(t *testing.T) {
	b, mockStore := createTestBot(t)
	mockStore.GetUserScoresError = errors.New("db down")

	reply := send(t, b, "$mine")
	assert.Contains(t, reply, "An error occurred fetching testuser's scores")
}

// endregion
