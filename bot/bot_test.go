/* bot_test.go
 * Contains unit tests for bot.go functions
 */

package bot

import (
	"strings"
	"testing"
	"time"

	"scoreline-bot/api/api"
	"scoreline-bot/api/parser"
	"scoreline-bot/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	apiPtr, err := api.New(api.NewMockStore(), nil, "standard")
	require.NoError(t, err)

	bot, err := NewBot("test_token", apiPtr)
	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Same(t, apiPtr, bot.APIPtr)
}

func TestNewBot_EmptyToken(t *testing.T) {
	_, err := NewBot("", &api.API{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")
}

func TestNewBot_NilAPI(t *testing.T) {
	_, err := NewBot("test_token", nil)
	assert.Error(t, err)
}

// endregion

// region startsWith tests

// TestStartsWith_Command tests a bare command and a command with arguments
func TestStartsWith_Command(t *testing.T) {
	assert.True(t, startsWith("$parse", "$parse"))
	assert.True(t, startsWith("$parse 6-4", "$parse"))
	assert.True(t, startsWith("$mine\n", "$mine"))
}

// TestStartsWith_LongerWord tests a command that is only a prefix of the typed word
func TestStartsWith_LongerWord(t *testing.T) {
	assert.False(t, startsWith("$scores", "$score"))
	assert.False(t, startsWith("$submitted m1", "$submit"))
}

// TestStartsWith_NotAtStart tests when the command is present but not at the start
func TestStartsWith_NotAtStart(t *testing.T) {
	assert.False(t, startsWith("please $help", "$help"))
	assert.False(t, startsWith("", "$help"))
}

// endregion

// region Argument tests

// TestCommandArgs_Plain tests arguments separated by runs of spaces
func TestCommandArgs_Plain(t *testing.T) {
	args, err := commandArgs("$parse  6-4   6-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"6-4", "6-3"}, args)
}

// TestCommandArgs_Quoted tests straight and curly quoted arguments are kept whole
func TestCommandArgs_Quoted(t *testing.T) {
	args, err := commandArgs(`$submit "final 1" "6-4 6-3"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"final 1", "6-4 6-3"}, args)

	args, err = commandArgs("$submit m1 “6-4 6-3”")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "6-4 6-3"}, args)
}

// TestCommandArgs_CommandOnly tests a command with no arguments
func TestCommandArgs_CommandOnly(t *testing.T) {
	args, err := commandArgs("$mine")
	require.NoError(t, err)
	assert.Empty(t, args)
}

// TestSplitFormat tests a leading preset or code is taken as the format
func TestSplitFormat(t *testing.T) {
	tests := []struct {
		args   []string
		format string
		input  string
	}{
		{[]string{"fast4", "42", "24"}, "fast4", "42 24"},
		{[]string{"SET3-S:6/TB7-F:TB10", "64", "46", "107"}, "SET3-S:6/TB7-F:TB10", "64 46 107"},
		{[]string{"6-4", "6-3"}, "", "6-4 6-3"},
		{[]string{"standard"}, "", "standard"},
		{[]string{"6-4", "ret"}, "", "6-4 ret"},
	}

	for _, tt := range tests {
		format, input := splitFormat(tt.args)
		assert.Equal(t, tt.format, format, "args %v", tt.args)
		assert.Equal(t, tt.input, input, "args %v", tt.args)
	}
}

// endregion

// region Rendering tests

// TestDescribeResult_Complete tests the reply for a finished match
func TestDescribeResult_Complete(t *testing.T) {
	result, err := parser.ParseScore("6-7(5) 6-3 6-2", "SET3-S:6/TB7")
	require.NoError(t, err)

	reply := describeResult(result)
	assert.Contains(t, reply, "Score: **6-7(5) 6-3 6-2**")
	assert.Contains(t, reply, "side 1 wins")
	assert.NotContains(t, reply, "Errors")
}

// TestDescribeResult_Problems tests errors and suggestions are listed
func TestDescribeResult_Problems(t *testing.T) {
	result, err := parser.ParseScore("6-4 6-3 6-2", "SET3-S:6/TB7")
	require.NoError(t, err)

	reply := describeResult(result)
	assert.Contains(t, reply, "Errors:")
	assert.Contains(t, reply, string(parser.CodeTooManySets))
}

// TestDescribeResult_Status tests a discarding status renders without sets
func TestDescribeResult_Status(t *testing.T) {
	result, err := parser.ParseScore("w/o", "SET3-S:6/TB7")
	require.NoError(t, err)

	reply := describeResult(result)
	assert.Contains(t, reply, "Score: **no sets** (WALKOVER)")
}

// TestDescribeRecords tests one line is written per record
func TestDescribeRecords(t *testing.T) {
	records := []store.ScoreRecord{
		{MatchID: "m1", FormattedScore: "6-4 6-3", Username: "alice", SubmittedAt: time.Unix(1700000000, 0)},
		{MatchID: "m2", MatchUpStatus: "RETIRED", FormattedScore: "6-4 2-1", Username: "bob", SubmittedAt: time.Unix(1700000100, 0)},
	}

	reply := describeRecords("Scores:", records)
	assert.Contains(t, reply, "- `m1` 6-4 6-3 by alice <t:1700000000:R>")
	assert.Contains(t, reply, "- `m2` 6-4 2-1 RETIRED by bob")
}

// TestTruncate tests replies are cut to Discord's message limit
func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxMessageLength+10)
	assert.Len(t, truncate(long), maxMessageLength)
	assert.Equal(t, "short", truncate("short"))
}

// endregion
