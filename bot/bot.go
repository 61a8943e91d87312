/* bot.go
 * Contains the Bot type, command argument handling and the rendering of parse results into Discord replies.
 * Requires a discord bot token and APIPtr, both of which are passed in from the cli
 */

package bot

import (
	"fmt"
	"strings"

	"scoreline-bot/api/api"
	"scoreline-bot/api/format"
	"scoreline-bot/api/parser"
	"scoreline-bot/api/store"

	"github.com/go-andiamo/splitter"
)

// maxMessageLength is Discord's limit on the content of one message
const maxMessageLength = 2000

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

// NewBot creates a Bot.
// Preconditions: receives a non-empty bot token and a configured api
// Postconditions: returns the Bot, or an error if the token is missing
func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("api is required but none was provided")
	}
	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

// startsWith reports whether content is the command itself or the command followed by whitespace
func startsWith(content string, command string) bool {
	if !strings.HasPrefix(content, command) {
		return false
	}
	rest := content[len(command):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n'
}

// commandArgs splits a message into its arguments after the command word. Double quoted arguments (including Discord's
// curly quotes) are kept together and unquoted.
// Preconditions: receives the full message content
// Postconditions: returns the arguments, or an error if a quote is left open
func commandArgs(content string) ([]string, error) {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), "\"“”")
		if part != "" {
			args = append(args, part)
		}
	}
	if len(args) > 0 {
		args = args[1:]
	}
	return args, nil
}

// splitFormat takes a leading preset name or matchUpFormat code off args. The remaining args are joined into the
// score input.
func splitFormat(args []string) (matchUpFormat string, input string) {
	if len(args) > 1 && isFormat(args[0]) {
		return args[0], strings.Join(args[1:], " ")
	}
	return "", strings.Join(args, " ")
}

func isFormat(arg string) bool {
	if format.IsPreset(arg) {
		return true
	}
	_, err := format.Parse(arg)
	return err == nil
}

// describeResult renders a ParseResult as a Discord reply
func describeResult(result *parser.ParseResult) string {
	var res strings.Builder

	score := result.FormattedScore
	if score == "" {
		score = "no sets"
	}
	res.WriteString(fmt.Sprintf("Score: **%s**", score))
	if result.MatchUpStatus != "" {
		res.WriteString(fmt.Sprintf(" (%s)", result.MatchUpStatus))
	}
	res.WriteString("\n")

	switch {
	case result.MatchComplete:
		res.WriteString(fmt.Sprintf("Match complete, side %d wins\n", result.WinningSide))
	case result.Incomplete:
		res.WriteString("Match incomplete\n")
	}
	if result.Confidence < 1 && len(result.Sets) > 0 {
		res.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", result.Confidence*100))
	}

	writeList(&res, "Errors", diagnosticMessages(result.Errors))
	writeList(&res, "Warnings", diagnosticMessages(result.Warnings))
	writeList(&res, "Suggestions", result.Suggestions)
	return truncate(res.String())
}

// describeRecords renders stored scores, one per line
func describeRecords(title string, records []store.ScoreRecord) string {
	var res strings.Builder
	res.WriteString(title + "\n")
	for _, record := range records {
		res.WriteString(fmt.Sprintf("- `%s` %s by %s <t:%d:R>\n",
			record.MatchID, record.Summary(), record.Username, record.SubmittedAt.Unix()))
	}
	return truncate(res.String())
}

func diagnosticMessages(diagnostics []parser.Diagnostic) []string {
	messages := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		messages[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return messages
}

func writeList(res *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	res.WriteString(title + ":\n")
	for _, item := range items {
		res.WriteString(fmt.Sprintf("- %s\n", item))
	}
}

func truncate(message string) string {
	if len(message) <= maxMessageLength {
		return message
	}
	return message[:maxMessageLength-3] + "..."
}
