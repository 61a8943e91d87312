/* handlers.go
 * Contains testable handler methods that accept the DiscordSession interface
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scoreline-bot/api/api"
	"scoreline-bot/api/shared"
	"scoreline-bot/api/store"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// handlerTimeout bounds the db and cache work done for one message
const handlerTimeout = 10 * time.Second

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Scoreline Bot\n")
	res.WriteString("`$parse [format] <score>`: Reads a score such as `64 46 107` or `6-7(5) 6-3 ret` and shows how it was understood\n")
	res.WriteString("`$submit <matchId> [format] <score>`: Records the score of a match\n")
	res.WriteString("`$score <matchId>`: Shows the latest score recorded for a match\n")
	res.WriteString("`$history <matchId>`: Shows every score recorded for a match\n")
	res.WriteString("`$mine`: Shows the scores you recorded most recently\n")
	res.WriteString("`$formats`: Lists the named formats. A matchUpFormat code such as `SET3-S:6/TB7-F:TB10` is also accepted\n")
	res.WriteString(fmt.Sprintf("When no format is given `%s` is used\n", b.APIPtr.DefaultFormat))
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// formatsHandler handles the $formats command with a DiscordSession interface
func (b *Bot) formatsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Named formats:\n")
	for _, preset := range b.APIPtr.ListFormats() {
		res.WriteString(fmt.Sprintf("- `%s` (%s): %s\n", preset.Name, preset.Code, preset.Description))
	}
	session.ChannelMessageSend(message.ChannelID, truncate(res.String()))
}

// parseHandler handles the $parse command with a DiscordSession interface
func (b *Bot) parseHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$parse [format] <score>`")
		return
	}
	matchUpFormat, input := splitFormat(args)

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	result, err := b.APIPtr.ParseScore(ctx, input, matchUpFormat)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not read the format: %s", err))
		return
	}
	session.ChannelMessageSend(message.ChannelID, describeResult(result))
}

// submitHandler handles the $submit command with a DiscordSession interface
func (b *Bot) submitHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	args, err := commandArgs(message.Content)
	if err != nil || len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$submit <matchId> [format] <score>`")
		return
	}
	matchID := args[0]
	matchUpFormat, input := splitFormat(args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	record, err := b.APIPtr.SubmitScore(ctx, user, matchID, input, matchUpFormat)
	if err != nil {
		if api.IsUserError(err) {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s's score was not recorded: %s", user.Username, err))
			return
		}
		log.Error().Err(err).Str("match", matchID).Str("user", user.UserID).Msg("submit failed")
		session.ChannelMessageSend(message.ChannelID, "An error occurred recording the score")
		return
	}

	res := fmt.Sprintf("Recorded `%s`: **%s**", record.MatchID, record.Summary())
	if record.Complete {
		res += fmt.Sprintf(" (side %d wins)", record.WinningSide)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// scoreHandler handles the $score command with a DiscordSession interface
func (b *Bot) scoreHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) != 1 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$score <matchId>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	record, err := b.APIPtr.GetMatchScore(ctx, args[0])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, readError(err, args[0]))
		return
	}
	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("`%s`: **%s** (recorded by %s)", record.MatchID, record.Summary(), record.Username))
}

// historyHandler handles the $history command with a DiscordSession interface
func (b *Bot) historyHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) != 1 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$history <matchId>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	history, err := b.APIPtr.GetMatchHistory(ctx, args[0])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, readError(err, args[0]))
		return
	}
	session.ChannelMessageSend(message.ChannelID, describeRecords(fmt.Sprintf("Scores recorded for `%s`:", args[0]), history))
}

// mineHandler handles the $mine command with a DiscordSession interface
func (b *Bot) mineHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	scores, err := b.APIPtr.GetUserScores(ctx, user, 0)
	if err != nil {
		log.Error().Err(err).Str("user", user.UserID).Msg("failed to fetch user scores")
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occurred fetching %s's scores", user.Username))
		return
	}
	if len(scores) == 0 {
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("%s has not recorded any scores. Use $submit to record one", user.Username))
		return
	}
	session.ChannelMessageSend(message.ChannelID, describeRecords(fmt.Sprintf("%s's latest scores:", user.Username), scores))
}

// readError turns a lookup failure into a reply, logging anything that is not a missing match
func readError(err error, matchID string) string {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No score has been recorded for `%s`", matchID)
	}
	log.Error().Err(err).Str("match", matchID).Msg("failed to fetch score")
	return "An error occurred fetching the score"
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$formats"):
		b.formatsHandler(session, message)

	case startsWith(message.Content, "$parse"):
		b.parseHandler(session, message)

	case startsWith(message.Content, "$submit"):
		b.submitHandler(session, message)

	case startsWith(message.Content, "$score"):
		b.scoreHandler(session, message)

	case startsWith(message.Content, "$history"):
		b.historyHandler(session, message)

	case startsWith(message.Content, "$mine"):
		b.mineHandler(session, message)
	}
}
