/* session_interface.go
 * Contains the subset of the Discord session the command handlers reply through
 */

package bot

import "github.com/bwmarrin/discordgo"

// DiscordSession is implemented by *discordgo.Session and by MockDiscordSession in tests
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	_ DiscordSession = (*discordgo.Session)(nil)
	_ DiscordSession = (*MockDiscordSession)(nil)
)
