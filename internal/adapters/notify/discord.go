package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// discordSession is the part of discordgo.Session the sink uses.
type discordSession interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	sess      discordSession
	channelID string
}

type DiscordOpts struct {
	BotToken  string
	ChannelID string
	// Session replaces the real API, for tests.
	Session discordSession
}

// NewDiscordNotifier posts through the REST API only; no gateway connection
// is opened.
func NewDiscordNotifier(opts DiscordOpts) (*DiscordNotifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel id is required")
	}
	sess := opts.Session
	if sess == nil {
		if opts.BotToken == "" {
			return nil, fmt.Errorf("discord: bot token is required")
		}
		dg, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		sess = dg
	}
	return &DiscordNotifier{sess: sess, channelID: opts.ChannelID}, nil
}

func (d *DiscordNotifier) Notify(ctx context.Context, userID string, n domain.Notification) error {
	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Body,
		URL:         n.URL,
		Color:       parseHexColor(accentColor),
		Fields: []*discordgo.MessageEmbedField{
			{Name: fieldUserKey, Value: userID, Inline: true},
		},
	}
	if n.Tag != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: n.Tag}
	}

	_, err := d.sess.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("discord: rate limited: %w", err)
		}
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}

// parseHexColor converts "#RRGGBB" to the integer Discord expects; invalid
// input yields 0.
func parseHexColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
