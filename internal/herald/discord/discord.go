// Package discord delivers herald events to a Discord channel via the REST API.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/tbryce/muster/internal/herald"
)

// Embed sidebar colors by severity.
const (
	colorInfo    = 0x3498db
	colorSuccess = 0x2ecc71
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier implements herald.Notifier for Discord.
type Notifier struct {
	sess      session
	channelID string
}

// New creates a Discord notifier posting to the given channel.
func New(botToken, channelID string) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord: channel ID is required")
	}
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &Notifier{sess: sess, channelID: channelID}, nil
}

// Send posts the event as an embed.
func (n *Notifier) Send(ctx context.Context, ev herald.Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       colorFor(ev.Severity),
	}
	for _, f := range ev.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: true,
		})
	}
	if _, err := n.sess.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}

func colorFor(severity string) int {
	if severity == herald.SeveritySuccess {
		return colorSuccess
	}
	return colorInfo
}
