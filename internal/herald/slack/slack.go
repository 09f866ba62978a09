// Package slack delivers herald events to a Slack channel via the Web API.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
	"github.com/tbryce/muster/internal/herald"
)

// Attachment sidebar colors by severity.
const (
	colorInfo    = "#3498db"
	colorSuccess = "#2ecc71"
)

// client abstracts the Slack API methods we use, enabling test mocks.
type client interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Notifier implements herald.Notifier for Slack.
type Notifier struct {
	client    client
	channelID string
}

// New creates a Slack notifier posting to the given channel.
func New(token, channelID string) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("slack: token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}
	return &Notifier{client: slackapi.New(token), channelID: channelID}, nil
}

// Send posts the event as an attachment.
func (n *Notifier) Send(ctx context.Context, ev herald.Event) error {
	attachment := slackapi.Attachment{
		Title: ev.Title,
		Text:  ev.Body,
		Color: colorFor(ev.Severity),
	}
	for _, f := range ev.Fields {
		attachment.Fields = append(attachment.Fields, slackapi.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: true,
		})
	}
	if _, _, err := n.client.PostMessageContext(ctx, n.channelID, slackapi.MsgOptionAttachments(attachment)); err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

func colorFor(severity string) string {
	if severity == herald.SeveritySuccess {
		return colorSuccess
	}
	return colorInfo
}
