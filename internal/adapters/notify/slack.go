package notify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	slackapi "github.com/slack-go/slack"
)

const (
	maxRetries   = 3
	accentColor  = "#6C5CE7"
	fieldUserKey = "User"
)

// slackClient is the part of the Slack API the sink uses.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

type SlackNotifier struct {
	client    slackClient
	channelID string
}

type SlackOpts struct {
	BotToken  string
	ChannelID string
	// Client replaces the real API, for tests.
	Client slackClient
}

func NewSlackNotifier(opts SlackOpts) (*SlackNotifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel id is required")
	}
	client := opts.Client
	if client == nil {
		if opts.BotToken == "" {
			return nil, fmt.Errorf("slack: bot token is required")
		}
		client = slackapi.New(opts.BotToken)
	}
	return &SlackNotifier{client: client, channelID: opts.ChannelID}, nil
}

func (s *SlackNotifier) Notify(ctx context.Context, userID string, n domain.Notification) error {
	att := slackapi.Attachment{
		Title:     n.Title,
		TitleLink: n.URL,
		Text:      n.Body,
		Color:     accentColor,
		Fallback:  n.Title,
		Fields: []slackapi.AttachmentField{
			{Title: fieldUserKey, Value: userID, Short: true},
		},
	}
	if n.Tag != "" {
		att.Footer = n.Tag
	}

	return retryOnRateLimit(ctx, func() error {
		_, _, err := s.client.PostMessageContext(ctx, s.channelID, slackapi.MsgOptionAttachments(att))
		if err != nil {
			return fmt.Errorf("slack: post message: %w", err)
		}
		return nil
	})
}

// retryOnRateLimit retries fn while Slack answers with a rate limit error,
// honouring RetryAfter and ctx.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var rle *slackapi.RateLimitedError
		if !errors.As(err, &rle) || attempt == maxRetries {
			return err
		}

		wait := rle.RetryAfter
		if wait <= 0 {
			wait = time.Duration(math.Pow(2, float64(attempt))) * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
