package notify

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var reminder = domain.Notification{Title: "Morning check", Body: "Day 3 is waiting", Tag: "reminder-08:00", URL: "/"}

type mockSlack struct {
	mock.Mock
}

func (m *mockSlack) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	args := m.Called(ctx, channelID, options)
	return args.String(0), args.String(1), args.Error(2)
}

type mockDiscord struct {
	mock.Mock
}

func (m *mockDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

type failingSink struct{ err error }

func (f failingSink) Notify(context.Context, string, domain.Notification) error { return f.err }

func TestSlackNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Posts to the configured channel", func(t *testing.T) {
		client := new(mockSlack)
		client.On("PostMessageContext", ctx, "C123", mock.Anything).Return("C123", "1700000000.0001", nil).Once()

		s, err := NewSlackNotifier(SlackOpts{ChannelID: "C123", Client: client})
		require.NoError(t, err)

		require.NoError(t, s.Notify(ctx, "u1", reminder))
		client.AssertExpectations(t)
	})

	t.Run("Retries on rate limit", func(t *testing.T) {
		client := new(mockSlack)
		client.On("PostMessageContext", ctx, "C123", mock.Anything).
			Return("", "", &slackapi.RateLimitedError{RetryAfter: time.Millisecond}).Once()
		client.On("PostMessageContext", ctx, "C123", mock.Anything).Return("C123", "ts", nil).Once()

		s, _ := NewSlackNotifier(SlackOpts{ChannelID: "C123", Client: client})
		require.NoError(t, s.Notify(ctx, "u1", reminder))
		client.AssertNumberOfCalls(t, "PostMessageContext", 2)
	})

	t.Run("Other errors are returned at once", func(t *testing.T) {
		client := new(mockSlack)
		client.On("PostMessageContext", ctx, "C123", mock.Anything).Return("", "", errors.New("channel_not_found")).Once()

		s, _ := NewSlackNotifier(SlackOpts{ChannelID: "C123", Client: client})
		err := s.Notify(ctx, "u1", reminder)
		assert.ErrorContains(t, err, "channel_not_found")
		client.AssertNumberOfCalls(t, "PostMessageContext", 1)
	})

	t.Run("Configuration errors", func(t *testing.T) {
		_, err := NewSlackNotifier(SlackOpts{BotToken: "xoxb-1"})
		assert.Error(t, err)
		_, err = NewSlackNotifier(SlackOpts{ChannelID: "C1"})
		assert.Error(t, err)
	})
}

func TestDiscordNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends an embed", func(t *testing.T) {
		sess := new(mockDiscord)
		sess.On("ChannelMessageSendEmbed", "chan-1", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
			return e.Title == "Morning check" && e.Footer != nil && e.Footer.Text == "reminder-08:00" && e.Fields[0].Value == "u1"
		})).Return(&discordgo.Message{ID: "m1"}, nil)

		d, err := NewDiscordNotifier(DiscordOpts{ChannelID: "chan-1", Session: sess})
		require.NoError(t, err)

		require.NoError(t, d.Notify(ctx, "u1", reminder))
		sess.AssertExpectations(t)
	})

	t.Run("Rate limit is reported", func(t *testing.T) {
		sess := new(mockDiscord)
		sess.On("ChannelMessageSendEmbed", "chan-1", mock.Anything).
			Return(nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}})

		d, _ := NewDiscordNotifier(DiscordOpts{ChannelID: "chan-1", Session: sess})
		assert.ErrorContains(t, d.Notify(ctx, "u1", reminder), "rate limited")
	})

	t.Run("Configuration errors", func(t *testing.T) {
		_, err := NewDiscordNotifier(DiscordOpts{BotToken: "tok"})
		assert.Error(t, err)
		_, err = NewDiscordNotifier(DiscordOpts{ChannelID: "c"})
		assert.Error(t, err)
	})
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, 0x6C5CE7, parseHexColor("#6C5CE7"))
	assert.Equal(t, 0, parseHexColor("nope"))
}

func TestMulti(t *testing.T) {
	hub := NewStreamHub()
	ch, closeFn := hub.Subscribe("u1")
	defer closeFn()

	boom := errors.New("webhook down")
	m := Multi{LogNotifier{}, failingSink{boom}, hub}

	err := m.Notify(context.Background(), "u1", reminder)
	assert.ErrorIs(t, err, boom)

	select {
	case got := <-ch:
		assert.Equal(t, reminder, got)
	default:
		t.Fatal("later sinks must still run after a failure")
	}

	assert.NoError(t, Multi{}.Notify(context.Background(), "u1", reminder))
}

func TestStreamHub(t *testing.T) {
	ctx := context.Background()
	hub := NewStreamHub()

	mine, closeMine := hub.Subscribe("u1")
	theirs, closeTheirs := hub.Subscribe("u2")
	defer closeTheirs()

	require.NoError(t, hub.Notify(ctx, "u1", reminder))
	assert.Len(t, mine, 1)
	assert.Len(t, theirs, 0)

	for i := 0; i < streamBuffer+3; i++ {
		require.NoError(t, hub.Notify(ctx, "u1", reminder))
	}
	assert.Len(t, mine, streamBuffer)

	closeMine()
	closeMine()
	require.NoError(t, hub.Notify(ctx, "u1", reminder))
}
