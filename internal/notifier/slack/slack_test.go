package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleReservation() notifier.Reservation {
	return notifier.Reservation{
		ID:              "r1",
		Username:        "alice",
		PlaygroundName:  "Court 1",
		SportName:       "Tennis",
		SportEmoji:      "🎾",
		SportCenterName: "Center",
		StartDateTime:   "2025-07-09T20:00:00",
		EndDateTime:     "2025-07-09T21:00:00",
		TotalPrice:      25,
		Created:         true,
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendReservationSaved_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	require.NoError(t, notifier.SendReservationSaved(sampleReservation(), false))
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendReservationSaved")
}

func TestFormatReservationSaved(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("new reservation", func(t *testing.T) {
		msg := client.formatReservationSaved(sampleReservation())
		require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok, "Block 0 should be a HeaderBlock")
		assert.Equal(t, "🎾 New reservation!", header.Text.Text)

		details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok, "Block 1 should be a SectionBlock")
		assert.Equal(t, "Sport: Tennis\nPlayground: Court 1 (Center)\nTime: Wednesday 09 Jul, 20:00 - 21:00", details.Text.Text)

		footer, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
		require.True(t, ok, "Block 2 should be a ContextBlock")
		require.Len(t, footer.ContextElements.Elements, 1)
		text, ok := footer.ContextElements.Elements[0].(*slackapi.TextBlockObject)
		require.True(t, ok)
		assert.Equal(t, "Booked by alice | Total: 25.00", text.Text)
	})

	t.Run("edited reservation", func(t *testing.T) {
		r := sampleReservation()
		r.Created = false
		msg := client.formatReservationSaved(r)
		header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		assert.Equal(t, "🎾 Reservation changed", header.Text.Text)
	})
}

func TestFormatReservationDeleted(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	r := sampleReservation()
	r.StartDateTime = "soon"

	msg := client.formatReservationDeleted(r)
	require.Len(t, msg.Blocks.BlockSet, 3)
	details := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, details.Text.Text, "Time: soon - 2025-07-09T21:00:00")

	r.Username = ""
	assert.Len(t, client.formatReservationDeleted(r).Blocks.BlockSet, 2)
}

func TestFormatInvitationAnswered(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	cases := map[string]string{
		"ACCEPTED": "*bob* accepted an invitation to reservation `r1`",
		"REJECTED": "*bob* declined an invitation to reservation `r1`",
		"CANCELED": "*bob* answered an invitation to reservation `r1`",
	}
	for status, want := range cases {
		msg := client.formatInvitationAnswered(notifier.InvitationAnswer{ReservationID: "r1", Username: "bob", Status: status})
		section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
		assert.Equal(t, want, section.Text.Text, status)
	}
}
