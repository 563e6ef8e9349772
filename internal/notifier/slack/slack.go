package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendReservationSaved(r notifier.Reservation, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatReservationSaved(r), dryRun)
	return err
}

func (s *Notifier) SendReservationDeleted(r notifier.Reservation, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatReservationDeleted(r), dryRun)
	return err
}

func (s *Notifier) SendInvitationAnswered(a notifier.InvitationAnswer, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatInvitationAnswered(a), dryRun)
	return err
}

// formatReservationSaved creates the staff message for a new or edited booking using Block Kit.
func (s *Notifier) formatReservationSaved(r notifier.Reservation) slack.Message {
	blocks := make([]slack.Block, 0)

	title := fmt.Sprintf("%s New reservation!", r.SportEmoji)
	if !r.Created {
		title = fmt.Sprintf("%s Reservation changed", r.SportEmoji)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))
	blocks = append(blocks, reservationDetails(r))

	footer := fmt.Sprintf("Booked by %s | Total: %.2f", r.Username, r.TotalPrice)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", footer, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatReservationDeleted creates the staff message for a cancelled booking.
func (s *Notifier) formatReservationDeleted(r notifier.Reservation) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "❌ Reservation cancelled", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, reservationDetails(r))

	if r.Username != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Cancelled by %s", r.Username), true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatInvitationAnswered(a notifier.InvitationAnswer) slack.Message {
	verb := "answered"
	switch model.NotificationStatus(a.Status) {
	case model.StatusAccepted:
		verb = "accepted"
	case model.StatusRejected:
		verb = "declined"
	}
	text := fmt.Sprintf("*%s* %s an invitation to reservation `%s`", a.Username, verb, a.ReservationID)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func reservationDetails(r notifier.Reservation) *slack.SectionBlock {
	where := r.PlaygroundName
	if r.SportCenterName != "" {
		where = fmt.Sprintf("%s (%s)", r.PlaygroundName, r.SportCenterName)
	}
	detailsText := fmt.Sprintf("Sport: %s\nPlayground: %s\nTime: %s", r.SportName, where, timeRange(r.StartDateTime, r.EndDateTime))
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil)
}

// timeRange renders "Monday 02 Jan, 15:04 - 16:04", falling back to the raw
// values when they do not parse.
func timeRange(start, end string) string {
	s, err1 := model.ParseDateTime(start)
	e, err2 := model.ParseDateTime(end)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("%s - %s", start, end)
	}
	return fmt.Sprintf("%s - %s", s.Format("Monday 02 Jan, 15:04"), e.Format("15:04"))
}
