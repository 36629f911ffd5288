package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Announcer = (*Announcer)(nil)

// Announcer handles posting announcements to Slack.
type Announcer struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewAnnouncer creates a new Announcer.
func NewAnnouncer(token, channelID string, metrics metrics.Metrics) *Announcer {
	api := slack.New(token)
	return &Announcer{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewAnnouncerWithAPI creates a new Announcer with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewAnnouncerWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Announcer {
	return &Announcer{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Announcer) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
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
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Announcer interface
func (s *Announcer) SendBookingAnnouncement(m *padel.Match, participants []padel.Participant, dryRun bool) error {
	msg := s.formatBookingAnnouncement(m, participants)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Announcer) SendResultAnnouncement(m *padel.Match, dryRun bool) error {
	msg := s.formatResultAnnouncement(m)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Announcer) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(stats)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Announcer) SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error {
	msg := s.formatPlayerStats(stats, query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Announcer) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Announcer) FormatLeaderboardResponse(stats []club.PlayerStats) (any, error) {
	return s.formatLeaderboard(stats), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Announcer) FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error) {
	return s.formatPlayerStats(stats, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Announcer) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func matchTimeLabel(m *padel.Match) string {
	if m.ScheduledAt == 0 {
		label := m.FlexibleDay
		if m.FlexiblePeriod != "" {
			label = fmt.Sprintf("%s (%s)", label, m.FlexiblePeriod)
		}
		return label
	}
	return time.Unix(m.ScheduledAt, 0).Format("Monday 02 Jan, 15:04")
}

// formatBookingAnnouncement creates the Slack message for a fully
// booked match using Block Kit.
func (s *Announcer) formatBookingAnnouncement(m *padel.Match, participants []padel.Participant) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match booked! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Club: %s\nTime: %s", m.ClubName, matchTimeLabel(m))
	if m.City != "" {
		detailsText += fmt.Sprintf("\nCity: %s", m.City)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	playerNames := []string{fmt.Sprintf("• %s (organizer)", m.OrganizerName)}
	for _, p := range participants {
		if p.Status != padel.ParticipantConfirmed {
			continue
		}
		name := p.InviteeName
		if name == "" {
			name = p.UserID
		}
		playerNames = append(playerNames, fmt.Sprintf("• %s", name))
	}
	playersText := "Players:\n" + strings.Join(playerNames, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playersText, true, false), nil, nil))

	if m.PriceTotal > 0 {
		priceText := fmt.Sprintf("💶 %.2f total, %s", float64(m.PriceTotal)/100, m.PaymentMethod)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", priceText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatResultAnnouncement creates the Slack message for a finished match using Block Kit.
func (s *Announcer) formatResultAnnouncement(m *padel.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s at %s", m.ClubName, matchTimeLabel(m))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	if m.HasResult() {
		var setScores []string
		for i, set := range m.Sets {
			setScores = append(setScores, fmt.Sprintf("Set %d: %d-%d", i+1, set.ScoreA, set.ScoreB))
		}
		resultText := fmt.Sprintf("Result: Team %s won! 🏆\n%s", m.Winner, strings.Join(setScores, "\n"))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: No scores reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Announcer) formatLeaderboard(stats []club.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(stats) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Match Win %%: %.2f%% (%d/%d) | Streak: %d (best %d) | Reliability: %d",
			rank,
			medal,
			stat.PlayerName,
			stat.WinPercentage,
			stat.MatchesWon,
			stat.MatchesPlayed,
			stat.CurrentStreak,
			stat.BestStreak,
			stat.ReliabilityScore,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message for a single player's stats.
func (s *Announcer) formatPlayerStats(stats *club.PlayerStats, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📊 Stats for %s", stats.PlayerName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	statsText := fmt.Sprintf(
		"Level: %.2f\nMatches: %d (%d won, %d lost)\nWin %%: %.2f%%\nStreak: %d (best %d)\nReliability: %d/100",
		stats.Level,
		stats.MatchesPlayed,
		stats.MatchesWon,
		stats.MatchesLost,
		stats.WinPercentage,
		stats.CurrentStreak,
		stats.BestStreak,
		stats.ReliabilityScore,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", statsText, true, false), nil, nil))

	if query != "" && !strings.EqualFold(query, stats.PlayerName) {
		contextText := fmt.Sprintf("Closest match for \"%s\"", query)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for an unknown player query.
func (s *Announcer) formatPlayerNotFound(query string) slack.Message {
	text := slack.NewTextBlockObject("plain_text", fmt.Sprintf("No player found matching \"%s\".", query), true, false)
	return slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
}
