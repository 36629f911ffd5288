package share

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/skip2/go-qrcode"
)

// DefaultMatchDuration is assumed when a match has no explicit end.
const DefaultMatchDuration = 90 * time.Minute

// Service builds shareable artifacts: profile links, referral links, QR
// codes and calendar exports.
type Service struct {
	baseURL string
}

// New creates a share Service. baseURL is the public origin of the app,
// without a trailing slash.
func New(baseURL string) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/")}
}

// PlayerCardURL is the public link to a player's profile card.
func (s *Service) PlayerCardURL(playerID string) string {
	return fmt.Sprintf("%s/player/%s", s.baseURL, url.PathEscape(playerID))
}

// ReferralURL is the signup link carrying a referral code.
func (s *Service) ReferralURL(code string) string {
	return fmt.Sprintf("%s/join?ref=%s", s.baseURL, url.QueryEscape(code))
}

// InviteURL is the redemption link for a pending invite token.
func (s *Service) InviteURL(token string) string {
	return fmt.Sprintf("%s/invite/%s", s.baseURL, url.PathEscape(token))
}

// MatchURL is the public link to a match page.
func (s *Service) MatchURL(matchID string) string {
	return fmt.Sprintf("%s/match/%s", s.baseURL, url.PathEscape(matchID))
}

// QRCode renders any of the share URLs as a PNG.
func (s *Service) QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// CalendarEvent exports a scheduled match as an iCalendar VEVENT.
// Flexible matches have no fixed time and cannot be exported.
func (s *Service) CalendarEvent(m *padel.Match) (string, error) {
	if m.ScheduledAt == 0 {
		return "", fmt.Errorf("match %s has no scheduled time: %w", m.ID, padel.ErrValidation)
	}

	start := time.Unix(m.ScheduledAt, 0).UTC()
	end := start.Add(DefaultMatchDuration)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//courtmate//match//EN")

	event := cal.AddEvent(m.ID)
	event.SetCreatedTime(time.Unix(m.CreatedAt, 0).UTC())
	event.SetDtStampTime(time.Now().UTC())
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(eventSummary(m))
	if m.ClubName != "" {
		location := m.ClubName
		if m.City != "" {
			location += ", " + m.City
		}
		event.SetLocation(location)
	}
	event.SetDescription(s.eventDescription(m))
	event.SetURL(s.MatchURL(m.ID))

	return cal.Serialize(), nil
}

// GoogleCalendarURL is the prefilled "add to Google Calendar" deep
// link for a scheduled match.
func (s *Service) GoogleCalendarURL(m *padel.Match) (string, error) {
	if m.ScheduledAt == 0 {
		return "", fmt.Errorf("match %s has no scheduled time: %w", m.ID, padel.ErrValidation)
	}

	start := time.Unix(m.ScheduledAt, 0).UTC()
	end := start.Add(DefaultMatchDuration)
	const stamp = "20060102T150405Z"

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", eventSummary(m))
	q.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	if m.ClubName != "" {
		q.Set("location", m.ClubName)
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode(), nil
}

func eventSummary(m *padel.Match) string {
	if m.ClubName != "" {
		return "Padel at " + m.ClubName
	}
	return "Padel match"
}

func (s *Service) eventDescription(m *padel.Match) string {
	desc := fmt.Sprintf("Level %.1f-%.1f", m.LevelMin, m.LevelMax)
	if m.Ambiance != "" {
		desc += fmt.Sprintf(", %s ambiance", m.Ambiance)
	}
	return desc + ". " + s.MatchURL(m.ID)
}
