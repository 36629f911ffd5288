package events

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/courtmate/courtmate/internal/pubsub"
	"github.com/courtmate/courtmate/internal/share"
)

// New creates a new Dispatcher.
func New(matches match.Service, profiles club.ProfileStore, n notifier.Notifier, announcer notifier.Announcer, links *share.Service, m metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		matches:   matches,
		profiles:  profiles,
		notifier:  n,
		announcer: announcer,
		links:     links,
		metrics:   m,
	}
}

// NotifyJoinRequest emails the organizer that someone asked to join.
func (d *Dispatcher) NotifyJoinRequest(ev pubsub.JoinRequestEvent, dryRun bool) error {
	start := time.Now()
	defer func() { d.metrics.ObserveProcessingDuration(time.Since(start).Seconds()) }()

	detail, err := d.matches.GetMatch(ev.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load match for join request: %w", err)
	}
	organizer, err := d.profiles.GetProfile(detail.Match.OrganizerID)
	if err != nil {
		return fmt.Errorf("failed to load organizer profile: %w", err)
	}
	requester, err := d.profiles.GetProfile(ev.RequesterID)
	if err != nil {
		return fmt.Errorf("failed to load requester profile: %w", err)
	}

	if dryRun {
		log.Info("[Dry Run] Would email join request", "matchID", ev.MatchID, "organizer", organizer.Name)
	} else if organizer.Email == "" {
		log.Warn("Organizer has no email, skipping join request notification", "matchID", ev.MatchID)
	} else {
		_, err = d.notifier.SendJoinRequest(notifier.JoinRequestData{
			To:             organizer.Email,
			OrganizerName:  organizer.Name,
			RequesterName:  requester.Name,
			RequesterLevel: requester.Level,
			MatchLabel:     matchLabel(&detail.Match),
			Duo:            ev.DuoPartnerID != "",
		})
		if err != nil {
			log.Error("Failed to send join request email", "matchID", ev.MatchID, "error", err)
		}
	}

	// A duo request also tells the partner they were brought along.
	if ev.DuoPartnerID != "" {
		d.sendDuoInvite(ev, requester.Name, &detail.Match, dryRun)
	}
	return nil
}

func (d *Dispatcher) sendDuoInvite(ev pubsub.JoinRequestEvent, inviterName string, m *padel.Match, dryRun bool) {
	partner, err := d.profiles.GetProfile(ev.DuoPartnerID)
	if err != nil {
		log.Warn("Failed to load duo partner profile", "userID", ev.DuoPartnerID, "error", err)
		return
	}
	if dryRun {
		log.Info("[Dry Run] Would email duo invite", "matchID", ev.MatchID, "to", partner.Name)
		return
	}
	if partner.Email == "" {
		log.Warn("Duo partner has no email, skipping duo invite", "matchID", ev.MatchID)
		return
	}
	_, err = d.notifier.SendDuoInvite(notifier.DuoInviteData{
		To:          partner.Email,
		InviterName: inviterName,
		InviteeName: partner.Name,
		MatchLabel:  matchLabel(m),
		InviteURL:   d.links.MatchURL(ev.MatchID),
	})
	if err != nil {
		log.Error("Failed to send duo invite email", "matchID", ev.MatchID, "error", err)
	}
}

// NotifyInviteCreated emails the redemption link to a player who has no
// account yet.
func (d *Dispatcher) NotifyInviteCreated(invite *padel.PendingInvite, dryRun bool) error {
	if invite.InviteeEmail == "" {
		log.Warn("Invite has no email, skipping invite notification", "token", invite.Token)
		return nil
	}
	if dryRun {
		log.Info("[Dry Run] Would email invite", "token", invite.Token, "to", invite.InviteeEmail)
		return nil
	}
	_, err := d.notifier.SendGenericInvite(notifier.GenericInviteData{
		To:          invite.InviteeEmail,
		InviteeName: invite.InviteeName,
		InviteURL:   d.links.InviteURL(invite.Token),
	})
	if err != nil {
		log.Error("Failed to send invite email", "token", invite.Token, "error", err)
	}
	return nil
}

// NotifyDecision emails the requester the organizer's verdict. An
// acceptance that filled the last seat also announces the booking.
func (d *Dispatcher) NotifyDecision(ev pubsub.DecisionEvent, dryRun bool) error {
	start := time.Now()
	defer func() { d.metrics.ObserveProcessingDuration(time.Since(start).Seconds()) }()

	detail, err := d.matches.GetMatch(ev.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load match for decision: %w", err)
	}

	var target *padel.Participant
	for i := range detail.Participants {
		if detail.Participants[i].ID == ev.ParticipantID {
			target = &detail.Participants[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("participant %s in match %s: %w", ev.ParticipantID, ev.MatchID, padel.ErrNotFound)
	}

	name, addr := d.contactFor(target)
	if addr == "" {
		log.Warn("Participant has no email, skipping decision notification", "participantID", ev.ParticipantID)
	} else if dryRun {
		log.Info("[Dry Run] Would email decision", "matchID", ev.MatchID, "accepted", ev.Accepted, "to", addr)
	} else {
		data := notifier.DecisionData{To: addr, PlayerName: name, MatchLabel: matchLabel(&detail.Match)}
		if ev.Accepted {
			_, err = d.notifier.SendJoinAccepted(data)
		} else {
			_, err = d.notifier.SendJoinRejected(data)
		}
		if err != nil {
			log.Error("Failed to send decision email", "matchID", ev.MatchID, "error", err)
		}
	}

	if ev.Accepted && detail.Match.Status == padel.StatusFull {
		if err := d.announcer.SendBookingAnnouncement(&detail.Match, detail.Participants, dryRun); err != nil {
			log.Error("Failed to announce booking", "matchID", ev.MatchID, "error", err)
		}
	}
	return nil
}

// NotifyResult emails every confirmed roster member and announces the
// result to the club channel.
func (d *Dispatcher) NotifyResult(ev pubsub.ResultEvent, dryRun bool) error {
	start := time.Now()
	defer func() { d.metrics.ObserveProcessingDuration(time.Since(start).Seconds()) }()

	detail, err := d.matches.GetMatch(ev.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load match for result: %w", err)
	}
	m := &detail.Match

	for _, p := range detail.Participants {
		if p.Status != padel.ParticipantConfirmed {
			continue
		}
		name, addr := d.contactFor(&p)
		if addr == "" {
			continue
		}
		if dryRun {
			log.Info("[Dry Run] Would email match result", "matchID", ev.MatchID, "to", addr)
			continue
		}
		_, err := d.notifier.SendMatchComplete(notifier.MatchCompleteData{
			To:         addr,
			PlayerName: name,
			MatchLabel: matchLabel(m),
			Winner:     m.Winner,
			ScoreLine:  scoreLine(m),
			Won:        p.Team == m.Winner,
		})
		if err != nil {
			log.Error("Failed to send result email", "matchID", ev.MatchID, "to", addr, "error", err)
		}
	}

	if err := d.announcer.SendResultAnnouncement(m, dryRun); err != nil {
		log.Error("Failed to announce result", "matchID", ev.MatchID, "error", err)
	}
	return nil
}

// RemindMatch emails everyone on one match's roster that the match
// starts soon. Returns the number of reminders sent (or that would have
// been sent under dry run).
func (d *Dispatcher) RemindMatch(ev pubsub.ReminderEvent, dryRun bool) (int, error) {
	start := time.Now()
	defer func() { d.metrics.ObserveProcessingDuration(time.Since(start).Seconds()) }()

	detail, err := d.matches.GetMatch(ev.MatchID)
	if err != nil {
		return 0, fmt.Errorf("failed to load match for reminder: %w", err)
	}
	m := &detail.Match

	recipients := make([]padel.Participant, 0, len(detail.Participants)+1)
	recipients = append(recipients, padel.Participant{UserID: m.OrganizerID, Status: padel.ParticipantConfirmed})
	recipients = append(recipients, detail.Participants...)

	sent := 0
	for _, p := range recipients {
		if p.Status != padel.ParticipantConfirmed {
			continue
		}
		name, addr := d.contactFor(&p)
		if addr == "" {
			continue
		}
		if dryRun {
			log.Info("[Dry Run] Would email match reminder", "matchID", m.ID, "to", addr)
			sent++
			continue
		}
		_, err := d.notifier.SendMatchReminder(notifier.ReminderData{
			To:         addr,
			PlayerName: name,
			MatchLabel: matchLabel(m),
			ClubName:   m.ClubName,
			StartsAt:   m.ScheduledAt,
		})
		if err != nil {
			log.Error("Failed to send reminder email", "matchID", m.ID, "to", addr, "error", err)
			continue
		}
		sent++
	}

	log.Info("Match reminder processed", "matchID", m.ID, "reminders", sent, "dryRun", dryRun)
	return sent, nil
}

// contactFor resolves a display name and email address for a roster
// entry, falling back to the invitee fields for unregistered players.
func (d *Dispatcher) contactFor(p *padel.Participant) (string, string) {
	if p.UserID != "" {
		profile, err := d.profiles.GetProfile(p.UserID)
		if err == nil {
			return profile.Name, profile.Email
		}
		log.Warn("Failed to load profile for participant", "userID", p.UserID, "error", err)
	}
	return p.InviteeName, p.InviteeEmail
}

func matchLabel(m *padel.Match) string {
	when := m.FlexibleDay
	if m.ScheduledAt != 0 {
		when = time.Unix(m.ScheduledAt, 0).Format("Monday 02 Jan, 15:04")
	}
	if m.ClubName == "" {
		return when
	}
	return fmt.Sprintf("%s at %s", when, m.ClubName)
}

func scoreLine(m *padel.Match) string {
	line := ""
	for i, set := range m.Sets {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%d-%d", set.ScoreA, set.ScoreB)
	}
	return line
}
