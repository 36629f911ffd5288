package events

import (
	"testing"
	"time"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/courtmate/courtmate/internal/pubsub"
	"github.com/courtmate/courtmate/internal/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDispatcher(t *testing.T) (*Dispatcher, match.Service, *notifier.Mock, *notifier.MockAnnouncer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	profiles := club.New(db)
	for _, p := range []padel.Profile{
		{ID: "org", Name: "Olivia Organizer", Email: "org@example.com", Level: 5.0},
		{ID: "p1", Name: "Paula One", Email: "p1@example.com", Level: 4.5},
		{ID: "p2", Name: "Pedro Two", Email: "p2@example.com", Level: 5.5},
		{ID: "p3", Name: "Pia Three", Email: "p3@example.com", Level: 6.0},
	} {
		require.NoError(t, profiles.UpsertProfile(&p))
	}

	matches := match.New(db)
	mockNotifier := notifier.NewMock()
	mockAnnouncer := notifier.NewMockAnnouncer()
	d := New(matches, profiles, mockNotifier, mockAnnouncer, share.New("https://courtmate.app"), metrics.NewMock())

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return d, matches, mockNotifier, mockAnnouncer, teardown
}

func createMatch(t *testing.T, matches match.Service, scheduledAt int64) *padel.Match {
	t.Helper()
	m, err := matches.CreateMatch(match.CreateMatchInput{
		OrganizerID: "org",
		ClubName:    "Padel Central",
		City:        "Lisbon",
		ScheduledAt: scheduledAt,
	})
	require.NoError(t, err)
	return m
}

func TestNotifyJoinRequest(t *testing.T) {
	d, matches, mockNotifier, _, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(72*time.Hour).Unix())
	_, err := matches.Join(m.ID, "p1", "")
	require.NoError(t, err)

	ev := pubsub.JoinRequestEvent{MatchID: m.ID, RequesterID: "p1"}
	require.NoError(t, d.NotifyJoinRequest(ev, false))

	require.Len(t, mockNotifier.JoinRequestCalls, 1)
	call := mockNotifier.JoinRequestCalls[0]
	assert.Equal(t, "org@example.com", call.To)
	assert.Equal(t, "Olivia Organizer", call.OrganizerName)
	assert.Equal(t, "Paula One", call.RequesterName)
	assert.False(t, call.Duo)

	t.Run("dry run sends nothing", func(t *testing.T) {
		require.NoError(t, d.NotifyJoinRequest(ev, true))
		assert.Len(t, mockNotifier.JoinRequestCalls, 1)
	})

	t.Run("unknown match errors", func(t *testing.T) {
		err := d.NotifyJoinRequest(pubsub.JoinRequestEvent{MatchID: "ghost", RequesterID: "p1"}, false)
		assert.Error(t, err)
	})
}

func TestNotifyJoinRequestDuo(t *testing.T) {
	d, matches, mockNotifier, _, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(72*time.Hour).Unix())
	_, err := matches.Join(m.ID, "p1", "p2")
	require.NoError(t, err)

	ev := pubsub.JoinRequestEvent{MatchID: m.ID, RequesterID: "p1", DuoPartnerID: "p2"}
	require.NoError(t, d.NotifyJoinRequest(ev, false))

	require.Len(t, mockNotifier.JoinRequestCalls, 1)
	assert.True(t, mockNotifier.JoinRequestCalls[0].Duo)

	require.Len(t, mockNotifier.DuoInviteCalls, 1)
	invite := mockNotifier.DuoInviteCalls[0]
	assert.Equal(t, "p2@example.com", invite.To)
	assert.Equal(t, "Paula One", invite.InviterName)
	assert.Equal(t, "Pedro Two", invite.InviteeName)
	assert.Equal(t, "https://courtmate.app/match/"+m.ID, invite.InviteURL)

	t.Run("dry run sends nothing", func(t *testing.T) {
		require.NoError(t, d.NotifyJoinRequest(ev, true))
		assert.Len(t, mockNotifier.DuoInviteCalls, 1)
	})
}

func TestNotifyInviteCreated(t *testing.T) {
	d, matches, mockNotifier, _, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(72*time.Hour).Unix())
	invite := &padel.PendingInvite{
		Token:        "tok-1",
		MatchID:      m.ID,
		InviteeName:  "Nina New",
		InviteeEmail: "nina@example.com",
	}

	require.NoError(t, d.NotifyInviteCreated(invite, false))
	require.Len(t, mockNotifier.GenericInviteCalls, 1)
	call := mockNotifier.GenericInviteCalls[0]
	assert.Equal(t, "nina@example.com", call.To)
	assert.Equal(t, "Nina New", call.InviteeName)
	assert.Equal(t, "https://courtmate.app/invite/tok-1", call.InviteURL)

	t.Run("no email skips silently", func(t *testing.T) {
		require.NoError(t, d.NotifyInviteCreated(&padel.PendingInvite{Token: "tok-2"}, false))
		assert.Len(t, mockNotifier.GenericInviteCalls, 1)
	})

	t.Run("dry run sends nothing", func(t *testing.T) {
		require.NoError(t, d.NotifyInviteCreated(invite, true))
		assert.Len(t, mockNotifier.GenericInviteCalls, 1)
	})
}

func TestNotifyDecision(t *testing.T) {
	d, matches, mockNotifier, mockAnnouncer, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(72*time.Hour).Unix())

	// Fill every seat so the final acceptance triggers the booking
	// announcement.
	var lastID string
	for _, userID := range []string{"p1", "p2", "p3"} {
		joined, err := matches.Join(m.ID, userID, "")
		require.NoError(t, err)
		require.NoError(t, matches.Accept(m.ID, "org", joined[0].ID))
		lastID = joined[0].ID
	}

	require.NoError(t, d.NotifyDecision(pubsub.DecisionEvent{MatchID: m.ID, ParticipantID: lastID, Accepted: true}, false))

	require.Len(t, mockNotifier.JoinAcceptedCalls, 1)
	assert.Equal(t, "p3@example.com", mockNotifier.JoinAcceptedCalls[0].To)
	require.Len(t, mockAnnouncer.BookingAnnouncementCalls, 1)
	assert.Equal(t, padel.StatusFull, mockAnnouncer.BookingAnnouncementCalls[0].Match.Status)

	t.Run("rejection emails without announcing", func(t *testing.T) {
		m2 := createMatch(t, matches, time.Now().Add(96*time.Hour).Unix())
		joined, err := matches.Join(m2.ID, "p1", "")
		require.NoError(t, err)
		require.NoError(t, matches.Refuse(m2.ID, "org", joined[0].ID))

		require.NoError(t, d.NotifyDecision(pubsub.DecisionEvent{MatchID: m2.ID, ParticipantID: joined[0].ID, Accepted: false}, false))
		require.Len(t, mockNotifier.JoinRejectedCalls, 1)
		assert.Len(t, mockAnnouncer.BookingAnnouncementCalls, 1)
	})

	t.Run("unknown participant errors", func(t *testing.T) {
		err := d.NotifyDecision(pubsub.DecisionEvent{MatchID: m.ID, ParticipantID: "ghost", Accepted: true}, false)
		assert.ErrorIs(t, err, padel.ErrNotFound)
	})
}

func TestNotifyResult(t *testing.T) {
	d, matches, mockNotifier, mockAnnouncer, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(72*time.Hour).Unix())
	for i, userID := range []string{"p1", "p2", "p3"} {
		joined, err := matches.Join(m.ID, userID, "")
		require.NoError(t, err)
		require.NoError(t, matches.Accept(m.ID, "org", joined[0].ID))
		team := padel.TeamB
		if i == 0 {
			team = padel.TeamA
		}
		require.NoError(t, matches.AssignTeam(m.ID, "org", joined[0].ID, team))
	}
	require.NoError(t, matches.RecordResult(m.ID, "org", padel.TeamA, []padel.SetScore{{ScoreA: 6, ScoreB: 3}}))

	require.NoError(t, d.NotifyResult(pubsub.ResultEvent{MatchID: m.ID, Winner: "A"}, false))

	require.Len(t, mockNotifier.MatchCompleteCalls, 3)
	wonByAddr := map[string]bool{}
	for _, call := range mockNotifier.MatchCompleteCalls {
		wonByAddr[call.To] = call.Won
		assert.Equal(t, "6-3", call.ScoreLine)
	}
	assert.True(t, wonByAddr["p1@example.com"])
	assert.False(t, wonByAddr["p2@example.com"])
	assert.False(t, wonByAddr["p3@example.com"])

	require.Len(t, mockAnnouncer.ResultAnnouncementCalls, 1)
	assert.Equal(t, padel.StatusCompleted, mockAnnouncer.ResultAnnouncementCalls[0].Match.Status)
}

func TestRemindMatch(t *testing.T) {
	d, matches, mockNotifier, _, teardown := setupDispatcher(t)
	defer teardown()

	m := createMatch(t, matches, time.Now().Add(2*time.Hour).Unix())
	joined, err := matches.Join(m.ID, "p1", "")
	require.NoError(t, err)
	require.NoError(t, matches.Accept(m.ID, "org", joined[0].ID))

	ev := pubsub.ReminderEvent{MatchID: m.ID, StartsAt: m.ScheduledAt}
	sent, err := d.RemindMatch(ev, false)
	require.NoError(t, err)
	assert.Equal(t, 2, sent) // organizer + one confirmed player

	require.Len(t, mockNotifier.MatchReminderCalls, 2)
	assert.Equal(t, "Padel Central", mockNotifier.MatchReminderCalls[0].ClubName)
	assert.Equal(t, m.ScheduledAt, mockNotifier.MatchReminderCalls[0].StartsAt)

	t.Run("dry run counts without sending", func(t *testing.T) {
		sent, err := d.RemindMatch(ev, true)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Len(t, mockNotifier.MatchReminderCalls, 2)
	})

	t.Run("unknown match errors", func(t *testing.T) {
		_, err := d.RemindMatch(pubsub.ReminderEvent{MatchID: "ghost"}, false)
		assert.Error(t, err)
	})
}
