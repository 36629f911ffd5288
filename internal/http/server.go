package http

import (
	"net/http"

	"github.com/courtmate/courtmate/internal/availability"
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/config"
	"github.com/courtmate/courtmate/internal/events"
	"github.com/courtmate/courtmate/internal/invites"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/pubsub"
	"github.com/courtmate/courtmate/internal/share"
)

func NewServer(matches match.Service, profiles club.ProfileStore, inviteStore invites.Store, polls availability.Service, shareSvc *share.Service, dispatcher *events.Dispatcher, announcer notifier.Announcer, metricsSvc metrics.Metrics, counters metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Matches:        matches,
		Profiles:       profiles,
		Invites:        inviteStore,
		Polls:          polls,
		Share:          shareSvc,
		Dispatcher:     dispatcher,
		Announcer:      announcer,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}/slots", Chain(s.MatchSlotsHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/cancel", Chain(s.CancelMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/join", Chain(s.JoinHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/accept", Chain(s.AcceptHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/refuse", Chain(s.RefuseHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/leave", Chain(s.LeaveHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/team", Chain(s.AssignTeamHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/swap-team", Chain(s.SwapTeamHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/paid", Chain(s.MarkPaidHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/confirm-payment", Chain(s.ConfirmPaymentHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/showed-up", Chain(s.MarkShowedUpHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/result", Chain(s.RecordResultHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}/calendar.ics", Chain(s.CalendarExportHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}/calendar-link", Chain(s.CalendarLinkHandler(), paramsMiddleware))

	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/history", Chain(s.PlayerHistoryHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/card-qr", Chain(s.PlayerCardQRHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/favorites", Chain(s.ListFavoritesHandler(), paramsMiddleware))
	s.Router.Handle("POST /players/{id}/favorites", Chain(s.AddFavoriteHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}/favorites/{favoriteID}", Chain(s.RemoveFavoriteHandler(), paramsMiddleware))

	s.Router.Handle("POST /invites", Chain(s.CreateInviteHandler(), paramsMiddleware))
	s.Router.Handle("GET /invites/{token}", Chain(s.GetInviteHandler(), paramsMiddleware))
	s.Router.Handle("GET /invites/{token}/qr", Chain(s.InviteQRHandler(), paramsMiddleware))
	s.Router.Handle("POST /invites/{token}/convert", Chain(s.ConvertInviteHandler(), paramsMiddleware))
	s.Router.Handle("POST /invites/expire", Chain(s.ExpireInvitesHandler(), paramsMiddleware))

	s.Router.Handle("POST /polls", Chain(s.CreatePollHandler(), paramsMiddleware))
	s.Router.Handle("GET /polls", Chain(s.ListPollsHandler(), paramsMiddleware))
	s.Router.Handle("GET /polls/{id}", Chain(s.GetPollHandler(), paramsMiddleware))
	s.Router.Handle("GET /polls/{id}/tally", Chain(s.PollTallyHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/vote", Chain(s.PollVoteHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/unvote", Chain(s.PollUnvoteHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/propose", Chain(s.PollProposeHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/confirm", Chain(s.PollConfirmHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/cancel", Chain(s.PollCancelHandler(), paramsMiddleware))

	s.Router.Handle("POST /notify-join-request", Chain(s.NotifyJoinRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /notify-decision", Chain(s.NotifyDecisionHandler(), paramsMiddleware))
	s.Router.Handle("POST /notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("POST /notify-reminder", Chain(s.NotifyReminderHandler(), paramsMiddleware))
	s.Router.Handle("POST /reminders/run", Chain(s.RunRemindersHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
