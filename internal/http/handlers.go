package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/courtmate/courtmate/internal/pubsub"
	"github.com/slack-go/slack"
)

// httpError translates the domain error taxonomy into status codes.
// Validation maps to 400, capacity and state conflicts to 409, missing
// records to 404 and collaborator failures to 502.
func httpError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, padel.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, padel.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, padel.ErrCapacity), errors.Is(err, padel.ErrStateConflict):
		status = http.StatusConflict
	case errors.Is(err, padel.ErrDownstream):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler serves the persisted delivery counters. Unlike /metrics
// these survive restarts.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to read persisted counters", "error", err)
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, counters)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in match.CreateMatchInput
		if !decodeBody(w, r, &in) {
			return
		}

		m, err := s.Matches.CreateMatch(in)
		if err != nil {
			log.Error("Failed to create match", "organizer", in.OrganizerID, "error", err)
			httpError(w, err)
			return
		}
		s.Metrics.IncMatchesCreated()
		log.Info("Match created", "matchID", m.ID, "organizer", m.OrganizerID)
		respondJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := padel.MatchStatus(r.URL.Query().Get("status"))
		matches, err := s.Matches.ListMatches(status)
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.Matches.GetMatch(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, detail)
	}
}

func (s *Server) MatchSlotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.Matches.GetMatch(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}

		ids := []string{detail.Match.OrganizerID}
		for _, p := range detail.Participants {
			if p.UserID != "" {
				ids = append(ids, p.UserID)
			}
		}
		names := map[string]string{}
		profiles, err := s.Profiles.GetProfiles(ids)
		if err != nil {
			log.Warn("Failed to resolve roster names", "matchID", detail.Match.ID, "error", err)
		}
		for _, p := range profiles {
			names[p.ID] = p.Name
		}

		slots := match.ComputeSlots(&detail.Match, detail.Participants, names)
		respondJSON(w, http.StatusOK, slots)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID string `json:"actor_id"`
			Reason  string `json:"reason"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		if err := s.Matches.CancelMatch(matchID, body.ActorID, body.Reason); err != nil {
			log.Error("Failed to cancel match", "matchID", matchID, "error", err)
			httpError(w, err)
			return
		}
		log.Info("Match cancelled", "matchID", matchID, "reason", body.Reason)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match cancelled.")
	}
}

func (s *Server) JoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID       string `json:"user_id"`
			DuoPartnerID string `json:"duo_partner_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		participants, err := s.Matches.Join(matchID, body.UserID, body.DuoPartnerID)
		if err != nil {
			log.Error("Failed to file join request", "matchID", matchID, "user", body.UserID, "error", err)
			httpError(w, err)
			return
		}

		// Notification fan-out is best-effort; the join request is already
		// committed.
		s.publish(pubsub.EventNotifyJoinRequest, pubsub.JoinRequestEvent{
			MatchID:      matchID,
			RequesterID:  body.UserID,
			DuoPartnerID: body.DuoPartnerID,
		})
		respondJSON(w, http.StatusCreated, participants)
	}
}

func (s *Server) AcceptHandler() http.HandlerFunc {
	return s.decisionHandler(true)
}

func (s *Server) RefuseHandler() http.HandlerFunc {
	return s.decisionHandler(false)
}

func (s *Server) decisionHandler(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID       string `json:"actor_id"`
			ParticipantID string `json:"participant_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		var err error
		if accept {
			err = s.Matches.Accept(matchID, body.ActorID, body.ParticipantID)
		} else {
			err = s.Matches.Refuse(matchID, body.ActorID, body.ParticipantID)
		}
		if err != nil {
			log.Error("Failed to decide join request", "matchID", matchID, "participant", body.ParticipantID, "accepted", accept, "error", err)
			httpError(w, err)
			return
		}

		if accept {
			s.Metrics.IncJoinsAccepted()
		}
		s.publish(pubsub.EventNotifyDecision, pubsub.DecisionEvent{
			MatchID:       matchID,
			ParticipantID: body.ParticipantID,
			Accepted:      accept,
		})
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) LeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		action, err := s.Matches.Leave(matchID, body.UserID)
		if err != nil {
			log.Error("Failed to leave match", "matchID", matchID, "user", body.UserID, "error", err)
			httpError(w, err)
			return
		}
		log.Info("Player left match", "matchID", matchID, "user", body.UserID, "action", action)
		respondJSON(w, http.StatusOK, map[string]string{"action": string(action)})
	}
}

func (s *Server) AssignTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID       string         `json:"actor_id"`
			ParticipantID string         `json:"participant_id"`
			Team          padel.TeamSide `json:"team"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		if err := s.Matches.AssignTeam(matchID, body.ActorID, body.ParticipantID, body.Team); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) SwapTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID       string `json:"actor_id"`
			ParticipantID string `json:"participant_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Matches.SwapTeam(r.PathValue("id"), body.ActorID, body.ParticipantID); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) MarkPaidHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Matches.MarkPaid(r.PathValue("id"), body.UserID); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) ConfirmPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID       string `json:"actor_id"`
			ParticipantID string `json:"participant_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Matches.ConfirmPayment(r.PathValue("id"), body.ActorID, body.ParticipantID); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) MarkShowedUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID       string `json:"actor_id"`
			ParticipantID string `json:"participant_id"`
			ShowedUp      *bool  `json:"showed_up"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.ShowedUp == nil {
			http.Error(w, "showed_up is required", http.StatusBadRequest)
			return
		}

		if err := s.Matches.MarkShowedUp(r.PathValue("id"), body.ActorID, body.ParticipantID, *body.ShowedUp); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ActorID string           `json:"actor_id"`
			Winner  padel.TeamSide   `json:"winner"`
			Sets    []padel.SetScore `json:"sets"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		matchID := r.PathValue("id")
		start := time.Now()
		if err := s.Matches.RecordResult(matchID, body.ActorID, body.Winner, body.Sets); err != nil {
			log.Error("Failed to record result", "matchID", matchID, "error", err)
			httpError(w, err)
			return
		}
		s.Metrics.IncResultsRecorded()
		s.Metrics.ObserveProcessingDuration(time.Since(start).Seconds())

		s.publish(pubsub.EventNotifyResult, pubsub.ResultEvent{
			MatchID: matchID,
			Winner:  string(body.Winner),
		})
		log.Info("Result recorded", "matchID", matchID, "winner", body.Winner)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Result recorded.")
	}
}

// publish sends an event to pubsub and only logs on failure. The
// primary operation has already committed by the time we get here.
func (s *Server) publish(topic pubsub.EventType, data any) {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.SendMessage(topic, data); err != nil {
		log.Error("Failed to publish event", "topic", topic, "error", err)
	}
}

func (s *Server) CalendarExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.Matches.GetMatch(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}

		ics, err := s.Share.CalendarEvent(&detail.Match)
		if err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		w.Header().Set("Content-Disposition", "attachment; filename=match.ics")
		fmt.Fprint(w, ics)
	}
}

func (s *Server) CalendarLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.Matches.GetMatch(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}

		link, err := s.Share.GoogleCalendarURL(&detail.Match)
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"url": link})
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Profiles.GetLeaderboard()
		if err != nil {
			log.Error("Failed to get leaderboard", "error", err)
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Profiles.GetPlayerStats(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) PlayerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err == nil && parsed > 0 {
				limit = parsed
			} else {
				log.Warn("Invalid 'limit' parameter provided. Defaulting to 10.", "limit_param", v)
			}
		}

		history, err := s.Profiles.GetRecentMatches(r.PathValue("id"), limit)
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, history)
	}
}

func (s *Server) PlayerCardQRHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		if _, err := s.Profiles.GetProfile(playerID); err != nil {
			httpError(w, err)
			return
		}

		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		png, err := s.Share.QRCode(s.Share.PlayerCardURL(playerID), size)
		if err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

func (s *Server) ListFavoritesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := s.Profiles.ListFavorites(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, favorites)
	}
}

func (s *Server) AddFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FavoriteID string `json:"favorite_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Profiles.AddFavorite(r.PathValue("id"), body.FavoriteID); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) RemoveFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Profiles.RemoveFavorite(r.PathValue("id"), r.PathValue("favoriteID")); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) CreateInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MatchID      string         `json:"match_id"`
			InviteeName  string         `json:"invitee_name"`
			InviteeEmail string         `json:"invitee_email"`
			Team         padel.TeamSide `json:"team"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		invite, err := s.Invites.Create(body.MatchID, body.InviteeName, body.InviteeEmail, body.Team)
		if err != nil {
			log.Error("Failed to create invite", "matchID", body.MatchID, "error", err)
			httpError(w, err)
			return
		}

		if s.Dispatcher != nil {
			if err := s.Dispatcher.NotifyInviteCreated(invite, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to notify invitee", "token", invite.Token, "error", err)
			}
		}
		respondJSON(w, http.StatusCreated, invite)
	}
}

func (s *Server) GetInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invite, err := s.Invites.Get(r.PathValue("token"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, invite)
	}
}

func (s *Server) InviteQRHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")
		if _, err := s.Invites.Get(token); err != nil {
			httpError(w, err)
			return
		}

		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		png, err := s.Share.QRCode(s.Share.InviteURL(token), size)
		if err != nil {
			httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

func (s *Server) ConvertInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		token := r.PathValue("token")
		participant, err := s.Invites.Convert(token, body.UserID)
		if err != nil {
			log.Error("Failed to convert invite", "token", token, "error", err)
			httpError(w, err)
			return
		}

		s.publish(pubsub.EventNotifyJoinRequest, pubsub.JoinRequestEvent{
			MatchID:     participant.MatchID,
			RequesterID: body.UserID,
		})
		respondJSON(w, http.StatusCreated, participant)
	}
}

func (s *Server) ExpireInvitesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 14
		if v := r.URL.Query().Get("days"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err == nil && parsed > 0 {
				days = parsed
			} else {
				log.Warn("Invalid 'days' parameter provided. Defaulting to 14.", "days_param", v)
			}
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have expired open invites", "older_than_days", days)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, nothing expired.")
			return
		}

		expired, err := s.Invites.Expire(days)
		if err != nil {
			log.Error("Failed to expire invites", "error", err)
			httpError(w, err)
			return
		}
		log.Info("Expired open invites", "count", expired, "older_than_days", days)
		respondJSON(w, http.StatusOK, map[string]int64{"expired": expired})
	}
}

func (s *Server) CreatePollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CreatorID   string   `json:"creator_id"`
			CreatorName string   `json:"creator_name"`
			Question    string   `json:"question"`
			Days        []string `json:"days"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		poll, err := s.Polls.CreatePoll(body.CreatorID, body.CreatorName, body.Question, body.Days)
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, poll)
	}
}

func (s *Server) ListPollsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		polls, err := s.Polls.ListActive()
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, polls)
	}
}

func (s *Server) GetPollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poll, err := s.Polls.GetPoll(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, poll)
	}
}

func (s *Server) PollTallyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tally, err := s.Polls.Tally(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, tally)
	}
}

func (s *Server) PollVoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OptionID string `json:"option_id"`
			UserID   string `json:"user_id"`
			UserName string `json:"user_name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Polls.Vote(r.PathValue("id"), body.OptionID, body.UserID, body.UserName); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) PollUnvoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OptionID string `json:"option_id"`
			UserID   string `json:"user_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if err := s.Polls.Unvote(r.PathValue("id"), body.OptionID, body.UserID); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) PollProposeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposal, err := s.Polls.Propose(r.PathValue("id"))
		if err != nil {
			httpError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, proposal)
	}
}

func (s *Server) PollConfirmHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Polls.Confirm(r.PathValue("id")); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) PollCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Polls.Cancel(r.PathValue("id")); err != nil {
			httpError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

// decodePushMessage unwraps a pubsub push delivery: the outer JSON
// envelope carries a base64 payload which is the raw MessagePack bytes.
func decodePushMessage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return nil, false
	}
	return rawData, true
}

func (s *Server) NotifyJoinRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := pubsub.JoinRequestEvent{}
		s.pubsub.ProcessMessage(rawData, &ev)
		if err := s.Dispatcher.NotifyJoinRequest(ev, isDryRun); err != nil {
			log.Error("Failed to notify join request", "matchID", ev.MatchID, "error", err)
			http.Error(w, "Failed to notify join request", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) NotifyDecisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := pubsub.DecisionEvent{}
		s.pubsub.ProcessMessage(rawData, &ev)
		if err := s.Dispatcher.NotifyDecision(ev, isDryRun); err != nil {
			log.Error("Failed to notify decision", "matchID", ev.MatchID, "error", err)
			http.Error(w, "Failed to notify decision", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := pubsub.ResultEvent{}
		s.pubsub.ProcessMessage(rawData, &ev)
		if err := s.Dispatcher.NotifyResult(ev, isDryRun); err != nil {
			log.Error("Failed to notify result", "matchID", ev.MatchID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// RunRemindersHandler sweeps matches starting within the window and
// fans a reminder event out per match. The actual emails go out when
// the push subscription delivers each event back.
func (s *Server) RunRemindersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hours := 24
		if v := r.URL.Query().Get("hours"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err == nil && parsed > 0 {
				hours = parsed
			} else {
				log.Warn("Invalid 'hours' parameter provided. Defaulting to 24.", "hours_param", v)
			}
		}

		details, err := s.Matches.ListUpcoming(time.Duration(hours) * time.Hour)
		if err != nil {
			log.Error("Failed to list upcoming matches", "error", err)
			httpError(w, err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		for i := range details {
			ev := pubsub.ReminderEvent{MatchID: details[i].Match.ID, StartsAt: details[i].Match.ScheduledAt}
			if isDryRun {
				log.Info("[Dry Run] Would publish match reminder", "matchID", ev.MatchID)
				continue
			}
			s.publish(pubsub.EventMatchReminder, ev)
		}
		log.Info("Reminder sweep finished", "matches", len(details), "window_hours", hours, "dryRun", isDryRun)
		respondJSON(w, http.StatusOK, map[string]int{"scheduled": len(details)})
	}
}

func (s *Server) NotifyReminderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		isDryRun := isDryRunFromContext(r)
		ev := pubsub.ReminderEvent{}
		s.pubsub.ProcessMessage(rawData, &ev)
		if _, err := s.Dispatcher.RemindMatch(ev, isDryRun); err != nil {
			log.Error("Failed to send match reminder", "matchID", ev.MatchID, "error", err)
			http.Error(w, "Failed to send match reminder", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Profiles.GetLeaderboard()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}

		msg, err := s.Announcer.FormatLeaderboardResponse(stats)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		stats, err := s.Profiles.GetPlayerStatsByName(playerName)
		var msg any
		if err != nil {
			log.Warn("Could not find player stats", "player", playerName, "error", err)
			msg, err = s.Announcer.FormatPlayerNotFoundResponse(playerName)
		} else {
			msg, err = s.Announcer.FormatPlayerStatsResponse(stats, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
