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

type Server struct {
	Matches        match.Service
	Profiles       club.ProfileStore
	Invites        invites.Store
	Polls          availability.Service
	Share          *share.Service
	Dispatcher     *events.Dispatcher
	Announcer      notifier.Announcer
	Metrics        metrics.Metrics
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
