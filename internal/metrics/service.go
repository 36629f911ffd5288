package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_matches_created_total",
			Help: "The total number of matches created.",
		}),
		JoinsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_joins_accepted_total",
			Help: "The total number of join requests accepted onto a roster.",
		}),
		ResultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_results_recorded_total",
			Help: "The total number of match results recorded.",
		}),
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_emails_sent_total",
			Help: "The total number of notification emails successfully sent.",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_emails_failed_total",
			Help: "The total number of notification emails that failed to send.",
		}),
		EmailsSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_emails_simulated_total",
			Help: "The total number of notification emails simulated because no API key was configured.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmate_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtmate_match_processing_duration_seconds",
			Help:    "The duration of individual match lifecycle operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtmate_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesCreated,
		s.JoinsAccepted,
		s.ResultsRecorded,
		s.EmailsSent,
		s.EmailsFailed,
		s.EmailsSimulated,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.ProcessingDuration,
		s.StartupTimeSeconds,
	)

	return s
}

// WithStore attaches a persisted counter store. Notification delivery
// counters are mirrored into it on every increment.
func (s *Service) WithStore(store MetricsStore) *Service {
	s.counters = store
	return s
}

func (s *Service) persist(key string) {
	if s.counters != nil {
		s.counters.Increment(key)
	}
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncJoinsAccepted() {
	s.JoinsAccepted.Inc()
}

func (s *Service) IncResultsRecorded() {
	s.ResultsRecorded.Inc()
}

func (s *Service) IncEmailsSent() {
	s.EmailsSent.Inc()
	s.persist("emails_sent")
}

func (s *Service) IncEmailsFailed() {
	s.EmailsFailed.Inc()
	s.persist("emails_failed")
}

func (s *Service) IncEmailsSimulated() {
	s.EmailsSimulated.Inc()
	s.persist("emails_simulated")
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
	s.persist("slack_notifications_sent")
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
	s.persist("slack_notifications_failed")
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
