package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesCreated     prometheus.Counter
	JoinsAccepted      prometheus.Counter
	ResultsRecorded    prometheus.Counter
	EmailsSent         prometheus.Counter
	EmailsFailed       prometheus.Counter
	EmailsSimulated    prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	ProcessingDuration prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge

	// Optional persisted counters. Prometheus counters reset on restart;
	// delivery counts are mirrored here so they survive redeploys.
	counters MetricsStore
}
