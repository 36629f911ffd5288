package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesCreated()
	IncJoinsAccepted()
	IncResultsRecorded()
	IncEmailsSent()
	IncEmailsFailed()
	IncEmailsSimulated()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	ObserveProcessingDuration(duration float64)
	SetStartupTime(duration float64)
}

// MetricsStore persists coarse counters across restarts, independently
// of the Prometheus registry.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
