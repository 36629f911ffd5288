package events

import (
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/share"
)

// Dispatcher turns committed roster events into outbound notifications.
// Everything here is best-effort: a failed email or announcement is
// logged and counted, never propagated back into the operation that
// produced the event.
type Dispatcher struct {
	matches   match.Service
	profiles  club.ProfileStore
	notifier  notifier.Notifier
	announcer notifier.Announcer
	links     *share.Service
	metrics   metrics.Metrics
}
