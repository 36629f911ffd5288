package padel

import "time"

// DeriveStatus is the single source of truth for a match's lifecycle
// status. Every mutation path funnels through it instead of deriving
// the status at each call site.
//
// Precedence: cancelled > completed > full > open.
func DeriveStatus(spotsAvailable int, hasResult, isCancelled bool) MatchStatus {
	switch {
	case isCancelled:
		return StatusCancelled
	case hasResult:
		return StatusCompleted
	case spotsAvailable <= 0:
		return StatusFull
	default:
		return StatusOpen
	}
}

// lateCancelWindow is the cutoff below which a self-withdrawal counts
// as a late cancellation.
const lateCancelWindow = 24 * time.Hour

// ClassifyCancellation maps a self-withdrawal to the reliability action
// it should incur, based on how close to the match start it happens.
// Flexible matches (no fixed start time) are always early cancels.
func ClassifyCancellation(now time.Time, matchStart int64) PlayerAction {
	if matchStart == 0 {
		return ActionEarlyCancel
	}
	if time.Unix(matchStart, 0).Sub(now) < lateCancelWindow {
		return ActionLateCancel
	}
	return ActionEarlyCancel
}
