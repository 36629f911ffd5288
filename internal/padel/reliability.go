package padel

// Reliability score bounds. Every player starts at the ceiling and the
// score never leaves [0, 100].
const (
	ReliabilityMin   = 0
	ReliabilityMax   = 100
	ReliabilityStart = 100
)

// ReliabilityDelta maps a player action to the signed adjustment of
// their reliability score. Unknown actions are a no-op.
func ReliabilityDelta(action PlayerAction) int {
	switch action {
	case ActionCompleted:
		return 1
	case ActionEarlyCancel:
		return -3
	case ActionLateCancel:
		return -10
	case ActionNoShow:
		return -15
	default:
		return 0
	}
}
