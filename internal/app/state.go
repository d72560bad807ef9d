package app

// State is the orchestrator's current stage. Cancelled is reachable from
// every state; transitions otherwise follow
// Searching → FetchingPrimary → (Done | FallbackWhitelist) →
// (Synthesizing → Translating → Done) | Failed.
type State int32

const (
	StateIdle State = iota
	StateSearching
	StateFetchingPrimary
	StateFallbackWhitelist
	StateTranslating
	StateSynthesizing
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateFetchingPrimary:
		return "fetching-primary"
	case StateFallbackWhitelist:
		return "fallback-whitelist"
	case StateTranslating:
		return "translating"
	case StateSynthesizing:
		return "synthesizing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
