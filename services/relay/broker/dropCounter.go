package broker

import "sync"

// Reasons for which inbound events get dropped
const (
	ReasonUnregisteredSender         = "unregistered_sender"
	ReasonMissingTeamID              = "missing_team_id"
	ReasonInvalidTeamID              = "invalid_team_id"
	ReasonTeamMismatch               = "team_mismatch"
	ReasonUnauthorizedCommand        = "unauthorized_command"
	ReasonUnauthorizedHistoryRequest = "unauthorized_history_request"
	ReasonMissingRole                = "missing_role"
	ReasonMalformedEvent             = "malformed_event"
	ReasonStoreFailure               = "store_failure"
)

type dropCounter struct {
	mut    sync.Mutex
	counts map[string]uint64
}

func newDropCounter() *dropCounter {
	return &dropCounter{
		counts: make(map[string]uint64),
	}
}

func (dc *dropCounter) increment(reason string) {
	dc.mut.Lock()
	dc.counts[reason]++
	dc.mut.Unlock()
}

func (dc *dropCounter) snapshot() map[string]uint64 {
	dc.mut.Lock()
	defer dc.mut.Unlock()

	result := make(map[string]uint64, len(dc.counts))
	for reason, count := range dc.counts {
		result[reason] = count
	}

	return result
}
