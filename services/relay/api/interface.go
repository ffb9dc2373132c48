package api

import (
	"net/http"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// SocketHandler accepts the websocket upgrade requests
type SocketHandler interface {
	http.Handler
	IsInterfaceNil() bool
}

// ClientsProvider returns the identities of the live connections
type ClientsProvider interface {
	Snapshot() []common.Identity
	IsInterfaceNil() bool
}

// DropsProvider returns the dropped inbound events counters, by reason
type DropsProvider interface {
	DroppedEvents() map[string]uint64
	IsInterfaceNil() bool
}
