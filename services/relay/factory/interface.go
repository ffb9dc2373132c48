package factory

import (
	"github.com/iulianpascalau/telemetry-relay/services/relay/api"
	"github.com/iulianpascalau/telemetry-relay/services/relay/broker"
	"github.com/iulianpascalau/telemetry-relay/services/relay/transport"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start() error
	Address() string
	Close() error
}

// Storage defines a closable telemetry storage
type Storage interface {
	broker.TelemetryStorage
	Close() error
}

// Hub defines the websocket transport
type Hub interface {
	api.SocketHandler
	Emit(connectionID string, event string, payload interface{})
	BroadcastExcept(senderID string, event string, payload interface{})
	SetEventHandler(handler transport.EventHandler) error
	Len() int
	Close() error
}

// RelayCore defines the connection events dispatcher
type RelayCore interface {
	transport.EventHandler
	DroppedEvents() map[string]uint64
	Close() error
}
