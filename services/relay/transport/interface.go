package transport

import (
	"context"
	"encoding/json"
)

// EventHandler receives the lifecycle and inbound events of every connection
type EventHandler interface {
	HandleConnect(connectionID string)
	HandleEvent(ctx context.Context, connectionID string, event string, data json.RawMessage)
	HandleDisconnect(connectionID string)
	IsInterfaceNil() bool
}
