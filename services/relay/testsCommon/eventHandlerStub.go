package testsCommon

import (
	"context"
	"encoding/json"
)

// EventHandlerStub -
type EventHandlerStub struct {
	HandleConnectHandler    func(connectionID string)
	HandleEventHandler      func(ctx context.Context, connectionID string, event string, data json.RawMessage)
	HandleDisconnectHandler func(connectionID string)
}

// HandleConnect -
func (stub *EventHandlerStub) HandleConnect(connectionID string) {
	if stub.HandleConnectHandler != nil {
		stub.HandleConnectHandler(connectionID)
	}
}

// HandleEvent -
func (stub *EventHandlerStub) HandleEvent(ctx context.Context, connectionID string, event string, data json.RawMessage) {
	if stub.HandleEventHandler != nil {
		stub.HandleEventHandler(ctx, connectionID, event, data)
	}
}

// HandleDisconnect -
func (stub *EventHandlerStub) HandleDisconnect(connectionID string) {
	if stub.HandleDisconnectHandler != nil {
		stub.HandleDisconnectHandler(connectionID)
	}
}

// IsInterfaceNil -
func (stub *EventHandlerStub) IsInterfaceNil() bool {
	return stub == nil
}
