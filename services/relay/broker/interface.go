package broker

import (
	"context"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// ConnectionRegistry defines the per-connection identity bookkeeping
type ConnectionRegistry interface {
	Put(connectionID string, identity common.Identity)
	Get(connectionID string) (common.Identity, bool)
	Remove(connectionID string)
	IsInterfaceNil() bool
}

// TelemetryStorage defines the bounded per-team telemetry history
type TelemetryStorage interface {
	// Append attaches the altitude plot, stores the sample and trims the team's history
	Append(ctx context.Context, teamID int64, sample common.TelemetrySample) (common.TelemetrySample, error)

	// History returns the retained samples of the team in arrival order, empty if the team never reported
	History(ctx context.Context, teamID int64) ([]common.TelemetrySample, error)

	IsInterfaceNil() bool
}

// MotorLookup defines the external motor catalog query
type MotorLookup interface {
	Lookup(ctx context.Context, manufacturer string, designation string) (*common.MotorStats, error)
	IsInterfaceNil() bool
}

// Emitter defines the outbound side of the transport
type Emitter interface {
	// Emit sends the event only to the provided connection
	Emit(connectionID string, event string, payload interface{})

	// BroadcastExcept sends the event to every connection but the sender
	BroadcastExcept(senderID string, event string, payload interface{})

	IsInterfaceNil() bool
}
