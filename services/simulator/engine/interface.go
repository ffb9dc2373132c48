package engine

import (
	"context"
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
)

// Sender defines the connection used to push the simulator events to the relay
type Sender interface {
	Connect(ctx context.Context) error
	Register(registration common.Registration) error
	SendTelemetry(telemetry common.Telemetry) error
	Close() error
	IsInterfaceNil() bool
}

// FlightModel defines the source of the simulated telemetry packets
type FlightModel interface {
	Start(now time.Time)
	Next(now time.Time) common.Telemetry
	IsInterfaceNil() bool
}
