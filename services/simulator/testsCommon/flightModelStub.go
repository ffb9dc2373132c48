package testsCommon

import (
	"time"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
)

// FlightModelStub -
type FlightModelStub struct {
	StartHandler func(now time.Time)
	NextHandler  func(now time.Time) common.Telemetry
}

// Start -
func (stub *FlightModelStub) Start(now time.Time) {
	if stub.StartHandler != nil {
		stub.StartHandler(now)
	}
}

// Next -
func (stub *FlightModelStub) Next(now time.Time) common.Telemetry {
	if stub.NextHandler != nil {
		return stub.NextHandler(now)
	}

	return common.Telemetry{}
}

// IsInterfaceNil -
func (stub *FlightModelStub) IsInterfaceNil() bool {
	return stub == nil
}
