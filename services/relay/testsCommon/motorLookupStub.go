package testsCommon

import (
	"context"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// MotorLookupStub -
type MotorLookupStub struct {
	LookupHandler func(ctx context.Context, manufacturer string, designation string) (*common.MotorStats, error)
}

// Lookup -
func (stub *MotorLookupStub) Lookup(ctx context.Context, manufacturer string, designation string) (*common.MotorStats, error) {
	if stub.LookupHandler != nil {
		return stub.LookupHandler(ctx, manufacturer, designation)
	}

	return &common.MotorStats{}, nil
}

// IsInterfaceNil -
func (stub *MotorLookupStub) IsInterfaceNil() bool {
	return stub == nil
}
