package testsCommon

import (
	"context"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// StorageStub -
type StorageStub struct {
	AppendHandler  func(ctx context.Context, teamID int64, sample common.TelemetrySample) (common.TelemetrySample, error)
	HistoryHandler func(ctx context.Context, teamID int64) ([]common.TelemetrySample, error)
	CloseHandler   func() error
}

// Append -
func (stub *StorageStub) Append(ctx context.Context, teamID int64, sample common.TelemetrySample) (common.TelemetrySample, error) {
	if stub.AppendHandler != nil {
		return stub.AppendHandler(ctx, teamID, sample)
	}

	return sample, nil
}

// History -
func (stub *StorageStub) History(ctx context.Context, teamID int64) ([]common.TelemetrySample, error) {
	if stub.HistoryHandler != nil {
		return stub.HistoryHandler(ctx, teamID)
	}

	return make([]common.TelemetrySample, 0), nil
}

// Close -
func (stub *StorageStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StorageStub) IsInterfaceNil() bool {
	return stub == nil
}
