package testsCommon

import (
	"context"

	"github.com/iulianpascalau/telemetry-relay/services/simulator/common"
)

// SenderStub -
type SenderStub struct {
	ConnectHandler       func(ctx context.Context) error
	RegisterHandler      func(registration common.Registration) error
	SendTelemetryHandler func(telemetry common.Telemetry) error
	CloseHandler         func() error
}

// Connect -
func (stub *SenderStub) Connect(ctx context.Context) error {
	if stub.ConnectHandler != nil {
		return stub.ConnectHandler(ctx)
	}

	return nil
}

// Register -
func (stub *SenderStub) Register(registration common.Registration) error {
	if stub.RegisterHandler != nil {
		return stub.RegisterHandler(registration)
	}

	return nil
}

// SendTelemetry -
func (stub *SenderStub) SendTelemetry(telemetry common.Telemetry) error {
	if stub.SendTelemetryHandler != nil {
		return stub.SendTelemetryHandler(telemetry)
	}

	return nil
}

// Close -
func (stub *SenderStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *SenderStub) IsInterfaceNil() bool {
	return stub == nil
}
