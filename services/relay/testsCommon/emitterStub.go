package testsCommon

// EmitterStub -
type EmitterStub struct {
	EmitHandler            func(connectionID string, event string, payload interface{})
	BroadcastExceptHandler func(senderID string, event string, payload interface{})
}

// Emit -
func (stub *EmitterStub) Emit(connectionID string, event string, payload interface{}) {
	if stub.EmitHandler != nil {
		stub.EmitHandler(connectionID, event, payload)
	}
}

// BroadcastExcept -
func (stub *EmitterStub) BroadcastExcept(senderID string, event string, payload interface{}) {
	if stub.BroadcastExceptHandler != nil {
		stub.BroadcastExceptHandler(senderID, event, payload)
	}
}

// IsInterfaceNil -
func (stub *EmitterStub) IsInterfaceNil() bool {
	return stub == nil
}
