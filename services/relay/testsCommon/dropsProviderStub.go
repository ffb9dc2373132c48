package testsCommon

// DropsProviderStub -
type DropsProviderStub struct {
	DroppedEventsHandler func() map[string]uint64
}

// DroppedEvents -
func (stub *DropsProviderStub) DroppedEvents() map[string]uint64 {
	if stub.DroppedEventsHandler != nil {
		return stub.DroppedEventsHandler()
	}

	return make(map[string]uint64)
}

// IsInterfaceNil -
func (stub *DropsProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
