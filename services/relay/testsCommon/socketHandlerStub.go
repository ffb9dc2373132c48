package testsCommon

import "net/http"

// SocketHandlerStub -
type SocketHandlerStub struct {
	ServeHTTPHandler func(w http.ResponseWriter, r *http.Request)
}

// ServeHTTP -
func (stub *SocketHandlerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if stub.ServeHTTPHandler != nil {
		stub.ServeHTTPHandler(w, r)
		return
	}

	w.WriteHeader(http.StatusNotImplemented)
}

// IsInterfaceNil -
func (stub *SocketHandlerStub) IsInterfaceNil() bool {
	return stub == nil
}
