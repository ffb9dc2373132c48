package transport

import "errors"

// ErrInvalidSendQueueSize signals that an invalid send queue size was provided
var ErrInvalidSendQueueSize = errors.New("invalid send queue size")

// ErrInvalidWriteTimeout signals that an invalid write timeout was provided
var ErrInvalidWriteTimeout = errors.New("invalid write timeout")

// ErrNilEventHandler signals that a nil event handler was provided
var ErrNilEventHandler = errors.New("nil event handler")

// ErrInvalidMaxMessageSize signals that an invalid inbound message size limit was provided
var ErrInvalidMaxMessageSize = errors.New("invalid max message size")
