package sender

import "errors"

// ErrEmptyRelayURL signals that an empty relay URL was provided
var ErrEmptyRelayURL = errors.New("empty relay URL")

// ErrInvalidDialTimeout signals that an invalid dial timeout was provided
var ErrInvalidDialTimeout = errors.New("invalid dial timeout")

// ErrNotConnected signals that the sender has no open connection to the relay
var ErrNotConnected = errors.New("not connected to the relay")
