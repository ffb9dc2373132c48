package motor

import (
	"errors"
	"net/http"
)

// ErrLookupFailure is wrapped by every error returned by the catalog client
var ErrLookupFailure = errors.New("motor lookup failure")

// ErrNoMatches signals that the catalog returned an empty result list
var ErrNoMatches = errors.New("no matching motor found")

// ErrEmptyBaseURL signals that the catalog client was created without a base URL
var ErrEmptyBaseURL = errors.New("empty motor catalog base URL")

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "non-2xx HTTP status code: " + http.StatusText(int(e))
}
