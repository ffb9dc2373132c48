package broker

import (
	"context"
	"sync"
)

type pendingLookup struct {
	token  uint64
	cancel context.CancelFunc
}

// pendingLookups tracks the in-flight motor lookup of every connection. A lookup result is only applied if its token
// is still the current one for the connection
type pendingLookups struct {
	mut       sync.Mutex
	nextToken uint64
	lookups   map[string]pendingLookup
}

func newPendingLookups() *pendingLookups {
	return &pendingLookups{
		lookups: make(map[string]pendingLookup),
	}
}

func (pl *pendingLookups) start(connectionID string, cancel context.CancelFunc) uint64 {
	pl.mut.Lock()
	defer pl.mut.Unlock()

	previous, found := pl.lookups[connectionID]
	if found {
		previous.cancel()
	}

	pl.nextToken++
	pl.lookups[connectionID] = pendingLookup{
		token:  pl.nextToken,
		cancel: cancel,
	}

	return pl.nextToken
}

// complete runs the handler if the token is still current. The handler runs under the lock so that a concurrent
// discard can not interleave with it
func (pl *pendingLookups) complete(connectionID string, token uint64, handler func()) bool {
	pl.mut.Lock()
	defer pl.mut.Unlock()

	current, found := pl.lookups[connectionID]
	if !found || current.token != token {
		return false
	}

	delete(pl.lookups, connectionID)
	handler()

	return true
}

func (pl *pendingLookups) discard(connectionID string) {
	pl.mut.Lock()
	defer pl.mut.Unlock()

	current, found := pl.lookups[connectionID]
	if !found {
		return
	}

	current.cancel()
	delete(pl.lookups, connectionID)
}

func (pl *pendingLookups) discardAll() {
	pl.mut.Lock()
	defer pl.mut.Unlock()

	for connectionID, current := range pl.lookups {
		current.cancel()
		delete(pl.lookups, connectionID)
	}
}

func (pl *pendingLookups) count() int {
	pl.mut.Lock()
	defer pl.mut.Unlock()

	return len(pl.lookups)
}
