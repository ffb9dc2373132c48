package registry

import (
	"sync"

	"github.com/iulianpascalau/telemetry-relay/services/relay/common"
)

// connectionRegistry keeps the declared identity of every live connection
type connectionRegistry struct {
	mut        sync.RWMutex
	identities map[string]common.Identity
}

// NewConnectionRegistry creates an empty registry
func NewConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{
		identities: make(map[string]common.Identity),
	}
}

// Put inserts or overwrites the identity of a connection
func (r *connectionRegistry) Put(connectionID string, identity common.Identity) {
	identity = identity.Clone()
	identity.ID = connectionID

	r.mut.Lock()
	r.identities[connectionID] = identity
	r.mut.Unlock()
}

// Get returns a copy of the connection's identity, if any
func (r *connectionRegistry) Get(connectionID string) (common.Identity, bool) {
	r.mut.RLock()
	identity, found := r.identities[connectionID]
	r.mut.RUnlock()

	if !found {
		return common.Identity{}, false
	}

	return identity.Clone(), true
}

// Remove deletes the connection's identity. No-op if the connection is unknown
func (r *connectionRegistry) Remove(connectionID string) {
	r.mut.Lock()
	delete(r.identities, connectionID)
	r.mut.Unlock()
}

// Snapshot returns copies of all the known identities, in no particular order
func (r *connectionRegistry) Snapshot() []common.Identity {
	r.mut.RLock()
	defer r.mut.RUnlock()

	result := make([]common.Identity, 0, len(r.identities))
	for _, identity := range r.identities {
		result = append(result, identity.Clone())
	}

	return result
}

// Len returns the number of known connections
func (r *connectionRegistry) Len() int {
	r.mut.RLock()
	defer r.mut.RUnlock()

	return len(r.identities)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *connectionRegistry) IsInterfaceNil() bool {
	return r == nil
}
