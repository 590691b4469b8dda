package middleware

import "github.com/aretw0/stratum/pkg/ports"

// Middleware allows wrapping a ClusterStore to add behavior.
type Middleware func(ports.ClusterStore) ports.ClusterStore

// Chain applies mws to store; the first middleware is the outermost.
func Chain(store ports.ClusterStore, mws ...Middleware) ports.ClusterStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
