package memory

import (
	"context"
	"sync"

	"github.com/aretw0/stratum/pkg/domain"
)

// Store implements ports.ClusterStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[domain.ClusterRef]*domain.Cluster
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[domain.ClusterRef]*domain.Cluster),
	}
}

// Save persists a copy of the cluster in memory.
func (s *Store) Save(ctx context.Context, cluster *domain.Cluster) error {
	copied := cluster.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[cluster.Ref] = copied
	return nil
}

// Load retrieves a copy of the cluster so callers can't mutate the stored one.
func (s *Store) Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cluster, ok := s.data[ref]
	if !ok {
		return nil, domain.ErrClusterNotFound
	}
	return cluster.Snapshot(), nil
}

// Delete removes the cluster.
func (s *Store) Delete(ctx context.Context, ref domain.ClusterRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ref)
	return nil
}

// List returns the stored cluster references.
func (s *Store) List(ctx context.Context) ([]domain.ClusterRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]domain.ClusterRef, 0, len(s.data))
	for ref := range s.data {
		refs = append(refs, ref)
	}
	return refs, nil
}
