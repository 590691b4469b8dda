package ports

import (
	"context"

	"github.com/aretw0/stratum/pkg/domain"
)

// ClusterStore defines the interface for persisting clusters.
type ClusterStore interface {
	// Save persists the cluster under its reference, replacing any previous version.
	Save(ctx context.Context, cluster *domain.Cluster) error

	// Load retrieves a cluster.
	// Returns domain.ErrClusterNotFound if the cluster does not exist.
	Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error)

	// Delete removes a cluster. Deleting a missing cluster is not an error.
	Delete(ctx context.Context, ref domain.ClusterRef) error

	// List returns the references of every stored cluster, in no particular order.
	List(ctx context.Context) ([]domain.ClusterRef, error)
}
