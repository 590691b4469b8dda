package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunClusterStoreContract runs a suite of tests to verify that a ClusterStore implementation
// adheres to the defined interface contract.
func RunClusterStoreContract(t *testing.T, store ClusterStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405")
	ref := domain.ClusterRef{Project: "contract", Collection: "suite", Cluster: "c-" + suffix}
	now := time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		cluster := domain.NewCluster(ref, now)
		cluster.Records = []domain.Record{
			{ID: "r1", Name: "age", Type: schema.Integer, Value: "42", UpdatedAt: now},
			{ID: "r2", Name: "tags", Type: schema.StringArray, Value: `["a","b"]`, UpdatedAt: now},
			{ID: "r3", Name: "deleted", Type: schema.Null, Value: "null", UpdatedAt: now},
		}

		err := store.Save(ctx, cluster)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, ref)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, ref, loaded.Ref)
		require.Len(t, loaded.Records, 3)
		// Record order is part of the contract: it is the grid order.
		assert.Equal(t, "age", loaded.Records[0].Name)
		assert.Equal(t, schema.StringArray, loaded.Records[1].Type)
		assert.Equal(t, `["a","b"]`, loaded.Records[1].Value)
		assert.Equal(t, "null", loaded.Records[2].Value)
		assert.True(t, now.Equal(loaded.CreatedAt), "CreatedAt = %v", loaded.CreatedAt)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		cluster := domain.NewCluster(ref, now)
		cluster.Records = []domain.Record{{ID: "r9", Name: "only", Type: schema.Boolean, Value: "true", UpdatedAt: now}}
		require.NoError(t, store.Save(ctx, cluster))

		loaded, err := store.Load(ctx, ref)
		require.NoError(t, err)
		require.Len(t, loaded.Records, 1)
		assert.Equal(t, "only", loaded.Records[0].Name)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, ref)
		require.NoError(t, err)
		loaded.Records[0].Value = "mutated"

		again, err := store.Load(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "true", again.Records[0].Value)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		missing := ref
		missing.Cluster = "missing-" + suffix
		_, err := store.Load(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrClusterNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := ref
		other.Collection = "other"
		require.NoError(t, store.Save(ctx, domain.NewCluster(other, now)))
		defer func() {
			_ = store.Delete(ctx, other)
		}()

		refs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, refs, ref)
		assert.Contains(t, refs, other)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, ref)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, ref)
		assert.ErrorIs(t, err, domain.ErrClusterNotFound, "Load after Delete should return ErrClusterNotFound")

		refs, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, refs, ref)

		assert.NoError(t, store.Delete(ctx, ref), "deleting twice is not an error")
	})
}
