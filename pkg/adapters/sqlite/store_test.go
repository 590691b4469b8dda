package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stratum/pkg/adapters/sqlite"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "stratum.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunClusterStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratum.db")
	ctx := context.Background()
	ref := domain.ClusterRef{Project: "acme", Collection: "billing", Cluster: "limits"}

	store, err := sqlite.Open(path)
	require.NoError(t, err)

	c := domain.NewCluster(ref, time.Now().UTC())
	c.Records = append(c.Records,
		domain.Record{ID: "b", Name: "beta", Type: "STRING", Value: "2"},
		domain.Record{ID: "a", Name: "alpha", Type: "INTEGER", Value: "1"},
	)
	require.NoError(t, store.Save(ctx, c))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load(ctx, ref)
	require.NoError(t, err)
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, "beta", loaded.Records[0].Name, "records keep insertion order")
	assert.Equal(t, "alpha", loaded.Records[1].Name)
}
