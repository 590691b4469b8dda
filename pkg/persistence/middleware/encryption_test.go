package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stratum/pkg/adapters/memory"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/persistence/middleware"
	"github.com/aretw0/stratum/pkg/ports"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.ClusterStore, active []byte, fallback ...[]byte) ports.ClusterStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

var ref = domain.ClusterRef{Project: "acme", Collection: "billing", Cluster: "secrets"}

func sample() *domain.Cluster {
	c := domain.NewCluster(ref, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	c.Records = []domain.Record{{ID: "r1", Name: "api_token", Type: schema.String, Value: "my-secret-sauce"}}
	return c
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunClusterStoreContract(t, encrypted(t, memory.NewStore(), generateKey(t)))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, generateKey(t))
	ctx := context.Background()

	original := sample()
	require.NoError(t, secure.Save(ctx, original))
	assert.Equal(t, "my-secret-sauce", original.Records[0].Value, "Save must not mutate its argument")

	stored, err := underlying.Load(ctx, ref)
	require.NoError(t, err)
	assert.NotContains(t, stored.Records[0].Value, "my-secret-sauce")
	assert.True(t, strings.HasPrefix(stored.Records[0].Value, "enc:v1:"))
	assert.Equal(t, "api_token", stored.Records[0].Name, "names stay readable")

	loaded, err := secure.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded.Records[0].Value)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	require.NoError(t, encrypted(t, underlying, oldKey).Save(ctx, sample()))

	loaded, err := encrypted(t, underlying, newKey, oldKey).Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded.Records[0].Value)

	_, err = encrypted(t, underlying, newKey).Load(ctx, ref)
	assert.Error(t, err, "without the old key the value cannot be read")
}

func TestEncryptionMiddleware_FailSecure(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, sample()))

	_, err := encrypted(t, underlying, generateKey(t)).Load(ctx, ref)
	assert.ErrorContains(t, err, "missing encrypted data envelope")

	_, err = encrypted(t, underlying, generateKey(t)).Load(ctx, domain.ClusterRef{Project: "a", Collection: "b", Cluster: "c"})
	assert.ErrorIs(t, err, domain.ErrClusterNotFound)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrKeySize)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}
