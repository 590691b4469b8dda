package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stratum/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "stratum:cluster:"

// noExpiry is the index score used when clusters never expire (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.ClusterStore using Redis.
// Clusters are stored as JSON strings and tracked in a sorted-set index
// scored by expiry time, so List can prune expired entries lazily.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for clusters.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for clusters.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to build a Locker on the same connection.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(ref domain.ClusterRef) string {
	return s.prefix + ref.Key()
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the cluster to Redis.
func (s *Store) Save(ctx context.Context, cluster *domain.Cluster) error {
	data, err := json.Marshal(cluster)
	if err != nil {
		return fmt.Errorf("failed to marshal cluster: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = noExpiry
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(cluster.Ref), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: cluster.Ref.Key(),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the cluster from Redis.
func (s *Store) Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	val, err := s.client.Get(ctx, s.key(ref)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrClusterNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var cluster domain.Cluster
	if err := json.Unmarshal([]byte(val), &cluster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cluster: %w", err)
	}
	if cluster.Records == nil {
		cluster.Records = []domain.Record{}
	}

	return &cluster, nil
}

// Delete removes the cluster and its index entry.
func (s *Store) Delete(ctx context.Context, ref domain.ClusterRef) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(ref))
	pipe.ZRem(ctx, s.indexKey(), ref.Key())

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the references of clusters that have not expired.
func (s *Store) List(ctx context.Context) ([]domain.ClusterRef, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired clusters: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	refs := make([]domain.ClusterRef, 0, len(members))
	for _, m := range members {
		ref, ok := domain.ParseClusterRef(m)
		if !ok {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
