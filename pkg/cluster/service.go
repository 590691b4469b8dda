package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stratum/internal/logging"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/ports"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// ChangeFunc receives the diff produced by a successful mutation.
type ChangeFunc func(ctx context.Context, diff *domain.ClusterDiff)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Service orchestrates cluster edits, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Service struct {
	store    ports.ClusterStore
	policies naming.Policies

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
	onChange ChangeFunc
	now      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPolicies replaces the default name policies.
func WithPolicies(p naming.Policies) Option {
	return func(s *Service) {
		s.policies = p
	}
}

// WithChangeHandler registers fn to receive every diff.
func WithChangeHandler(fn ChangeFunc) Option {
	return func(s *Service) {
		s.onChange = fn
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a cluster service over the given store.
func NewService(store ports.ClusterStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		policies: naming.DefaultPolicies(),
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying cluster store.
func (s *Service) Store() ports.ClusterStore {
	return s.store
}

// Policies returns the name policies in effect.
func (s *Service) Policies() naming.Policies {
	return s.policies
}

// Create stores a new empty cluster after validating every level of its reference.
func (s *Service) Create(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	if err := s.validateRef(ref); err != nil {
		return nil, err
	}

	var created *domain.Cluster
	err := s.WithLock(ctx, ref, func(ctx context.Context) error {
		_, err := s.store.Load(ctx, ref)
		if err == nil {
			return domain.ErrClusterExists
		}
		if !errors.Is(err, domain.ErrClusterNotFound) {
			return fmt.Errorf("failed to check cluster existence: %w", err)
		}

		created = domain.NewCluster(ref, s.now())
		if err := s.store.Save(ctx, created); err != nil {
			return fmt.Errorf("failed to create cluster: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cluster created", "cluster", ref.Key())
	s.emit(ctx, domain.Diff(nil, created))
	return created.Snapshot(), nil
}

// Get loads a cluster.
func (s *Service) Get(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	var c *domain.Cluster
	err := s.WithLock(ctx, ref, func(ctx context.Context) error {
		var err error
		c, err = s.store.Load(ctx, ref)
		return err
	})
	return c, err
}

// Drop deletes a cluster and all of its records.
func (s *Service) Drop(ctx context.Context, ref domain.ClusterRef) error {
	var old *domain.Cluster
	err := s.WithLock(ctx, ref, func(ctx context.Context) error {
		var err error
		if old, err = s.store.Load(ctx, ref); err != nil {
			return err
		}
		return s.store.Delete(ctx, ref)
	})
	if err != nil {
		return err
	}

	s.logger.Info("cluster dropped", "cluster", ref.Key())
	s.emit(ctx, domain.Diff(old, nil))
	return nil
}

// RecordInput describes a new record. A nil Value starts from the type's example.
type RecordInput struct {
	Name  string     `json:"name"`
	Type  schema.Tag `json:"type"`
	Value *string    `json:"value,omitempty"`
}

// AddRecord appends a record to the cluster.
func (s *Service) AddRecord(ctx context.Context, ref domain.ClusterRef, in RecordInput) (domain.Record, error) {
	policy := s.policies.For(naming.KindRecord)
	if res := policy.Validate(in.Name); !res.OK() {
		return domain.Record{}, &schema.ValidationError{Key: "name", Reason: res.Reason(), Value: in.Name}
	}
	if !in.Type.Known() {
		return domain.Record{}, unknownType(in.Type)
	}

	value := schema.Example(in.Type)
	if in.Value != nil {
		value = *in.Value
	}
	if res := schema.ValidateValue(value, in.Type); !res.OK() {
		return domain.Record{}, &schema.ValidationError{Key: in.Name, Reason: res.Reason(), Value: value}
	}

	var rec domain.Record
	err := s.mutate(ctx, ref, func(c *domain.Cluster, now time.Time) error {
		if res := naming.Unique(policy, in.Name, c.Names("")); !res.OK() {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateName, res.Reason())
		}
		rec = domain.Record{
			ID:        uuid.NewString(),
			Name:      in.Name,
			Type:      in.Type,
			Value:     value,
			UpdatedAt: now,
		}
		c.Records = append(c.Records, rec)
		return nil
	})
	return rec, err
}

// RecordPatch carries the fields to change. Nil fields are left untouched.
// Changing the type without a value resets the value to the new type's example.
type RecordPatch struct {
	Name  *string     `json:"name,omitempty"`
	Type  *schema.Tag `json:"type,omitempty"`
	Value *string     `json:"value,omitempty"`
}

// UpdateRecord applies patch to the record with the given ID.
func (s *Service) UpdateRecord(ctx context.Context, ref domain.ClusterRef, id string, patch RecordPatch) (domain.Record, error) {
	policy := s.policies.For(naming.KindRecord)
	if patch.Name != nil {
		if res := policy.Validate(*patch.Name); !res.OK() {
			return domain.Record{}, &schema.ValidationError{Key: "name", Reason: res.Reason(), Value: *patch.Name}
		}
	}
	if patch.Type != nil && !patch.Type.Known() {
		return domain.Record{}, unknownType(*patch.Type)
	}

	var rec domain.Record
	err := s.mutate(ctx, ref, func(c *domain.Cluster, now time.Time) error {
		i := c.Find(id)
		if i < 0 {
			return domain.ErrRecordNotFound
		}
		next := c.Records[i]

		if patch.Name != nil && *patch.Name != next.Name {
			if res := naming.Unique(policy, *patch.Name, c.Names(id)); !res.OK() {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateName, res.Reason())
			}
			next.Name = *patch.Name
		}
		if patch.Type != nil && *patch.Type != next.Type {
			next.Type = *patch.Type
			if patch.Value == nil {
				next.Value = schema.Example(next.Type)
			}
		}
		if patch.Value != nil {
			next.Value = *patch.Value
		}

		if next == c.Records[i] {
			rec = next
			return errUnchanged
		}
		if res := schema.ValidateValue(next.Value, next.Type); !res.OK() {
			return &schema.ValidationError{Key: next.Name, Reason: res.Reason(), Value: next.Value}
		}

		next.UpdatedAt = now
		c.Records[i] = next
		rec = next
		return nil
	})
	return rec, err
}

// DeleteRecord removes the record with the given ID.
func (s *Service) DeleteRecord(ctx context.Context, ref domain.ClusterRef, id string) error {
	return s.mutate(ctx, ref, func(c *domain.Cluster, _ time.Time) error {
		i := c.Find(id)
		if i < 0 {
			return domain.ErrRecordNotFound
		}
		c.Records = append(c.Records[:i], c.Records[i+1:]...)
		return nil
	})
}

// Report is the outcome of checking every record of a cluster.
type Report struct {
	Cluster string                     `json:"cluster"`
	Records int                        `json:"records"`
	Valid   bool                       `json:"valid"`
	Errors  []*schema.ValidationError `json:"errors,omitempty"`
}

// Check re-validates every stored value against its declared type.
// Invalid records are reported, not returned as an error.
func (s *Service) Check(ctx context.Context, ref domain.ClusterRef) (*Report, error) {
	c, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	report := &Report{Cluster: ref.Key(), Records: len(c.Records), Valid: true}
	for _, e := range schema.ValidationErrors(schema.Validate(c.Schema(), c.Values())) {
		var ve *schema.ValidationError
		if errors.As(e, &ve) {
			report.Errors = append(report.Errors, ve)
		}
	}
	report.Valid = len(report.Errors) == 0
	return report, nil
}

// WithLock executes fn while holding the lock for the cluster.
func (s *Service) WithLock(ctx context.Context, ref domain.ClusterRef, fn func(context.Context) error) error {
	key := ref.Key()
	entry := s.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		s.release(key)
	}()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "cluster:"+key, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"cluster", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// errUnchanged short-circuits a mutation that would not alter the cluster.
var errUnchanged = errors.New("unchanged")

// mutate loads the cluster, applies fn to a copy and saves the result.
func (s *Service) mutate(ctx context.Context, ref domain.ClusterRef, fn func(*domain.Cluster, time.Time) error) error {
	var old, next *domain.Cluster
	err := s.WithLock(ctx, ref, func(ctx context.Context) error {
		var err error
		if old, err = s.store.Load(ctx, ref); err != nil {
			return err
		}

		now := s.now()
		next = old.Snapshot()
		if err := fn(next, now); err != nil {
			return err
		}
		next.UpdatedAt = now
		return s.store.Save(ctx, next)
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	s.emit(ctx, domain.Diff(old, next))
	return nil
}

func (s *Service) emit(ctx context.Context, diff *domain.ClusterDiff) {
	if diff == nil || s.onChange == nil {
		return
	}
	s.onChange(ctx, diff)
}

func (s *Service) validateRef(ref domain.ClusterRef) error {
	checks := []struct {
		kind  naming.Kind
		value string
	}{
		{naming.KindProject, ref.Project},
		{naming.KindCollection, ref.Collection},
		{naming.KindCluster, ref.Cluster},
	}
	for _, c := range checks {
		if res := s.policies.For(c.kind).Validate(c.value); !res.OK() {
			return &schema.ValidationError{Key: string(c.kind), Reason: res.Reason(), Value: c.value}
		}
	}
	return nil
}

func unknownType(tag schema.Tag) error {
	return &schema.ValidationError{Key: "type", Reason: "Unknown data type: " + tag.String(), Value: tag.String()}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (s *Service) acquire(key string) *lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.locks[key]
	if !exists {
		entry = &lockEntry{}
		s.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(s.locks, key)
	}
}
