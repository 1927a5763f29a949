// Package state is the typed shared-state store: device registry, content
// catalog, notice list and the authenticated-user marker, kept consistent
// across processes through a storage.Backend with last-write-wins per collection.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
	"github.com/jwulff/campuscast/internal/storage"
)

// Store reads and commits whole collections through a backend.
type Store struct {
	backend storage.Backend
	log     zerolog.Logger
	now     func() time.Time

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for seeds.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over backend.
func New(backend storage.Backend, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Snapshot is a consistent-enough view of the three engine inputs.
type Snapshot struct {
	Devices []domain.Device
	Content []domain.ContentItem
	Notices []domain.Notice
}

// Device returns the device with the given id from the snapshot, or nil.
func (s *Snapshot) Device(id string) *domain.Device {
	return domain.FindDevice(s.Devices, id)
}

// Devices returns the device registry.
func (s *Store) Devices(ctx context.Context) ([]domain.Device, error) {
	return load(ctx, s, storage.CollectionDevices, SeedDevices)
}

// Content returns the content catalog in rotation order.
func (s *Store) Content(ctx context.Context) ([]domain.ContentItem, error) {
	return load(ctx, s, storage.CollectionContent, SeedContent)
}

// Notices returns the notice list.
func (s *Store) Notices(ctx context.Context) ([]domain.Notice, error) {
	return load(ctx, s, storage.CollectionNotices, SeedNotices)
}

// Snapshot loads devices, content and notices.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Devices, err = s.Devices(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Content, err = s.Content(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Notices, err = s.Notices(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// UpdateDevices replaces the device registry with fn's result.
func (s *Store) UpdateDevices(ctx context.Context, fn func([]domain.Device) []domain.Device) ([]domain.Device, error) {
	return update(ctx, s, storage.CollectionDevices, SeedDevices, fn)
}

// UpdateDevice applies fn to one device record. Reports false when no record matches.
func (s *Store) UpdateDevice(ctx context.Context, id string, fn func(*domain.Device)) (bool, error) {
	found := false
	_, err := s.UpdateDevices(ctx, func(devices []domain.Device) []domain.Device {
		if d := domain.FindDevice(devices, id); d != nil {
			fn(d)
			found = true
		}
		return devices
	})
	return found, err
}

// UpdateContent replaces the content catalog with fn's result.
func (s *Store) UpdateContent(ctx context.Context, fn func([]domain.ContentItem) []domain.ContentItem) ([]domain.ContentItem, error) {
	return update(ctx, s, storage.CollectionContent, SeedContent, fn)
}

// UpdateNotices replaces the notice list with fn's result.
func (s *Store) UpdateNotices(ctx context.Context, fn func([]domain.Notice) []domain.Notice) ([]domain.Notice, error) {
	return update(ctx, s, storage.CollectionNotices, SeedNotices, fn)
}

// User returns the authenticated-user marker; nil when nobody is signed in
// or the marker is unreadable.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	data, err := s.backend.Load(ctx, storage.CollectionUser)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user *domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Msg("ignoring malformed user marker")
		return nil, nil
	}
	return user, nil
}

// SetUser commits the marker; nil signs out.
func (s *Store) SetUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, storage.CollectionUser, user)
}

func (s *Store) commit(ctx context.Context, c storage.Collection, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c, err)
	}
	return s.backend.Save(ctx, c, data)
}

// load reads a collection, falling back to seed when it is missing or malformed.
func load[T any](ctx context.Context, s *Store, c storage.Collection, seed func(time.Time) []T) ([]T, error) {
	data, err := s.backend.Load(ctx, c)
	if storage.IsNotFound(err) {
		metrics.IncSeedFallback(string(c), "missing")
		return seed(s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c, err)
	}

	items, err := decode[T](data)
	if err != nil {
		s.log.Warn().Err(err).Str("collection", string(c)).Msg("malformed collection, using default seed")
		metrics.IncSeedFallback(string(c), "malformed")
		return seed(s.now()), nil
	}
	return items, nil
}

// update runs one read-modify-write cycle. Concurrent commits from other
// processes between the read and the write are overwritten.
func update[T any](ctx context.Context, s *Store, c storage.Collection, seed func(time.Time) []T, fn func([]T) []T) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	current, err := load(ctx, s, c, seed)
	if err != nil {
		metrics.ObserveCommit(string(c), metrics.ResultError, time.Since(start))
		return nil, err
	}

	next := fn(current)
	if err := s.commit(ctx, c, next); err != nil {
		metrics.ObserveCommit(string(c), metrics.ResultError, time.Since(start))
		return nil, err
	}

	metrics.ObserveCommit(string(c), metrics.ResultSuccess, time.Since(start))
	return next, nil
}

func decode[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
