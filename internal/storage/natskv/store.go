// Package natskv provides a storage.Backend on a NATS JetStream key/value bucket.
package natskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/storage"
)

// DefaultBucket is the KV bucket holding the shared collections.
const DefaultBucket = "signage"

// Store is a JetStream KV implementation of storage.Backend.
type Store struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	origin string
	log    zerolog.Logger
}

// NewStore connects to NATS and creates (or opens) the bucket.
func NewStore(ctx context.Context, natsURL, bucket string, log zerolog.Logger) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	nc, err := nats.Connect(natsURL, nats.Name("campuscast"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "shared signage state",
		History:     1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	return newStoreWithKV(nc, kv, uuid.NewString(), log), nil
}

func newStoreWithKV(nc *nats.Conn, kv jetstream.KeyValue, origin string, log zerolog.Logger) *Store {
	return &Store{nc: nc, kv: kv, origin: origin, log: log}
}

// Origin returns the process origin stamped on every commit.
func (s *Store) Origin() string {
	return s.origin
}

// Load returns the current value of a collection.
func (s *Store) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	entry, err := s.kv.Get(ctx, string(c))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, storage.ErrNotFound{Resource: "collection", ID: string(c)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", c, err)
	}

	env, err := storage.DecodeEnvelope(entry.Value())
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Save replaces the value of a collection.
func (s *Store) Save(ctx context.Context, c storage.Collection, data []byte) error {
	raw, err := storage.EncodeEnvelope(c, s.origin, data)
	if err != nil {
		return err
	}
	if _, err := s.kv.Put(ctx, string(c), raw); err != nil {
		return fmt.Errorf("failed to put key %s: %w", c, err)
	}
	return nil
}

// Watch delivers commits made by other processes.
func (s *Store) Watch(ctx context.Context, c storage.Collection) (<-chan []byte, error) {
	watcher, err := s.kv.Watch(ctx, string(c), jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to watch key %s: %w", c, err)
	}

	ch := make(chan []byte, 1)
	go s.handleWatchUpdates(ctx, c, watcher, ch)

	return ch, nil
}

// handleWatchUpdates forwards foreign puts until ctx is canceled or the watcher closes.
func (s *Store) handleWatchUpdates(ctx context.Context, c storage.Collection, watcher jetstream.KeyWatcher, ch chan<- []byte) {
	defer func() {
		if err := watcher.Stop(); err != nil {
			s.log.Debug().Err(err).Str("collection", string(c)).Msg("failed to stop watcher")
		}
		close(ch)
	}()

	for {
		var entry jetstream.KeyValueEntry
		select {
		case <-ctx.Done():
			return
		case update, ok := <-watcher.Updates():
			if !ok {
				return
			}
			entry = update
		}

		if entry == nil || entry.Operation() != jetstream.KeyValuePut {
			continue
		}

		env, err := storage.DecodeEnvelope(entry.Value())
		if err != nil {
			s.log.Warn().Err(err).Str("collection", string(c)).Msg("skipping malformed update")
			continue
		}
		if env.Origin == s.origin {
			continue
		}

		select {
		case ch <- env.Data:
		case <-ctx.Done():
			return
		}
	}
}

// Close drains the NATS connection.
func (s *Store) Close() error {
	if s.nc != nil {
		s.nc.Close()
	}
	return nil
}

var _ storage.Backend = (*Store)(nil)
