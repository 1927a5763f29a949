// Package rediskv provides a storage.Backend on Redis: collection values live
// under plain keys and every commit is also published on a per-collection channel.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/storage"
)

// DefaultPrefix namespaces keys and channels.
const DefaultPrefix = "campuscast:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis implementation of storage.Backend.
type Store struct {
	client *redis.Client
	prefix string
	origin string
	log    zerolog.Logger
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, opts Options, log zerolog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{
		client: client,
		prefix: prefix,
		origin: uuid.NewString(),
		log:    log,
	}, nil
}

func (s *Store) key(c storage.Collection) string {
	return s.prefix + "state:" + string(c)
}

func (s *Store) channel(c storage.Collection) string {
	return s.prefix + "events:" + string(c)
}

// Origin returns the process origin stamped on every commit.
func (s *Store) Origin() string {
	return s.origin
}

// Load returns the current value of a collection.
func (s *Store) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound{Resource: "collection", ID: string(c)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c, err)
	}

	env, err := storage.DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Save stores the value and publishes it in one transaction.
func (s *Store) Save(ctx context.Context, c storage.Collection, data []byte) error {
	raw, err := storage.EncodeEnvelope(c, s.origin, data)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(c), raw, 0)
		pipe.Publish(ctx, s.channel(c), raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", c, err)
	}
	return nil
}

// Watch subscribes to the collection channel and forwards foreign commits.
func (s *Store) Watch(ctx context.Context, c storage.Collection) (<-chan []byte, error) {
	sub := s.client.Subscribe(ctx, s.channel(c))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", c, err)
	}

	ch := make(chan []byte, 1)
	go func() {
		defer close(ch)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				data, forward := s.foreign(c, msg.Payload)
				if !forward {
					continue
				}
				select {
				case ch <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// foreign unwraps a published payload and reports whether another process made it.
func (s *Store) foreign(c storage.Collection, payload string) ([]byte, bool) {
	env, err := storage.DecodeEnvelope([]byte(payload))
	if err != nil {
		s.log.Warn().Err(err).Str("collection", string(c)).Msg("skipping malformed message")
		return nil, false
	}
	if env.Origin == s.origin || env.Collection != c {
		return nil, false
	}
	return env.Data, true
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ storage.Backend = (*Store)(nil)
