// Package storage provides the shared-state persistence layer for the signage system.
//
// Every backend stores whole collections as opaque JSON values keyed by
// collection name. A Save replaces the entire value (last write wins) and
// other processes observe it through Watch.
package storage

import (
	"context"
	"errors"
)

// Collection names one independently persisted record list.
type Collection string

const (
	CollectionDevices Collection = "devices"
	CollectionContent Collection = "content"
	CollectionNotices Collection = "notices"
	CollectionUser    Collection = "user"
)

// Collections lists every persisted collection.
var Collections = []Collection{
	CollectionDevices,
	CollectionContent,
	CollectionNotices,
	CollectionUser,
}

// Backend is a durable key/value medium with a change-notification side channel.
type Backend interface {
	// Load returns the last committed value of the collection.
	// Returns ErrNotFound when nothing was ever saved.
	Load(ctx context.Context, c Collection) ([]byte, error)

	// Save replaces the collection value.
	Save(ctx context.Context, c Collection, data []byte) error

	// Watch delivers values committed by other processes. Commits made
	// through this backend are not echoed back, except that a backend which
	// only sees the latest value may deliver an own value that overwrote a
	// foreign commit. The channel is closed when ctx is canceled or the
	// backend is closed.
	Watch(ctx context.Context, c Collection) (<-chan []byte, error)

	// Origin identifies this process in commits.
	Origin() string

	// Close releases the underlying resources.
	Close() error
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = errors.New("storage backend closed")
