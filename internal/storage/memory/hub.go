// Package memory provides an in-process storage.Backend.
//
// A Hub holds the collections; every Backend opened from it behaves like a
// separate process: it sees commits made through other handles but not its own.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwulff/campuscast/internal/storage"
)

// Hub is the shared medium behind a set of Backends.
type Hub struct {
	mu       sync.Mutex
	values   map[storage.Collection][]byte
	watchers map[*watcher]struct{}
}

type watcher struct {
	collection storage.Collection
	origin     string
	ch         chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		values:   make(map[storage.Collection][]byte),
		watchers: make(map[*watcher]struct{}),
	}
}

// Open returns a new process handle on the hub.
func (h *Hub) Open() *Backend {
	return &Backend{hub: h, origin: uuid.NewString(), done: make(chan struct{})}
}

func (h *Hub) commit(c storage.Collection, origin string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.values[c] = append([]byte(nil), data...)
	for w := range h.watchers {
		if w.collection != c || w.origin == origin {
			continue
		}
		// Keep only the newest value for slow watchers.
		select {
		case <-w.ch:
		default:
		}
		w.ch <- append([]byte(nil), data...)
	}
}

// Backend is one process handle on a Hub.
type Backend struct {
	hub       *Hub
	origin    string
	closeOnce sync.Once
	done      chan struct{}
}

// Origin returns the handle's process origin.
func (b *Backend) Origin() string {
	return b.origin
}

// Load returns the current value of a collection.
func (b *Backend) Load(_ context.Context, c storage.Collection) ([]byte, error) {
	b.hub.mu.Lock()
	defer b.hub.mu.Unlock()

	data, ok := b.hub.values[c]
	if !ok {
		return nil, storage.ErrNotFound{Resource: "collection", ID: string(c)}
	}
	return append([]byte(nil), data...), nil
}

// Save replaces the value of a collection and notifies other handles.
func (b *Backend) Save(_ context.Context, c storage.Collection, data []byte) error {
	select {
	case <-b.done:
		return storage.ErrClosed
	default:
	}
	b.hub.commit(c, b.origin, data)
	return nil
}

// Watch delivers values committed through other handles.
func (b *Backend) Watch(ctx context.Context, c storage.Collection) (<-chan []byte, error) {
	select {
	case <-b.done:
		return nil, storage.ErrClosed
	default:
	}

	w := &watcher{collection: c, origin: b.origin, ch: make(chan []byte, 1)}
	b.hub.mu.Lock()
	b.hub.watchers[w] = struct{}{}
	b.hub.mu.Unlock()

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer func() {
			b.hub.mu.Lock()
			delete(b.hub.watchers, w)
			b.hub.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case data := <-w.ch:
				select {
				case out <- data:
				case <-ctx.Done():
					return
				case <-b.done:
					return
				}
			}
		}
	}()

	return out, nil
}

// Close stops this handle's watchers.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

var _ storage.Backend = (*Backend)(nil)
