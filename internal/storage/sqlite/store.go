// Package sqlite provides a SQLite implementation of the storage.Backend interface.
//
// Change notification is done by polling each watched collection's revision,
// which lets several processes on one machine share a single database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwulff/campuscast/internal/storage"

	_ "modernc.org/sqlite"
)

// DefaultPollInterval is how often watchers check for commits from other processes.
const DefaultPollInterval = time.Second

// Store is a SQLite implementation of storage.Backend.
type Store struct {
	db           *sql.DB
	origin       string
	pollInterval time.Duration

	// commitMu orders own commits against watcher reads of the head so
	// commits counts exactly the own revisions visible in the table.
	commitMu sync.Mutex
	commits  map[storage.Collection]int64

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithOrigin sets the process origin instead of a random one.
func WithOrigin(origin string) Option {
	return func(s *Store) {
		if origin != "" {
			s.origin = origin
		}
	}
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore(opts ...Option) (*Store, error) {
	return newStore(":memory:", true, opts...)
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string, opts ...Option) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return newStore(dsn, false, opts...)
}

func newStore(dsn string, memory bool, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:           db,
		origin:       uuid.NewString(),
		pollInterval: DefaultPollInterval,
		commits:      make(map[storage.Collection]int64),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Origin returns the process origin stamped on every commit.
func (s *Store) Origin() string {
	return s.origin
}

// Close stops all watchers and closes the database connection.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Load returns the current value of a collection.
func (s *Store) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM collections WHERE name = ?
	`, string(c)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "collection", ID: string(c)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c, err)
	}
	return []byte(data), nil
}

// Save replaces the value of a collection and bumps its revision.
func (s *Store) Save(ctx context.Context, c storage.Collection, data []byte) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, revision, origin, data, updated_at)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			revision = collections.revision + 1,
			origin = excluded.origin,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, string(c), s.origin, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", c, err)
	}
	s.commits[c]++
	return nil
}

// Revision returns the commit counter of a collection; zero if never saved.
func (s *Store) Revision(ctx context.Context, c storage.Collection) (int64, error) {
	rev, _, _, err := s.head(ctx, c)
	return rev, err
}

func (s *Store) head(ctx context.Context, c storage.Collection) (revision int64, origin string, data []byte, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `
		SELECT revision, origin, data FROM collections WHERE name = ?
	`, string(c)).Scan(&revision, &origin, &raw)
	if err == sql.ErrNoRows {
		return 0, "", nil, nil
	}
	if err != nil {
		return 0, "", nil, err
	}
	return revision, origin, []byte(raw), nil
}

// Watch polls the collection and delivers commits made by other processes.
func (s *Store) Watch(ctx context.Context, c storage.Collection) (<-chan []byte, error) {
	select {
	case <-s.done:
		return nil, storage.ErrClosed
	default:
	}

	last, _, _, own, err := s.observe(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", c, err)
	}

	ch := make(chan []byte, 1)
	s.wg.Add(1)
	go s.poll(ctx, c, last, own, ch)

	return ch, nil
}

// observe reads the head together with the number of own commits to c.
func (s *Store) observe(ctx context.Context, c storage.Collection) (revision int64, origin string, data []byte, own int64, err error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	revision, origin, data, err = s.head(ctx, c)
	return revision, origin, data, s.commits[c], err
}

// poll delivers the head whenever it was written by another process, or
// when more revisions appeared than this store committed. In the second case
// a foreign commit was overwritten by an own one between two polls, and the
// head is delivered even though it carries our origin.
func (s *Store) poll(ctx context.Context, c storage.Collection, last, own int64, ch chan<- []byte) {
	defer s.wg.Done()
	defer close(ch)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
		}

		rev, origin, data, commits, err := s.observe(ctx, c)
		if err != nil || rev == last {
			continue
		}
		masked := rev-last > commits-own
		last, own = rev, commits
		if origin == s.origin && !masked {
			continue
		}

		select {
		case ch <- data:
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

// Verify interface compliance
var _ storage.Backend = (*Store)(nil)
