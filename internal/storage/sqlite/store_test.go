package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jwulff/campuscast/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewMemoryStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
	assert.NotEmpty(t, store.Origin())
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir + "/test.db")
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestLoadNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), storage.CollectionDevices)
	assert.True(t, storage.IsNotFound(err))
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, storage.CollectionNotices, []byte(`[{"id":"n-1"}]`))
	require.NoError(t, err)

	data, err := store.Load(ctx, storage.CollectionNotices)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"n-1"}]`, string(data))
}

func TestSaveReplacesWholeValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storage.CollectionContent, []byte(`[{"id":"a"},{"id":"b"}]`)))
	require.NoError(t, store.Save(ctx, storage.CollectionContent, []byte(`[{"id":"c"}]`)))

	data, err := store.Load(ctx, storage.CollectionContent)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c"}]`, string(data))
}

func TestRevisionIncrements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rev, err := store.Revision(ctx, storage.CollectionDevices)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rev)

	_ = store.Save(ctx, storage.CollectionDevices, []byte(`[]`))
	_ = store.Save(ctx, storage.CollectionDevices, []byte(`[]`))

	rev, err = store.Revision(ctx, storage.CollectionDevices)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

func TestCollectionsAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, storage.CollectionDevices, []byte(`["d"]`))
	_ = store.Save(ctx, storage.CollectionNotices, []byte(`["n"]`))

	devices, err := store.Load(ctx, storage.CollectionDevices)
	require.NoError(t, err)
	assert.JSONEq(t, `["d"]`, string(devices))

	_, err = store.Load(ctx, storage.CollectionContent)
	assert.True(t, storage.IsNotFound(err))
}

func TestWatchSeesOtherProcessCommits(t *testing.T) {
	path := t.TempDir() + "/shared.db"

	console, err := NewFileStore(path, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = console.Close() })

	display, err := NewFileStore(path, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = display.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, err := display.Watch(ctx, storage.CollectionNotices)
	require.NoError(t, err)

	require.NoError(t, console.Save(ctx, storage.CollectionNotices, []byte(`[{"id":"n-9"}]`)))

	select {
	case data := <-updates:
		assert.JSONEq(t, `[{"id":"n-9"}]`, string(data))
	case <-ctx.Done():
		t.Fatal("timed out waiting for update")
	}
}

func TestWatchSkipsOwnCommits(t *testing.T) {
	store, err := NewMemoryStore(WithPollInterval(5 * time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := store.Watch(ctx, storage.CollectionDevices)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, storage.CollectionDevices, []byte(`[]`)))

	select {
	case data := <-updates:
		t.Fatalf("unexpected echo of own commit: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchDeliversForeignCommitOverwrittenByOwn(t *testing.T) {
	path := t.TempDir() + "/shared.db"

	console, err := NewFileStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = console.Close() })

	display, err := NewFileStore(path, WithPollInterval(300*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = display.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, err := display.Watch(ctx, storage.CollectionDevices)
	require.NoError(t, err)

	// The console regroups the device and the display rewrites the
	// collection before its next poll.
	require.NoError(t, console.Save(ctx, storage.CollectionDevices, []byte(`[{"id":"d1","group":"CLASSROOM"}]`)))
	own := `[{"id":"d1","group":"CLASSROOM","nowShowingId":"c-1"}]`
	require.NoError(t, display.Save(ctx, storage.CollectionDevices, []byte(own)))

	select {
	case data := <-updates:
		assert.JSONEq(t, own, string(data))
	case <-ctx.Done():
		t.Fatal("commit by another process was never notified")
	}
}

func TestWatchSkipsConsecutiveOwnCommits(t *testing.T) {
	store, err := NewFileStore(t.TempDir()+"/own.db", WithPollInterval(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Save(ctx, storage.CollectionDevices, []byte(`[]`)))
	updates, err := store.Watch(ctx, storage.CollectionDevices)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, storage.CollectionDevices, []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Save(ctx, storage.CollectionDevices, []byte(`[{"id":"b"}]`)))

	select {
	case data := <-updates:
		t.Fatalf("unexpected echo of own commits: %s", data)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := store.Watch(ctx, storage.CollectionUser)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("watch channel not closed")
	}
}

func TestWatchAfterClose(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Watch(context.Background(), storage.CollectionUser)
	assert.ErrorIs(t, err, storage.ErrClosed)
}
