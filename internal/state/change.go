package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
	"github.com/jwulff/campuscast/internal/storage"
)

// Change is a collection value committed by another process.
// Only the field matching Collection is populated.
type Change struct {
	Collection storage.Collection
	Devices    []domain.Device
	Content    []domain.ContentItem
	Notices    []domain.Notice
	User       *domain.User
}

// Apply replaces the changed collection in snap.
func (c Change) Apply(snap *Snapshot) {
	switch c.Collection {
	case storage.CollectionDevices:
		snap.Devices = c.Devices
	case storage.CollectionContent:
		snap.Content = c.Content
	case storage.CollectionNotices:
		snap.Notices = c.Notices
	}
}

func decodeChange(c storage.Collection, data []byte) (Change, error) {
	change := Change{Collection: c}
	var err error

	switch c {
	case storage.CollectionDevices:
		err = json.Unmarshal(data, &change.Devices)
	case storage.CollectionContent:
		err = json.Unmarshal(data, &change.Content)
	case storage.CollectionNotices:
		err = json.Unmarshal(data, &change.Notices)
	case storage.CollectionUser:
		err = json.Unmarshal(data, &change.User)
	default:
		err = fmt.Errorf("unknown collection %q", c)
	}
	return change, err
}

// Subscribe delivers changes committed by other processes to handler until
// ctx is cancelled. Handler calls are serialised. Malformed notifications
// are logged and dropped.
func (s *Store) Subscribe(ctx context.Context, handler func(Change)) error {
	type update struct {
		collection storage.Collection
		data       []byte
	}

	updates := make(chan update)
	for _, c := range storage.Collections {
		ch, err := s.backend.Watch(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", c, err)
		}
		go func(c storage.Collection, ch <-chan []byte) {
			for data := range ch {
				select {
				case updates <- update{collection: c, data: data}:
				case <-ctx.Done():
					return
				}
			}
		}(c, ch)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-updates:
				change, err := decodeChange(u.collection, u.data)
				if err != nil {
					s.log.Warn().Err(err).Str("collection", string(u.collection)).Msg("dropping malformed change notification")
					metrics.IncNotification(string(u.collection), metrics.ResultError)
					continue
				}
				metrics.IncNotification(string(u.collection), metrics.ResultSuccess)
				handler(change)
			}
		}
	}()
	return nil
}
