package player

import (
	"time"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/notice"
	"github.com/jwulff/campuscast/internal/state"
	"github.com/jwulff/campuscast/internal/targeting"
)

// Preview computes the screen a device would present for snap without
// running a rotation. The current item is the recorded nowShowingId when it
// is still eligible, otherwise the first eligible item.
func Preview(snap state.Snapshot, deviceID string, now time.Time) domain.Screen {
	device := snap.Device(deviceID)
	if device == nil {
		return domain.Screen{DeviceID: deviceID, At: now}
	}

	eligible := targeting.Resolve(*device, snap.Content)
	var current *domain.ContentItem
	for i := range eligible {
		if eligible[i].ID == device.NowShowingID {
			current = &eligible[i]
			break
		}
	}
	if current == nil && len(eligible) > 0 {
		current = &eligible[0]
	}

	sel := notice.Select(*device, snap.Notices)
	d := *device
	return domain.Screen{
		DeviceID:       deviceID,
		Device:         &d,
		Current:        current,
		Urgent:         sel.Urgent,
		Normal:         sel.Normal,
		SuppressNormal: sel.SuppressNormal,
		At:             now,
	}
}
