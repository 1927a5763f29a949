package domain

import "time"

// Screen is everything a display presents at one moment.
type Screen struct {
	DeviceID string
	// Device is nil when no record matches DeviceID.
	Device *Device
	// Current is nil when the device is idle.
	Current        *ContentItem
	Urgent         []Notice
	Normal         []Notice
	SuppressNormal bool
	At             time.Time
}

// Configured reports whether the screen belongs to a known device.
func (s Screen) Configured() bool {
	return s.Device != nil
}

// Idle reports whether a configured device has nothing eligible to show.
func (s Screen) Idle() bool {
	return s.Device != nil && s.Current == nil
}

// ShowTicker reports whether the normal notice ticker is visible.
func (s Screen) ShowTicker() bool {
	return !s.SuppressNormal && len(s.Normal) > 0
}

// CurrentID returns the id of the content on screen, or "".
func (s Screen) CurrentID() string {
	if s.Current == nil {
		return ""
	}
	return s.Current.ID
}
