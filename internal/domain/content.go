package domain

import (
	"slices"
	"time"
)

// DefaultDuration is how long an item stays on screen when it carries no valid duration.
const DefaultDuration = 10 * time.Second

// ContentKind is the media type of a content item.
type ContentKind string

const (
	KindText     ContentKind = "TEXT"
	KindImage    ContentKind = "IMAGE"
	KindVideo    ContentKind = "VIDEO"
	KindBirthday ContentKind = "BIRTHDAY"
	KindURL      ContentKind = "URL"
)

// Kinds lists every known content kind.
var Kinds = []ContentKind{KindText, KindImage, KindVideo, KindBirthday, KindURL}

// Valid reports whether k is one of the known kinds.
func (k ContentKind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// IsMedia reports whether the payload is a media URL rather than text.
func (k ContentKind) IsMedia() bool {
	return k == KindImage || k == KindVideo || k == KindURL
}

// Priority of a content item.
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// ContentItem is one entry of the content catalog.
type ContentItem struct {
	ID              string        `json:"id"`
	Kind            ContentKind   `json:"kind"`
	Title           string        `json:"title"`
	Payload         string        `json:"payload"`
	Priority        Priority      `json:"priority"`
	DurationSeconds int           `json:"durationSeconds"`
	TargetDeviceIDs []string      `json:"targetDeviceIds"`
	TargetGroups    []DeviceGroup `json:"targetGroups"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Duration returns the on-screen time, substituting DefaultDuration for non-positive values.
func (c ContentItem) Duration() time.Duration {
	if c.DurationSeconds <= 0 {
		return DefaultDuration
	}
	return time.Duration(c.DurationSeconds) * time.Second
}

// IsUrgent reports whether the item has urgent priority.
func (c ContentItem) IsUrgent() bool {
	return c.Priority == PriorityUrgent
}

// TargetsDevice reports whether the item names the device id explicitly.
func (c ContentItem) TargetsDevice(id string) bool {
	return slices.Contains(c.TargetDeviceIDs, id)
}

// TargetsGroup reports whether the item names the group explicitly.
func (c ContentItem) TargetsGroup(g DeviceGroup) bool {
	return slices.Contains(c.TargetGroups, g)
}

// FindContent returns the item with the given id, or nil.
func FindContent(catalog []ContentItem, id string) *ContentItem {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}
