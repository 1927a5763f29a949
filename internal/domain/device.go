// Package domain holds the shared records of the signage system: devices,
// content, notices and the screens and frames derived from them.
package domain

import (
	"slices"
	"time"
)

// DeviceGroup classifies a display and governs which content it may show.
type DeviceGroup string

const (
	GroupClassroom  DeviceGroup = "CLASSROOM"
	GroupCommonArea DeviceGroup = "COMMON_AREA"
	GroupOffice     DeviceGroup = "OFFICE"
)

// Groups lists every known device group.
var Groups = []DeviceGroup{GroupClassroom, GroupCommonArea, GroupOffice}

// Valid reports whether g is one of the known groups.
func (g DeviceGroup) Valid() bool {
	return slices.Contains(Groups, g)
}

// Device is a display terminal with a stable identity.
type Device struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Location      string      `json:"location"`
	Group         DeviceGroup `json:"group"`
	Reachable     bool        `json:"reachable"`
	LastContactAt time.Time   `json:"lastContactAt"`
	// NowShowingID is the content the device last reported displaying; empty when idle.
	NowShowingID string `json:"nowShowingId,omitempty"`
}

// NewDevice creates a device record that has not been contacted yet.
func NewDevice(id, name, location string, group DeviceGroup) *Device {
	return &Device{
		ID:       id,
		Name:     name,
		Location: location,
		Group:    group,
	}
}

// IsClassroom reports whether the device is in the classroom group.
func (d Device) IsClassroom() bool {
	return d.Group == GroupClassroom
}

// FindDevice returns the device with the given id, or nil.
func FindDevice(devices []Device, id string) *Device {
	for i := range devices {
		if devices[i].ID == id {
			return &devices[i]
		}
	}
	return nil
}

// User is the authenticated-user marker shared between console processes.
type User struct {
	Authenticated bool   `json:"isAuthenticated"`
	Name          string `json:"name"`
}
