// Package targeting decides which catalog items a device may display.
package targeting

import "github.com/jwulff/campuscast/internal/domain"

// Resolve returns the items of catalog that device is allowed to show, in
// catalog order. An empty result means the device is idle.
//
// Explicit device targeting and group targeting both constrain when set.
// Classroom devices additionally only show urgent items or items that name
// them explicitly.
func Resolve(device domain.Device, catalog []domain.ContentItem) []domain.ContentItem {
	eligible := make([]domain.ContentItem, 0, len(catalog))
	for _, item := range catalog {
		if Eligible(device, item) {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

// Eligible reports whether a single item is visible to device.
func Eligible(device domain.Device, item domain.ContentItem) bool {
	named := item.TargetsDevice(device.ID)

	if len(item.TargetDeviceIDs) > 0 && !named {
		return false
	}
	if len(item.TargetGroups) > 0 && !item.TargetsGroup(device.Group) {
		return false
	}
	if device.IsClassroom() {
		return item.IsUrgent() || named
	}
	return true
}
