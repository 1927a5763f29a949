// Package notice picks the notices a device scrolls and applies the urgent override.
package notice

import "github.com/jwulff/campuscast/internal/domain"

// Selection is the notice state of one device.
type Selection struct {
	Urgent []domain.Notice
	Normal []domain.Notice

	// SuppressNormal hides the routine ticker while any urgent notice is active.
	SuppressNormal bool
}

// Select filters notices for device. Inactive notices are never shown and
// classrooms only see urgent ones.
func Select(device domain.Device, notices []domain.Notice) Selection {
	var sel Selection
	for _, n := range notices {
		if !n.Active {
			continue
		}
		if n.Urgent {
			sel.Urgent = append(sel.Urgent, n)
			continue
		}
		if !device.IsClassroom() {
			sel.Normal = append(sel.Normal, n)
		}
	}
	sel.SuppressNormal = len(sel.Urgent) > 0
	return sel
}

// Visible returns the normal notices that should actually scroll.
func (s Selection) Visible() []domain.Notice {
	if s.SuppressNormal {
		return nil
	}
	return s.Normal
}
