package state

import (
	"time"

	"github.com/jwulff/campuscast/internal/domain"
)

// SeedDevices is the device registry used when none is persisted.
func SeedDevices(now time.Time) []domain.Device {
	return []domain.Device{
		{ID: "tv-101", Name: "Main Lobby Display", Location: "Main Entrance", Group: domain.GroupCommonArea, Reachable: true, LastContactAt: now},
		{ID: "tv-102", Name: "Student Cafeteria", Location: "Canteen", Group: domain.GroupCommonArea, Reachable: true, LastContactAt: now},
		{ID: "tv-201", Name: "CS Lecture Hall A", Location: "Room 304", Group: domain.GroupClassroom, Reachable: true, LastContactAt: now},
		{ID: "tv-202", Name: "Bio Lab", Location: "Room 201", Group: domain.GroupClassroom, Reachable: false, LastContactAt: now},
		{ID: "tv-301", Name: "Admin Office", Location: "Registrar", Group: domain.GroupOffice, Reachable: true, LastContactAt: now},
	}
}

// SeedContent is the content catalog used when none is persisted.
func SeedContent(now time.Time) []domain.ContentItem {
	return []domain.ContentItem{
		{
			ID:              "c-1",
			Kind:            domain.KindImage,
			Title:           "Welcome Week",
			Payload:         "https://picsum.photos/1920/1080",
			Priority:        domain.PriorityNormal,
			DurationSeconds: 10,
			CreatedAt:       now,
		},
		{
			ID:              "c-2",
			Kind:            domain.KindText,
			Title:           "Library Hours",
			Payload:         "The library will remain open until 10 PM this week for exam preparation.",
			Priority:        domain.PriorityNormal,
			DurationSeconds: 15,
			TargetGroups:    []domain.DeviceGroup{domain.GroupCommonArea},
			CreatedAt:       now,
		},
		{
			ID:              "c-3",
			Kind:            domain.KindBirthday,
			Title:           "Happy Birthday",
			Payload:         "Happy Birthday to Prof. Alan Turing and Student Alice Smith!",
			Priority:        domain.PriorityNormal,
			DurationSeconds: 8,
			CreatedAt:       now,
		},
	}
}

// SeedNotices is the notice list used when none is persisted.
func SeedNotices(time.Time) []domain.Notice {
	return []domain.Notice{
		{ID: "n-1", Text: "Registration for Spring Semester ends tomorrow at 5 PM.", Active: true, Urgent: true},
		{ID: "n-2", Text: "Chess Club meeting in Room 102 at 4 PM.", Active: true, Urgent: false},
	}
}
