// Package rotation advances a device through its eligible content list.
//
// A Scheduler holds no timer itself. Each call returns a Step telling the
// caller what to show, whether the one-shot timer must be re-armed or
// stopped, and whether the device's nowShowingId report must change.
package rotation

import (
	"time"

	"github.com/jwulff/campuscast/internal/domain"
)

// Step is the outcome of one evaluation.
type Step struct {
	// Current is the item on screen; nil when idle.
	Current *domain.ContentItem

	// Duration is how long Current stays on screen.
	Duration time.Duration

	// Rearm asks for the one-shot timer to be (re)started for Duration.
	Rearm bool

	// Stop asks for a running timer to be cancelled.
	Stop bool

	// Report is set when the reported nowShowingId must change to ReportID.
	// An empty ReportID clears it.
	Report   bool
	ReportID string

	// Index is the rotation position after the step; it is kept unchanged
	// while the eligible list is empty.
	Index int
}

// Idle reports whether there is nothing eligible to show.
func (s Step) Idle() bool {
	return s.Current == nil
}

type armed struct {
	id       string
	duration time.Duration
}

// Scheduler is the rotation state of one device. It is not safe for
// concurrent use.
type Scheduler struct {
	index    int
	timer    *armed
	reported string
}

// NewScheduler starts at index 0 with the given nowShowingId already reported.
func NewScheduler(reported string) *Scheduler {
	return &Scheduler{reported: reported}
}

// Index returns the current position, already reduced modulo the last list length.
func (s *Scheduler) Index() int {
	return s.index
}

// Reported returns the last nowShowingId the scheduler asked to report.
func (s *Scheduler) Reported() string {
	return s.reported
}

// SetReported records a nowShowingId written by someone else, so the next
// evaluation re-asserts the current item if they differ.
func (s *Scheduler) SetReported(id string) {
	s.reported = id
}

// Evaluate recomputes the current item against a fresh eligible list. The
// index is never reset; a changed list length only reduces it modulo the new
// length. The timer is re-armed only when the current item or its duration
// differs from what it was armed for.
func (s *Scheduler) Evaluate(eligible []domain.ContentItem) Step {
	if len(eligible) == 0 {
		step := Step{Stop: s.timer != nil, Index: s.index}
		s.timer = nil
		if s.reported != "" {
			step.Report = true
			s.reported = ""
		}
		return step
	}

	s.index %= len(eligible)
	current := eligible[s.index]
	step := Step{
		Current:  &current,
		Duration: current.Duration(),
		Index:    s.index,
	}

	if s.timer == nil || s.timer.id != current.ID || s.timer.duration != step.Duration {
		s.timer = &armed{id: current.ID, duration: step.Duration}
		step.Rearm = true
	}

	if current.ID != s.reported {
		s.reported = current.ID
		step.Report = true
		step.ReportID = current.ID
	}
	return step
}

// Advance handles a timer fire: it moves to the next item and always re-arms.
func (s *Scheduler) Advance(eligible []domain.ContentItem) Step {
	s.timer = nil
	if len(eligible) == 0 {
		return s.Evaluate(eligible)
	}
	s.index = (s.index + 1) % len(eligible)
	return s.Evaluate(eligible)
}
