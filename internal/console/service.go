// Package console implements the operator commands. Every command is a
// direct read-modify-write of one shared collection; the console never runs
// the rotation engine.
package console

import (
	"context"
	"crypto/subtle"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
	"github.com/jwulff/campuscast/internal/state"
	"github.com/jwulff/campuscast/internal/storage"
	"github.com/jwulff/campuscast/internal/textgen"
)

// Defaults of a fresh deployment.
const (
	DefaultPassphrase = "admin123"
	DefaultAdminName  = "Campus Admin"
)

// UnknownContentTitle is shown for a nowShowingId missing from the catalog.
const UnknownContentTitle = "Unknown Content"

// Assistant drafts and polishes text. Implementations never fail; they
// return the input on error.
type Assistant interface {
	Generate(ctx context.Context, topic string, tone textgen.Tone) string
	Refine(ctx context.Context, text string) string
}

// Config configures the console.
type Config struct {
	// Passphrase is compared in constant time when PassphraseHash is empty.
	Passphrase string `yaml:"passphrase"`

	// PassphraseHash is a bcrypt hash and takes precedence over Passphrase.
	PassphraseHash string `yaml:"passphrase_hash"`

	AdminName string `yaml:"admin_name"`
}

// Service executes console commands against the shared store.
type Service struct {
	store  *state.Store
	assist Assistant
	cfg    Config
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now for created records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a console service. A nil assistant disables text assist.
func New(store *state.Store, assist Assistant, cfg Config, log zerolog.Logger, opts ...Option) *Service {
	if cfg.Passphrase == "" && cfg.PassphraseHash == "" {
		cfg.Passphrase = DefaultPassphrase
	}
	if cfg.AdminName == "" {
		cfg.AdminName = DefaultAdminName
	}
	s := &Service{
		store:  store,
		assist: assist,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record counts a command outcome.
func record(command string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.IncConsoleCommand(command, result)
}

// Login checks passphrase and stores the authenticated-user marker.
func (s *Service) Login(ctx context.Context, passphrase string) (user *domain.User, err error) {
	defer func() { record("login", err) }()

	if !s.checkPassphrase(passphrase) {
		s.log.Warn().Msg("rejected console login")
		return nil, ErrInvalidPassphrase
	}

	user = &domain.User{Authenticated: true, Name: s.cfg.AdminName}
	if err := s.store.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.log.Info().Str("user", user.Name).Msg("console login")
	return user, nil
}

func (s *Service) checkPassphrase(passphrase string) bool {
	if s.cfg.PassphraseHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PassphraseHash), []byte(passphrase)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Passphrase), []byte(passphrase)) == 1
}

// Logout clears the authenticated-user marker.
func (s *Service) Logout(ctx context.Context) (err error) {
	defer func() { record("logout", err) }()
	return s.store.SetUser(ctx, nil)
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Authenticated {
		return nil, nil
	}
	return user, nil
}

// DeviceStatus is a device row of the console's device list.
type DeviceStatus struct {
	domain.Device
	NowShowingTitle string `json:"nowShowingTitle,omitempty"`
}

// ListDevices returns the registry with the title of what each device shows.
func (s *Service) ListDevices(ctx context.Context) ([]DeviceStatus, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DeviceStatus, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		row := DeviceStatus{Device: d}
		if d.NowShowingID != "" {
			row.NowShowingTitle = UnknownContentTitle
			if item := domain.FindContent(snap.Content, d.NowShowingID); item != nil {
				row.NowShowingTitle = item.Title
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// DeviceInput provisions a device.
type DeviceInput struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Location string             `json:"location"`
	Group    domain.DeviceGroup `json:"group"`
}

// RegisterDevice adds a device record. Ids must be unique.
func (s *Service) RegisterDevice(ctx context.Context, in DeviceInput) (device domain.Device, err error) {
	defer func() { record("register_device", err) }()

	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.ID == "":
		return domain.Device{}, ValidationError{Field: "id", Message: "required"}
	case in.Name == "":
		return domain.Device{}, ValidationError{Field: "name", Message: "required"}
	case !in.Group.Valid():
		return domain.Device{}, ValidationError{Field: "group", Message: fmt.Sprintf("unknown group %q", in.Group)}
	}

	device = *domain.NewDevice(in.ID, in.Name, strings.TrimSpace(in.Location), in.Group)
	var duplicate bool
	_, err = s.store.UpdateDevices(ctx, func(devices []domain.Device) []domain.Device {
		if domain.FindDevice(devices, in.ID) != nil {
			duplicate = true
			return devices
		}
		return append(devices, device)
	})
	if err != nil {
		return domain.Device{}, err
	}
	if duplicate {
		return domain.Device{}, ValidationError{Field: "id", Message: fmt.Sprintf("device %s already exists", in.ID)}
	}
	return device, nil
}

// UpdateDeviceGroup reclassifies a device.
func (s *Service) UpdateDeviceGroup(ctx context.Context, id string, group domain.DeviceGroup) (err error) {
	defer func() { record("update_device_group", err) }()

	if !group.Valid() {
		return ValidationError{Field: "group", Message: fmt.Sprintf("unknown group %q", group)}
	}

	found, err := s.store.UpdateDevice(ctx, id, func(d *domain.Device) {
		d.Group = group
	})
	if err != nil {
		return err
	}
	if !found {
		return storage.ErrNotFound{Resource: "device", ID: id}
	}
	return nil
}

// ListContent returns the catalog in rotation order.
func (s *Service) ListContent(ctx context.Context) ([]domain.ContentItem, error) {
	return s.store.Content(ctx)
}

// ContentInput creates a content item.
type ContentInput struct {
	Kind            domain.ContentKind   `json:"kind"`
	Title           string               `json:"title"`
	Payload         string               `json:"payload"`
	Priority        domain.Priority      `json:"priority"`
	DurationSeconds int                  `json:"durationSeconds"`
	TargetDeviceIDs []string             `json:"targetDeviceIds"`
	TargetGroups    []domain.DeviceGroup `json:"targetGroups"`
}

// AddContent validates in and puts the new item at the head of the catalog.
func (s *Service) AddContent(ctx context.Context, in ContentInput) (item domain.ContentItem, err error) {
	defer func() { record("add_content", err) }()

	item, err = s.buildContent(in)
	if err != nil {
		return domain.ContentItem{}, err
	}

	_, err = s.store.UpdateContent(ctx, func(items []domain.ContentItem) []domain.ContentItem {
		return append([]domain.ContentItem{item}, items...)
	})
	if err != nil {
		return domain.ContentItem{}, err
	}
	s.log.Info().Str("content_id", item.ID).Str("kind", string(item.Kind)).Msg("content added")
	return item, nil
}

func (s *Service) buildContent(in ContentInput) (domain.ContentItem, error) {
	if in.Kind == "" {
		in.Kind = domain.KindText
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}
	if in.DurationSeconds <= 0 {
		in.DurationSeconds = int(domain.DefaultDuration / time.Second)
	}

	switch {
	case strings.TrimSpace(in.Title) == "":
		return domain.ContentItem{}, ValidationError{Field: "title", Message: "required"}
	case strings.TrimSpace(in.Payload) == "":
		return domain.ContentItem{}, ValidationError{Field: "payload", Message: "required"}
	case !in.Kind.Valid():
		return domain.ContentItem{}, ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", in.Kind)}
	case !in.Priority.Valid():
		return domain.ContentItem{}, ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", in.Priority)}
	}
	for _, g := range in.TargetGroups {
		if !g.Valid() {
			return domain.ContentItem{}, ValidationError{Field: "targetGroups", Message: fmt.Sprintf("unknown group %q", g)}
		}
	}

	return domain.ContentItem{
		ID:              s.newID(),
		Kind:            in.Kind,
		Title:           strings.TrimSpace(in.Title),
		Payload:         strings.TrimSpace(in.Payload),
		Priority:        in.Priority,
		DurationSeconds: in.DurationSeconds,
		TargetDeviceIDs: nonNil(in.TargetDeviceIDs),
		TargetGroups:    nonNil(in.TargetGroups),
		CreatedAt:       s.now(),
	}, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// RemoveContent deletes an item from the catalog.
func (s *Service) RemoveContent(ctx context.Context, id string) (err error) {
	defer func() { record("remove_content", err) }()

	var found bool
	_, err = s.store.UpdateContent(ctx, func(items []domain.ContentItem) []domain.ContentItem {
		return slices.DeleteFunc(items, func(c domain.ContentItem) bool {
			if c.ID == id {
				found = true
				return true
			}
			return false
		})
	})
	if err != nil {
		return err
	}
	if !found {
		return storage.ErrNotFound{Resource: "content", ID: id}
	}
	return nil
}

// ListNotices returns every notice.
func (s *Service) ListNotices(ctx context.Context) ([]domain.Notice, error) {
	return s.store.Notices(ctx)
}

// AddNotice creates an active notice at the head of the list.
func (s *Service) AddNotice(ctx context.Context, text string, urgent bool) (n domain.Notice, err error) {
	defer func() { record("add_notice", err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Notice{}, ValidationError{Field: "text", Message: "required"}
	}

	n = domain.Notice{ID: s.newID(), Text: text, Active: true, Urgent: urgent}
	_, err = s.store.UpdateNotices(ctx, func(notices []domain.Notice) []domain.Notice {
		return append([]domain.Notice{n}, notices...)
	})
	if err != nil {
		return domain.Notice{}, err
	}
	return n, nil
}

// ToggleNotice flips a notice's active flag and returns the updated notice.
func (s *Service) ToggleNotice(ctx context.Context, id string) (n domain.Notice, err error) {
	defer func() { record("toggle_notice", err) }()

	var found bool
	_, err = s.store.UpdateNotices(ctx, func(notices []domain.Notice) []domain.Notice {
		if target := domain.FindNotice(notices, id); target != nil {
			target.Active = !target.Active
			n = *target
			found = true
		}
		return notices
	})
	if err != nil {
		return domain.Notice{}, err
	}
	if !found {
		return domain.Notice{}, storage.ErrNotFound{Resource: "notice", ID: id}
	}
	return n, nil
}

// DeleteNotice removes a notice.
func (s *Service) DeleteNotice(ctx context.Context, id string) (err error) {
	defer func() { record("delete_notice", err) }()

	var found bool
	_, err = s.store.UpdateNotices(ctx, func(notices []domain.Notice) []domain.Notice {
		return slices.DeleteFunc(notices, func(n domain.Notice) bool {
			if n.ID == id {
				found = true
				return true
			}
			return false
		})
	})
	if err != nil {
		return err
	}
	if !found {
		return storage.ErrNotFound{Resource: "notice", ID: id}
	}
	return nil
}

// Stats are the dashboard counters.
type Stats struct {
	Devices          int `json:"devices"`
	ReachableDevices int `json:"reachableDevices"`
	ActiveNotices    int `json:"activeNotices"`
	UrgentNotices    int `json:"urgentNotices"`
	ContentItems     int `json:"contentItems"`
}

// Stats computes the dashboard counters. UrgentNotices counts active urgent
// notices only.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Devices: len(snap.Devices), ContentItems: len(snap.Content)}
	for _, d := range snap.Devices {
		if d.Reachable {
			st.ReachableDevices++
		}
	}
	for _, n := range snap.Notices {
		if !n.Active {
			continue
		}
		st.ActiveNotices++
		if n.Urgent {
			st.UrgentNotices++
		}
	}
	return st, nil
}

// DraftNotice asks the assistant for notice text about topic. Without an
// assistant the topic comes back unchanged.
func (s *Service) DraftNotice(ctx context.Context, topic string, tone textgen.Tone) string {
	if s.assist == nil {
		return topic
	}
	return s.assist.Generate(ctx, topic, tone)
}

// RefineText asks the assistant to polish text.
func (s *Service) RefineText(ctx context.Context, text string) string {
	if s.assist == nil {
		return text
	}
	return s.assist.Refine(ctx, text)
}
