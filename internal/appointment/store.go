package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cekaratas/randevu/internal/notify"
	"github.com/cekaratas/randevu/internal/storage"
)

var ErrNotFound = errors.New("appointment not found")

// Config tunes store behavior. Now is injectable for tests; ReminderLead is
// how long before the appointment the reminder should fire.
type Config struct {
	ReminderLead time.Duration
	Now          func() time.Time
}

// Store owns the authoritative in-memory appointment collection for the
// session. Every mutation is serialized by the mutex, schedules or cancels
// reminders through the scheduler, then mirrors the full collection into the
// persistence gateway. Scheduler and persistence failures are logged and
// swallowed; the in-memory state stays the source of truth.
type Store struct {
	mu           sync.Mutex
	appointments []Appointment

	gateway   storage.Gateway
	scheduler notify.Scheduler
	log       *slog.Logger

	reminderLead time.Duration
	now          func() time.Time
}

func New(gw storage.Gateway, scheduler notify.Scheduler, logger *slog.Logger, cfg Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		gateway:      gw,
		scheduler:    scheduler,
		log:          logger,
		reminderLead: cfg.ReminderLead,
		now:          now,
	}
}

// Create assigns a fresh id, schedules a reminder when the appointment lies
// in the future, appends the entry and persists the collection. Scheduling
// failure degrades to an empty handle, never an error.
func (s *Store) Create(ctx context.Context, draft Draft) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Category:    draft.Category,
		Description: draft.Description,
		Date:        draft.Date,
		Repeat:      draft.Repeat,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Category == "" {
		a.Category = CategoryHealth
	}
	if a.Repeat == "" {
		a.Repeat = RepeatNone
	}

	a.NotificationHandle = s.scheduleReminder(ctx, a)

	s.appointments = append(s.appointments, a)
	s.persist(ctx)

	return a, nil
}

// Update merges the patch onto the entry with the given id. When the
// effective date changes, the old reminder is cancelled (best-effort) and a
// new one is scheduled under the same policy as Create.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Appointment{}, ErrNotFound
	}

	a := s.appointments[idx]

	dateChanged := (patch.Date != nil && !patch.Date.Equal(a.Date)) ||
		(patch.Repeat != nil && *patch.Repeat != a.Repeat)

	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Category != nil {
		a.Category = *patch.Category
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Repeat != nil {
		a.Repeat = *patch.Repeat
	}
	a.UpdatedAt = s.now()

	if dateChanged {
		if a.NotificationHandle != "" {
			s.scheduler.Cancel(ctx, a.NotificationHandle)
		}
		a.NotificationHandle = s.scheduleReminder(ctx, a)
	}

	s.appointments[idx] = a
	s.persist(ctx)

	return a, nil
}

// Delete cancels the entry's reminder (best-effort), removes it and persists.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	if handle := s.appointments[idx].NotificationHandle; handle != "" {
		s.scheduler.Cancel(ctx, handle)
	}

	s.appointments = append(s.appointments[:idx], s.appointments[idx+1:]...)
	s.persist(ctx)

	return nil
}

// Get returns the appointment with the given id.
func (s *Store) Get(id string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Appointment{}, ErrNotFound
	}
	return s.appointments[idx], nil
}

// List returns a snapshot of the collection. Mutating the returned slice
// never affects store state.
func (s *Store) List() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.appointments...)
}

// LoadFromPersistence replaces the collection with the persisted snapshot.
// An absent or malformed blob initializes an empty collection; this never
// fails. Persisted notification handles belonged to a previous process and
// are dropped; RescheduleUpcoming recreates them.
func (s *Store) LoadFromPersistence(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments = nil

	blob, err := s.gateway.Get(ctx, storage.KeyAppointments)
	if err != nil {
		s.log.Warn("load appointments failed, starting empty", "err", err)
		return
	}
	if blob == nil {
		return
	}

	var loaded []Appointment
	if err := json.Unmarshal(blob, &loaded); err != nil {
		s.log.Warn("persisted appointments malformed, starting empty", "err", err)
		return
	}

	for i := range loaded {
		loaded[i].NotificationHandle = ""
	}
	s.appointments = loaded

	s.log.Info("appointments loaded", "count", len(loaded))
}

// RescheduleUpcoming cancels and re-schedules the reminder for every
// appointment that still has a future occurrence, then persists once. Run at
// startup and periodically by the sweep.
func (s *Store) RescheduleUpcoming(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.appointments {
		a := s.appointments[i]
		if _, upcoming := NextOccurrence(a, s.now()); !upcoming && a.NotificationHandle == "" {
			continue
		}

		if a.NotificationHandle != "" {
			s.scheduler.Cancel(ctx, a.NotificationHandle)
		}
		s.appointments[i].NotificationHandle = s.scheduleReminder(ctx, a)
		changed = true
	}

	if changed {
		s.persist(ctx)
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

// scheduleReminder computes the fire time for the appointment's next
// occurrence and asks the scheduler for a handle. Returns empty when the
// appointment has no future occurrence or scheduling fails.
func (s *Store) scheduleReminder(ctx context.Context, a Appointment) string {
	occurrence, ok := NextOccurrence(a, s.now())
	if !ok {
		return ""
	}

	fireAt := occurrence.Add(-s.reminderLead)
	if !fireAt.After(s.now()) {
		fireAt = occurrence
	}

	handle, err := s.scheduler.Schedule(ctx, fireAt, notify.Payload{
		Title:         a.Title,
		Body:          reminderBody(a, occurrence),
		AppointmentID: a.ID,
	})
	if err != nil {
		s.log.Warn("reminder scheduling failed", "appointment_id", a.ID, "err", err)
		return ""
	}
	return handle
}

func reminderBody(a Appointment, occurrence time.Time) string {
	body := occurrence.Format("02.01.2006 15:04")
	if a.Description != "" {
		body += "\n" + a.Description
	}
	return body
}

func (s *Store) persist(ctx context.Context) {
	blob, err := json.Marshal(s.appointments)
	if err != nil {
		s.log.Warn("encode appointments failed", "err", err)
		return
	}
	if err := s.gateway.Set(ctx, storage.KeyAppointments, blob); err != nil {
		s.log.Warn("persist appointments failed", "err", fmt.Errorf("set %s: %w", storage.KeyAppointments, err))
	}
}
