package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimerScheduler is an in-process Scheduler backed by one timer per reminder.
// Timers do not survive a process restart; the store's reschedule sweep
// recreates them on startup.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	deliver func(Payload)
	log     *slog.Logger
	now     func() time.Time
}

func NewTimerScheduler(deliver func(Payload), logger *slog.Logger) *TimerScheduler {
	if deliver == nil {
		deliver = func(Payload) {}
	}
	return &TimerScheduler{
		timers:  make(map[string]*time.Timer),
		deliver: deliver,
		log:     logger,
		now:     time.Now,
	}
}

func (s *TimerScheduler) Schedule(_ context.Context, fireAt time.Time, p Payload) (string, error) {
	now := s.now()
	if !fireAt.After(now) {
		return "", ErrPastFireTime
	}

	handle := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[handle] = time.AfterFunc(fireAt.Sub(now), func() {
		s.mu.Lock()
		delete(s.timers, handle)
		s.mu.Unlock()

		s.log.Info("reminder fired", "appointment_id", p.AppointmentID, "title", p.Title)
		s.deliver(p)
	})

	return handle, nil
}

func (s *TimerScheduler) Cancel(_ context.Context, handle string) {
	if handle == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[handle]; ok {
		t.Stop()
		delete(s.timers, handle)
	}
}

// Stop cancels every pending reminder. Called on shutdown.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, t := range s.timers {
		t.Stop()
		delete(s.timers, handle)
	}
}

// Pending reports how many reminders are currently scheduled.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
