package appointment

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweep periodically re-schedules reminders for every appointment with a
// future occurrence. A repeating appointment whose reminder already fired
// gets its next occurrence armed this way.
type Sweep struct {
	store *Store
	cron  *cron.Cron
	log   *slog.Logger
}

func NewSweep(store *Store, logger *slog.Logger) *Sweep {
	return &Sweep{
		store: store,
		cron:  cron.New(),
		log:   logger,
	}
}

// Start runs one sweep immediately, then on the given cron spec.
func (s *Sweep) Start(ctx context.Context, spec string) error {
	s.store.RescheduleUpcoming(ctx)

	_, err := s.cron.AddFunc(spec, func() {
		s.log.Debug("reminder sweep running")
		s.store.RescheduleUpcoming(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("reminder sweep started", "spec", spec)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Sweep) Stop() {
	<-s.cron.Stop().Done()
}
