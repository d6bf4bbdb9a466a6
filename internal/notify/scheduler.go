package notify

import (
	"context"
	"errors"
	"time"
)

var ErrPastFireTime = errors.New("fire time is not in the future")

// Payload is what a reminder carries when it fires.
type Payload struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	AppointmentID string `json:"appointmentId"`
}

// Scheduler is the platform reminder mechanism. Schedule returns an opaque
// handle used only to cancel the reminder later; an error means no reminder
// will fire and callers are expected to degrade silently. Cancel is
// best-effort and never reports failure.
type Scheduler interface {
	Schedule(ctx context.Context, fireAt time.Time, p Payload) (string, error)
	Cancel(ctx context.Context, handle string)
}
