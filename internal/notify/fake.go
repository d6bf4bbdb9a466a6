package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScheduledCall records one Schedule invocation on the Fake.
type ScheduledCall struct {
	Handle  string
	FireAt  time.Time
	Payload Payload
}

// Fake is a recording Scheduler for tests. Handles are deterministic
// ("ntf-1", "ntf-2", ...). Setting Err makes every Schedule call fail.
type Fake struct {
	mu        sync.Mutex
	next      int
	scheduled []ScheduledCall
	cancelled []string

	Err error
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Schedule(_ context.Context, fireAt time.Time, p Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.next++
	handle := fmt.Sprintf("ntf-%d", f.next)
	f.scheduled = append(f.scheduled, ScheduledCall{Handle: handle, FireAt: fireAt, Payload: p})
	return handle, nil
}

func (f *Fake) Cancel(_ context.Context, handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, handle)
}

func (f *Fake) Scheduled() []ScheduledCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ScheduledCall(nil), f.scheduled...)
}

func (f *Fake) Cancelled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cancelled...)
}
