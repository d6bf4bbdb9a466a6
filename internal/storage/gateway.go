package storage

import "context"

// Keys used by the application. Each key holds one opaque JSON blob,
// last writer wins.
const (
	KeyAppointments = "appointments"
	KeyUser         = "user"
	KeyTheme        = "theme"
	KeySettings     = "settings"
	KeyLoginStatus  = "login_status"
)

// Gateway is the on-device key-value store the core mirrors its state into.
// Get returns (nil, nil) when the key is absent.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
