// Package settings persists the user preference blobs: app settings and the
// display theme. Absent blobs read back as defaults.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cekaratas/randevu/internal/storage"
)

var ErrBadTheme = errors.New("unknown theme")

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings mirrors the preference form. ReminderMinutes is the default lead
// offered when creating an appointment, not the scheduler's lead.
type Settings struct {
	Notifications   bool   `json:"notifications"`
	SoundEnabled    bool   `json:"soundEnabled"`
	ReminderMinutes int    `json:"reminderMinutes"`
	Language        string `json:"language"`
}

// Defaults returns the settings a fresh install starts with.
func Defaults() Settings {
	return Settings{
		Notifications:   true,
		SoundEnabled:    true,
		ReminderMinutes: 15,
		Language:        "tr",
	}
}

type Service struct {
	gateway storage.Gateway
	log     *slog.Logger
}

func NewService(gw storage.Gateway, logger *slog.Logger) *Service {
	return &Service{gateway: gw, log: logger}
}

// Get loads the stored settings, falling back to defaults when the blob is
// absent or malformed.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	blob, err := s.gateway.Get(ctx, storage.KeySettings)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if blob == nil {
		return Defaults(), nil
	}

	out := Defaults()
	if err := json.Unmarshal(blob, &out); err != nil {
		s.log.Warn("stored settings malformed, using defaults", "err", err)
		return Defaults(), nil
	}
	return out, nil
}

// Put replaces the stored settings.
func (s *Service) Put(ctx context.Context, in Settings) error {
	blob, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := s.gateway.Set(ctx, storage.KeySettings, blob); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

// Theme returns the stored theme, defaulting to light.
func (s *Service) Theme(ctx context.Context) (string, error) {
	blob, err := s.gateway.Get(ctx, storage.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	if blob == nil {
		return ThemeLight, nil
	}
	theme := string(blob)
	if theme != ThemeLight && theme != ThemeDark {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme stores the theme; only light and dark are accepted.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrBadTheme
	}
	if err := s.gateway.Set(ctx, storage.KeyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}
