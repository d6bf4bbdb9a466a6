package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cekaratas/randevu/internal/storage"
)

func newTestService() (*Service, *storage.Memory) {
	gw := storage.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gw, logger), gw
}

func TestSettingsDefaults(t *testing.T) {
	s, _ := newTestService()

	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := Settings{Notifications: true, SoundEnabled: true, ReminderMinutes: 15, Language: "tr"}
	if got != want {
		t.Errorf("defaults = %+v, want %+v", got, want)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	in := Settings{Notifications: false, SoundEnabled: true, ReminderMinutes: 30, Language: "en"}
	if err := s.Put(ctx, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != in {
		t.Errorf("got %+v, want %+v", got, in)
	}
}

func TestSettingsMalformedBlob(t *testing.T) {
	s, gw := newTestService()
	ctx := context.Background()

	gw.Set(ctx, storage.KeySettings, []byte("{broken"))

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != Defaults() {
		t.Errorf("malformed blob should read as defaults, got %+v", got)
	}
}

func TestTheme(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	theme, err := s.Theme(ctx)
	if err != nil || theme != ThemeLight {
		t.Errorf("default theme = %q, %v; want light", theme, err)
	}

	if err := s.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if theme, _ = s.Theme(ctx); theme != ThemeDark {
		t.Errorf("theme = %q, want dark", theme)
	}

	if err := s.SetTheme(ctx, "solarized"); !errors.Is(err, ErrBadTheme) {
		t.Errorf("err = %v, want ErrBadTheme", err)
	}
}

func TestThemeUnknownStoredValue(t *testing.T) {
	s, gw := newTestService()
	ctx := context.Background()

	gw.Set(ctx, storage.KeyTheme, []byte("neon"))

	if theme, _ := s.Theme(ctx); theme != ThemeLight {
		t.Errorf("unknown stored theme read as %q, want light fallback", theme)
	}
}
