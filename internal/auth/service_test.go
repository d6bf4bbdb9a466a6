package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cekaratas/randevu/internal/storage"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	gw := storage.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gw, logger, testSecret, time.Hour), gw
}

func register(t *testing.T, s *Service) User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "testpass123",
		Age:      28,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	s, gw := newTestService(t)
	u := register(t, s)

	if u.ID == "" {
		t.Error("expected an assigned id")
	}
	if u.PasswordHash == "testpass123" {
		t.Error("password stored in the clear")
	}
	if !CheckPassword(u.PasswordHash, "testpass123") {
		t.Error("stored hash does not verify")
	}

	blob, _ := gw.Get(context.Background(), storage.KeyUser)
	if blob == nil {
		t.Error("user blob not persisted")
	}

	_, err := s.Register(context.Background(), RegisterInput{Email: "TEST@example.com", Password: "other123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginAndVerify(t *testing.T) {
	s, _ := newTestService(t)
	u := register(t, s)
	ctx := context.Background()

	token, err := s.Login(ctx, "test@example.com", "testpass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	uid, err := s.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if uid != u.ID {
		t.Errorf("uid = %q, want %q", uid, u.ID)
	}
}

func TestLoginRejects(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Login(ctx, "test@example.com", "whatever"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("login before register err = %v, want ErrBadCredentials", err)
	}

	register(t, s)

	if _, err := s.Login(ctx, "test@example.com", "wrongpass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := s.Login(ctx, "other@example.com", "testpass123"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong email err = %v, want ErrBadCredentials", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s)
	ctx := context.Background()

	token, _ := s.Login(ctx, "test@example.com", "testpass123")

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := s.VerifyToken(ctx, token); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("verify after logout err = %v, want ErrNotLoggedIn", err)
	}
}

func TestVerifyTokenRejectsForged(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s)
	ctx := context.Background()

	s.Login(ctx, "test@example.com", "testpass123")

	other := NewService(storage.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)), "other-secret", time.Hour)
	otherUser := register(t, other)
	forged, _ := MakeToken(otherUser.ID, "other-secret", time.Hour, time.Now())

	if _, err := s.VerifyToken(ctx, forged); !errors.Is(err, ErrBadToken) {
		t.Errorf("forged token err = %v, want ErrBadToken", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newTestService(t)
	u := register(t, s)
	ctx := context.Background()

	name := "Renamed User"
	phone := "05321234567"
	updated, err := s.UpdateProfile(ctx, ProfilePatch{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != name || updated.Phone != phone {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Email != u.Email || updated.Age != u.Age {
		t.Error("untouched fields changed")
	}

	got, err := s.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got.Name != name {
		t.Error("update not persisted")
	}
}

func TestProfileNotRegistered(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.Profile(context.Background()); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}

func TestChangePassword(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s)
	ctx := context.Background()

	if err := s.ChangePassword(ctx, "wrongpass", "newpass12"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong current password err = %v, want ErrBadCredentials", err)
	}

	if err := s.ChangePassword(ctx, "testpass123", "newpass12"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := s.Login(ctx, "test@example.com", "testpass123"); !errors.Is(err, ErrBadCredentials) {
		t.Error("old password still accepted")
	}
	if _, err := s.Login(ctx, "test@example.com", "newpass12"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
