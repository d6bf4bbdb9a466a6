package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cekaratas/randevu/internal/storage"
)

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrEmailTaken     = errors.New("email already registered")
	ErrNotRegistered  = errors.New("no registered user")
	ErrNotLoggedIn    = errors.New("not logged in")
)

// User is the account blob persisted under the user key. PasswordHash is a
// bcrypt hash; older installs stored the password in the clear, which login
// rejects.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Age          int       `json:"age"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is persisted under the login-status key. Removing it logs out every
// holder of the token.
type Session struct {
	LoggedIn bool   `json:"loggedIn"`
	Token    string `json:"token"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
	Phone    string
}

// ProfilePatch is a shallow merge onto the stored user; nil fields stay.
type ProfilePatch struct {
	Name  *string
	Email *string
	Age   *int
	Phone *string
}

// Service implements the single-account auth flow: one registered user per
// install, a bcrypt-checked login and an HS256 session token persisted
// alongside the user so logout can revoke it.
type Service struct {
	gateway storage.Gateway
	log     *slog.Logger
	secret  string
	ttl     time.Duration
	now     func() time.Time
}

func NewService(gw storage.Gateway, logger *slog.Logger, secret string, ttl time.Duration) *Service {
	return &Service{
		gateway: gw,
		log:     logger,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Register stores a new account. Fails with ErrEmailTaken when an account
// already exists under the same email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	existing, err := s.loadUser(ctx)
	if err != nil && !errors.Is(err, ErrNotRegistered) {
		return User{}, err
	}
	if err == nil && strings.EqualFold(existing.Email, in.Email) {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.saveUser(ctx, u); err != nil {
		return User{}, err
	}

	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials and persists a fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.loadUser(ctx)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return "", ErrBadCredentials
		}
		return "", err
	}

	if !strings.EqualFold(u.Email, email) || !CheckPassword(u.PasswordHash, password) {
		return "", ErrBadCredentials
	}

	token, err := MakeToken(u.ID, s.secret, s.ttl, s.now())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	blob, err := json.Marshal(Session{LoggedIn: true, Token: token})
	if err != nil {
		return "", err
	}
	if err := s.gateway.Set(ctx, storage.KeyLoginStatus, blob); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	s.log.Info("user logged in", "user_id", u.ID)
	return token, nil
}

// Logout removes the persisted session, revoking the token.
func (s *Service) Logout(ctx context.Context) error {
	return s.gateway.Remove(ctx, storage.KeyLoginStatus)
}

// VerifyToken checks the signature and that the token is still the live
// session. A logged-out token fails even when its signature is valid.
func (s *Service) VerifyToken(ctx context.Context, raw string) (string, error) {
	claims, err := ParseToken(raw, s.secret)
	if err != nil {
		return "", ErrBadToken
	}

	blob, err := s.gateway.Get(ctx, storage.KeyLoginStatus)
	if err != nil {
		return "", err
	}
	if blob == nil {
		return "", ErrNotLoggedIn
	}
	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		return "", ErrNotLoggedIn
	}
	if !sess.LoggedIn || sess.Token != raw {
		return "", ErrNotLoggedIn
	}

	return claims.UserID, nil
}

// Profile returns the stored account.
func (s *Service) Profile(ctx context.Context) (User, error) {
	return s.loadUser(ctx)
}

// UpdateProfile merges the patch onto the stored account.
func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error) {
	u, err := s.loadUser(ctx)
	if err != nil {
		return User{}, err
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	u.UpdatedAt = s.now()

	if err := s.saveUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	u, err := s.loadUser(ctx)
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, current) {
		return ErrBadCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()

	if err := s.saveUser(ctx, u); err != nil {
		return err
	}

	s.log.Info("password changed", "user_id", u.ID)
	return nil
}

func (s *Service) loadUser(ctx context.Context) (User, error) {
	blob, err := s.gateway.Get(ctx, storage.KeyUser)
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	if blob == nil {
		return User{}, ErrNotRegistered
	}
	var u User
	if err := json.Unmarshal(blob, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func (s *Service) saveUser(ctx context.Context, u User) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.gateway.Set(ctx, storage.KeyUser, blob); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}
