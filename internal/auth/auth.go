// Package auth keeps the single local session: who is logged in and with
// which role.  There are no passwords; Login trusts the email and role it
// is given and issues a signed session token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/utils"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrInvalidRole  = errors.New("role must be admin, seller or customer")
	ErrNoSession    = errors.New("no active session")
)

// ProfileStore holds the logged in profile.  repository.UserRepo
// satisfies it.
type ProfileStore interface {
	Get(ctx context.Context) (*model.UserProfile, error)
	Save(ctx context.Context, u model.UserProfile) error
	Clear(ctx context.Context) error
}

// Sessions issues and checks session tokens.
type Sessions struct {
	users  ProfileStore
	secret string
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewSessions(users ProfileStore, secret string, ttl time.Duration, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Sessions{users: users, secret: secret, ttl: ttl, now: time.Now, log: log}
}

// Login replaces any previous session with a new profile for email.
func (s *Sessions) Login(ctx context.Context, email string, role model.Role) (model.UserProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.UserProfile{}, ErrInvalidEmail
	}
	if !role.Valid() {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	tok, err := utils.NewSessionToken(s.secret, email, string(role), s.ttl, s.now())
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("sign session token: %w", err)
	}
	u := model.UserProfile{
		Role:         role,
		Email:        email,
		DisplayName:  DisplayName(email),
		SessionToken: tok.Token,
	}
	if err := s.users.Save(ctx, u); err != nil {
		return model.UserProfile{}, err
	}
	s.log.Info("login", zap.String("email", email), zap.String("role", string(role)), zap.String("jti", tok.ID))
	return u, nil
}

// Current returns the logged in profile or ErrNoSession.
func (s *Sessions) Current(ctx context.Context) (model.UserProfile, error) {
	u, err := s.users.Get(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	if u == nil {
		return model.UserProfile{}, ErrNoSession
	}
	return *u, nil
}

// Authenticate accepts raw only if it verifies and is the token of the
// current session, so a logout invalidates every earlier token.
func (s *Sessions) Authenticate(ctx context.Context, raw string) (model.UserProfile, error) {
	claims, err := utils.ParseSessionToken(s.secret, raw)
	if err != nil {
		return model.UserProfile{}, err
	}
	u, err := s.Current(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	if u.SessionToken != raw || u.Email != claims.Email {
		return model.UserProfile{}, ErrNoSession
	}
	return u, nil
}

func (s *Sessions) Logout(ctx context.Context) error {
	return s.users.Clear(ctx)
}

// DisplayName capitalizes the local part of an email:
// "maria.lopez@star.mx" -> "Maria.lopez".
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	r, size := utf8.DecodeRuneInString(local)
	if r == utf8.RuneError {
		return local
	}
	return string(unicode.ToUpper(r)) + local[size:]
}
