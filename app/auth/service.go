// Package auth signs in catalog administrators and verifies their session
// tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lysyi3m/astrolearn/app/database"
)

const issuer = "astrolearn"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Session identifies the administrator behind an authenticated request
type Session struct {
	AdminID   int64
	Handle    string
	ExpiresAt time.Time
}

type claims struct {
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

type Service struct {
	admins database.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(admins database.AdminRepository, secret string, ttl time.Duration) *Service {
	return &Service{
		admins: admins,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// EnsureAdmin creates the administrator account when it does not exist yet.
// An existing account keeps its password.
func (s *Service) EnsureAdmin(ctx context.Context, handle, password string) (bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	created, err := s.admins.CreateAdmin(ctx, handle, hash)
	if err != nil {
		return false, fmt.Errorf("failed to create administrator: %w", err)
	}
	return created, nil
}

// Login checks the credentials and returns the session with its signed token.
// Unknown handles and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, handle, password string) (*Session, string, error) {
	if handle == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	admin, err := s.admins.GetAdminByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	hash := dummyHash()
	if admin != nil {
		hash = admin.PasswordHash
	}
	if !CheckPassword(hash, password) || admin == nil {
		slog.Warn("Login rejected", "handle", handle)
		return nil, "", ErrInvalidCredentials
	}

	now := s.now()
	session := &Session{
		AdminID:   admin.ID,
		Handle:    admin.Handle,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}

	token, err := s.sign(session, now)
	if err != nil {
		return nil, "", err
	}

	return session, token, nil
}

// Verify validates the token signature, algorithm and expiry
func (s *Service) Verify(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	adminID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return &Session{
		AdminID:   adminID,
		Handle:    c.Handle,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

func (s *Service) sign(session *Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Handle: session.Handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(session.AdminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
