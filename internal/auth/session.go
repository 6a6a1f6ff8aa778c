package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionTTL = 24 * time.Hour

	adminSubject = "admin"
	issuer       = "salesdesk"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidSession  = errors.New("invalid session")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies the single-admin session.
type Manager struct {
	secret       []byte
	password     string
	passwordHash []byte
	secure       bool
	now          func() time.Time
}

type Options struct {
	Secret       string
	Password     string
	PasswordHash string
	// Secure marks the cookie Secure; set in production.
	Secure bool
}

func NewManager(opts Options) *Manager {
	return &Manager{
		secret:       []byte(opts.Secret),
		password:     opts.Password,
		passwordHash: []byte(opts.PasswordHash),
		secure:       opts.Secure,
		now:          time.Now,
	}
}

// CheckPassword compares against the bcrypt hash when one is configured,
// otherwise against the plain password in constant time. An unconfigured
// password never matches.
func (m *Manager) CheckPassword(password string) error {
	if len(m.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}

	if m.password == "" || password == "" {
		return ErrInvalidPassword
	}
	if subtle.ConstantTimeCompare([]byte(m.password), []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

func (m *Manager) Issue() (string, time.Time, error) {
	now := m.now()
	exp := now.Add(SessionTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   adminSubject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie writes the session cookie for a freshly issued token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticated reports whether the request carries a valid session.
func (m *Manager) Authenticated(r *http.Request) bool {
	_, err := m.Verify(ExtractSessionToken(r))
	return err == nil
}
