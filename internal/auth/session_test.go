package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestManager_CheckPassword(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		m := NewManager(Options{Secret: "s", Password: "letmein"})

		assert.NoError(t, m.CheckPassword("letmein"))
		assert.ErrorIs(t, m.CheckPassword("letmeout"), ErrInvalidPassword)
		assert.ErrorIs(t, m.CheckPassword(""), ErrInvalidPassword)
	})

	t.Run("Hash wins over plain", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
		require.NoError(t, err)

		m := NewManager(Options{Secret: "s", Password: "letmein", PasswordHash: string(hash)})

		assert.NoError(t, m.CheckPassword("hashed-pass"))
		assert.ErrorIs(t, m.CheckPassword("letmein"), ErrInvalidPassword)
	})

	t.Run("Unconfigured", func(t *testing.T) {
		m := NewManager(Options{Secret: "s"})
		assert.ErrorIs(t, m.CheckPassword(""), ErrInvalidPassword)
	})
}

func TestManager_IssueVerify(t *testing.T) {
	m := NewManager(Options{Secret: "test-secret", Password: "x"})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, exp, err := m.Issue()
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), exp)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	t.Run("Expired", func(t *testing.T) {
		m.now = func() time.Time { return now.Add(25 * time.Hour) }
		defer func() { m.now = func() time.Time { return now } }()

		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewManager(Options{Secret: "other-secret"})
		other.now = m.now

		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("Wrong algorithm", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    "salesdesk",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := m.Verify("")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestManager_Cookies(t *testing.T) {
	m := NewManager(Options{Secret: "test-secret", Secure: true})

	w := httptest.NewRecorder()
	m.SetCookie(w, "tok", time.Now().Add(SessionTTL))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookie, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 86400, c.MaxAge)

	w = httptest.NewRecorder()
	m.ClearCookie(w)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestManager_Authenticated(t *testing.T) {
	m := NewManager(Options{Secret: "test-secret"})
	token, _, err := m.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, m.Authenticated(req))

	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	assert.True(t, m.Authenticated(req))
}
