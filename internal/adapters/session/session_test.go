package session

import (
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, key string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func newTestSession() (*Session, *clock.Mock) {
	mock := clock.NewMock()
	mock.Add(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC).Sub(mock.Now()))
	return New(Options{Secret: secret, Audience: "authenticated", Clock: mock}), mock
}

func TestLoginAndLogout(t *testing.T) {
	s, mock := newTestSession()

	var events []bool
	s.Subscribe(func(_ dto.Viewer, ok bool) {
		events = append(events, ok)
	})

	_, ok := s.Viewer()
	assert.False(t, ok)

	token := signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(mock.Now().Add(time.Hour)),
	})
	require.NoError(t, s.Login(token))

	viewer, ok := s.Viewer()
	assert.True(t, ok)
	assert.Equal(t, "user-1", viewer.UserID)
	assert.Equal(t, dto.SurfaceHome, viewer.Surface)

	s.Navigate(dto.SurfaceLanding)
	viewer, ok = s.Viewer()
	assert.True(t, ok)
	assert.True(t, viewer.OnLanding())

	s.Logout()
	_, ok = s.Viewer()
	assert.False(t, ok)

	assert.Equal(t, []bool{true, true, false}, events)
}

func TestExpiredTokenEndsSession(t *testing.T) {
	s, mock := newTestSession()

	require.NoError(t, s.Login(signToken(t, secret, jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(mock.Now().Add(time.Minute)),
	})))

	mock.Add(2 * time.Minute)
	_, ok := s.Viewer()
	assert.False(t, ok)
}

func TestLoginRejectsBadTokens(t *testing.T) {
	s, mock := newTestSession()
	exp := jwt.NewNumericDate(mock.Now().Add(time.Hour))

	testCases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", signToken(t, "another-secret-another-secret-000000", jwt.RegisteredClaims{Subject: "u", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp})},
		{"expired", signToken(t, secret, jwt.RegisteredClaims{Subject: "u", Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: jwt.NewNumericDate(mock.Now().Add(-time.Minute))})},
		{"no expiry", signToken(t, secret, jwt.RegisteredClaims{Subject: "u", Audience: jwt.ClaimStrings{"authenticated"}})},
		{"wrong audience", signToken(t, secret, jwt.RegisteredClaims{Subject: "u", Audience: jwt.ClaimStrings{"anon"}, ExpiresAt: exp})},
		{"no subject", signToken(t, secret, jwt.RegisteredClaims{Audience: jwt.ClaimStrings{"authenticated"}, ExpiresAt: exp})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Login(tc.token)
			assert.ErrorIs(t, err, errorz.ErrInvalidToken)
			_, ok := s.Viewer()
			assert.False(t, ok)
		})
	}
}
