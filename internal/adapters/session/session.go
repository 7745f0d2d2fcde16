package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

// Listener is called after every change of the session
type Listener func(viewer dto.Viewer, authenticated bool)

type Options struct {
	// Secret verifies HS256 access tokens issued by the auth backend
	Secret   string
	Audience string
	Clock    clock.Clock
	Logger   *types.Logger
}

// Session tracks the authenticated viewer and the surface they are on
type Session struct {
	mu        sync.RWMutex
	secret    []byte
	audience  string
	clock     clock.Clock
	userID    string
	expiresAt time.Time
	surface   string

	listenersMu sync.Mutex
	listeners   []Listener

	logger *types.Logger
}

func New(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = types.Nop()
	}
	return &Session{
		secret:   []byte(opts.Secret),
		audience: opts.Audience,
		clock:    opts.Clock,
		surface:  dto.SurfaceLanding,
		logger:   opts.Logger,
	}
}

func (s *Session) Subscribe(listener Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Login verifies an access token and makes its subject the viewer
func (s *Session) Login(token string) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if s.audience != "" {
		options = append(options, jwt.WithAudience(s.audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, options...)
	if err != nil {
		return fmt.Errorf("%w: %w", errorz.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return fmt.Errorf("%w: missing subject", errorz.ErrInvalidToken)
	}

	s.mu.Lock()
	s.userID = claims.Subject
	s.expiresAt = claims.ExpiresAt.Time
	if s.surface == dto.SurfaceLanding {
		s.surface = dto.SurfaceHome
	}
	s.mu.Unlock()

	s.logger.Infof("Viewer signed in (user_id=%s, expires_at=%s)", claims.Subject, claims.ExpiresAt.Time.Format(time.RFC3339))
	s.publish()
	return nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	userID := s.userID
	s.userID = ""
	s.expiresAt = time.Time{}
	s.surface = dto.SurfaceLanding
	s.mu.Unlock()

	if userID != "" {
		s.logger.Infof("Viewer signed out (user_id=%s)", userID)
	}
	s.publish()
}

// Navigate records the surface the viewer moved to
func (s *Session) Navigate(surface string) {
	s.mu.Lock()
	changed := s.surface != surface
	s.surface = surface
	s.mu.Unlock()

	if changed {
		s.publish()
	}
}

// Viewer returns the signed-in viewer; an expired token counts as signed out
func (s *Session) Viewer() (dto.Viewer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewerLocked()
}

func (s *Session) viewerLocked() (dto.Viewer, bool) {
	viewer := dto.Viewer{UserID: s.userID, Surface: s.surface}
	if s.userID == "" || !s.clock.Now().Before(s.expiresAt) {
		return viewer, false
	}
	return viewer, true
}

func (s *Session) publish() {
	s.mu.RLock()
	viewer, ok := s.viewerLocked()
	s.mu.RUnlock()

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for _, listener := range s.listeners {
		listener(viewer, ok)
	}
}
