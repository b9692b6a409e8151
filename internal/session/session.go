// Package session owns the identity of the current visitor.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/storage"
)

type State string

const (
	StateUnknown       State = "unknown"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Snapshot is an immutable view of the session.
type Snapshot struct {
	State State        `json:"state"`
	User  *models.User `json:"user,omitempty"`
}

func (s Snapshot) Authenticated() bool { return s.State == StateAuthenticated && s.User != nil }

func (s Snapshot) Role() models.Role {
	if !s.Authenticated() {
		return ""
	}
	return s.User.Role.Tier()
}

// AuthAPI is the slice of the backend the session depends on.
type AuthAPI interface {
	Signup(ctx context.Context, r models.Registration) (apiclient.Message, error)
	VerifyActivationOTP(ctx context.Context, email, otp string) (apiclient.Message, error)
	ResendActivationOTP(ctx context.Context, email string) (apiclient.Message, error)
	ExchangeCredentials(ctx context.Context, email, password string, role models.Role) (string, error)
	FetchProfile(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (models.User, error)
	DeleteAccount(ctx context.Context, token string) error
	PasswordResetVerifyEmail(ctx context.Context, email string) (apiclient.Message, error)
	PasswordResetVerifyOTP(ctx context.Context, email, otp string) (apiclient.Message, error)
	PasswordResetConfirm(ctx context.Context, email, newPassword1, newPassword2 string) (apiclient.Message, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (apiclient.Message, error)
}

type Manager struct {
	api      AuthAPI
	tokens   *storage.TokenStore
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time

	// commit serializes transitions that touch both the state and the
	// persisted token.
	commit sync.Mutex

	mu    sync.RWMutex
	state State
	user  *models.User
	token string
	gen   uint64

	guard inFlight
}

func New(api AuthAPI, tokens *storage.TokenStore, n notify.Notifier, l *slog.Logger) *Manager {
	if n == nil {
		n = notify.Nop{}
	}
	if l == nil {
		l = logging.Discard()
	}
	return &Manager{
		api:      api,
		tokens:   tokens,
		notifier: n,
		logger:   l.With("component", "session"),
		now:      time.Now,
		state:    StateUnknown,
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{State: m.state}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// Token returns the bearer token of an authenticated session, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated {
		return ""
	}
	return m.token
}

func (m *Manager) setAuthenticated(token string, u models.User) {
	m.mu.Lock()
	m.state, m.user, m.token = StateAuthenticated, &u, token
	m.gen++
	m.mu.Unlock()
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	m.state, m.user, m.token = StateAnonymous, nil, ""
	m.gen++
	m.mu.Unlock()
}

// generation changes on every state transition.
func (m *Manager) generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// commitIf applies a transition only if no other transition happened since gen
// was read.
func (m *Manager) commitIf(gen uint64, apply func()) bool {
	m.commit.Lock()
	defer m.commit.Unlock()
	if m.generation() != gen {
		return false
	}
	apply()
	return true
}

// dropSession forgets the user and the persisted token. A storage failure is
// logged only: the in-memory state is anonymous regardless.
func (m *Manager) dropSession(ctx context.Context, reason string) {
	m.commit.Lock()
	defer m.commit.Unlock()
	m.clearLocked(ctx, reason)
}

func (m *Manager) clearLocked(ctx context.Context, reason string) {
	m.setAnonymous()
	if m.tokens == nil {
		return
	}
	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Warn("token_clear_failed", "reason", reason, "error", err)
	}
}

func (m *Manager) notify(ctx context.Context, kind notify.Kind, typ, msg string, fields map[string]any) {
	m.notifier.Notify(ctx, notify.Notice{Kind: kind, Type: typ, Message: msg, Fields: fields})
}

// fail normalizes err, drops the session when the backend rejected our token,
// and raises an error notice.
func (m *Manager) fail(ctx context.Context, op string, err error) *apperr.Error {
	e := apperr.Normalize(err)
	if op != "login" {
		m.Invalidate(ctx, e)
	}
	if e.Kind == apperr.KindFailed {
		m.logger.Warn(op+"_failed", "kind", e.Kind, "error", err)
	} else {
		m.logger.Info(op+"_rejected", "kind", e.Kind, "field", e.Field, "reason", e.Message)
	}
	m.notify(ctx, notify.KindError, "session."+op+"_failed", e.Message, nil)
	return e
}

// Invalidate drops the session when err shows the backend rejected our token.
// It reports whether the session was dropped.
func (m *Manager) Invalidate(ctx context.Context, err error) bool {
	e := apperr.Normalize(err)
	if e == nil || e.Kind != apperr.KindInvalidCredentials {
		return false
	}
	if e.Status != http.StatusUnauthorized && e.Status != http.StatusForbidden {
		return false
	}
	m.logger.Info("session_dropped", "status", e.Status, "reason", e.Message)
	m.dropSession(ctx, "invalidate")
	return true
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Hydrate turns a persisted token into a session. It never fails: every problem
// ends in the anonymous state. A login or logout that completes while Hydrate
// waits on the backend wins, and the stale result is discarded.
func (m *Manager) Hydrate(ctx context.Context) Snapshot {
	done, err := m.guard.begin("hydrate")
	if err != nil {
		return m.Snapshot()
	}
	defer done()

	l := m.logger.With("op", "hydrate")
	gen := m.generation()
	anonymous := func() { m.commitIf(gen, m.setAnonymous) }
	drop := func() {
		if !m.commitIf(gen, func() { m.clearLocked(ctx, "hydrate") }) {
			l.Info("hydrate_superseded")
		}
	}

	if m.tokens == nil {
		anonymous()
		return m.Snapshot()
	}
	token, err := m.tokens.Load(ctx)
	if err != nil {
		l.Warn("hydrate_failed", "reason", "token read", "error", err)
		anonymous()
		return m.Snapshot()
	}
	if token == "" {
		anonymous()
		return m.Snapshot()
	}
	if tokenExpired(token, m.now()) {
		l.Info("hydrate_skipped", "reason", "token expired")
		drop()
		return m.Snapshot()
	}

	u, err := m.api.FetchProfile(ctx, token)
	if err != nil {
		e := apperr.Normalize(err)
		l.Info("hydrate_failed", "kind", e.Kind, "status", e.Status, "reason", e.Message)
		if e.Kind == apperr.KindFailed {
			anonymous()
		} else {
			drop()
		}
		return m.Snapshot()
	}

	if !m.commitIf(gen, func() { m.setAuthenticated(token, u) }) {
		l.Info("hydrate_superseded", "user_id", u.ID)
		return m.Snapshot()
	}
	l.Info("hydrated", "user_id", u.ID, "role", u.Role)
	return m.Snapshot()
}

func (m *Manager) requireToken() (string, models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated || m.user == nil {
		return "", models.User{}, apperr.ErrUnauthenticated
	}
	return m.token, *m.user, nil
}

// IsInFlight reports whether err came from a rejected duplicate call.
func IsInFlight(err error) bool { return errors.Is(err, apperr.ErrInFlight) }
