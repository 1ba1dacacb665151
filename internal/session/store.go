// Package session holds the signed-in user and bearer token, persisted to
// durable storage so a session survives between runs.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/logging"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/store"
)

// Persisted keys.
const (
	TokenKey = "token"
	UserKey  = "user"
)

const (
	loginFallback    = "login failed"
	registerFallback = "registration failed"
)

// Authenticator is the part of the API the session needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Register(ctx context.Context, name, email, password string) error
}

// Invalidator drops per-user cached data on logout.
type Invalidator interface {
	Invalidate(userKey string) error
}

// Result is the outcome of Login or Register. Error is a message for the
// user and is empty on success.
type Result struct {
	Success bool
	Error   string
}

// Store is the current session. It is safe for concurrent use.
type Store struct {
	storage store.Storage
	auth    Authenticator
	cache   Invalidator
	log     *logrus.Entry
	now     func() time.Time

	mu      sync.RWMutex
	user    *model.User
	token   string
	loading bool
}

// New returns a store that is loading until Hydrate is called.
func New(storage store.Storage, auth Authenticator, cache Invalidator, logger *logrus.Logger) *Store {
	return &Store{
		storage: storage,
		auth:    auth,
		cache:   cache,
		log:     logging.Component(logger, "session"),
		now:     time.Now,
		loading: true,
	}
}

// Hydrate restores a persisted session. A token that is a JWT past its
// expiry is discarded along with the user.
func (s *Store) Hydrate() {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, okTok, err := s.storage.Get(TokenKey)
	if err != nil {
		s.log.WithError(err).Warn("reading persisted token")
		return
	}
	raw, okUser, err := s.storage.Get(UserKey)
	if err != nil {
		s.log.WithError(err).Warn("reading persisted user")
		return
	}
	if !okTok || !okUser || token == "" {
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.WithError(err).Warn("persisted user is unreadable, ignoring session")
		return
	}
	if expired(token, s.now()) {
		s.log.Info("persisted session expired, discarding")
		s.clearPersisted()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.log.WithField("user", user.Email).Debug("session restored")
}

// expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens never expire client-side.
func expired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(now)
}

// Loading is true until Hydrate has finished.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	return s.User() != nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login signs in and persists the session. It never returns a Go error;
// failures come back in Result.Error.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).WithField("user", email).Info("login failed")
		return Result{Error: api.Message(err, loginFallback)}
	}

	data, err := json.Marshal(sess.User)
	if err != nil {
		return Result{Error: loginFallback}
	}
	if err := s.storage.Set(TokenKey, sess.Token); err != nil {
		s.log.WithError(err).Error("persisting token")
		return Result{Error: "could not save the session"}
	}
	if err := s.storage.Set(UserKey, string(data)); err != nil {
		s.log.WithError(err).Error("persisting user")
		_ = s.storage.Delete(TokenKey)
		return Result{Error: "could not save the session"}
	}

	s.mu.Lock()
	user := sess.User
	s.user = &user
	s.token = sess.Token
	s.mu.Unlock()

	s.log.WithField("user", user.Email).Info("logged in")
	return Result{Success: true}
}

// Register creates the account and then logs in with the same
// credentials. A failed login is the overall result.
func (s *Store) Register(ctx context.Context, name, email, password string) Result {
	if err := s.auth.Register(ctx, name, email, password); err != nil {
		s.log.WithError(err).WithField("user", email).Info("registration failed")
		return Result{Error: api.Message(err, registerFallback)}
	}
	s.log.WithField("user", email).Info("registered")
	return s.Login(ctx, email, password)
}

// Logout drops the outgoing user's cached analysis, the persisted session
// and the in-memory state.
func (s *Store) Logout() {
	if key := s.outgoingUserKey(); key != "" && s.cache != nil {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.WithError(err).Warn("clearing analysis cache")
		}
	}
	s.clearPersisted()

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// outgoingUserKey prefers the persisted user, as that is what the cache
// entries were written under.
func (s *Store) outgoingUserKey() string {
	if raw, ok, err := s.storage.Get(UserKey); err == nil && ok {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			return u.CacheKey()
		}
	}
	if u := s.User(); u != nil {
		return u.CacheKey()
	}
	return ""
}

func (s *Store) clearPersisted() {
	if err := s.storage.Delete(TokenKey, UserKey); err != nil {
		s.log.WithError(err).Warn("removing persisted session")
	}
}

// HandleUnauthorized ends the session after the backend rejected the
// token.
func (s *Store) HandleUnauthorized() {
	if !s.IsAuthenticated() {
		return
	}
	s.log.Info("backend rejected the session, logging out")
	s.Logout()
}
