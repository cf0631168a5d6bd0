package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/exalaa/candidate-client/internal/client/repositories/metadata"
	"github.com/exalaa/candidate-client/internal/dbx"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const (
	keyToken = "token"
	keyEmail = "email"
)

// EvictReason tells listeners why the credential went away.
type EvictReason int

const (
	ReasonLogout EvictReason = iota + 1
	ReasonAuthFailure
	ReasonExpired
)

func (r EvictReason) String() string {
	switch r {
	case ReasonLogout:
		return "logout"
	case ReasonAuthFailure:
		return "auth_failure"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TokenSource exposes the live credential read-only.
type TokenSource interface {
	Token() string
}

// Store keeps at most one credential per scope, in memory and in the local
// database.
type Store struct {
	db    *sql.DB
	repo  metadata.Repository
	clock clockwork.Clock
	log   logging.Logger

	mu        sync.RWMutex
	token     string
	email     string
	listeners map[int]func(EvictReason)
	nextID    int
}

// NewStore returns a store persisting into the slots of scope.
func NewStore(db *sql.DB, scope string, clock clockwork.Clock, log logging.Logger) *Store {
	return &Store{
		db:        db,
		repo:      metadata.NewSQLiteRepository(db, scope),
		clock:     clock,
		log:       log.With("component", "session", "scope", scope),
		listeners: make(map[int]func(EvictReason)),
	}
}

// Load reads the persisted credential into memory and reports whether one
// is live. A JWT whose exp has already passed is evicted instead.
func (s *Store) Load(ctx context.Context) (bool, error) {
	slots, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	token := string(slots[keyToken])
	if token == "" {
		return false, nil
	}

	if expiredAt, ok := tokenExpiry(token); ok && !s.clock.Now().Before(expiredAt) {
		s.mu.Lock()
		s.token, s.email = token, string(slots[keyEmail])
		s.mu.Unlock()
		s.log.Info(ctx, "persisted token expired", "exp", expiredAt)
		return false, s.Clear(ctx, ReasonExpired)
	}

	s.mu.Lock()
	s.token = token
	s.email = string(slots[keyEmail])
	s.mu.Unlock()
	return true, nil
}

// Token returns the live credential or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the address the live credential was issued to, if known.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Set persists token together with its owner e-mail and makes it live.
// Nothing changes in memory if the write fails.
func (s *Store) Set(ctx context.Context, token, email string) error {
	if token == "" {
		return fmt.Errorf("save session: empty token")
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, _ dbx.DBTX) error {
		if err := s.repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return s.repo.Set(ctx, keyEmail, []byte(email))
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.token, s.email = token, email
	s.mu.Unlock()
	return nil
}

// Clear evicts the credential and notifies listeners once. Clearing an
// empty store is a no-op, so concurrent auth failures tear down only once.
// The in-memory value is dropped even when the durable delete fails.
func (s *Store) Clear(ctx context.Context, reason EvictReason) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	s.token, s.email = "", ""
	listeners := make([]func(EvictReason), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	err := s.repo.Clear(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to clear persisted session", "error", err)
		err = fmt.Errorf("clear session: %w", err)
	}
	s.log.Info(ctx, "session evicted", "reason", reason.String())

	for _, fn := range listeners {
		fn(reason)
	}
	return err
}

// OnEvict registers fn to run after every eviction. Listeners run on the
// evicting goroutine without the store lock held. The returned func
// unregisters fn.
func (s *Store) OnEvict(fn func(EvictReason)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// tokenExpiry returns the exp claim of a JWT. Opaque tokens and JWTs
// without exp report ok=false. The signature is not checked; only the
// server can do that.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
