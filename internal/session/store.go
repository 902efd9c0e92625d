// Package session owns the console's login state: one session row per
// logged-in browser, carrying the cached user profile and the sealed backend
// cookie. The session is the only state that survives restarts; everything
// else (collection pages, drafts) is rebuilt per login.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/nadzor/internal/auth"
	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/model"
	"github.com/erazemk/nadzor/internal/store"
)

// ErrNoSession is returned when a cookie does not resolve to a live session.
var ErrNoSession = errors.New("no session")

// Store manages login sessions.
type Store struct {
	db      *sql.DB
	backend *backend.Client
	secret  string
}

// NewStore creates a session store backed by the given database and backend
// client, signing cookies with secret.
func NewStore(db *sql.DB, client *backend.Client, secret string) *Store {
	return &Store{db: db, backend: client, secret: secret}
}

// Login authenticates against the backend and creates a local session. It
// returns the session and the signed cookie value for the browser. Invalid
// credentials surface as backend.ErrUnauthenticated.
func (s *Store) Login(ctx context.Context, username, password string) (*model.Session, string, error) {
	user, cookie, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	sealed, err := sealCookie(s.secret, cookie)
	if err != nil {
		return nil, "", fmt.Errorf("sealing backend cookie: %w", err)
	}

	sid := uuid.NewString()
	expires := time.Now().Add(auth.TokenExpiry)
	if err := store.CreateSession(ctx, s.db, sid, sealed, user, expires); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.secret, sid, user.Username)
	if err != nil {
		return nil, "", err
	}

	return &model.Session{ID: sid, User: user, ExpiresAt: expires}, token, nil
}

// Resolve validates a browser cookie and loads its session along with the
// backend cookie to replay on API calls. Unknown, invalid and expired
// cookies all map to ErrNoSession.
func (s *Store) Resolve(ctx context.Context, token string) (*model.Session, string, error) {
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return nil, "", ErrNoSession
	}

	sess, sealed, err := store.GetSession(ctx, s.db, claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if sess == nil {
		return nil, "", ErrNoSession
	}
	if sess.Expired() {
		_ = store.DeleteSession(ctx, s.db, sess.ID)
		return nil, "", ErrNoSession
	}

	cookie, err := openCookie(s.secret, sealed)
	if err != nil {
		// Secret rotated or row corrupted; the session is unusable.
		_ = store.DeleteSession(ctx, s.db, sess.ID)
		return nil, "", ErrNoSession
	}

	return sess, cookie, nil
}

// Logout ends a session: best-effort backend logout, then unconditional
// removal of the local row. Network failures only cost the backend-side
// invalidation.
func (s *Store) Logout(ctx context.Context, sid string) error {
	_, sealed, err := store.GetSession(ctx, s.db, sid)
	if err == nil && sealed != nil {
		if cookie, err := openCookie(s.secret, sealed); err == nil {
			if err := s.backend.Logout(ctx, cookie); err != nil {
				slog.Warn("backend logout failed", "error", err)
			}
		}
	}

	return store.DeleteSession(ctx, s.db, sid)
}

// Invalidate removes the local session without calling the backend, for when
// a 401 has already shown the backend cookie to be dead.
func (s *Store) Invalidate(ctx context.Context, sid string) {
	if err := store.DeleteSession(ctx, s.db, sid); err != nil {
		slog.Error("failed to invalidate session", "sid", sid, "error", err)
	}
}

// RefreshProfile re-fetches the current user's profile and updates the
// session's cached copy. A 401 invalidates the session and propagates
// backend.ErrUnauthenticated so the caller can redirect to login.
func (s *Store) RefreshProfile(ctx context.Context, sid string) (*model.User, error) {
	sess, cookie, err := s.resolveByID(ctx, sid)
	if err != nil {
		return nil, err
	}

	user, err := s.backend.Profile(ctx, cookie)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthenticated) {
			s.Invalidate(ctx, sid)
		}
		return nil, err
	}

	if err := store.UpdateSessionUser(ctx, s.db, sess.ID, user); err != nil {
		slog.Error("failed to cache refreshed profile", "sid", sid, "error", err)
	}

	return user, nil
}

func (s *Store) resolveByID(ctx context.Context, sid string) (*model.Session, string, error) {
	sess, sealed, err := store.GetSession(ctx, s.db, sid)
	if err != nil {
		return nil, "", err
	}
	if sess == nil || sess.Expired() {
		return nil, "", ErrNoSession
	}

	cookie, err := openCookie(s.secret, sealed)
	if err != nil {
		return nil, "", ErrNoSession
	}
	return sess, cookie, nil
}
