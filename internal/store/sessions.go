package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erazemk/nadzor/internal/model"
)

// CreateSession persists a new login session. The backend cookie is stored
// as an opaque blob; callers seal it before handing it over.
func CreateSession(ctx context.Context, db *sql.DB, id string, backendCookie []byte, user *model.User, expiresAt time.Time) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, backend_cookie, user_json, expires_at) VALUES (?, ?, ?, ?)`,
		id, backendCookie, string(userJSON), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID along with its sealed backend cookie,
// or nil if no such session exists.
func GetSession(ctx context.Context, db *sql.DB, id string) (*model.Session, []byte, error) {
	var (
		cookie   []byte
		userJSON string
		sess     = &model.Session{ID: id}
	)
	err := db.QueryRowContext(ctx,
		`SELECT backend_cookie, user_json, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&cookie, &userJSON, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting session: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal([]byte(userJSON), user); err != nil {
		return nil, nil, fmt.Errorf("decoding session user: %w", err)
	}
	sess.User = user

	return sess, cookie, nil
}

// UpdateSessionUser replaces the cached user profile on a session.
func UpdateSessionUser(ctx context.Context, db *sql.DB, id string, user *model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE sessions SET user_json = ? WHERE id = ?`, string(userJSON), id,
	)
	if err != nil {
		return fmt.Errorf("updating session user: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Deleting an unknown ID is not an error.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	// Opportunistically clean up expired sessions.
	_, _ = db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())

	return nil
}
