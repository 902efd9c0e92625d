package model

import "time"

// Session is the authenticated identity shared across the console. A session
// exists only while the user is logged in; resolving a cookie to a session is
// the login check.
type Session struct {
	ID        string
	User      *User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
