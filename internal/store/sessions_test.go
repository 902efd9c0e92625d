package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/nadzor/internal/db"
	"github.com/erazemk/nadzor/internal/model"
)

func TestCreateAndGetSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := &model.User{ID: "u1", Username: "mkks", Email: "mkks@example.com"}
	expires := time.Now().Add(time.Hour)

	if err := CreateSession(ctx, database, "sid-1", []byte("sealed"), user, expires); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess, cookie, err := GetSession(ctx, database, "sid-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.User.Username != "mkks" {
		t.Errorf("expected username 'mkks', got %q", sess.User.Username)
	}
	if string(cookie) != "sealed" {
		t.Errorf("expected sealed cookie, got %q", string(cookie))
	}
}

func TestGetSessionUnknown(t *testing.T) {
	database := db.NewTestDB(t)

	sess, _, err := GetSession(context.Background(), database, "missing")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session for unknown id, got %+v", sess)
	}
}

func TestUpdateSessionUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := &model.User{ID: "u1", Username: "old"}
	CreateSession(ctx, database, "sid-1", []byte("c"), user, time.Now().Add(time.Hour))

	user.Username = "new"
	user.ProfileImage = "/uploads/u1.jpg"
	if err := UpdateSessionUser(ctx, database, "sid-1", user); err != nil {
		t.Fatalf("UpdateSessionUser: %v", err)
	}

	sess, _, _ := GetSession(ctx, database, "sid-1")
	if sess.User.Username != "new" {
		t.Errorf("expected updated username 'new', got %q", sess.User.Username)
	}
	if sess.User.ProfileImage != "/uploads/u1.jpg" {
		t.Errorf("expected profile image to be cached, got %q", sess.User.ProfileImage)
	}
}

func TestDeleteSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateSession(ctx, database, "sid-1", []byte("c"), &model.User{ID: "u1"}, time.Now().Add(time.Hour))

	if err := DeleteSession(ctx, database, "sid-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	sess, _, _ := GetSession(ctx, database, "sid-1")
	if sess != nil {
		t.Error("expected session to be gone after delete")
	}

	// Deleting again must not error.
	if err := DeleteSession(ctx, database, "sid-1"); err != nil {
		t.Errorf("DeleteSession on missing id: %v", err)
	}
}

func TestDeleteSessionPrunesExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateSession(ctx, database, "stale", []byte("c"), &model.User{ID: "u1"}, time.Now().Add(-time.Hour))
	CreateSession(ctx, database, "live", []byte("c"), &model.User{ID: "u2"}, time.Now().Add(time.Hour))

	DeleteSession(ctx, database, "nonexistent")

	stale, _, _ := GetSession(ctx, database, "stale")
	if stale != nil {
		t.Error("expected expired session to be pruned")
	}
	live, _, _ := GetSession(ctx, database, "live")
	if live == nil {
		t.Error("expected live session to survive pruning")
	}
}
