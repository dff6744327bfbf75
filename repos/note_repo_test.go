package repos

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

func TestShareNoteCreatesWithExpiry(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	before := time.Now()
	note, err := r.Notes.Share(user.ID, "out for momo", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}

	if note.Body != "out for momo" {
		t.Errorf("body = %q, want %q", note.Body, "out for momo")
	}
	wantMin := before.Add(24*time.Hour - time.Minute)
	if note.ExpiresAt.Before(wantMin) {
		t.Errorf("expiry %v is earlier than expected window end", note.ExpiresAt)
	}
}

func TestShareNoteReplacesBodyKeepsExpiry(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	first, err := r.Notes.Share(user.ID, "first note", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}

	second, err := r.Notes.Share(user.ID, "buy bread", 24*time.Hour)
	if err != nil {
		t.Fatalf("re-share note: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("re-share created a new row: id %d -> %d", first.ID, second.ID)
	}
	if second.Body != "buy bread" {
		t.Errorf("body = %q, want %q", second.Body, "buy bread")
	}
	if drift := second.ExpiresAt.Sub(first.ExpiresAt); drift < -time.Second || drift > time.Second {
		t.Errorf("re-share moved the expiry: %v -> %v", first.ExpiresAt, second.ExpiresAt)
	}

	var count int64
	db.Model(&models.Note{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("note rows for user = %d, want 1", count)
	}
}

func TestShareNoteAfterExpiryOpensFreshWindow(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	stale, err := r.Notes.Share(user.ID, "old news", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}
	// Age the row past its expiry without running the sweeper.
	expired := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Note{}).Where("id = ?", stale.ID).
		Update("expires_at", expired).Error; err != nil {
		t.Fatalf("age note: %v", err)
	}

	fresh, err := r.Notes.Share(user.ID, "back again", 24*time.Hour)
	if err != nil {
		t.Fatalf("re-share after expiry: %v", err)
	}
	if !fresh.ExpiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Errorf("expired leftover did not get a fresh window: %v", fresh.ExpiresAt)
	}
}

func TestFindByUserSkipsExpired(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	note, err := r.Notes.Share(user.ID, "soon gone", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}
	if err := db.Model(&models.Note{}).Where("id = ?", note.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("age note: %v", err)
	}

	if _, err := r.Notes.FindByUser(user.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expired note still visible, err = %v", err)
	}
}

func TestListLiveExcludesExpired(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if _, err := r.Notes.Share(alice.ID, "still here", 24*time.Hour); err != nil {
		t.Fatalf("share note: %v", err)
	}
	gone, err := r.Notes.Share(bob.ID, "already gone", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}
	if err := db.Model(&models.Note{}).Where("id = ?", gone.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("age note: %v", err)
	}

	live, err := r.Notes.ListLive()
	if err != nil {
		t.Fatalf("list live notes: %v", err)
	}
	if len(live) != 1 {
		t.Fatalf("live notes = %d, want 1", len(live))
	}
	if live[0].UserID != alice.ID {
		t.Errorf("live note belongs to user %d, want %d", live[0].UserID, alice.ID)
	}
	if live[0].User.Username != "alice" {
		t.Errorf("owner not preloaded: %+v", live[0].User)
	}
}

func TestDeleteExpiredOnlyCollectsDeadRows(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if _, err := r.Notes.Share(alice.ID, "keep me", 24*time.Hour); err != nil {
		t.Fatalf("share note: %v", err)
	}
	dead, err := r.Notes.Share(bob.ID, "collect me", 24*time.Hour)
	if err != nil {
		t.Fatalf("share note: %v", err)
	}
	if err := db.Model(&models.Note{}).Where("id = ?", dead.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("age note: %v", err)
	}

	n, err := r.Notes.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("swept %d rows, want 1", n)
	}

	var remaining int64
	db.Model(&models.Note{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining notes = %d, want 1", remaining)
	}
}

func TestDeleteByIDMissingIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)

	if err := r.Notes.DeleteByID(12345); err != nil {
		t.Errorf("deleting a missing note: %v", err)
	}
}
