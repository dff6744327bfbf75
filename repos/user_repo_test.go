package repos

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

func TestSetPhotoAppendsGalleryOnce(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	for _, url := range []string{"https://cdn/x/a.png", "https://cdn/x/b.png", "https://cdn/x/a.png"} {
		if err := r.Users.SetPhoto(user.ID, url); err != nil {
			t.Fatalf("set photo %q: %v", url, err)
		}
	}

	updated, err := r.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.PhotoURL != "https://cdn/x/a.png" {
		t.Errorf("current photo = %q, want the last set URL", updated.PhotoURL)
	}

	var gallery []models.GalleryPhoto
	if err := db.Where("user_id = ?", user.ID).Order("id ASC").Find(&gallery).Error; err != nil {
		t.Fatalf("load gallery: %v", err)
	}
	if len(gallery) != 2 {
		t.Fatalf("gallery size = %d, want 2 (duplicate skipped)", len(gallery))
	}
	if gallery[0].URL != "https://cdn/x/a.png" || gallery[1].URL != "https://cdn/x/b.png" {
		t.Errorf("gallery order lost: %+v", gallery)
	}
}

func TestSearchByPrefix(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	for _, name := range []string{"alice", "albert", "bob"} {
		createTestUser(t, db, name)
	}

	users, err := r.Users.SearchByPrefix("al", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("matches = %d, want 2", len(users))
	}
	if users[0].Username != "albert" || users[1].Username != "alice" {
		t.Errorf("unexpected order: %q, %q", users[0].Username, users[1].Username)
	}
}

func TestProfileByUsernameOrdersPostsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	user := createTestUser(t, db, "alice")

	old := models.Post{UserID: user.ID, Title: "old", CreatedAt: time.Now().Add(-time.Hour)}
	recent := models.Post{UserID: user.ID, Title: "recent", CreatedAt: time.Now()}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	profile, err := r.Users.ProfileByUsername("alice")
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if len(profile.Posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(profile.Posts))
	}
	if profile.Posts[0].Title != "recent" {
		t.Errorf("first post = %q, want the newest", profile.Posts[0].Title)
	}
}

func TestDeleteCascadeRemovesEverythingOwned(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := models.Post{UserID: alice.ID, Title: "mine"}
	if err := r.Posts.Create(&post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	// Bob interacts with Alice's post, and Alice with the rest of the site.
	if err := r.Comments.Create(&models.Comment{PostID: post.ID, UserID: bob.ID, Body: "hey"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, _, err := r.Posts.ToggleLike(post.ID, bob.ID); err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if err := r.Users.SetPhoto(alice.ID, "https://cdn/x/a.png"); err != nil {
		t.Fatalf("set photo: %v", err)
	}
	if _, err := r.Notes.Share(alice.ID, "leaving soon", 24*time.Hour); err != nil {
		t.Fatalf("share note: %v", err)
	}

	if err := r.Users.DeleteCascade(alice.ID); err != nil {
		t.Fatalf("delete cascade: %v", err)
	}

	if _, err := r.Users.FindByID(alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("user still present, err = %v", err)
	}
	var posts, comments, likes, gallery, notes int64
	db.Model(&models.Post{}).Where("user_id = ?", alice.ID).Count(&posts)
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Model(&models.GalleryPhoto{}).Where("user_id = ?", alice.ID).Count(&gallery)
	db.Model(&models.Note{}).Where("user_id = ?", alice.ID).Count(&notes)
	if posts+comments+likes+gallery+notes != 0 {
		t.Errorf("leftovers after cascade: posts=%d comments=%d likes=%d gallery=%d notes=%d",
			posts, comments, likes, gallery, notes)
	}

	// Bob is untouched.
	if _, err := r.Users.FindByID(bob.ID); err != nil {
		t.Errorf("unrelated user affected: %v", err)
	}
}

func TestDeleteCascadeMissingUser(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)

	err := r.Users.DeleteCascade(9999)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found", err)
	}
}
