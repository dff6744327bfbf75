package repos

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

func TestToggleLikeFlipsAndRestores(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := models.Post{UserID: alice.ID, Title: "Hello"}
	if err := r.Posts.Create(&post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	liked, count, err := r.Posts.ToggleLike(post.ID, bob.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("first toggle = (%v, %d), want (true, 1)", liked, count)
	}

	liked, count, err = r.Posts.ToggleLike(post.ID, bob.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked || count != 0 {
		t.Errorf("second toggle = (%v, %d), want (false, 0)", liked, count)
	}
}

func TestToggleLikeCountsPerPost(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first := models.Post{UserID: alice.ID, Title: "one"}
	second := models.Post{UserID: alice.ID, Title: "two"}
	if err := r.Posts.Create(&first); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := r.Posts.Create(&second); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, _, err := r.Posts.ToggleLike(first.ID, alice.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, _, err := r.Posts.ToggleLike(first.ID, bob.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	count, err := r.Posts.LikeCount(first.ID)
	if err != nil {
		t.Fatalf("like count: %v", err)
	}
	if count != 2 {
		t.Errorf("likes on first = %d, want 2", count)
	}

	count, err = r.Posts.LikeCount(second.ID)
	if err != nil {
		t.Fatalf("like count: %v", err)
	}
	if count != 0 {
		t.Errorf("likes on second = %d, want 0", count)
	}
}

func TestDeletePostRemovesCommentsAndLikes(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := models.Post{UserID: alice.ID, Content: "short lived"}
	if err := r.Posts.Create(&post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := r.Comments.Create(&models.Comment{PostID: post.ID, UserID: bob.ID, Body: "nice"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, _, err := r.Posts.ToggleLike(post.ID, bob.ID); err != nil {
		t.Fatalf("toggle like: %v", err)
	}

	if err := r.Posts.Delete(post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if _, err := r.Posts.FindByID(post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("post still present, err = %v", err)
	}
	var comments, likes int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	if comments != 0 || likes != 0 {
		t.Errorf("leftovers after delete: %d comments, %d likes", comments, likes)
	}
}

func TestFindDetailLoadsAuthorsAndLikeTotal(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := models.Post{UserID: alice.ID, Title: "Hello"}
	if err := r.Posts.Create(&post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := r.Comments.Create(&models.Comment{PostID: post.ID, UserID: bob.ID, Body: "hi"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, _, err := r.Posts.ToggleLike(post.ID, bob.ID); err != nil {
		t.Fatalf("toggle like: %v", err)
	}

	detail, err := r.Posts.FindDetail(post.ID)
	if err != nil {
		t.Fatalf("find detail: %v", err)
	}
	if detail.User.Username != "alice" {
		t.Errorf("author = %q, want alice", detail.User.Username)
	}
	if len(detail.Comments) != 1 || detail.Comments[0].User.Username != "bob" {
		t.Errorf("comments not loaded with authors: %+v", detail.Comments)
	}
	if detail.LikesCount != 1 {
		t.Errorf("likes count = %d, want 1", detail.LikesCount)
	}
}
