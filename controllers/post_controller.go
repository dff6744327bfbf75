package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/storage"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// PostController manages the feed, posts, comments and likes.
type PostController struct {
	posts    repos.PostRepo
	comments repos.CommentRepo
	notes    repos.NoteRepo
	users    repos.UserRepo
	uploader storage.ImageUploader
}

// NewPostController creates a new PostController instance.
func NewPostController(posts repos.PostRepo, comments repos.CommentRepo, notes repos.NoteRepo, users repos.UserRepo, uploader storage.ImageUploader) *PostController {
	return &PostController{posts: posts, comments: comments, notes: notes, users: users, uploader: uploader}
}

// Feed assembles the home timeline: the viewer, live notes, the newest
// accounts and every post with comments and like totals.
func (p *PostController) Feed(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	viewer, err := p.users.FindByID(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load feed")
		return
	}

	notes, err := p.notes.ListLive()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load feed")
		return
	}

	latest, err := p.users.ListLatest(5)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load feed")
		return
	}

	posts, err := p.posts.ListFeed()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load feed")
		return
	}

	utils.Success(ctx, gin.H{
		"user":         viewer,
		"notes":        notes,
		"latest_users": latest,
		"posts":        posts,
	})
}

// CreatePost accepts the composer form. A post needs at least one of a
// picture, a title or a body.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	content := utils.Sanitize(strings.TrimSpace(ctx.PostForm("content")))

	if len(title) > models.PostTitleMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40030, "title is too long")
		return
	}
	if len(content) > models.PostContentMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40031, "content is too long")
		return
	}

	pictureURL := ""
	if file, err := ctx.FormFile("picture"); err == nil && file != nil {
		if p.uploader == nil {
			utils.Error(ctx, http.StatusServiceUnavailable, 50310, "image uploads are not configured")
			return
		}
		src, err := file.Open()
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40032, "unreadable picture upload")
			return
		}
		defer src.Close()

		pictureURL, err = p.uploader.Upload(ctx.Request.Context(), src, file.Size, file.Filename, file.Header.Get("Content-Type"))
		if err != nil {
			utils.Sugar.Errorw("upload post picture", "error", err)
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store picture")
			return
		}
	}

	if title == "" && content == "" && pictureURL == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "post cannot be empty")
		return
	}

	post := models.Post{
		UserID:     userID,
		Title:      title,
		Content:    content,
		PictureURL: pictureURL,
	}
	if err := p.posts.Create(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create post")
		return
	}

	ctx.Redirect(http.StatusFound, "/index")
}

// PostDetail returns one post with author, ordered comments and like total.
func (p *PostController) PostDetail(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid post id")
		return
	}

	cacheKey := "cache:posts:detail:" + strconv.FormatUint(uint64(id), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.posts.FindDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load post")
		return
	}

	utils.Success(ctx, gin.H{"post": post})
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"post": post}}, time.Minute)
}

// DeletePost removes the caller's own post together with its comments and
// likes.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, ok := uintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid post id")
		return
	}

	post, err := p.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete post")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only delete your own posts")
		return
	}

	if err := p.posts.Delete(id); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete post")
		return
	}

	p.invalidateDetail(id)
	utils.Respond(ctx, http.StatusOK, 0, "post deleted", nil)
}

// ToggleLike flips the caller's like on a post and returns the new state and
// total. The response shape matches what the feed script expects.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, ok := uintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid post id")
		return
	}

	if _, err := p.posts.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to toggle like")
		return
	}

	liked, count, err := p.posts.ToggleLike(id, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to toggle like")
		return
	}

	p.invalidateDetail(id)
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"liked":      liked,
		"likesCount": count,
	})
}

// AddComment appends a reply to a post.
func (p *PostController) AddComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, ok := uintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid post id")
		return
	}

	var req struct {
		Body string `form:"text_comment" json:"text_comment"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, "invalid request payload")
		return
	}

	body := utils.Sanitize(strings.TrimSpace(req.Body))
	if body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40036, "comment cannot be empty")
		return
	}

	if _, err := p.posts.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to add comment")
		return
	}

	comment := models.Comment{PostID: id, UserID: userID, Body: body}
	if err := p.comments.Create(&comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to add comment")
		return
	}

	full, err := p.comments.FindWithUser(comment.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to add comment")
		return
	}

	p.invalidateDetail(id)
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"comment": full})
}

func (p *PostController) invalidateDetail(postID uint) {
	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.FormatUint(uint64(postID), 10))
}
