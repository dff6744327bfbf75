package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/middleware"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/storage"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// UserController serves public profiles, profile editing and username search.
type UserController struct {
	users    repos.UserRepo
	uploader storage.ImageUploader
}

// NewUserController creates a new UserController instance.
func NewUserController(users repos.UserRepo, uploader storage.ImageUploader) *UserController {
	return &UserController{users: users, uploader: uploader}
}

// Profile returns a user's public page: their posts, newest first, and the
// photo gallery.
func (u *UserController) Profile(ctx *gin.Context) {
	username := strings.ToLower(ctx.Param("username"))

	user, err := u.users.ProfileByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load profile")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// EditProfileForm returns the viewer's own record with gallery, so the edit
// form can offer previously used photos.
func (u *UserController) EditProfileForm(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := u.users.FindByID(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load profile")
		return
	}

	profile, err := u.users.ProfileByUsername(user.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load profile")
		return
	}

	utils.Success(ctx, gin.H{"user": profile})
}

// EditProfile updates the username and display name and, when a picture is
// attached, replaces the profile photo.
func (u *UserController) EditProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := u.users.FindByID(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update profile")
		return
	}

	changed := false
	if username := strings.ToLower(strings.TrimSpace(ctx.PostForm("username"))); username != "" && username != user.Username {
		if !usernamePattern.MatchString(username) {
			utils.Error(ctx, http.StatusBadRequest, 40022, "username must be 3-20 letters, digits or underscores")
			return
		}
		if _, err := u.users.FindByUsername(username); err == nil {
			utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update profile")
			return
		}
		user.Username = username
		changed = true
	}
	if name := strings.TrimSpace(ctx.PostForm("name")); name != "" {
		user.Name = utils.Sanitize(name)
		changed = true
	}
	if changed {
		if err := u.users.Update(user); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update profile")
			return
		}
		// The session token embeds the username; re-issue it so the claim
		// stays in step with the record.
		ttl := middleware.SessionTTL()
		if token, err := utils.GenerateToken(user.ID, user.Username, utils.RoleUser, ttl); err == nil {
			middleware.SetSessionCookie(ctx, middleware.SessionCookie, token, ttl)
		}
	}

	if url, ok := u.uploadedPicture(ctx); ok {
		if url == "" {
			return // error response already written
		}
		if err := u.users.SetPhoto(userID, url); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update profile picture")
			return
		}
	}

	utils.InvalidateByPrefix("cache:users:search:")
	ctx.Redirect(http.StatusFound, "/index")
}

// UpdateProfilePicture sets the profile photo either from an uploaded file or
// from a gallery URL the user picked, then sends the browser back where it
// came from.
func (u *UserController) UpdateProfilePicture(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	url := strings.TrimSpace(ctx.PostForm("photo_url"))
	if url == "" {
		uploaded, ok := u.uploadedPicture(ctx)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40020, "no picture provided")
			return
		}
		if uploaded == "" {
			return
		}
		url = uploaded
	}

	if err := u.users.SetPhoto(userID, url); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update profile picture")
		return
	}

	back := ctx.GetHeader("Referer")
	if back == "" {
		back = "/index"
	}
	ctx.Redirect(http.StatusFound, back)
}

// Search returns users whose username starts with the given prefix. Results
// are cached briefly since the search box fires on every keystroke.
func (u *UserController) Search(ctx *gin.Context) {
	prefix := strings.ToLower(strings.TrimSpace(ctx.Param("prefix")))
	if prefix == "" {
		utils.Success(ctx, gin.H{"users": []struct{}{}})
		return
	}

	cacheKey := "cache:users:search:" + prefix
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	users, err := u.users.SearchByPrefix(prefix, 10)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to search users")
		return
	}

	utils.Success(ctx, gin.H{"users": users})
	if ctx.Writer.Status() == http.StatusOK {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"users": users}}, 30*time.Second)
	}
}

// uploadedPicture stores the multipart "userPhoto" file when present. The
// second return value reports whether a file was attached at all; an empty
// URL with ok=true means the upload failed and the response is written.
func (u *UserController) uploadedPicture(ctx *gin.Context) (string, bool) {
	file, err := ctx.FormFile("userPhoto")
	if err != nil || file == nil {
		return "", false
	}

	if u.uploader == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "image uploads are not configured")
		return "", true
	}

	src, err := file.Open()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "unreadable picture upload")
		return "", true
	}
	defer src.Close()

	url, err := u.uploader.Upload(ctx.Request.Context(), src, file.Size, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		utils.Sugar.Errorw("upload picture", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to store picture")
		return "", true
	}
	return url, true
}
