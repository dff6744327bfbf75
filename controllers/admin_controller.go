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
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// AdminController handles the moderation login and dashboard. Admin sessions
// are separate from user sessions and carry their own cookie.
type AdminController struct {
	admins repos.AdminRepo
	users  repos.UserRepo
	posts  repos.PostRepo
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(admins repos.AdminRepo, users repos.UserRepo, posts repos.PostRepo) *AdminController {
	return &AdminController{admins: admins, users: users, posts: posts}
}

// LoginPage serves the admin login state, echoing the failure flag from a
// previous attempt.
func (a *AdminController) LoginPage(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"error": ctx.Query("error") == "1"})
}

// Login verifies moderation credentials. Failures bounce back to the login
// page with an error flag rather than an API error.
func (a *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.Redirect(http.StatusFound, "/adminLogin?error=1")
		return
	}

	admin, err := a.admins.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(admin.PasswordHash, req.Password) {
		ctx.Redirect(http.StatusFound, "/adminLogin?error=1")
		return
	}

	ttl := middleware.SessionTTL()
	token, err := utils.GenerateToken(admin.ID, admin.Username, utils.RoleAdmin, ttl)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/adminLogin?error=1")
		return
	}

	middleware.SetSessionCookie(ctx, middleware.AdminSessionCookie, token, ttl)
	ctx.Redirect(http.StatusFound, "/admin")
}

// Dashboard lists every user with their posts and current note, newest
// accounts first.
func (a *AdminController) Dashboard(ctx *gin.Context) {
	users, err := a.users.ListAllWithContent()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}

	// Hide notes whose expiry has passed but whose row the sweeper has not
	// collected yet.
	now := time.Now()
	for i := range users {
		if users[i].Note != nil && users[i].Note.Expired(now) {
			users[i].Note = nil
		}
	}

	utils.Success(ctx, gin.H{"users": users})
}

// DeleteUser removes an account and everything it owns.
func (a *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := uintParam(ctx, "userId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid user id")
		return
	}

	if err := a.users.DeleteCascade(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to delete user")
		return
	}

	utils.Respond(ctx, http.StatusOK, 0, "user deleted", nil)
}

// DeletePost removes any post, regardless of owner.
func (a *AdminController) DeletePost(ctx *gin.Context) {
	id, ok := uintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid post id")
		return
	}

	if _, err := a.posts.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to delete post")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:detail:")
	utils.Respond(ctx, http.StatusOK, 0, "post deleted", nil)
}
