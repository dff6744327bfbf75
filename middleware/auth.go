package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashokgiriii/tweet-nepal/config"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

const (
	// SessionCookie carries the user principal.
	SessionCookie = "session"
	// AdminSessionCookie carries the admin principal. The two cookies are
	// disjoint; holding both at once is allowed.
	AdminSessionCookie = "admin_session"

	// ContextUserIDKey is the key used to store the authenticated user ID in
	// the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside the Gin context.
	ContextUsernameKey = "username"
)

// SessionTTL returns the configured session lifetime.
func SessionTTL() time.Duration {
	return time.Duration(config.Get().SessionTTLHours) * time.Hour
}

// SetSessionCookie writes an HTTP-only, SameSite-Lax session cookie.
func SetSessionCookie(ctx *gin.Context, name, token string, ttl time.Duration) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, token, int(ttl.Seconds()), "/", "", false, true)
}

// ClearSessionCookie removes a session cookie.
func ClearSessionCookie(ctx *gin.Context, name string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, "", -1, "/", "", false, true)
}

// UserRequired ensures the request carries a valid user session; otherwise it
// redirects to the landing page without leaking why.
func UserRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(SessionCookie)
		if err != nil || token == "" {
			redirectTo(ctx, "/")
			return
		}
		if utils.IsSessionRevoked(token) {
			redirectTo(ctx, "/")
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil || claims.Role != utils.RoleUser {
			redirectTo(ctx, "/")
			return
		}

		// Sliding expiry: each authenticated request re-issues the cookie
		// with a fresh window.
		ttl := SessionTTL()
		if fresh, err := utils.GenerateToken(claims.UserID, claims.Username, utils.RoleUser, ttl); err == nil {
			SetSessionCookie(ctx, SessionCookie, fresh, ttl)
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// AdminRequired ensures the request carries a valid admin session set by the
// admin login handler; otherwise it redirects to the admin login route.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(AdminSessionCookie)
		if err != nil || token == "" {
			redirectTo(ctx, "/adminLogin")
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil || claims.Role != utils.RoleAdmin {
			redirectTo(ctx, "/adminLogin")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

func redirectTo(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusFound, location)
	ctx.Abort()
}
