package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/config"
	"github.com/ashokgiriii/tweet-nepal/middleware"
	"github.com/ashokgiriii/tweet-nepal/models"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// AuthController handles registration, login, logout and OAuth sign-in.
type AuthController struct {
	users repos.UserRepo
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users repos.UserRepo) *AuthController {
	return &AuthController{users: users}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// Register creates a user account from the welcome form and starts a session.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Name     string `form:"name" json:"name"`
		Password string `form:"password" json:"password"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !usernamePattern.MatchString(username) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "username must be 3-20 letters, digits or underscores")
		return
	}
	if len(req.Password) < 6 {
		utils.Error(ctx, http.StatusBadRequest, 40012, "password must be at least 6 characters")
		return
	}

	if _, err := a.users.FindByUsername(username); err == nil {
		utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create user")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create user")
		return
	}

	user := models.User{
		Username:     username,
		Name:         utils.Sanitize(strings.TrimSpace(req.Name)),
		PasswordHash: hash,
	}
	if err := a.users.Create(&user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create user")
		return
	}

	a.startSession(ctx, &user)
	ctx.Redirect(http.StatusFound, "/index")
}

// CheckUsername is the live availability probe behind the registration form.
// The form script only looks at the message field: empty means free.
func (a *AuthController) CheckUsername(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, "username is required")
		return
	}

	if _, err := a.users.FindByUsername(username); err == nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "Username already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to check username")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": ""})
}

// Login verifies credentials and starts a session. Failures land back on the
// welcome page without detail.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	user, err := a.users.FindByUsername(strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil || user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	a.startSession(ctx, user)
	ctx.Redirect(http.StatusFound, "/index")
}

// Logout revokes the current session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.RevokeSession(token, claims.ExpiresAt.Time)
		}
	}
	middleware.ClearSessionCookie(ctx, middleware.SessionCookie)
	ctx.Redirect(http.StatusFound, "/")
}

// OAuthRedirect sends the browser to the provider's consent page.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	provider := ctx.Param("provider")
	cfg, err := oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	ctx.Redirect(http.StatusFound, cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// OAuthCallback exchanges the code, resolves or creates the local account and
// starts a session.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")

	state := ctx.Query("state")
	if state == "" || !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid oauth state")
		return
	}

	cfg, err := oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, err.Error())
		return
	}

	token, err := cfg.Exchange(ctx.Request.Context(), ctx.Query("code"))
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50210, "oauth exchange failed")
		return
	}

	info, err := fetchOAuthUser(provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50211, "failed to fetch oauth profile")
		return
	}

	user, err := a.findOrCreateOAuthUser(provider, info)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to sign in")
		return
	}

	a.startSession(ctx, user)
	ctx.Redirect(http.StatusFound, "/index")
}

func (a *AuthController) startSession(ctx *gin.Context, user *models.User) {
	ttl := middleware.SessionTTL()
	token, err := utils.GenerateToken(user.ID, user.Username, utils.RoleUser, ttl)
	if err != nil {
		utils.Sugar.Errorw("issue session token", "error", err)
		return
	}
	middleware.SetSessionCookie(ctx, middleware.SessionCookie, token, ttl)
}

func (a *AuthController) findOrCreateOAuthUser(provider string, info *oauthUser) (*models.User, error) {
	user, err := a.users.FindByProvider(provider, info.ID)
	if err == nil {
		if info.AvatarURL != "" && info.AvatarURL != user.PhotoURL {
			if err := a.users.SetPhoto(user.ID, info.AvatarURL); err == nil {
				user.PhotoURL = info.AvatarURL
			}
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{
		Username:   a.ensureUniqueUsername(info.Username, provider, info.ID),
		Name:       info.DisplayName,
		Provider:   provider,
		ProviderID: info.ID,
		PhotoURL:   info.AvatarURL,
	}
	if err := a.users.Create(user); err != nil {
		return nil, err
	}
	if user.PhotoURL != "" {
		_ = a.users.SetPhoto(user.ID, user.PhotoURL)
	}
	return user, nil
}

// ensureUniqueUsername derives a local username from the provider handle,
// falling back to a provider-derived suffix on collision.
func (a *AuthController) ensureUniqueUsername(candidate, provider, providerID string) string {
	base := strings.ToLower(strings.TrimSpace(candidate))
	if i := strings.IndexByte(base, '@'); i > 0 {
		base = base[:i]
	}
	base = nonUsernameChars.ReplaceAllString(base, "")
	if base == "" {
		base = provider + "_user"
	}

	if _, err := a.users.FindByUsername(base); errors.Is(err, gorm.ErrRecordNotFound) {
		return base
	}

	suffix := providerID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s_%s%s", base, provider, suffix)
}

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9_]`)

func oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	switch strings.ToLower(provider) {
	case "github":
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, fmt.Errorf("github oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  fmt.Sprintf("%s/auth/github/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("%s/auth/google/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

type oauthUser struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
}

func fetchOAuthUser(provider string, token *oauth2.Token) (*oauthUser, error) {
	switch strings.ToLower(provider) {
	case "github":
		return fetchGitHubUser(token)
	case "google":
		return fetchGoogleUser(token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchGitHubUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://api.github.com/user", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:          fmt.Sprintf("%d", payload.ID),
		Username:    payload.Login,
		DisplayName: fallback(payload.Name, payload.Login),
		AvatarURL:   payload.AvatarURL,
	}, nil
}

func fetchGoogleUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:          payload.ID,
		Username:    payload.Email,
		DisplayName: payload.Name,
		AvatarURL:   payload.Picture,
	}, nil
}

func fallback(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
