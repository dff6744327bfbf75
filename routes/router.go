package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ashokgiriii/tweet-nepal/config"
	"github.com/ashokgiriii/tweet-nepal/controllers"
	"github.com/ashokgiriii/tweet-nepal/middleware"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/storage"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// SetupRouter wires routes, middlewares and controllers.
func SetupRouter(r *repos.Repositories, uploader storage.ImageUploader) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		engine.Use(utils.Ginzap(gl, time.RFC3339, true))
		engine.Use(utils.RecoveryWithZap(gl, false))
	} else {
		engine.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	engine.Use(cors.New(corsCfg))

	engine.Static("/static", "./static")

	authController := controllers.NewAuthController(r.Users)
	userController := controllers.NewUserController(r.Users, uploader)
	postController := controllers.NewPostController(r.Posts, r.Comments, r.Notes, r.Users, uploader)
	noteController := controllers.NewNoteController(r.Notes)
	adminController := controllers.NewAdminController(r.Admins, r.Users, r.Posts)

	// Welcome page: combined login and registration entry point.
	engine.GET("/", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"message": "welcome"})
	})
	engine.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	// Credential endpoints are rate limited per client IP.
	limited := engine.Group("")
	limited.Use(middleware.RateLimitMiddleware())
	limited.POST("/createUser", authController.Register)
	limited.POST("/login", authController.Login)
	limited.POST("/admin/login", adminController.Login)
	limited.GET("/auth/:provider/login", authController.OAuthRedirect)
	limited.GET("/auth/:provider/callback", authController.OAuthCallback)

	engine.POST("/checkUsername", authController.CheckUsername)
	engine.GET("/logout/destroySession", authController.Logout)
	engine.GET("/adminLogin", adminController.LoginPage)
	engine.GET("/username/:prefix", userController.Search)

	user := engine.Group("")
	user.Use(middleware.UserRequired())
	user.GET("/index", postController.Feed)
	user.GET("/editProfile", userController.EditProfileForm)
	user.POST("/editProfile", userController.EditProfile)
	user.POST("/updateProfilePicture", userController.UpdateProfilePicture)
	user.GET("/post/:id", postController.PostDetail)
	user.POST("/createPost", postController.CreatePost)
	user.DELETE("/post/:postId", postController.DeletePost)
	user.POST("/like/post/:id", postController.ToggleLike)
	user.POST("/post/:postId/comment", postController.AddComment)
	user.POST("/user/sharenote", noteController.ShareNote)
	user.DELETE("/notes/:noteId", noteController.DeleteNote)
	// Profile pages live at the root so /alice works; static siblings above
	// take priority over the parameter.
	user.GET("/:username", userController.Profile)

	admin := engine.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("", adminController.Dashboard)
	admin.POST("/deleteUser/:userId", adminController.DeleteUser)
	admin.POST("/deletePost/:postId", adminController.DeletePost)

	engine.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return engine
}
