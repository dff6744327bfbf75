package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via config/config.json or the environment.
type AppConfig struct {
	AppPort         string
	JWTSecret       string
	SessionTTLHours int
	GinMode         string
	GinPath         string

	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Note lifecycle
	NoteTTLHours     int
	NoteSweepMinutes int

	// Object storage for uploaded images
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	MinioPublicBase string

	// Seed moderation account, created at boot when missing
	AdminUsername string
	AdminPassword string
	AdminName     string

	// OAuth sign-in
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	RateLimitPerMinute int
	AllowedOrigins     []string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		JWTSecret          string   `json:"JWTSecret"`
		SessionTTLHours    int      `json:"SessionTTLHours"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
		OAuthRedirectBase  string   `json:"OAuthRedirectBase"`
	} `json:"app"`
	Gin struct {
		Mode    string `json:"Mode"`
		LogPath string `json:"LogPath"`
	} `json:"gin"`
	Database struct {
		DatabaseURI string `json:"DatabaseURI"`
		DBHost      string `json:"DBHost"`
		DBPort      string `json:"DBPort"`
		DBUser      string `json:"DBUser"`
		DBPassword  string `json:"DBPassword"`
		DBName      string `json:"DBName"`
	} `json:"database"`
	Redis struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
	} `json:"redis"`
	Notes struct {
		TTLHours     int `json:"TTLHours"`
		SweepMinutes int `json:"SweepMinutes"`
	} `json:"notes"`
	Storage struct {
		Endpoint   string `json:"Endpoint"`
		AccessKey  string `json:"AccessKey"`
		SecretKey  string `json:"SecretKey"`
		Bucket     string `json:"Bucket"`
		UseSSL     bool   `json:"UseSSL"`
		PublicBase string `json:"PublicBase"`
	} `json:"storage"`
	Admin struct {
		Username string `json:"Username"`
		Password string `json:"Password"`
		Name     string `json:"Name"`
	} `json:"admin"`
	OAuth struct {
		GitHubClientID     string `json:"GitHubClientID"`
		GitHubClientSecret string `json:"GitHubClientSecret"`
		GoogleClientID     string `json:"GoogleClientID"`
		GoogleClientSecret string `json:"GoogleClientSecret"`
	} `json:"oauth"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
}

var cfg AppConfig
var loaded bool

// Load reads the application configuration once during boot.
// Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads the JSON file into out if present. A missing file is
// not an error; invalid JSON aborts boot.
func loadJSONConfig(path string, out *AppConfig) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		log.Fatalf("invalid config file %s: %v", path, err)
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.SessionTTLHours = fc.App.SessionTTLHours
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.OAuthRedirectBase = fc.App.OAuthRedirectBase
	out.GinMode = fc.Gin.Mode
	out.GinPath = fc.Gin.LogPath
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword
	out.NoteTTLHours = fc.Notes.TTLHours
	out.NoteSweepMinutes = fc.Notes.SweepMinutes
	out.MinioEndpoint = fc.Storage.Endpoint
	out.MinioAccessKey = fc.Storage.AccessKey
	out.MinioSecretKey = fc.Storage.SecretKey
	out.MinioBucket = fc.Storage.Bucket
	out.MinioUseSSL = fc.Storage.UseSSL
	out.MinioPublicBase = fc.Storage.PublicBase
	out.AdminUsername = fc.Admin.Username
	out.AdminPassword = fc.Admin.Password
	out.AdminName = fc.Admin.Name
	out.GitHubClientID = fc.OAuth.GitHubClientID
	out.GitHubClientSecret = fc.OAuth.GitHubClientSecret
	out.GoogleClientID = fc.OAuth.GoogleClientID
	out.GoogleClientSecret = fc.OAuth.GoogleClientSecret
	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "tweetnepal"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.NoteTTLHours == 0 {
		c.NoteTTLHours = 24
	}
	if c.NoteSweepMinutes == 0 {
		c.NoteSweepMinutes = 5
	}
	if c.MinioBucket == "" {
		c.MinioBucket = "tweet-nepal-uploads"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when set.
func applyEnvOverrides(c *AppConfig) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Fatalf("invalid integer value for %s: %v", key, err)
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true"
		}
	}

	setString("APP_PORT", &c.AppPort)
	setString("JWT_SECRET", &c.JWTSecret)
	setInt("SESSION_TTL_HOURS", &c.SessionTTLHours)
	setString("GIN_MODE", &c.GinMode)
	setString("GIN_PATH", &c.GinPath)
	setString("DATABASE_URI", &c.DatabaseURI)
	setString("DB_HOST", &c.DBHost)
	setString("DB_PORT", &c.DBPort)
	setString("DB_USER", &c.DBUser)
	setString("DB_PASSWORD", &c.DBPassword)
	setString("DB_NAME", &c.DBName)
	setString("REDIS_HOST", &c.RedisHost)
	setInt("REDIS_PORT", &c.RedisPort)
	setInt("REDIS_DB", &c.RedisDB)
	setString("REDIS_PASSWORD", &c.RedisPassword)
	setInt("NOTE_TTL_HOURS", &c.NoteTTLHours)
	setInt("NOTE_SWEEP_MINUTES", &c.NoteSweepMinutes)
	setString("MINIO_ENDPOINT", &c.MinioEndpoint)
	setString("MINIO_ACCESS_KEY", &c.MinioAccessKey)
	setString("MINIO_SECRET_KEY", &c.MinioSecretKey)
	setString("MINIO_BUCKET", &c.MinioBucket)
	setBool("MINIO_USE_SSL", &c.MinioUseSSL)
	setString("MINIO_PUBLIC_BASE", &c.MinioPublicBase)
	setString("ADMIN_USERNAME", &c.AdminUsername)
	setString("ADMIN_PASSWORD", &c.AdminPassword)
	setString("ADMIN_NAME", &c.AdminName)
	setString("GITHUB_CLIENT_ID", &c.GitHubClientID)
	setString("GITHUB_CLIENT_SECRET", &c.GitHubClientSecret)
	setString("GOOGLE_CLIENT_ID", &c.GoogleClientID)
	setString("GOOGLE_CLIENT_SECRET", &c.GoogleClientSecret)
	setString("OAUTH_REDIRECT_BASE_URL", &c.OAuthRedirectBase)
	setInt("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_PATH", &c.LogPath)
	setInt("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	setInt("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	setInt("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	setBool("LOG_COMPRESS", &c.LogCompress)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		items := []string{}
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if len(items) > 0 {
			c.AllowedOrigins = items
		}
	}
}
