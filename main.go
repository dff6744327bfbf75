package main

import (
	"time"

	"github.com/ashokgiriii/tweet-nepal/config"
	"github.com/ashokgiriii/tweet-nepal/models"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/routes"
	"github.com/ashokgiriii/tweet-nepal/storage"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{}, &models.Post{}, &models.Comment{},
		&models.Note{}, &models.Admin{}, &models.PostLike{}, &models.GalleryPhoto{},
	)

	r := repos.New(db)

	seedAdmin(r, cfg)

	// Expired notes are filtered lazily on every read; the sweeper just keeps
	// the table from accumulating dead rows.
	repos.StartNoteSweeper(r.Notes, time.Duration(cfg.NoteSweepMinutes)*time.Minute)

	var uploader storage.ImageUploader
	if up, err := storage.NewUploader(cfg); err != nil {
		utils.Sugar.Fatalf("object storage init failed: %v", err)
	} else if up != nil {
		uploader = up
	} else {
		utils.Sugar.Warn("object storage not configured, image uploads disabled")
	}

	engine := routes.SetupRouter(r, uploader)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, engine); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

// seedAdmin creates the moderation account from configuration when missing.
func seedAdmin(r *repos.Repositories, cfg config.AppConfig) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		utils.Sugar.Warn("no admin credentials configured, moderation login disabled")
		return
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		utils.Sugar.Fatalf("hash admin password: %v", err)
	}
	name := cfg.AdminName
	if name == "" {
		name = cfg.AdminUsername
	}
	if err := r.Admins.EnsureSeed(cfg.AdminUsername, name, hash); err != nil {
		utils.Sugar.Fatalf("seed admin account: %v", err)
	}
}
