package repos

import (
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashokgiriii/tweet-nepal/models"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

func TestMain(m *testing.M) {
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	os.Exit(m.Run())
}

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{},
		&models.Note{}, &models.Admin{}, &models.PostLike{}, &models.GalleryPhoto{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Name: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user %q: %v", username, err)
	}
	return &user
}
