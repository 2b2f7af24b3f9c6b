package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// openTestDB returns a fresh in-memory database with every relational model migrated
func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.FriendRequest{},
		&models.Goal{},
		&models.AchievementDefinition{},
		&models.AchievementAward{},
		&models.Activity{},
	); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, name, email string) *models.User {
	tb.Helper()
	u := &models.User{Name: name, Email: email, Password: "pw"}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
