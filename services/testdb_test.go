package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// newTestDB mở một SQLite trong bộ nhớ với đầy đủ schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("không mở được sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Course{},
		&models.Semester{},
		&models.Subject{},
		&models.Unit{},
		&models.Quiz{},
		&models.QuizResponse{},
		&models.ResponseSheet{},
	)
	if err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}
	return db
}
