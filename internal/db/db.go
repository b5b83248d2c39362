package db

import (
	"fmt"

	"devflow/internal/config"
	"devflow/internal/logger"
	"devflow/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to postgres when DatabaseURL is set and to SQLite otherwise, then
// migrates the schema and seeds the starter tags.
func Open(cfg config.DevAPI) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.L().Info("Database connection established", zap.String("dialect", dialector.Name()))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	seedTags(db)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Tag{},
		&models.Question{},
		&models.QuestionTag{},
		&models.Answer{},
		&models.Vote{},
		&models.UserCollection{},
		&models.ReputationLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func seedTags(db *gorm.DB) {
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		return
	}

	for _, name := range []string{"javascript", "typescript", "react", "nextjs", "go", "python", "sql"} {
		if err := db.Create(&models.Tag{Name: name}).Error; err != nil {
			logger.L().Warn("Failed to create tag", zap.String("name", name), zap.Error(err))
		}
	}
	logger.L().Info("Initial tags created")
}
