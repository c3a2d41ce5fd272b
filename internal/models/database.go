package models

import (
	"fmt"
	"os"

	"github.com/buildrun-tech/unihub/backend/internal/config"
	"github.com/buildrun-tech/unihub/backend/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Professor{},
		&Criterion{},
		&Course{},
		&Evaluation{},
		&Comment{},
		&CommentVote{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the default criteria, system configs and the
// bootstrap admin account when the tables are empty.
func SeedDefaultData() error {
	defaultCriteria := []Criterion{
		{Name: "Clarity", Description: "How clearly the professor explains the material"},
		{Name: "Fairness", Description: "How fair grading and treatment of students are"},
		{Name: "Availability", Description: "How reachable the professor is outside class"},
		{Name: "Engagement", Description: "How engaging lectures and activities are"},
	}
	var criterionCount int64
	DB.Model(&Criterion{}).Count(&criterionCount)
	if criterionCount == 0 {
		if err := DB.Create(&defaultCriteria).Error; err != nil {
			return err
		}
	}

	defaultConfigs := []SystemConfig{
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}
	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	var adminCount int64
	DB.Model(&User{}).Where("role = ?", "admin").Count(&adminCount)
	if adminCount == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		admin := User{
			Username:     "admin",
			Email:        "admin@unihub.local",
			PasswordHash: hash,
			Role:         "admin",
			IsActive:     true,
		}
		if err := DB.Create(&admin).Error; err != nil {
			return err
		}
	}

	return nil
}
