package database

import (
	"log/slog"
	"os"

	"fieldexpense-backend/internal/config"
	"fieldexpense-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		slog.Error("cannot connect to database", "error", err)
		os.Exit(1)
	}
	Use(db)

	if err := Migrate(DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := Seed(DB, cfg.AdminPassword); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready")
}

// Use swaps the package-level handle. Tests install an sqlite database here.
func Use(db *gorm.DB) {
	DB = db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Member{},
		&models.Site{},
		&models.ExpenseRecord{},
		&models.AuditLog{},
	)
}

// Seed creates the default admin account and the baseline sites. It is
// idempotent: rows that already exist are left alone.
func Seed(db *gorm.DB, adminPassword string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Username:     "admin",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			IsAdmin:      true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		slog.Info("seeded default admin user")
	}

	for _, name := range []string{"Site 1", "Site 2", "Site 3"} {
		var siteCount int64
		if err := db.Model(&models.Site{}).Where("name = ?", name).Count(&siteCount).Error; err != nil {
			return err
		}
		if siteCount == 0 {
			if err := db.Create(&models.Site{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
