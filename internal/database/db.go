package database

import (
	"fmt"
	"strings"
	"time"

	"maintenance-hub/internal/auth"
	"maintenance-hub/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Open connects to PostgreSQL, retrying while the database comes up.
func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Infof("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), Config(log))
		if err == nil {
			log.Info("connected to DB successfully")
			return db, nil
		}

		log.WithError(err).Warn("failed to connect to DB")
		time.Sleep(retryBackoff)
	}
	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", maxAttempts, err)
}

// Config routes gorm's own logging through log.
func Config(log *logrus.Logger) *gorm.Config {
	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Session{},
		&models.Token{},
		&models.Supplier{},
		&models.Asset{},
		&models.InventoryItem{},
		&models.ServiceOrder{},
		&models.ChecklistItem{},
		&models.Document{},
		&models.Invoice{},
		&models.Payment{},
		&models.Notification{},
		&models.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin unless an admin already exists.
func SeedAdmin(db *gorm.DB, email, password string, log *logrus.Logger) error {
	if email == "" {
		email = "admin@maintenance.local"
	}
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := models.User{
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.WithField("email", admin.Email).Info("created default admin user")
	return nil
}
