package database

import (
	"fmt"
	"time"

	"threadline/internal/config"
	"threadline/internal/domain/chat"
	"threadline/internal/domain/interaction"
	"threadline/internal/domain/social"
	"threadline/internal/domain/thread"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres connection and tunes the pool.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate applies the schema. The composite primary keys on interactions,
// participants and read_receipts are the uniqueness guards the services rely
// on for atomic upserts.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&thread.Thread{},
		&thread.Reply{},
		&interaction.Interaction{},
		&chat.Chat{},
		&chat.Participant{},
		&chat.Message{},
		&chat.DeletedChat{},
		&chat.ReadReceipt{},
		&social.Follow{},
		&social.User{},
	)
}
