package database

import (
	"fmt"
	"log"

	"academy/config"
	"academy/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database wraps the GORM connection. It is constructed once in main,
// handed to the controllers, and closed at shutdown.
type Database struct {
	Db *gorm.DB
}

// Connect establishes a connection to PostgreSQL and runs migrations.
func Connect(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	d := &Database{Db: db}
	if err := d.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// Migrate performs database migrations.
func (d *Database) Migrate() error {
	log.Println("Running Migrations...")

	err := d.Db.AutoMigrate(
		&models.TrainingSession{},
		&models.Registration{},
		&models.Setting{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
