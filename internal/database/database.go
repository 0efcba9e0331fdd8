package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/example/washop/internal/models"
)

// Connect opens the Postgres database, creating it first if it does not
// exist, and runs migrations.
func Connect(dsn string) (*gorm.DB, error) {
	if err := ensureDatabase(dsn); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("Database connected and migrated")
	return db, nil
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.OptionGroup{},
		&models.OptionValue{},
		&models.WaNumber{},
		&models.Order{},
		&models.StoredObject{},
	)
}

// ensureDatabase connects to the maintenance database and creates the
// target database when missing. Useful for first boot in dev.
func ensureDatabase(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database name missing in DSN")
	}

	adminURL := *u
	adminURL.Path = "/postgres"

	admin, err := sql.Open("postgres", adminURL.String())
	if err != nil {
		return err
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = admin.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	if err != nil {
		return err
	}
	log.Printf("Created database %s", dbName)
	return nil
}
