package database

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations chạy migration nhúng trong binary bằng golang-migrate
func RunMigrations(db *gorm.DB, dbName string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to get underlying sql.DB from GORM")
	}

	driver, err := pgmigrate.WithInstance(sqlDB, &pgmigrate.Config{
		DatabaseName: dbName,
	})
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create postgres driver for migrations")
	}

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create embedded source driver")
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create migrate instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return goerrorkit.WrapWithMessage(err, "Failed to run migrations")
	}
	return nil
}
