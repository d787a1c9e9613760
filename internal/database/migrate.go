package database

import (
	"context"
	"database/sql"
	"fmt"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/renotrack/renovation-tracker/internal/model"
)

// Migrate creates or updates the listings, renovations and photos tables
// from the tagged model structs.  It reuses the given pool, so the
// repositories and the migration see the same connection settings.
func Migrate(ctx context.Context, db *sql.DB) error {
	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: db}), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	// Parent first so the child foreign keys have a target.
	if err := gdb.WithContext(ctx).AutoMigrate(&model.Listing{}, &model.Renovation{}, &model.Photo{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
