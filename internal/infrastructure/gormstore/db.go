// Package gormstore implements the storage ports on MySQL through GORM.
// Stock rows are locked with SELECT ... FOR UPDATE so reserve, release and
// adjust run under the exclusive row lock the ledger requires.
package gormstore

import (
	"fmt"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to MySQL, migrates the schema and tunes the pool.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open: %w", err)
	}
	if err := db.AutoMigrate(
		&CategoryModel{},
		&ProductModel{},
		&ClientModel{},
		&OrderModel{},
		&OrderLineModel{},
	); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore: pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
