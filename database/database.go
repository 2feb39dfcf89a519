package database

import (
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open mở kết nối Postgres qua gorm. Lỗi unique constraint được dịch thành gorm.ErrDuplicatedKey.
func Open(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	level := gormlogger.Warn
	if logLevel == "debug" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Failed to connect to database").
			WithData(map[string]interface{}{
				"host":    cfg.Host,
				"db_name": cfg.Name,
			})
	}
	return db, nil
}
