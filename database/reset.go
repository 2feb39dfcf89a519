package database

import (
	"github.com/techmaster-vietnam/goerrorkit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reset xóa toàn bộ bảng và lịch sử migration. Chỉ dùng cho môi trường phát triển (RESET_DB=true).
// Sau Reset cần chạy lại RunMigrations.
func Reset(db *gorm.DB, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to get underlying sql.DB from GORM")
	}

	logger.Warn("Resetting database (RESET_DB=true)")
	dropTablesSQL := `
		DROP TABLE IF EXISTS seed_versions CASCADE;
		DROP TABLE IF EXISTS users CASCADE;
		DROP TABLE IF EXISTS roles CASCADE;
		DROP TABLE IF EXISTS schools CASCADE;
		DROP TABLE IF EXISTS schema_migrations CASCADE;
	`
	if _, err := sqlDB.Exec(dropTablesSQL); err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to drop tables")
	}
	logger.Info("Database reset completed")
	return nil
}
