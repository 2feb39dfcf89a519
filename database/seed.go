package database

import (
	"context"
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/repository"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedVersion là bản ghi đánh dấu version dữ liệu đã seed
type seedVersion struct {
	Version int `gorm:"primaryKey"`
}

func (seedVersion) TableName() string { return "seed_versions" }

// hashedUsers trả về bản sao danh sách user với password đã băm
func hashedUsers(users []models.User) ([]models.User, error) {
	out := make([]models.User, len(users))
	for i, u := range users {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return nil, goerrorkit.WrapWithMessage(err, "Failed to hash seed password").
				WithData(map[string]interface{}{"email": u.Email})
		}
		u.Password = hashed
		out[i] = u
	}
	return out, nil
}

// SeedMemory nạp dataset vào memory store nếu version khác version đang có
func SeedMemory(store *repository.MemoryStore, ds Dataset, version int, logger *zap.Logger) error {
	if store.Version() == version {
		return nil
	}
	users, err := hashedUsers(ds.Users)
	if err != nil {
		return err
	}
	if store.Load(version, ds.Schools, ds.Roles, users) && logger != nil {
		logger.Info("memory store seeded",
			zap.Int("version", version),
			zap.Int("schools", len(ds.Schools)),
			zap.Int("roles", len(ds.Roles)),
			zap.Int("users", len(users)))
	}
	return nil
}

// SeedPostgres upsert dataset vào Postgres nếu version chưa được ghi nhận trong seed_versions
func SeedPostgres(ctx context.Context, db *gorm.DB, ds Dataset, version int, logger *zap.Logger) error {
	var existing seedVersion
	err := db.WithContext(ctx).Where("version = ?", version).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return goerrorkit.WrapWithMessage(err, "Failed to read seed version")
	}

	users, err := hashedUsers(ds.Users)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}
		if err := tx.Clauses(upsert).Create(&ds.Schools).Error; err != nil {
			return goerrorkit.WrapWithMessage(err, "Failed to seed schools")
		}
		if err := tx.Clauses(upsert).Create(&ds.Roles).Error; err != nil {
			return goerrorkit.WrapWithMessage(err, "Failed to seed roles")
		}
		if err := tx.Clauses(upsert).Create(&users).Error; err != nil {
			return goerrorkit.WrapWithMessage(err, "Failed to seed users")
		}
		// ID được chèn tường minh nên phải đồng bộ lại sequence
		for _, table := range []string{"schools", "roles", "users"} {
			if err := tx.Exec("SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM "+table+"), 1))", table).Error; err != nil {
				return goerrorkit.WrapWithMessage(err, "Failed to reset sequence").
					WithData(map[string]interface{}{"table": table})
			}
		}
		return tx.Create(&seedVersion{Version: version}).Error
	})
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Info("postgres seeded", zap.Int("version", version))
	}
	return nil
}
