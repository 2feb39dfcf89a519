package repository

import (
	"context"
	"strings"

	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"gorm.io/gorm"
)

// UserRepository là repository Postgres cho User
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository tạo mới UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID lấy user theo ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail lấy user theo email (không phân biệt hoa thường)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List lấy danh sách user theo filter
func (r *UserRepository) List(ctx context.Context, filter core.UserFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ? OR phone_number ILIKE ?", like, like, like)
	}
	if filter.Scope != "" {
		q = q.Where("scope = ?", filter.Scope)
	}
	if filter.SchoolID != nil {
		q = q.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.RoleID != nil {
		q = q.Where("role_id = ?", *filter.RoleID)
	}
	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create tạo mới user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update cập nhật user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete xóa user
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByRoles đếm số user theo từng role (batch query)
func (r *UserRepository) CountByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(roleIDs))
	if len(roleIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		RoleID uint
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", roleIDs).
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.RoleID] = row.Total
	}
	return counts, nil
}

// ReassignRole chuyển toàn bộ user từ role cũ sang role mới
func (r *UserRepository) ReassignRole(ctx context.Context, oldRoleID, newRoleID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", oldRoleID).Update("role_id", newRoleID)
	return res.RowsAffected, res.Error
}
