package repository

import (
	"context"
	"strings"

	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"gorm.io/gorm"
)

// RoleRepository là repository Postgres cho Role
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository tạo mới RoleRepository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByID lấy role theo ID
func (r *RoleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName lấy role theo tên trong cùng loại và cùng trường
func (r *RoleRepository) GetByName(ctx context.Context, name string, typeRole models.Scope, schoolID *uint) (*models.Role, error) {
	q := r.db.WithContext(ctx).Where("role_name = ? AND type_role = ?", name, typeRole)
	if schoolID == nil {
		q = q.Where("school_id IS NULL")
	} else {
		q = q.Where("school_id = ?", *schoolID)
	}
	var role models.Role
	if err := q.First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List lấy danh sách role theo filter, trả về kèm tổng số bản ghi
func (r *RoleRepository) List(ctx context.Context, filter core.RoleFilter) ([]models.Role, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Role{})
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("role_name ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.TypeRole != "" {
		q = q.Where("type_role = ?", filter.TypeRole)
	}
	if filter.SchoolID != nil {
		if filter.IncludeGlobal {
			q = q.Where("(school_id = ? OR school_id IS NULL)", *filter.SchoolID)
		} else {
			q = q.Where("school_id = ?", *filter.SchoolID)
		}
	}
	if len(filter.ExcludeNames) > 0 {
		q = q.Where("role_name NOT IN ?", filter.ExcludeNames)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var roles []models.Role
	if err := q.Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// Create tạo mới role
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update cập nhật role
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete xóa role. Trả về gorm.ErrRecordNotFound nếu role không tồn tại.
func (r *RoleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Role{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReassignAndDelete chuyển user sang role mới rồi xóa role cũ trong một transaction
func (r *RoleRepository) ReassignAndDelete(ctx context.Context, oldID, newID uint) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("role_id = ?", oldID).Update("role_id", newID)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected

		del := tx.Delete(&models.Role{}, oldID)
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
