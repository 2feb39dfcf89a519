package repository

import (
	"context"
	"strings"

	"github.com/techmaster-vietnam/schoolkit/models"
	"gorm.io/gorm"
)

// SchoolRepository là repository Postgres cho School
type SchoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository tạo mới SchoolRepository
func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

func (r *SchoolRepository) GetByID(ctx context.Context, id uint) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepository) GetByCode(ctx context.Context, code string) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

// List lấy danh sách trường, lọc theo tên nếu name khác rỗng
func (r *SchoolRepository) List(ctx context.Context, name string) ([]models.School, error) {
	q := r.db.WithContext(ctx).Model(&models.School{})
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	var schools []models.School
	if err := q.Order("id ASC").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

// CreateWithAdmin tạo trường và admin trường trong cùng một transaction
func (r *SchoolRepository) CreateWithAdmin(ctx context.Context, school *models.School, admin *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(school).Error; err != nil {
			return err
		}
		admin.SchoolID = &school.ID
		return tx.Create(admin).Error
	})
}

func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

// Delete xóa trường cùng user và role riêng của trường
func (r *SchoolRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("school_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", id).Delete(&models.Role{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.School{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
