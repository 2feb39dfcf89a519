package service

import (
	"context"
	"errors"
	"strings"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"gorm.io/gorm"
)

// SchoolService quản lý trường thành viên
type SchoolService struct {
	schools              core.SchoolRepository
	roles                core.RoleRepository
	users                core.UserRepository
	cache                core.RoleCache
	defaultAdminPassword string
}

// NewSchoolService tạo mới SchoolService
func NewSchoolService(schools core.SchoolRepository, roles core.RoleRepository, users core.UserRepository, cache core.RoleCache, defaultAdminPassword string) *SchoolService {
	return &SchoolService{
		schools:              schools,
		roles:                roles,
		users:                users,
		cache:                cache,
		defaultAdminPassword: defaultAdminPassword,
	}
}

// SchoolRequest represents create/update school request
type SchoolRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Email         string `json:"email"`
	Hotline       string `json:"hotline"`
	Address       string `json:"address"`
	PrincipalName string `json:"principalName"`
}

// List lấy danh sách trường, lọc theo tên nếu có
func (s *SchoolService) List(ctx context.Context, name string) ([]models.School, error) {
	schools, err := s.schools.List(ctx, name)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy danh sách trường")
	}
	return schools, nil
}

// GetByID lấy trường theo ID
func (s *SchoolService) GetByID(ctx context.Context, id uint) (*models.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy trường", "Lỗi khi lấy trường", map[string]interface{}{"school_id": id})
	}
	return school, nil
}

// Create tạo trường và đồng thời tạo tài khoản quản trị trường:
// email = email trường, họ tên = tên hiệu trưởng, mật khẩu mặc định, role SCHOOL_ADMIN dùng chung.
func (s *SchoolService) Create(ctx context.Context, actor Actor, req SchoolRequest) (*models.School, error) {
	req = trimSchool(req)
	if err := validateSchool(req); err != nil {
		return nil, err
	}
	if err := s.checkCodeFree(ctx, req.Code, 0); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, goerrorkit.NewBusinessError(409, "Email trường đã được dùng cho một tài khoản khác").WithData(map[string]interface{}{
			"email": req.Email,
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi kiểm tra email")
	}

	adminRole, err := s.roles.GetByName(ctx, models.RoleSchoolAdmin, models.ScopeSchool, nil)
	if err != nil {
		// Thiếu role SCHOOL_ADMIN là lỗi dữ liệu khởi tạo, không phải lỗi người dùng
		return nil, goerrorkit.WrapWithMessage(err, "Không tìm thấy role quản trị trường")
	}
	hashed, err := utils.HashPassword(s.defaultAdminPassword)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi mã hóa mật khẩu")
	}

	school := &models.School{}
	assignSchool(school, req)
	fullName := req.PrincipalName
	if fullName == "" {
		fullName = "Quản trị " + req.Name
	}
	admin := &models.User{
		FullName: fullName,
		Email:    req.Email,
		Password: hashed,
		Active:   true,
		Scope:    models.ScopeSchool,
		RoleID:   adminRole.ID,
		CreateBy: actor.UserID,
		UpdateBy: actor.UserID,
	}

	if err := s.schools.CreateWithAdmin(ctx, school, admin); err != nil {
		return nil, duplicateOr(err, "Mã trường hoặc email đã tồn tại", "Lỗi khi tạo trường", map[string]interface{}{
			"code":  req.Code,
			"email": req.Email,
		})
	}
	return school, nil
}

// Update cập nhật thông tin trường. Tài khoản quản trị trường không bị thay đổi.
func (s *SchoolService) Update(ctx context.Context, id uint, req SchoolRequest) (*models.School, error) {
	school, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req = trimSchool(req)
	if err := validateSchool(req); err != nil {
		return nil, err
	}
	if err := s.checkCodeFree(ctx, req.Code, id); err != nil {
		return nil, err
	}
	assignSchool(school, req)
	if err := s.schools.Update(ctx, school); err != nil {
		return nil, duplicateOr(err, "Mã trường đã tồn tại", "Lỗi khi cập nhật trường", map[string]interface{}{"school_id": id})
	}
	return school, nil
}

// Delete xóa trường cùng user và role riêng của trường.
// Role của trường bị xóa khỏi cache sau khi xóa thành công.
func (s *SchoolService) Delete(ctx context.Context, id uint) error {
	owned, _, err := s.roles.List(ctx, core.RoleFilter{SchoolID: &id})
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi lấy role của trường")
	}
	if err := s.schools.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Không tìm thấy trường", "Lỗi khi xóa trường", map[string]interface{}{"school_id": id})
	}
	if s.cache != nil {
		for _, role := range owned {
			s.cache.Invalidate(ctx, role.ID)
		}
	}
	return nil
}

func (s *SchoolService) checkCodeFree(ctx context.Context, code string, selfID uint) error {
	existing, err := s.schools.GetByCode(ctx, code)
	if err == nil && existing.ID != selfID {
		return goerrorkit.NewBusinessError(409, "Mã trường đã tồn tại").WithData(map[string]interface{}{"code": code})
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi kiểm tra mã trường")
	}
	return nil
}

func trimSchool(req SchoolRequest) SchoolRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Email = strings.TrimSpace(req.Email)
	req.Hotline = strings.TrimSpace(req.Hotline)
	req.Address = strings.TrimSpace(req.Address)
	req.PrincipalName = strings.TrimSpace(req.PrincipalName)
	return req
}

func validateSchool(req SchoolRequest) error {
	fe := utils.FieldErrors{}
	fe.Required("name", req.Name, "Tên trường là bắt buộc")
	fe.Required("code", req.Code, "Mã trường là bắt buộc")
	fe.Email("email", req.Email)
	return fe.Err()
}

func assignSchool(school *models.School, req SchoolRequest) {
	school.Name = req.Name
	school.Code = req.Code
	school.Email = req.Email
	school.Hotline = req.Hotline
	school.Address = req.Address
	school.PrincipalName = req.PrincipalName
}
