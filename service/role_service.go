package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"gorm.io/gorm"
)

// RoleService quản lý role
type RoleService struct {
	roles core.RoleRepository
	usage *RoleUsageService
	cache core.RoleCache
}

// NewRoleService tạo mới RoleService
func NewRoleService(roles core.RoleRepository, usage *RoleUsageService, cache core.RoleCache) *RoleService {
	return &RoleService{roles: roles, usage: usage, cache: cache}
}

// RoleQuery điều kiện tìm role
type RoleQuery struct {
	Keyword      string
	TypeRole     models.Scope
	SchoolID     *uint
	ExcludeNames []string // Tên role không trả về, tính cả vào tổng số phần tử
	PageRequest
}

// RoleRequest represents create/update role request
type RoleRequest struct {
	RoleName    string       `json:"roleName"`
	TypeRole    models.Scope `json:"typeRole"`
	Description string       `json:"description"`
	SchoolID    *uint        `json:"schoolId"`
}

// GetByID lấy role theo ID, có kèm UserCount. Có dùng cache.
func (s *RoleService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Role, error) {
	role, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeRole(actor, role) {
		// Không tiết lộ sự tồn tại của role của trường khác
		return nil, goerrorkit.NewBusinessError(404, "Không tìm thấy role").WithData(map[string]interface{}{"role_id": id})
	}
	count, err := s.usage.UserCount(ctx, id)
	if err != nil {
		return nil, err
	}
	role.UserCount = count
	return role, nil
}

// Lookup lấy role theo ID qua cache, không kiểm tra quyền. Dùng cho middleware.
func (s *RoleService) Lookup(ctx context.Context, id uint) (*models.Role, error) {
	return s.lookup(ctx, id)
}

func (s *RoleService) lookup(ctx context.Context, id uint) (*models.Role, error) {
	if s.cache != nil {
		if role, ok := s.cache.Get(ctx, id); ok {
			return role, nil
		}
	}
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy role", "Lỗi khi lấy role", map[string]interface{}{"role_id": id})
	}
	if s.cache != nil {
		s.cache.Set(ctx, role)
	}
	return role, nil
}

// List lấy danh sách role có phân trang. User thuộc trường chỉ thấy role SCHOOL
// của trường mình và role dùng chung.
func (s *RoleService) List(ctx context.Context, actor Actor, q RoleQuery) (models.Page[models.Role], error) {
	page := q.PageRequest.normalize()
	filter := core.RoleFilter{
		Keyword:      q.Keyword,
		TypeRole:     q.TypeRole,
		SchoolID:     q.SchoolID,
		ExcludeNames: q.ExcludeNames,
		Offset:       page.offset(),
		Limit:        page.Size,
	}
	if q.TypeRole != "" && !q.TypeRole.Valid() {
		return models.Page[models.Role]{}, goerrorkit.NewValidationError("Loại role không hợp lệ", map[string]interface{}{
			"fields": map[string]string{"typeRole": "Loại role phải là PROVIDER hoặc SCHOOL"},
		})
	}

	if actor.Scope == models.ScopeSchool {
		if actor.SchoolID == nil {
			return models.NewPage[models.Role](nil, page.Page, page.Size, 0), nil
		}
		filter.TypeRole = models.ScopeSchool
		filter.SchoolID = actor.SchoolID
	}
	if filter.SchoolID != nil {
		filter.IncludeGlobal = true
	}

	roles, total, err := s.roles.List(ctx, filter)
	if err != nil {
		return models.Page[models.Role]{}, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy danh sách role")
	}
	if err := s.usage.FillUserCount(ctx, roles); err != nil {
		return models.Page[models.Role]{}, err
	}
	return models.NewPage(roles, page.Page, page.Size, total), nil
}

// Create tạo role mới. Tên role được chuẩn hóa trước khi lưu.
func (s *RoleService) Create(ctx context.Context, actor Actor, req RoleRequest) (*models.Role, error) {
	role := &models.Role{CreateBy: actor.UserID, UpdateBy: actor.UserID}
	if err := s.apply(ctx, actor, role, req); err != nil {
		return nil, err
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, duplicateOr(err, "Role với tên này đã tồn tại", "Lỗi khi tạo role", map[string]interface{}{"role_name": role.RoleName})
	}
	return role, nil
}

// Update cập nhật role. Không được đổi loại của role đang có user.
func (s *RoleService) Update(ctx context.Context, actor Actor, id uint, req RoleRequest) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy role", "Lỗi khi lấy role", map[string]interface{}{"role_id": id})
	}
	if role.IsSystem() {
		return nil, forbidden(fmt.Sprintf("Không được phép sửa role hệ thống '%s'", role.RoleName))
	}
	if !canManageRole(actor, role) {
		return nil, forbidden("Bạn không có quyền quản lý role này")
	}

	oldType := role.TypeRole
	if err := s.apply(ctx, actor, role, req); err != nil {
		return nil, err
	}
	if role.TypeRole != oldType {
		inUse, err := s.usage.IsRoleInUse(ctx, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, goerrorkit.NewBusinessError(409, "Không thể đổi loại của role đang được sử dụng").WithData(map[string]interface{}{
				"role_id": id,
			})
		}
	}
	role.UpdateBy = actor.UserID

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, duplicateOr(err, "Role với tên này đã tồn tại", "Lỗi khi cập nhật role", map[string]interface{}{"role_id": id})
	}
	s.invalidate(ctx, id)
	return role, nil
}

// apply chuẩn hóa và kiểm tra request rồi gán vào role
func (s *RoleService) apply(ctx context.Context, actor Actor, role *models.Role, req RoleRequest) error {
	name := utils.NormalizeRoleName(req.RoleName)
	fe := utils.FieldErrors{}
	if name == "" {
		fe.Add("roleName", "Tên role là bắt buộc và phải chứa chữ cái hoặc chữ số")
	}
	typeRole := req.TypeRole
	schoolID := req.SchoolID
	if actor.Scope == models.ScopeSchool {
		// School admin chỉ tạo được role riêng cho trường mình
		typeRole = models.ScopeSchool
		schoolID = actor.SchoolID
	}
	if !typeRole.Valid() {
		fe.Add("typeRole", "Loại role phải là PROVIDER hoặc SCHOOL")
	}
	if typeRole == models.ScopeProvider {
		schoolID = nil
	}
	if err := fe.Err(); err != nil {
		return err
	}
	if models.IsProtectedRoleName(name) {
		return forbidden(fmt.Sprintf("Không được phép tạo role hệ thống '%s' qua API", name))
	}

	existing, err := s.roles.GetByName(ctx, name, typeRole, schoolID)
	if err == nil && existing.ID != role.ID {
		return goerrorkit.NewBusinessError(409, "Role với tên này đã tồn tại").WithData(map[string]interface{}{
			"role_name": name,
		})
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi kiểm tra role")
	}

	role.RoleName = name
	role.TypeRole = typeRole
	role.SchoolID = schoolID
	role.Description = strings.TrimSpace(req.Description)
	return nil
}

// Delete xóa role. Trả về 409 nếu role còn user tham chiếu.
func (s *RoleService) Delete(ctx context.Context, actor Actor, id uint) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Không tìm thấy role", "Lỗi khi lấy role", map[string]interface{}{"role_id": id})
	}
	if role.IsSystem() {
		return forbidden(fmt.Sprintf("Không được phép xóa role hệ thống '%s'", role.RoleName))
	}
	if !canManageRole(actor, role) {
		return forbidden("Bạn không có quyền quản lý role này")
	}

	count, err := s.usage.UserCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return goerrorkit.NewBusinessError(409, fmt.Sprintf("Role đang được sử dụng bởi %d người dùng, cần chuyển người dùng sang role khác trước khi xóa", count)).
			WithData(map[string]interface{}{
				"role_id":    id,
				"user_count": count,
			})
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Không tìm thấy role", "Lỗi khi xóa role", map[string]interface{}{"role_id": id})
	}
	s.invalidate(ctx, id)
	return nil
}

// ReassignAndDelete chuyển toàn bộ user sang newRoleID rồi xóa role trong cùng một giao dịch
func (s *RoleService) ReassignAndDelete(ctx context.Context, actor Actor, id, newRoleID uint) (int64, error) {
	if _, _, err := s.usage.ResolveReplacement(ctx, actor, id, newRoleID); err != nil {
		return 0, err
	}
	updated, err := s.roles.ReassignAndDelete(ctx, id, newRoleID)
	if err != nil {
		return 0, notFoundOr(err, "Không tìm thấy role", "Lỗi khi chuyển người dùng và xóa role", map[string]interface{}{
			"role_id":     id,
			"new_role_id": newRoleID,
		})
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *RoleService) invalidate(ctx context.Context, id uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}
