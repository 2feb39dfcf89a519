package service

import (
	"context"
	"fmt"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
)

// RoleUsageService chứa logic "role đang được dùng bởi ai" mà cả RoleService và
// UserService cùng cần. Hai service đó phụ thuộc vào đây thay vì phụ thuộc lẫn nhau.
type RoleUsageService struct {
	roles core.RoleRepository
	users core.UserRepository
}

// NewRoleUsageService tạo mới RoleUsageService
func NewRoleUsageService(roles core.RoleRepository, users core.UserRepository) *RoleUsageService {
	return &RoleUsageService{roles: roles, users: users}
}

// CountUsers đếm số user của từng role
func (s *RoleUsageService) CountUsers(ctx context.Context, roleIDs []uint) (map[uint]int64, error) {
	counts, err := s.users.CountByRoles(ctx, roleIDs)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi đếm người dùng theo role")
	}
	return counts, nil
}

// UserCount đếm số user đang giữ roleID
func (s *RoleUsageService) UserCount(ctx context.Context, roleID uint) (int64, error) {
	counts, err := s.CountUsers(ctx, []uint{roleID})
	if err != nil {
		return 0, err
	}
	return counts[roleID], nil
}

// IsRoleInUse kiểm tra role có được user nào tham chiếu không
func (s *RoleUsageService) IsRoleInUse(ctx context.Context, roleID uint) (bool, error) {
	n, err := s.UserCount(ctx, roleID)
	return n > 0, err
}

// UsersOfRole trả về danh sách user đang giữ roleID
func (s *RoleUsageService) UsersOfRole(ctx context.Context, roleID uint) ([]models.User, error) {
	users, err := s.users.List(ctx, core.UserFilter{RoleID: &roleID})
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy người dùng theo role")
	}
	return users, nil
}

// FillUserCount gán UserCount cho danh sách role bằng một truy vấn
func (s *RoleUsageService) FillUserCount(ctx context.Context, roles []models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]uint, len(roles))
	for i := range roles {
		ids[i] = roles[i].ID
	}
	counts, err := s.CountUsers(ctx, ids)
	if err != nil {
		return err
	}
	for i := range roles {
		roles[i].UserCount = counts[roles[i].ID]
	}
	return nil
}

// ResolveReplacement kiểm tra cặp (role cũ, role mới) cho thao tác chuyển user:
// actor phải quản lý được role cũ, role cũ không được bảo vệ, role mới phải là
// lựa chọn thay thế hợp lệ (xem models.Role.IsAlternativeFor).
func (s *RoleUsageService) ResolveReplacement(ctx context.Context, actor Actor, oldRoleID, newRoleID uint) (*models.Role, *models.Role, error) {
	if newRoleID == 0 {
		return nil, nil, goerrorkit.NewValidationError("Vui lòng chọn role thay thế", map[string]interface{}{
			"fields": map[string]string{"newRoleId": "Vui lòng chọn role thay thế"},
		})
	}
	if oldRoleID == newRoleID {
		return nil, nil, goerrorkit.NewValidationError("Role thay thế phải khác role bị xóa", map[string]interface{}{
			"fields": map[string]string{"newRoleId": "Role thay thế phải khác role bị xóa"},
		})
	}

	oldRole, err := s.roles.GetByID(ctx, oldRoleID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Không tìm thấy role", "Lỗi khi lấy role", map[string]interface{}{"role_id": oldRoleID})
	}
	if oldRole.IsSystem() {
		return nil, nil, forbidden(fmt.Sprintf("Không được phép xóa role hệ thống '%s'", oldRole.RoleName))
	}
	if !canManageRole(actor, oldRole) {
		return nil, nil, forbidden("Bạn không có quyền quản lý role này")
	}

	newRole, err := s.roles.GetByID(ctx, newRoleID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Không tìm thấy role thay thế", "Lỗi khi lấy role", map[string]interface{}{"role_id": newRoleID})
	}
	if !newRole.IsAlternativeFor(oldRole) {
		return nil, nil, goerrorkit.NewValidationError("Role thay thế không hợp lệ", map[string]interface{}{
			"fields": map[string]string{"newRoleId": "Role thay thế phải cùng loại, cùng trường hoặc dùng chung, và không phải role hệ thống"},
		})
	}
	return oldRole, newRole, nil
}

// canManageRole: provider admin quản lý mọi role, school admin chỉ quản lý role riêng của trường mình
func canManageRole(actor Actor, role *models.Role) bool {
	if actor.IsProviderAdmin() {
		return true
	}
	return role.TypeRole == models.ScopeSchool && actor.OwnsSchool(role.SchoolID)
}

// canSeeRole: provider admin thấy mọi role, user thuộc trường thấy role SCHOOL riêng của trường và role dùng chung
func canSeeRole(actor Actor, role *models.Role) bool {
	if actor.Scope == models.ScopeProvider {
		return true
	}
	if role.TypeRole != models.ScopeSchool || actor.SchoolID == nil {
		return false
	}
	return role.VisibleToSchool(*actor.SchoolID)
}
