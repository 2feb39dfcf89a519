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

// UserService quản lý tài khoản người dùng
type UserService struct {
	users core.UserRepository
	roles core.RoleRepository
	usage *RoleUsageService
}

// NewUserService tạo mới UserService
func NewUserService(users core.UserRepository, roles core.RoleRepository, usage *RoleUsageService) *UserService {
	return &UserService{users: users, roles: roles, usage: usage}
}

// UserQuery điều kiện tìm user
type UserQuery struct {
	Keyword  string
	Scope    models.Scope
	SchoolID *uint
}

// UserRequest represents create/update user request
type UserRequest struct {
	FullName    string        `json:"fullName"`
	Gender      models.Gender `json:"gender"`
	BirthYear   *models.Date  `json:"birthYear"`
	Address     string        `json:"address"`
	PhoneNumber string        `json:"phoneNumber"`
	Email       string        `json:"email"`
	Password    string        `json:"password"`
	IsActive    bool          `json:"isActive"`
	Scope       models.Scope  `json:"scope"`
	SchoolID    *uint         `json:"schoolId"`
	RoleID      uint          `json:"roleId"`
}

// List lấy danh sách user. School admin chỉ thấy user của trường mình.
func (s *UserService) List(ctx context.Context, actor Actor, q UserQuery) ([]models.User, error) {
	filter := core.UserFilter{Keyword: q.Keyword, Scope: q.Scope, SchoolID: q.SchoolID}
	if !actor.IsProviderAdmin() {
		filter.Scope = models.ScopeSchool
		filter.SchoolID = actor.SchoolID
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy danh sách người dùng")
	}
	return users, nil
}

// GetByID lấy user theo ID
func (s *UserService) GetByID(ctx context.Context, actor Actor, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy người dùng", "Lỗi khi lấy người dùng", map[string]interface{}{"user_id": id})
	}
	if !actor.IsProviderAdmin() && !actor.OwnsSchool(user.SchoolID) {
		return nil, goerrorkit.NewBusinessError(404, "Không tìm thấy người dùng").WithData(map[string]interface{}{"user_id": id})
	}
	return user, nil
}

// Create tạo user mới
func (s *UserService) Create(ctx context.Context, actor Actor, req UserRequest) (*models.User, error) {
	if actor.Scope == models.ScopeSchool {
		req.Scope = models.ScopeSchool
		req.SchoolID = actor.SchoolID
	}
	if req.Scope == models.ScopeProvider {
		req.SchoolID = nil
	}

	fe := s.validate(req)
	fe.Required("password", req.Password, "Mật khẩu là bắt buộc")
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if _, err := s.checkRole(ctx, actor, req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, goerrorkit.NewBusinessError(409, "Email đã tồn tại").WithData(map[string]interface{}{"email": req.Email})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi kiểm tra email")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi mã hóa mật khẩu")
	}

	user := &models.User{
		Password: hashed,
		CreateBy: actor.UserID,
		UpdateBy: actor.UserID,
	}
	assignProfile(user, req)
	user.Email = strings.TrimSpace(req.Email)
	user.Scope = req.Scope
	user.SchoolID = req.SchoolID

	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateOr(err, "Email đã tồn tại", "Lỗi khi tạo người dùng", map[string]interface{}{"email": user.Email})
	}
	return user, nil
}

// Update cập nhật user. Email và mật khẩu chỉ được đổi khi user đang giữ role
// SYSTEM_ADMIN hoặc SCHOOL_ADMIN; với user khác, email cũ được giữ nguyên và
// mật khẩu gửi lên bị bỏ qua.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, req UserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	currentRole, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy role")
	}
	credentialsEditable := currentRole != nil && currentRole.IsSystem()
	if currentRole != nil && currentRole.RoleName == models.RoleSystemAdmin && !actor.IsProviderAdmin() {
		return nil, forbidden("Bạn không có quyền sửa tài khoản này")
	}

	// Scope và trường không đổi qua thao tác sửa
	req.Scope = user.Scope
	req.SchoolID = user.SchoolID
	if !credentialsEditable || strings.TrimSpace(req.Email) == "" {
		req.Email = user.Email
	}

	if err := s.validate(req).Err(); err != nil {
		return nil, err
	}
	if req.RoleID != user.RoleID {
		if _, err := s.checkRole(ctx, actor, req); err != nil {
			return nil, err
		}
	}

	if !strings.EqualFold(req.Email, user.Email) {
		if other, err := s.users.GetByEmail(ctx, req.Email); err == nil && other.ID != user.ID {
			return nil, goerrorkit.NewBusinessError(409, "Email đã tồn tại").WithData(map[string]interface{}{"email": req.Email})
		}
	}
	if credentialsEditable && req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi mã hóa mật khẩu")
		}
		user.Password = hashed
	}

	assignProfile(user, req)
	user.Email = strings.TrimSpace(req.Email)
	user.UpdateBy = actor.UserID

	if err := s.users.Update(ctx, user); err != nil {
		return nil, duplicateOr(err, "Email đã tồn tại", "Lỗi khi cập nhật người dùng", map[string]interface{}{"user_id": id})
	}
	return user, nil
}

// Delete xóa user. Không được tự xóa mình hoặc xóa tài khoản SYSTEM_ADMIN.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	user, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return goerrorkit.NewBusinessError(400, "Không thể tự xóa tài khoản của mình")
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err == nil {
		if role.RoleName == models.RoleSystemAdmin {
			return forbidden("Không được phép xóa tài khoản quản trị hệ thống")
		}
		if role.RoleName == models.RoleSchoolAdmin && !actor.IsProviderAdmin() {
			return forbidden("Không được phép xóa tài khoản quản trị trường")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi lấy role")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Không tìm thấy người dùng", "Lỗi khi xóa người dùng", map[string]interface{}{"user_id": id})
	}
	return nil
}

// IsRoleInUse kiểm tra role có user nào tham chiếu không
func (s *UserService) IsRoleInUse(ctx context.Context, actor Actor, roleID uint) (bool, error) {
	if _, err := s.visibleRole(ctx, actor, roleID); err != nil {
		return false, err
	}
	return s.usage.IsRoleInUse(ctx, roleID)
}

// ListByRole lấy user theo role
func (s *UserService) ListByRole(ctx context.Context, actor Actor, roleID uint) ([]models.User, error) {
	if _, err := s.visibleRole(ctx, actor, roleID); err != nil {
		return nil, err
	}
	users, err := s.usage.UsersOfRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if actor.IsProviderAdmin() {
		return users, nil
	}
	// Role dùng chung có user ở nhiều trường
	own := users[:0]
	for _, u := range users {
		if actor.OwnsSchool(u.SchoolID) {
			own = append(own, u)
		}
	}
	return own, nil
}

// ReassignRole chuyển toàn bộ user từ oldRoleID sang newRoleID (không xóa role cũ)
func (s *UserService) ReassignRole(ctx context.Context, actor Actor, oldRoleID, newRoleID uint) (int64, error) {
	if _, _, err := s.usage.ResolveReplacement(ctx, actor, oldRoleID, newRoleID); err != nil {
		return 0, err
	}
	updated, err := s.users.ReassignRole(ctx, oldRoleID, newRoleID)
	if err != nil {
		return 0, goerrorkit.WrapWithMessage(err, "Lỗi khi chuyển role cho người dùng").WithData(map[string]interface{}{
			"old_role_id": oldRoleID,
			"new_role_id": newRoleID,
		})
	}
	return updated, nil
}

func (s *UserService) visibleRole(ctx context.Context, actor Actor, roleID uint) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy role", "Lỗi khi lấy role", map[string]interface{}{"role_id": roleID})
	}
	if !canSeeRole(actor, role) {
		return nil, goerrorkit.NewBusinessError(404, "Không tìm thấy role").WithData(map[string]interface{}{"role_id": roleID})
	}
	return role, nil
}

// checkRole kiểm tra role được gán có hợp lệ với scope/trường của user không
func (s *UserService) checkRole(ctx context.Context, actor Actor, req UserRequest) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewValidationError("Role không tồn tại", map[string]interface{}{
				"fields": map[string]string{"roleId": "Role không tồn tại"},
			})
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy role")
	}
	if role.TypeRole != req.Scope {
		return nil, goerrorkit.NewValidationError("Role không cùng phạm vi với người dùng", map[string]interface{}{
			"fields": map[string]string{"roleId": "Role không cùng phạm vi với người dùng"},
		})
	}
	if role.SchoolID != nil && (req.SchoolID == nil || *role.SchoolID != *req.SchoolID) {
		return nil, goerrorkit.NewValidationError("Role không thuộc trường của người dùng", map[string]interface{}{
			"fields": map[string]string{"roleId": "Role không thuộc trường của người dùng"},
		})
	}
	switch role.RoleName {
	case models.RoleSystemAdmin:
		return nil, forbidden("Không được phép gán role quản trị hệ thống qua API")
	case models.RoleSchoolAdmin:
		if !actor.IsProviderAdmin() {
			return nil, forbidden("Chỉ quản trị hệ thống mới được gán role quản trị trường")
		}
	}
	return role, nil
}

func (s *UserService) validate(req UserRequest) utils.FieldErrors {
	fe := utils.FieldErrors{}
	fe.Required("fullName", req.FullName, "Họ tên là bắt buộc")
	fe.Email("email", req.Email)
	if !req.Scope.Valid() {
		fe.Add("scope", "Phạm vi phải là PROVIDER hoặc SCHOOL")
	}
	if req.Scope == models.ScopeSchool && req.SchoolID == nil {
		fe.Add("schoolId", "Tài khoản trường phải thuộc một trường")
	}
	if req.RoleID == 0 {
		fe.Add("roleId", "Vui lòng chọn role")
	}
	switch req.Gender {
	case "", models.GenderMale, models.GenderFemale, models.GenderOther:
	default:
		fe.Add("gender", "Giới tính không hợp lệ")
	}
	return fe
}

func assignProfile(user *models.User, req UserRequest) {
	user.FullName = strings.TrimSpace(req.FullName)
	user.Gender = req.Gender
	user.BirthYear = req.BirthYear
	user.Address = strings.TrimSpace(req.Address)
	user.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	user.Active = req.IsActive
	user.RoleID = req.RoleID
}
