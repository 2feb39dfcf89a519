package console

import (
	"context"
	"fmt"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/models"
	"go.uber.org/zap"
)

// Session là phiên đăng nhập của console. Giá trị bất biến: Refresh trả về session mới.
type Session struct {
	Token     string
	Principal client.Principal
	Role      *models.Role
}

// Login đăng nhập và gắn token vào client. Sai thông tin đăng nhập thì client giữ nguyên token cũ.
// Role được lấy thêm sau khi đăng nhập; lỗi ở bước này chỉ được log.
func Login(ctx context.Context, c *client.Client, email, password string, logger *zap.Logger) (Session, error) {
	res, err := c.Auth.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	c.SetToken(res.Token)

	s := Session{Token: res.Token, Principal: res.User}
	role, err := c.Roles.Get(ctx, res.User.RoleID)
	if err != nil {
		if logger != nil {
			logger.Warn("Không lấy được role của người dùng",
				zap.Uint("user_id", res.User.ID),
				zap.Uint("role_id", res.User.RoleID),
				zap.Error(err))
		}
		return s, nil
	}
	s.Role = role
	return s, nil
}

// Refresh lấy lại role hiện tại của user
func (s Session) Refresh(ctx context.Context, roles *client.RoleClient) (Session, error) {
	role, err := roles.Get(ctx, s.Principal.RoleID)
	if err != nil {
		return s, err
	}
	next := s
	next.Role = role
	return next, nil
}

// RoleName trả về tên role, rỗng nếu chưa lấy được
func (s Session) RoleName() string {
	if s.Role == nil {
		return ""
	}
	return s.Role.RoleName
}

// IsProviderAdmin: tài khoản PROVIDER có role SYSTEM_ADMIN
func (s Session) IsProviderAdmin() bool {
	return s.Principal.Scope == models.ScopeProvider && s.RoleName() == models.RoleSystemAdmin
}

// IsSchoolAdmin: tài khoản SCHOOL thuộc một trường và có role SCHOOL_ADMIN
func (s Session) IsSchoolAdmin() bool {
	return s.Principal.Scope == models.ScopeSchool &&
		s.Principal.SchoolID != nil &&
		s.RoleName() == models.RoleSchoolAdmin
}

// GuardProviderAdmin trả về lỗi bọc ErrForbidden nếu session không phải admin hệ thống
func GuardProviderAdmin(s Session) error {
	if !s.IsProviderAdmin() {
		return fmt.Errorf("%w: yêu cầu quyền quản trị hệ thống", ErrForbidden)
	}
	return nil
}

// GuardSchoolAdmin trả về lỗi bọc ErrForbidden nếu session không phải admin trường
func GuardSchoolAdmin(s Session) error {
	if !s.IsSchoolAdmin() {
		return fmt.Errorf("%w: yêu cầu quyền quản trị trường", ErrForbidden)
	}
	return nil
}
