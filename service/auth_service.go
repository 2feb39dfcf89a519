package service

import (
	"context"
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/config"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"gorm.io/gorm"
)

const invalidCredentials = "Email hoặc mật khẩu không đúng"

// AuthService xác thực người dùng và dựng Actor từ token
type AuthService struct {
	users core.UserRepository
	roles *RoleService
	jwt   config.JWTConfig
}

// NewAuthService tạo mới AuthService
func NewAuthService(users core.UserRepository, roles *RoleService, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, roles: roles, jwt: jwtCfg}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo là thông tin user trả về khi đăng nhập
type UserInfo struct {
	ID       uint         `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"fullName"`
	Scope    models.Scope `json:"scope"`
	SchoolID *uint        `json:"schoolId"`
	RoleID   uint         `json:"roleId"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Login kiểm tra email, mật khẩu và trạng thái kích hoạt. Mọi trường hợp sai đều
// trả cùng một thông báo để không lộ email nào tồn tại.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	fe := utils.FieldErrors{}
	fe.Required("email", req.Email, "Email là bắt buộc")
	fe.Required("password", req.Password, "Mật khẩu là bắt buộc")
	if err := fe.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewAuthError(401, invalidCredentials)
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy thông tin người dùng")
	}
	if !user.IsActive() || !utils.CheckPassword(user.GetPassword(), req.Password) {
		return nil, goerrorkit.NewAuthError(401, invalidCredentials)
	}

	token, err := utils.GenerateToken(utils.TokenSubject{
		UserID:   user.ID,
		Email:    user.Email,
		Scope:    string(user.Scope),
		SchoolID: user.SchoolID,
		RoleID:   user.RoleID,
	}, s.jwt.Secret, s.jwt.Issuer, s.jwt.Expiration)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi tạo token")
	}

	return &LoginResponse{Token: token, User: toUserInfo(user)}, nil
}

// Authenticate xác thực token và dựng Actor. User bị xóa hoặc vô hiệu hóa
// sau khi token được cấp sẽ bị từ chối.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Actor, error) {
	claims, err := utils.ValidateToken(token, s.jwt.Secret)
	if err != nil {
		return Actor{}, goerrorkit.NewAuthError(401, "Unauthorized: Token không hợp lệ hoặc đã hết hạn")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, goerrorkit.NewAuthError(401, "Unauthorized: Người dùng không tồn tại")
		}
		return Actor{}, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy thông tin người dùng")
	}
	if !user.IsActive() {
		return Actor{}, goerrorkit.NewAuthError(401, "Unauthorized: Tài khoản đã bị vô hiệu hóa")
	}

	actor := Actor{
		UserID:   user.ID,
		Email:    user.Email,
		Scope:    user.Scope,
		SchoolID: user.SchoolID,
		RoleID:   user.RoleID,
	}
	// Role lấy theo user hiện tại, không theo claim, để đổi role có hiệu lực ngay
	role, err := s.roles.Lookup(ctx, user.RoleID)
	if err == nil {
		actor.RoleName = role.RoleName
	} else {
		var appErr *goerrorkit.AppError
		if !errors.As(err, &appErr) || appErr.Code != 404 {
			return Actor{}, err
		}
	}
	return actor, nil
}

// Me trả về thông tin user hiện tại
func (s *AuthService) Me(ctx context.Context, actor Actor) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "Không tìm thấy người dùng", "Lỗi khi lấy thông tin người dùng", map[string]interface{}{"user_id": actor.UserID})
	}
	info := toUserInfo(user)
	return &info, nil
}

func toUserInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Scope:    user.Scope,
		SchoolID: user.SchoolID,
		RoleID:   user.RoleID,
	}
}
