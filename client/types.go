package client

import "github.com/techmaster-vietnam/schoolkit/models"

// Principal là thông tin user đăng nhập trả về từ /auth/login và /auth/me
type Principal struct {
	ID       uint         `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"fullName"`
	Scope    models.Scope `json:"scope"`
	SchoolID *uint        `json:"schoolId"`
	RoleID   uint         `json:"roleId"`
}

// LoginResult là kết quả đăng nhập
type LoginResult struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// RoleInput là dữ liệu tạo/sửa role
type RoleInput struct {
	RoleName    string       `json:"roleName"`
	TypeRole    models.Scope `json:"typeRole"`
	Description string       `json:"description"`
	SchoolID    *uint        `json:"schoolId"`
}

// RoleQuery là điều kiện lấy danh sách role. Page bắt đầu từ 0.
type RoleQuery struct {
	Keyword      string
	TypeRole     models.Scope
	SchoolID     *uint
	ExcludeNames []string
	Page         int
	Size         int
}

// UserInput là dữ liệu tạo/sửa user
type UserInput struct {
	FullName    string        `json:"fullName"`
	Gender      models.Gender `json:"gender,omitempty"`
	BirthYear   *models.Date  `json:"birthYear,omitempty"`
	Address     string        `json:"address"`
	PhoneNumber string        `json:"phoneNumber"`
	Email       string        `json:"email"`
	Password    string        `json:"password,omitempty"`
	IsActive    bool          `json:"isActive"`
	Scope       models.Scope  `json:"scope,omitempty"`
	SchoolID    *uint         `json:"schoolId,omitempty"`
	RoleID      uint          `json:"roleId"`
}

// UserQuery là điều kiện lấy danh sách user
type UserQuery struct {
	Keyword  string
	Scope    models.Scope
	SchoolID *uint
}

// SchoolInput là dữ liệu tạo/sửa trường
type SchoolInput struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Email         string `json:"email"`
	Hotline       string `json:"hotline"`
	Address       string `json:"address"`
	PrincipalName string `json:"principalName"`
}
