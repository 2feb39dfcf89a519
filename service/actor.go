package service

import (
	"github.com/techmaster-vietnam/schoolkit/models"
)

// Actor là người dùng đang thực hiện request, được middleware dựng từ token
type Actor struct {
	UserID   uint
	Email    string
	Scope    models.Scope
	SchoolID *uint
	RoleID   uint
	RoleName string
}

// IsProviderAdmin trả về true với SYSTEM_ADMIN thuộc scope PROVIDER
func (a Actor) IsProviderAdmin() bool {
	return a.Scope == models.ScopeProvider && a.RoleName == models.RoleSystemAdmin
}

// IsSchoolAdmin trả về true với SCHOOL_ADMIN thuộc scope SCHOOL và có trường
func (a Actor) IsSchoolAdmin() bool {
	return a.Scope == models.ScopeSchool && a.RoleName == models.RoleSchoolAdmin && a.SchoolID != nil
}

// IsAdmin trả về true nếu là admin của một trong hai scope
func (a Actor) IsAdmin() bool {
	return a.IsProviderAdmin() || a.IsSchoolAdmin()
}

// OwnsSchool kiểm tra actor có quyền trên dữ liệu của trường schoolID không.
// Provider admin có quyền trên mọi trường, school admin chỉ trên trường của mình.
func (a Actor) OwnsSchool(schoolID *uint) bool {
	if a.IsProviderAdmin() {
		return true
	}
	if !a.IsSchoolAdmin() || schoolID == nil {
		return false
	}
	return *schoolID == *a.SchoolID
}
