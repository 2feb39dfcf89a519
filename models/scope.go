package models

// Scope là trục tenancy: PROVIDER (đơn vị vận hành nền tảng) hoặc SCHOOL (trường thành viên)
type Scope string

const (
	ScopeProvider Scope = "PROVIDER"
	ScopeSchool   Scope = "SCHOOL"
)

// Valid kiểm tra scope có thuộc tập giá trị hợp lệ không
func (s Scope) Valid() bool {
	return s == ScopeProvider || s == ScopeSchool
}

// Tên role được bảo vệ: không được tạo, xóa hay chọn làm role thay thế qua API
const (
	RoleSystemAdmin = "SYSTEM_ADMIN"
	RoleSchoolAdmin = "SCHOOL_ADMIN"
)

// IsProtectedRoleName trả về true với SYSTEM_ADMIN và SCHOOL_ADMIN
func IsProtectedRoleName(name string) bool {
	return name == RoleSystemAdmin || name == RoleSchoolAdmin
}
