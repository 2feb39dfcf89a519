package models

import (
	"time"
)

// Role là nhóm quyền có tên, gắn với một scope, có thể thuộc một trường hoặc dùng chung (SchoolID = nil)
type Role struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string    `gorm:"type:varchar(100);not null;index" json:"roleName"`
	TypeRole    Scope     `gorm:"type:varchar(20);not null;index" json:"typeRole"`
	Description string    `gorm:"type:text" json:"description"`
	SchoolID    *uint     `gorm:"index" json:"schoolId"`
	UserCount   int64     `gorm:"-" json:"userCount"` // Không lưu DB, được tính khi đọc
	CreateBy    uint      `json:"createBy"`
	UpdateBy    uint      `json:"updateBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Role) TableName() string {
	return "roles"
}

// IsSystem trả về true nếu role là role được bảo vệ
func (r *Role) IsSystem() bool {
	return IsProtectedRoleName(r.RoleName)
}

// IsGlobal trả về true nếu role dùng chung cho mọi trường cùng loại
func (r *Role) IsGlobal() bool {
	return r.SchoolID == nil
}

// VisibleToSchool kiểm tra role có hiển thị với trường schoolID không
func (r *Role) VisibleToSchool(schoolID uint) bool {
	return r.IsGlobal() || *r.SchoolID == schoolID
}

// IsAlternativeFor kiểm tra r có thể thay thế old khi xóa old không:
// cùng loại, khác role, không phải role được bảo vệ, và là role dùng chung
// hoặc cùng trường với old. User của role dùng chung trải trên nhiều trường
// nên chỉ role dùng chung mới thay được role dùng chung.
func (r *Role) IsAlternativeFor(old *Role) bool {
	if r.ID == old.ID || r.TypeRole != old.TypeRole || r.IsSystem() {
		return false
	}
	if r.IsGlobal() {
		return true
	}
	return !old.IsGlobal() && *r.SchoolID == *old.SchoolID
}
