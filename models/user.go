package models

import (
	"time"
)

// Gender giới tính của người dùng
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// User represents a user in the system
type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"fullName"`
	Gender      Gender    `gorm:"type:varchar(10)" json:"gender"`
	BirthYear   *Date     `gorm:"type:date" json:"birthYear"`
	Address     string    `json:"address"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phoneNumber"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // Hash bcrypt, không bao giờ trả về JSON
	Active      bool      `gorm:"column:is_active;default:true" json:"isActive"`
	Scope       Scope     `gorm:"type:varchar(20);not null;index" json:"scope"`
	SchoolID    *uint     `gorm:"index" json:"schoolId"`
	RoleID      uint      `gorm:"not null;index" json:"roleId"`
	CreateBy    uint      `json:"createBy"`
	UpdateBy    uint      `json:"updateBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) GetPassword() string {
	return u.Password
}

func (u *User) IsActive() bool {
	return u.Active
}

// BelongsToSchool kiểm tra user có thuộc trường schoolID không
func (u *User) BelongsToSchool(schoolID uint) bool {
	return u.SchoolID != nil && *u.SchoolID == schoolID
}
