package models

import "time"

// School là một trường thành viên (tenant)
type School struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Code          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Email         string    `gorm:"type:varchar(255);not null" json:"email"`
	Hotline       string    `gorm:"type:varchar(20)" json:"hotline"`
	Address       string    `json:"address"`
	PrincipalName string    `json:"principalName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (School) TableName() string {
	return "schools"
}
