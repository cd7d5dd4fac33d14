package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // Quản trị hệ thống
	RoleStaff   UserRole = "staff"   // Nhân viên quản lý nội dung
	RoleStudent UserRole = "student" // Học sinh / sinh viên
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"size:150;not null" json:"username"`
	Email       string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:text;not null" json:"-"`
	Gender      string    `gorm:"size:20" json:"gender"`
	PhoneNumber string    `gorm:"size:20" json:"phone_number"`
	PhotoURL    *string   `gorm:"size:500" json:"photo_url,omitempty"`
	Role        UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Status      *bool     `gorm:"default:true" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
