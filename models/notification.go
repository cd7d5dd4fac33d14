package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotifyJob         NotificationKind = "job"         // Thông báo việc làm
	NotifyScholarship NotificationKind = "scholarship" // Thông báo học bổng
	NotifyDay         NotificationKind = "day"         // Thông báo trong ngày
)

// Notification là thông báo phẳng (không thuộc cây danh mục).
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      NotificationKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Link      *string          `gorm:"size:500" json:"link,omitempty"`
	PostedBy  *uuid.UUID       `gorm:"type:uuid;default:null" json:"posted_by"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}
