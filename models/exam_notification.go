package models

import (
	"time"

	"github.com/google/uuid"
)

// ExamNotification là thông báo kỳ thi, cũng là collection phẳng.
type ExamNotification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExamName  string     `gorm:"size:255;not null" json:"exam_name"`
	Track     string     `gorm:"size:30;index" json:"track"`
	ExamDate  *time.Time `json:"exam_date,omitempty"`
	Details   string     `gorm:"type:text" json:"details"`
	Link      *string    `gorm:"size:500" json:"link,omitempty"`
	PostedBy  *uuid.UUID `gorm:"type:uuid;default:null" json:"posted_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
