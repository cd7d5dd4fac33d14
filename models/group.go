package models

import (
	"time"

	"github.com/google/uuid"
)

// Group là cấp đầu tiên dưới một hệ đào tạo (track):
// năm học / lớp / trường tùy theo hệ (SSC, DEGREE, ...).
type Group struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Track     string     `gorm:"size:30;not null;index:idx_groups_track_name,unique" json:"track"`
	Name      string     `gorm:"size:255;not null;index:idx_groups_track_name,unique" json:"name"`
	Slug      string     `gorm:"size:255" json:"slug"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"` // có thể null
	UpdatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"` // có thể null
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Courses   []Course   `gorm:"foreignKey:GroupID" json:"courses,omitempty"`
	Semesters []Semester `gorm:"foreignKey:GroupID" json:"semesters,omitempty"`
	Subjects  []Subject  `gorm:"foreignKey:GroupID" json:"subjects,omitempty"`
}
