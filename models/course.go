package models

import (
	"time"

	"github.com/google/uuid"
)

// Course là ngành học (có ở các hệ Degree, B.Tech, PG, Intermediate).
type Course struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"group_id"`
	Group      Group      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CourseName string     `gorm:"size:255;not null" json:"courseName"`
	Slug       string     `gorm:"size:255" json:"slug"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy  *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Semesters []Semester `gorm:"foreignKey:CourseID" json:"semesters,omitempty"`
	Subjects  []Subject  `gorm:"foreignKey:CourseID" json:"subjects,omitempty"`
}
