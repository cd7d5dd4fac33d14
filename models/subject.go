package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject là môn học, con của cấp sâu nhất trong Group/Course/Semester
// (tùy độ sâu của hệ đào tạo) — đúng một khóa cha được set.
type Subject struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	CourseID    *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	SemesterID  *uuid.UUID `gorm:"type:uuid;index" json:"semester_id,omitempty"`
	SubjectName string     `gorm:"size:255;not null" json:"subjectName"`
	Slug        string     `gorm:"size:255" json:"slug"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Units []Unit `gorm:"foreignKey:SubjectID" json:"units,omitempty"`
}
