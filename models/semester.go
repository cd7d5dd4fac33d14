package models

import (
	"time"

	"github.com/google/uuid"
)

// Semester là học kỳ. Cha là Course (Degree/B.Tech/PG) hoặc Group
// (trường hợp hệ không có cấp ngành); đúng một trong hai khóa cha được set.
// Chưa hệ nào trong TrackLevels dùng dạng treo dưới nhóm: GroupID giữ lại
// để đọc và dọn dữ liệu cũ có dạng đó.
type Semester struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	GroupID      *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	SemesterName string     `gorm:"size:150;not null" json:"semesterName"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Subjects []Subject `gorm:"foreignKey:SemesterID" json:"subjects,omitempty"`
}
