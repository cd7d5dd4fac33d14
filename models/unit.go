package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit là chương của một môn học, có thể đính kèm ảnh minh họa và file PDF
// (lưu trên Supabase Storage, các trường URL có thể null).
type Unit struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject      Subject    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UnitName     string     `gorm:"size:255;not null" json:"unitName"`
	UnitNumber   int        `gorm:"not null;default:1" json:"unitNumber"`
	UnitImageURL *string    `gorm:"size:500" json:"unitImageUrl,omitempty"`
	UnitPdfLink  *string    `gorm:"size:500" json:"unitPdfLink,omitempty"`
	PdfPages     int        `gorm:"default:0" json:"pdf_pages"`
	PdfPreview   string     `gorm:"type:text" json:"pdf_preview,omitempty"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Quizzes []Quiz `gorm:"foreignKey:UnitID" json:"quizzes,omitempty"`
}
