package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnsweredQuestion là snapshot một câu hỏi kèm lựa chọn của người làm bài
// tại thời điểm nộp (dùng cho trang xem lại kết quả).
type AnsweredQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
	Explanation   string   `json:"explanation"`
	Selected      *string  `json:"selected"` // null = bỏ trống
	IsCorrect     bool     `json:"is_correct"`
}

// QuizResponse được ghi dưới quiz và đồng thời append vào ResponseSheet
// của người dùng.
type QuizResponse struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"quizId"`
	Quiz           Quiz           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User           User           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int            `gorm:"not null" json:"correctAnswers"`
	WrongAnswers   int            `gorm:"not null" json:"wrongAnswers"`
	Marks          int            `gorm:"not null" json:"marks"`
	Percentage     float64        `gorm:"type:numeric(5,2)" json:"percentage"`
	Questions      datatypes.JSON `gorm:"type:jsonb;not null" json:"questions"`
	SubmittedAt    time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
}

// SheetEntry là bản ghi nằm trong mảng responses của ResponseSheet.
type SheetEntry struct {
	QuizID         uuid.UUID          `json:"quizId"`
	QuizTitle      string             `json:"quizTitle"`
	TotalQuestions int                `json:"totalQuestions"`
	CorrectAnswers int                `json:"correctAnswers"`
	WrongAnswers   int                `json:"wrongAnswers"`
	Marks          int                `json:"marks"`
	Percentage     float64            `json:"percentage"`
	Questions      []AnsweredQuestion `json:"questions"`
	SubmittedAt    time.Time          `json:"submitted_at"`
}

// ResponseSheet gom toàn bộ kết quả làm bài của một người dùng.
// Version là token optimistic-lock cho thao tác append (xem services).
type ResponseSheet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Responses datatypes.JSON `gorm:"type:jsonb;not null" json:"responses"`
	Version   int            `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// Entries giải mã mảng responses.
func (s *ResponseSheet) Entries() ([]SheetEntry, error) {
	var entries []SheetEntry
	if len(s.Responses) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(s.Responses, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
