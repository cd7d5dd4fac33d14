package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question là một câu hỏi trắc nghiệm trong danh sách câu hỏi của Quiz
// (lưu dạng JSONB, giữ nguyên thứ tự).
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"` // luôn 4 lựa chọn
	CorrectOption string   `json:"correctOption"`
	Explanation   string   `json:"explanation"`
}

// Quiz thuộc một Unit, định danh theo quizNumber do người tạo đặt
// (duy nhất trong Unit, có unique index chặn trùng).
type Quiz struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_quizzes_unit_number,unique" json:"unit_id"`
	Unit       Unit           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuizNumber string         `gorm:"size:50;not null;index:idx_quizzes_unit_number,unique" json:"quizNumber"`
	QuizTitle  string         `gorm:"size:255;not null" json:"quizTitle"`
	Questions  datatypes.JSON `gorm:"type:jsonb;not null" json:"questions"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid;default:null" json:"created_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Responses []QuizResponse `gorm:"foreignKey:QuizID" json:"responses,omitempty"`
}

// QuestionList giải mã danh sách câu hỏi từ JSONB.
func (q *Quiz) QuestionList() ([]Question, error) {
	var questions []Question
	if len(q.Questions) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(q.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SetQuestions mã hóa danh sách câu hỏi vào JSONB.
func (q *Quiz) SetQuestions(questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = datatypes.JSON(data)
	return nil
}
