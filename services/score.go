package services

import (
	"math"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// ScoreResult là kết quả chấm một bài trắc nghiệm.
type ScoreResult struct {
	TotalQuestions int
	CorrectAnswers int
	WrongAnswers   int
	Marks          int
	Percentage     float64
	Questions      []models.AnsweredQuestion
}

// ScoreQuiz chấm bài phía server: đáp án đúng không bao giờ rời server khi
// đang làm bài. answers ánh xạ chỉ số câu hỏi (0-based) sang đáp án đã chọn;
// câu thiếu trong map coi là bỏ trống và tính sai. So khớp bằng so sánh
// chuỗi chính xác với correctOption.
func ScoreQuiz(questions []models.Question, answers map[int]string) ScoreResult {
	result := ScoreResult{
		TotalQuestions: len(questions),
		Questions:      make([]models.AnsweredQuestion, 0, len(questions)),
	}

	for i, q := range questions {
		answered := models.AnsweredQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
		}
		if selected, ok := answers[i]; ok {
			answered.Selected = &selected
			answered.IsCorrect = selected == q.CorrectOption
		}
		if answered.IsCorrect {
			result.CorrectAnswers++
		} else {
			result.WrongAnswers++
		}
		result.Questions = append(result.Questions, answered)
	}

	// Mỗi câu đúng 1 điểm.
	result.Marks = result.CorrectAnswers
	if result.TotalQuestions > 0 {
		pct := 100 * float64(result.CorrectAnswers) / float64(result.TotalQuestions)
		result.Percentage = math.Round(pct*100) / 100
	}
	return result
}
