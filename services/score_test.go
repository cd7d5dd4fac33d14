package services

import (
	"testing"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

func sampleQuestions() []models.Question {
	return []models.Question{
		{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectOption: "4", Explanation: "cộng cơ bản"},
		{Question: "Thủ đô VN?", Options: []string{"Huế", "Đà Nẵng", "Hà Nội", "Cần Thơ"}, CorrectOption: "Hà Nội"},
		{Question: "H2O là?", Options: []string{"Muối", "Nước", "Axit", "Bazơ"}, CorrectOption: "Nước"},
	}
}

func TestScoreQuiz(t *testing.T) {
	questions := sampleQuestions()

	t.Run("đúng hết", func(t *testing.T) {
		result := ScoreQuiz(questions, map[int]string{0: "4", 1: "Hà Nội", 2: "Nước"})
		if result.CorrectAnswers != 3 || result.WrongAnswers != 0 {
			t.Fatalf("đúng/sai = %d/%d", result.CorrectAnswers, result.WrongAnswers)
		}
		if result.Marks != 3 {
			t.Errorf("điểm = %d, mong đợi 3", result.Marks)
		}
		if result.Percentage != 100 {
			t.Errorf("phần trăm = %v, mong đợi 100", result.Percentage)
		}
	})

	t.Run("câu bỏ trống tính sai", func(t *testing.T) {
		result := ScoreQuiz(questions, map[int]string{0: "4"})
		if result.CorrectAnswers != 1 || result.WrongAnswers != 2 {
			t.Fatalf("đúng/sai = %d/%d, mong đợi 1/2", result.CorrectAnswers, result.WrongAnswers)
		}
		if result.Questions[1].Selected != nil {
			t.Error("câu bỏ trống phải có selected = nil")
		}
		if result.Questions[1].IsCorrect {
			t.Error("câu bỏ trống không thể đúng")
		}
	})

	t.Run("phần trăm làm tròn 2 chữ số", func(t *testing.T) {
		result := ScoreQuiz(questions, map[int]string{1: "Hà Nội"})
		if result.Percentage != 33.33 {
			t.Errorf("phần trăm = %v, mong đợi 33.33", result.Percentage)
		}
	})

	t.Run("snapshot giữ nguyên thứ tự và đáp án đúng", func(t *testing.T) {
		result := ScoreQuiz(questions, map[int]string{0: "3"})
		if len(result.Questions) != 3 {
			t.Fatalf("snapshot có %d câu", len(result.Questions))
		}
		first := result.Questions[0]
		if first.Selected == nil || *first.Selected != "3" {
			t.Error("snapshot thiếu đáp án đã chọn")
		}
		if first.IsCorrect {
			t.Error("chọn 3 không thể đúng")
		}
		if first.CorrectOption != "4" || first.Explanation != "cộng cơ bản" {
			t.Error("snapshot thiếu đáp án đúng hoặc giải thích")
		}
	})

	t.Run("bài một câu", func(t *testing.T) {
		one := []models.Question{
			{Question: "?", Options: []string{"A", "B", "C", "D"}, CorrectOption: "B"},
		}

		right := ScoreQuiz(one, map[int]string{0: "B"})
		if right.Marks != 1 || right.Percentage != 100 || right.WrongAnswers != 0 {
			t.Errorf("chọn đúng: %+v", right)
		}

		wrong := ScoreQuiz(one, map[int]string{0: "A"})
		if wrong.Marks != 0 || wrong.Percentage != 0 || wrong.WrongAnswers != 1 {
			t.Errorf("chọn sai: %+v", wrong)
		}
	})

	t.Run("quiz rỗng không chia cho 0", func(t *testing.T) {
		result := ScoreQuiz(nil, nil)
		if result.Percentage != 0 || result.Marks != 0 {
			t.Errorf("quiz rỗng phải về 0, nhận %+v", result)
		}
	})
}
