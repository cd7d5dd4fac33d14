package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

const optionsPerQuestion = 4

// validateQuestions kiểm tra cấu trúc bộ câu hỏi khi tạo / sửa:
// mỗi câu đủ 4 lựa chọn không trống và đáp án đúng phải là một trong số đó.
func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return errors.New("bộ trắc nghiệm phải có ít nhất một câu hỏi")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("câu %d thiếu nội dung", i+1)
		}
		if len(q.Options) != optionsPerQuestion {
			return fmt.Errorf("câu %d phải có đúng %d lựa chọn", i+1, optionsPerQuestion)
		}
		found := false
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("câu %d có lựa chọn trống", i+1)
			}
			if opt == q.CorrectOption {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("đáp án đúng của câu %d không nằm trong các lựa chọn", i+1)
		}
	}
	return nil
}

// GetQuizzesByUnit liệt kê bộ trắc nghiệm của một chương (không kèm câu hỏi).
func GetQuizzesByUnit(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID chương không hợp lệ"})
		return
	}

	var quizzes []models.Quiz
	if err := config.DB.Select("id", "unit_id", "quiz_number", "quiz_title", "created_at", "updated_at").
		Where("unit_id = ?", unitID).Order("quiz_number ASC").Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bộ trắc nghiệm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

type CreateQuizRequest struct {
	UnitID     uuid.UUID         `json:"unit_id" binding:"required"`
	QuizNumber string            `json:"quizNumber" binding:"required"`
	QuizTitle  string            `json:"quizTitle" binding:"required"`
	Questions  []models.Question `json:"questions" binding:"required"`
}

// CreateQuiz tạo bộ trắc nghiệm dưới một chương. quizNumber do người tạo đặt
// và duy nhất trong chương: guard Exists báo trùng sớm cho người dùng, còn
// unique index (unit_id, quiz_number) chặn cả trường hợp hai request tạo
// đồng thời cùng số.
func CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	if err := validateQuestions(req.Questions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", req.UnitID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
		return
	}
	track := trackOfUnit(&unit)

	quizNumber := strings.TrimSpace(req.QuizNumber)
	parent := services.ParentRef{Track: track, Level: services.LevelUnit, ID: unit.ID}
	dup, err := catalog().Exists(parent, quizNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể kiểm tra quizNumber"})
		return
	}
	if dup {
		c.JSON(http.StatusConflict, gin.H{"error": "quizNumber đã tồn tại trong chương này"})
		return
	}

	quiz := models.Quiz{
		ID:         uuid.New(),
		UnitID:     req.UnitID,
		QuizNumber: quizNumber,
		QuizTitle:  strings.TrimSpace(req.QuizTitle),
		CreatedBy:  currentUserID(c),
	}
	if err := quiz.SetQuestions(req.Questions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hóa câu hỏi"})
		return
	}

	if err := config.DB.Create(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "quizNumber đã tồn tại trong chương này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo bộ trắc nghiệm"})
		return
	}

	if track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo bộ trắc nghiệm thành công", "quiz": quiz})
}

// GetQuizAdmin trả về bộ trắc nghiệm đầy đủ (kèm đáp án) cho trang soạn thảo.
func GetQuizAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// strippedQuestion là câu hỏi đã bỏ đáp án đúng và giải thích,
// gửi cho người làm bài.
type strippedQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// GetQuizForTaking trả về bộ câu hỏi KHÔNG kèm đáp án: đáp án đúng không
// bao giờ rời server khi đang làm bài, việc chấm diễn ra ở server.
func GetQuizForTaking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc câu hỏi"})
		return
	}

	stripped := make([]strippedQuestion, 0, len(questions))
	for i, q := range questions {
		stripped = append(stripped, strippedQuestion{Index: i, Question: q.Question, Options: q.Options})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         quiz.ID,
		"quizNumber": quiz.QuizNumber,
		"quizTitle":  quiz.QuizTitle,
		"questions":  stripped,
	})
}

type UpdateQuizRequest struct {
	QuizTitle string            `json:"quizTitle"`
	Questions []models.Question `json:"questions"`
}

// UpdateQuiz cập nhật tiêu đề và / hoặc bộ câu hỏi.
func UpdateQuiz(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	updates := map[string]interface{}{}
	if req.QuizTitle != "" {
		updates["quiz_title"] = strings.TrimSpace(req.QuizTitle)
	}
	if req.Questions != nil {
		if err := validateQuestions(req.Questions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tmp := models.Quiz{}
		if err := tmp.SetQuestions(req.Questions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hóa câu hỏi"})
			return
		}
		updates["questions"] = tmp.Questions
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Không có gì để cập nhật"})
		return
	}

	if err := config.DB.Model(&quiz).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật bộ trắc nghiệm"})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", quiz.UnitID).Error; err == nil {
		if track := trackOfUnit(&unit); track != "" {
			ws.DefaultHub.BroadcastCatalogChanged(track)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật bộ trắc nghiệm thành công"})
}

// DeleteQuiz xóa bộ trắc nghiệm và toàn bộ kết quả làm bài của nó.
func DeleteQuiz(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	if err := cascade().Delete(services.LevelQuiz, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa bộ trắc nghiệm chưa hoàn tất: " + err.Error()})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", quiz.UnitID).Error; err == nil {
		if track := trackOfUnit(&unit); track != "" {
			ws.DefaultHub.BroadcastCatalogChanged(track)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa bộ trắc nghiệm thành công"})
}
