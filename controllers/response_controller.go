package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
)

type SubmitQuizRequest struct {
	// Đáp án theo chỉ số câu hỏi 0-based; câu thiếu coi là bỏ trống.
	Answers map[int]string `json:"answers" binding:"required"`
}

// SubmitQuiz nộp bài trực tiếp không qua lượt có đếm giờ (chế độ luyện tập).
// Chấm phía server rồi lưu như một lần làm bài bình thường.
func SubmitQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Chưa đăng nhập"})
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc câu hỏi"})
		return
	}

	score := services.ScoreQuiz(questions, req.Answers)
	response, err := services.NewResponseRecorder(config.DB).Save(&quiz, *userID, score)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu kết quả: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Nộp bài thành công",
		"response": response,
	})
}

// GetMyResponseSheet trả về lịch sử làm bài của người dùng đang đăng nhập.
// Chưa từng làm bài thì trả sheet rỗng.
func GetMyResponseSheet(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Chưa đăng nhập"})
		return
	}

	sheet, entries, err := services.NewResponseRecorder(config.DB).SheetFor(*userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy lịch sử làm bài"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    sheet.UserID,
		"updated_at": sheet.UpdatedAt,
		"responses":  entries,
	})
}

// GetQuizResponses (admin/staff) liệt kê toàn bộ kết quả làm bài của một
// bộ trắc nghiệm, mới nhất trước.
func GetQuizResponses(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var responses []models.QuizResponse
	if err := config.DB.Where("quiz_id = ?", quizID).Order("submitted_at DESC").Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bài làm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"responses": responses})
}
