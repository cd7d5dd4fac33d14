package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
)

// attempts giữ các lượt làm bài đang mở của node này.
var attempts = services.NewAttemptStore()

// Thời lượng mặc định: 1 phút mỗi câu.
const defaultSecondsPerQuestion = 60

type StartAttemptRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

// StartAttempt mở một lượt làm bài có đếm giờ cho quiz :id. Trả về câu hỏi
// đã bỏ đáp án. Hết giờ bài được nộp tự động với các đáp án đã chọn.
func StartAttempt(c *gin.Context) {
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

	var req StartAttemptRequest
	// Body trống cũng chấp nhận: dùng thời lượng mặc định.
	_ = c.ShouldBindJSON(&req)

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bộ trắc nghiệm"})
		return
	}

	questions, err := quiz.QuestionList()
	if err != nil || len(questions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc câu hỏi"})
		return
	}

	durationSeconds := req.DurationSeconds
	if durationSeconds <= 0 {
		durationSeconds = len(questions) * defaultSecondsPerQuestion
	}
	duration := time.Duration(durationSeconds) * time.Second

	attemptID := uuid.New()
	recorder := services.NewResponseRecorder(config.DB)
	quizCopy := quiz
	uid := *userID

	sess := services.NewSession(len(questions), duration, func(answers map[int]string) {
		// Hết giờ: chấm và lưu trên goroutine của timer.
		score := services.ScoreQuiz(questions, answers)
		if _, serr := recorder.Save(&quizCopy, uid, score); serr != nil {
			log.Printf("Lỗi lưu bài nộp tự động (attempt %s): %v", attemptID, serr)
		}
		attempts.Remove(attemptID)
	})

	attempts.Add(&services.ActiveAttempt{ID: attemptID, QuizID: quizID, UserID: uid, Sess: sess})

	stripped := make([]strippedQuestion, 0, len(questions))
	for i, q := range questions {
		stripped = append(stripped, strippedQuestion{Index: i, Question: q.Question, Options: q.Options})
	}

	c.JSON(http.StatusCreated, gin.H{
		"attempt_id":       attemptID,
		"quizTitle":        quiz.QuizTitle,
		"total_questions":  len(questions),
		"duration_seconds": durationSeconds,
		"questions":        stripped,
	})
}

// attemptOf tra lượt làm bài và chặn người khác động vào lượt không phải của mình.
func attemptOf(c *gin.Context) (*services.ActiveAttempt, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID lượt làm bài không hợp lệ"})
		return nil, false
	}

	attempt, ok := attempts.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lượt làm bài không tồn tại hoặc đã kết thúc"})
		return nil, false
	}

	userID := currentUserID(c)
	if userID == nil || *userID != attempt.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền với lượt làm bài này"})
		return nil, false
	}
	return attempt, true
}

type SelectAnswerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Option        string `json:"option" binding:"required"`
}

// SelectAnswer chọn (hoặc đổi) đáp án một câu trong lượt đang mở.
func SelectAnswer(c *gin.Context) {
	attempt, ok := attemptOf(c)
	if !ok {
		return
	}

	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	if err := attempt.Sess.SelectAnswer(req.QuestionIndex, req.Option); err != nil {
		if errors.Is(err, services.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bài làm đã được nộp"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Đã ghi nhận đáp án",
		"remaining_seconds": int(attempt.Sess.Remaining().Seconds()),
	})
}

type ClearAnswerRequest struct {
	QuestionIndex int `json:"question_index"`
}

// ClearAnswer bỏ chọn đáp án một câu.
func ClearAnswer(c *gin.Context) {
	attempt, ok := attemptOf(c)
	if !ok {
		return
	}

	var req ClearAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	if err := attempt.Sess.ClearAnswer(req.QuestionIndex); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Bài làm đã được nộp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã bỏ chọn đáp án"})
}

// RequestSubmit xử lý yêu cầu nộp bài. Còn câu bỏ trống: chuyển sang màn
// hình xác nhận, trả về các câu bỏ trống (1-based) để cảnh báo, đồng hồ vẫn
// chạy. Đã trả lời đủ: chấm và lưu luôn, không cần xác nhận.
func RequestSubmit(c *gin.Context) {
	attempt, ok := attemptOf(c)
	if !ok {
		return
	}

	unanswered, answers, err := attempt.Sess.RequestSubmit()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Bài làm đã được nộp"})
		return
	}

	if answers != nil {
		finalizeAttempt(c, attempt, answers)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unanswered":        unanswered,
		"remaining_seconds": int(attempt.Sess.Remaining().Seconds()),
	})
}

// CancelSubmit quay lại làm bài từ màn hình xác nhận.
func CancelSubmit(c *gin.Context) {
	attempt, ok := attemptOf(c)
	if !ok {
		return
	}

	if err := attempt.Sess.CancelSubmit(); err != nil {
		if errors.Is(err, services.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bài làm đã được nộp"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chưa có yêu cầu nộp bài"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tiếp tục làm bài"})
}

// ConfirmSubmit chốt bài: chấm phía server, lưu kết quả và lịch sử làm bài,
// trả về snapshot từng câu kèm đáp án đúng và giải thích.
func ConfirmSubmit(c *gin.Context) {
	attempt, ok := attemptOf(c)
	if !ok {
		return
	}

	answers, err := attempt.Sess.ConfirmSubmit()
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bài làm đã được nộp"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phải yêu cầu nộp bài trước khi xác nhận"})
		return
	}

	finalizeAttempt(c, attempt, answers)
}

// finalizeAttempt chấm phía server với đáp án đã chốt, lưu kết quả và lịch
// sử làm bài rồi trả kết quả về cho client.
func finalizeAttempt(c *gin.Context, attempt *services.ActiveAttempt, answers map[int]string) {
	attempts.Remove(attempt.ID)

	var quiz models.Quiz
	if err := config.DB.First(&quiz, "id = ?", attempt.QuizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bộ trắc nghiệm đã bị xóa"})
		return
	}
	questions, err := quiz.QuestionList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc câu hỏi"})
		return
	}

	score := services.ScoreQuiz(questions, answers)
	response, err := services.NewResponseRecorder(config.DB).Save(&quiz, attempt.UserID, score)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu kết quả: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Nộp bài thành công",
		"response": response,
	})
}
