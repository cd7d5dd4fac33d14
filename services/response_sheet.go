package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// ErrSheetConflict: append vào lịch sử làm bài thua tranh chấp quá số lần
// thử lại cho phép. Bản ghi QuizResponse vẫn đã được lưu.
var ErrSheetConflict = errors.New("lịch sử làm bài đang bị cập nhật đồng thời, vui lòng thử lại")

const sheetAppendRetries = 5

// ResponseRecorder lưu kết quả làm bài: một bản ghi QuizResponse dưới quiz
// và một entry append vào ResponseSheet của người dùng.
type ResponseRecorder struct {
	db *gorm.DB
}

func NewResponseRecorder(db *gorm.DB) *ResponseRecorder {
	return &ResponseRecorder{db: db}
}

// Save ghi kết quả đã chấm. Trả về bản ghi QuizResponse để controller dựng
// snapshot phản hồi cho client.
func (r *ResponseRecorder) Save(quiz *models.Quiz, userID uuid.UUID, score ScoreResult) (*models.QuizResponse, error) {
	questionsJSON, err := json.Marshal(score.Questions)
	if err != nil {
		return nil, err
	}

	response := models.QuizResponse{
		ID:             uuid.New(),
		QuizID:         quiz.ID,
		UserID:         userID,
		TotalQuestions: score.TotalQuestions,
		CorrectAnswers: score.CorrectAnswers,
		WrongAnswers:   score.WrongAnswers,
		Marks:          score.Marks,
		Percentage:     score.Percentage,
		Questions:      datatypes.JSON(questionsJSON),
	}
	if err := r.db.Create(&response).Error; err != nil {
		return nil, err
	}

	entry := models.SheetEntry{
		QuizID:         quiz.ID,
		QuizTitle:      quiz.QuizTitle,
		TotalQuestions: score.TotalQuestions,
		CorrectAnswers: score.CorrectAnswers,
		WrongAnswers:   score.WrongAnswers,
		Marks:          score.Marks,
		Percentage:     score.Percentage,
		Questions:      score.Questions,
		SubmittedAt:    response.SubmittedAt,
	}
	if err := r.AppendToSheet(userID, entry); err != nil {
		return nil, err
	}
	return &response, nil
}

// AppendToSheet append một entry vào lịch sử làm bài của userID bằng
// compare-and-swap trên cột version: đọc sheet, ghép entry, UPDATE có điều
// kiện version chưa đổi. Hai bài nộp đồng thời thì một bên thua và thử lại
// với bản mới, không bên nào ghi đè mất entry của bên kia.
func (r *ResponseRecorder) AppendToSheet(userID uuid.UUID, entry models.SheetEntry) error {
	for attempt := 0; attempt < sheetAppendRetries; attempt++ {
		var sheet models.ResponseSheet
		err := r.db.Where("user_id = ?", userID).First(&sheet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, cerr := r.createSheet(userID, entry)
			if cerr != nil {
				return cerr
			}
			if created {
				return nil
			}
			// Một request khác vừa tạo sheet trước: đọc lại và append.
			continue
		}
		if err != nil {
			return err
		}

		entries, err := sheet.Entries()
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		raw, err := json.Marshal(entries)
		if err != nil {
			return err
		}

		result := r.db.Model(&models.ResponseSheet{}).
			Where("id = ? AND version = ?", sheet.ID, sheet.Version).
			Updates(map[string]interface{}{
				"responses":  datatypes.JSON(raw),
				"version":    sheet.Version + 1,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// Thua CAS: vòng sau đọc bản mới nhất rồi append lại.
	}
	return ErrSheetConflict
}

// createSheet tạo sheet đầu tiên của người dùng với entry mở màn.
// Trả về false (không lỗi) khi unique index user_id báo sheet đã tồn tại.
func (r *ResponseRecorder) createSheet(userID uuid.UUID, entry models.SheetEntry) (bool, error) {
	raw, err := json.Marshal([]models.SheetEntry{entry})
	if err != nil {
		return false, err
	}
	sheet := models.ResponseSheet{
		ID:        uuid.New(),
		UserID:    userID,
		Responses: datatypes.JSON(raw),
		Version:   1,
	}
	if err := r.db.Create(&sheet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SheetFor trả về lịch sử làm bài của userID; chưa có thì trả sheet rỗng
// thay vì 404, front-end luôn có một trang lịch sử để hiển thị.
func (r *ResponseRecorder) SheetFor(userID uuid.UUID) (*models.ResponseSheet, []models.SheetEntry, error) {
	var sheet models.ResponseSheet
	err := r.db.Where("user_id = ?", userID).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		empty := models.ResponseSheet{UserID: userID, Responses: datatypes.JSON("[]")}
		return &empty, []models.SheetEntry{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	entries, err := sheet.Entries()
	if err != nil {
		return nil, nil, err
	}
	return &sheet, entries, nil
}
