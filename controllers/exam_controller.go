package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

// GetExamNotifications liệt kê thông báo kỳ thi, lọc theo hệ nếu có (?track=...).
func GetExamNotifications(c *gin.Context) {
	query := config.DB.Model(&models.ExamNotification{}).Order("exam_date ASC NULLS LAST, created_at DESC")
	if track := strings.ToUpper(c.Query("track")); track != "" {
		if !services.ValidTrack(track) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
			return
		}
		query = query.Where("track = ?", track)
	}

	var exams []models.ExamNotification
	if err := query.Find(&exams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách thông báo kỳ thi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exams": exams})
}

type CreateExamNotificationRequest struct {
	ExamName string     `json:"exam_name" binding:"required"`
	Track    string     `json:"track"`
	ExamDate *time.Time `json:"exam_date"`
	Details  string     `json:"details"`
	Link     *string    `json:"link"`
}

func CreateExamNotification(c *gin.Context) {
	var req CreateExamNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	track := strings.ToUpper(req.Track)
	if track != "" && !services.ValidTrack(track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
		return
	}

	exam := models.ExamNotification{
		ID:       uuid.New(),
		ExamName: req.ExamName,
		Track:    track,
		ExamDate: req.ExamDate,
		Details:  req.Details,
		Link:     req.Link,
		PostedBy: currentUserID(c),
	}
	if err := config.DB.Create(&exam).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo thông báo kỳ thi"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged("exam")
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo thông báo kỳ thi thành công", "exam": exam})
}

type UpdateExamNotificationRequest struct {
	ExamName string     `json:"exam_name"`
	ExamDate *time.Time `json:"exam_date"`
	Details  string     `json:"details"`
	Link     *string    `json:"link"`
}

func UpdateExamNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var req UpdateExamNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	var exam models.ExamNotification
	if err := config.DB.First(&exam, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo kỳ thi"})
		return
	}

	updates := map[string]interface{}{}
	if req.ExamName != "" {
		updates["exam_name"] = req.ExamName
	}
	if req.ExamDate != nil {
		updates["exam_date"] = req.ExamDate
	}
	if req.Details != "" {
		updates["details"] = req.Details
	}
	if req.Link != nil {
		updates["link"] = req.Link
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Không có gì để cập nhật"})
		return
	}

	if err := config.DB.Model(&exam).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thông báo kỳ thi"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged("exam")
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật thông báo kỳ thi thành công"})
}

func DeleteExamNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	if err := config.DB.Delete(&models.ExamNotification{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa thông báo kỳ thi"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged("exam")
	c.JSON(http.StatusOK, gin.H{"message": "Xóa thông báo kỳ thi thành công"})
}
