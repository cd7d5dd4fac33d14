package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

func validNotificationKind(kind models.NotificationKind) bool {
	switch kind {
	case models.NotifyJob, models.NotifyScholarship, models.NotifyDay:
		return true
	}
	return false
}

// GetNotifications liệt kê thông báo, lọc theo loại nếu có (?kind=job|scholarship|day).
func GetNotifications(c *gin.Context) {
	query := config.DB.Model(&models.Notification{}).Order("created_at DESC")
	if kind := c.Query("kind"); kind != "" {
		if !validNotificationKind(models.NotificationKind(kind)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Loại thông báo không hợp lệ"})
			return
		}
		query = query.Where("kind = ?", kind)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách thông báo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

type CreateNotificationRequest struct {
	Kind    models.NotificationKind `json:"kind" binding:"required"`
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message" binding:"required"`
	Link    *string                 `json:"link"`
}

// CreateNotification đăng thông báo mới và phát sự kiện cho client đang mở.
func CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}
	if !validNotificationKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Loại thông báo không hợp lệ"})
		return
	}

	notification := models.Notification{
		ID:       uuid.New(),
		Kind:     req.Kind,
		Title:    req.Title,
		Message:  req.Message,
		Link:     req.Link,
		PostedBy: currentUserID(c),
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo thông báo"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged(string(req.Kind))
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo thông báo thành công", "notification": notification})
}

type UpdateNotificationRequest struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Link    *string `json:"link"`
}

func UpdateNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	var notification models.Notification
	if err := config.DB.First(&notification, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Message != "" {
		updates["message"] = req.Message
	}
	if req.Link != nil {
		updates["link"] = req.Link
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Không có gì để cập nhật"})
		return
	}

	if err := config.DB.Model(&notification).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thông báo"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged(string(notification.Kind))
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật thông báo thành công"})
}

func DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var notification models.Notification
	if err := config.DB.First(&notification, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo"})
		return
	}

	if err := config.DB.Delete(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa thông báo"})
		return
	}

	ws.DefaultHub.BroadcastNotificationListChanged(string(notification.Kind))
	c.JSON(http.StatusOK, gin.H{"message": "Xóa thông báo thành công"})
}
