package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/utils"
)

// GetProfile trả về hồ sơ của người dùng đang đăng nhập.
func GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile cập nhật hồ sơ (multipart, ảnh đại diện là tùy chọn).
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
		return
	}

	updates := map[string]interface{}{}
	if username := c.PostForm("username"); username != "" {
		updates["username"] = username
	}
	if gender := c.PostForm("gender"); gender != "" {
		updates["gender"] = gender
	}
	if phone := c.PostForm("phone_number"); phone != "" {
		updates["phone_number"] = phone
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		photoURL, uerr := utils.UploadAvatar(fileHeader, user.ID.String())
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh đại diện"})
			return
		}
		// Ảnh cũ trở thành mồ côi nếu không dọn.
		if user.PhotoURL != nil {
			if derr := utils.DeleteFileFromSupabase(*user.PhotoURL); derr != nil {
				log.Println("Lỗi xóa ảnh đại diện cũ:", derr)
			}
		}
		updates["photo_url"] = photoURL
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Không có gì để cập nhật", "user": user})
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật hồ sơ"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật hồ sơ thành công", "user": user})
}

// AdminListUsers (admin) liệt kê toàn bộ tài khoản, lọc theo role nếu có.
func AdminListUsers(c *gin.Context) {
	query := config.DB.Model(&models.User{}).Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách người dùng"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminToggleUserStatus (admin) khóa / mở khóa một tài khoản.
func AdminToggleUserStatus(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
		return
	}

	newStatus := true
	if user.Status != nil {
		newStatus = !*user.Status
	}
	if err := config.DB.Model(&user).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật trạng thái"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật trạng thái thành công",
		"status":  newStatus,
	})
}
