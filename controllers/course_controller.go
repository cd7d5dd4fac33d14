package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

// GetCoursesByGroup liệt kê các ngành học của một nhóm.
func GetCoursesByGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID nhóm không hợp lệ"})
		return
	}

	var courses []models.Course
	if err := config.DB.Where("group_id = ?", groupID).Order("created_at ASC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách ngành học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

type CreateCourseRequest struct {
	Track      string    `json:"track" binding:"required"`
	GroupID    uuid.UUID `json:"group_id" binding:"required"`
	CourseName string    `json:"course_name" binding:"required"`
}

// CreateCourse tạo ngành học dưới một nhóm. Chỉ hợp lệ ở hệ có cấp ngành
// (Intermediate, B.Tech, Degree, PG).
func CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	track := strings.ToUpper(req.Track)
	if lv, ok := catalog().ChildLevel(track, services.LevelGroup); !ok || lv != services.LevelCourse {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo này không có cấp ngành học"})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, "id = ? AND track = ?", req.GroupID, track).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhóm cha"})
		return
	}

	parent := services.ParentRef{Track: track, Level: services.LevelGroup, ID: req.GroupID}
	id, err := catalog().Insert(parent, services.NodeFields{
		Name:      req.CourseName,
		CreatedBy: currentUserID(c),
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tên ngành học đã tồn tại trong nhóm này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo ngành học"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(track)
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo ngành học thành công", "id": id})
}

// UpdateCourse đổi tên ngành học.
func UpdateCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	var course models.Course
	if err := config.DB.Preload("Group").First(&course, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy ngành học"})
		return
	}

	if err := catalog().Rename(services.LevelCourse, id, req.Name, currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật ngành học"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(course.Group.Track)
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật ngành học thành công"})
}

// DeleteCourse xóa ngành học cùng toàn bộ nhánh con.
func DeleteCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var course models.Course
	if err := config.DB.Preload("Group").First(&course, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy ngành học"})
		return
	}

	if err := cascade().Delete(services.LevelCourse, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa ngành học chưa hoàn tất: " + err.Error()})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(course.Group.Track)
	c.JSON(http.StatusOK, gin.H{"message": "Xóa ngành học thành công"})
}
