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

// GetSemesters liệt kê học kỳ dưới một cha (?parent_level=course|group&parent_id=...).
func GetSemesters(c *gin.Context) {
	parentID, err := uuid.Parse(c.Query("parent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_id không hợp lệ"})
		return
	}

	var semesters []models.Semester
	switch services.Level(c.Query("parent_level")) {
	case services.LevelCourse:
		err = config.DB.Where("course_id = ?", parentID).Order("created_at ASC").Find(&semesters).Error
	case services.LevelGroup:
		// Phục vụ dữ liệu cũ có học kỳ treo trực tiếp dưới nhóm; các hệ
		// hiện tại đều tạo học kỳ dưới ngành học.
		err = config.DB.Where("group_id = ?", parentID).Order("created_at ASC").Find(&semesters).Error
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_level phải là course hoặc group"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách học kỳ"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"semesters": semesters})
}

type CreateSemesterRequest struct {
	Track        string    `json:"track" binding:"required"`
	ParentLevel  string    `json:"parent_level" binding:"required"`
	ParentID     uuid.UUID `json:"parent_id" binding:"required"`
	SemesterName string    `json:"semester_name" binding:"required"`
}

// CreateSemester tạo học kỳ. Cha là ngành học (Degree/B.Tech/PG) hoặc nhóm
// tùy cấu trúc hệ; cấu trúc sai bị từ chối.
func CreateSemester(c *gin.Context) {
	var req CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	track := strings.ToUpper(req.Track)
	parentLevel := services.Level(req.ParentLevel)
	if lv, ok := catalog().ChildLevel(track, parentLevel); !ok || lv != services.LevelSemester {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo này không có học kỳ dưới cấp cha đã chọn"})
		return
	}

	parent := services.ParentRef{Track: track, Level: parentLevel, ID: req.ParentID}
	id, err := catalog().Insert(parent, services.NodeFields{
		Name:      req.SemesterName,
		CreatedBy: currentUserID(c),
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tên học kỳ đã tồn tại trong cấp cha này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo học kỳ"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(track)
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo học kỳ thành công", "id": id})
}

// trackOfSemester lần ngược chuỗi cha để tìm hệ đào tạo (phục vụ broadcast).
func trackOfSemester(semester *models.Semester) string {
	if semester.GroupID != nil {
		var group models.Group
		if err := config.DB.First(&group, "id = ?", *semester.GroupID).Error; err == nil {
			return group.Track
		}
	}
	if semester.CourseID != nil {
		var course models.Course
		if err := config.DB.Preload("Group").First(&course, "id = ?", *semester.CourseID).Error; err == nil {
			return course.Group.Track
		}
	}
	return ""
}

// UpdateSemester đổi tên học kỳ.
func UpdateSemester(c *gin.Context) {
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

	var semester models.Semester
	if err := config.DB.First(&semester, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học kỳ"})
		return
	}

	if err := catalog().Rename(services.LevelSemester, id, req.Name, currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật học kỳ"})
		return
	}

	if track := trackOfSemester(&semester); track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật học kỳ thành công"})
}

// DeleteSemester xóa học kỳ cùng toàn bộ nhánh con.
func DeleteSemester(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var semester models.Semester
	if err := config.DB.First(&semester, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học kỳ"})
		return
	}
	track := trackOfSemester(&semester)

	if err := cascade().Delete(services.LevelSemester, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa học kỳ chưa hoàn tất: " + err.Error()})
		return
	}

	if track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa học kỳ thành công"})
}
