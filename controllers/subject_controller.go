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

// GetSubjects liệt kê môn học dưới một cha
// (?parent_level=group|course|semester&parent_id=...).
func GetSubjects(c *gin.Context) {
	parentID, err := uuid.Parse(c.Query("parent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_id không hợp lệ"})
		return
	}

	var subjects []models.Subject
	switch services.Level(c.Query("parent_level")) {
	case services.LevelGroup:
		err = config.DB.Where("group_id = ?", parentID).Order("created_at ASC").Find(&subjects).Error
	case services.LevelCourse:
		err = config.DB.Where("course_id = ?", parentID).Order("created_at ASC").Find(&subjects).Error
	case services.LevelSemester:
		err = config.DB.Where("semester_id = ?", parentID).Order("created_at ASC").Find(&subjects).Error
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_level phải là group, course hoặc semester"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách môn học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

type CreateSubjectRequest struct {
	Track       string    `json:"track" binding:"required"`
	ParentLevel string    `json:"parent_level" binding:"required"`
	ParentID    uuid.UUID `json:"parent_id" binding:"required"`
	SubjectName string    `json:"subject_name" binding:"required"`
}

// CreateSubject tạo môn học dưới cấp cha sâu nhất của hệ
// (nhóm với SSC/Medical, ngành với Intermediate, học kỳ với Degree/B.Tech/PG).
func CreateSubject(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	track := strings.ToUpper(req.Track)
	parentLevel := services.Level(req.ParentLevel)
	if lv, ok := catalog().ChildLevel(track, parentLevel); !ok || lv != services.LevelSubject {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Môn học không nằm dưới cấp cha này trong hệ đã chọn"})
		return
	}

	parent := services.ParentRef{Track: track, Level: parentLevel, ID: req.ParentID}
	id, err := catalog().Insert(parent, services.NodeFields{
		Name:      req.SubjectName,
		CreatedBy: currentUserID(c),
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tên môn học đã tồn tại trong cấp cha này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo môn học"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(track)
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo môn học thành công", "id": id})
}

// trackOfSubject lần ngược chuỗi cha để tìm hệ đào tạo.
func trackOfSubject(subject *models.Subject) string {
	if subject.GroupID != nil {
		var group models.Group
		if err := config.DB.First(&group, "id = ?", *subject.GroupID).Error; err == nil {
			return group.Track
		}
		return ""
	}
	if subject.CourseID != nil {
		var course models.Course
		if err := config.DB.Preload("Group").First(&course, "id = ?", *subject.CourseID).Error; err == nil {
			return course.Group.Track
		}
		return ""
	}
	if subject.SemesterID != nil {
		var semester models.Semester
		if err := config.DB.First(&semester, "id = ?", *subject.SemesterID).Error; err == nil {
			return trackOfSemester(&semester)
		}
	}
	return ""
}

// UpdateSubject đổi tên môn học.
func UpdateSubject(c *gin.Context) {
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

	var subject models.Subject
	if err := config.DB.First(&subject, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}

	if err := catalog().Rename(services.LevelSubject, id, req.Name, currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật môn học"})
		return
	}

	if track := trackOfSubject(&subject); track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật môn học thành công"})
}

// DeleteSubject xóa môn học cùng toàn bộ chương, bộ trắc nghiệm và file.
func DeleteSubject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var subject models.Subject
	if err := config.DB.First(&subject, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}
	track := trackOfSubject(&subject)

	if err := cascade().Delete(services.LevelSubject, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa môn học chưa hoàn tất: " + err.Error()})
		return
	}

	if track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa môn học thành công"})
}
