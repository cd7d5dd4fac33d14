package controllers

import (
	"errors"
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

// GetGroups liệt kê các nhóm của một hệ đào tạo.
func GetGroups(c *gin.Context) {
	track := strings.ToUpper(c.Param("track"))
	if !services.ValidTrack(track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
		return
	}

	var groups []models.Group
	if err := config.DB.Where("track = ?", track).Order("created_at ASC").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách nhóm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type CreateGroupRequest struct {
	Track string `json:"track" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// CreateGroup tạo nhóm mới dưới một hệ đào tạo. Tên trùng (không phân biệt
// hoa thường) trong cùng hệ bị từ chối; unique index track+name chặn nốt
// trường hợp hai request đồng thời.
func CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	track := strings.ToUpper(req.Track)
	if !services.ValidTrack(track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
		return
	}

	id, err := catalog().Insert(services.TrackRoot(track), services.NodeFields{
		Name:      req.Name,
		CreatedBy: currentUserID(c),
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) || errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tên nhóm đã tồn tại trong hệ này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo nhóm"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(track)
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo nhóm thành công", "id": id})
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateGroup đổi tên nhóm (merge: các trường khác giữ nguyên).
func UpdateGroup(c *gin.Context) {
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

	var group models.Group
	if err := config.DB.First(&group, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhóm"})
		return
	}

	if err := catalog().Rename(services.LevelGroup, id, req.Name, currentUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tên nhóm đã tồn tại trong hệ này"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật nhóm"})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(group.Track)
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật nhóm thành công"})
}

// DeleteGroup xóa nhóm cùng toàn bộ nhánh con (ngành, học kỳ, môn, chương,
// bộ trắc nghiệm, lịch sử làm bài và file trên storage).
func DeleteGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var group models.Group
	if err := config.DB.First(&group, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhóm"})
		return
	}

	if err := cascade().Delete(services.LevelGroup, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa nhóm chưa hoàn tất: " + err.Error()})
		return
	}

	ws.DefaultHub.BroadcastCatalogChanged(group.Track)
	c.JSON(http.StatusOK, gin.H{"message": "Xóa nhóm thành công"})
}
