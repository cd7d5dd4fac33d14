package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/edu-catalog-backend/services"
)

// GetTracks trả về các hệ đào tạo và thứ tự các cấp của từng hệ,
// front-end dựa vào đây để dựng breadcrumb.
func GetTracks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tracks": services.TrackLevels})
}

type ListChildrenRequest struct {
	Path services.Path `json:"path"`
}

// ListCatalogChildren liệt kê các node con trực tiếp dưới path đã cho
// (path rỗng = các Group gốc của hệ). Path được kiểm tra khớp thứ tự cấp
// của hệ trước khi truy vấn.
func ListCatalogChildren(c *gin.Context) {
	track := strings.ToUpper(c.Param("track"))
	if !services.ValidTrack(track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
		return
	}

	var req ListChildrenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	if err := req.Path.Validate(track); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path không hợp lệ: " + err.Error()})
		return
	}

	nodes, err := catalog().ListChildren(services.ParentOf(track, req.Path))
	if err != nil {
		if errors.Is(err, services.ErrInvalidParent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cấp này không có node con"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"children": nodes})
}
