package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/utils"
)

// catalog và cascade dựng service trên config.DB cho mỗi request;
// bản thân struct chỉ gói con trỏ DB nên không tốn gì.
func catalog() *services.Catalog {
	return services.NewCatalog(config.DB)
}

func cascade() *services.CascadeDeleter {
	return services.NewCascadeDeleter(config.DB, services.BlobDeleterFunc(utils.DeleteFileFromSupabase))
}

// currentUserID đọc user_id do AuthMiddleware set, trả nil nếu không parse được.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw := c.GetString("user_id")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
