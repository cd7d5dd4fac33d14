package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

// HealthCheck: ping DB và đếm kết nối WebSocket đang mở theo scope.
func HealthCheck(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := config.DB.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"database":   dbStatus,
		"websockets": ws.DefaultHub.Stats(),
		"time":       time.Now().Format(time.RFC3339),
	})
}
