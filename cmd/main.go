package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/routes"
	"github.com/vnkhanh/edu-catalog-backend/utils"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

func main() {
	// Load .env (trên server biến môi trường set sẵn, thiếu file không sao)
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env, dùng biến môi trường hệ thống")
	}

	config.InitDB()

	// Dọn token đặt lại mật khẩu hết hạn theo chu kỳ
	utils.StartCleanupJob(config.DB)

	// Hub WebSocket phát sự kiện danh mục / thông báo
	go ws.DefaultHub.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_URL"), "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRouter(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server chạy tại cổng " + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Không thể khởi động server:", err)
	}
}
