package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS đã xử lý ở tầng HTTP, origin của WS thả lỏng.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// authFromQuery: trình duyệt không gắn header được cho WebSocket,
// token đi qua query string.
func authFromQuery(c *gin.Context) (userID string, ok bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return "", false
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ"})
		return "", false
	}
	return claims.UserID, true
}

func serve(c *gin.Context, scope, userID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &Client{
		Scope:  scope,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	DefaultHub.Register <- client

	go client.writePump()
	go client.readPump(DefaultHub)
}

// ServeCatalogWS đăng ký client theo dõi thay đổi danh mục của một hệ:
// GET /ws/catalog/:track?token=...
func ServeCatalogWS(c *gin.Context) {
	userID, ok := authFromQuery(c)
	if !ok {
		return
	}

	track := strings.ToUpper(c.Param("track"))
	if !services.ValidTrack(track) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hệ đào tạo không hợp lệ"})
		return
	}

	serve(c, "catalog:"+track, userID)
}

// ServeStatusWS đăng ký client nhận sự kiện thông báo chung:
// GET /ws/status?token=...
func ServeStatusWS(c *gin.Context) {
	userID, ok := authFromQuery(c)
	if !ok {
		return
	}
	serve(c, "status", userID)
}
