package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client là một kết nối WebSocket đã đăng ký vào một scope
// ("catalog:<TRACK>" hoặc "status").
type Client struct {
	Scope  string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

type scopedMessage struct {
	scope   string
	payload []byte
}

// Hub quản lý đăng ký / hủy đăng ký client theo scope và phát sự kiện
// tới đúng các client đang theo dõi scope đó.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	broadcast  chan scopedMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan scopedMessage, 64),
	}
}

// DefaultHub là hub dùng chung của ứng dụng, chạy Run() trong main.
var DefaultHub = NewHub()

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.Scope] == nil {
				h.clients[client.Scope] = make(map[*Client]bool)
			}
			h.clients[client.Scope][client] = true
			h.mu.Unlock()
			log.Printf("WS: client đăng ký scope %s (user %s)", client.Scope, client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.Scope]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
					if len(set) == 0 {
						delete(h.clients, client.Scope)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[msg.scope] {
				select {
				case client.Send <- msg.payload:
				default:
					// Client nghẽn: bỏ message này thay vì chặn cả hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) emit(scope string, event map[string]interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Println("WS: không thể mã hóa event:", err)
		return
	}
	h.broadcast <- scopedMessage{scope: scope, payload: payload}
}

// BroadcastCatalogChanged báo cho các client đang xem một hệ đào tạo rằng
// cây danh mục của hệ đó vừa thay đổi (client tự refetch).
func (h *Hub) BroadcastCatalogChanged(track string) {
	h.emit("catalog:"+track, map[string]interface{}{
		"type":  "catalog_changed",
		"track": track,
		"ts":    time.Now().UnixMilli(),
	})
}

// BroadcastNotificationListChanged báo danh sách thông báo vừa thay đổi.
func (h *Hub) BroadcastNotificationListChanged(kind string) {
	h.emit("status", map[string]interface{}{
		"type": "notification_list_changed",
		"kind": kind,
		"ts":   time.Now().UnixMilli(),
	})
}

// Stats đếm số client theo scope (cho endpoint health).
func (h *Hub) Stats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stats := make(map[string]int, len(h.clients))
	for scope, set := range h.clients {
		stats[scope] = len(set)
	}
	return stats
}

// readPump chỉ để phát hiện client đóng kết nối và trả lời ping/pong.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
