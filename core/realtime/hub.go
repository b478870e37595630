// Package realtime cung cấp kênh websocket đẩy sự kiện tới từng user đang kết nối.
// Giao hàng best-effort, at-most-once: client rớt kết nối thì đọc lại từ bảng notifications.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"field_crm/core/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event là payload đẩy xuống client qua websocket
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// client là một kết nối websocket của một user
type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub quản lý các kết nối websocket, mỗi user một "room" theo userId
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]map[*client]struct{} // userID -> các kết nối đang mở
	jwtSecret string
	upgrader  websocket.Upgrader
}

// NewHub tạo mới Hub
func NewHub(jwtSecret string) *Hub {
	return &Hub{
		clients:   make(map[string]map[*client]struct{}),
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS cho websocket xử lý ở tầng reverse proxy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Listen mở một HTTP listener riêng cho websocket endpoint.
// Chạy blocking, gọi trong goroutine từ main.
func (h *Hub) Listen(addr, path string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(path, h.serveWS)

	log := logger.WithModule("realtime")
	log.WithFields(logrus.Fields{"addr": addr, "path": path}).Info("🔌 [REALTIME] Websocket listener starting")

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return server.ListenAndServe()
}

// serveWS xác thực JWT (query ?token=...) rồi upgrade kết nối
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	log := logger.WithModule("realtime")

	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.parseToken(tokenStr)
	if err != nil {
		log.WithError(err).Warn("🔌 [REALTIME] Rejected websocket connection, invalid token")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("🔌 [REALTIME] Upgrade failed")
		return
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	h.register(c)

	go c.writeLoop(func() { h.unregister(c) })
	go c.readLoop(func() { h.unregister(c) })
}

// parseToken lấy userId từ JWT claims
func (h *Hub) parseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrSignatureInvalid
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", jwt.ErrSignatureInvalid
	}
	return userID, nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	_ = c.conn.Close()
}

// IsConnected kiểm tra user có kết nối đang mở không
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Emit đẩy event tới mọi kết nối của user. Best-effort, không block:
// nếu buffer của client đầy, message bị bỏ, client đọc lại qua API notifications.
func (h *Hub) Emit(userID string, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		logger.WithModule("realtime").WithError(err).Warn("🔌 [REALTIME] Failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
			// Buffer đầy, bỏ message để không block caller
		}
	}
}

// writeLoop ghi message từ channel send xuống kết nối, kèm ping định kỳ
func (c *client) writeLoop(onClose func()) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		onClose()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop chỉ để phát hiện client đóng kết nối và trả lời pong
func (c *client) readLoop(onClose func()) {
	defer onClose()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
