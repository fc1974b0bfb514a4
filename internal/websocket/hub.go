// Package websocket relays per-user game events (toasts, level-ups, streak
// changes) from Redis pub/sub to connected browsers. Events are fire-and
// forget; a client that is offline simply misses them.
package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub maintains one Redis subscription per user with at least one open
// socket, fanning each published event out to all of that user's tabs.
type Hub struct {
	mu          sync.RWMutex
	conns       map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	jwtSecret   []byte
	cancels     map[uuid.UUID]context.CancelFunc
}

func NewHub(redisClient *redis.Client, jwtSecret string) *Hub {
	return &Hub{
		conns:       make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		jwtSecret:   []byte(jwtSecret),
		cancels:     make(map[uuid.UUID]context.CancelFunc),
	}
}

// HandleWebSocket authenticates via a token query param (browsers cannot
// set an Authorization header on the upgrade request) and pumps events
// until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.register(userID, conn)

	go func() {
		defer h.unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) authenticate(r *http.Request) (uuid.UUID, bool) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}
	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Hub) register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[userID] = append(h.conns[userID], conn)

	// First socket for this user starts the Redis subscription.
	if len(h.conns[userID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancels[userID] = cancel
		go h.relay(ctx, userID)
	}

	log.Printf("WebSocket connected: user %s (sockets: %d)", userID, len(h.conns[userID]))
}

func (h *Hub) unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.conns[userID]
	for i, c := range conns {
		if c == conn {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
		if cancel, ok := h.cancels[userID]; ok {
			cancel()
			delete(h.cancels, userID)
		}
	}

	log.Printf("WebSocket disconnected: user %s", userID)
}

func (h *Hub) relay(ctx context.Context, userID uuid.UUID) {
	channel := "user_updates:" + userID.String()
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(userID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.conns[userID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
