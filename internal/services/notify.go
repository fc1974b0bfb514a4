package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sata-backend/internal/models"
)

// Notifier fans user-facing events out over Redis pub/sub; the WebSocket
// hub relays them to connected clients. Delivery is best-effort.
type Notifier struct {
	redis *redis.Client
}

func NewNotifier(redisClient *redis.Client) *Notifier {
	return &Notifier{redis: redisClient}
}

func (n *Notifier) Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	if n == nil || n.redis == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	n.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}

func (n *Notifier) Toast(ctx context.Context, userID uuid.UUID, message string) {
	n.Publish(ctx, userID, models.WSMessage{
		Type:    "toast",
		Payload: models.ToastEvent{Message: message},
	})
}
