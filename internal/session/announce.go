package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"codeshare/internal/models"
)

const (
	announceChannel = "rooms"
	announceTTL     = 24 * time.Hour
)

// Announcer mirrors room lifecycle events to Redis so external services can
// track live rooms. It only ever sees room metadata, never the document.
// A nil Announcer is a no-op, which is how the service runs when REDIS_ADDR
// is unset.
type Announcer struct {
	rdb *redis.Client
}

func NewAnnouncer(addr string) *Announcer {
	return &Announcer{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

type roomEvent struct {
	Event  string `json:"event"`
	RoomID string `json:"roomId"`
	Reason string `json:"reason,omitempty"`
}

func (a *Announcer) RoomCreated(ctx context.Context, info models.RoomInfo) {
	if a == nil {
		return
	}
	a.publish(ctx, roomEvent{Event: "created", RoomID: info.RoomID})

	key := "room:" + info.RoomID
	a.rdb.HSet(ctx, key, map[string]interface{}{
		"roomId":       info.RoomID,
		"language":     info.Language,
		"userCount":    info.UserCount,
		"createdAt":    info.CreatedAt.Format(time.RFC3339),
		"lastActivity": info.LastActivity.Format(time.RFC3339),
	})
	a.rdb.Expire(ctx, key, announceTTL)
}

func (a *Announcer) RoomEvicted(ctx context.Context, roomID, reason string) {
	if a == nil {
		return
	}
	a.publish(ctx, roomEvent{Event: "evicted", RoomID: roomID, Reason: reason})
	a.rdb.Del(ctx, "room:"+roomID)
}

func (a *Announcer) publish(ctx context.Context, ev roomEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	a.rdb.Publish(ctx, announceChannel, data)
}

func (a *Announcer) Close() error {
	if a == nil {
		return nil
	}
	return a.rdb.Close()
}
