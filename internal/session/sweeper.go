package session

import (
	"context"
	"time"

	"codeshare/internal/utils"
)

const (
	emptyRoomGrace = 5 * time.Minute
	idleThreshold  = 24 * time.Hour
	sweepInterval  = time.Hour
)

// Sweeper evicts abandoned rooms from the hub. Timers carry only the room
// id and re-read hub state when they fire, so a room repopulated during the
// wait is left alone.
type Sweeper struct {
	hub       *Hub
	log       *utils.Logger
	announcer *Announcer

	grace    time.Duration
	idle     time.Duration
	interval time.Duration
}

func NewSweeper(hub *Hub, log *utils.Logger, announcer *Announcer) *Sweeper {
	return &Sweeper{
		hub:       hub,
		log:       log,
		announcer: announcer,
		grace:     emptyRoomGrace,
		idle:      idleThreshold,
		interval:  sweepInterval,
	}
}

// ScheduleEmptyCheck arms a one-shot check for a room that just lost its
// last member. The room survives if anyone rejoins before the timer fires.
func (s *Sweeper) ScheduleEmptyCheck(roomID string) {
	time.AfterFunc(s.grace, func() {
		room, ok := s.hub.Get(roomID)
		if !ok || room.MemberCount() > 0 {
			return
		}
		s.hub.Delete(roomID)
		s.announcer.RoomEvicted(context.Background(), roomID, "empty")
		s.log.Info("cleaned up empty room", "roomId", roomID)
	})
}

// Run sweeps periodically for empty rooms idle past the threshold. This
// backstops per-room timers lost to a restart or scheduling anomaly.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.idle)
	for _, id := range s.hub.RoomIDs() {
		room, ok := s.hub.Get(id)
		if !ok || room.MemberCount() > 0 {
			continue
		}
		if room.LastActivity().After(cutoff) {
			continue
		}
		s.hub.Delete(id)
		s.announcer.RoomEvicted(ctx, id, "idle")
		s.log.Info("cleaned up inactive room", "roomId", id)
	}
}
