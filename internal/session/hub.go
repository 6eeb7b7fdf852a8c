package session

import (
	"sync"
	"sync/atomic"
)

// Hub manages all active collaboration rooms for this process.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	conns atomic.Int64
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

func (h *Hub) GetOrCreate(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[id]; ok {
		return r
	}
	r := NewRoom(id)
	h.rooms[id] = r
	return r
}

func (h *Hub) Get(id string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	return r, ok
}

// Delete is idempotent; deleting an absent room is a no-op.
func (h *Hub) Delete(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, id)
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// RoomIDs snapshots the current room ids for the periodic sweep.
func (h *Hub) RoomIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Connection counters feed the /health totals.
func (h *Hub) ConnOpened()      { h.conns.Add(1) }
func (h *Hub) ConnClosed()      { h.conns.Add(-1) }
func (h *Hub) ConnCount() int64 { return h.conns.Load() }
