package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeshare/internal/models"
	"codeshare/internal/session"
	"codeshare/internal/utils"
)

type Handlers struct {
	log       *utils.Logger
	hub       *session.Hub
	sweeper   *session.Sweeper
	announcer *session.Announcer
}

func NewHandlers(log *utils.Logger, hub *session.Hub, sweeper *session.Sweeper, announcer *session.Announcer) *Handlers {
	return &Handlers{log: log, hub: hub, sweeper: sweeper, announcer: announcer}
}

func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{
		"message": "Realtime Collaborative Code Editor API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /":         "API information",
			"POST /room":    "Create a new room",
			"GET /room/:id": "Get room information",
			"GET /health":   "Health check",
		},
	})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, models.HealthStatus{
		Status:           "healthy",
		Timestamp:        time.Now(),
		ActiveRooms:      h.hub.RoomCount(),
		TotalConnections: h.hub.ConnCount(),
	})
}

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	roomID := uuid.NewString()
	room := h.hub.GetOrCreate(roomID)
	h.announcer.RoomCreated(r.Context(), room.Info())
	writeJSON(w, models.CreateRoomResponse{RoomID: roomID, Message: "Room created successfully"})
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	room, ok := h.hub.Get(roomID)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Room not found"})
		return
	}
	writeJSON(w, room.Info())
}

/*** Collab WebSocket: shared editor, presence and chat relay ***/
var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	client := session.NewClient(conn)
	h.hub.ConnOpened()
	defer h.hub.ConnClosed()
	defer h.leaveCurrentRoom(client)

	h.log.Info("user connected", "userId", client.ID)

	for {
		var frame models.WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			h.log.Info("user disconnected", "userId", client.ID)
			return
		}
		h.dispatch(client, frame)
	}
}

func (h *Handlers) dispatch(client *session.Client, frame models.WSFrame) {
	switch frame.Type {
	case "join":
		var req models.JoinRequest
		marshal(frame.Data, &req)
		h.handleJoin(client, req)

	case "code":
		var change models.CodeChange
		marshal(frame.Data, &change)
		h.handleCode(client, change)

	case "language":
		var change models.LanguageChange
		marshal(frame.Data, &change)
		h.handleLanguage(client, change)

	case "cursor":
		var change models.CursorChange
		marshal(frame.Data, &change)
		h.handleCursor(client, change)

	case "chat":
		var req models.ChatRequest
		marshal(frame.Data, &req)
		h.handleChat(client, req)

	default:
		client.Send(errFrame("unknown_type"))
	}
}

// handleJoin binds the connection to the room, creating it on first join.
// A connection belongs to at most one room, so any previous membership is
// dropped first.
func (h *Handlers) handleJoin(client *session.Client, req models.JoinRequest) {
	if req.RoomID == "" {
		return
	}
	h.leaveCurrentRoom(client)

	room := h.hub.GetOrCreate(req.RoomID)
	p := room.Join(client, req.User)
	client.Bind(req.RoomID)

	// Snapshot to the joiner only, then announce the join to peers.
	client.Send(models.WSFrame{Type: "room_state", Data: room.State()})
	room.Broadcast(client.ID, models.WSFrame{
		Type: "user_joined",
		Data: models.UserJoined{User: p, Users: room.Members()},
	})
	h.log.Info("user joined room", "roomId", req.RoomID, "userId", client.ID)
}

// handleCode replaces the shared document (last writer wins) and relays the
// change to peers. Non-members are silently ignored.
func (h *Handlers) handleCode(client *session.Client, change models.CodeChange) {
	room, ok := h.hub.Get(change.RoomID)
	if !ok {
		return
	}
	p, ok := room.UpdateDocument(client.ID, change.Code)
	if !ok {
		return
	}
	room.Broadcast(client.ID, models.WSFrame{
		Type: "code",
		Data: models.CodeChange{Code: change.Code, Changes: change.Changes, UserID: client.ID, User: &p},
	})
}

func (h *Handlers) handleLanguage(client *session.Client, change models.LanguageChange) {
	room, ok := h.hub.Get(change.RoomID)
	if !ok {
		return
	}
	p, ok := room.UpdateLanguage(client.ID, change.Language)
	if !ok {
		return
	}
	room.Broadcast(client.ID, models.WSFrame{
		Type: "language",
		Data: models.LanguageChange{Language: change.Language, UserID: client.ID, User: &p},
	})
}

func (h *Handlers) handleCursor(client *session.Client, change models.CursorChange) {
	room, ok := h.hub.Get(change.RoomID)
	if !ok {
		return
	}
	p, ok := room.UpdateCursor(client.ID, change.Cursor)
	if !ok {
		return
	}
	room.Broadcast(client.ID, models.WSFrame{
		Type: "cursor",
		Data: models.CursorChange{Cursor: change.Cursor, UserID: client.ID, User: &p},
	})
}

// handleChat broadcasts to every member including the sender, so all
// clients render the same authoritative message. Nothing is stored.
func (h *Handlers) handleChat(client *session.Client, req models.ChatRequest) {
	room, ok := h.hub.Get(req.RoomID)
	if !ok {
		return
	}
	p, ok := room.Member(client.ID)
	if !ok {
		return
	}
	room.BroadcastAll(models.WSFrame{
		Type: "chat",
		Data: models.ChatMessage{
			ID:        uuid.NewString(),
			Message:   req.Message,
			User:      p,
			Timestamp: time.Now(),
		},
	})
}

// leaveCurrentRoom drops the client's membership, tells the remaining
// members, and hands newly empty rooms to the sweeper. The room itself is
// never deleted here.
func (h *Handlers) leaveCurrentRoom(client *session.Client) {
	roomID := client.RoomID()
	if roomID == "" {
		return
	}
	client.Bind("")
	room, ok := h.hub.Get(roomID)
	if !ok {
		return
	}
	left := room.Leave(client.ID)
	room.Broadcast(client.ID, models.WSFrame{
		Type: "user_left",
		Data: models.UserLeft{UserID: client.ID, Users: room.Members()},
	})
	if left == 0 {
		h.sweeper.ScheduleEmptyCheck(roomID)
	}
	h.log.Info("user left room", "roomId", roomID, "userId", client.ID)
}

func marshal(in any, out any) { b, _ := json.Marshal(in); _ = json.Unmarshal(b, out) }

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: "error", Data: msg} }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
