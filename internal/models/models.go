package models

import (
	"encoding/json"
	"time"
)

// WSFrame is the envelope for every realtime message in either direction.
type WSFrame struct {
	Type string      `json:"type"` // "join","code","language","cursor","chat","room_state","user_joined","user_left","error"
	Data interface{} `json:"data"`
}

// Participant is a room member's display identity. The ID is the transport
// connection id and is not stable across reconnects.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joinedAt"`
}

// UserInfo is the identity a client supplies when joining. Both fields are
// optional; the room fills in defaults.
type UserInfo struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Cursor carries an editor position. Selection is relayed verbatim without
// interpretation.
type Cursor struct {
	Line      int             `json:"line"`
	Column    int             `json:"column"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// CursorEntry pairs a cursor with the member it belongs to.
type CursorEntry struct {
	UserID string      `json:"userId"`
	User   Participant `json:"user"`
	Cursor
}

/*** Client -> server payloads ***/

type JoinRequest struct {
	RoomID string   `json:"roomId"`
	User   UserInfo `json:"user"`
}

type CodeChange struct {
	RoomID  string          `json:"roomId,omitempty"`
	Code    string          `json:"code"`
	Changes json.RawMessage `json:"changes,omitempty"`
	UserID  string          `json:"userId,omitempty"`
	User    *Participant    `json:"user,omitempty"`
}

type LanguageChange struct {
	RoomID   string       `json:"roomId,omitempty"`
	Language string       `json:"language"`
	UserID   string       `json:"userId,omitempty"`
	User     *Participant `json:"user,omitempty"`
}

type CursorChange struct {
	RoomID string       `json:"roomId,omitempty"`
	Cursor Cursor       `json:"cursor"`
	UserID string       `json:"userId,omitempty"`
	User   *Participant `json:"user,omitempty"`
}

type ChatRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

/*** Server -> client payloads ***/

// RoomState is the full snapshot sent to a connection when it joins.
type RoomState struct {
	Code     string        `json:"code"`
	Language string        `json:"language"`
	Users    []Participant `json:"users"`
	Cursors  []CursorEntry `json:"cursors"`
}

type UserJoined struct {
	User  Participant   `json:"user"`
	Users []Participant `json:"users"`
}

type UserLeft struct {
	UserID string        `json:"userId"`
	Users  []Participant `json:"users"`
}

// ChatMessage lives only for the duration of one broadcast; the room keeps
// no chat history.
type ChatMessage struct {
	ID        string      `json:"id"`
	Message   string      `json:"message"`
	User      Participant `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

/*** HTTP payloads ***/

// RoomInfo is the metadata view of a room. It never includes the document.
type RoomInfo struct {
	RoomID       string    `json:"roomId"`
	Language     string    `json:"language"`
	UserCount    int       `json:"userCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

type CreateRoomResponse struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type HealthStatus struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	ActiveRooms      int       `json:"activeRooms"`
	TotalConnections int64     `json:"totalConnections"`
}
