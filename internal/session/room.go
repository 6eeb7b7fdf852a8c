package session

import (
	"fmt"
	"sync"
	"time"

	"codeshare/internal/models"
)

const (
	// DefaultLanguage is the display language seeded into new rooms.
	DefaultLanguage = "javascript"

	// DefaultDocument seeds every new room's editor.
	DefaultDocument = "// Welcome to the Realtime Collaborative Code Editor!\n// Start typing to see real-time collaboration in action.\n\nfunction hello() {\n    console.log(\"Hello, World!\");\n}\n\nhello();"
)

// colorPalette is indexed by current member count at join time. Colors are
// not reassigned when members leave, so two members can transiently share
// one after departures.
var colorPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
	"#BB8FCE", "#85C1E9", "#F8C471", "#82E0AA",
}

type member struct {
	client      *Client
	participant models.Participant
}

// Room holds the shared document and connected members for one session.
// All mutations run under r.mu, which is what serializes concurrent edits:
// the last write to take the lock fully replaces the document, no merging.
type Room struct {
	ID string

	mu           sync.Mutex
	doc          string
	language     string
	members      map[string]*member
	order        []string // connection ids in join order
	cursors      map[string]models.Cursor
	createdAt    time.Time
	lastActivity time.Time
}

func NewRoom(id string) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		doc:          DefaultDocument,
		language:     DefaultLanguage,
		members:      make(map[string]*member),
		cursors:      make(map[string]models.Cursor),
		createdAt:    now,
		lastActivity: now,
	}
}

// Join registers the client as a member and assigns its display identity.
// Missing names default to "User N" and missing colors cycle the palette.
func (r *Room) Join(c *Client, info models.UserInfo) models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := info.Name
	if name == "" {
		name = fmt.Sprintf("User %d", len(r.members)+1)
	}
	color := info.Color
	if color == "" {
		color = colorPalette[len(r.members)%len(colorPalette)]
	}
	p := models.Participant{ID: c.ID, Name: name, Color: color, JoinedAt: time.Now()}
	r.members[c.ID] = &member{client: c, participant: p}
	r.order = append(r.order, c.ID)
	r.touch()
	return p
}

// Leave removes the member and its cursor together and reports how many
// members remain. Unknown ids are a no-op.
func (r *Room) Leave(connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[connID]; !ok {
		return len(r.members)
	}
	delete(r.members, connID)
	delete(r.cursors, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.touch()
	return len(r.members)
}

func (r *Room) Has(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[connID]
	return ok
}

// Member returns the participant snapshot for a connection id.
func (r *Room) Member(connID string) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[connID]
	if !ok {
		return models.Participant{}, false
	}
	return m.participant, true
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// UpdateDocument replaces the document wholesale (last writer wins).
// Non-members get ok=false and the room is untouched.
func (r *Room) UpdateDocument(connID, doc string) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[connID]
	if !ok {
		return models.Participant{}, false
	}
	r.doc = doc
	r.touch()
	return m.participant, true
}

func (r *Room) UpdateLanguage(connID, language string) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[connID]
	if !ok {
		return models.Participant{}, false
	}
	r.language = language
	r.touch()
	return m.participant, true
}

// UpdateCursor upserts the caller's cursor. The membership guard keeps
// cursor keys a subset of member keys at all times.
func (r *Room) UpdateCursor(connID string, cursor models.Cursor) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[connID]
	if !ok {
		return models.Participant{}, false
	}
	r.cursors[connID] = cursor
	r.touch()
	return m.participant, true
}

// State returns the full snapshot sent to a joining connection.
func (r *Room) State() models.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.RoomState{
		Code:     r.doc,
		Language: r.language,
		Users:    r.usersLocked(),
		Cursors:  r.cursorsLocked(),
	}
}

// Members lists participants in join order.
func (r *Room) Members() []models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usersLocked()
}

// Info returns the metadata view used by the HTTP layer and the announcer.
func (r *Room) Info() models.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.RoomInfo{
		RoomID:       r.ID,
		Language:     r.language,
		UserCount:    len(r.members),
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
	}
}

func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// Broadcast sends a frame to every member except the sender.
func (r *Room) Broadcast(senderID string, frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.members {
		if id == senderID {
			continue
		}
		m.client.Send(frame)
	}
}

// BroadcastAll sends a frame to every member including the sender. Used for
// chat so every client renders from the same authoritative event.
func (r *Room) BroadcastAll(frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		m.client.Send(frame)
	}
}

func (r *Room) usersLocked() []models.Participant {
	users := make([]models.Participant, 0, len(r.members))
	for _, id := range r.order {
		users = append(users, r.members[id].participant)
	}
	return users
}

func (r *Room) cursorsLocked() []models.CursorEntry {
	entries := make([]models.CursorEntry, 0, len(r.cursors))
	for _, id := range r.order {
		cursor, ok := r.cursors[id]
		if !ok {
			continue
		}
		entries = append(entries, models.CursorEntry{
			UserID: id,
			User:   r.members[id].participant,
			Cursor: cursor,
		})
	}
	return entries
}

// touch keeps lastActivity non-decreasing.
func (r *Room) touch() {
	if now := time.Now(); now.After(r.lastActivity) {
		r.lastActivity = now
	}
}
