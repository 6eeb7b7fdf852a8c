package routers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"codeshare/internal/models"
	"codeshare/internal/session"
	"codeshare/internal/utils"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := utils.NewLogger()
	hub := session.NewHub()
	sweeper := session.NewSweeper(hub, logger, nil)
	server := httptest.NewServer(New(logger, hub, sweeper, nil))
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn, data any) models.WSFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame models.WSFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if data != nil {
		b, _ := json.Marshal(frame.Data)
		if err := json.Unmarshal(b, data); err != nil {
			t.Fatalf("decode frame data: %v", err)
		}
	}
	return frame
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if status.Status != "healthy" {
		t.Fatalf("unexpected health payload: %#v", status)
	}
}

func TestRoomEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/room", "application/json", nil)
	if err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	var created models.CreateRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	resp.Body.Close()
	if created.RoomID == "" {
		t.Fatalf("expected room id")
	}

	resp, err = http.Get(server.URL + "/room/" + created.RoomID)
	if err != nil {
		t.Fatalf("get room failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var info models.RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode room info: %v", err)
	}
	if info.RoomID != created.RoomID || info.UserCount != 0 {
		t.Fatalf("unexpected room info: %#v", info)
	}

	missing, err := http.Get(server.URL + "/room/does-not-exist")
	if err != nil {
		t.Fatalf("get missing room failed: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.StatusCode)
	}
}

func TestWebSocketCollabFlow(t *testing.T) {
	server := newTestServer(t)

	connA := dialWS(t, server)
	if err := connA.WriteJSON(models.WSFrame{
		Type: "join",
		Data: models.JoinRequest{RoomID: "room", User: models.UserInfo{Name: "alice"}},
	}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	var stateA models.RoomState
	if frame := readFrame(t, connA, &stateA); frame.Type != "room_state" {
		t.Fatalf("expected room_state, got %#v", frame)
	}
	if stateA.Code != session.DefaultDocument || len(stateA.Users) != 1 {
		t.Fatalf("unexpected snapshot: %#v", stateA)
	}

	connB := dialWS(t, server)
	if err := connB.WriteJSON(models.WSFrame{
		Type: "join",
		Data: models.JoinRequest{RoomID: "room", User: models.UserInfo{Name: "bob"}},
	}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	var stateB models.RoomState
	if frame := readFrame(t, connB, &stateB); frame.Type != "room_state" {
		t.Fatalf("expected room_state, got %#v", frame)
	}
	if len(stateB.Users) != 2 {
		t.Fatalf("expected two members in snapshot: %#v", stateB.Users)
	}

	var joined models.UserJoined
	if frame := readFrame(t, connA, &joined); frame.Type != "user_joined" {
		t.Fatalf("expected user_joined, got %#v", frame)
	}
	if joined.User.Name != "bob" || len(joined.Users) != 2 {
		t.Fatalf("unexpected user_joined: %#v", joined)
	}

	if err := connA.WriteJSON(models.WSFrame{
		Type: "code",
		Data: models.CodeChange{RoomID: "room", Code: "x=2"},
	}); err != nil {
		t.Fatalf("send code: %v", err)
	}

	var change models.CodeChange
	if frame := readFrame(t, connB, &change); frame.Type != "code" {
		t.Fatalf("expected code frame, got %#v", frame)
	}
	if change.Code != "x=2" || change.User == nil || change.User.Name != "alice" {
		t.Fatalf("unexpected code change: %#v", change)
	}

	if err := connB.WriteJSON(models.WSFrame{
		Type: "chat",
		Data: models.ChatRequest{RoomID: "room", Message: "hi"},
	}); err != nil {
		t.Fatalf("send chat: %v", err)
	}

	var msgA, msgB models.ChatMessage
	if frame := readFrame(t, connA, &msgA); frame.Type != "chat" {
		t.Fatalf("expected chat at peer, got %#v", frame)
	}
	if frame := readFrame(t, connB, &msgB); frame.Type != "chat" {
		t.Fatalf("expected chat echoed to sender, got %#v", frame)
	}
	if msgA.ID == "" || msgA.ID != msgB.ID || msgA.Message != "hi" {
		t.Fatalf("expected one authoritative chat message, got %#v / %#v", msgA, msgB)
	}

	connB.Close()
	var left models.UserLeft
	if frame := readFrame(t, connA, &left); frame.Type != "user_left" {
		t.Fatalf("expected user_left, got %#v", frame)
	}
	if len(left.Users) != 1 || left.Users[0].Name != "alice" {
		t.Fatalf("unexpected user_left: %#v", left)
	}
}
