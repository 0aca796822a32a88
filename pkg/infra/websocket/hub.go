// Package websocket implements the realtime push fabric: a process-local
// hub that fans domain events out to subscribed clients over per-room
// broadcast, generalizing the teacher's lobby-only rooms to the three
// room kinds the matchmaking domain needs (user, lobby, matchrequest).
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
)

// Server -> client event type tags (spec §6 "Socket channel").
const (
	EventMatchmakingStatus = "matchmaking:status"
	EventLobbyCreated      = "lobby:created"
	EventLobbyUpdate       = "lobby:update"
	EventLobbyMemberJoined = "lobby:member:joined"
	EventLobbyMemberLeft   = "lobby:member:left"
	EventLobbyMemberReady  = "lobby:member:ready"
	EventChatMessage       = "chat:message"
	EventChatTyping        = "chat:typing"
	EventNotificationNew   = "notification:new"
	EventNotificationCount = "notification:count"
)

// Client -> server subscription message types.
const (
	ClientSubscribeMatchmaking   = "matchmaking:subscribe"
	ClientUnsubscribeMatchmaking = "matchmaking:unsubscribe"
	ClientSubscribeLobby         = "lobby:subscribe"
	ClientUnsubscribeLobby       = "lobby:unsubscribe"
)

func userRoom(userID uuid.UUID) string     { return "user:" + userID.String() }
func lobbyRoom(lobbyID uuid.UUID) string   { return "lobby:" + lobbyID.String() }
func matchRequestRoom(id uuid.UUID) string { return "matchrequest:" + id.String() }

// Envelope is the wire protocol: a type tag plus a room and raw payload.
type Envelope struct {
	Type      string          `json:"type"`
	Room      string          `json:"room,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// Client represents one connected socket, always subscribed to its own
// user room and optionally to lobby and matchrequest rooms.
type Client struct {
	ID   uuid.UUID // == userID; every client authenticates before upgrade
	Conn *websocket.Conn
	Send chan *Envelope

	roomMu sync.Mutex
	rooms  map[string]bool
}

func NewClient(id uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{ID: id, Conn: conn, Send: make(chan *Envelope, 64), rooms: make(map[string]bool)}
}

func (c *Client) joinRoom(room string) {
	c.roomMu.Lock()
	defer c.roomMu.Unlock()
	c.rooms[room] = true
}

func (c *Client) leaveRoom(room string) {
	c.roomMu.Lock()
	defer c.roomMu.Unlock()
	delete(c.rooms, room)
}

func (c *Client) roomSnapshot() []string {
	c.roomMu.Lock()
	defer c.roomMu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		out = append(out, r)
	}
	return out
}

// Relayer ships a locally-emitted Envelope to other replicas so a socket
// connected to one process hears events published on another (spec §5
// horizontal-scaling note). Nil by default: a single-replica deployment
// never needs one.
type Relayer interface {
	Relay(ctx context.Context, env *Envelope) error
}

// Hub fans broadcasts out to clients subscribed to a given room. It
// implements matchmaking_out.EventPublisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	rooms   map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Envelope
	subscribe  chan subscribeRequest

	relayer Relayer
}

// SetRelayer wires a cross-replica relay. Must be called before Run.
func (h *Hub) SetRelayer(r Relayer) { h.relayer = r }

type subscribeRequest struct {
	client    *Client
	msgType   string
	requestID *uuid.UUID
	lobbyID   *uuid.UUID
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *Envelope, 1024),
		subscribe:  make(chan subscribeRequest, 256),
	}
}

// Run is the hub's single-writer event loop for register, unregister,
// subscribe and broadcast requests (spec §5 "parallel workers, serialized
// per aggregate" applied to the fan-out layer). PublishLobbyCreated is the
// exception: it adds participants to the lobby room directly under h.mu.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.doRegister(c)
		case c := <-h.unregister:
			h.doUnregister(c)
		case env := <-h.broadcast:
			h.doBroadcast(env)
		case req := <-h.subscribe:
			h.doSubscribe(req)
		}
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Subscribe queues a client->server subscribe/unsubscribe message
// (spec §6 "Socket channel"). Called from the client's read pump.
func (h *Hub) Subscribe(c *Client, msgType string, requestID, lobbyID *uuid.UUID) {
	h.subscribe <- subscribeRequest{client: c, msgType: msgType, requestID: requestID, lobbyID: lobbyID}
}

func (h *Hub) doRegister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	h.addToRoomLocked(userRoom(c.ID), c)
	metrics.IncWebSocketConnections()
	slog.Info("socket client connected", "client_id", c.ID)
}

func (h *Hub) doUnregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	for _, room := range c.roomSnapshot() {
		h.removeFromRoomLocked(room, c.ID)
	}
	close(c.Send)
	metrics.DecWebSocketConnections()
	slog.Info("socket client disconnected", "client_id", c.ID)
}

func (h *Hub) doSubscribe(req subscribeRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch req.msgType {
	case ClientSubscribeMatchmaking:
		if req.requestID != nil {
			h.addToRoomLocked(matchRequestRoom(*req.requestID), req.client)
		}
	case ClientUnsubscribeMatchmaking:
		if req.requestID != nil {
			h.removeFromRoomLocked(matchRequestRoom(*req.requestID), req.client.ID)
			req.client.leaveRoom(matchRequestRoom(*req.requestID))
		}
	case ClientSubscribeLobby:
		if req.lobbyID != nil {
			h.addToRoomLocked(lobbyRoom(*req.lobbyID), req.client)
		}
	case ClientUnsubscribeLobby:
		if req.lobbyID != nil {
			h.removeFromRoomLocked(lobbyRoom(*req.lobbyID), req.client.ID)
			req.client.leaveRoom(lobbyRoom(*req.lobbyID))
		}
	}
}

func (h *Hub) addToRoomLocked(room string, c *Client) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[room][c.ID] = c
	c.joinRoom(room)
}

func (h *Hub) removeFromRoomLocked(room string, clientID uuid.UUID) {
	delete(h.rooms[room], clientID)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

func roomKind(room string) string {
	if kind, _, ok := strings.Cut(room, ":"); ok {
		return kind
	}
	return room
}

func (h *Hub) doBroadcast(env *Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[env.Room] {
		select {
		case c.Send <- env:
			metrics.RecordWebSocketMessageSent(env.Type)
		default:
			metrics.RecordWebSocketSendBufferDropped(roomKind(env.Room))
			slog.Warn("socket client send buffer full, dropping", "client_id", c.ID, "room", env.Room)
		}
	}
}

func (h *Hub) emit(ctx context.Context, room, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := &Envelope{Type: eventType, Room: room, Payload: body, Timestamp: time.Now().UTC().Unix()}
	select {
	case h.broadcast <- env:
	case <-ctx.Done():
		return ctx.Err()
	}
	if h.relayer != nil {
		if err := h.relayer.Relay(ctx, env); err != nil {
			slog.Warn("failed to relay event to other replicas", "error", err, "room", room, "type", eventType)
		}
	}
	return nil
}

// BroadcastLocal fans an envelope out to this replica's own clients only,
// without relaying it onward. Used by the cross-replica bridge to apply an
// event that originated on another instance.
func (h *Hub) BroadcastLocal(env *Envelope) {
	h.broadcast <- env
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		close(c.Send)
	}
	slog.Info("socket hub shut down")
}

// ConnectedClients reports the current connection count, used by metrics.
func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WritePump drains c.Send onto the live connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for env := range c.Send {
		if err := c.Conn.WriteJSON(env); err != nil {
			slog.Error("socket write error", "client_id", c.ID, "error", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// clientMessage is the inbound shape for subscribe/unsubscribe frames.
type clientMessage struct {
	Type      string     `json:"type"`
	RequestID *uuid.UUID `json:"requestId,omitempty"`
	LobbyID   *uuid.UUID `json:"lobbyId,omitempty"`
}

// ReadPump reads subscribe/unsubscribe frames until the connection closes.
func (c *Client) ReadPump(hub *Hub) {
	defer hub.Unregister(c)
	defer c.Conn.Close()

	c.Conn.SetReadLimit(4096)
	for {
		var msg clientMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("socket read error", "error", err, "client_id", c.ID)
			}
			return
		}
		hub.Subscribe(c, msg.Type, msg.RequestID, msg.LobbyID)
	}
}

// --- matchmaking_out.EventPublisher ---

var _ matchmaking_out.EventPublisher = (*Hub)(nil)

func (h *Hub) PublishMatchmakingStatus(ctx context.Context, requestID uuid.UUID, event matchmaking_out.MatchmakingStatusEvent) error {
	return h.emit(ctx, matchRequestRoom(requestID), EventMatchmakingStatus, event)
}

func (h *Hub) PublishLobbyCreated(ctx context.Context, lobbyID uuid.UUID, participants []uuid.UUID) error {
	h.mu.Lock()
	for _, userID := range participants {
		if c, ok := h.clients[userID]; ok {
			h.addToRoomLocked(lobbyRoom(lobbyID), c)
		}
	}
	h.mu.Unlock()

	for _, userID := range participants {
		if err := h.emit(ctx, userRoom(userID), EventLobbyCreated, map[string]uuid.UUID{"lobbyId": lobbyID}); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hub) PublishLobbyUpdated(ctx context.Context, lobbyID uuid.UUID, lobby *matchmaking_entities.Lobby) error {
	return h.emit(ctx, lobbyRoom(lobbyID), EventLobbyUpdate, lobby)
}

func (h *Hub) PublishLobbyMemberEvent(ctx context.Context, lobbyID uuid.UUID, kind matchmaking_out.LobbyMemberEventKind, member matchmaking_entities.LobbyMember) error {
	eventType := EventLobbyMemberJoined
	switch kind {
	case matchmaking_out.LobbyMemberLeft:
		eventType = EventLobbyMemberLeft
	case matchmaking_out.LobbyMemberReady:
		eventType = EventLobbyMemberReady
	}
	return h.emit(ctx, lobbyRoom(lobbyID), eventType, member)
}

func (h *Hub) PublishChatMessage(ctx context.Context, lobbyID uuid.UUID, msg matchmaking_entities.ChatMessage) error {
	return h.emit(ctx, lobbyRoom(lobbyID), EventChatMessage, msg)
}

func (h *Hub) PublishChatTyping(ctx context.Context, lobbyID, userID uuid.UUID, isTyping bool) error {
	return h.emit(ctx, lobbyRoom(lobbyID), EventChatTyping, map[string]interface{}{"userId": userID, "isTyping": isTyping})
}

func (h *Hub) PublishNotificationNew(ctx context.Context, userID uuid.UUID, notification *matchmaking_entities.Notification) error {
	return h.emit(ctx, userRoom(userID), EventNotificationNew, notification)
}

func (h *Hub) PublishNotificationCount(ctx context.Context, userID uuid.UUID, unread int64) error {
	return h.emit(ctx, userRoom(userID), EventNotificationCount, map[string]int64{"unread": unread})
}
