package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event names pushed to connected clients.
const (
	EventVoteUpdate        = "voteUpdate"
	EventCommentVoteUpdate = "commentVoteUpdate"
	EventCommentAdded      = "commentAdded"
	EventCommentEdited     = "commentEdited"
	EventCommentDeleted    = "commentDeleted"
	EventPostEdited        = "postEdited"
	EventPostDeleted       = "postDeleted"
	EventChatUpdate        = "chatUpdate"
)

// Broadcaster is the one-way publish interface the services consume. Delivery
// is best-effort: a failed or slow broadcast never fails the write that
// triggered it.
type Broadcaster interface {
	Publish(event string, data any)
}

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	userID uint
}

// Hub fans out events to every connected viewer.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Publish sends the event to all clients. Errors are logged and the broken
// connection dropped; nothing propagates to the caller.
func (h *Hub) Publish(event string, data any) {
	msg := frame{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("realtime: dropping client %d: %v", c.userID, err)
			c.conn.Close()
			delete(h.clients, c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away. The stream is subscribe-only; inbound messages are
// discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("realtime: upgrade error:", err)
		return
	}

	cl := &client{conn: conn, userID: userID}
	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NopBroadcaster discards every event. Used where realtime delivery is not
// wired up.
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(string, any) {}
