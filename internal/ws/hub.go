package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

type userMessage struct {
	userID  int64
	payload []byte
}

// Hub routes messages to the live connections of a single user. A user may
// hold several connections (tabs, devices); each gets its own copy.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	send       chan userMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		send:       make(chan userMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run processes hub events until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[int64]map[*Client]struct{})
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			n := len(set)
			h.mutex.Unlock()
			h.log.Debug("client connected", zap.Int64("user_id", client.userID), zap.Int("user_clients", n))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case msg := <-h.send:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- msg.payload:
				default:
					// slow consumer
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	h.log.Debug("client disconnected", zap.Int64("user_id", client.userID))
}

func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// NotifyUser JSON-encodes event and queues it for every connection of the
// user. It never blocks the caller; a full queue drops the event.
func (h *Hub) NotifyUser(userID int64, event any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("encode event failed", zap.Error(err))
		return
	}
	select {
	case h.send <- userMessage{userID: userID, payload: b}:
	default:
		h.log.Warn("event dropped", zap.Int64("user_id", userID), zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount(userID int64) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
