package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Client is one authenticated websocket connection
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// message is addressed to one user, or to everyone when to is nil
type message struct {
	to   *uuid.UUID
	data []byte
}

type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	outbound   chan message
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		outbound:   make(chan message, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.Clients[client] = true
			h.mutex.Unlock()
			log.Printf("WS client connected: %s", client.UserID)

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.outbound:
			h.mutex.Lock()
			for client := range h.Clients {
				if msg.to != nil && client.UserID != *msg.to {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					client.Conn.Close()
					delete(h.Clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastJSON queues v for every connected client
func (h *Hub) BroadcastJSON(v interface{}) {
	h.enqueue(nil, v)
}

// SendJSON queues v for the connections of a single user
func (h *Hub) SendJSON(userID uuid.UUID, v interface{}) {
	h.enqueue(&userID, v)
}

// enqueue never blocks; when the queue is full the message is dropped
func (h *Hub) enqueue(to *uuid.UUID, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("WS marshal: %v", err)
		return
	}
	select {
	case h.outbound <- message{to: to, data: data}:
	default:
		log.Println("WS queue full, dropping message")
	}
}

// Connected reports how many connections are registered for userID
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for client := range h.Clients {
		if client.UserID == userID {
			n++
		}
	}
	return n
}
