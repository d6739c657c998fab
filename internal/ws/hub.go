package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Pending broadcasts before Publish starts dropping events.
	broadcastBuffer = 256

	// Per-client outbound buffer.
	sendBuffer = 64
)

// Message is the envelope for everything sent over the event stream.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client represents a single WebSocket connection.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Topics []string
}

// topicMessage carries an encoded message destined for one topic.
type topicMessage struct {
	topic   string
	message []byte
}

// Hub fans published catalogue events out to the clients subscribed to each topic.
type Hub struct {
	topics     map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan topicMessage
	mu         sync.RWMutex
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan topicMessage, broadcastBuffer),
	}
}

// Run handles register, unregister, and broadcast events. It should be
// launched as a goroutine.
func (h *Hub) Run() {
	log := logger.Get()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			for _, topic := range client.Topics {
				if h.topics[topic] == nil {
					h.topics[topic] = make(map[*Client]bool)
				}
				h.topics[topic][client] = true
			}
			h.mu.Unlock()

			log.Info("event client registered", zap.Strings("topics", client.Topics))

		case client := <-h.Unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

			log.Info("event client unregistered", zap.Strings("topics", client.Topics))

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.topics[msg.topic] {
				select {
				case client.Send <- msg.message:
				default:
					// Slow consumer
					log.Warn("dropping slow event client", zap.String("topic", msg.topic))
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove detaches client from every topic and closes its Send channel once.
// The caller must hold the write lock.
func (h *Hub) remove(client *Client) {
	registered := false
	for _, topic := range client.Topics {
		clients, ok := h.topics[topic]
		if !ok || !clients[client] {
			continue
		}
		registered = true
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
	if registered {
		close(client.Send)
	}
}

// Subscribers returns the number of clients listening on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Publish encodes an event and queues it for every subscriber of topic.
// It never blocks: when the queue is full the event is dropped.
func (h *Hub) Publish(topic, eventType string, payload interface{}) {
	log := logger.Get()

	data, err := encode(eventType, payload)
	if err != nil {
		log.Error("failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- topicMessage{topic: topic, message: data}:
	default:
		log.Warn("event queue full, dropping event",
			zap.String("topic", topic),
			zap.String("type", eventType),
		)
	}
}

func encode(eventType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: eventType, Payload: raw})
}

// ReadPump reads messages from the WebSocket connection. It is intended to be
// run in a per-client goroutine. The provided handler is called for each
// incoming message.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				logger.Get().Warn("unexpected websocket close",
					zap.Strings("topics", c.Topics),
					zap.Error(err),
				)
			}
			break
		}
		handler(c, message)
	}
}

// WritePump sends messages from the Send channel to the WebSocket connection.
// It also sends periodic pings to keep the connection alive. It is intended to
// be run in a per-client goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
