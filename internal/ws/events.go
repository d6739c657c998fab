package ws

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"go.uber.org/zap"
)

// MsgTypeConnected is sent once after the upgrade, before any change event.
const MsgTypeConnected = "connected"

// knownTopics lists the topics a client may subscribe to.
var knownTopics = []string{service.TopicIngredients, service.TopicRecipes}

// ConnectedPayload confirms a successful subscription.
type ConnectedPayload struct {
	Topics []string `json:"topics"`
}

// EventsHandler upgrades requests to a read-only stream of catalogue change events.
type EventsHandler struct {
	Hub      *Hub
	upgrader websocket.Upgrader
}

// NewEventsHandler returns an EventsHandler. An empty allowedOrigins accepts any origin.
func NewEventsHandler(hub *Hub, allowedOrigins []string) *EventsHandler {
	return &EventsHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleEvents subscribes the caller to the topic named by the "topic" query
// parameter, or to every topic when it is absent.
func (h *EventsHandler) HandleEvents(c *gin.Context) {
	log := logger.Get()

	topics := knownTopics
	if topic := c.Query("topic"); topic != "" {
		if !slices.Contains(knownTopics, topic) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic " + topic})
			return
		}
		topics = []string{topic}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Strings("topics", topics), zap.Error(err))
		return
	}

	connected, err := encode(MsgTypeConnected, ConnectedPayload{Topics: topics})
	if err != nil {
		log.Error("failed to encode connected message", zap.Strings("topics", topics), zap.Error(err))
		conn.Close()
		return
	}

	client := &Client{
		Hub:    h.Hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		Topics: topics,
	}
	client.Send <- connected
	h.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

// handleMessage discards inbound messages. Send belongs to the hub once the
// client is registered, so nothing is written back from the read side.
func (h *EventsHandler) handleMessage(client *Client, data []byte) {
	logger.Get().Debug("ignoring inbound event stream message",
		zap.Strings("topics", client.Topics),
		zap.Int("bytes", len(data)),
	)
}
