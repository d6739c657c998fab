package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestClient creates a Client with no websocket.Conn. The hub only ever
// touches Send, so this is enough to exercise fan-out.
func newTestClient(hub *Hub, buffer int, topics ...string) *Client {
	return &Client{Hub: hub, Send: make(chan []byte, buffer), Topics: topics}
}

func readMessage(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("Send channel closed")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func assertNoMessage(t *testing.T, ch <-chan []byte) {
	t.Helper()
	select {
	case data := <-ch:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	recipes := newTestClient(hub, 8, service.TopicRecipes)
	both := newTestClient(hub, 8, service.TopicRecipes, service.TopicIngredients)
	hub.Register <- recipes
	hub.Register <- both

	hub.Publish(service.TopicIngredients, service.EventIngredientCreated, map[string]string{"name": "Tomato"})

	msg := readMessage(t, both.Send)
	if msg.Type != service.EventIngredientCreated {
		t.Errorf("type = %q, want %q", msg.Type, service.EventIngredientCreated)
	}
	if string(msg.Payload) != `{"name":"Tomato"}` {
		t.Errorf("payload = %s", msg.Payload)
	}
	assertNoMessage(t, recipes.Send)
}

func TestHub_UnregisterClosesSendOnce(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 1, service.TopicRecipes, service.TopicIngredients)
	hub.Register <- client
	hub.Unregister <- client
	hub.Unregister <- client

	if _, ok := <-client.Send; ok {
		t.Error("Send still open after unregister")
	}
	if n := hub.Subscribers(service.TopicRecipes); n != 0 {
		t.Errorf("Subscribers = %d, want 0", n)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := newTestClient(hub, 1, service.TopicRecipes)
	hub.Register <- slow

	hub.Publish(service.TopicRecipes, service.EventRecipeCreated, nil)
	hub.Publish(service.TopicRecipes, service.EventRecipeUpdated, nil)

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(service.TopicRecipes) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Publish(service.TopicRecipes, service.EventRecipeDeleted, service.DeletedPayload{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestEncode(t *testing.T) {
	data, err := encode(MsgTypeConnected, ConnectedPayload{Topics: []string{service.TopicRecipes}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgTypeConnected {
		t.Errorf("type = %q, want %q", msg.Type, MsgTypeConnected)
	}

	if _, err := encode(MsgTypeConnected, make(chan int)); err == nil {
		t.Error("encode(chan) error = nil, want error")
	}
}

func TestHub_PublishUnencodablePayloadIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 8, service.TopicRecipes)
	hub.Register <- client

	hub.Publish(service.TopicRecipes, service.EventRecipeCreated, make(chan int))
	assertNoMessage(t, client.Send)

	hub.Publish(service.TopicRecipes, service.EventRecipeDeleted, service.DeletedPayload{ID: "x"})
	if msg := readMessage(t, client.Send); msg.Type != service.EventRecipeDeleted {
		t.Errorf("type = %q, want %q", msg.Type, service.EventRecipeDeleted)
	}
}

func TestHandleEvents_StreamsChanges(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	r := gin.New()
	r.GET("/v1/ws/events", NewEventsHandler(hub, nil).HandleEvents)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/events?topic=" + service.TopicRecipes
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read connected: %v", err)
	}
	if msg.Type != MsgTypeConnected {
		t.Fatalf("first message type = %q, want %q", msg.Type, MsgTypeConnected)
	}

	hub.Publish(service.TopicRecipes, service.EventRecipeDeleted, service.DeletedPayload{ID: "abc"})
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Type != service.EventRecipeDeleted || string(msg.Payload) != `{"id":"abc"}` {
		t.Errorf("event = %s %s", msg.Type, msg.Payload)
	}
}

func TestHandleEvents_UnknownTopic(t *testing.T) {
	r := gin.New()
	r.GET("/v1/ws/events", NewEventsHandler(NewHub(), nil).HandleEvents)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/ws/events?topic=users", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleEvents_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	r := gin.New()
	r.GET("/v1/ws/events", NewEventsHandler(hub, []string{"https://recipes.test"}).HandleEvents)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/events"
	header := http.Header{"Origin": []string{"https://evil.test"}}
	if _, resp, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("dial succeeded from a foreign origin")
	} else if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}
