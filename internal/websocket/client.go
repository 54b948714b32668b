package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Inbound is a send event from a participant. A frame with neither text nor
// image is still accepted; the channel permits empty messages.
type Inbound struct {
	Body     *string `json:"body"`
	ImageURL *string `json:"image_url"`
}

// PostFunc persists and fans out an inbound message. Errors are swallowed at
// this layer: a failed post drops the frame without closing the socket.
type PostFunc func(userID string, in Inbound)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, transactionID, userID string, post PostFunc) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
		return
	}
	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
	}
	hub.Register(transactionID, client)
	go client.writePump(hub, transactionID)
	client.readPump(hub, transactionID, post)
}

func (c *Client) readPump(hub *Hub, transactionID string, post PostFunc) {
	defer func() {
		hub.Unregister(transactionID, c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if post == nil {
			continue
		}
		var in Inbound
		if err := json.Unmarshal(payload, &in); err != nil {
			continue
		}
		post(c.userID, in)
	}
}

func (c *Client) writePump(hub *Hub, transactionID string) {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		hub.Unregister(transactionID, c)
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
