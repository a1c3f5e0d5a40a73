package signaling

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers routinely run to
	// tens of kilobytes.
	maxMessageSize = 64 * 1024

	// Outbound queue depth per connection.
	sendQueueSize = 256
)

// Client wraps a single websocket connection. The hub addresses it by the
// server-assigned connection ID, which is also the identity peers see in
// `from` fields.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string

	// send is drained by WritePump; the hub is the only writer.
	send chan []byte
}

// ID returns the server-assigned connection ID.
func (c *Client) ID() string { return c.id }

// ReadPump pumps messages from the websocket connection to the hub. It runs
// in a per-connection goroutine; all reads happen here.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("connection_id", c.id).WithError(err).Warn("Websocket read error")
			}
			break
		}

		msg.client = c
		c.hub.inbound <- &msg
	}
}

// WritePump pumps messages from the hub to the websocket connection. It runs
// in a per-connection goroutine; all writes happen here, so delivery order
// follows send-channel order.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel during teardown.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("connection_id", c.id).WithError(err).Warn("Websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs returns the handler for websocket upgrade requests. Cross-origin
// callers are checked against the configured origin list ("*" allows any).
func ServeWs(hub *Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  maxMessageSize,
		WriteBufferSize: maxMessageSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Warn("Failed to upgrade connection")
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			id:   uuid.NewString(),
			send: make(chan []byte, sendQueueSize),
		}
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
