package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-threes/internal/games/threes"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 16
)

// Message types
const (
	TypeMove    = "move"
	TypeRestart = "restart"
	TypeState   = "state"
	TypeSave    = "save"
	TypeError   = "error"
)

// Request is a command sent by the client.
type Request struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// Response is sent after every request. An error response still carries
// the state when the request changed the board.
type Response struct {
	Type  string           `json:"type"`
	State *threes.Snapshot `json:"state,omitempty"`
	Moved bool             `json:"moved"`
	Saved bool             `json:"saved,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Client is one WebSocket connection and the session it plays.
type Client struct {
	server *Server
	conn   *websocket.Conn
	cart   *storage.Cart // nil when not saving
	send   chan []byte
	done   chan struct{} // closed when writePump exits

	mu      sync.Mutex
	session *threes.Session
}

// readPump handles requests until the connection fails or closes.
// It closes send on return, which stops writePump.
func (c *Client) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(data, &req); err != nil {
			resp = errorResponse(fmt.Errorf("malformed request: %w", err))
		} else {
			resp = c.handle(req)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			c.server.logger.Error("cannot encode response", "error", err)
			continue
		}
		select {
		case c.send <- out:
		case <-c.done:
			return
		}
	}
}

// handle applies one request to the session. A failed save does not undo
// the request, so the response carries both the error and the new state.
func (c *Client) handle(req Request) Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp := Response{Type: TypeState}
	var saveErr error
	switch req.Type {
	case TypeMove:
		dir, err := threes.ParseDirection(req.Direction)
		if err != nil {
			return errorResponse(err)
		}
		res, err := c.session.RequestMove(dir)
		resp.Moved = res.Moved
		resp.Saved = res.Saved
		saveErr = err

	case TypeRestart:
		saveErr = c.session.Restart()
		resp.Saved = saveErr == nil && c.cart != nil

	case TypeSave:
		saveErr = c.session.Persist()
		resp.Saved = saveErr == nil && c.cart != nil

	case TypeState:

	default:
		return errorResponse(fmt.Errorf("unknown request type %q", req.Type))
	}

	if saveErr != nil {
		c.server.logger.Error("save failed", "cart", c.cart.Name(), "error", saveErr)
		resp.Type = TypeError
		resp.Error = saveErr.Error()
	}

	snap := threes.SnapshotOf(c.session)
	resp.State = &snap
	return resp
}

func errorResponse(err error) Response {
	return Response{Type: TypeError, Error: err.Error()}
}

// writePump writes queued responses and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
