package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"fitness-battle-server/auth"
	"fitness-battle-server/game"
	"fitness-battle-server/gamerrors"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and a session's
// state stream.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  string
	Session *game.Session
}

// ReadPump pumps messages from the websocket connection to the session.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
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
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "attach":
		c.handleAttach(envelope.Raw)
	case "play_card":
		c.handlePlayCard(envelope.Raw)
	case "abandon":
		c.handleAbandon()
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

// handleAttach authenticates the connection and subscribes it to the
// session's state stream. The current state is delivered immediately.
func (c *Client) handleAttach(raw json.RawMessage) {
	var msg AttachMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.SessionID == "" {
		c.sendError("Invalid attach message.")
		return
	}

	userID := c.resolveUser(msg)
	if userID == "" {
		c.sendError("Authorization required.")
		return
	}

	s, err := c.Hub.Manager.Lookup(msg.SessionID, userID)
	if err != nil {
		c.sendError("Session not found.")
		return
	}

	if c.Session != nil {
		c.Session.Unsubscribe(c.Send)
	}
	c.UserID = userID
	c.Session = s
	s.Subscribe(c.Send)

	ack, _ := json.Marshal(AttachedMsg{Type: "attached", SessionID: s.ID})
	c.trySend(ack)

	state, err := c.Hub.Manager.GetState(msg.SessionID, userID)
	if err != nil {
		return
	}
	data, _ := json.Marshal(state)
	c.trySend(data)
}

func (c *Client) resolveUser(msg AttachMsg) string {
	if c.Hub.Config.AuthJWKSURL == "" {
		return msg.UserID
	}
	claims, err := auth.ValidateToken(c.Hub.Config.AuthJWKSURL, msg.Token)
	if err != nil {
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

func (c *Client) handlePlayCard(raw json.RawMessage) {
	if c.Session == nil {
		c.sendError("Not attached to a session.")
		return
	}

	var msg PlayCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.CardID == "" {
		c.sendError("Invalid play_card message.")
		return
	}

	if _, err := c.Hub.Manager.PlayCard(context.Background(), c.Session.ID, c.UserID, msg.CardID); err != nil {
		c.sendPlayError(err)
	}
	// The resulting state arrives through the subscribed stream.
}

func (c *Client) handleAbandon() {
	if c.Session == nil {
		c.sendError("Not attached to a session.")
		return
	}
	if _, err := c.Hub.Manager.Abandon(c.Session.ID, c.UserID); err != nil {
		c.sendPlayError(err)
	}
}

func (c *Client) sendPlayError(err error) {
	switch {
	case errors.Is(err, gamerrors.ErrSessionBusy):
		c.sendError("A play is already in flight.")
	case errors.Is(err, gamerrors.ErrNotYourTurn):
		c.sendError("Not your turn.")
	case errors.Is(err, gamerrors.ErrInvalidCard):
		c.sendError("That card is not in your hand.")
	case errors.Is(err, gamerrors.ErrGameFinished):
		c.sendError("The battle is over.")
	default:
		c.sendError("Play failed.")
	}
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error", Message: message}
	data, _ := json.Marshal(msg)
	c.trySend(data)
}

func (c *Client) trySend(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}
