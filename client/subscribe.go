package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Subscribe opens the realtime snapshot stream for the active session. Every
// received value is the full owner-filtered list set, newest first, and
// replaces whatever the consumer held before. Cancel the context to tear the
// subscription down; the channel closes on teardown and on any read error.
// There is no automatic reconnection.
func (c *Client) Subscribe(ctx context.Context) (<-chan []GroceryList, error) {
	sess := c.Session()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/ws?token=" + url.QueryEscape(sess.Token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	snapshots := make(chan []GroceryList, 1)

	// Closing the connection on cancel unblocks the read loop.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(snapshots)
		defer conn.Close()

		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "SNAPSHOT" {
				continue
			}

			var lists []GroceryList
			if err := json.Unmarshal(msg.Payload, &lists); err != nil {
				continue
			}

			select {
			case snapshots <- lists:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, nil
}
