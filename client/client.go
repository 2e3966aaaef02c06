// Package client is the PantryPal API client: session handling, grocery-list
// mutations, the realtime snapshot subscription, and the reauthentication
// flow for sensitive account operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Session is the authenticated identity context: user identifier, display
// name, email and the bearer token.
type Session struct {
	UserID      string
	DisplayName string
	Email       string
	Token       string
}

type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session *Session
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Session returns a copy of the active session, or nil when unauthenticated.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// do runs one request/response call. There is no retry, rollback or request
// queue; a failure surfaces to the caller and nothing else happens.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sess := c.Session(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp, fallback)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
