package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GroceryList mirrors the server's wire shape.
type GroceryList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   string    `json:"owner_id"`
}

// Lists fetches the current owner-filtered set once, newest first.
func (c *Client) Lists(ctx context.Context) ([]GroceryList, error) {
	if c.Session() == nil {
		return nil, ErrNotAuthenticated
	}
	var lists []GroceryList
	if err := c.do(ctx, http.MethodGet, "/api/lists", nil, &lists,
		"Could not load your lists. Please try again."); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList inserts a new list owned by the active session. The visible
// list only changes once the subscription delivers the resulting snapshot;
// there is no optimistic local update.
func (c *Client) CreateList(ctx context.Context, name string) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return c.do(ctx, http.MethodPost, "/api/lists/create",
		map[string]string{"name": name}, nil,
		"Could not create the list. Please try again.")
}

func (c *Client) RenameList(ctx context.Context, listID, name string) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return c.do(ctx, http.MethodPut, "/api/lists/update?listId="+url.QueryEscape(listID),
		map[string]string{"name": name}, nil,
		"Rename failed. Please try again.")
}

func (c *Client) DuplicateList(ctx context.Context, listID string) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	return c.do(ctx, http.MethodPost, "/api/lists/duplicate?listId="+url.QueryEscape(listID),
		nil, nil, "Duplicate failed. Please try again.")
}

func (c *Client) DeleteList(ctx context.Context, listID string) error {
	if c.Session() == nil {
		return ErrNotAuthenticated
	}
	return c.do(ctx, http.MethodDelete, "/api/lists/delete?listId="+url.QueryEscape(listID),
		nil, nil, "Delete failed. Please try again.")
}
