package model

import "time"

// GroceryList is the only persisted domain entity. Timestamps travel as
// RFC 3339 over the wire and are normalized to time.Time in memory.
type GroceryList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   string    `json:"owner_id"`
}

type CreateListRequest struct {
	Name string `json:"name"`
}

type RenameListRequest struct {
	Name string `json:"name"`
}

type CreateListResponse struct {
	ListID string `json:"list_id"`
}
