package socket

import (
	"database/sql"
	"encoding/json"
	"sync"

	"pantrypal/internal/list/model"
	"pantrypal/pkg/logger"
)

const (
	// SnapshotType carries the full owner-filtered list set, newest first.
	// Every emission replaces the client's previous state wholesale.
	SnapshotType = "SNAPSHOT"
)

type WSMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Hub maintains one room per user. A room's clients are that user's open
// subscriptions; each receives the full snapshot on join and again whenever
// one of the user's lists is created, renamed, duplicated or deleted.
type Hub struct {
	Rooms      map[string]map[*Client]bool // userID -> clients
	Register   chan *Client
	Unregister chan *Client
	Refresh    chan string // userID whose lists changed
	db         *sql.DB
	mu         sync.Mutex
}

func NewHub(db *sql.DB) *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Refresh:    make(chan string, 64),
		db:         db,
	}
}

// NotifyUser queues a snapshot refresh for all of the user's connections.
// Mutation services call this after every successful write; the hub re-reads
// the store so the emission always reflects the current matching set.
func (h *Hub) NotifyUser(userID string) {
	h.Refresh <- userID
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.UserID] == nil {
				h.Rooms[client.UserID] = make(map[*Client]bool)
			}
			h.Rooms[client.UserID][client] = true
			h.mu.Unlock()

			// Send the initial snapshot only to the client that just joined.
			payload, err := h.loadSnapshot(client.UserID)
			if err != nil {
				logger.Sugar.Errorf("Failed to load snapshot for user %s: %v", client.UserID, err)
				continue
			}
			initialMsg, _ := json.Marshal(WSMessage{Type: SnapshotType, UserID: client.UserID, Payload: payload})
			select {
			case client.Send <- initialMsg:
			default:
				logger.Sugar.Warnf("Client for user %s could not take the initial snapshot.", client.UserID)
			}

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Rooms[client.UserID][client]; ok {
				delete(h.Rooms[client.UserID], client)
				close(client.Send)
				if len(h.Rooms[client.UserID]) == 0 {
					delete(h.Rooms, client.UserID)
					logger.Sugar.Infof("Closed and cleaned up empty room: %s", client.UserID)
				}
			}
			h.mu.Unlock()

		case userID := <-h.Refresh:
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Rooms[userID]))
			for client := range h.Rooms[userID] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			// Nobody subscribed; nothing to emit.
			if len(clientsToSend) == 0 {
				continue
			}

			payload, err := h.loadSnapshot(userID)
			if err != nil {
				logger.Sugar.Errorf("Failed to load snapshot for user %s: %v", userID, err)
				continue
			}
			msg, _ := json.Marshal(WSMessage{Type: SnapshotType, UserID: userID, Payload: payload})

			for _, client := range clientsToSend {
				select {
				case client.Send <- msg:
				default:
					// The client is lagging and its send buffer is full.
					// Closing the connection makes its readPump exit and
					// unregister without blocking the hub.
					logger.Sugar.Warnf("Client for user %s has a full send buffer. Disconnecting.", client.UserID)
					client.Conn.Close()
				}
			}
		}
	}
}

// RemoveUser forcefully disconnects every client of a user and drops the
// room. Called when the account is deleted via the API.
func (h *Hub) RemoveUser(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.Rooms[userID]; ok {
		for client := range clients {
			client.Conn.Close() // readPump will exit and unregister safely
		}
		delete(h.Rooms, userID)
	}
}

// loadSnapshot reads the owner-filtered list set ordered created_at DESC and
// returns it marshaled. The ordering is the store's; clients never re-sort.
func (h *Hub) loadSnapshot(userID string) (json.RawMessage, error) {
	rows, err := h.db.Query(`SELECT id, name, created_at, owner_id FROM lists WHERE owner_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]model.GroceryList, 0)
	for rows.Next() {
		var l model.GroceryList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.OwnerID); err != nil {
			logger.Sugar.Errorf("Failed to scan list row for snapshot: %v", err)
			continue
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(lists)
}
