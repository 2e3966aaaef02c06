package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pantrypal/internal/list/model"
	"pantrypal/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init("error")
}

// Helper function to read messages from a WebSocket connection with a timeout.
func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	var msg WSMessage
	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err, "Failed to read message from WebSocket")
	err = json.Unmarshal(p, &msg)
	require.NoError(t, err, "Failed to unmarshal WSMessage JSON")
	return msg
}

func assertNoMessage(t *testing.T, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	require.Error(t, err, "Expected no message, but one arrived")
}

func decodeSnapshot(t *testing.T, msg WSMessage) []model.GroceryList {
	require.Equal(t, SnapshotType, msg.Type)
	var lists []model.GroceryList
	require.NoError(t, json.Unmarshal(msg.Payload, &lists))
	return lists
}

func listRows(lists ...model.GroceryList) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "owner_id"})
	for _, l := range lists {
		rows.AddRow(l.ID, l.Name, l.CreatedAt, l.OwnerID)
	}
	return rows
}

func TestHubSnapshots(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hub := NewHub(db)
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		ServeWs(hub, w, r, userID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	now := time.Now().UTC().Truncate(time.Second)
	groceries := model.GroceryList{ID: "L1", Name: "Groceries", CreatedAt: now, OwnerID: "user1"}
	weekend := model.GroceryList{ID: "L2", Name: "Weekend BBQ", CreatedAt: now.Add(time.Minute), OwnerID: "user1"}

	snapshotQuery := "SELECT id, name, created_at, owner_id FROM lists WHERE owner_id = \\$1 ORDER BY created_at DESC"

	// 1. User1 connects and immediately receives the current snapshot.
	mock.ExpectQuery(snapshotQuery).WithArgs("user1").WillReturnRows(listRows(groceries))

	conn1, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws?user_id=user1", nil)
	require.NoError(t, err, "Client 1 failed to connect")
	defer conn1.Close()

	initial := decodeSnapshot(t, readMessage(t, conn1))
	require.Len(t, initial, 1)
	assert.Equal(t, "Groceries", initial[0].Name)
	assert.Equal(t, "user1", initial[0].OwnerID)

	// 2. A mutation lands; the hub re-reads and pushes the full fresh set.
	mock.ExpectQuery(snapshotQuery).WithArgs("user1").WillReturnRows(listRows(weekend, groceries))

	hub.NotifyUser("user1")

	updated := decodeSnapshot(t, readMessage(t, conn1))
	require.Len(t, updated, 2)
	assert.Equal(t, "Weekend BBQ", updated[0].Name, "Newest list comes first")
	assert.Equal(t, "Groceries", updated[1].Name)

	// 3. Another user's connection sees only their own (empty) set.
	mock.ExpectQuery(snapshotQuery).WithArgs("user2").WillReturnRows(listRows())

	conn2, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws?user_id=user2", nil)
	require.NoError(t, err, "Client 2 failed to connect")
	defer conn2.Close()

	empty := decodeSnapshot(t, readMessage(t, conn2))
	assert.Len(t, empty, 0)

	// 4. A refresh for user1 must not leak into user2's subscription.
	mock.ExpectQuery(snapshotQuery).WithArgs("user1").WillReturnRows(listRows(weekend, groceries))

	hub.NotifyUser("user1")

	_ = decodeSnapshot(t, readMessage(t, conn1))
	assertNoMessage(t, conn2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHubRefreshWithoutSubscribersSkipsLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hub := NewHub(db)
	go hub.Run()

	// No clients registered: the refresh must not touch the store.
	hub.NotifyUser("user1")
	time.Sleep(200 * time.Millisecond)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHubRemoveUserDisconnectsClients(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hub := NewHub(db)
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r, r.URL.Query().Get("user_id"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	mock.ExpectQuery("SELECT id, name, created_at, owner_id FROM lists").
		WithArgs("user1").
		WillReturnRows(listRows())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws?user_id=user1", nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = readMessage(t, conn)

	hub.RemoveUser("user1")

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err, "Connection should be closed after RemoveUser")

	assert.NoError(t, mock.ExpectationsWereMet())
}
