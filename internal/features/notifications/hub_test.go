package notifications

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskflow/internal/util/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHubServer(t *testing.T, hub *Hub, userID uuid.UUID) string {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", func(ctx *gin.Context) {
		hub.Serve(ctx, userID)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func readPushMessage(t *testing.T, conn *websocket.Conn) *PushMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	message := &PushMessage{}
	require.NoError(t, json.Unmarshal(data, message))

	return message
}

func Test_Hub_WhenClientConnects_ConnectedMessageSentAndPushDelivered(t *testing.T) {
	hub := NewHub(logger.GetLogger())
	userID := uuid.New()
	url := startHubServer(t, hub, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the writer starts after registration, so the greeting implies the
	// subscriber is already known to the hub
	greeting := readPushMessage(t, conn)
	assert.Equal(t, "connected", greeting.Type)
	assert.Equal(t, 1, hub.SubscriberCount(userID))

	notification := &Notification{ID: uuid.New(), RecipientID: userID, Kind: NotificationKindTaskAssigned}
	hub.Push(userID, &PushMessage{Type: "notification", Notification: notification})

	pushed := readPushMessage(t, conn)
	assert.Equal(t, "notification", pushed.Type)
	require.NotNil(t, pushed.Notification)
	assert.Equal(t, notification.ID, pushed.Notification.ID)
}

func Test_Hub_WhenClientDisconnects_SubscriberRemoved(t *testing.T) {
	hub := NewHub(logger.GetLogger())
	userID := uuid.New()
	url := startHubServer(t, hub, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	readPushMessage(t, conn)
	require.Equal(t, 1, hub.SubscriberCount(userID))

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount(userID) == 0
	}, 5*time.Second, 20*time.Millisecond)
}

func Test_Hub_WhenPushingToUserWithoutConnections_NothingHappens(t *testing.T) {
	hub := NewHub(logger.GetLogger())

	assert.NotPanics(t, func() {
		hub.Push(uuid.New(), &PushMessage{Type: "notification"})
	})
}
