package feed

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	common_models "studentz/internal/common/models"
	"studentz/internal/middleware"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFeedApp(hub *Hub) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	NewFeedApi(NewFeedController(hub, zap.NewNop())).Setup(app)
	return app
}

func TestFeedRequiresUpgrade(t *testing.T) {
	app := newFeedApp(NewHub(zap.NewNop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws/feed", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestFeedStreamsPublishedEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	app := newFeedApp(hub)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, _, err := fastws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/ws/feed", nil)
	require.NoError(t, err)
	defer hub.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	want := common_models.FeedEvent{
		Type:      common_models.FeedMemberCreated,
		ID:        "SB2025ABC123",
		CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	hub.Publish(want)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got common_models.FeedEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, want, got)
}
