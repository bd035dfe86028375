package protocol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/types"
)

func wsTestServer(t *testing.T, serve func(ctx context.Context, c *websocket.Conn)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusInternalError, "server exit")
		serve(r.Context(), c)
		c.Close(websocket.StatusNormalClosure, "")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWSFrameRoundTrip(t *testing.T) {
	srv := wsTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		_ = WriteWSFrame(ctx, c, Frame{Type: FrameThinkingStep, Content: "thinking"})
		_ = WriteWSFrame(ctx, c, Frame{
			Type:          FrameResponse,
			Content:       "answer",
			ThinkingSteps: []string{"thinking"},
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var seen []string
	res, err := ReadWSResult(ctx, conn, func(step string) {
		seen = append(seen, step)
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", res.Content)
	assert.Equal(t, []string{"thinking"}, res.ThinkingSteps)
	assert.Equal(t, []string{"thinking"}, seen)
}

func TestWSResultSkipsMalformedMessages(t *testing.T) {
	srv := wsTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		_ = c.Write(ctx, websocket.MessageText, []byte("{broken"))
		_ = WriteWSFrame(ctx, c, Frame{Type: FrameResponse, Content: "answer"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	res, err := ReadWSResult(ctx, conn, nil)
	require.NoError(t, err)
	assert.Equal(t, "answer", res.Content)
}

func TestWSResultNoResponseFrame(t *testing.T) {
	srv := wsTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		_ = WriteWSFrame(ctx, c, Frame{Type: FrameThinkingStep, Content: "only thinking"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, err = ReadWSResult(ctx, conn, nil)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrNoResponse))
}
