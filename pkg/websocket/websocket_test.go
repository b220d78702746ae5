package websocketPkg

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func validCred() entity.Credential {
	return entity.Credential{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
}

// detectionServer answers every binary frame with reply(frame).
func detectionServer(t *testing.T, reply func([]byte) string) (*httptest.Server, chan string) {
	t.Helper()

	auth := make(chan string, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			resp := reply(data)
			if resp == "" {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(resp)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, auth
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDetectPresence(t *testing.T) {
	srv, auth := detectionServer(t, func(frame []byte) string {
		if string(frame) == "empty" {
			return `{"status":"NO_FACE_DETECTED","instructions":["No face detected"],"frame_center":{"x":320,"y":240}}`
		}
		return `{"status":"PERFECT_POSITION","face_position":{"x":320,"y":240},"face_size":100,"frame_center":{"x":320,"y":240}}`
	})

	client := newClient(wsURL(srv), "service-token", quietLogger())
	defer client.CloseConnections()

	res, err := client.DetectPresence(context.Background(), entity.Frame{Seq: 1, Data: []byte("face")}, validCred())
	require.NoError(t, err)
	assert.True(t, res.Present)
	require.NotNil(t, res.BoundingBox)
	assert.Equal(t, entity.Rect{X: 270, Y: 190, Width: 100, Height: 100}, *res.BoundingBox)
	assert.Equal(t, "Bearer service-token", <-auth)

	res, err = client.DetectPresence(context.Background(), entity.Frame{Seq: 2, Data: []byte("empty")}, validCred())
	require.NoError(t, err)
	assert.False(t, res.Present)
	assert.True(t, client.IsConnected())
}

func TestDetectPresenceExpiredCredential(t *testing.T) {
	client := newClient("ws://127.0.0.1:1/unused", "", quietLogger())

	_, err := client.DetectPresence(context.Background(), entity.Frame{Data: []byte("x")}, entity.Credential{Token: "tok", ExpiresAt: time.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, verification.ErrAuthExpired)
	assert.False(t, client.IsConnected())
}

func TestDetectPresenceCanceledWhileWaiting(t *testing.T) {
	srv, _ := detectionServer(t, func([]byte) string { return "" })

	client := newClient(wsURL(srv), "", quietLogger())
	defer client.CloseConnections()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := client.DetectPresence(ctx, entity.Frame{Data: []byte("x")}, validCred())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, client.IsConnected())
}

func TestDetectPresenceReconnectsAfterDrop(t *testing.T) {
	srv, _ := detectionServer(t, func([]byte) string {
		return `{"status":"PERFECT_POSITION","face_position":{"x":1,"y":1},"frame_center":{"x":1,"y":1}}`
	})

	client := newClient(wsURL(srv), "", quietLogger())
	defer client.CloseConnections()

	_, err := client.DetectPresence(context.Background(), entity.Frame{Data: []byte("a")}, validCred())
	require.NoError(t, err)

	client.CloseConnections()
	require.False(t, client.IsConnected())

	res, err := client.DetectPresence(context.Background(), entity.Frame{Data: []byte("b")}, validCred())
	require.NoError(t, err)
	assert.True(t, res.Present)
	assert.Nil(t, res.BoundingBox)
}
