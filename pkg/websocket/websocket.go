package websocketPkg

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultFaceDetectionURL = "ws://localhost:8000/api/v1/face/ws"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IWebsocket interface {
	DetectPresence(ctx context.Context, frame entity.Frame, cred entity.Credential) (entity.PresenceResult, error)
	IsConnected() bool
	Reconnect() error
	CloseConnections()
}

// webSocketClient keeps one connection to the face detection service. The
// service answers frames in order, so a request and its response are
// serialized under reqMu.
type webSocketClient struct {
	url          string
	serviceToken string
	log          *logrus.Logger

	mu    sync.Mutex
	reqMu sync.Mutex
	conn  *websocket.Conn

	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	now          func() time.Time
}

func NewAIWebSocketClient(log *logrus.Logger) IWebsocket {
	url := os.Getenv("AI_FACE_DETECTION_URL")
	if url == "" {
		url = defaultFaceDetectionURL
	}

	client := newClient(url, os.Getenv("AI_SERVICE_TOKEN"), log)
	go client.connectInBackground()
	return client
}

func newClient(url, serviceToken string, log *logrus.Logger) *webSocketClient {
	return &webSocketClient{
		url:          url,
		serviceToken: serviceToken,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
		now:          time.Now,
	}
}

func (c *webSocketClient) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		c.log.WithField("error", err.Error()).Warn("Initial connection to face detection service failed, will retry on demand")
		return
	}
	c.log.Info("Successfully connected to face detection service")
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *webSocketClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	header := http.Header{}
	if c.serviceToken != "" {
		header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	conn, _, err := dialer.Dial(c.url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.WithField("error", err.Error()).Warn("Error sending pong to face detection service")
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *webSocketClient) CloseConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.WithField("error", err.Error()).Warn("Ping failed for face detection service, marking connection as dead")
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *webSocketClient) getConnection() (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn, nil
	}
	if err := c.Reconnect(); err != nil {
		return nil, fmt.Errorf("cannot connect to face detection service: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("not connected to face detection service")
	}
	return c.conn, nil
}

func (c *webSocketClient) dropConnection(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

// DetectPresence sends one JPEG frame and waits for the detection result.
// An expired credential is refused without contacting the service.
func (c *webSocketClient) DetectPresence(ctx context.Context, frame entity.Frame, cred entity.Credential) (entity.PresenceResult, error) {
	if cred.Expired(c.now()) {
		return entity.PresenceResult{}, verification.ErrAuthExpired
	}
	if err := ctx.Err(); err != nil {
		return entity.PresenceResult{}, err
	}

	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	conn, err := c.getConnection()
	if err != nil {
		return entity.PresenceResult{}, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout)); err != nil {
		c.dropConnection(conn)
		return entity.PresenceResult{}, err
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Data); err != nil {
		c.dropConnection(conn)
		return entity.PresenceResult{}, fmt.Errorf("error sending face frame: %w", err)
	}

	if err := conn.SetReadDeadline(c.deadline(ctx, c.readTimeout)); err != nil {
		c.dropConnection(conn)
		return entity.PresenceResult{}, err
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.dropConnection(conn)
		if ctx.Err() != nil {
			return entity.PresenceResult{}, ctx.Err()
		}
		return entity.PresenceResult{}, fmt.Errorf("error reading face message: %w", err)
	}

	var result entity.DetectionResult
	if err := json.Unmarshal(message, &result); err != nil {
		return entity.PresenceResult{}, fmt.Errorf("error unmarshaling face response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"seq":    frame.Seq,
		"status": result.Status,
	}).Debug("Face detection result received")

	return result.Presence(), nil
}

func (c *webSocketClient) deadline(ctx context.Context, d time.Duration) time.Time {
	dl := c.now().Add(d)
	if ctxDl, ok := ctx.Deadline(); ok && ctxDl.Before(dl) {
		return ctxDl
	}
	return dl
}
