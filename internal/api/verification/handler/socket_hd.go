package verificationHandler

import (
	"ProjectKYC/internal/api/verification"
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/entity"
	"ProjectKYC/internal/middleware"
	"ProjectKYC/pkg/handlerUtil"
	jwtPkg "ProjectKYC/pkg/jwt"
	"ProjectKYC/pkg/log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	socketReadTimeout  = 2 * time.Minute
	socketWriteTimeout = 10 * time.Second
)

// socket serializes writes from the event forwarder, the camera control
// channel and command replies.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *socket) sendControl(ctl verification.Control) error {
	return s.writeJSON(ctl)
}

func (h *VerificationHandler) handleSocket(c *websocket.Conn) {
	user, _ := c.Locals(jwtPkg.LocalsUser).(entity.UserLoginData)
	cred, _ := c.Locals(jwtPkg.LocalsCredential).(entity.Credential)
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)

	entry := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	})
	entry.Info("Verification WebSocket client connected")
	defer entry.Info("Verification WebSocket client disconnected")

	sock := &socket{conn: c}

	cfg := h.verificationService.Config()
	var camera *verificationService.RemoteCamera
	var device verificationService.Device
	if cfg.CameraSource != verificationService.CameraSourceLocal {
		camera = verificationService.NewRemoteCamera(sock.sendControl, cfg.CameraAcquireTimeout)
		device = camera
	}

	o := h.verificationService.Connect(user.ID, cred, device)
	events, unsubscribe := o.Subscribe()

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for ev := range events {
			if err := sock.writeJSON(verification.EventEnvelope{Type: ev.Kind(), Data: ev}); err != nil {
				entry.WithField("error", err.Error()).Warn("Failed to forward verification event")
			}
		}
	}()

	defer func() {
		unsubscribe()
		h.verificationService.Disconnect(user.ID, o)
		<-forwarded
	}()

	c.SetPingHandler(func(data string) error {
		sock.mu.Lock()
		defer sock.mu.Unlock()
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			entry.WithField("error", err.Error()).Debug("Error sending pong")
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(socketReadTimeout)); err != nil {
			entry.WithField("error", err.Error()).Error("Error setting read deadline")
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.WithField("error", err.Error()).Warn("Verification WebSocket error")
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if camera == nil {
				continue
			}
			camera.Push(entity.Frame{
				CapturedAt:  time.Now(),
				Data:        message,
				ContentType: "image/jpeg",
			})
		case websocket.TextMessage:
			if err := h.handleCommand(o, camera, user, message); err != nil {
				entry.WithField("error", err.Error()).Debug("Verification command rejected")
				if werr := sock.writeJSON(verification.ErrorMessage{
					Type:  "error",
					Error: err.Error(),
					Code:  handlerUtil.CodeOf(err),
				}); werr != nil {
					return
				}
			}
		}
	}
}

func (h *VerificationHandler) handleCommand(o *verificationService.Orchestrator, camera *verificationService.RemoteCamera, user entity.UserLoginData, message []byte) error {
	var cmd verification.Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return err
	}
	if err := h.validator.Struct(cmd); err != nil {
		return err
	}

	switch cmd.Type {
	case verification.CommandStart:
		return o.Start()
	case verification.CommandCancel:
		return o.Cancel()
	case verification.CommandRetryMatch:
		return o.RetryMatch()
	case verification.CommandCameraDenied, verification.CommandCameraUnavailable:
		if camera != nil {
			camera.Deny(cmd.Type == verification.CommandCameraDenied)
		}
		return nil
	case verification.CommandCredential:
		refreshed, cred, err := jwtPkg.Authenticate(cmd.Token, jwtPkg.AccessTokenSecret)
		if err != nil {
			return verification.ErrAuthExpired
		}
		if refreshed.ID != user.ID {
			return verification.ErrAuthExpired
		}
		o.SetCredential(cred)
		h.log.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"expires_at": cred.ExpiresAt,
		}).Debug("Verification credential refreshed")
		return nil
	}
	return nil
}
