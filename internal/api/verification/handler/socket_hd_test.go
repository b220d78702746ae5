package verificationHandler

import (
	"ProjectKYC/internal/entity"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/mock/gomock"
)

type socketMessage struct {
	Type string `json:"type"`
	Data struct {
		To     entity.VerificationState `json:"to"`
		Reason entity.Reason            `json:"reason"`
	} `json:"data"`
	Code string `json:"code"`
}

func (s *HandlerSuite) dialSocket() *websocket.Conn {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	go func() { _ = s.app.Listener(ln) }()
	s.T().Cleanup(func() { _ = s.app.ShutdownWithTimeout(time.Second) })

	url := "ws://" + ln.Addr().String() + "/api/v1/verification/ws?access_token=" + s.token

	var conn *websocket.Conn
	s.Require().Eventually(func() bool {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitFor reads messages until match returns true.
func (s *HandlerSuite) waitFor(conn *websocket.Conn, match func(socketMessage) bool) {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	for {
		var msg socketMessage
		s.Require().NoError(conn.ReadJSON(&msg))
		if match(msg) {
			return
		}
	}
}

func stateIs(state entity.VerificationState) func(socketMessage) bool {
	return func(m socketMessage) bool {
		return m.Type == "state_changed" && m.Data.To == state
	}
}

func (s *HandlerSuite) TestSocketSessionLifecycle() {
	s.detector.EXPECT().
		DetectPresence(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(entity.PresenceResult{}, nil).
		AnyTimes()

	conn := s.dialSocket()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`)))
	s.waitFor(conn, func(m socketMessage) bool { return m.Type == "camera_request" })

	s.Require().NoError(conn.WriteMessage(websocket.BinaryMessage, []byte("\xff\xd8\xff\xe0frame")))
	s.waitFor(conn, stateIs(entity.StateAwaitingPresence))

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"cancel"}`)))
	s.waitFor(conn, func(m socketMessage) bool { return m.Type == "camera_release" })
}

func (s *HandlerSuite) TestSocketCameraDenied() {
	conn := s.dialSocket()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`)))
	s.waitFor(conn, func(m socketMessage) bool { return m.Type == "camera_request" })

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"camera_denied"}`)))
	s.waitFor(conn, func(m socketMessage) bool {
		return stateIs(entity.StateFailed)(m) && m.Data.Reason == entity.ReasonPermissionDenied
	})
}

func (s *HandlerSuite) TestSocketRejectsUnknownCommand() {
	conn := s.dialSocket()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	s.waitFor(conn, func(m socketMessage) bool { return m.Type == "error" })

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"retry_match"}`)))
	s.waitFor(conn, func(m socketMessage) bool {
		return m.Type == "error" && strings.EqualFold(m.Code, "NOT_STARTED")
	})
}
