package verificationHandler

import (
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/api/verification/service/mocks"
	"ProjectKYC/internal/entity"
	"ProjectKYC/internal/middleware"
	"ProjectKYC/pkg/handlerUtil"
	jwtPkg "ProjectKYC/pkg/jwt"
	"ProjectKYC/pkg/utils"
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type HandlerSuite struct {
	suite.Suite

	app       *fiber.App
	service   verificationService.IVerificationService
	extractor *mocks.MockDocumentExtractor
	detector  *mocks.MockFaceDetector
	token     string
	cred      entity.Credential
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	t := s.T()
	t.Setenv("APP_ENV", "test")
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctrl := gomock.NewController(t)
	s.extractor = mocks.NewMockDocumentExtractor(ctrl)
	s.detector = mocks.NewMockFaceDetector(ctrl)

	cfg := verificationService.DefaultConfig()
	cfg.DocumentMaxBytes = 1024
	s.service = verificationService.New(logger, cfg, verificationService.Dependencies{
		Extractor: s.extractor,
		Detector:  s.detector,
	})
	t.Cleanup(s.service.Shutdown)

	u := utils.New()
	mw := middleware.New(logger, u)
	h := New(logger, validator.New(), mw, s.service, u)

	s.app = fiber.New()
	s.app.Use(mw.NewRequestIDMiddleware())
	h.Start(s.app.Group("/api/v1"))

	token, exp, err := jwtPkg.Sign(map[string]interface{}{
		"id":       "user-1",
		"email":    "user@example.com",
		"username": "user",
	}, time.Hour)
	s.Require().NoError(err)
	s.token = token
	s.cred = entity.Credential{Token: token, ExpiresAt: time.Unix(exp, 0)}
}

func (s *HandlerSuite) do(req *http.Request) (*http.Response, []byte) {
	if req.Header.Get(fiber.HeaderAuthorization) == "" && s.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, body
}

func (s *HandlerSuite) errorCode(body []byte) string {
	var out handlerUtil.ErrorResponse
	s.Require().NoError(json.Unmarshal(body, &out))
	return out.Code
}

func documentRequest(t *testing.T, purpose string, data []byte, contentType string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("purpose", purpose))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="document"; filename="id.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/verification/document", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (s *HandlerSuite) TestRequiresToken() {
	s.token = ""
	resp, _ := s.do(httptest.NewRequest(fiber.MethodGet, "/api/v1/verification/session", nil))
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlerSuite) TestSessionNotConnected() {
	resp, body := s.do(httptest.NewRequest(fiber.MethodGet, "/api/v1/verification/session", nil))
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	s.Equal("SESSION_NOT_FOUND", s.errorCode(body))

	resp, body = s.do(httptest.NewRequest(fiber.MethodPost, "/api/v1/verification/start", nil))
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	s.Equal("SESSION_NOT_FOUND", s.errorCode(body))
}

func (s *HandlerSuite) TestRetryMatchWithoutSession() {
	s.service.Connect("user-1", s.cred, nil)

	resp, body := s.do(httptest.NewRequest(fiber.MethodPost, "/api/v1/verification/retry-match", nil))
	s.Equal(fiber.StatusConflict, resp.StatusCode)
	s.Equal("NOT_STARTED", s.errorCode(body))
}

func (s *HandlerSuite) TestUpdateFields() {
	s.service.Connect("user-1", s.cred, nil)

	req := httptest.NewRequest(fiber.MethodPut, "/api/v1/verification/fields",
		strings.NewReader(`{"name":["Asha","Verma"],"gender":"Female","date_of_birth":"01/02/1990"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := s.do(req)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode, string(body))

	var fields entity.ExtractedFields
	s.Require().NoError(json.Unmarshal(body, &fields))
	s.Equal([]string{"Asha", "Verma"}, fields.Name)
	s.Equal(entity.GenderFemale, fields.Gender)

	resp, body = s.do(httptest.NewRequest(fiber.MethodGet, "/api/v1/verification/session", nil))
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var session struct {
		Session entity.VerificationSession `json:"session"`
		Live    bool                       `json:"live"`
	}
	s.Require().NoError(json.Unmarshal(body, &session))
	s.True(session.Live)
	s.Equal(entity.StateIdle, session.Session.State)
	s.Equal("01/02/1990", session.Session.Fields.DateOfBirth)
}

func (s *HandlerSuite) TestUpdateFieldsValidation() {
	s.service.Connect("user-1", s.cred, nil)

	req := httptest.NewRequest(fiber.MethodPut, "/api/v1/verification/fields", strings.NewReader(`{"gender":"Robot"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := s.do(req)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal("VALIDATION_ERROR", s.errorCode(body))
}

func (s *HandlerSuite) TestSubmitDocument() {
	o := s.service.Connect("user-1", s.cred, nil)

	s.extractor.EXPECT().
		ExtractDocument(gomock.Any(), gomock.Any(), entity.PurposeKYC, gomock.Any()).
		Return(entity.RawDocument{Name: "Asha Verma", DateOfBirth: "1990-02-01"}, nil)

	resp, body := s.do(documentRequest(s.T(), "kyc", pngHeader, "image/png"))
	s.Require().Equal(fiber.StatusAccepted, resp.StatusCode, string(body))

	s.Require().Eventually(func() bool {
		snap, err := o.Snapshot()
		return err == nil && snap.DocumentReady
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := o.Snapshot()
	s.Require().NoError(err)
	s.Equal([]string{"Asha", "Verma"}, snap.Fields.Name)
	s.Equal("01/02/1990", snap.Fields.DateOfBirth)
}

func (s *HandlerSuite) TestSubmitDocumentRejected() {
	s.service.Connect("user-1", s.cred, nil)

	resp, body := s.do(documentRequest(s.T(), "KYC", []byte("just some text"), "image/png"))
	s.Equal(fiber.StatusUnsupportedMediaType, resp.StatusCode)
	s.Equal("INVALID_FORMAT", s.errorCode(body))

	resp, body = s.do(documentRequest(s.T(), "KYC", bytes.Repeat([]byte("x"), 2048), "image/png"))
	s.Equal(fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	s.Equal("TOO_LARGE", s.errorCode(body))

	resp, body = s.do(documentRequest(s.T(), "PASSPORT", pngHeader, "image/png"))
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal("VALIDATION_ERROR", s.errorCode(body))
}

func (s *HandlerSuite) TestStartWithoutCameraFails() {
	o := s.service.Connect("user-1", s.cred, nil)

	resp, _ := s.do(httptest.NewRequest(fiber.MethodPost, "/api/v1/verification/start", nil))
	s.Require().Equal(fiber.StatusAccepted, resp.StatusCode)

	s.Require().Eventually(func() bool {
		snap, err := o.Snapshot()
		return err == nil && snap.State == entity.StateFailed
	}, 2*time.Second, 10*time.Millisecond)

	resp, body := s.do(httptest.NewRequest(fiber.MethodGet, "/api/v1/verification/transitions", nil))
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var out struct {
		Transitions []entity.Transition `json:"transitions"`
	}
	s.Require().NoError(json.Unmarshal(body, &out))
	s.Require().Len(out.Transitions, 2)
	s.Equal(entity.StateCameraStarting, out.Transitions[0].To)
	s.Equal(entity.StateFailed, out.Transitions[1].To)
	s.Equal(entity.ReasonDeviceUnavailable, out.Transitions[1].Reason)

	resp, _ = s.do(httptest.NewRequest(fiber.MethodPost, "/api/v1/verification/cancel", nil))
	s.Equal(fiber.StatusNoContent, resp.StatusCode)
}
