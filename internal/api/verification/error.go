package verification

import (
	"ProjectKYC/pkg/response"
	"net/http"
)

var (
	ErrAlreadyStarted     = response.NewError(http.StatusConflict, "verification session already started")
	ErrNotStarted         = response.NewError(http.StatusConflict, "no active verification session")
	ErrMatchNotAllowed    = response.NewError(http.StatusConflict, "face match is not allowed in the current state")
	ErrDocumentNotReady   = response.NewError(http.StatusConflict, "identity document has not been extracted yet")
	ErrSessionNotFound    = response.NewError(http.StatusNotFound, "verification session not found")
	ErrOrchestratorClosed = response.NewError(http.StatusGone, "verification orchestrator closed")

	ErrInvalidFormat    = response.NewError(http.StatusUnsupportedMediaType, "document is not a supported image")
	ErrTooLarge         = response.NewError(http.StatusRequestEntityTooLarge, "document exceeds the size limit")
	ErrExtractionFailed = response.NewError(http.StatusUnprocessableEntity, "could not extract data from document")

	ErrPermissionDenied  = response.NewError(http.StatusForbidden, "camera permission denied")
	ErrDeviceUnavailable = response.NewError(http.StatusServiceUnavailable, "camera device unavailable")
	ErrCaptureBusy       = response.NewError(http.StatusConflict, "camera already acquired")
	ErrCaptureReleased   = response.NewError(http.StatusGone, "camera released")

	ErrAuthExpired        = response.NewError(http.StatusUnauthorized, "session credential expired")
	ErrNoMatch            = response.NewError(http.StatusUnprocessableEntity, "faces do not match")
	ErrServiceUnavailable = response.NewError(http.StatusBadGateway, "verification service unavailable")
)

var ErrApplicationNotFound = response.NewError(http.StatusNotFound, "kyc application not found")
