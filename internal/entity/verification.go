package entity

import (
	"fmt"
	"time"
)

type VerificationState uint8

const (
	StateIdle VerificationState = iota
	StateCameraStarting
	StateAwaitingPresence
	StateProbingLiveness
	StateLivenessConfirmed
	StateMatching
	StateVerified
	StateFailed
)

var VerificationStateMap = map[VerificationState]string{
	StateIdle:              "IDLE",
	StateCameraStarting:    "CAMERA_STARTING",
	StateAwaitingPresence:  "AWAITING_PRESENCE",
	StateProbingLiveness:   "PROBING_LIVENESS",
	StateLivenessConfirmed: "LIVENESS_CONFIRMED",
	StateMatching:          "MATCHING",
	StateVerified:          "VERIFIED",
	StateFailed:            "FAILED",
}

func (s VerificationState) String() string {
	return VerificationStateMap[s]
}

func (s VerificationState) Terminal() bool {
	return s == StateVerified || s == StateFailed
}

func (s VerificationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *VerificationState) UnmarshalText(text []byte) error {
	for state, name := range VerificationStateMap {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown verification state %q", text)
}

// Reason is the code attached to a failure or a notable transition so the UI
// can pick a remediation message without looking at transport errors.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonPermissionDenied  Reason = "PERMISSION_DENIED"
	ReasonDeviceUnavailable Reason = "DEVICE_UNAVAILABLE"
	ReasonLivenessTimeout   Reason = "LIVENESS_TIMEOUT"
	ReasonLivenessService   Reason = "LIVENESS_SERVICE_ERROR"
	ReasonLivenessExhausted Reason = "LIVENESS_EXHAUSTED"
	ReasonNoMatch           Reason = "NO_MATCH"
	ReasonMatchService      Reason = "MATCH_SERVICE_ERROR"
	ReasonAuthExpired       Reason = "AUTH_EXPIRED"
	ReasonMatchExhausted    Reason = "MATCH_EXHAUSTED"
	ReasonCanceled          Reason = "CANCELED"
)

type DocumentPurpose string

const (
	PurposeKYC  DocumentPurpose = "KYC"
	PurposeLead DocumentPurpose = "LEAD"
)

type DocumentImage struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type Transition struct {
	From              VerificationState `json:"from"`
	To                VerificationState `json:"to"`
	Reason            Reason            `json:"reason,omitempty"`
	LivenessConfirmed bool              `json:"liveness_confirmed"`
	At                time.Time         `json:"at"`
}

type VerificationSession struct {
	ID                      string            `json:"id"`
	UserID                  string            `json:"user_id"`
	CreatedAt               time.Time         `json:"created_at"`
	State                   VerificationState `json:"state"`
	Reason                  Reason            `json:"reason,omitempty"`
	Fields                  ExtractedFields   `json:"fields"`
	DocumentReady           bool              `json:"document_ready"`
	DocumentKey             string            `json:"document_key,omitempty"`
	LivenessFramesSubmitted int               `json:"liveness_frames_submitted"`
	LivenessRetries         int               `json:"liveness_retries"`
	LivenessConfirmed       bool              `json:"liveness_confirmed"`
	MatchAttempts           int               `json:"match_attempts"`
	Similarity              *float64          `json:"similarity,omitempty"`
	UpdatedAt               time.Time         `json:"updated_at"`
}
