package verificationService

import (
	"ProjectKYC/internal/entity"
	"time"
)

// Event is published by the orchestrator to its subscribers. The set of
// implementations is closed to this package.
type Event interface {
	Kind() string
	Meta() EventMeta
	isEvent()
}

type EventMeta struct {
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

func (m EventMeta) Meta() EventMeta { return m }
func (EventMeta) isEvent()          {}

type StateChanged struct {
	EventMeta
	From   entity.VerificationState `json:"from"`
	To     entity.VerificationState `json:"to"`
	Reason entity.Reason            `json:"reason,omitempty"`
}

type PresenceChanged struct {
	EventMeta
	Present     bool         `json:"present"`
	BoundingBox *entity.Rect `json:"bounding_box,omitempty"`
}

type LivenessProgress struct {
	EventMeta
	FramesSubmitted int `json:"frames_submitted"`
	FramesCollected int `json:"frames_collected"`
}

type LivenessResolved struct {
	EventMeta
	Outcome entity.LivenessOutcome `json:"outcome"`
	Retries int                    `json:"retries"`
}

type DocumentExtracted struct {
	EventMeta
	Purpose entity.DocumentPurpose `json:"purpose"`
	Fields  entity.ExtractedFields `json:"fields"`
}

type DocumentRejected struct {
	EventMeta
	Purpose entity.DocumentPurpose `json:"purpose"`
	Reason  string                 `json:"reason"`
}

type FieldsUpdated struct {
	EventMeta
	Fields entity.ExtractedFields `json:"fields"`
}

type MatchCompleted struct {
	EventMeta
	Attempt int                 `json:"attempt"`
	Outcome entity.MatchOutcome `json:"outcome"`
}

// AuthRequired asks the host to refresh the credential and call SetCredential.
type AuthRequired struct {
	EventMeta
}

func (StateChanged) Kind() string      { return "state_changed" }
func (PresenceChanged) Kind() string   { return "presence_changed" }
func (LivenessProgress) Kind() string  { return "liveness_progress" }
func (LivenessResolved) Kind() string  { return "liveness_resolved" }
func (DocumentExtracted) Kind() string { return "document_extracted" }
func (DocumentRejected) Kind() string  { return "document_rejected" }
func (FieldsUpdated) Kind() string     { return "fields_updated" }
func (MatchCompleted) Kind() string    { return "match_completed" }
func (AuthRequired) Kind() string      { return "auth_required" }
