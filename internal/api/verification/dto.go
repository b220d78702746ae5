package verification

import "ProjectKYC/internal/entity"

type CommandType string

const (
	CommandStart             CommandType = "start"
	CommandCancel            CommandType = "cancel"
	CommandRetryMatch        CommandType = "retry_match"
	CommandCameraDenied      CommandType = "camera_denied"
	CommandCameraUnavailable CommandType = "camera_unavailable"
	CommandCredential        CommandType = "credential"
)

// Command is a text message sent by the browser over the verification socket.
type Command struct {
	Type  CommandType `json:"type" validate:"required,oneof=start cancel retry_match camera_denied camera_unavailable credential"`
	Token string      `json:"token,omitempty" validate:"required_if=Type credential"`
}

type ControlType string

const (
	ControlCameraRequest ControlType = "camera_request"
	ControlCameraRelease ControlType = "camera_release"
)

// Control is a camera instruction pushed to the browser.
type Control struct {
	Type ControlType `json:"type"`
}

type EventEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type FieldsRequest struct {
	Name         []string `json:"name" validate:"omitempty,dive,required,max=100"`
	DateOfBirth  string   `json:"date_of_birth" validate:"omitempty,max=32"`
	Gender       string   `json:"gender" validate:"omitempty,oneof=Male Female Other Unknown"`
	MobileNumber string   `json:"mobile_number" validate:"omitempty,max=32"`
	IDNumber     string   `json:"id_number" validate:"omitempty,max=64"`
	Address      string   `json:"address" validate:"omitempty,max=500"`
}

func (r FieldsRequest) ToEntity() entity.ExtractedFields {
	return entity.ExtractedFields{
		Name:         r.Name,
		DateOfBirth:  r.DateOfBirth,
		Gender:       entity.Gender(r.Gender),
		MobileNumber: r.MobileNumber,
		IDNumber:     r.IDNumber,
		Address:      r.Address,
	}
}

type DocumentAcceptedResponse struct {
	Status  string                 `json:"status"`
	Purpose entity.DocumentPurpose `json:"purpose"`
}

type SessionResponse struct {
	Session     entity.VerificationSession `json:"session"`
	DocumentURL string                     `json:"document_url,omitempty"`
	Live        bool                       `json:"live"`
}

type TransitionsResponse struct {
	Transitions []entity.Transition `json:"transitions"`
}
