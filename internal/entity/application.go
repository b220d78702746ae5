package entity

import (
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
)

type AuditEntry struct {
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
	Details     string    `json:"details,omitempty"`
}

type KYCApplication struct {
	ID           string            `db:"id"`
	UserID       string            `db:"user_id"`
	SessionID    string            `db:"session_id"`
	Status       ApplicationStatus `db:"status"`
	PersonalInfo json.RawMessage   `db:"personal_info"`
	Similarity   *float64          `db:"similarity"`
	DocumentKey  string            `db:"document_key"`
	SubmittedAt  time.Time         `db:"submitted_at"`
	ReviewedAt   *time.Time        `db:"reviewed_at"`
	ReviewedBy   string            `db:"reviewed_by"`
	AuditTrail   json.RawMessage   `db:"audit_trail"`
}

// VerificationRecord is what the orchestrator hands to persistence once a
// session reaches the verified state.
type VerificationRecord struct {
	SessionID   string
	UserID      string
	Fields      ExtractedFields
	Similarity  *float64
	DocumentKey string
	VerifiedAt  time.Time
}
