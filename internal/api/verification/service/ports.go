package verificationService

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"ProjectKYC/internal/entity"
	"context"
)

// FaceDetector reports whether a face is visible in a frame.
type FaceDetector interface {
	DetectPresence(ctx context.Context, frame entity.Frame, cred entity.Credential) (entity.PresenceResult, error)
}

// LivenessClassifier accumulates frames per probe id and answers with a
// verdict for every submitted frame.
type LivenessClassifier interface {
	SubmitLivenessFrame(ctx context.Context, frame entity.Frame, probeID string, cred entity.Credential) (entity.LivenessVerdict, error)
}

type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, cred entity.Credential) (entity.RawDocument, error)
}

type FaceMatcher interface {
	MatchFaces(ctx context.Context, selfie entity.Frame, document entity.DocumentImage, cred entity.Credential) (entity.MatchResult, error)
}

// ApplicationSink stores the outcome of a verified session.
type ApplicationSink interface {
	SaveVerification(ctx context.Context, record entity.VerificationRecord) error
}

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, session entity.VerificationSession) error
	GetSnapshot(ctx context.Context, userID string) (entity.VerificationSession, error)
}

// DocumentArchive keeps the uploaded document image and returns its storage key.
type DocumentArchive interface {
	StoreDocument(ctx context.Context, userID, sessionID string, image entity.DocumentImage) (string, error)
	DocumentURL(key string) (string, error)
}
