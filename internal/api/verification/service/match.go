package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// LivenessProof can only be minted from a confirmed liveness outcome, so a
// face match cannot be requested without one.
type LivenessProof struct {
	sessionID       string
	framesCollected int
}

// newLivenessProof returns the zero proof, which Verify rejects, unless the
// outcome is confirmed.
func newLivenessProof(sessionID string, outcome entity.LivenessOutcome) LivenessProof {
	if !outcome.Confirmed {
		return LivenessProof{}
	}
	return LivenessProof{sessionID: sessionID, framesCollected: outcome.FramesCollected}
}

func (p LivenessProof) valid() bool { return p.sessionID != "" }

type MatchVerifier struct {
	matcher    FaceMatcher
	timeout    time.Duration
	retryDelay time.Duration
	log        *logrus.Logger
}

func NewMatchVerifier(matcher FaceMatcher, timeout, retryDelay time.Duration, log *logrus.Logger) *MatchVerifier {
	return &MatchVerifier{matcher: matcher, timeout: timeout, retryDelay: retryDelay, log: log}
}

// Verify compares the selfie against the document photo. Transient service
// failures are retried until the verifier timeout; an expired credential
// is returned immediately.
func (m *MatchVerifier) Verify(ctx context.Context, proof LivenessProof, selfie entity.Frame, document entity.DocumentImage, cred entity.Credential) entity.MatchOutcome {
	if !proof.valid() {
		m.log.Error("[MatchVerifier.Verify] called without a liveness proof")
		return entity.MatchOutcome{Reason: entity.MatchReasonServiceError}
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		result, err := m.matcher.MatchFaces(ctx, selfie, document, cred)
		switch {
		case err == nil:
			score := clampScore(result.Similarity)
			if result.Verified {
				return entity.MatchOutcome{Verified: true, SimilarityScore: score}
			}
			return entity.MatchOutcome{SimilarityScore: score, Reason: entity.MatchReasonNoMatch}
		case errors.Is(err, verification.ErrAuthExpired):
			return entity.MatchOutcome{Reason: entity.MatchReasonAuthExpired}
		case errors.Is(err, verification.ErrNoMatch):
			return entity.MatchOutcome{Reason: entity.MatchReasonNoMatch}
		}

		m.log.WithFields(logrus.Fields{
			"session_id": proof.sessionID,
			"attempt":    attempt,
			"error":      err.Error(),
		}).Warn("[MatchVerifier.Verify] face match request failed")

		if ctx.Err() != nil {
			return entity.MatchOutcome{Reason: entity.MatchReasonServiceError}
		}

		t := time.NewTimer(m.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return entity.MatchOutcome{Reason: entity.MatchReasonServiceError}
		case <-t.C:
		}
	}
}

func clampScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
