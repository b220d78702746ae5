package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// FallbackExtractor asks Primary first and Fallback when Primary fails.
// An expired credential or an unreadable image is not retried.
type FallbackExtractor struct {
	Primary  DocumentExtractor
	Fallback DocumentExtractor
	Log      *logrus.Logger
}

func (e FallbackExtractor) ExtractDocument(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, cred entity.Credential) (entity.RawDocument, error) {
	if e.Primary == nil {
		if e.Fallback == nil {
			return entity.RawDocument{}, verification.ErrServiceUnavailable
		}
		return e.Fallback.ExtractDocument(ctx, image, purpose, cred)
	}

	raw, err := e.Primary.ExtractDocument(ctx, image, purpose, cred)
	if err == nil || e.Fallback == nil {
		return raw, err
	}
	if errors.Is(err, verification.ErrAuthExpired) || errors.Is(err, verification.ErrInvalidFormat) || ctx.Err() != nil {
		return raw, err
	}

	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{
			"purpose": purpose,
			"error":   err.Error(),
		}).Warn("[FallbackExtractor.ExtractDocument] primary extractor failed, falling back")
	}
	return e.Fallback.ExtractDocument(ctx, image, purpose, cred)
}
