package verificationService

import (
	"ProjectKYC/internal/api/verification"
	verificationRepository "ProjectKYC/internal/api/verification/repository"
	"ProjectKYC/internal/entity"
	"ProjectKYC/pkg/utils"
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const auditActionFaceVerified = "Face verification completed"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// applicationSink approves the user's latest KYC application, or files a
// new approved one, when a session is verified.
type applicationSink struct {
	repo  verificationRepository.Repository
	utils utils.IUtils
	log   *logrus.Logger
}

func NewApplicationSink(repo verificationRepository.Repository, u utils.IUtils, log *logrus.Logger) ApplicationSink {
	return &applicationSink{repo: repo, utils: u, log: log}
}

func (a *applicationSink) SaveVerification(ctx context.Context, record entity.VerificationRecord) (err error) {
	client, err := a.repo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := client.Rollback(); rbErr != nil {
				a.log.WithField("error", rbErr.Error()).Error("[applicationSink.SaveVerification] rollback failed")
			}
		}
	}()

	personalInfo, err := json.Marshal(record.Fields)
	if err != nil {
		return err
	}
	similarity := ""
	if record.Similarity != nil {
		similarity = fmt.Sprintf("similarity %.4f", *record.Similarity)
	}
	entry := entity.AuditEntry{
		Action:      auditActionFaceVerified,
		PerformedBy: "system",
		Timestamp:   record.VerifiedAt,
		Details:     similarity,
	}

	existing, err := client.Applications.GetLatestByUserID(ctx, record.UserID)
	switch {
	case errors.Is(err, verification.ErrApplicationNotFound):
		id, idErr := a.utils.NewULIDFromTimestamp(record.VerifiedAt)
		if idErr != nil {
			return idErr
		}
		trail, mErr := json.Marshal([]entity.AuditEntry{entry})
		if mErr != nil {
			return mErr
		}
		reviewedAt := record.VerifiedAt
		err = client.Applications.CreateApplication(ctx, entity.KYCApplication{
			ID:           id,
			UserID:       record.UserID,
			SessionID:    record.SessionID,
			Status:       entity.ApplicationApproved,
			PersonalInfo: personalInfo,
			Similarity:   record.Similarity,
			DocumentKey:  record.DocumentKey,
			SubmittedAt:  record.VerifiedAt,
			ReviewedAt:   &reviewedAt,
			ReviewedBy:   "system",
			AuditTrail:   trail,
		})
	case err != nil:
		return err
	default:
		var trail []entity.AuditEntry
		if len(existing.AuditTrail) > 0 {
			if uErr := json.Unmarshal(existing.AuditTrail, &trail); uErr != nil {
				a.log.WithFields(logrus.Fields{
					"application_id": existing.ID,
					"error":          uErr.Error(),
				}).Warn("[applicationSink.SaveVerification] unreadable audit trail, starting a new one")
				trail = nil
			}
		}
		trail = append(trail, entry)
		rawTrail, mErr := json.Marshal(trail)
		if mErr != nil {
			return mErr
		}

		reviewedAt := record.VerifiedAt
		existing.Status = entity.ApplicationApproved
		existing.SessionID = record.SessionID
		existing.PersonalInfo = personalInfo
		existing.Similarity = record.Similarity
		if record.DocumentKey != "" {
			existing.DocumentKey = record.DocumentKey
		}
		existing.ReviewedAt = &reviewedAt
		existing.ReviewedBy = "system"
		existing.AuditTrail = rawTrail
		err = client.Applications.ApproveApplication(ctx, existing)
	}
	if err != nil {
		return err
	}

	return client.Commit()
}
