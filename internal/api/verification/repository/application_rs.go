package verificationRepository

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	contextPkg "ProjectKYC/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ApplicationDB struct {
	ID           sql.NullString  `db:"id"`
	UserID       sql.NullString  `db:"user_id"`
	SessionID    sql.NullString  `db:"session_id"`
	Status       sql.NullString  `db:"status"`
	PersonalInfo []byte          `db:"personal_info"`
	Similarity   sql.NullFloat64 `db:"similarity"`
	DocumentKey  sql.NullString  `db:"document_key"`
	SubmittedAt  sql.NullTime    `db:"submitted_at"`
	ReviewedAt   sql.NullTime    `db:"reviewed_at"`
	ReviewedBy   sql.NullString  `db:"reviewed_by"`
	AuditTrail   []byte          `db:"audit_trail"`
}

func (r *applicationRepository) CreateApplication(c context.Context, app entity.KYCApplication) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryCreateApplication, r.argsOf(app))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateApplication")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    app.UserID,
			"error":      err.Error(),
		}).Error("Database error when creating kyc application")
		return err
	}

	return nil
}

func (r *applicationRepository) GetLatestByUserID(c context.Context, userID string) (entity.KYCApplication, error) {
	requestID := contextPkg.GetRequestID(c)
	var row ApplicationDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetLatestByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestByUserID named query preparation err")
		return entity.KYCApplication{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.KYCApplication{}, verification.ErrApplicationNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestByUserID execution err")
		return entity.KYCApplication{}, err
	}

	return r.makeApplication(row), nil
}

func (r *applicationRepository) ApproveApplication(c context.Context, app entity.KYCApplication) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryApproveApplication, r.argsOf(app))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ApproveApplication named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         app.ID,
			"error":      err.Error(),
		}).Error("ApproveApplication execution err")
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return verification.ErrApplicationNotFound
	}

	return nil
}

func (r *applicationRepository) argsOf(app entity.KYCApplication) map[string]interface{} {
	var similarity sql.NullFloat64
	if app.Similarity != nil {
		similarity = sql.NullFloat64{Float64: *app.Similarity, Valid: true}
	}
	var reviewedAt sql.NullTime
	if app.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *app.ReviewedAt, Valid: true}
	}

	// jsonb columns take text; pq would send []byte as bytea.
	personalInfo := string(app.PersonalInfo)
	if personalInfo == "" {
		personalInfo = "{}"
	}
	auditTrail := string(app.AuditTrail)
	if auditTrail == "" {
		auditTrail = "[]"
	}

	return map[string]interface{}{
		"id":            app.ID,
		"user_id":       app.UserID,
		"session_id":    app.SessionID,
		"status":        string(app.Status),
		"personal_info": personalInfo,
		"similarity":    similarity,
		"document_key":  app.DocumentKey,
		"submitted_at":  app.SubmittedAt,
		"reviewed_at":   reviewedAt,
		"reviewed_by":   app.ReviewedBy,
		"audit_trail":   auditTrail,
	}
}

func (r *applicationRepository) makeApplication(row ApplicationDB) entity.KYCApplication {
	app := entity.KYCApplication{
		ID:           row.ID.String,
		UserID:       row.UserID.String,
		SessionID:    row.SessionID.String,
		Status:       entity.ApplicationStatus(row.Status.String),
		PersonalInfo: append([]byte(nil), row.PersonalInfo...),
		DocumentKey:  row.DocumentKey.String,
		SubmittedAt:  row.SubmittedAt.Time,
		ReviewedBy:   row.ReviewedBy.String,
		AuditTrail:   append([]byte(nil), row.AuditTrail...),
	}
	if row.Similarity.Valid {
		v := row.Similarity.Float64
		app.Similarity = &v
	}
	if row.ReviewedAt.Valid {
		t := row.ReviewedAt.Time
		app.ReviewedAt = &t
	}
	return app
}
