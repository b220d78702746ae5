package verificationRepository

const (
	queryCreateApplication = `
		INSERT INTO kyc_applications (
			id, user_id, session_id, status, personal_info, similarity,
			document_key, submitted_at, reviewed_at, reviewed_by, audit_trail
		) VALUES (
			:id, :user_id, :session_id, :status, :personal_info, :similarity,
			:document_key, :submitted_at, :reviewed_at, :reviewed_by, :audit_trail
		)
	`

	queryGetLatestByUserID = `
		SELECT id, user_id, session_id, status, personal_info, similarity,
			document_key, submitted_at, reviewed_at, reviewed_by, audit_trail
		FROM kyc_applications
		WHERE user_id = :user_id
		ORDER BY submitted_at DESC
		LIMIT 1
	`

	queryApproveApplication = `
		UPDATE kyc_applications
		SET status = :status,
			session_id = :session_id,
			personal_info = :personal_info,
			similarity = :similarity,
			document_key = :document_key,
			reviewed_at = :reviewed_at,
			reviewed_by = :reviewed_by,
			audit_trail = :audit_trail
		WHERE id = :id
	`
)
