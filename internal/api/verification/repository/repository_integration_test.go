//go:build integration

package verificationRepository

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type RepositorySuite struct {
	suite.Suite

	container *tcpostgres.PostgresContainer
	db        *sqlx.DB
	repo      Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("kyc"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "..", "database", "migrations", "000001_create_kyc_applications.up.sql")),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = sqlx.Connect("postgres", dsn)
	s.Require().NoError(err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	s.repo = New(s.db, log)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE kyc_applications")
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestCreateAndApprove() {
	ctx := context.Background()
	client, err := s.repo.NewClient(false)
	s.Require().NoError(err)

	_, err = client.Applications.GetLatestByUserID(ctx, "user-1")
	s.ErrorIs(err, verification.ErrApplicationNotFound)

	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(client.Applications.CreateApplication(ctx, entity.KYCApplication{
		ID:           "01JNQ0000000000000000000A1",
		UserID:       "user-1",
		SessionID:    "01JNQ0000000000000000000S1",
		Status:       entity.ApplicationPending,
		PersonalInfo: []byte(`{"name":["Asha","Verma"]}`),
		SubmittedAt:  submitted,
	}))

	app, err := client.Applications.GetLatestByUserID(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(entity.ApplicationPending, app.Status)
	s.Nil(app.Similarity)
	s.Nil(app.ReviewedAt)
	s.JSONEq(`[]`, string(app.AuditTrail))
	s.JSONEq(`{"name":["Asha","Verma"]}`, string(app.PersonalInfo))

	similarity := 0.93
	reviewed := submitted.Add(time.Hour)
	app.Status = entity.ApplicationApproved
	app.Similarity = &similarity
	app.ReviewedAt = &reviewed
	app.ReviewedBy = "system"
	app.AuditTrail = []byte(`[{"action":"Face verification completed","performed_by":"system","timestamp":"2026-03-01T10:00:00Z"}]`)
	s.Require().NoError(client.Applications.ApproveApplication(ctx, app))

	got, err := client.Applications.GetLatestByUserID(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(entity.ApplicationApproved, got.Status)
	s.Require().NotNil(got.Similarity)
	s.InDelta(0.93, *got.Similarity, 1e-9)
	s.Require().NotNil(got.ReviewedAt)
	s.True(reviewed.Equal(*got.ReviewedAt))
	s.Equal("system", got.ReviewedBy)
}

func (s *RepositorySuite) TestApproveUnknownApplication() {
	client, err := s.repo.NewClient(false)
	s.Require().NoError(err)

	err = client.Applications.ApproveApplication(context.Background(), entity.KYCApplication{ID: "missing", Status: entity.ApplicationApproved})
	s.ErrorIs(err, verification.ErrApplicationNotFound)
}

func (s *RepositorySuite) TestRollback() {
	ctx := context.Background()
	client, err := s.repo.NewClient(true)
	s.Require().NoError(err)

	s.Require().NoError(client.Applications.CreateApplication(ctx, entity.KYCApplication{
		ID:          "01JNQ0000000000000000000A2",
		UserID:      "user-2",
		SessionID:   "01JNQ0000000000000000000S2",
		Status:      entity.ApplicationApproved,
		SubmittedAt: time.Now(),
	}))
	s.Require().NoError(client.Rollback())

	reader, err := s.repo.NewClient(false)
	s.Require().NoError(err)
	_, err = reader.Applications.GetLatestByUserID(ctx, "user-2")
	s.ErrorIs(err, verification.ErrApplicationNotFound)
}
