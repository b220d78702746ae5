package verificationRepository

import (
	"ProjectKYC/internal/entity"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Applications: &applicationRepository{q: db, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Applications interface {
		CreateApplication(ctx context.Context, app entity.KYCApplication) error
		GetLatestByUserID(ctx context.Context, userID string) (entity.KYCApplication, error)
		ApproveApplication(ctx context.Context, app entity.KYCApplication) error
	}

	Commit   func() error
	Rollback func() error
}

type applicationRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
