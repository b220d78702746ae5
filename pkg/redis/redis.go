package redis

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	snapshotKeyPrefix  = "verification:session:"
	defaultSnapshotTTL = 24 * time.Hour
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IRedis interface {
	SaveSnapshot(ctx context.Context, session entity.VerificationSession) error
	GetSnapshot(ctx context.Context, userID string) (entity.VerificationSession, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	ttl := defaultSnapshotTTL
	if raw := os.Getenv("SNAPSHOT_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	return NewFromClient(client, ttl)
}

func NewFromClient(client *redis.Client, ttl time.Duration) IRedis {
	return &redisClient{client: client, ttl: ttl}
}

func snapshotKey(userID string) string {
	return snapshotKeyPrefix + userID
}

func (r *redisClient) SaveSnapshot(ctx context.Context, session entity.VerificationSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, snapshotKey(session.UserID), payload, r.ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error saving snapshot for user %s: %v", session.UserID, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Saved snapshot for user %s in state %s", session.UserID, session.State))
	return nil
}

func (r *redisClient) GetSnapshot(ctx context.Context, userID string) (entity.VerificationSession, error) {
	val, err := r.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.VerificationSession{}, verification.ErrSessionNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting snapshot for user %s: %v", userID, err))
		return entity.VerificationSession{}, err
	}

	var session entity.VerificationSession
	if err := json.Unmarshal(val, &session); err != nil {
		return entity.VerificationSession{}, fmt.Errorf("corrupt snapshot for user %s: %w", userID, err)
	}
	return session, nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
