package verificationService

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	PresenceInterval time.Duration

	LivenessInterval             time.Duration
	LivenessTimeout              time.Duration
	LivenessFrameBudget          int
	LivenessMaxConsecutiveErrors int
	LivenessRetryCap             int

	MatchAttemptCap int
	MatchTimeout    time.Duration
	MatchRetryDelay time.Duration

	DocumentMaxBytes int64
	DocumentTimeout  time.Duration

	CameraAcquireTimeout time.Duration
	CameraSource         string

	EventBuffer int
}

const (
	CameraSourceRemote = "remote"
	CameraSourceLocal  = "local"
)

func DefaultConfig() Config {
	return Config{
		PresenceInterval:             200 * time.Millisecond,
		LivenessInterval:             500 * time.Millisecond,
		LivenessTimeout:              30 * time.Second,
		LivenessFrameBudget:          40,
		LivenessMaxConsecutiveErrors: 3,
		LivenessRetryCap:             3,
		MatchAttemptCap:              3,
		MatchTimeout:                 20 * time.Second,
		MatchRetryDelay:              time.Second,
		DocumentMaxBytes:             5 * 1024 * 1024,
		DocumentTimeout:              60 * time.Second,
		CameraAcquireTimeout:         10 * time.Second,
		CameraSource:                 CameraSourceRemote,
		EventBuffer:                  64,
	}
}

// ConfigFromEnv overlays DefaultConfig with any values present in the
// environment. Malformed values keep the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.PresenceInterval = envDuration("PRESENCE_INTERVAL", cfg.PresenceInterval)
	cfg.LivenessInterval = envDuration("LIVENESS_INTERVAL", cfg.LivenessInterval)
	cfg.LivenessTimeout = envDuration("LIVENESS_TIMEOUT", cfg.LivenessTimeout)
	cfg.LivenessFrameBudget = envInt("LIVENESS_FRAME_BUDGET", cfg.LivenessFrameBudget)
	cfg.LivenessMaxConsecutiveErrors = envInt("LIVENESS_MAX_CONSECUTIVE_ERRORS", cfg.LivenessMaxConsecutiveErrors)
	cfg.LivenessRetryCap = envInt("LIVENESS_RETRY_CAP", cfg.LivenessRetryCap)
	cfg.MatchAttemptCap = envInt("MATCH_ATTEMPT_CAP", cfg.MatchAttemptCap)
	cfg.MatchTimeout = envDuration("MATCH_TIMEOUT", cfg.MatchTimeout)
	cfg.MatchRetryDelay = envDuration("MATCH_RETRY_DELAY", cfg.MatchRetryDelay)
	cfg.DocumentMaxBytes = int64(envInt("DOCUMENT_MAX_BYTES", int(cfg.DocumentMaxBytes)))
	cfg.DocumentTimeout = envDuration("DOCUMENT_TIMEOUT", cfg.DocumentTimeout)
	cfg.CameraAcquireTimeout = envDuration("CAMERA_ACQUIRE_TIMEOUT", cfg.CameraAcquireTimeout)

	if source := os.Getenv("CAMERA_SOURCE"); source == CameraSourceLocal || source == CameraSourceRemote {
		cfg.CameraSource = source
	}

	return cfg
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
