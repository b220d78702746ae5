package log

import (
	contextPkg "ProjectKYC/pkg/context"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, levelFromEnv(""))
	assert.Equal(t, logrus.WarnLevel, levelFromEnv("warn"))
	assert.Equal(t, logrus.DebugLevel, levelFromEnv("loud"))
}

func TestErrorWithTraceID(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	assert.Equal(t, "req-1", ErrorWithTraceID(Fields{RequestIDKey: "req-1"}, "boom"))

	traceID := ErrorWithTraceID(Fields{RequestIDKey: "unknown"}, "boom")
	assert.NotEqual(t, "unknown", traceID)
	assert.Len(t, traceID, 36)
}

func TestWithRequestID(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	ctx := contextPkg.WithRequestID(context.Background(), "req-2")
	assert.Equal(t, "req-2", WithRequestID(ctx).Data[RequestIDKey])
	assert.Equal(t, "unknown", WithRequestID(context.Background()).Data[RequestIDKey])
}
