package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	retrieved := FromContext(ctx)
	assert.Same(t, logger, retrieved)
}

func TestFromContext_NotSet(t *testing.T) {
	retrieved := FromContext(context.Background())
	require.NotNil(t, retrieved)
	// Must not panic when used
	retrieved.Info("no-op")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("test message")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "req-123", entry.ContextMap()["request_id"])

	// The enriched logger is also attached to the context
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithUserID(context.Background(), logger, "user-42")

	assert.Equal(t, "user-42", GetUserID(ctx))

	enriched.Info("test message")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "user-42", logs.All()[0].ContextMap()["user_id"])
}

func TestGetRequestID_NotSet(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestGetUserID_NotSet(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	baseLogger := zap.New(core)

	ctx := WithContext(context.Background(), baseLogger)
	ctx = context.WithValue(ctx, RequestIDKey, "req-abc")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")

	L(ctx).Info("hello", zap.String("extra", "field"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-abc", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "field", fields["extra"])
}

func TestContextLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := WithLogger(context.Background(), zap.New(core))

	cl.Debug("debug msg")
	cl.Info("info msg")
	cl.Warn("warn msg")
	cl.Error("error msg")

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.InfoLevel, logs.All()[1].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cl := WithLogger(context.Background(), zap.New(core))

	cl.With(zap.String("component", "ledger")).Info("message")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ledger", logs.All()[0].ContextMap()["component"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	// Must not panic
	cl.Info("no-op")
}

func TestContextLogger_Zap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-z")
	cl := WithLogger(ctx, zap.New(core))

	cl.Zap().Info("direct zap")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-z", logs.All()[0].ContextMap()["request_id"])
}
