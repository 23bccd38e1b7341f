package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNew_TeesExtraCores(t *testing.T) {
	log, logs := newObservedLogger()
	l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, log.Core())
	require.NoError(t, err)

	l.Info("fan out")
	assert.Equal(t, 1, logs.Len())
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewNop()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestContextLogger_EnrichesFields(t *testing.T) {
	log, logs := newObservedLogger()
	ctx := WithUserID(WithRequestID(WithContext(context.Background(), log), "req-1"), "user-1")

	L(ctx).Warn("cart add failed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Empty(t, GetTraceID(ctx))
}
