package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	retrieved := FromContext(ctx)
	assert.Equal(t, logger, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	retrieved := FromContext(context.Background())

	assert.NotNil(t, retrieved)
	assert.NotPanics(t, func() {
		retrieved.Info("should not panic")
	})
}

func TestWithRequestID(t *testing.T) {
	logger := zap.NewNop()
	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.NotNil(t, enriched)
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestWithSchoolID(t *testing.T) {
	logger := zap.NewNop()
	ctx, enriched := WithSchoolID(context.Background(), logger, "school-abc")

	assert.NotNil(t, enriched)
	assert.Equal(t, "school-abc", GetSchoolID(ctx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestGetSchoolID_NotFound(t *testing.T) {
	assert.Equal(t, "", GetSchoolID(context.Background()))
}

func TestContextChaining(t *testing.T) {
	logger := zap.NewNop()
	ctx, logger := WithRequestID(context.Background(), logger, "req-1")
	ctx, _ = WithSchoolID(ctx, logger, "school-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "school-1", GetSchoolID(ctx))
}
