package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewWithCore(core)

	log.Info("request", "authorization", "Bearer abc", "path", "/contacts/", "JWT_SECRET", "s3cret")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, redacted, fields["authorization"])
		assert.Equal(t, redacted, fields["JWT_SECRET"])
		assert.Equal(t, "/contacts/", fields["path"])
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewWithCore(core).With("request_id", "r-1", "token", "t")

	log.Debug("hidden")
	log.Warn("shown")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "shown", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "r-1", fields["request_id"])
		assert.Equal(t, redacted, fields["token"])
	}
}
