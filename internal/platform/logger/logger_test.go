package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "debug", "prod", "quiet"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l)
	}

	_, err := New("verbose")
	assert.Error(t, err)
}

func TestRedaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("provider ready",
		"provider", "anthropic",
		"api_key", "sk-live-123",
		"headers", map[string]interface{}{"Authorization": "Bearer x", "accept": "json"},
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "anthropic", fields["provider"])
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	headers := fields["headers"].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", headers["Authorization"])
	assert.Equal(t, "json", headers["accept"])
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("plan_id", "p1", "secret", "s")

	l.Warn("skipped")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "p1", fields["plan_id"])
	assert.Equal(t, "[REDACTED]", fields["secret"])
}

func TestOddKeyValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, out)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing", "k", "v")
	l.Sync()
}
