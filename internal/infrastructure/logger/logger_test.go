package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestNewWithOutput_JSON emits structured JSON with the service field.
func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json", ServiceName: "booking-engine"}, &buf)

	log.Info().Str("origin", "CGK").Msg("Search started")

	entry := logLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booking-engine", entry["service"])
	assert.Equal(t, "CGK", entry["origin"])
	assert.Equal(t, "Search started", entry["message"])
	assert.Contains(t, entry, "time")
}

// TestNewWithOutput_LevelFiltering suppresses entries below the threshold.
func TestNewWithOutput_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

// TestNewWithOutput_InvalidLevelDefaultsToInfo falls back instead of failing.
func TestNewWithOutput_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "verbose", Format: "json"}, &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}

// TestWithContextHelpers verifies the derived-context constructors.
func TestWithContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(Config{Level: "info", Format: "json"}, &buf)

	log.WithRequestID("req-1").
		WithSession("sess-1").
		WithBookingRef("BKG-AB12CD34").
		Info().Msg("step completed")

	entry := logLine(t, &buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "BKG-AB12CD34", entry["booking_ref"])
}

// TestNop produces no output at any level.
func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("dropped")
}
