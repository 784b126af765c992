package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	Logger{Level: "warn", Format: "json"}.SetupWriter(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	log.Info().Msg("hidden")
	log.Warn().Str("layer", "roads").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "roads", entry["layer"])
	assert.Equal(t, "shown", entry["message"])
}

func TestSetupUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	Logger{Level: "loud", Format: "console", NoColor: true}.SetupWriter(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "Unknown log level")
}
