package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in), in)
	}
}

func TestSetLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewJSONLogger(&buf, "debug"))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	HDKey.Info().Str("path", "m/0").Msg("derived")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.Equal(t, "hdkey", event["component"])
	require.Equal(t, "m/0", event["path"])
	require.Equal(t, "derived", event["message"])
}

func TestJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, "warn")
	l.Info().Msg("hidden")
	require.Zero(t, buf.Len())
	l.Warn().Msg("shown")
	require.NotZero(t, buf.Len())
}
