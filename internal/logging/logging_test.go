package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/reposcribe/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.Setup("PROD", "debug", &buf)
		log.Debug().Str("component", "test").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "hello", line["message"])
		require.Equal(t, "test", line["component"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logging.Setup("PROD", "warn", &buf)
		log.Info().Msg("dropped")
		require.Empty(t, buf.String())
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.Setup("PROD", "loud", &buf)
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console in DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.Setup("DEV", "info", &buf)
		log.Info().Msg("readable")
		require.Contains(t, buf.String(), "readable")
		require.NotContains(t, buf.String(), `"message"`)
	})
}
