package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
	assert.Equal(t, "ERROR", ERROR.String())
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf, EnableColor: false})

	logger.Info("hidden")
	logger.Warnf("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.False(t, logger.IsLevelEnabled(DEBUG))

	logger.SetLevel(DEBUG)
	assert.True(t, logger.IsLevelEnabled(DEBUG))
}

func TestWithPrefixJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Output: &buf, Prefix: "no-homers", Format: "json"})

	picks := logger.WithPrefix("PickService")
	assert.Equal(t, "no-homers:PickService", picks.Prefix())

	picks.With("picker", "GRIFF").Infof("saved %d picks", 3)

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "saved 3 picks", entry["msg"])
	assert.Equal(t, "no-homers.PickService", entry["logger"])
	assert.Equal(t, "GRIFF", entry["picker"])
	assert.Equal(t, "INFO", entry["level"])
}
