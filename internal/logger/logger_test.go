package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("info", "production", &buf)
	log.Info("score saved", zap.Int("score", 120))
	require.NoError(t, log.Sync())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "score saved", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.EqualValues(t, 120, line["score"])
}

func TestInfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("info", "development", &buf)
	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("debug", "development", &buf)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
