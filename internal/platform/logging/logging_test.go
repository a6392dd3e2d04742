package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "", &buf)

	logger.Info("hidden", "event", "skip")
	logger.Warn("shown", "event", "election_save_conflict", "module", "governance/election-engine")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "election_save_conflict", record["event"])
	assert.Equal(t, "WARN", record["level"])
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New("debug", "TEXT", &buf).Debug("opened", "election_id", "e-1")
	assert.Contains(t, buf.String(), "election_id=e-1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
