package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func restoreDefaults(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewWritesStructuredJSON(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	logger := New(&buf, Options{Service: "scrapboard", Env: "test"})
	logger.Info("spot fetched", "source", "live")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	require.Equal(t, "spot fetched", entry["message"])
	require.Equal(t, "INFO", entry["severity"])
	require.Equal(t, "scrapboard", entry["service"])
	require.Equal(t, "test", entry["env"])
	require.Equal(t, "live", entry["source"])
	require.Contains(t, entry, "timestamp")
}

func TestNewBridgesStandardLogger(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	New(&buf, Options{Service: "scrapboard"})
	log.Printf("warning: %s", "legacy")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "warning: legacy", lines[0]["message"])
	require.Equal(t, "scrapboard", lines[0]["service"])
	require.NotContains(t, lines[0], "env")
}

func TestNewHonoursLevel(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	logger := New(&buf, Options{Service: "scrapboard", Level: "warn"})
	logger.Info("dropped")
	logger.Debug("dropped")
	logger.Warn("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["message"])
	require.Equal(t, "WARN", lines[0]["severity"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSetupWritesRotatedFile(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "scrapboard.log")

	logger := Setup(Options{Service: "scrapboard", File: path})
	logger.Error("feed down")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"feed down"`)
	require.Contains(t, string(data), `"severity":"ERROR"`)
}
