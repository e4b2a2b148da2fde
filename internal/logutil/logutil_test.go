package logutil

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() { Setup(io.Discard, false, FormatText) })
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestComponentLoggerJSON(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Setup(&buf, false, FormatJSON)

	NewLogger("provider").WithFields("seq", 3).Info("snapshot taken", "processes", 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "provider", entry["component"])
	assert.Equal(t, "snapshot taken", entry["msg"])
	assert.EqualValues(t, 3, entry["seq"])
	assert.EqualValues(t, 12, entry["processes"])
}

func TestDebugLevel(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer

	Setup(&buf, false, FormatText)
	NewLogger("x").Debug("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebugEnabled())

	Setup(&buf, true, FormatText)
	NewLogger("x").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.True(t, IsDebugEnabled())
}

func TestLoggerCreatedBeforeSetupFollowsIt(t *testing.T) {
	resetLogger(t)
	l := NewLogger("early")

	var buf bytes.Buffer
	Setup(&buf, false, FormatText)
	l.Warn("late config")

	assert.Contains(t, buf.String(), "component=early")
}

func TestOpenFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskman.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}
