package export

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/process"
)

func testRecords() []process.Record {
	return []process.Record{
		{PID: 42, Name: "postgres", Status: process.StatusSleeping, CPU: 1.26, MemoryMB: 128.5, Exe: "/usr/bin/postgres"},
		{PID: 7, Name: "my, app", Status: process.StatusRunning, CPU: 0, MemoryMB: 3, Exe: ""},
	}
}

func TestRow(t *testing.T) {
	row := Row(testRecords()[0])
	assert.Equal(t, []string{"42", "postgres", "sleeping", "1.3", "128.50 MB", "/usr/bin/postgres"}, row)
	assert.Len(t, row, len(Columns))
}

func TestClipboardText(t *testing.T) {
	got := ClipboardText(Rows(testRecords()))
	want := "42, postgres, sleeping, 1.3, 128.50 MB, /usr/bin/postgres\n" +
		"7, my, app, running, 0.0, 3.00 MB, "
	assert.Equal(t, want, got)
}

func TestClipboardTextEmpty(t *testing.T) {
	assert.Equal(t, "", ClipboardText(nil))
}

func TestCSVRoundTrip(t *testing.T) {
	rows := Rows(testRecords())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	header, got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, Columns, header)
	assert.Equal(t, rows, got, "rows keep their order and values, commas included")
}

func TestReadCSVEmpty(t *testing.T) {
	_, _, err := ReadCSV(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir := t.TempDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"relative gets dir and extension", "procs", filepath.Join(dir, "procs.csv")},
		{"existing extension kept", "procs.txt", filepath.Join(dir, "procs.txt")},
		{"absolute ignores dir", "/tmp/out.csv", "/tmp/out.csv"},
		{"home expansion", "~/out", filepath.Join(home, "out.csv")},
		{"whitespace trimmed", "  a.csv  ", filepath.Join(dir, "a.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePath(tt.input, dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = NormalizePath("   ", dir)
	assert.Error(t, err)
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "processes.csv")
	rows := Rows(testRecords())

	require.NoError(t, ToFile(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	header, got, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, Columns, header)
	assert.Equal(t, rows, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}

func TestToFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer than the export"), 0o644))

	require.NoError(t, ToFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PID (Processes ID),Name,Status,CPU (%),Memory (MB),Description\n", string(data))
}

func TestOSC52ClipboardCopy(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")

	var buf bytes.Buffer
	c := &OSC52Clipboard{Out: &buf}
	require.NoError(t, c.Copy("42, postgres"))

	out := buf.String()
	assert.Contains(t, out, "\x1b]52;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("42, postgres")))
}

func TestOSC52ClipboardTmux(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	t.Setenv("STY", "")

	var buf bytes.Buffer
	require.NoError(t, (&OSC52Clipboard{Out: &buf}).Copy("x"))
	assert.Contains(t, buf.String(), "\x1bPtmux;")
}
