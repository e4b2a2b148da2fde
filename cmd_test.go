package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/config"
	"taskman/internal/process"
)

func TestParsePIDArgs(t *testing.T) {
	got, err := parsePIDArgs([]string{"12", "7"})
	require.NoError(t, err)
	assert.Equal(t, []int32{12, 7}, got)

	for _, bad := range []string{"0", "-4", "abc", "99999999999"} {
		_, err := parsePIDArgs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := &flagValues{}
	bindFlags(fs, f)
	require.NoError(t, fs.Parse([]string{"--sort", "cpu", "--refresh", "3s"}))

	cfg := config.Default()
	cfg.Notify = true
	require.NoError(t, applyFlags(fs, f, &cfg))

	assert.Equal(t, "cpu", cfg.Sort)
	assert.Equal(t, 3*time.Second, cfg.RefreshInterval)
	assert.True(t, cfg.Notify, "unset flags keep the config file value")
}

func TestApplyFlagsValidates(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := &flagValues{}
	bindFlags(fs, f)
	require.NoError(t, fs.Parse([]string{"--sort", "owner"}))

	cfg := config.Default()
	assert.Error(t, applyFlags(fs, f, &cfg))
}

func TestNewReporter(t *testing.T) {
	rec := &eventRecorder{}
	r := newReporter(config.Config{Notify: true}, rec)

	multi, ok := r.(process.MultiReporter)
	require.True(t, ok)
	assert.Len(t, multi, 3)

	r.Report(process.Event{Level: process.LevelInfo, Message: "Killed process"})
	assert.Equal(t, 1, rec.count())
}

func TestRenderTablePlain(t *testing.T) {
	rows := [][]string{{"1", "init", "sleeping", "0.0", "1.00 MB", "/sbin/init"}}
	out := renderTable(rows, false)

	assert.Contains(t, out, "PID (Processes ID)")
	assert.Contains(t, out, "Memory (MB)")
	assert.Contains(t, out, "/sbin/init")
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "taskman dev", strings.TrimSpace(buf.String()))
}

func TestKillCommandRejectsBadPID(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"kill", "--config", "", "notapid"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PID")
}
