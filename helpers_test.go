package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short     "},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"日本語テキスト", 6, "日本…"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.input, tt.maxLen), tt.input)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "/usr/lib/…", clip("/usr/lib/systemd/systemd", 10))
	assert.Equal(t, "", clip("x", 0))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 row", plural(1, "row", "rows"))
	assert.Equal(t, "0 rows", plural(0, "row", "rows"))
	assert.Equal(t, "4 rows", plural(4, "row", "rows"))
}
