package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// truncate truncates a string to maxLen cells, padding with spaces if shorter
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return runewidth.FillRight(s, maxLen)
	}
	return runewidth.Truncate(s, maxLen, "…")
}

// clip shortens s to maxLen cells with a trailing ellipsis, without padding
func clip(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "…")
}

// plural returns "1 process" / "3 processes"
func plural(n int, singular, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, many)
}
