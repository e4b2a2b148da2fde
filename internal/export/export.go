// Package export turns process records into the text the table shows,
// the clipboard receives, and CSV files contain.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"taskman/internal/process"
)

// Columns are the visible column labels, in display order. Exported files
// use them verbatim as the header row.
var Columns = []string{
	"PID (Processes ID)",
	"Name",
	"Status",
	"CPU (%)",
	"Memory (MB)",
	"Description",
}

// Row returns the visible values of r, matching Columns.
func Row(r process.Record) []string {
	return []string{
		strconv.FormatInt(int64(r.PID), 10),
		r.Name,
		string(r.Status),
		fmt.Sprintf("%.1f", r.CPU),
		fmt.Sprintf("%.2f MB", r.MemoryMB),
		r.Description(),
	}
}

// Rows maps Row over records.
func Rows(records []process.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, Row(r))
	}
	return out
}

// ClipboardText joins each row's values with ", " and rows with newlines.
func ClipboardText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ", "))
	}
	return strings.Join(lines, "\n")
}

// WriteCSV writes the header followed by rows.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV into its header and rows.
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("reading csv: missing header")
	}
	return all[0], all[1:], nil
}

// NormalizePath resolves a user-entered destination: a leading ~ expands to
// the home directory, relative paths are placed in dir, and ".csv" is
// appended when the name has no extension.
func NormalizePath(input, dir string) (string, error) {
	path := strings.TrimSpace(input)
	if path == "" {
		return "", fmt.Errorf("no file name given")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	if filepath.Ext(path) == "" {
		path += ".csv"
	}
	return path, nil
}

// ToFile writes rows as CSV to path. The file is written to a temporary
// sibling first and renamed into place, so a failed export never leaves a
// truncated file behind.
func ToFile(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".taskman-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming export: %w", err)
	}
	return nil
}
