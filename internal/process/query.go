package process

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPIDList is returned when a comma-separated query holds something
// other than process identifiers.
var ErrInvalidPIDList = errors.New("please enter valid PIDs separated by commas")

// Query is a parsed search-box value.
//
// A query containing a comma is a list of PIDs and matches only those
// identifiers. Any other query matches records whose name contains it,
// case-insensitively, or whose PID equals it when it is a number.
type Query struct {
	raw  string
	text string
	pid  int32 // exact PID for single-term queries, -1 when not numeric
	pids map[int32]bool
}

// ParseQuery parses s. An invalid PID list yields ErrInvalidPIDList and a
// zero Query.
func ParseQuery(s string) (Query, error) {
	raw := strings.TrimSpace(s)
	q := Query{raw: raw, text: lower(raw), pid: -1}

	if strings.Contains(raw, ",") {
		q.pids = make(map[int32]bool)
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			pid, ok := parsePID(part)
			if !ok {
				return Query{}, fmt.Errorf("%w: %q", ErrInvalidPIDList, part)
			}
			q.pids[pid] = true
		}
		return q, nil
	}

	if pid, ok := parsePID(raw); ok {
		q.pid = pid
	}
	return q, nil
}

func parsePID(s string) (int32, bool) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// IsEmpty reports whether the query matches everything.
func (q Query) IsEmpty() bool {
	return q.raw == ""
}

// IsPIDList reports whether the query is in identifier-set mode.
func (q Query) IsPIDList() bool {
	return q.pids != nil
}

func (q Query) String() string {
	return q.raw
}

// Match reports whether r satisfies the query.
func (q Query) Match(r Record) bool {
	if q.IsEmpty() {
		return true
	}
	if q.pids != nil {
		return q.pids[r.PID]
	}
	if strings.Contains(lower(r.Name), q.text) {
		return true
	}
	return q.pid >= 0 && q.pid == r.PID
}

// Filter returns the records matching q, in their original order.
func Filter(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
