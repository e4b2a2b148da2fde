package process

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the column records are ordered by.
type SortKey int

const (
	SortByPID SortKey = iota
	SortByName
	SortByStatus
	SortByCPU
	SortByMemory
	SortByDescription
)

// SortKeys lists every key in column order.
var SortKeys = []SortKey{SortByPID, SortByName, SortByStatus, SortByCPU, SortByMemory, SortByDescription}

var sortKeyNames = map[SortKey]string{
	SortByPID:         "pid",
	SortByName:        "name",
	SortByStatus:      "status",
	SortByCPU:         "cpu",
	SortByMemory:      "memory",
	SortByDescription: "description",
}

func (k SortKey) String() string {
	if n, ok := sortKeyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey accepts the names returned by SortKey.String, case-insensitively.
// "mem" and "path" are accepted as aliases.
func ParseSortKey(s string) (SortKey, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "mem":
		return SortByMemory, nil
	case "path", "exe":
		return SortByDescription, nil
	}
	for k, n := range sortKeyNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sort key %q", s)
}

// Sorter remembers, per key, the direction the next sort will use. Choosing a
// key sorts in its pending direction and flips it, so choosing the same key
// twice reverses the order.
type Sorter struct {
	next      map[SortKey]bool // true = ascending
	active    SortKey
	ascending bool
}

// NewSorter returns a sorter whose every key starts ascending, with name
// ascending as the active order.
func NewSorter() *Sorter {
	s := &Sorter{next: make(map[SortKey]bool, len(SortKeys))}
	for _, k := range SortKeys {
		s.next[k] = true
	}
	s.active = SortByName
	s.ascending = true
	return s
}

// Set makes key the active order with the given direction. The per-key
// directions are left alone, so the first Toggle of the default name order
// still sorts ascending.
func (s *Sorter) Set(key SortKey, ascending bool) {
	s.active = key
	s.ascending = ascending
}

// Toggle sorts records by key in its pending direction and flips it.
func (s *Sorter) Toggle(key SortKey, records []Record) {
	asc, ok := s.next[key]
	if !ok {
		asc = true
	}
	s.Set(key, asc)
	s.next[key] = !asc
	SortRecords(records, key, asc)
}

// Apply re-sorts records by the active key without changing any direction.
func (s *Sorter) Apply(records []Record) {
	SortRecords(records, s.active, s.ascending)
}

// Active returns the current key and direction.
func (s *Sorter) Active() (SortKey, bool) {
	return s.active, s.ascending
}

// SortRecords stable-sorts records in place.
func SortRecords(records []Record, key SortKey, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return less(records[i], records[j], key)
		}
		return less(records[j], records[i], key)
	})
}

func less(a, b Record, key SortKey) bool {
	switch key {
	case SortByPID:
		return a.PID < b.PID
	case SortByStatus:
		return lower(string(a.Status)) < lower(string(b.Status))
	case SortByCPU:
		return a.CPU < b.CPU
	case SortByMemory:
		return a.MemoryMB < b.MemoryMB
	case SortByDescription:
		return lower(a.Description()) < lower(b.Description())
	default:
		return lower(a.Name) < lower(b.Name)
	}
}
