// Package process discovers operating-system processes, keeps the most recent
// snapshot of them, and sends termination signals.
//
// The package is split the same way the UI consumes it:
//
//   - provider.go: Provider interface and the gopsutil-backed SystemProvider
//   - cache.go: Cache, the replace-only store the UI reads from
//   - query.go and sort.go: filtering and ordering of cached records
//   - dispatch.go: Controller interface and batch terminate/kill
//   - icon.go: glyph resolution for executables
//   - events.go: Reporter, the structured replacement for console output
package process

import (
	"strings"
	"time"

	gops "github.com/shirou/gopsutil/v4/process"
)

// UnknownName is used when the OS does not report a process name.
const UnknownName = "N/A"

// Status is the scheduler state reported for a process.
type Status string

const (
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
	StatusSleeping Status = "sleeping"
	StatusIdle     Status = "idle"
	StatusWaiting  Status = "waiting"
	StatusLocked   Status = "locked"
	StatusZombie   Status = "zombie"
	StatusUnknown  Status = "unknown"
)

// statusFromOS maps gopsutil status letters to a Status.
func statusFromOS(states []string) Status {
	if len(states) == 0 {
		return StatusUnknown
	}
	switch states[0] {
	case gops.Running:
		return StatusRunning
	case gops.Stop:
		return StatusStopped
	case gops.Sleep:
		return StatusSleeping
	case gops.Idle:
		return StatusIdle
	case gops.Wait, gops.Blocked:
		return StatusWaiting
	case gops.Lock:
		return StatusLocked
	case gops.Zombie:
		return StatusZombie
	}
	return StatusUnknown
}

// Record is a point-in-time sample of one process. Records are never updated
// in place; the next snapshot produces new ones.
type Record struct {
	PID      int32
	Name     string
	Status   Status
	CPU      float64 // percent
	MemoryMB float64 // resident set size
	Exe      string
	Icon     *Icon
}

// Description is what the table shows in its description column.
func (r Record) Description() string {
	return r.Exe
}

// Snapshot is one complete enumeration of processes.
type Snapshot struct {
	Records []Record
	Taken   time.Time
	Seq     uint64

	// icons keeps the glyphs referenced by Records alive exactly as long as
	// the snapshot itself.
	icons map[string]*Icon
}

// NewSnapshot builds a snapshot from records produced elsewhere (tests, the
// list command's filters). Duplicate PIDs keep their first occurrence.
func NewSnapshot(records []Record, taken time.Time) *Snapshot {
	s := &Snapshot{Taken: taken, icons: make(map[string]*Icon)}
	seen := make(map[int32]bool, len(records))
	for _, r := range records {
		if seen[r.PID] {
			continue
		}
		seen[r.PID] = true
		if r.Icon != nil && r.Exe != "" {
			s.icons[r.Exe] = r.Icon
		}
		s.Records = append(s.Records, r)
	}
	return s
}

// IconCount returns how many distinct icons this snapshot owns.
func (s *Snapshot) IconCount() int {
	return len(s.icons)
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

func lower(s string) string {
	return strings.ToLower(s)
}
