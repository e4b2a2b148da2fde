package process

import "time"

// Cache holds the latest snapshot's records in display order. It is not safe
// for concurrent use; the UI loop is its only writer.
type Cache struct {
	snap    *Snapshot
	records []Record
	byPID   map[int32]int
	sorter  *Sorter
}

// NewCache returns an empty cache ordered by name.
func NewCache() *Cache {
	return &Cache{sorter: NewSorter(), byPID: map[int32]int{}}
}

// Replace swaps in a new snapshot and re-applies the active order. A snapshot
// older than the cached one (by Seq) is ignored and Replace returns false.
func (c *Cache) Replace(s *Snapshot) bool {
	if s == nil {
		return false
	}
	if c.snap != nil && s.Seq != 0 && s.Seq < c.snap.Seq {
		return false
	}
	c.snap = s
	c.records = make([]Record, len(s.Records))
	copy(c.records, s.Records)
	c.sorter.Apply(c.records)
	c.reindex()
	return true
}

// Sort orders the cached records by key, flipping the key's direction for
// the next call.
func (c *Cache) Sort(key SortKey) {
	c.sorter.Toggle(key, c.records)
	c.reindex()
}

// SetOrder sets the active order without toggling.
func (c *Cache) SetOrder(key SortKey, ascending bool) {
	c.sorter.Set(key, ascending)
	c.sorter.Apply(c.records)
	c.reindex()
}

// Order returns the active sort key and direction.
func (c *Cache) Order() (SortKey, bool) {
	return c.sorter.Active()
}

// Records returns the cached records in display order. Callers must not
// modify the returned slice.
func (c *Cache) Records() []Record {
	return c.records
}

// View returns the records matching q, in display order.
func (c *Cache) View(q Query) []Record {
	return Filter(c.records, q)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return len(c.records)
}

// Lookup finds a record by PID.
func (c *Cache) Lookup(pid int32) (Record, bool) {
	i, ok := c.byPID[pid]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Taken returns when the cached snapshot was taken.
func (c *Cache) Taken() time.Time {
	if c.snap == nil {
		return time.Time{}
	}
	return c.snap.Taken
}

// Seq returns the cached snapshot's sequence number.
func (c *Cache) Seq() uint64 {
	if c.snap == nil {
		return 0
	}
	return c.snap.Seq
}

func (c *Cache) reindex() {
	c.byPID = make(map[int32]int, len(c.records))
	for i, r := range c.records {
		c.byPID[r.PID] = i
	}
}
